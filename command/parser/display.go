/*
 * SchedSim - Display of simulation state.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/rcornwell/SchedSim/emu/engine"
)

func pidList(list []engine.ProcessView) string {
	pids := []string{}
	for _, p := range list {
		pids = append(pids, strconv.Itoa(p.Pid))
	}
	return strings.Join(pids, " ")
}

func interruptList(list []engine.InterruptView) string {
	irqs := []string{}
	for _, irq := range list {
		if irq.Pid != 0 {
			irqs = append(irqs, fmt.Sprintf("%s(%d) pid %d", irq.Type, irq.Priority, irq.Pid))
		} else {
			irqs = append(irqs, fmt.Sprintf("%s(%d)", irq.Type, irq.Priority))
		}
	}
	return strings.Join(irqs, ", ")
}

// Summary of snapshot followed by queue table.
func writeSnapshot(out io.Writer, snap engine.Snapshot) {
	state := "running"
	switch {
	case snap.Paused:
		state = "paused"
	case !snap.Started:
		state = "not started"
	}
	fmt.Fprintf(out, "Tick: %d  Time: %dms  Algorithm: %s  Quantum: %d/%d  State: %s\n",
		snap.Tick, snap.Time, snap.Algorithm, snap.QuantumUsed, snap.Quantum, state)
	if snap.CPU != nil {
		fmt.Fprintf(out, "CPU: PID %d PC=%d/%d\n", snap.CPU.Pid, snap.CPU.PC, snap.CPU.Length)
	} else {
		fmt.Fprintln(out, "CPU: idle")
	}
	if a := snap.Active; a != nil {
		fmt.Fprintf(out, "Servicing: %s phase %s", a.Type, a.Phase)
		if a.Step >= 0 {
			fmt.Fprintf(out, " step %d/%d %s", a.Step+1, a.Steps, a.StepName)
		}
		fmt.Fprintln(out)
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Queue", "Contents"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{"Pending", pidList(snap.Pending)})
	table.Append([]string{"Ready", pidList(snap.Ready)})
	table.Append([]string{"Waiting", pidList(snap.Waiting)})
	table.Append([]string{"Finished", pidList(snap.Finished)})
	table.Append([]string{"Interrupts", interruptList(snap.Interrupts)})
	table.Render()
}

// Process control block table.
func writePCB(out io.Writer, list []engine.ProcessView) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No processes")
		return
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Pid", "State", "PC", "Length", "Remaining", "Priority", "Location"})
	for _, p := range list {
		table.Append([]string{
			strconv.Itoa(p.Pid),
			string(p.State),
			strconv.Itoa(p.PC),
			strconv.Itoa(p.Length),
			strconv.Itoa(p.Length - p.PC),
			strconv.Itoa(p.Priority),
			string(p.Location),
		})
	}
	table.Render()
}

func writeYAML(out io.Writer, snap engine.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = out.Write(data)
	return err
}
