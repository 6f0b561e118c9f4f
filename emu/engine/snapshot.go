/*
 * SchedSim - Engine state snapshot.
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

package engine

import (
	"github.com/rcornwell/SchedSim/emu/interrupt"
	"github.com/rcornwell/SchedSim/emu/process"
	"github.com/rcornwell/SchedSim/emu/queue"
	"github.com/rcornwell/SchedSim/emu/scheduler"
)

type ProcessView struct {
	Pid      int              `json:"pid" yaml:"pid"`
	State    process.State    `json:"state" yaml:"state"`
	PC       int              `json:"pc" yaml:"pc"`
	Length   int              `json:"length" yaml:"length"`
	Priority int              `json:"priority" yaml:"priority"`
	Location process.Location `json:"location" yaml:"location"`
}

type InterruptView struct {
	Type     interrupt.Type `json:"type" yaml:"type"`
	Pid      int            `json:"pid,omitempty" yaml:"pid,omitempty"`
	Priority int            `json:"priority" yaml:"priority"`
	Seq      int            `json:"seq" yaml:"seq"`
}

// Interrupt in service. Step is -1 until the service routine begins.
type ActiveView struct {
	InterruptView `yaml:",inline"`
	Phase         string `json:"phase" yaml:"phase"`
	Step          int    `json:"step" yaml:"step"`
	StepName      string `json:"stepName,omitempty" yaml:"stepName,omitempty"`
	Steps         int    `json:"steps,omitempty" yaml:"steps,omitempty"`
}

type Snapshot struct {
	RunID       string              `json:"runId" yaml:"runId"`
	Tick        int                 `json:"tick" yaml:"tick"`
	Time        int                 `json:"time" yaml:"time"`
	Algorithm   scheduler.Algorithm `json:"algorithm" yaml:"algorithm"`
	Quantum     int                 `json:"quantum" yaml:"quantum"`
	QuantumUsed int                 `json:"quantumUsed" yaml:"quantumUsed"`
	Started     bool                `json:"started" yaml:"started"`
	Paused      bool                `json:"paused" yaml:"paused"`
	Deferred    bool                `json:"deferred" yaml:"deferred"`
	Blocked     bool                `json:"blocked" yaml:"blocked"`
	CPU         *ProcessView        `json:"cpu" yaml:"cpu"`
	Pending     []ProcessView       `json:"pending" yaml:"pending"`
	Ready       []ProcessView       `json:"ready" yaml:"ready"`
	Waiting     []ProcessView       `json:"waiting" yaml:"waiting"`
	Finished    []ProcessView       `json:"finished" yaml:"finished"`
	Interrupts  []InterruptView     `json:"interrupts" yaml:"interrupts"`
	Active      *ActiveView         `json:"active" yaml:"active"`
	PCB         []ProcessView       `json:"pcb" yaml:"pcb"`
}

func viewOf(p *process.Process) ProcessView {
	return ProcessView{
		Pid:      p.Pid,
		State:    p.State,
		PC:       p.PC,
		Length:   p.Length,
		Priority: p.Priority,
		Location: p.Location,
	}
}

func viewQueue(q *queue.Queue) []ProcessView {
	list := []ProcessView{}
	for _, p := range q.Procs() {
		list = append(list, viewOf(p))
	}
	return list
}

func viewInterrupt(ev *interrupt.Event) InterruptView {
	return InterruptView{Type: ev.Type, Pid: ev.TargetPid, Priority: ev.Priority, Seq: ev.Seq}
}

// Current state of the simulation.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		RunID:       e.runID,
		Tick:        e.tick,
		Time:        e.events.Now(),
		Algorithm:   e.sched.Algorithm(),
		Quantum:     e.sched.Quantum(),
		QuantumUsed: e.sched.Used(),
		Started:     e.started,
		Paused:      e.events.Paused(),
		Deferred:    e.deferred,
		Blocked:     e.blocked,
		Pending:     viewQueue(e.pending),
		Ready:       viewQueue(e.sched.Ready()),
		Waiting:     viewQueue(e.waiting),
		Finished:    viewQueue(e.finished),
		Interrupts:  []InterruptView{},
		PCB:         []ProcessView{},
	}
	if e.cpu != nil {
		v := viewOf(e.cpu)
		snap.CPU = &v
	}
	for _, ev := range e.irq.Pending() {
		snap.Interrupts = append(snap.Interrupts, viewInterrupt(&ev))
	}
	if e.current != nil {
		active := &ActiveView{InterruptView: viewInterrupt(e.current), Phase: e.phase, Step: -1}
		if cur, idx := e.isr.Current(); cur != nil {
			active.Step = idx
			active.StepName = e.isr.StepName()
			active.Steps = e.isr.Steps()
		}
		snap.Active = active
	}
	for _, p := range e.procs.All() {
		snap.PCB = append(snap.PCB, viewOf(p))
	}
	return snap
}

// Pid of running process, 0 if CPU idle.
func (e *Engine) Running() int {
	if e.cpu == nil {
		return 0
	}
	return e.cpu.Pid
}

// Process by pid.
func (e *Engine) Process(pid int) (ProcessView, bool) {
	p, ok := e.procs.Get(pid)
	if !ok {
		return ProcessView{}, false
	}
	return viewOf(p), true
}

// Check placement invariants, returns description of first violation.
func (e *Engine) Check() string {
	seen := map[int]string{}
	place := func(where string, p *process.Process) string {
		if prev, ok := seen[p.Pid]; ok {
			return "PID in both " + prev + " and " + where
		}
		seen[p.Pid] = where
		if p.PC < 0 || p.PC > p.Length {
			return "program counter out of range in " + where
		}
		return ""
	}
	queues := []*queue.Queue{e.pending, e.sched.Ready(), e.waiting, e.finished}
	for _, q := range queues {
		for _, p := range q.Procs() {
			if msg := place(q.Name(), p); msg != "" {
				return msg
			}
		}
	}
	if e.cpu != nil {
		if msg := place("CPU", e.cpu); msg != "" {
			return msg
		}
	}
	if len(seen) != e.procs.Len() {
		return "process missing from every queue"
	}
	if n := e.procs.Count(process.Running); n > 1 || (n == 1 && e.cpu == nil) {
		return "running state outside CPU"
	}
	return ""
}
