/*
 * SchedSim - Console commands.
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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	command "github.com/rcornwell/SchedSim/command/command"
	"github.com/rcornwell/SchedSim/emu/interrupt"
	"github.com/rcornwell/SchedSim/emu/process"
	"github.com/rcornwell/SchedSim/emu/scheduler"
)

var cmdList []cmd

func init() {
	cmdList = []cmd{
		{Name: "create", Min: 1, Usage: "<length> [<priority>] [priority=<n>]", Process: create},
		{Name: "start", Min: 3, Process: start},
		{Name: "algorithm", Min: 1, Usage: "[fcfs|rr|sjf|srtf|priority]", Process: algorithm, Complete: algorithmComplete},
		{Name: "quantum", Min: 2, Usage: "[<n>]", Process: quantum},
		{Name: "interrupt", Min: 1, Usage: "<powercut|timer|device|mouse|io> [<pid>] [pid=<n>]", Process: raise, Complete: interruptComplete},
		{Name: "pause", Min: 2, Process: pause},
		{Name: "resume", Min: 1, Process: resume},
		{Name: "step", Min: 3, Usage: "[<ticks>]", Process: step},
		{Name: "show", Min: 2, Usage: "[yaml]", Process: show, Complete: showComplete},
		{Name: "pcb", Min: 2, Process: pcb},
		{Name: "log", Min: 1, Usage: "[<entries>]", Process: logEntries},
		{Name: "help", Min: 1, Process: help},
		{Name: "quit", Min: 4, Process: quit},
	}
}

var createOptions = []command.Options{
	{Name: "PRIORITY", OptionType: command.OptionNumber},
}

var interruptOptions = []command.Options{
	{Name: "PID", OptionType: command.OptionNumber},
}

var showOptions = []command.Options{
	{Name: "YAML", OptionType: command.OptionSwitch},
}

// Optional positional number, def if none given.
func (line *cmdLine) optNumber(def int) (int, error) {
	if !line.isNumber() {
		return def, nil
	}
	return line.getNumber()
}

// Handle create command.
func create(line *cmdLine, sim command.Simulator, out io.Writer) (bool, error) {
	slog.Debug("Command Create")

	length, err := line.getNumber()
	if err != nil {
		return false, errors.New("create requires a length")
	}
	priority, err := line.optNumber(process.DefaultPriority)
	if err != nil {
		return false, errors.New("priority must be a number")
	}
	optlist, err := line.getOptions(createOptions)
	if err != nil {
		return false, err
	}
	for _, opt := range optlist {
		priority = opt.Value
	}

	pid, err := sim.CreateProcess(length, priority)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(out, "Created PID %d\n", pid)
	return false, nil
}

// Handle start command.
func start(line *cmdLine, sim command.Simulator, _ io.Writer) (bool, error) {
	slog.Debug("Command Start")

	if err := line.checkEOL(); err != nil {
		return false, err
	}
	return false, sim.StartScheduling()
}

// Handle algorithm command, no argument shows current one.
func algorithm(line *cmdLine, sim command.Simulator, out io.Writer) (bool, error) {
	slog.Debug("Command Algorithm")

	name := line.getWord(false)
	if err := line.checkEOL(); err != nil {
		return false, err
	}
	if name == "" {
		names := []string{}
		for _, alg := range scheduler.Algorithms {
			names = append(names, strings.ToLower(alg.String()))
		}
		fmt.Fprintf(out, "Algorithm: %s (%s)\n", sim.Snapshot().Algorithm, strings.Join(names, ", "))
		return false, nil
	}
	return false, sim.SetAlgorithm(name)
}

func algorithmComplete(line *cmdLine) []string {
	words := []string{}
	for _, alg := range scheduler.Algorithms {
		words = append(words, strings.ToLower(alg.String()))
	}
	return line.completeWord(words)
}

// Handle quantum command, no argument shows current value.
func quantum(line *cmdLine, sim command.Simulator, out io.Writer) (bool, error) {
	slog.Debug("Command Quantum")

	if line.checkEOL() == nil {
		snap := sim.Snapshot()
		fmt.Fprintf(out, "Quantum: %d used: %d\n", snap.Quantum, snap.QuantumUsed)
		return false, nil
	}
	value, err := line.getNumber()
	if err != nil {
		return false, errors.New("quantum requires a number")
	}
	if err := line.checkEOL(); err != nil {
		return false, err
	}
	return false, sim.SetQuantum(value)
}

// Handle interrupt command.
func raise(line *cmdLine, sim command.Simulator, _ io.Writer) (bool, error) {
	slog.Debug("Command Interrupt")

	name := line.getWord(false)
	if name == "" {
		return false, errors.New("interrupt requires a type")
	}
	pid, err := line.optNumber(0)
	if err != nil {
		return false, errors.New("pid must be a number")
	}
	optlist, err := line.getOptions(interruptOptions)
	if err != nil {
		return false, err
	}
	for _, opt := range optlist {
		pid = opt.Value
	}
	return false, sim.RaiseInterrupt(name, pid)
}

func interruptComplete(line *cmdLine) []string {
	words := []string{}
	for _, t := range interrupt.Types {
		words = append(words, strings.ToLower(string(t)))
	}
	return line.completeWord(words)
}

// Handle pause command.
func pause(line *cmdLine, sim command.Simulator, out io.Writer) (bool, error) {
	slog.Debug("Command Pause")

	if err := line.checkEOL(); err != nil {
		return false, err
	}
	if !sim.Pause() {
		fmt.Fprintln(out, "Already paused")
	}
	return false, nil
}

// Handle resume command.
func resume(line *cmdLine, sim command.Simulator, out io.Writer) (bool, error) {
	slog.Debug("Command Resume")

	if err := line.checkEOL(); err != nil {
		return false, err
	}
	if !sim.Resume() {
		fmt.Fprintln(out, "Not paused")
	}
	return false, nil
}

// Handle step command, runs ticks by hand.
func step(line *cmdLine, sim command.Simulator, out io.Writer) (bool, error) {
	slog.Debug("Command Step")

	count, err := line.optNumber(1)
	if err != nil {
		return false, errors.New("step count must be a number")
	}
	if err := line.checkEOL(); err != nil {
		return false, err
	}
	if count < 1 {
		return false, errors.New("step count must be at least 1")
	}
	done := sim.Step(count)
	if done < count {
		fmt.Fprintf(out, "Paused after %d of %d ticks\n", done, count)
	}
	return false, nil
}

// Handle show command.
func show(line *cmdLine, sim command.Simulator, out io.Writer) (bool, error) {
	slog.Debug("Command Show")

	optlist, err := line.getOptions(showOptions)
	if err != nil {
		return false, err
	}
	snap := sim.Snapshot()
	if len(optlist) != 0 {
		return false, writeYAML(out, snap)
	}
	writeSnapshot(out, snap)
	return false, nil
}

func showComplete(line *cmdLine) []string {
	return line.completeWord([]string{"yaml"})
}

// Handle pcb command.
func pcb(line *cmdLine, sim command.Simulator, out io.Writer) (bool, error) {
	slog.Debug("Command PCB")

	if err := line.checkEOL(); err != nil {
		return false, err
	}
	writePCB(out, sim.Snapshot().PCB)
	return false, nil
}

// Handle log command, shows last entries.
func logEntries(line *cmdLine, sim command.Simulator, out io.Writer) (bool, error) {
	slog.Debug("Command Log")

	count, err := line.optNumber(0)
	if err != nil {
		return false, errors.New("log count must be a number")
	}
	if err := line.checkEOL(); err != nil {
		return false, err
	}
	entries := sim.LogSince(0)
	if count > 0 && count < len(entries) {
		entries = entries[len(entries)-count:]
	}
	for _, entry := range entries {
		fmt.Fprintln(out, entry.String())
	}
	return false, nil
}

// Handle help command.
func help(_ *cmdLine, _ command.Simulator, out io.Writer) (bool, error) {
	slog.Debug("Command Help")

	for _, c := range cmdList {
		fmt.Fprintf(out, "  %-10s %s\n", c.Name, c.Usage)
	}
	return false, nil
}

// Handle quit command.
func quit(_ *cmdLine, _ command.Simulator, _ io.Writer) (bool, error) {
	slog.Debug("Command Quit")
	return true, nil
}
