/*
 * SchedSim - Process control blocks.
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

package process

import (
	"errors"
	"fmt"
	"sort"
)

// Lifecycle state of a process.
type State string

const (
	New      State = "New"
	Ready    State = "Ready"
	Running  State = "Running"
	Waiting  State = "Waiting"
	Finished State = "Finished"
)

func (s State) String() string {
	return string(s)
}

// Finished is the only terminal state.
func (s State) IsTerminal() bool {
	return s == Finished
}

// Where a process currently lives.
type Location string

const (
	InPending  Location = "Pending"
	InReady    Location = "Ready"
	InCPU      Location = "CPU"
	InWaiting  Location = "Waiting"
	InFinished Location = "Finished"
)

const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
	DefaultLength   = 6
)

var (
	ErrInvalidLength   = errors.New("invalid length")
	ErrInvalidPriority = errors.New("invalid priority")
)

type Process struct {
	Pid      int
	PC       int
	Length   int
	Priority int
	State    State
	Location Location
}

// Instructions left to execute.
func (p *Process) Remaining() int {
	return p.Length - p.PC
}

// Has process executed all instructions.
func (p *Process) Done() bool {
	return p.PC >= p.Length
}

// Execute one instruction, never past length.
func (p *Process) Step() {
	if p.PC < p.Length {
		p.PC++
	}
}

// Move process to new state and location.
func (p *Process) Move(state State, loc Location) {
	p.State = state
	p.Location = loc
}

func (p *Process) String() string {
	return fmt.Sprintf("P%d(%d/%d)", p.Pid, p.PC, p.Length)
}

// Check parameters of a new process.
func Validate(length, priority int) error {
	if length < 1 {
		return fmt.Errorf("%w: length %d must be at least 1", ErrInvalidLength, length)
	}
	if priority < MinPriority || priority > MaxPriority {
		return fmt.Errorf("%w: priority %d must be between %d and %d",
			ErrInvalidPriority, priority, MinPriority, MaxPriority)
	}
	return nil
}

// Table of every process created, pids assigned from 1.
type Table struct {
	next  int
	procs map[int]*Process
}

func NewTable() *Table {
	return &Table{next: 1, procs: map[int]*Process{}}
}

// Create a new process in New state.
func (t *Table) Create(length, priority int) (*Process, error) {
	if err := Validate(length, priority); err != nil {
		return nil, err
	}
	p := &Process{
		Pid:      t.next,
		Length:   length,
		Priority: priority,
		State:    New,
		Location: InPending,
	}
	t.procs[p.Pid] = p
	t.next++
	return p, nil
}

func (t *Table) Get(pid int) (*Process, bool) {
	p, ok := t.procs[pid]
	return p, ok
}

func (t *Table) Len() int {
	return len(t.procs)
}

// All processes ordered by pid.
func (t *Table) All() []*Process {
	list := make([]*Process, 0, len(t.procs))
	for _, p := range t.procs {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Pid < list[j].Pid })
	return list
}

// Count processes in a state.
func (t *Table) Count(state State) int {
	n := 0
	for _, p := range t.procs {
		if p.State == state {
			n++
		}
	}
	return n
}
