/*
 * SchedSim - Process scheduler.
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

package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rcornwell/SchedSim/emu/process"
	"github.com/rcornwell/SchedSim/emu/queue"
)

type Algorithm string

const (
	FCFS     Algorithm = "FCFS"
	RR       Algorithm = "RR"
	SJF      Algorithm = "SJF"
	SRTF     Algorithm = "SRTF"
	Priority Algorithm = "PRIORITY"
)

const DefaultQuantum = 3

var (
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	ErrInvalidQuantum   = errors.New("invalid quantum")
)

// All algorithms in display order.
var Algorithms = []Algorithm{FCFS, RR, SJF, SRTF, Priority}

var algorithmNames = map[string]Algorithm{
	"FCFS":       FCFS,
	"FIFO":       FCFS,
	"RR":         RR,
	"ROUNDROBIN": RR,
	"SJF":        SJF,
	"SRTF":       SRTF,
	"PRIORITY":   Priority,
	"PRIO":       Priority,
}

// Convert name to algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	key := strings.ToUpper(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	alg, ok := algorithmNames[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownAlgorithm, name)
	}
	return alg, nil
}

func (a Algorithm) String() string {
	return string(a)
}

func (a Algorithm) Valid() bool {
	switch a {
	case FCFS, RR, SJF, SRTF, Priority:
		return true
	}
	return false
}

// Can a ready process take the CPU from a running one.
func (a Algorithm) Preemptive() bool {
	return a == SRTF || a == Priority
}

// Ready queue ordering, nil for arrival order.
func (a Algorithm) Less() queue.Less {
	switch a {
	case SJF:
		return func(x, y *process.Process) bool {
			if x.Length != y.Length {
				return x.Length < y.Length
			}
			return x.Pid < y.Pid
		}
	case SRTF:
		return func(x, y *process.Process) bool {
			if x.Remaining() != y.Remaining() {
				return x.Remaining() < y.Remaining()
			}
			return x.Pid < y.Pid
		}
	case Priority:
		return func(x, y *process.Process) bool {
			if x.Priority != y.Priority {
				return x.Priority > y.Priority
			}
			return x.Pid < y.Pid
		}
	}
	return nil
}

type Scheduler struct {
	alg     Algorithm
	quantum int
	used    int // Ticks since dispatch under RR.
	ready   *queue.Queue
}

func New(alg Algorithm, quantum int) (*Scheduler, error) {
	if !alg.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
	}
	if quantum < 1 {
		return nil, fmt.Errorf("%w: %d must be at least 1", ErrInvalidQuantum, quantum)
	}
	return &Scheduler{
		alg:     alg,
		quantum: quantum,
		ready:   queue.New("Ready", alg.Less()),
	}, nil
}

func (s *Scheduler) Algorithm() Algorithm {
	return s.alg
}

// Change algorithm, Ready is re-sorted. Returns true if changed.
func (s *Scheduler) SetAlgorithm(alg Algorithm) (bool, error) {
	if !alg.Valid() {
		return false, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
	}
	if alg == s.alg {
		return false, nil
	}
	if alg == RR {
		s.used = 0
	}
	s.alg = alg
	s.ready.SetOrder(alg.Less())
	return true, nil
}

func (s *Scheduler) Quantum() int {
	return s.quantum
}

func (s *Scheduler) SetQuantum(quantum int) error {
	if quantum < 1 {
		return fmt.Errorf("%w: %d must be at least 1", ErrInvalidQuantum, quantum)
	}
	s.quantum = quantum
	return nil
}

// Ticks used by running process.
func (s *Scheduler) Used() int {
	return s.used
}

func (s *Scheduler) ResetQuantum() {
	s.used = 0
}

func (s *Scheduler) Ready() *queue.Queue {
	return s.ready
}

// Place process on Ready in algorithm order.
func (s *Scheduler) Admit(p *process.Process) {
	p.Move(process.Ready, process.InReady)
	s.ready.Insert(p)
}

// Take next process from Ready and mark it running.
func (s *Scheduler) SelectNext() *process.Process {
	p := s.ready.Pop()
	if p == nil {
		return nil
	}
	p.Move(process.Running, process.InCPU)
	s.used = 0
	return p
}

// Charge one tick to running process, returns true when quantum expired.
func (s *Scheduler) Charge() bool {
	if s.alg != RR {
		return false
	}
	s.used++
	return s.used >= s.quantum
}

// Return the ready process that should replace running, or nil.
func (s *Scheduler) CheckPreemption(running *process.Process) *process.Process {
	if running == nil {
		return nil
	}
	best := s.ready.Peek()
	if best == nil {
		return nil
	}
	switch s.alg {
	case SRTF:
		if best.Remaining() < running.Remaining() {
			return best
		}
	case Priority:
		if best.Priority > running.Priority {
			return best
		}
	}
	return nil
}
