/*
 * SchedSim - Ordered process queues.
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

package queue

import (
	"sort"

	"github.com/rcornwell/SchedSim/emu/process"
)

// Ordering for a queue, nil means arrival order.
type Less func(a, b *process.Process) bool

type Queue struct {
	name  string
	procs []*process.Process
	less  Less
}

func New(name string, less Less) *Queue {
	return &Queue{name: name, less: less}
}

func (q *Queue) Name() string {
	return q.name
}

// Change ordering and re-sort. Equal entries keep their order.
func (q *Queue) SetOrder(less Less) {
	q.less = less
	if less == nil {
		return
	}
	sort.SliceStable(q.procs, func(i, j int) bool {
		return less(q.procs[i], q.procs[j])
	})
}

// Insert process in order, after any equal entries.
func (q *Queue) Insert(p *process.Process) {
	if q.less == nil {
		q.PushTail(p)
		return
	}
	idx := sort.Search(len(q.procs), func(i int) bool {
		return q.less(p, q.procs[i])
	})
	q.procs = append(q.procs, nil)
	copy(q.procs[idx+1:], q.procs[idx:])
	q.procs[idx] = p
}

// Put process at end of queue regardless of ordering.
func (q *Queue) PushTail(p *process.Process) {
	q.procs = append(q.procs, p)
}

// Remove and return head of queue.
func (q *Queue) Pop() *process.Process {
	if len(q.procs) == 0 {
		return nil
	}
	p := q.procs[0]
	q.procs[0] = nil
	q.procs = q.procs[1:]
	return p
}

// Return head of queue without removing it.
func (q *Queue) Peek() *process.Process {
	if len(q.procs) == 0 {
		return nil
	}
	return q.procs[0]
}

// Remove process by pid.
func (q *Queue) Remove(pid int) *process.Process {
	for i, p := range q.procs {
		if p.Pid == pid {
			q.procs = append(q.procs[:i], q.procs[i+1:]...)
			return p
		}
	}
	return nil
}

// Remove and return every process in order.
func (q *Queue) Drain() []*process.Process {
	list := q.procs
	q.procs = nil
	return list
}

func (q *Queue) Len() int {
	return len(q.procs)
}

// Copy of queue contents in order.
func (q *Queue) Procs() []*process.Process {
	return append([]*process.Process{}, q.procs...)
}

// Pids in order.
func (q *Queue) Pids() []int {
	pids := make([]int, len(q.procs))
	for i, p := range q.procs {
		pids[i] = p.Pid
	}
	return pids
}
