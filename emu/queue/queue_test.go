/*
 * SchedSim - Ordered process queue test set.
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
	"slices"
	"testing"

	"github.com/rcornwell/SchedSim/emu/process"
)

func byLength(a, b *process.Process) bool {
	if a.Length != b.Length {
		return a.Length < b.Length
	}
	return a.Pid < b.Pid
}

func procs(lengths ...int) []*process.Process {
	list := []*process.Process{}
	for i, l := range lengths {
		list = append(list, &process.Process{Pid: i + 1, Length: l})
	}
	return list
}

func TestFifo(t *testing.T) {
	q := New("Ready", nil)
	for _, p := range procs(5, 1, 3) {
		q.Insert(p)
	}
	if !slices.Equal(q.Pids(), []int{1, 2, 3}) {
		t.Errorf("FIFO order wrong: %v", q.Pids())
	}
	if p := q.Pop(); p.Pid != 1 {
		t.Errorf("Pop returned %d wanted 1", p.Pid)
	}
	if q.Len() != 2 || q.Peek().Pid != 2 {
		t.Errorf("queue after pop wrong: %v", q.Pids())
	}
}

func TestSortedInsert(t *testing.T) {
	q := New("Ready", byLength)
	list := procs(5, 2, 3, 2)
	for _, p := range list {
		q.Insert(p)
	}
	if !slices.Equal(q.Pids(), []int{2, 4, 3, 1}) {
		t.Errorf("sorted order wrong: %v", q.Pids())
	}
}

func TestSetOrder(t *testing.T) {
	q := New("Ready", nil)
	for _, p := range procs(5, 2, 3, 2) {
		q.Insert(p)
	}
	q.SetOrder(byLength)
	if !slices.Equal(q.Pids(), []int{2, 4, 3, 1}) {
		t.Errorf("re-sort wrong: %v", q.Pids())
	}
	q.SetOrder(nil)
	if !slices.Equal(q.Pids(), []int{2, 4, 3, 1}) {
		t.Errorf("switch to FIFO changed order: %v", q.Pids())
	}
	q.Insert(&process.Process{Pid: 9, Length: 1})
	if q.Pids()[4] != 9 {
		t.Errorf("FIFO insert not at tail: %v", q.Pids())
	}
}

func TestRemoveDrain(t *testing.T) {
	q := New("Waiting", nil)
	for _, p := range procs(1, 1, 1) {
		q.PushTail(p)
	}
	if p := q.Remove(2); p == nil || p.Pid != 2 {
		t.Errorf("Remove did not return process 2")
	}
	if q.Remove(7) != nil {
		t.Errorf("Remove of missing pid returned process")
	}
	list := q.Drain()
	if len(list) != 2 || q.Len() != 0 {
		t.Errorf("Drain left %d, returned %d", q.Len(), len(list))
	}
	if q.Pop() != nil || q.Peek() != nil {
		t.Errorf("empty queue returned process")
	}
}
