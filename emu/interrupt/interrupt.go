/*
 * SchedSim - Interrupt events and priority queue.
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

package interrupt

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Type string

const (
	PowerCut Type = "PowerCut"
	Timer    Type = "Timer"
	Device   Type = "Device"
	Mouse    Type = "Mouse"
	IO       Type = "IO"
)

var ErrUnknownInterrupt = errors.New("unknown interrupt type")

// Static priority of each type, higher is serviced first.
var priority = map[Type]int{
	PowerCut: 4,
	Timer:    3,
	Device:   2,
	Mouse:    1,
	IO:       1,
}

// All types in priority order.
var Types = []Type{PowerCut, Timer, Device, Mouse, IO}

var typeNames = map[string]Type{
	"POWERCUT": PowerCut,
	"POWER":    PowerCut,
	"TIMER":    Timer,
	"DEVICE":   Device,
	"MOUSE":    Mouse,
	"IO":       IO,
	"I/O":      IO,
}

// Convert name to interrupt type.
func ParseType(name string) (Type, error) {
	key := strings.ToUpper(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	key = strings.TrimSuffix(key, "INTERRUPT")
	t, ok := typeNames[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownInterrupt, name)
	}
	return t, nil
}

func (t Type) String() string {
	return string(t)
}

// Priority of type, 0 if not a valid type.
func (t Type) Priority() int {
	return priority[t]
}

func (t Type) Valid() bool {
	_, ok := priority[t]
	return ok
}

type Event struct {
	Type      Type
	TargetPid int // 0 when no process named.
	Priority  int
	Seq       int
}

// Does a come before b.
func (a *Event) Before(b *Event) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Seq < b.Seq
}

func (a *Event) String() string {
	if a.TargetPid != 0 {
		return fmt.Sprintf("%s(p%d #%d PID %d)", a.Type, a.Priority, a.Seq, a.TargetPid)
	}
	return fmt.Sprintf("%s(p%d #%d)", a.Type, a.Priority, a.Seq)
}

type eventHeap []*Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].Before(h[j]) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}

// Pending interrupts ordered by priority then arrival.
type Queue struct {
	events eventHeap
	seq    int
}

func NewQueue() *Queue {
	return &Queue{}
}

// Add a new event with the next sequence number.
func (q *Queue) Raise(t Type, pid int) (*Event, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInterrupt, t)
	}
	ev := &Event{Type: t, TargetPid: pid, Priority: t.Priority(), Seq: q.seq}
	q.seq++
	heap.Push(&q.events, ev)
	return ev, nil
}

// Remove highest priority event.
func (q *Queue) Pop() *Event {
	if len(q.events) == 0 {
		return nil
	}
	return heap.Pop(&q.events).(*Event)
}

// Highest priority event without removing it.
func (q *Queue) Peek() *Event {
	if len(q.events) == 0 {
		return nil
	}
	return q.events[0]
}

func (q *Queue) Len() int {
	return len(q.events)
}

// Sequence number the next event will get.
func (q *Queue) NextSeq() int {
	return q.seq
}

// Copy of pending events in service order.
func (q *Queue) Pending() []Event {
	list := make([]Event, len(q.events))
	for i, ev := range q.events {
		list[i] = *ev
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Before(&list[j]) })
	return list
}
