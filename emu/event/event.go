/*
 * SchedSim - Event scheduler.
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

package event

import (
	"errors"

	"github.com/rcornwell/SchedSim/util/debug"
)

// Delayed callbacks are held on a list where the time of every entry is
// relative to the entry before it. Only the head is adjusted as time moves,
// so the delay still owed to every entry is always exact. Stopping the
// list while paused therefore preserves all residual delays with no
// bookkeeping against the wall clock.

type Callback = func(iarg int)

type Event struct {
	time  int      // Time after previous event
	owner int      // Owner tag used to cancel event
	cb    Callback // Function to callback
	iarg  int      // Integer argument
	prev  *Event
	next  *Event
}

type EventList struct {
	head   *Event
	tail   *Event
	paused bool
	now    int // Total time advanced.
}

const (
	debugAdd = 1 << iota
	debugFire
	debugCancel
)

var debugOption = map[string]int{
	"ADD":    debugAdd,
	"FIRE":   debugFire,
	"CANCEL": debugCancel,
}

var debugMsk int

// Create a new empty event list.
func NewEventList() *EventList {
	return &EventList{}
}

// Add an event. A zero delay runs the callback at once unless the list is paused,
// in which case it runs as soon as the list is resumed.
func (el *EventList) AddEvent(owner int, cb Callback, time int, iarg int) {
	if time <= 0 {
		if !el.paused {
			debug.Debugf("EVENT", debugMsk, debugFire, "owner %d fire now arg %d", owner, iarg)
			cb(iarg)
			return
		}
		time = 0
	}

	debug.Debugf("EVENT", debugMsk, debugAdd, "owner %d add %d arg %d", owner, time, iarg)
	ev := &Event{owner: owner, cb: cb, time: time, iarg: iarg}

	evptr := el.head
	// If empty put on head
	if evptr == nil {
		el.head = ev
		el.tail = ev
		return
	}

	// Scan for place to install it, equal times keep arrival order.
	for evptr != nil {
		if ev.time < evptr.time {
			// Remove current time from next time
			evptr.time -= ev.time
			ev.prev = evptr.prev
			ev.next = evptr
			evptr.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				el.head = ev
			}
			return
		}
		// Make new event relative to this one
		ev.time -= evptr.time
		evptr = evptr.next
	}

	// Get here, put it on tail of list
	ev.prev = el.tail
	el.tail.next = ev
	el.tail = ev
}

// Cancel first event matching owner and argument.
func (el *EventList) CancelEvent(owner int, iarg int) bool {
	for evptr := el.head; evptr != nil; evptr = evptr.next {
		if evptr.owner != owner || evptr.iarg != iarg {
			continue
		}
		debug.Debugf("EVENT", debugMsk, debugCancel, "owner %d cancel arg %d", owner, iarg)
		el.unlink(evptr)
		return true
	}
	return false
}

// Cancel all events for an owner.
func (el *EventList) CancelOwner(owner int) int {
	count := 0
	evptr := el.head
	for evptr != nil {
		nxt := evptr.next
		if evptr.owner == owner {
			el.unlink(evptr)
			count++
		}
		evptr = nxt
	}
	return count
}

// Remove an event, giving its time to the next event.
func (el *EventList) unlink(evptr *Event) {
	nxt := evptr.next
	if nxt != nil {
		nxt.time += evptr.time
		nxt.prev = evptr.prev
	} else {
		el.tail = evptr.prev
	}

	if evptr.prev != nil {
		evptr.prev.next = nxt
	} else {
		el.head = nxt
	}
	evptr.prev = nil
	evptr.next = nil
}

// Advance time by t units, firing every event that comes due. Events
// added by a callback are relative to the time that callback fired.
func (el *EventList) Advance(t int) {
	if t < 0 {
		t = 0
	}
	for el.head != nil && !el.paused {
		ev := el.head
		if ev.time > t {
			ev.time -= t
			el.now += t
			return
		}
		t -= ev.time
		el.now += ev.time
		el.head = ev.next
		if el.head != nil {
			el.head.prev = nil
		} else {
			el.tail = nil
		}
		ev.next = nil
		debug.Debugf("EVENT", debugMsk, debugFire, "owner %d fire arg %d", ev.owner, ev.iarg)
		ev.cb(ev.iarg)
	}
	if !el.paused {
		el.now += t
	}
}

// Stop time, returns false if already paused.
func (el *EventList) Pause() bool {
	if el.paused {
		return false
	}
	el.paused = true
	return true
}

// Restart time, returns false if not paused. Events that came due while
// paused fire now.
func (el *EventList) Resume() bool {
	if !el.paused {
		return false
	}
	el.paused = false
	el.Advance(0)
	return true
}

// Is event list stopped.
func (el *EventList) Paused() bool {
	return el.paused
}

// Return true if any events pending.
func (el *EventList) AnyEvent() bool {
	return el.head != nil
}

// Number of events pending.
func (el *EventList) Len() int {
	n := 0
	for evptr := el.head; evptr != nil; evptr = evptr.next {
		n++
	}
	return n
}

// Total time the list has been advanced.
func (el *EventList) Now() int {
	return el.now
}

// Time until event for owner and argument fires.
func (el *EventList) Remaining(owner int, iarg int) (int, bool) {
	total := 0
	for evptr := el.head; evptr != nil; evptr = evptr.next {
		total += evptr.time
		if evptr.owner == owner && evptr.iarg == iarg {
			return total, true
		}
	}
	return 0, false
}

// Time until next event fires.
func (el *EventList) Next() (int, bool) {
	if el.head == nil {
		return 0, false
	}
	return el.head.time, true
}

// Remove all events.
func (el *EventList) Clear() {
	el.head = nil
	el.tail = nil
}

// Enable debug option.
func Debug(opt string) error {
	flag, ok := debugOption[opt]
	if !ok {
		return errors.New("event debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
