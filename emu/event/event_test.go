/*
 * SchedSim - Event system test cases.
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
	"testing"
)

var stepCount int

type owner struct {
	id   int
	iarg int
	time int
	hits int
}

var (
	ownerA owner
	ownerB owner
	ownerC owner
	ownerD owner
	list   *EventList
)

// Callbacks, save step count in routine time and set argument to iarg.
func (o *owner) callback(iarg int) {
	o.iarg = iarg
	o.time = stepCount
	o.hits++
}

// Callback that schedules another event for owner A.
func (o *owner) chainCallback(iarg int) {
	o.callback(iarg)
	list.AddEvent(ownerA.id, ownerA.callback, iarg, iarg)
}

// Initialize for each test.
func initTest() {
	stepCount = 0
	list = NewEventList()
	ownerA = owner{id: 1}
	ownerB = owner{id: 2}
	ownerC = owner{id: 3}
	ownerD = owner{id: 4}
}

// Run list for a number of steps.
func run(steps int) {
	for i := 0; i < steps; i++ {
		stepCount++
		list.Advance(1)
	}
}

func TestAddEvent1(t *testing.T) {
	initTest()
	list.AddEvent(ownerA.id, ownerA.callback, 10, 1)
	run(20)
	if ownerA.time != 10 {
		t.Errorf("Event did not fire at correct time %d got %d", 10, ownerA.time)
	}
	if ownerA.iarg != 1 {
		t.Errorf("Event did not set data correct %d got %d", 1, ownerA.iarg)
	}
}

// Add two events, second one first.
func TestAddEvent2(t *testing.T) {
	initTest()
	list.AddEvent(ownerA.id, ownerA.callback, 10, 1)
	list.AddEvent(ownerB.id, ownerB.callback, 5, 2)
	run(20)
	if ownerA.time != 10 {
		t.Errorf("Event A did not fire at correct time %d got %d", 10, ownerA.time)
	}
	if ownerB.time != 5 {
		t.Errorf("Event B did not fire at correct time %d got %d", 5, ownerB.time)
	}
	if ownerB.iarg != 2 {
		t.Errorf("Event B did not set data correct %d got %d", 2, ownerB.iarg)
	}
}

// Events with the same time fire in the order added.
func TestAddEventSameTime(t *testing.T) {
	initTest()
	order := []int{}
	list.AddEvent(1, func(i int) { order = append(order, i) }, 10, 1)
	list.AddEvent(1, func(i int) { order = append(order, i) }, 10, 2)
	list.AddEvent(1, func(i int) { order = append(order, i) }, 10, 3)
	run(10)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("Events did not fire in arrival order got %v", order)
	}
}

// Add event during event.
func TestAddEventChained(t *testing.T) {
	initTest()
	list.AddEvent(ownerC.id, ownerC.chainCallback, 10, 5)
	run(30)
	if ownerC.time != 10 {
		t.Errorf("Event C did not fire at correct time %d got %d", 10, ownerC.time)
	}
	if ownerA.time != 15 {
		t.Errorf("Event A did not fire at correct time %d got %d", 15, ownerA.time)
	}
}

// Cancel an event while events in queue.
func TestCancelEvent(t *testing.T) {
	initTest()
	list.AddEvent(ownerA.id, ownerA.callback, 10, 5)
	list.AddEvent(ownerB.id, ownerB.callback, 20, 2)
	list.AddEvent(ownerD.id, ownerD.callback, 30, 3)
	for i := 0; i < 30; i++ {
		stepCount++
		list.Advance(1)
		if ownerA.iarg == 5 {
			list.CancelEvent(ownerB.id, 2)
		}
	}
	if ownerA.time != 10 {
		t.Errorf("Event A did not fire at correct time %d got %d", 10, ownerA.time)
	}
	if ownerB.hits != 0 {
		t.Errorf("Event B fired after cancel")
	}
	if ownerD.time != 30 {
		t.Errorf("Event D did not fire at correct time %d got %d", 30, ownerD.time)
	}
}

// Cancel every event of one owner.
func TestCancelOwner(t *testing.T) {
	initTest()
	list.AddEvent(ownerA.id, ownerA.callback, 10, 1)
	list.AddEvent(ownerB.id, ownerB.callback, 15, 2)
	list.AddEvent(ownerA.id, ownerA.callback, 20, 3)
	if n := list.CancelOwner(ownerA.id); n != 2 {
		t.Errorf("CancelOwner removed %d events wanted 2", n)
	}
	run(30)
	if ownerA.hits != 0 {
		t.Errorf("Cancelled events fired %d times", ownerA.hits)
	}
	if ownerB.time != 15 {
		t.Errorf("Event B did not fire at correct time %d got %d", 15, ownerB.time)
	}
}

// Test event at zero units.
func TestAddEventZero(t *testing.T) {
	initTest()
	list.AddEvent(ownerA.id, ownerA.callback, 0, 5)
	if ownerA.hits != 1 || ownerA.iarg != 5 {
		t.Errorf("Zero time event did not fire at once")
	}
	if list.AnyEvent() {
		t.Errorf("Zero time event left on list")
	}
}

// Large advance fires everything due and keeps later events exact.
func TestAdvanceOvershoot(t *testing.T) {
	initTest()
	list.AddEvent(ownerA.id, ownerA.callback, 3, 1)
	list.AddEvent(ownerB.id, ownerB.callback, 10, 2)
	list.Advance(5)
	if ownerA.hits != 1 {
		t.Errorf("Event A did not fire on overshoot")
	}
	rem, ok := list.Remaining(ownerB.id, 2)
	if !ok || rem != 5 {
		t.Errorf("Event B remaining wanted 5 got %d", rem)
	}
}

// Recurring event re-added from its callback keeps its period over a large advance.
func TestAdvanceRecurring(t *testing.T) {
	initTest()
	var tick func(int)
	tick = func(iarg int) {
		ownerA.callback(iarg)
		list.AddEvent(ownerA.id, tick, 6, iarg)
	}
	list.AddEvent(ownerA.id, tick, 6, 1)
	list.Advance(20)
	if ownerA.hits != 3 {
		t.Errorf("Recurring event fired %d times wanted 3", ownerA.hits)
	}
	rem, ok := list.Remaining(ownerA.id, 1)
	if !ok || rem != 4 {
		t.Errorf("Recurring event remaining wanted 4 got %d", rem)
	}
	if list.Now() != 20 {
		t.Errorf("Now wanted 20 got %d", list.Now())
	}
}

// Paused list does not advance, residual delay preserved.
func TestPauseResume(t *testing.T) {
	initTest()
	list.AddEvent(ownerA.id, ownerA.callback, 10, 1)
	run(4)
	if !list.Pause() {
		t.Errorf("Pause of running list failed")
	}
	if list.Pause() {
		t.Errorf("Second pause reported change")
	}
	run(50)
	if ownerA.hits != 0 {
		t.Errorf("Event fired while paused")
	}
	rem, _ := list.Remaining(ownerA.id, 1)
	if rem != 6 {
		t.Errorf("Remaining time changed while paused wanted 6 got %d", rem)
	}
	if !list.Resume() {
		t.Errorf("Resume of paused list failed")
	}
	if list.Resume() {
		t.Errorf("Second resume reported change")
	}
	run(5)
	if ownerA.hits != 0 {
		t.Errorf("Event fired early after resume")
	}
	run(1)
	if ownerA.hits != 1 {
		t.Errorf("Event did not fire after residual delay")
	}
}

// Total delay consumed is the same for any number of pause cycles.
func TestPauseCycles(t *testing.T) {
	for _, cycles := range []int{0, 1, 3, 10} {
		initTest()
		list.AddEvent(ownerA.id, ownerA.callback, 12, 1)
		advanced := 0
		for ownerA.hits == 0 {
			list.Advance(1)
			advanced++
			if advanced%2 == 0 && cycles > 0 {
				list.Pause()
				list.Advance(7)
				list.Resume()
				cycles--
			}
		}
		if advanced != 12 {
			t.Errorf("Event consumed %d units wanted 12", advanced)
		}
	}
}

// Zero delay while paused fires on resume.
func TestZeroWhilePaused(t *testing.T) {
	initTest()
	list.Pause()
	list.AddEvent(ownerA.id, ownerA.callback, 0, 1)
	if ownerA.hits != 0 {
		t.Errorf("Zero time event fired while paused")
	}
	list.Resume()
	if ownerA.hits != 1 {
		t.Errorf("Zero time event did not fire on resume")
	}
}

func TestDebugOption(t *testing.T) {
	if err := Debug("FIRE"); err != nil {
		t.Errorf("Valid debug option rejected: %v", err)
	}
	if err := Debug("BOGUS"); err == nil {
		t.Errorf("Invalid debug option accepted")
	}
	debugMsk = 0
}
