/*
 * SchedSim - Interrupt service routine sequencer.
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

package isr

import (
	"errors"
	"strings"

	"github.com/rcornwell/SchedSim/emu/event"
	"github.com/rcornwell/SchedSim/emu/interrupt"
	"github.com/rcornwell/SchedSim/util/debug"
)

// Action taken on entry to a step.
type Action int

const (
	None        Action = iota
	SaveWaiting        // Move running process to Waiting.
	SaveReady          // Move running process to Ready.
	CompleteIO         // Move head of Waiting to Ready.
)

type Step struct {
	Name   string
	Action Action
	Long   bool // Uses IO delay.
}

var ioSteps = []Step{
	{Name: "received"},
	{Name: "context saved", Action: SaveWaiting},
	{Name: "I/O complete", Action: CompleteIO, Long: true},
	{Name: "completed"},
}

var genericSteps = []Step{
	{Name: "received"},
	{Name: "context saved", Action: SaveReady},
	{Name: "completed"},
}

// Steps run for an interrupt type.
func Template(t interrupt.Type) []Step {
	if t == interrupt.IO {
		return ioSteps
	}
	return genericSteps
}

// Delays between steps.
type Delays struct {
	Step int
	IO   int
}

// Work done for the sequencer by its owner.
type Hooks interface {
	Started(ev *interrupt.Event)
	SaveContext(ev *interrupt.Event, toWaiting bool)
	CompleteIO(ev *interrupt.Event)
	Completed(ev *interrupt.Event)
}

var ErrBusy = errors.New("interrupt service routine already active")

const (
	debugStep = 1 << iota
	debugDone
)

var debugOption = map[string]int{
	"STEP": debugStep,
	"DONE": debugDone,
}

var debugMsk int

type Sequencer struct {
	events *event.EventList
	owner  int
	hooks  Hooks
	active *interrupt.Event
	steps  []Step
	index  int
	delays Delays
}

func NewSequencer(events *event.EventList, owner int, hooks Hooks) *Sequencer {
	return &Sequencer{events: events, owner: owner, hooks: hooks, index: -1}
}

// Begin servicing an interrupt.
func (s *Sequencer) Start(ev *interrupt.Event, delays Delays) error {
	if s.active != nil {
		return ErrBusy
	}
	s.active = ev
	s.steps = Template(ev.Type)
	s.delays = delays
	s.index = 0
	s.hooks.Started(ev)
	s.enter()
	return nil
}

// Is an interrupt being serviced.
func (s *Sequencer) Active() bool {
	return s.active != nil
}

// Current interrupt and step index, nil when idle.
func (s *Sequencer) Current() (*interrupt.Event, int) {
	if s.active == nil {
		return nil, -1
	}
	return s.active, s.index
}

// Name of current step.
func (s *Sequencer) StepName() string {
	if s.active == nil || s.index < 0 || s.index >= len(s.steps) {
		return ""
	}
	return s.steps[s.index].Name
}

// Number of steps for current interrupt.
func (s *Sequencer) Steps() int {
	return len(s.steps)
}

// Run action for current step and schedule the next one.
func (s *Sequencer) enter() {
	ev := s.active
	step := s.steps[s.index]
	debug.Debugf("ISR", debugMsk, debugStep, "%s step %d %s", ev.Type, s.index+1, step.Name)
	switch step.Action {
	case SaveWaiting:
		s.hooks.SaveContext(ev, true)
	case SaveReady:
		s.hooks.SaveContext(ev, false)
	case CompleteIO:
		s.hooks.CompleteIO(ev)
	}
	delay := s.delays.Step
	if step.Long {
		delay = s.delays.IO
	}
	s.events.AddEvent(s.owner, s.next, delay, ev.Seq)
}

// Step delay finished.
func (s *Sequencer) next(_ int) {
	s.index++
	if s.index < len(s.steps) {
		s.enter()
		return
	}
	ev := s.active
	s.active = nil
	s.steps = nil
	s.index = -1
	debug.Debugf("ISR", debugMsk, debugDone, "%s done", ev.Type)
	s.hooks.Completed(ev)
}

// Enable debug option.
func Debug(opt string) error {
	flag, ok := debugOption[strings.ToUpper(opt)]
	if !ok {
		return errors.New("isr debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
