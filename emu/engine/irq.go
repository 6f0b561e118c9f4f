/*
 * SchedSim - Interrupt controller.
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
	"github.com/rcornwell/SchedSim/emu/isr"
	"github.com/rcornwell/SchedSim/emu/process"
	"github.com/rcornwell/SchedSim/util/debug"
)

// Service phases.
const (
	PhaseDispatch = "dispatch"
	PhasePowerCut = "powercut"
	PhaseISR      = "isr"
)

// Raise an interrupt. With the CPU idle it is serviced at once, otherwise it
// waits for the next tick boundary and scheduling is held until then.
func (e *Engine) RaiseInterrupt(t interrupt.Type, pid int) (interrupt.Event, error) {
	ev, err := e.irq.Raise(t, pid)
	if err != nil {
		return interrupt.Event{}, asValidation(err)
	}
	switch {
	case pid != 0:
		e.logf("%s triggered for PID %d", t, pid)
	case e.cpu != nil:
		e.logf("%s triggered for PID %d", t, e.cpu.Pid)
	default:
		e.logf("%s triggered while CPU idle", t)
	}
	if top := e.irq.Peek(); top != ev {
		debug.Debugf("ENGINE", debugMsk, debugIRQ, "%v handled before %v", top, ev)
	}
	if e.cpu == nil && !e.busy() {
		e.dispatchInterrupt()
	} else {
		e.deferred = true
		e.blocked = true
	}
	e.notify()
	return *ev, nil
}

// Raise an interrupt given by name.
func (e *Engine) RaiseNamed(name string, pid int) (interrupt.Event, error) {
	t, err := interrupt.ParseType(name)
	if err != nil {
		return interrupt.Event{}, asValidation(err)
	}
	return e.RaiseInterrupt(t, pid)
}

// Take highest priority interrupt and start servicing it after the dispatch delay.
func (e *Engine) dispatchInterrupt() bool {
	if e.busy() || e.irq.Len() == 0 {
		return false
	}
	ev := e.irq.Pop()
	e.current = ev
	e.irqPending = true
	e.blocked = true
	e.phase = PhaseDispatch
	n := e.irq.Len()
	debug.Debugf("ENGINE", debugMsk, debugIRQ, "dispatch %v backlog %d", ev, n)
	e.events.AddEvent(ownerIRQ, e.serviceInterrupt, e.timing.arrow(n), ev.Seq)
	return true
}

func (e *Engine) serviceInterrupt(_ int) {
	ev := e.current
	n := e.irq.Len()
	if ev.Type == interrupt.PowerCut {
		e.phase = PhasePowerCut
		e.events.AddEvent(ownerIRQ, e.powerCut, e.timing.powerCut(n), ev.Seq)
		return
	}
	e.phase = PhaseISR
	err := e.isr.Start(ev, isr.Delays{Step: e.timing.step(n), IO: e.timing.io(n)})
	if err != nil {
		e.log.Error("unable to start interrupt service", "interrupt", ev.Type, "error", err)
	}
}

// Power cut moves running process back to Ready, it is never terminated.
func (e *Engine) powerCut(_ int) {
	if p := e.cpu; p != nil {
		e.cpu = nil
		e.sched.Admit(p)
		e.logf("%s: PID %d preempted to Ready", interrupt.PowerCut, p.Pid)
	} else {
		e.logf("%s: handled while CPU idle", interrupt.PowerCut)
	}
	e.endService()
	if !e.dispatchInterrupt() {
		e.dispatch()
	}
}

func (e *Engine) endService() {
	e.irqPending = false
	e.blocked = false
	e.current = nil
	e.phase = ""
}

// After the finish delay, pending interrupts come before processes.
func (e *Engine) afterService(_ int) {
	if !e.dispatchInterrupt() {
		e.dispatch()
	}
}

// Sequencer callbacks.
type isrHooks struct {
	e *Engine
}

func (h isrHooks) Started(ev *interrupt.Event) {
	h.e.logf("ISR started for %s", ev.Type)
}

func (h isrHooks) SaveContext(_ *interrupt.Event, toWaiting bool) {
	e := h.e
	p := e.cpu
	if p == nil || p.State != process.Running {
		debug.Debugf("ENGINE", debugMsk, debugIRQ, "no running process to save")
		return
	}
	e.cpu = nil
	e.sched.ResetQuantum()
	if toWaiting {
		p.Move(process.Waiting, process.InWaiting)
		e.waiting.PushTail(p)
		e.logf("PID %d context saved, moved to Waiting", p.Pid)
		return
	}
	e.sched.Admit(p)
	e.logf("PID %d context saved, moved to Ready", p.Pid)
}

func (h isrHooks) CompleteIO(_ *interrupt.Event) {
	e := h.e
	p := e.waiting.Pop()
	if p == nil {
		e.logf("I/O complete with no waiting process")
		return
	}
	e.sched.Admit(p)
	e.logf("PID %d I/O complete, moved to Ready", p.Pid)
	e.checkPreemption()
}

func (h isrHooks) Completed(_ *interrupt.Event) {
	e := h.e
	e.endService()
	e.logf("ISR completed")
	e.events.AddEvent(ownerIRQ, e.afterService, e.timing.finish(e.irq.Len()), 0)
}
