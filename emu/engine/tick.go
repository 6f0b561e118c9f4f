/*
 * SchedSim - Clock tick and process dispatch.
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
	"github.com/rcornwell/SchedSim/emu/process"
	"github.com/rcornwell/SchedSim/emu/scheduler"
	"github.com/rcornwell/SchedSim/util/debug"
)

// Is an interrupt being dispatched or serviced.
func (e *Engine) busy() bool {
	return e.irqPending || e.isr.Active()
}

// One clock tick.
func (e *Engine) doTick() bool {
	if e.events.Paused() {
		return false
	}

	// Interrupts come before scheduling.
	if !e.busy() {
		switch {
		case e.deferred:
			e.deferred = false
			if !e.dispatchInterrupt() {
				e.blocked = false
			}
		case e.cpu == nil && e.irq.Len() > 0:
			e.dispatchInterrupt()
		case e.cpu == nil:
			e.dispatch()
		}
	}

	e.tick++
	debug.Debugf("ENGINE", debugMsk, debugTick, "tick %d", e.tick)

	if e.cpu != nil && !e.busy() {
		p := e.cpu
		p.Step()
		expired := e.sched.Charge()
		e.logf("PID %d executed, PC=%d", p.Pid, p.PC)
		switch {
		case p.Done():
			e.cpu = nil
			p.Move(process.Finished, process.InFinished)
			e.finished.PushTail(p)
			e.logf("PID %d finished", p.Pid)
		case expired:
			e.cpu = nil
			e.sched.Admit(p)
			e.logf("Quantum expired for PID %d, preempted to Ready", p.Pid)
		default:
			e.checkPreemption()
		}
	}

	if e.cpu == nil {
		e.dispatch()
	}
	return true
}

// Put next ready process on the CPU. No-op when CPU is in use, an interrupt
// is in service or scheduling is blocked.
func (e *Engine) dispatch() bool {
	if e.cpu != nil || e.busy() || e.blocked {
		return false
	}
	p := e.sched.SelectNext()
	if p == nil {
		return false
	}
	e.cpu = p
	debug.DebugPidf(p.Pid, debugMsk, debugDispatch, "dispatch remaining %d", p.Remaining())
	e.logf("Process PID %d scheduled to CPU", p.Pid)
	return true
}

// Replace running process when a better one is ready.
func (e *Engine) checkPreemption() {
	if e.cpu == nil || e.busy() || e.blocked {
		return
	}
	if e.sched.CheckPreemption(e.cpu) == nil {
		return
	}
	p := e.cpu
	e.cpu = nil
	e.sched.Admit(p)
	name := "SRTF"
	if e.sched.Algorithm() == scheduler.Priority {
		name = "Priority"
	}
	e.logf("%s preempted PID %d", name, p.Pid)
	e.dispatch()
}
