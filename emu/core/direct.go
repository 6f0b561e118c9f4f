/*
 * SchedSim - Direct access to simulation engine.
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

package core

import (
	"github.com/rcornwell/SchedSim/emu/engine"
)

// Runs commands on an engine from the calling goroutine. Used by batch
// runs, by tests and by the core run loop itself.
type Direct struct {
	eng *engine.Engine
}

func NewDirect(eng *engine.Engine) *Direct {
	return &Direct{eng: eng}
}

func (d *Direct) Engine() *engine.Engine {
	return d.eng
}

func (d *Direct) CreateProcess(length, priority int) (int, error) {
	return d.eng.CreateProcess(length, priority)
}

func (d *Direct) StartScheduling() error {
	return d.eng.StartScheduling()
}

func (d *Direct) SetAlgorithm(name string) error {
	return d.eng.SelectAlgorithm(name)
}

func (d *Direct) SetQuantum(quantum int) error {
	return d.eng.SetQuantum(quantum)
}

func (d *Direct) RaiseInterrupt(name string, pid int) error {
	_, err := d.eng.RaiseNamed(name, pid)
	return err
}

func (d *Direct) Pause() bool {
	return d.eng.Pause()
}

func (d *Direct) Resume() bool {
	return d.eng.Resume()
}

// Run count manual ticks, stops early when paused. Returns ticks run.
func (d *Direct) Step(count int) int {
	n := 0
	for ; n < count; n++ {
		if !d.eng.Tick() {
			break
		}
	}
	return n
}

func (d *Direct) Snapshot() engine.Snapshot {
	return d.eng.Snapshot()
}

func (d *Direct) LogSince(seq int) []engine.LogEntry {
	return d.eng.LogSince(seq)
}
