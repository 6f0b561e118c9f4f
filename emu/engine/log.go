/*
 * SchedSim - Simulation log and observers.
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
	"fmt"
)

type LogEntry struct {
	Seq     int    `json:"seq" yaml:"seq"`
	Tick    int    `json:"tick" yaml:"tick"`
	Message string `json:"message" yaml:"message"`
}

func (l LogEntry) String() string {
	return fmt.Sprintf("[%d] %s", l.Tick, l.Message)
}

// Sent to observers after every change.
type Update struct {
	Snapshot Snapshot
	Entries  []LogEntry
}

type Observer func(Update)

type subscriber struct {
	id int
	fn Observer
}

func (e *Engine) logf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	e.history = append(e.history, LogEntry{Seq: len(e.history), Tick: e.tick, Message: msg})
	e.log.Debug(msg, "tick", e.tick)
}

// Whole log.
func (e *Engine) Log() []LogEntry {
	return append([]LogEntry{}, e.history...)
}

// Entries from sequence number on.
func (e *Engine) LogSince(seq int) []LogEntry {
	if seq < 0 {
		seq = 0
	}
	if seq >= len(e.history) {
		return []LogEntry{}
	}
	return append([]LogEntry{}, e.history[seq:]...)
}

// Register observer, returned function removes it.
func (e *Engine) Subscribe(fn Observer) func() {
	id := e.nextSub
	e.nextSub++
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) notify() {
	if len(e.subs) == 0 {
		e.notified = len(e.history)
		return
	}
	update := Update{Snapshot: e.Snapshot(), Entries: e.LogSince(e.notified)}
	e.notified = len(e.history)
	for _, s := range append([]subscriber{}, e.subs...) {
		s.fn(update)
	}
}
