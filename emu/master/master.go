/*
 * SchedSim - Messages sent to simulator core.
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

package master

import (
	"github.com/rcornwell/SchedSim/emu/engine"
)

// Messages understood by the core.
const (
	TimeClock = 1 + iota // Timer pulse, advance time.
	Create               // Create process, Number = length, Priority.
	Start                // Start scheduling.
	Algorithm            // Select algorithm Name.
	Quantum              // Set quantum to Number.
	Interrupt            // Raise interrupt Name for Pid.
	Pause                // Stop time.
	Resume               // Restart time.
	Step                 // Run Number manual ticks.
	Snapshot             // Return current state.
	Log                  // Return log from Number on.
	Subscribe            // Add Observer.
	Unsubscribe          // Remove observer Number.
)

type Packet struct {
	Msg      int
	Number   int
	Priority int
	Pid      int
	Name     string
	Observer engine.Observer
	Reply    chan Reply // Nil when no answer wanted.
}

type Reply struct {
	Pid      int
	Number   int
	Changed  bool
	Snapshot engine.Snapshot
	Entries  []engine.LogEntry
	Err      error
}

var msgName = map[int]string{
	TimeClock:   "TimeClock",
	Create:      "Create",
	Start:       "Start",
	Algorithm:   "Algorithm",
	Quantum:     "Quantum",
	Interrupt:   "Interrupt",
	Pause:       "Pause",
	Resume:      "Resume",
	Step:        "Step",
	Snapshot:    "Snapshot",
	Log:         "Log",
	Subscribe:   "Subscribe",
	Unsubscribe: "Unsubscribe",
}

// Name of message for debug output.
func MsgName(msg int) string {
	name, ok := msgName[msg]
	if !ok {
		return "Unknown"
	}
	return name
}
