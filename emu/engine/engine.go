/*
 * SchedSim - Simulation engine.
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
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rcornwell/SchedSim/emu/event"
	"github.com/rcornwell/SchedSim/emu/interrupt"
	"github.com/rcornwell/SchedSim/emu/isr"
	"github.com/rcornwell/SchedSim/emu/process"
	"github.com/rcornwell/SchedSim/emu/queue"
	"github.com/rcornwell/SchedSim/emu/scheduler"
	"github.com/rcornwell/SchedSim/util/debug"
)

// Event list owners.
const (
	ownerClock = 1 + iota
	ownerStart
	ownerIRQ
	ownerISR
)

const (
	debugCmd = 1 << iota
	debugDispatch
	debugIRQ
	debugTick
)

var debugOption = map[string]int{
	"CMD":      debugCmd,
	"DISPATCH": debugDispatch,
	"IRQ":      debugIRQ,
	"TICK":     debugTick,
}

var debugMsk int

type Config struct {
	Algorithm scheduler.Algorithm
	Quantum   int
	Timing    Timing
	Logger    *slog.Logger
}

// Default configuration, round robin with zero delays.
func DefaultConfig() Config {
	return Config{
		Algorithm: scheduler.RR,
		Quantum:   scheduler.DefaultQuantum,
		Timing:    ZeroTiming(),
	}
}

type Engine struct {
	log    *slog.Logger
	runID  string
	timing Timing
	events *event.EventList
	procs  *process.Table
	sched  *scheduler.Scheduler
	irq    *interrupt.Queue
	isr    *isr.Sequencer

	pending  *queue.Queue
	waiting  *queue.Queue
	finished *queue.Queue
	cpu      *process.Process

	tick       int
	started    bool
	irqPending bool             // Interrupt taken from queue and being serviced.
	current    *interrupt.Event // Interrupt being serviced.
	phase      string
	deferred   bool
	blocked    bool
	clock      int // Period of real time tick, 0 when manual.

	history  []LogEntry
	notified int
	subs     []subscriber
	nextSub  int
}

func New(cfg Config) (*Engine, error) {
	if cfg.Algorithm == "" {
		cfg.Algorithm = scheduler.RR
	}
	if cfg.Quantum == 0 {
		cfg.Quantum = scheduler.DefaultQuantum
	}
	sched, err := scheduler.New(cfg.Algorithm, cfg.Quantum)
	if err != nil {
		return nil, asValidation(err)
	}
	if err := cfg.Timing.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		log:      logger.With("component", "engine"),
		runID:    uuid.NewString(),
		timing:   cfg.Timing,
		events:   event.NewEventList(),
		procs:    process.NewTable(),
		sched:    sched,
		irq:      interrupt.NewQueue(),
		pending:  queue.New("Pending", nil),
		waiting:  queue.New("Waiting", nil),
		finished: queue.New("Finished", nil),
	}
	e.isr = isr.NewSequencer(e.events, ownerISR, isrHooks{e: e})
	e.log.Debug("engine created", "run", e.runID, "algorithm", cfg.Algorithm, "quantum", cfg.Quantum)
	return e, nil
}

func (e *Engine) RunID() string {
	return e.runID
}

func (e *Engine) Timing() Timing {
	return e.timing
}

// Create a new process. Before scheduling starts it waits on Pending,
// afterwards it is admitted to Ready at once.
func (e *Engine) CreateProcess(length, priority int) (int, error) {
	p, err := e.procs.Create(length, priority)
	if err != nil {
		debug.Debugf("ENGINE", debugMsk, debugCmd, "create rejected: %v", err)
		return 0, asValidation(err)
	}
	if e.sched.Algorithm() == scheduler.Priority {
		e.logf("Process created: PID %d, length %d, priority %d", p.Pid, p.Length, p.Priority)
	} else {
		e.logf("Process created: PID %d, length %d", p.Pid, p.Length)
	}
	if e.started {
		e.sched.Admit(p)
		if !e.dispatch() {
			e.checkPreemption()
		}
	} else {
		e.pending.PushTail(p)
	}
	e.notify()
	return p.Pid, nil
}

// Admit all pending processes to Ready, first dispatch follows the start delay.
func (e *Engine) StartScheduling() error {
	if e.pending.Len() == 0 {
		e.logf("No new processes to start")
		e.notify()
		return asValidation(fmt.Errorf("%w: no new processes to start", ErrNothingToStart))
	}
	e.started = true
	for _, p := range e.pending.Drain() {
		e.sched.Admit(p)
	}
	e.logf("All new processes moved to Ready")
	e.events.AddEvent(ownerStart, e.startDispatch, e.timing.Start, 0)
	e.notify()
	return nil
}

func (e *Engine) startDispatch(_ int) {
	if !e.dispatch() {
		e.checkPreemption()
	}
}

func (e *Engine) SetAlgorithm(alg scheduler.Algorithm) error {
	changed, err := e.sched.SetAlgorithm(alg)
	if err != nil {
		return asValidation(err)
	}
	if changed {
		e.logf("Algorithm set to %s", alg)
		e.checkPreemption()
		e.notify()
	}
	return nil
}

// Select algorithm by name, aliases allowed.
func (e *Engine) SelectAlgorithm(name string) error {
	alg, err := scheduler.ParseAlgorithm(name)
	if err != nil {
		return asValidation(err)
	}
	return e.SetAlgorithm(alg)
}

func (e *Engine) SetQuantum(quantum int) error {
	if err := e.sched.SetQuantum(quantum); err != nil {
		return asValidation(err)
	}
	e.logf("Quantum set to %d", quantum)
	e.notify()
	return nil
}

// Stop time, returns false if already paused.
func (e *Engine) Pause() bool {
	if !e.events.Pause() {
		return false
	}
	e.logf("Simulation paused")
	e.notify()
	return true
}

// Restart time, returns false if not paused.
func (e *Engine) Resume() bool {
	if !e.events.Paused() {
		return false
	}
	e.logf("Simulation resumed")
	e.events.Resume()
	e.notify()
	return true
}

func (e *Engine) Paused() bool {
	return e.events.Paused()
}

// Run one clock tick by hand, false if paused.
func (e *Engine) Tick() bool {
	if !e.doTick() {
		return false
	}
	e.notify()
	return true
}

// Move virtual time forward, firing delayed steps and clock ticks.
func (e *Engine) Advance(ms int) {
	e.events.Advance(ms)
	e.notify()
}

// Ticks run so far.
func (e *Engine) TickCount() int {
	return e.tick
}

// Time until next delayed action, false if none.
func (e *Engine) NextEvent() (int, bool) {
	return e.events.Next()
}

// Total virtual time advanced.
func (e *Engine) Now() int {
	return e.events.Now()
}

// Tick the clock every period units of time.
func (e *Engine) StartClock(period int) error {
	if period < 1 {
		return fmt.Errorf("clock period %d must be at least 1", period)
	}
	e.events.CancelOwner(ownerClock)
	e.clock = period
	e.events.AddEvent(ownerClock, e.clockTick, period, 0)
	e.log.Debug("clock started", "period", period)
	return nil
}

func (e *Engine) StopClock() {
	e.events.CancelOwner(ownerClock)
	e.clock = 0
}

func (e *Engine) clockTick(_ int) {
	e.doTick()
	if e.clock > 0 {
		e.events.AddEvent(ownerClock, e.clockTick, e.clock, 0)
	}
}

// Enable debug option.
func Debug(opt string) error {
	flag, ok := debugOption[strings.ToUpper(opt)]
	if !ok {
		return errors.New("engine debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
