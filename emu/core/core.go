/*
 * SchedSim - Simulator core run loop.
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
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rcornwell/SchedSim/emu/engine"
	"github.com/rcornwell/SchedSim/emu/master"
	"github.com/rcornwell/SchedSim/util/debug"
)

const (
	debugPacket = 1 << iota
	debugClock
)

var debugOption = map[string]int{
	"PACKET": debugPacket,
	"CLOCK":  debugClock,
}

var debugMsk int

var ErrStopped = errors.New("simulator core stopped")

// Owns the engine, all access goes through the master channel.
type Core struct {
	wg         sync.WaitGroup
	done       chan struct{} // Signal to shutdown simulator.
	Master     chan master.Packet
	sim        *Direct
	resolution int // Time advanced on each clock pulse.
	cancel     map[int]func()
	nextSub    int
}

// Create core, each TimeClock packet moves time resolution milliseconds.
func NewCore(masterChannel chan master.Packet, eng *engine.Engine, resolution int) *Core {
	return &Core{
		Master:     masterChannel,
		done:       make(chan struct{}),
		sim:        NewDirect(eng),
		resolution: resolution,
		cancel:     map[int]func(){},
	}
}

// Run the core until stopped.
func (core *Core) Start() {
	core.wg.Add(1)
	defer core.wg.Done()
	for {
		select {
		case <-core.done:
			for _, cancel := range core.cancel {
				cancel()
			}
			return
		case packet := <-core.Master:
			core.processPacket(packet)
		}
	}
}

// Stop a running core.
func (core *Core) Stop() {
	slog.Info("Shutting down simulator")
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for simulator to finish.")
		return
	}
}

// Send packet and wait for the answer.
func (core *Core) send(packet master.Packet) master.Reply {
	packet.Reply = make(chan master.Reply, 1)
	select {
	case core.Master <- packet:
	case <-core.done:
		return master.Reply{Err: ErrStopped}
	}
	select {
	case reply := <-packet.Reply:
		return reply
	case <-core.done:
		return master.Reply{Err: ErrStopped}
	}
}

func (core *Core) CreateProcess(length, priority int) (int, error) {
	reply := core.send(master.Packet{Msg: master.Create, Number: length, Priority: priority})
	return reply.Pid, reply.Err
}

func (core *Core) StartScheduling() error {
	return core.send(master.Packet{Msg: master.Start}).Err
}

func (core *Core) SetAlgorithm(name string) error {
	return core.send(master.Packet{Msg: master.Algorithm, Name: name}).Err
}

func (core *Core) SetQuantum(quantum int) error {
	return core.send(master.Packet{Msg: master.Quantum, Number: quantum}).Err
}

func (core *Core) RaiseInterrupt(name string, pid int) error {
	return core.send(master.Packet{Msg: master.Interrupt, Name: name, Pid: pid}).Err
}

func (core *Core) Pause() bool {
	return core.send(master.Packet{Msg: master.Pause}).Changed
}

func (core *Core) Resume() bool {
	return core.send(master.Packet{Msg: master.Resume}).Changed
}

func (core *Core) Step(count int) int {
	return core.send(master.Packet{Msg: master.Step, Number: count}).Number
}

func (core *Core) Snapshot() engine.Snapshot {
	return core.send(master.Packet{Msg: master.Snapshot}).Snapshot
}

func (core *Core) LogSince(seq int) []engine.LogEntry {
	return core.send(master.Packet{Msg: master.Log, Number: seq}).Entries
}

// Add observer, it is called on the core goroutine and must not block.
func (core *Core) Subscribe(fn engine.Observer) (func(), error) {
	reply := core.send(master.Packet{Msg: master.Subscribe, Observer: fn})
	if reply.Err != nil {
		return func() {}, reply.Err
	}
	id := reply.Number
	return func() {
		select {
		case core.Master <- master.Packet{Msg: master.Unsubscribe, Number: id}:
		case <-core.done:
		}
	}, nil
}

// Process a packet sent to simulator.
func (core *Core) processPacket(packet master.Packet) {
	if packet.Msg != master.TimeClock {
		debug.Debugf("CORE", debugMsk, debugPacket, "packet %s", master.MsgName(packet.Msg))
	}
	reply := master.Reply{}
	switch packet.Msg {
	case master.TimeClock:
		debug.Debugf("CORE", debugMsk, debugClock, "advance %d", core.resolution)
		core.sim.Engine().Advance(core.resolution)
	case master.Create:
		reply.Pid, reply.Err = core.sim.CreateProcess(packet.Number, packet.Priority)
	case master.Start:
		reply.Err = core.sim.StartScheduling()
	case master.Algorithm:
		reply.Err = core.sim.SetAlgorithm(packet.Name)
	case master.Quantum:
		reply.Err = core.sim.SetQuantum(packet.Number)
	case master.Interrupt:
		reply.Err = core.sim.RaiseInterrupt(packet.Name, packet.Pid)
	case master.Pause:
		reply.Changed = core.sim.Pause()
	case master.Resume:
		reply.Changed = core.sim.Resume()
	case master.Step:
		reply.Number = core.sim.Step(packet.Number)
	case master.Snapshot:
		reply.Snapshot = core.sim.Snapshot()
	case master.Log:
		reply.Entries = core.sim.LogSince(packet.Number)
	case master.Subscribe:
		core.nextSub++
		reply.Number = core.nextSub
		core.cancel[reply.Number] = core.sim.Engine().Subscribe(packet.Observer)
	case master.Unsubscribe:
		if cancel, ok := core.cancel[packet.Number]; ok {
			cancel()
			delete(core.cancel, packet.Number)
		}
	default:
		reply.Err = errors.New("unknown message " + master.MsgName(packet.Msg))
	}
	if packet.Reply != nil {
		packet.Reply <- reply
	}
}

// Enable debug option.
func Debug(opt string) error {
	flag, ok := debugOption[strings.ToUpper(opt)]
	if !ok {
		return errors.New("core debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}
