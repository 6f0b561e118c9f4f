/*
 * SchedSim - Telnet monitor sessions.
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

package telnet

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	command "github.com/rcornwell/SchedSim/command/command"
	"github.com/rcornwell/SchedSim/command/parser"
	config "github.com/rcornwell/SchedSim/config/configparser"
	"github.com/rcornwell/SchedSim/emu/engine"
	"github.com/rcornwell/SchedSim/util/debug"
)

// Simulation as seen from a monitor session.
type Simulator interface {
	command.Simulator
	Subscribe(fn engine.Observer) (func(), error)
}

const (
	debugSession = 1 << iota
	debugOption
	debugData
)

var debugOptions = map[string]int{
	"SESSION": debugSession,
	"OPTION":  debugOption,
	"DATA":    debugData,
}

var debugMsk int

func debugf(mask int, format string, a ...any) {
	debug.Debugf("TELNET", debugMsk, mask, format, a...)
}

// Enable debug option.
func Debug(opt string) error {
	flag, ok := debugOptions[strings.ToUpper(opt)]
	if !ok {
		return errors.New("telnet debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}

// Configured listen address.
var address string

// register port on initialize.
func init() {
	config.RegisterOption("PORT", setPort)
}

// PORT <number> or PORT <host:port>.
func setPort(number int, value string, _ []config.Option) error {
	if address != "" {
		return errors.New("can't have more then one telnet port")
	}
	if number != config.NoNumber {
		if number < 1 || number > 65535 {
			return fmt.Errorf("port out of range: %s", value)
		}
		address = ":" + value
		return nil
	}
	if _, _, err := net.SplitHostPort(value); err != nil {
		return fmt.Errorf("port requires number or host:port: %s", value)
	}
	address = value
	return nil
}

// Address from configuration, empty if none.
func Address() string {
	return address
}

type session struct {
	conn  net.Conn
	sim   Simulator
	state *tnState
	mu    sync.Mutex // Serialize writes to conn.
	logMu sync.Mutex // Serialize log output.
	seq   int        // Next log entry to send.
	wake  chan struct{}
	done  chan struct{}
}

// Raw protocol output.
type rawWriter struct {
	s *session
}

func (w rawWriter) Write(p []byte) (int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return w.s.conn.Write(p)
}

// Text output with telnet line endings.
type lineWriter struct {
	s *session
}

func (w lineWriter) Write(p []byte) (int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	data := bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))
	if _, err := w.s.conn.Write(data); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Send any new log entries.
func (s *session) flushLog() {
	s.logMu.Lock()
	defer s.logMu.Unlock()
	out := lineWriter{s: s}
	for _, entry := range s.sim.LogSince(s.seq) {
		fmt.Fprintln(out, entry.String())
		s.seq = entry.Seq + 1
	}
}

// Push log entries as the simulation changes.
func (s *session) streamLog() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
			s.flushLog()
		}
	}
}

func (s *session) prompt() {
	_, _ = lineWriter{s: s}.Write([]byte("SchedSim> "))
}

// Run one command line, true if session should end.
func (s *session) execute(text string) bool {
	debugf(debugData, "command %q", text)
	out := lineWriter{s: s}
	quit, err := parser.ProcessCommand(text, s.sim, out)
	if err != nil {
		fmt.Fprintln(out, "Error: "+err.Error())
	}
	s.flushLog()
	return quit
}

// Handle client connection.
func handleClient(conn net.Conn, sim Simulator) {
	defer conn.Close()

	s := &session{
		conn: conn,
		sim:  sim,
		seq:  len(sim.LogSince(0)),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	s.state = newState(rawWriter{s: s})
	_, _ = rawWriter{s: s}.Write(initString)
	fmt.Fprintln(lineWriter{s: s}, "SchedSim monitor, type help for commands")

	cancel, err := sim.Subscribe(func(engine.Update) {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	})
	if err != nil {
		debugf(debugSession, "subscribe failed: %v", err)
		return
	}
	defer cancel()
	defer close(s.done)
	go s.streamLog()

	s.prompt()
	buffer := make([]byte, 1024)
	line := []byte{}
	cr := false
	for {
		num, err := conn.Read(buffer)
		if err != nil {
			debugf(debugSession, "read: %v", err)
			return
		}
		for _, by := range s.state.receive(buffer[:num]) {
			switch by {
			case '\r', '\n':
				if by == '\n' && cr {
					cr = false
					continue
				}
				cr = by == '\r'
				if s.execute(string(line)) {
					return
				}
				line = line[:0]
				s.prompt()
				continue
			case 0:
			case '\b', 0x7f:
				if len(line) > 0 {
					line = line[:len(line)-1]
				}
			case 0x15:
				line = line[:0]
			case 0x03:
				line = line[:0]
				fmt.Fprintln(lineWriter{s: s})
				s.prompt()
			default:
				if by >= ' ' && by < 0x7f {
					line = append(line, by)
				}
			}
			cr = false
		}
	}
}
