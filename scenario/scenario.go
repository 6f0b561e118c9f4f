/*
 * SchedSim - Scripted simulation runs.
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

package scenario

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcornwell/SchedSim/emu/engine"
	"github.com/rcornwell/SchedSim/emu/process"
	"github.com/rcornwell/SchedSim/emu/scheduler"
)

// Milliseconds per tick when a scenario gives none.
const DefaultTick = 6000

var ErrInvalid = errors.New("invalid scenario")

// Action applied when the tick count reaches At.
type Action struct {
	At        int    `yaml:"at"`
	Do        string `yaml:"do"`
	Length    int    `yaml:"length,omitempty"`
	Priority  *int   `yaml:"priority,omitempty"`
	Type      string `yaml:"type,omitempty"`
	Pid       int    `yaml:"pid,omitempty"`
	Algorithm string `yaml:"algorithm,omitempty"`
	Quantum   int    `yaml:"quantum,omitempty"`
	Ms        int    `yaml:"ms,omitempty"` // Pause length, resume follows.
}

type Scenario struct {
	Name      string         `yaml:"name"`
	Algorithm string         `yaml:"algorithm"`
	Quantum   int            `yaml:"quantum"`
	Preset    string         `yaml:"preset"` // zero or default timing.
	Timing    *engine.Timing `yaml:"timing"`
	Tick      int            `yaml:"tick"`
	Ticks     int            `yaml:"ticks"`
	Actions   []Action       `yaml:"actions"`
}

// Action the engine refused.
type Rejection struct {
	At    int    `yaml:"at"`
	Do    string `yaml:"do"`
	Error string `yaml:"error"`
}

type Result struct {
	Name     string            `yaml:"name,omitempty"`
	Snapshot engine.Snapshot   `yaml:"snapshot"`
	Rejected []Rejection       `yaml:"rejected,omitempty"`
	Log      []engine.LogEntry `yaml:"log"`
}

var actions = []string{"create", "start", "interrupt", "algorithm", "quantum", "pause", "resume"}

// Read scenario, unknown fields are errors.
func Load(input io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(input)
	dec.KnownFields(true)
	s := &Scenario{}
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func LoadFile(name string) (*Scenario, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(file)
}

func (s *Scenario) Validate() error {
	if s.Ticks < 1 {
		return fmt.Errorf("%w: ticks must be at least 1", ErrInvalid)
	}
	if s.Tick < 0 {
		return fmt.Errorf("%w: tick must not be negative", ErrInvalid)
	}
	switch strings.ToLower(s.Preset) {
	case "", "zero", "default":
	default:
		return fmt.Errorf("%w: unknown timing preset %s", ErrInvalid, s.Preset)
	}
	for i, a := range s.Actions {
		if !slices.Contains(actions, strings.ToLower(a.Do)) {
			return fmt.Errorf("%w: action %d: unknown action %q", ErrInvalid, i+1, a.Do)
		}
		if a.At < 0 || a.At > s.Ticks {
			return fmt.Errorf("%w: action %d: at %d outside 0..%d", ErrInvalid, i+1, a.At, s.Ticks)
		}
		if a.Ms < 0 {
			return fmt.Errorf("%w: action %d: ms must not be negative", ErrInvalid, i+1)
		}
	}
	return nil
}

func (s *Scenario) timing() engine.Timing {
	switch {
	case s.Timing != nil:
		return *s.Timing
	case strings.EqualFold(s.Preset, "default"):
		return engine.DefaultTiming()
	}
	return engine.ZeroTiming()
}

func (s *Scenario) config(logger *slog.Logger) (engine.Config, error) {
	cfg := engine.Config{Quantum: s.Quantum, Timing: s.timing(), Logger: logger}
	if s.Algorithm != "" {
		alg, err := scheduler.ParseAlgorithm(s.Algorithm)
		if err != nil {
			return cfg, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		cfg.Algorithm = alg
	}
	return cfg, nil
}

// Run scenario on the virtual clock.
func (s *Scenario) Run(logger *slog.Logger) (*Result, error) {
	cfg, err := s.config(logger)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	tick := s.Tick
	if tick == 0 {
		tick = DefaultTick
	}
	if err := eng.StartClock(tick); err != nil {
		return nil, err
	}

	result := &Result{Name: s.Name}
	list := slices.Clone(s.Actions)
	slices.SortStableFunc(list, func(a, b Action) int { return a.At - b.At })
	next := 0
	for {
		for next < len(list) && list[next].At <= eng.TickCount() {
			a := list[next]
			if err := a.apply(eng); err != nil {
				result.Rejected = append(result.Rejected, Rejection{At: a.At, Do: a.Do, Error: err.Error()})
			}
			next++
		}
		if eng.TickCount() >= s.Ticks {
			break
		}
		if eng.Paused() {
			return nil, fmt.Errorf("paused at tick %d with no resume", eng.TickCount())
		}
		if err := nextTick(eng); err != nil {
			return nil, err
		}
	}
	result.Snapshot = eng.Snapshot()
	result.Log = eng.Log()
	return result, nil
}

// Advance time until the clock ticks once.
func nextTick(eng *engine.Engine) error {
	target := eng.TickCount() + 1
	for eng.TickCount() < target {
		delay, ok := eng.NextEvent()
		if !ok {
			return errors.New("clock stopped")
		}
		eng.Advance(delay)
	}
	return nil
}

func (a Action) apply(eng *engine.Engine) error {
	switch strings.ToLower(a.Do) {
	case "create":
		priority := process.DefaultPriority
		if a.Priority != nil {
			priority = *a.Priority
		}
		_, err := eng.CreateProcess(a.Length, priority)
		return err
	case "start":
		return eng.StartScheduling()
	case "interrupt":
		_, err := eng.RaiseNamed(a.Type, a.Pid)
		return err
	case "algorithm":
		return eng.SelectAlgorithm(a.Algorithm)
	case "quantum":
		return eng.SetQuantum(a.Quantum)
	case "pause":
		eng.Pause()
		if a.Ms > 0 {
			eng.Advance(a.Ms)
			eng.Resume()
		}
	case "resume":
		eng.Resume()
	}
	return nil
}

func (r *Result) WriteYAML(out io.Writer) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return enc.Close()
}
