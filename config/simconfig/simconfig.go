/*
 * SchedSim - Simulation settings from configuration file.
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

package simconfig

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	config "github.com/rcornwell/SchedSim/config/configparser"
	"github.com/rcornwell/SchedSim/emu/engine"
	"github.com/rcornwell/SchedSim/emu/process"
	"github.com/rcornwell/SchedSim/emu/scheduler"
)

const (
	DefaultTick       = 6000 // Milliseconds per scheduler tick.
	DefaultResolution = 50   // Milliseconds per timer pulse.
)

// Process created before the simulation starts.
type ProcessDef struct {
	Length   int
	Priority int
}

type Settings struct {
	Algorithm  scheduler.Algorithm
	Quantum    int
	Tick       int
	Resolution int
	Timing     engine.Timing
	Processes  []ProcessDef
	AutoStart  bool
}

var settings = Default()

func Default() Settings {
	return Settings{
		Algorithm:  scheduler.RR,
		Quantum:    scheduler.DefaultQuantum,
		Tick:       DefaultTick,
		Resolution: DefaultResolution,
		Timing:     engine.DefaultTiming(),
	}
}

// Settings loaded so far.
func Current() Settings {
	s := settings
	s.Processes = append([]ProcessDef{}, settings.Processes...)
	return s
}

// Back to defaults.
func Reset() {
	settings = Default()
}

// Engine configuration for settings.
func (s Settings) EngineConfig(logger *slog.Logger) engine.Config {
	return engine.Config{
		Algorithm: s.Algorithm,
		Quantum:   s.Quantum,
		Timing:    s.Timing,
		Logger:    logger,
	}
}

// Create configured processes on engine, start when requested.
func (s Settings) Apply(eng *engine.Engine) error {
	for _, p := range s.Processes {
		if _, err := eng.CreateProcess(p.Length, p.Priority); err != nil {
			return err
		}
	}
	if s.AutoStart && len(s.Processes) != 0 {
		return eng.StartScheduling()
	}
	return nil
}

// register options on initialize.
func init() {
	config.RegisterOption("ALGORITHM", setAlgorithm)
	config.RegisterOption("QUANTUM", setNumber("quantum", &settings.Quantum))
	config.RegisterOption("TICK", setNumber("tick", &settings.Tick))
	config.RegisterOption("RESOLUTION", setNumber("resolution", &settings.Resolution))
	config.RegisterModel("TIMING", config.TypeList, setTiming)
	config.RegisterModel("SCALE", config.TypeList, setScale)
	config.RegisterModel("PROCESS", config.TypeModel, addProcess)
	config.RegisterSwitch("AUTOSTART", setAutoStart)
}

func setAlgorithm(_ int, value string, _ []config.Option) error {
	alg, err := scheduler.ParseAlgorithm(value)
	if err != nil {
		return err
	}
	settings.Algorithm = alg
	return nil
}

// Positive number option.
func setNumber(name string, target *int) func(int, string, []config.Option) error {
	return func(number int, value string, _ []config.Option) error {
		if number < 1 {
			return fmt.Errorf("%s requires a positive number: %s", name, value)
		}
		*target = number
		return nil
	}
}

func timingFields(t *engine.Timing) map[string]*int {
	return map[string]*int{
		"START":       &t.Start,
		"ARROW":       &t.Arrow,
		"ARROWPER":    &t.ArrowPer,
		"POWERCUT":    &t.PowerCut,
		"POWERCUTPER": &t.PowerCutPer,
		"STEP":        &t.Step,
		"STEPPER":     &t.StepPer,
		"IO":          &t.IO,
		"IOPER":       &t.IOPer,
		"FINISH":      &t.Finish,
		"FINISHPER":   &t.FinishPer,
		"BACKLOG":     &t.Backlog,
		"SCALE":       &t.Scale,
	}
}

// Set fields from name=value options, all or nothing.
func setFields(fields map[string]*int, options []config.Option) error {
	if len(options) == 0 {
		return errors.New("no values given")
	}
	values := map[*int]int{}
	for _, opt := range options {
		field, ok := fields[strings.ToUpper(opt.Name)]
		if !ok {
			return errors.New("unknown value: " + opt.Name)
		}
		if opt.EqualOpt == "" || len(opt.Value) != 0 {
			return errors.New(opt.Name + " requires a single value")
		}
		number, err := strconv.Atoi(opt.EqualOpt)
		if err != nil || number < 0 {
			return fmt.Errorf("%s must be a number not less than zero: %s", opt.Name, opt.EqualOpt)
		}
		values[field] = number
	}
	for field, number := range values {
		*field = number
	}
	return nil
}

func setTiming(_ int, _ string, options []config.Option) error {
	timing := settings.Timing
	if err := setFields(timingFields(&timing), options); err != nil {
		return fmt.Errorf("timing: %w", err)
	}
	if err := timing.Validate(); err != nil {
		return err
	}
	settings.Timing = timing
	return nil
}

func setScale(_ int, _ string, options []config.Option) error {
	timing := settings.Timing
	fields := map[string]*int{
		"FACTOR":  &timing.Scale,
		"BACKLOG": &timing.Backlog,
	}
	if err := setFields(fields, options); err != nil {
		return fmt.Errorf("scale: %w", err)
	}
	if err := timing.Validate(); err != nil {
		return err
	}
	settings.Timing = timing
	return nil
}

// PROCESS <length> [priority=<n>].
func addProcess(length int, _ string, options []config.Option) error {
	def := ProcessDef{Length: length, Priority: process.DefaultPriority}
	for _, opt := range options {
		if !strings.EqualFold(opt.Name, "PRIORITY") {
			return errors.New("process only takes priority: " + opt.Name)
		}
		number, err := strconv.Atoi(opt.EqualOpt)
		if err != nil {
			return errors.New("priority requires a number: " + opt.EqualOpt)
		}
		def.Priority = number
	}
	if err := process.Validate(def.Length, def.Priority); err != nil {
		return err
	}
	settings.Processes = append(settings.Processes, def)
	return nil
}

func setAutoStart(_ int, _ string, _ []config.Option) error {
	settings.AutoStart = true
	return nil
}
