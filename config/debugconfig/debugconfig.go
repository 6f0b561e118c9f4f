/*
 * SchedSim - Debug configuration options.
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

package debugconfig

import (
	"errors"
	"strings"

	config "github.com/rcornwell/SchedSim/config/configparser"
	"github.com/rcornwell/SchedSim/emu/core"
	"github.com/rcornwell/SchedSim/emu/engine"
	"github.com/rcornwell/SchedSim/emu/event"
	"github.com/rcornwell/SchedSim/emu/isr"
	"github.com/rcornwell/SchedSim/telnet"
	"github.com/rcornwell/SchedSim/web"
)

var subsystems = map[string]func(string) error{
	"ENGINE": engine.Debug,
	"EVENT":  event.Debug,
	"ISR":    isr.Debug,
	"CORE":   core.Debug,
	"TELNET": telnet.Debug,
	"HTTP":   web.Debug,
}

// register debug option on initialize.
func init() {
	config.RegisterModel("DEBUG", config.TypeOptions, setDebug)
}

// DEBUG <subsystem> <option>[,<option>...].
func setDebug(_ int, subsystem string, options []config.Option) error {
	set, ok := subsystems[strings.ToUpper(subsystem)]
	if !ok {
		return errors.New("debug option invalid: " + subsystem)
	}
	if len(options) == 0 {
		return errors.New("debug " + subsystem + " requires options")
	}
	for _, opt := range options {
		if opt.EqualOpt != "" {
			return errors.New("debug option can't have equals: " + opt.Name)
		}
		err := set(strings.ToUpper(opt.Name))
		if err != nil {
			return err
		}
		for _, value := range opt.Value {
			err = set(strings.ToUpper(*value))
			if err != nil {
				return err
			}
		}
	}
	return nil
}
