/*
 * SchedSim - Interface between front ends and simulation.
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

package command

import (
	"strings"

	"github.com/rcornwell/SchedSim/emu/engine"
)

// Option given to a command.
type CmdOption struct {
	Name     string // Name of option.
	EqualOpt string // Value of string after =.
	Value    int    // Numberic value.
}

// List of option types.
const (
	OptionSwitch = 1 + iota
	OptionNumber
	OptionName
)

type Options struct {
	Name       string   // Name of option.
	OptionType int      // Type of argument.
	OptionList []string // List of valid values for OptionName.
}

// Operations a console or remote session performs on a simulation.
type Simulator interface {
	CreateProcess(length, priority int) (int, error)
	StartScheduling() error
	SetAlgorithm(name string) error
	SetQuantum(quantum int) error
	RaiseInterrupt(name string, pid int) error
	Pause() bool
	Resume() bool
	Step(count int) int
	Snapshot() engine.Snapshot
	LogSince(seq int) []engine.LogEntry
}

// Find option matching name, which may be abbreviated.
func FindOption(list []Options, name string) (*Options, bool) {
	name = strings.ToUpper(name)
	if name == "" {
		return nil, false
	}
	var found *Options
	for i := range list {
		opt := &list[i]
		if opt.Name == name {
			return opt, true
		}
		if strings.HasPrefix(opt.Name, name) {
			if found != nil {
				return nil, false
			}
			found = opt
		}
	}
	return found, found != nil
}

// Match value against the allowed list of option, returns canonical name.
func (opt *Options) MatchValue(value string) (string, bool) {
	if opt.OptionType != OptionName || len(opt.OptionList) == 0 {
		return value, true
	}
	value = strings.ToLower(value)
	for _, v := range opt.OptionList {
		if strings.ToLower(v) == value {
			return v, true
		}
	}
	return "", false
}
