/*
 * SchedSim - Engine errors.
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

	"github.com/rcornwell/SchedSim/emu/interrupt"
	"github.com/rcornwell/SchedSim/emu/process"
	"github.com/rcornwell/SchedSim/emu/scheduler"
)

var (
	ErrInvalidLength    = process.ErrInvalidLength
	ErrInvalidPriority  = process.ErrInvalidPriority
	ErrInvalidQuantum   = scheduler.ErrInvalidQuantum
	ErrUnknownAlgorithm = scheduler.ErrUnknownAlgorithm
	ErrUnknownInterrupt = interrupt.ErrUnknownInterrupt
	ErrNothingToStart   = errors.New("nothing to start")
)

// Rejected command, no state was changed.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var fields = []struct {
	err   error
	field string
}{
	{ErrInvalidLength, "length"},
	{ErrInvalidPriority, "priority"},
	{ErrInvalidQuantum, "quantum"},
	{ErrUnknownAlgorithm, "algorithm"},
	{ErrUnknownInterrupt, "interrupt"},
	{ErrNothingToStart, "pending"},
}

func asValidation(err error) error {
	field := ""
	for _, f := range fields {
		if errors.Is(err, f.err) {
			field = f.field
			break
		}
	}
	return &ValidationError{Field: field, Reason: err.Error(), Err: err}
}
