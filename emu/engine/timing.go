/*
 * SchedSim - Interrupt service timing.
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

// Delays in milliseconds. Each interrupt delay is Base + Per * backlog,
// where backlog is the number of interrupts still queued. A non-zero
// backlog scales the delay by Backlog percent, and every interrupt delay
// is scaled by Scale percent.
type Timing struct {
	Start       int `yaml:"start" json:"start"`
	Arrow       int `yaml:"arrow" json:"arrow"`
	ArrowPer    int `yaml:"arrowPer" json:"arrowPer"`
	PowerCut    int `yaml:"powerCut" json:"powerCut"`
	PowerCutPer int `yaml:"powerCutPer" json:"powerCutPer"`
	Step        int `yaml:"step" json:"step"`
	StepPer     int `yaml:"stepPer" json:"stepPer"`
	IO          int `yaml:"io" json:"io"`
	IOPer       int `yaml:"ioPer" json:"ioPer"`
	Finish      int `yaml:"finish" json:"finish"`
	FinishPer   int `yaml:"finishPer" json:"finishPer"`
	Backlog     int `yaml:"backlog" json:"backlog"`
	Scale       int `yaml:"scale" json:"scale"`
}

// Interactive timing.
func DefaultTiming() Timing {
	return Timing{
		Start:       2200,
		Arrow:       1000,
		ArrowPer:    250,
		PowerCut:    900,
		PowerCutPer: 200,
		Step:        1100,
		StepPer:     200,
		IO:          1400,
		IOPer:       200,
		Finish:      600,
		FinishPer:   120,
		Backlog:     140,
		Scale:       135,
	}
}

// Every action happens at once.
func ZeroTiming() Timing {
	return Timing{Backlog: 100, Scale: 100}
}

func (t Timing) Validate() error {
	values := map[string]int{
		"start": t.Start, "arrow": t.Arrow, "arrowPer": t.ArrowPer,
		"powerCut": t.PowerCut, "powerCutPer": t.PowerCutPer,
		"step": t.Step, "stepPer": t.StepPer, "io": t.IO, "ioPer": t.IOPer,
		"finish": t.Finish, "finishPer": t.FinishPer,
		"backlog": t.Backlog, "scale": t.Scale,
	}
	for name, v := range values {
		if v < 0 {
			return &ValidationError{Field: name, Reason: fmt.Sprintf("timing %s %d is negative", name, v)}
		}
	}
	return nil
}

func (t Timing) scaled(base, per, n int) int {
	d := base + per*n
	if n > 0 && t.Backlog > 0 {
		d = d * t.Backlog / 100
	}
	if t.Scale > 0 {
		d = d * t.Scale / 100
	}
	return d
}

func (t Timing) arrow(n int) int {
	return t.scaled(t.Arrow, t.ArrowPer, n)
}

func (t Timing) powerCut(n int) int {
	return t.scaled(t.PowerCut, t.PowerCutPer, n)
}

func (t Timing) step(n int) int {
	return t.scaled(t.Step, t.StepPer, n)
}

func (t Timing) io(n int) int {
	return t.scaled(t.IO, t.IOPer, n)
}

func (t Timing) finish(n int) int {
	return t.scaled(t.Finish, t.FinishPer, n)
}
