/*
 * SchedSim - Interrupt service timing test set.
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
	"testing"
)

func TestDefaultTiming(t *testing.T) {
	tm := DefaultTiming()
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"arrow idle", tm.arrow(0), 1350},
		{"arrow backlog 2", tm.arrow(2), 2835},
		{"power cut", tm.powerCut(0), 1215},
		{"step", tm.step(0), 1485},
		{"io backlog 1", tm.io(1), 3024},
		{"finish", tm.finish(0), 810},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s delay %d wanted %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestZeroTiming(t *testing.T) {
	tm := ZeroTiming()
	for n := range 4 {
		if tm.arrow(n) != 0 || tm.step(n) != 0 || tm.io(n) != 0 || tm.finish(n) != 0 {
			t.Errorf("zero timing gave delay with backlog %d", n)
		}
	}
}

func TestTimingValidate(t *testing.T) {
	tm := DefaultTiming()
	if err := tm.Validate(); err != nil {
		t.Errorf("default timing invalid: %v", err)
	}
	tm.Step = -1
	if err := tm.Validate(); err == nil {
		t.Errorf("negative step accepted")
	}
	if _, err := New(Config{Timing: tm}); err == nil {
		t.Errorf("engine created with negative timing")
	}
}
