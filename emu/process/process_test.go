/*
 * SchedSim - Process control block test set.
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

package process

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		priority int
		want     error
	}{
		{"valid", 4, 3, nil},
		{"shortest", 1, 1, nil},
		{"highest priority", 1, 5, nil},
		{"zero length", 0, 3, ErrInvalidLength},
		{"negative length", -2, 3, ErrInvalidLength},
		{"priority too low", 4, 0, ErrInvalidPriority},
		{"priority too high", 4, 6, ErrInvalidPriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.length, tt.priority)
			if tt.want == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTableCreate(t *testing.T) {
	table := NewTable()
	p1, err := table.Create(4, 2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	p2, _ := table.Create(3, 5)
	if p1.Pid != 1 || p2.Pid != 2 {
		t.Errorf("pids not assigned from 1: %d %d", p1.Pid, p2.Pid)
	}
	if p1.State != New || p1.Location != InPending || p1.PC != 0 {
		t.Errorf("new process wrong initial state: %+v", p1)
	}

	_, err = table.Create(0, 3)
	if err == nil {
		t.Errorf("zero length accepted")
	}
	p3, _ := table.Create(1, 1)
	if p3.Pid != 3 {
		t.Errorf("rejected create consumed a pid, got %d", p3.Pid)
	}
	if table.Len() != 3 {
		t.Errorf("table length %d wanted 3", table.Len())
	}
	all := table.All()
	for i, p := range all {
		if p.Pid != i+1 {
			t.Errorf("All not in pid order: %v", all)
		}
	}
	if got, ok := table.Get(2); !ok || got != p2 {
		t.Errorf("Get returned wrong process")
	}
	if table.Count(New) != 3 {
		t.Errorf("Count New wanted 3 got %d", table.Count(New))
	}
}

func TestStepBounded(t *testing.T) {
	p := &Process{Pid: 1, Length: 2}
	p.Step()
	if p.Remaining() != 1 || p.Done() {
		t.Errorf("after one step: %v", p)
	}
	p.Step()
	p.Step()
	if p.PC != 2 || !p.Done() {
		t.Errorf("program counter passed length: %v", p)
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{New, Ready, Running, Waiting} {
		if s.IsTerminal() {
			t.Errorf("%s reported terminal", s)
		}
	}
	if !Finished.IsTerminal() {
		t.Errorf("Finished not terminal")
	}
}
