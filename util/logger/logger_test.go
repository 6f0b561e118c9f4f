/*
 * SchedSim - Log handler test set.
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

package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerFormat(t *testing.T) {
	var out, echo bytes.Buffer
	h := NewHandler(&out, nil, false)
	h.SetEcho(&echo)
	log := slog.New(h).With("component", "engine")

	log.Info("process created", "pid", 3)
	line := out.String()
	if !strings.Contains(line, "INFO: process created component=engine pid=3") {
		t.Errorf("unexpected log line: %q", line)
	}
	if echo.String() != line {
		t.Errorf("info message not echoed: %q", echo.String())
	}

	out.Reset()
	echo.Reset()
	log.Debug("hidden")
	if out.Len() != 0 || echo.Len() != 0 {
		t.Errorf("debug message written at info level")
	}
}

func TestHandlerDebug(t *testing.T) {
	var out, echo bytes.Buffer
	h := NewHandler(&out, nil, true)
	h.SetEcho(&echo)
	log := slog.New(h)

	log.WithGroup("isr").Debug("step", "n", 2)
	if !strings.Contains(out.String(), "DEBUG: step isr.n=2") {
		t.Errorf("unexpected log line: %q", out.String())
	}
	if echo.Len() == 0 {
		t.Errorf("debug message not echoed with debug set")
	}

	echo.Reset()
	h.SetDebug(false)
	log.Debug("quiet")
	if echo.Len() != 0 {
		t.Errorf("debug message echoed with debug cleared")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		err  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
