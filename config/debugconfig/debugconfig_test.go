/*
 * SchedSim - Debug configuration tests.
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
	"strings"
	"testing"

	config "github.com/rcornwell/SchedSim/config/configparser"
)

func TestDebugOptions(t *testing.T) {
	good := []string{
		"debug engine cmd,irq",
		"DEBUG EVENT ADD, FIRE",
		"debug isr step",
		"debug core packet",
		"debug telnet session",
		"debug http request",
	}
	for _, line := range good {
		if err := config.LoadConfig(strings.NewReader(line + "\n")); err != nil {
			t.Errorf("Debug line %q failed: %v", line, err)
		}
	}

	bad := []string{
		"debug disk seek",
		"debug engine",
		"debug engine warp",
		"debug engine cmd=1",
		"debug isr step,warp",
	}
	for _, line := range bad {
		if err := config.LoadConfig(strings.NewReader(line + "\n")); err == nil {
			t.Errorf("Debug line %q accepted", line)
		}
	}
}
