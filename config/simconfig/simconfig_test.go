/*
 * SchedSim - Simulation settings tests.
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
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/rcornwell/SchedSim/config/configparser"
	"github.com/rcornwell/SchedSim/emu/engine"
	"github.com/rcornwell/SchedSim/emu/process"
	"github.com/rcornwell/SchedSim/emu/scheduler"
)

const sample = `# Scheduler lab
algorithm srtf
quantum 2
tick 1000
resolution 10
timing step=10 io=30 arrow=100
scale factor=100 backlog=120
process 5 priority=2
process 3
autostart
`

func TestLoadSettings(t *testing.T) {
	Reset()
	require.NoError(t, config.LoadConfig(strings.NewReader(sample)))

	s := Current()
	assert.Equal(t, scheduler.SRTF, s.Algorithm)
	assert.Equal(t, 2, s.Quantum)
	assert.Equal(t, 1000, s.Tick)
	assert.Equal(t, 10, s.Resolution)
	assert.Equal(t, 10, s.Timing.Step)
	assert.Equal(t, 30, s.Timing.IO)
	assert.Equal(t, 100, s.Timing.Arrow)
	assert.Equal(t, 100, s.Timing.Scale)
	assert.Equal(t, 120, s.Timing.Backlog)
	assert.Equal(t, engine.DefaultTiming().Finish, s.Timing.Finish)
	assert.Equal(t, []ProcessDef{{5, 2}, {3, process.DefaultPriority}}, s.Processes)
	assert.True(t, s.AutoStart)
}

func TestDefaults(t *testing.T) {
	Reset()
	s := Current()
	assert.Equal(t, scheduler.RR, s.Algorithm)
	assert.Equal(t, scheduler.DefaultQuantum, s.Quantum)
	assert.Equal(t, DefaultTick, s.Tick)
	assert.Equal(t, engine.DefaultTiming(), s.Timing)
	assert.False(t, s.AutoStart)
}

func TestRejectedSettings(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"zero quantum", "quantum 0"},
		{"quantum word", "quantum many"},
		{"algorithm", "algorithm lottery"},
		{"priority high", "process 3 priority=9"},
		{"zero length", "process 0"},
		{"process option", "process 3 colour=red"},
		{"timing field", "timing warp=3"},
		{"timing negative", "timing step=-4"},
		{"timing empty", "timing"},
		{"scale field", "scale step=3"},
		{"autostart argument", "autostart now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			err := config.LoadConfig(strings.NewReader(tt.line + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line: 1")
			assert.Equal(t, Default().Timing, Current().Timing)
			assert.Empty(t, Current().Processes)
		})
	}
}

func TestApply(t *testing.T) {
	Reset()
	require.NoError(t, config.LoadConfig(strings.NewReader(sample)))
	s := Current()
	eng, err := engine.New(s.EngineConfig(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	require.NoError(t, s.Apply(eng))

	snap := eng.Snapshot()
	assert.True(t, snap.Started)
	assert.Equal(t, scheduler.SRTF, snap.Algorithm)
	require.Len(t, snap.Ready, 2)
	assert.Equal(t, 2, snap.Ready[0].Pid)
	assert.Equal(t, 1, snap.Ready[1].Pid)

	Reset()
	eng, err = engine.New(Current().EngineConfig(nil))
	require.NoError(t, err)
	require.NoError(t, Current().Apply(eng))
	assert.False(t, eng.Snapshot().Started)
}
