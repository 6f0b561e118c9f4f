/*
 * SchedSim - HTTP control interface tests.
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

package web

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/rcornwell/SchedSim/config/configparser"
	"github.com/rcornwell/SchedSim/emu/core"
	"github.com/rcornwell/SchedSim/emu/engine"
	"github.com/rcornwell/SchedSim/emu/scheduler"
)

type envelope struct {
	Status    string          `json:"status"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Error     *APIError       `json:"error"`
}

func testServer(t *testing.T) (*Server, *core.Direct) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := engine.DefaultConfig()
	cfg.Algorithm = scheduler.FCFS
	cfg.Logger = logger
	eng, err := engine.New(cfg)
	require.NoError(t, err)
	sim := core.NewDirect(eng)
	return New(sim, logger), sim
}

func do(t *testing.T, srv *Server, method, path, body string, status int) envelope {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, status, w.Code, "%s %s body=%s", method, path, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, strings.HasPrefix(env.RequestID, "req_"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), env.RequestID)
	return env
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestCreateAndSnapshot(t *testing.T) {
	srv, _ := testServer(t)

	env := do(t, srv, "POST", "/api/processes", `{"length": 3}`, http.StatusCreated)
	var created createResponse
	decodeData(t, env, &created)
	assert.Equal(t, 1, created.Pid)

	do(t, srv, "POST", "/api/processes", `{"length": 2, "priority": 5}`, http.StatusCreated)

	env = do(t, srv, "GET", "/api/snapshot", "", http.StatusOK)
	var snap engine.Snapshot
	decodeData(t, env, &snap)
	assert.Len(t, snap.Pending, 2)
	assert.Equal(t, scheduler.FCFS, snap.Algorithm)
	assert.False(t, snap.Started)

	env = do(t, srv, "GET", "/api/processes/2", "", http.StatusOK)
	var p engine.ProcessView
	decodeData(t, env, &p)
	assert.Equal(t, 5, p.Priority)

	env = do(t, srv, "GET", "/api/processes", "", http.StatusOK)
	var pcb []engine.ProcessView
	decodeData(t, env, &pcb)
	assert.Len(t, pcb, 2)

	do(t, srv, "GET", "/api/processes/9", "", http.StatusNotFound)
	do(t, srv, "GET", "/api/processes/x", "", http.StatusBadRequest)
}

func TestValidationErrors(t *testing.T) {
	srv, sim := testServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{"zero length", "POST", "/api/processes", `{"length": 0}`, "length"},
		{"priority high", "POST", "/api/processes", `{"length": 2, "priority": 6}`, "priority"},
		{"priority low", "POST", "/api/processes", `{"length": 2, "priority": 0}`, "priority"},
		{"bad json", "POST", "/api/processes", `{"length": `, "body"},
		{"unknown field", "POST", "/api/processes", `{"size": 3}`, "body"},
		{"nothing to start", "POST", "/api/start", "", "pending"},
		{"algorithm", "PUT", "/api/algorithm", `{"algorithm": "lottery"}`, "algorithm"},
		{"quantum", "PUT", "/api/quantum", `{"quantum": 0}`, "quantum"},
		{"interrupt", "POST", "/api/interrupts", `{"type": "keyboard"}`, "interrupt"},
		{"tick count", "POST", "/api/tick", `{"count": 0}`, "count"},
		{"log since", "GET", "/api/log?since=-1", "", "since"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := do(t, srv, tt.method, tt.path, tt.body, http.StatusBadRequest)
			assert.Equal(t, "error", env.Status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.field, env.Error.Field)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
	assert.Empty(t, sim.Snapshot().PCB)
}

func TestRunThroughAPI(t *testing.T) {
	srv, sim := testServer(t)
	do(t, srv, "POST", "/api/processes", `{"length": 2}`, http.StatusCreated)
	do(t, srv, "POST", "/api/processes", `{"length": 3}`, http.StatusCreated)
	do(t, srv, "PUT", "/api/algorithm", `{"algorithm": "rr"}`, http.StatusOK)
	do(t, srv, "PUT", "/api/quantum", `{"quantum": 1}`, http.StatusOK)
	env := do(t, srv, "POST", "/api/start", "", http.StatusOK)
	var snap engine.Snapshot
	decodeData(t, env, &snap)
	assert.True(t, snap.Started)
	require.NotNil(t, snap.CPU)
	assert.Equal(t, 1, snap.CPU.Pid)

	env = do(t, srv, "POST", "/api/tick", "", http.StatusOK)
	var tick tickResponse
	decodeData(t, env, &tick)
	assert.Equal(t, tickResponse{Ticks: 1, Tick: 1}, tick)
	assert.Equal(t, 2, sim.Snapshot().CPU.Pid)

	env = do(t, srv, "POST", "/api/pause", "", http.StatusOK)
	var changed changedResponse
	decodeData(t, env, &changed)
	assert.True(t, changed.Changed)
	env = do(t, srv, "POST", "/api/pause", "", http.StatusOK)
	decodeData(t, env, &changed)
	assert.False(t, changed.Changed)

	env = do(t, srv, "POST", "/api/tick", `{"count": 3}`, http.StatusOK)
	decodeData(t, env, &tick)
	assert.Equal(t, 0, tick.Ticks)

	do(t, srv, "POST", "/api/resume", "", http.StatusOK)
	env = do(t, srv, "POST", "/api/interrupts", `{"type": "timer", "pid": 2}`, http.StatusAccepted)
	decodeData(t, env, &snap)
	require.Len(t, snap.Interrupts, 1)
	assert.True(t, snap.Blocked)

	env = do(t, srv, "GET", "/api/log?since=0", "", http.StatusOK)
	var entries []engine.LogEntry
	decodeData(t, env, &entries)
	require.NotEmpty(t, entries)
	assert.Equal(t, "Process created: PID 1, length 2", entries[0].Message)

	env = do(t, srv, "GET", "/api/log?since=2", "", http.StatusOK)
	var later []engine.LogEntry
	decodeData(t, env, &later)
	assert.Equal(t, entries[2:], later)
}

func TestListen(t *testing.T) {
	srv, _ := testServer(t)
	addr, err := srv.Listen("127.0.0.1:0")
	require.NoError(t, err)
	defer srv.Stop()

	resp, err := http.Post("http://"+addr.String()+"/api/processes", "application/json",
		bytes.NewBufferString(`{"length": 4}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestSetAddress(t *testing.T) {
	address = ""
	require.NoError(t, config.LoadConfig(strings.NewReader("http 8080\n")))
	assert.Equal(t, ":8080", Address())

	address = ""
	require.NoError(t, config.LoadConfig(strings.NewReader("http localhost:9000\n")))
	assert.Equal(t, "localhost:9000", Address())
	assert.Error(t, config.LoadConfig(strings.NewReader("http 9001\n")))

	address = ""
	assert.Error(t, config.LoadConfig(strings.NewReader("http web\n")))
	address = ""
}
