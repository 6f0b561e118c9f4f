/*
 * SchedSim - HTTP request handlers.
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
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rcornwell/SchedSim/emu/process"
)

type createRequest struct {
	Length   int  `json:"length"`
	Priority *int `json:"priority,omitempty"`
}

type algorithmRequest struct {
	Algorithm string `json:"algorithm"`
}

type quantumRequest struct {
	Quantum int `json:"quantum"`
}

type interruptRequest struct {
	Type string `json:"type"`
	Pid  int    `json:"pid,omitempty"`
}

type tickRequest struct {
	Count int `json:"count"`
}

type changedResponse struct {
	Changed bool `json:"changed"`
}

type tickResponse struct {
	Ticks int `json:"ticks"`
	Tick  int `json:"tick"`
}

type createResponse struct {
	Pid int `json:"pid"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, s.sim.Snapshot())
}

// GET /api/log?since=n.
func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, r, "since", "since must be a number not less than zero")
			return
		}
		since = n
	}
	respondOK(w, r, s.sim.LogSince(since))
}

func (s *Server) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, s.sim.Snapshot().PCB)
}

func (s *Server) handleGetProcess(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil {
		badRequest(w, r, "pid", "pid must be a number")
		return
	}
	for _, p := range s.sim.Snapshot().PCB {
		if p.Pid == pid {
			respondOK(w, r, p)
			return
		}
	}
	respondJSON(w, r, http.StatusNotFound, nil, &APIError{Field: "pid", Message: "no process " + strconv.Itoa(pid)})
}

func (s *Server) handleCreateProcess(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decode(w, r, &req) {
		return
	}
	priority := process.DefaultPriority
	if req.Priority != nil {
		priority = *req.Priority
	}
	pid, err := s.sim.CreateProcess(req.Length, priority)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, r, createResponse{Pid: pid})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.sim.StartScheduling(); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, r, s.sim.Snapshot())
}

func (s *Server) handleAlgorithm(w http.ResponseWriter, r *http.Request) {
	var req algorithmRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.sim.SetAlgorithm(req.Algorithm); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, r, s.sim.Snapshot())
}

func (s *Server) handleQuantum(w http.ResponseWriter, r *http.Request) {
	var req quantumRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.sim.SetQuantum(req.Quantum); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, r, s.sim.Snapshot())
}

func (s *Server) handleInterrupt(w http.ResponseWriter, r *http.Request) {
	var req interruptRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.sim.RaiseInterrupt(req.Type, req.Pid); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusAccepted, s.sim.Snapshot(), nil)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, changedResponse{Changed: s.sim.Pause()})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	respondOK(w, r, changedResponse{Changed: s.sim.Resume()})
}

// POST /api/tick runs count manual ticks, default one.
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	req := tickRequest{Count: 1}
	if !decode(w, r, &req) {
		return
	}
	if req.Count < 1 {
		badRequest(w, r, "count", "count must be at least 1")
		return
	}
	ran := s.sim.Step(req.Count)
	respondOK(w, r, tickResponse{Ticks: ran, Tick: s.sim.Snapshot().Tick})
}
