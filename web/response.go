/*
 * SchedSim - HTTP responses.
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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rcornwell/SchedSim/emu/core"
	"github.com/rcornwell/SchedSim/emu/engine"
	"github.com/rcornwell/SchedSim/util/debug"
)

type APIError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type Response struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any, apiErr *APIError) {
	resp := Response{
		RequestID: RequestIDFromContext(r.Context()),
		Data:      data,
		Error:     apiErr,
		Status:    "ok",
	}
	if apiErr != nil {
		resp.Status = "error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondOK(w http.ResponseWriter, r *http.Request, data any) {
	respondJSON(w, r, http.StatusOK, data, nil)
}

func respondCreated(w http.ResponseWriter, r *http.Request, data any) {
	respondJSON(w, r, http.StatusCreated, data, nil)
}

// Map command error to status. Rejected commands are 400.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *engine.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, r, http.StatusBadRequest, nil, &APIError{Field: verr.Field, Message: verr.Reason})
	case errors.Is(err, core.ErrStopped):
		respondJSON(w, r, http.StatusServiceUnavailable, nil, &APIError{Message: err.Error()})
	default:
		respondJSON(w, r, http.StatusInternalServerError, nil, &APIError{Message: err.Error()})
	}
}

func badRequest(w http.ResponseWriter, r *http.Request, field, message string) {
	respondJSON(w, r, http.StatusBadRequest, nil, &APIError{Field: field, Message: message})
}

// Decode JSON body into v, an empty body leaves v unchanged.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		debug.Debugf("HTTP", debugMsk, debugBody, "%s bad body: %v", RequestIDFromContext(r.Context()), err)
		badRequest(w, r, "body", "invalid request body: "+err.Error())
		return false
	}
	debug.Debugf("HTTP", debugMsk, debugBody, "%s body %+v", RequestIDFromContext(r.Context()), v)
	return true
}
