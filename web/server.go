/*
 * SchedSim - HTTP control interface.
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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	command "github.com/rcornwell/SchedSim/command/command"
	config "github.com/rcornwell/SchedSim/config/configparser"
)

const (
	debugRequest = 1 << iota
	debugBody
)

var debugOption = map[string]int{
	"REQUEST": debugRequest,
	"BODY":    debugBody,
}

var debugMsk int

// Enable debug option.
func Debug(opt string) error {
	flag, ok := debugOption[strings.ToUpper(opt)]
	if !ok {
		return errors.New("http debug option invalid: " + opt)
	}
	debugMsk |= flag
	return nil
}

// Configured listen address.
var address string

// register http option on initialize.
func init() {
	config.RegisterOption("HTTP", setAddress)
}

// HTTP <port> or HTTP <host:port>.
func setAddress(number int, value string, _ []config.Option) error {
	if address != "" {
		return errors.New("can't have more then one http address")
	}
	if number != config.NoNumber {
		if number < 1 || number > 65535 {
			return fmt.Errorf("http port out of range: %s", value)
		}
		address = ":" + value
		return nil
	}
	if _, _, err := net.SplitHostPort(value); err != nil {
		return fmt.Errorf("http requires port or host:port: %s", value)
	}
	address = value
	return nil
}

// Address from configuration, empty if none.
func Address() string {
	return address
}

type Server struct {
	router chi.Router
	logger *slog.Logger
	sim    command.Simulator
	http   *http.Server
}

func New(sim command.Simulator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router: chi.NewRouter(),
		logger: logger.With("component", "http"),
		sim:    sim,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/log", s.handleLog)
		r.Route("/processes", func(r chi.Router) {
			r.Get("/", s.handleListProcesses)
			r.Post("/", s.handleCreateProcess)
			r.Get("/{pid}", s.handleGetProcess)
		})
		r.Post("/start", s.handleStart)
		r.Put("/algorithm", s.handleAlgorithm)
		r.Put("/quantum", s.handleQuantum)
		r.Post("/interrupts", s.handleInterrupt)
		r.Post("/pause", s.handlePause)
		r.Post("/resume", s.handleResume)
		r.Post("/tick", s.handleTick)
	})
}

// Start serving on address.
func (s *Server) Listen(address string) (net.Addr, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on address %s: %w", address, err)
	}
	s.http = &http.Server{Handler: s, ReadHeaderTimeout: 5 * time.Second}
	s.logger.Info("HTTP server started", "address", listener.Addr().String())
	go func() {
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "error", err)
		}
	}()
	return listener.Addr(), nil
}

// Stop serving, waits up to a second for requests to finish.
func (s *Server) Stop() {
	if s.http == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Warn("Timed out waiting for http requests to finish.", "error", err)
	}
}
