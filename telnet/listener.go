/*
 * SchedSim - Telnet listener.
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

package telnet

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

type Server struct {
	wg       sync.WaitGroup
	listener net.Listener
	shutdown chan struct{}
	sim      Simulator
	mu       sync.Mutex
	conns    map[net.Conn]struct{}
}

// Open new listener and start accepting monitor sessions.
func Listen(address string, sim Simulator) (*Server, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on address %s: %w", address, err)
	}

	s := &Server{
		listener: listener,
		shutdown: make(chan struct{}),
		sim:      sim,
		conns:    map[net.Conn]struct{}{},
	}
	slog.Info("Telnet server started", "address", listener.Addr().String())
	s.wg.Add(1)
	go s.acceptConnections()
	return s, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Accept connections until shutdown.
func (s *Server) acceptConnections() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
			}
			debugf(debugSession, "accept: %v", err)
			continue
		}
		slog.Info("Telnet connection", "remote", conn.RemoteAddr().String())
		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	handleClient(conn, s.sim)
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	slog.Info("Telnet disconnect", "remote", conn.RemoteAddr().String())
}

// Stop server and close all sessions.
func (s *Server) Stop() {
	slog.Info("Shutdown telnet server", "address", s.listener.Addr().String())
	close(s.shutdown)
	s.listener.Close()
	s.mu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		slog.Warn("Timed out waiting for connections to finish.")
		return
	}
}
