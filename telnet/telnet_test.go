/*
 * SchedSim - Telnet monitor tests.
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
	"bytes"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/rcornwell/SchedSim/config/configparser"
	"github.com/rcornwell/SchedSim/emu/core"
	"github.com/rcornwell/SchedSim/emu/engine"
	"github.com/rcornwell/SchedSim/emu/master"
)

func TestReceiveData(t *testing.T) {
	var out bytes.Buffer
	state := newState(&out)

	got := state.receive([]byte{'a', 'b', tnIAC, tnIAC, 'c', tnIAC, tnEC})
	assert.Equal(t, []byte{'a', 'b', tnIAC, 'c', '\b'}, got)
	assert.Equal(t, 0, out.Len())

	// Split sequence across reads.
	assert.Empty(t, state.receive([]byte{tnIAC}))
	assert.Equal(t, []byte{'\x03', 'x'}, state.receive([]byte{tnIP, 'x'}))
}

func TestNegotiation(t *testing.T) {
	var out bytes.Buffer
	state := newState(&out)

	state.receive([]byte{tnIAC, tnDO, tnOptionEcho})
	assert.Equal(t, []byte{tnIAC, tnWONT, tnOptionEcho}, out.Bytes())
	out.Reset()
	state.receive([]byte{tnIAC, tnDO, tnOptionEcho})
	assert.Equal(t, 0, out.Len(), "option answered twice")

	state.receive([]byte{tnIAC, tnDO, tnOptionSGA})
	assert.Equal(t, 0, out.Len(), "SGA already offered")

	state.receive([]byte{tnIAC, tnWILL, tnOptionNAWS})
	assert.Equal(t, []byte{tnIAC, tnDONT, tnOptionNAWS}, out.Bytes())
	out.Reset()

	state.receive([]byte{tnIAC, tnWILL, tnOptionTerm})
	assert.Equal(t, []byte{tnIAC, tnSB, tnOptionTerm, tnSend, tnIAC, tnSE}, out.Bytes())

	data := append([]byte{tnIAC, tnSB, tnOptionTerm, tnIS}, []byte("VT100")...)
	data = append(data, tnIAC, tnSE, 'o', 'k')
	assert.Equal(t, []byte("ok"), state.receive(data))
	assert.Equal(t, "VT100", state.termType)
}

func TestSetPort(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"port 2323", ":2323", true},
		{"port localhost:2424", "localhost:2424", true},
		{"port 70000", "", false},
		{"port telnet", "", false},
	}
	for _, test := range tests {
		address = ""
		err := config.LoadConfig(strings.NewReader(test.line + "\n"))
		if test.ok {
			require.NoError(t, err, test.line)
		} else {
			require.Error(t, err, test.line)
		}
		assert.Equal(t, test.want, Address(), test.line)
	}

	address = ""
	err := config.LoadConfig(strings.NewReader("port 2323\nport 2424\n"))
	assert.Error(t, err)
	address = ""
}

// Read until all strings seen, returns text read.
func readUntil(t *testing.T, conn net.Conn, wants ...string) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got []byte
	buf := make([]byte, 512)
	for {
		done := true
		for _, want := range wants {
			if !strings.Contains(string(got), want) {
				done = false
			}
		}
		if done {
			return string(got)
		}
		n, err := conn.Read(buf)
		got = append(got, buf[:n]...)
		if err != nil {
			t.Fatalf("Reading for %q got %q: %v", wants, got, err)
		}
	}
}

func TestSession(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := engine.New(cfg)
	require.NoError(t, err)
	sim := core.NewCore(make(chan master.Packet), eng, 10)
	go sim.Start()
	defer sim.Stop()

	server, err := Listen("127.0.0.1:0", sim)
	require.NoError(t, err)
	defer server.Stop()

	conn, err := net.Dial("tcp", server.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	readUntil(t, conn, "type help", "SchedSim> ")

	_, err = conn.Write([]byte("create 3\r\n"))
	require.NoError(t, err)
	readUntil(t, conn, "Created PID 1\r\n", "[0] Process created: PID 1, length 3\r\n", "SchedSim> ")

	_, err = conn.Write([]byte("algorithm lottery\r\x00"))
	require.NoError(t, err)
	readUntil(t, conn, "Error: unknown algorithm: lottery", "SchedSim> ")

	// Changes from elsewhere are streamed.
	_, err = sim.CreateProcess(2, 1)
	require.NoError(t, err)
	readUntil(t, conn, "Process created: PID 2, length 2")

	_, err = conn.Write([]byte("quit\r\n"))
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err = io.ReadAll(conn)
	assert.NoError(t, err, "session not closed on quit")
	assert.Len(t, sim.Snapshot().PCB, 2)
}
