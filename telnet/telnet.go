/*
 * SchedSim - Telnet protocol handling.
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
	"io"
)

// Telnet protocol constants.
const (
	tnIAC  byte = 255 // protocol delim
	tnDONT byte = 254 // dont
	tnDO   byte = 253 // do
	tnWONT byte = 252 // wont
	tnWILL byte = 251 // will
	tnSB   byte = 250 // Sub negotiations begin
	tnGA   byte = 249 // Go ahead
	tnEL   byte = 248 // Erase line
	tnEC   byte = 247 // Erase character
	tnIP   byte = 244 // Interrupt process
	tnBRK  byte = 243 // break
	tnSE   byte = 240 // Sub negotiations end
	tnIS   byte = 0
	tnSend byte = 1
)

// Telnet line states.
const (
	tnStateData = 1 + iota // normal
	tnStateIAC             // IAC seen
	tnStateWILL            // WILL seen
	tnStateDO              // DO seen
	tnStateDONT            // DONT seen
	tnStateWONT            // WONT seen
	tnStateSB              // Start of SB expect type
	tnStateSBIS            // Waiting for IS
	tnStateSBData          // Data for SB until IAC
	tnStateSE              // Waiting for SE
)

// Telnet options.
const (
	tnOptionBinary byte = 0  // Binary data transfer
	tnOptionEcho   byte = 1  // Echo
	tnOptionSGA    byte = 3  // Suppress Go Ahead
	tnOptionTerm   byte = 24 // Request Terminal Type
	tnOptionNAWS   byte = 31 // Negotiate about terminal size
	tnOptionLINE   byte = 34 // line mode
)

// Telnet flags.
const (
	tnFlagDo   uint8 = 0x01 // Do sent
	tnFlagDont uint8 = 0x02 // Don't sent
	tnFlagWill uint8 = 0x04 // Will sent
	tnFlagWont uint8 = 0x08 // Wont sent
)

// Client does its own line editing and echo, we want its terminal type.
var initString = []byte{
	tnIAC, tnWILL, tnOptionSGA,
	tnIAC, tnDO, tnOptionTerm,
}

// Convert option number to string.
func optName(opt byte) string {
	switch opt {
	case tnOptionBinary:
		return "bin"
	case tnOptionEcho:
		return "echo"
	case tnOptionSGA:
		return "sga"
	case tnOptionTerm:
		return "term"
	case tnOptionNAWS:
		return "naws"
	case tnOptionLINE:
		return "line"
	}
	return "unknown"
}

type tnState struct {
	optionState [256]uint8 // Negotiation already sent
	sbtype      byte       // Type of SB being received
	state       int        // Current line State
	term        []byte     // Terminal type being collected
	termType    string     // Terminal type reported by client
	out         io.Writer  // Where to send replies
}

func newState(out io.Writer) *tnState {
	state := &tnState{state: tnStateData, out: out}
	state.optionState[tnOptionSGA] = tnFlagWill
	state.optionState[tnOptionTerm] = tnFlagDo
	return state
}

// Send a response to client once per option and direction.
func (state *tnState) sendOption(setState, option byte) {
	var flag uint8
	switch setState {
	case tnWILL:
		flag = tnFlagWill
	case tnWONT:
		flag = tnFlagWont
	case tnDO:
		flag = tnFlagDo
	case tnDONT:
		flag = tnFlagDont
	}
	if state.optionState[option]&flag != 0 {
		return
	}
	state.optionState[option] |= flag
	debugf(debugOption, "send %d %s", setState, optName(option))
	_, _ = state.out.Write([]byte{tnIAC, setState, option})
}

// Handle DO request, we only do SGA.
func (state *tnState) handleDO(input byte) {
	debugf(debugOption, "do %s", optName(input))
	if input == tnOptionSGA {
		state.sendOption(tnWILL, input)
		return
	}
	state.sendOption(tnWONT, input)
}

// Handle WILL request, accept terminal type only.
func (state *tnState) handleWILL(input byte) {
	debugf(debugOption, "will %s", optName(input))
	if input == tnOptionTerm {
		_, _ = state.out.Write([]byte{tnIAC, tnSB, tnOptionTerm, tnSend, tnIAC, tnSE})
		return
	}
	state.sendOption(tnDONT, input)
}

// Strip protocol from input, returns user data.
func (state *tnState) receive(data []byte) []byte {
	out := []byte{}
	for _, input := range data {
		switch state.state {
		case tnStateData:
			if input == tnIAC {
				state.state = tnStateIAC
			} else {
				out = append(out, input)
			}

		case tnStateIAC:
			state.state = tnStateData
			switch input {
			case tnIAC:
				out = append(out, input)
			case tnWILL:
				state.state = tnStateWILL
			case tnWONT:
				state.state = tnStateWONT
			case tnDO:
				state.state = tnStateDO
			case tnDONT:
				state.state = tnStateDONT
			case tnSB:
				state.state = tnStateSB
			case tnIP, tnBRK:
				// Abandon current line.
				out = append(out, '\x03')
			case tnEL:
				out = append(out, '\x15')
			case tnEC:
				out = append(out, '\b')
			}

		case tnStateWILL:
			state.handleWILL(input)
			state.state = tnStateData

		case tnStateWONT:
			debugf(debugOption, "wont %s", optName(input))
			state.sendOption(tnDONT, input)
			state.state = tnStateData

		case tnStateDO:
			state.handleDO(input)
			state.state = tnStateData

		case tnStateDONT:
			debugf(debugOption, "dont %s", optName(input))
			state.sendOption(tnWONT, input)
			state.state = tnStateData

		case tnStateSB:
			state.sbtype = input
			state.state = tnStateSBIS

		case tnStateSBIS:
			state.term = state.term[:0]
			if input == tnIS {
				state.state = tnStateSBData
			} else {
				state.state = tnStateSE
			}

		case tnStateSBData:
			if input == tnIAC {
				state.state = tnStateSE
			} else {
				state.term = append(state.term, input)
			}

		case tnStateSE:
			if input == tnSE {
				state.state = tnStateData
				if state.sbtype == tnOptionTerm {
					state.termType = string(state.term)
					debugf(debugOption, "terminal %s", state.termType)
				}
			}
		}
	}
	return out
}
