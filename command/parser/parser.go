/*
 * SchedSim - Command line parser.
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

package parser

import (
	"errors"
	"io"
	"strings"
	"unicode"

	command "github.com/rcornwell/SchedSim/command/command"
)

type cmd struct {
	Name     string // Command name.
	Min      int    // Minimum match size.
	Usage    string // Arguments shown by help.
	Process  func(*cmdLine, command.Simulator, io.Writer) (bool, error)
	Complete func(*cmdLine) []string
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

const maxNumber = 1 << 30

// Execute the command line given, returns true when the session should end.
func ProcessCommand(commandLine string, sim command.Simulator, out io.Writer) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord(false)
	if name == "" {
		line.skipSpace()
		if line.isEOL() {
			return false, nil
		}
		return false, errors.New("command not found: " + strings.TrimSpace(commandLine))
	}

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}

	if len(match) > 1 {
		return false, errors.New("unique command not found: " + name)
	}

	return match[0].Process(&line, sim, out)
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.Name) {
		return false
	}
	return strings.HasPrefix(match.Name, command) && len(command) >= match.Min
}

// Check if command matches one of the commands.
func matchList(command string) []cmd {
	// If command empty just return.
	if command == "" {
		return []cmd{}
	}

	// Try and match one command.
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			match = append(match, m)
		}
	}
	return match
}

// Skip forward over line until none whitespace character found.
func (line *cmdLine) skipSpace() {
	for {
		if line.pos >= len(line.line) {
			return
		}
		if unicode.IsSpace(rune(line.line[line.pos])) {
			line.pos++
			continue
		}
		return
	}
}

// Check if at end of line.
func (line *cmdLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}

	return line.line[line.pos] == '#'
}

// Return current character and advance to next.
func (line *cmdLine) getCurrent() byte {
	if line.isEOL() {
		return 0
	}
	by := line.line[line.pos]
	line.pos++
	return by
}

// Make sure nothing but a comment is left.
func (line *cmdLine) checkEOL() error {
	line.skipSpace()
	if !line.isEOL() {
		return errors.New("unexpected text: " + strings.TrimSpace(line.line[line.pos:]))
	}
	return nil
}

// Is next item on line a number.
func (line *cmdLine) isNumber() bool {
	line.skipSpace()
	return !line.isEOL() && unicode.IsDigit(rune(line.line[line.pos]))
}

// Parse a decimal number.
func (line *cmdLine) getNumber() (int, error) {
	line.skipSpace()

	// Check if end of line.
	if line.isEOL() {
		return 0, errors.New("not a number")
	}

	pos := line.pos
	value := 0
	by := line.getCurrent()
	for by != 0 {
		if !unicode.IsDigit(rune(by)) {
			line.pos = pos
			return 0, errors.New("not a number")
		}
		value = (value * 10) + int(by-'0')
		if value > maxNumber {
			line.pos = pos
			return 0, errors.New("number too large")
		}
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
	}

	return value, nil
}

// Parse a word of letters. When equal is set a trailing = ends the word
// and is consumed.
func (line *cmdLine) getWord(equal bool) string {
	line.skipSpace()

	// Characters must be alphabetic
	value := ""
	pos := line.pos
	by := line.getCurrent()
	for by != 0 {
		if !unicode.IsLetter(rune(by)) {
			line.pos = pos
			return ""
		}
		value += string([]byte{by})
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
		if by == '=' && equal {
			break
		}
	}

	return strings.ToLower(value)
}

// Get one name or name=value option, nil at end of line.
func (line *cmdLine) getOption(opts []command.Options) (*command.CmdOption, error) {
	line.skipSpace()
	if line.isEOL() {
		return nil, nil
	}

	start := line.pos
	name := line.getWord(true)
	if name == "" {
		return nil, errors.New("invalid option: " + strings.TrimSpace(line.line[start:]))
	}
	equal := line.line[line.pos-1] == '='

	match, ok := command.FindOption(opts, name)
	if !ok {
		return nil, errors.New("unknown option: " + name)
	}
	opt := command.CmdOption{Name: match.Name}

	switch match.OptionType {
	case command.OptionSwitch:
		if equal {
			return nil, errors.New("switch option can't have arguments: " + name)
		}
	case command.OptionNumber:
		if !equal {
			return nil, errors.New("number options must be followed by number: " + name)
		}
		num, err := line.getNumber()
		if err != nil {
			return nil, errors.New("number options must be followed by number: " + name)
		}
		opt.Value = num
	case command.OptionName:
		if !equal {
			return nil, errors.New("option must be followed by name: " + name)
		}
		value := line.getWord(false)
		v, ok := match.MatchValue(value)
		if value == "" || !ok {
			return nil, errors.New("option not valid for type: " + name)
		}
		opt.EqualOpt = v
	default:
		return nil, errors.New("invalid option type: " + name)
	}
	return &opt, nil
}

// Scan options to end of line.
func (line *cmdLine) getOptions(opts []command.Options) ([]*command.CmdOption, error) {
	optlist := []*command.CmdOption{}
	for {
		opt, err := line.getOption(opts)
		if err != nil {
			return nil, err
		}
		if opt == nil {
			return optlist, nil
		}
		optlist = append(optlist, opt)
	}
}
