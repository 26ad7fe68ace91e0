/*
 * virtualboy - Command parser.
 *
 * Copyright 2025, tompko
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
	"fmt"
	"strconv"
	"strings"
	"unicode"

	core "github.com/tompko/virtualboy/emu/core"
)

type cmd struct {
	name    string // Command name.
	min     int    // Minimum match size.
	process func(*cmdLine, *core.Machine) (bool, error)
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

var cmdList = []cmd{
	{name: "step", min: 1, process: step},
	{name: "continue", min: 1, process: cont},
	{name: "regs", min: 1, process: regs},
	{name: "mem", min: 1, process: mem},
	{name: "disassemble", min: 1, process: disassemble},
	{name: "break", min: 1, process: breakpoint},
	{name: "unbreak", min: 3, process: unbreak},
	{name: "watch", min: 1, process: watch},
	{name: "unwatch", min: 3, process: unwatch},
	{name: "label", min: 1, process: label},
	{name: "unlabel", min: 3, process: unlabel},
	{name: "goto", min: 1, process: gotoCmd},
	{name: "rom", min: 2, process: romInfo},
	{name: "quit", min: 1, process: quit},
}

// Execute the command line given. The bool result requests quitting.
func ProcessCommand(commandLine string, machine *core.Machine) (bool, error) {
	line := cmdLine{line: commandLine}
	command := line.getWord()

	if command == "" {
		return false, nil
	}

	match := matchList(command)
	if len(match) == 0 {
		return false, errors.New("command not found: " + command)
	}

	if len(match) > 1 {
		return false, errors.New("unique command not found: " + command)
	}

	return match[0].process(&line, machine)
}

// Called to complete a command line, during line editing.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() {
		// The command is already complete, nothing to offer for
		// arguments yet.
		return nil
	}

	// Completion offers every command the word is a prefix of, without
	// the minimum match length that execution requires.
	matches := []string{}
	if name == "" {
		return matches
	}
	for _, m := range cmdList {
		if strings.HasPrefix(m.name, name) {
			matches = append(matches, m.name)
		}
	}
	return matches
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.name) {
		return false
	}
	for i := range len(command) {
		if match.name[i] != command[i] {
			return false
		}
	}
	return len(command) >= match.min
}

// Check if command matches one of the commands.
func matchList(command string) []cmd {
	if command == "" {
		return []cmd{}
	}

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
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// Check if at end of line.
func (line *cmdLine) isEOL() bool {
	line.skipSpace()
	return line.pos >= len(line.line)
}

// Return the next whitespace separated word, empty at end of line.
func (line *cmdLine) getWord() string {
	line.skipSpace()
	start := line.pos
	for line.pos < len(line.line) && !unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
	return strings.ToLower(line.line[start:line.pos])
}

// Parse a decimal count, with a default when the line is empty.
func (line *cmdLine) getCount(def int) (int, error) {
	if line.isEOL() {
		return def, nil
	}
	word := line.getWord()
	count, err := strconv.ParseUint(word, 10, 32)
	if err != nil {
		return 0, errors.New("count must be a number: " + word)
	}
	return int(count), nil
}

// Parse an address, either 0x hex or a label name.
func (line *cmdLine) getAddr(machine *core.Machine) (uint32, error) {
	if line.isEOL() {
		return 0, errors.New("address expected")
	}
	word := line.getWord()

	if strings.HasPrefix(word, "0x") {
		addr, err := strconv.ParseUint(word[2:], 16, 32)
		if err != nil {
			return 0, errors.New("address must be hex: " + word)
		}
		return uint32(addr), nil
	}

	if addr, ok := machine.Label(word); ok {
		return addr, nil
	}
	return 0, errors.New("unknown label: " + word)
}

// Execute one or more instructions.
func step(line *cmdLine, machine *core.Machine) (bool, error) {
	count, err := line.getCount(1)
	if err != nil {
		return false, err
	}

	for range count {
		machine.Step()
	}

	lines, _ := machine.Disassemble(machine.CPU.PC(), 1)
	fmt.Println(lines[0])
	return false, nil
}

// Run until a breakpoint or watchpoint fires.
func cont(_ *cmdLine, machine *core.Machine) (bool, error) {
	steps, reason := machine.Run()
	fmt.Printf("stopped after %d steps: %s\n", steps, reason)
	return false, nil
}

// Dump the register file.
func regs(_ *cmdLine, machine *core.Machine) (bool, error) {
	for _, l := range machine.ShowRegs() {
		fmt.Println(l)
	}
	return false, nil
}

// Dump a word of memory.
func mem(line *cmdLine, machine *core.Machine) (bool, error) {
	addr, err := line.getAddr(machine)
	if err != nil {
		return false, err
	}

	fmt.Printf("%08x: %08x\n", addr, machine.Interconnect.ReadWord(addr))
	return false, nil
}

// Disassemble from the current program counter.
func disassemble(line *cmdLine, machine *core.Machine) (bool, error) {
	count, err := line.getCount(8)
	if err != nil {
		return false, err
	}

	lines, _ := machine.Disassemble(machine.CPU.PC(), count)
	for _, l := range lines {
		fmt.Println(l)
	}
	return false, nil
}

// With no argument list breakpoints, otherwise add one.
func breakpoint(line *cmdLine, machine *core.Machine) (bool, error) {
	if line.isEOL() {
		for _, addr := range machine.Breakpoints() {
			fmt.Printf("breakpoint 0x%08x\n", addr)
		}
		return false, nil
	}

	addr, err := line.getAddr(machine)
	if err != nil {
		return false, err
	}
	machine.AddBreakpoint(addr)
	return false, nil
}

func unbreak(line *cmdLine, machine *core.Machine) (bool, error) {
	addr, err := line.getAddr(machine)
	if err != nil {
		return false, err
	}
	machine.RemoveBreakpoint(addr)
	return false, nil
}

// With no argument list watchpoints, otherwise add one.
func watch(line *cmdLine, machine *core.Machine) (bool, error) {
	if line.isEOL() {
		for _, addr := range machine.Watchpoints() {
			fmt.Printf("watchpoint 0x%08x\n", addr)
		}
		return false, nil
	}

	addr, err := line.getAddr(machine)
	if err != nil {
		return false, err
	}
	machine.AddWatchpoint(addr)
	return false, nil
}

func unwatch(line *cmdLine, machine *core.Machine) (bool, error) {
	addr, err := line.getAddr(machine)
	if err != nil {
		return false, err
	}
	machine.RemoveWatchpoint(addr)
	return false, nil
}

// With no argument list labels, otherwise add one.
func label(line *cmdLine, machine *core.Machine) (bool, error) {
	if line.isEOL() {
		for name, addr := range machine.Labels() {
			fmt.Printf("%s: 0x%08x\n", name, addr)
		}
		return false, nil
	}

	name := line.getWord()
	addr, err := line.getAddr(machine)
	if err != nil {
		return false, err
	}
	machine.AddLabel(name, addr)
	return false, nil
}

func unlabel(line *cmdLine, machine *core.Machine) (bool, error) {
	if line.isEOL() {
		return false, errors.New("label name expected")
	}
	machine.RemoveLabel(line.getWord())
	return false, nil
}

// Force the program counter.
func gotoCmd(line *cmdLine, machine *core.Machine) (bool, error) {
	addr, err := line.getAddr(machine)
	if err != nil {
		return false, err
	}
	machine.CPU.SetPC(addr)
	return false, nil
}

// Show the cartridge header.
func romInfo(_ *cmdLine, machine *core.Machine) (bool, error) {
	cart := machine.Interconnect.ROM()

	name, err := cart.Name()
	if err != nil {
		name = "(undecodable)"
	}
	fmt.Printf("name:    %s\n", name)
	fmt.Printf("maker:   %s\n", cart.MakerCode())
	fmt.Printf("game:    %s\n", cart.GameCode())
	fmt.Printf("version: %s\n", cart.GameVersion())
	fmt.Printf("size:    %d\n", cart.Size())
	return false, nil
}

// Handle commands that quit simulation.
func quit(_ *cmdLine, _ *core.Machine) (bool, error) {
	return true, nil
}
