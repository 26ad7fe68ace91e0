/*
   Core Virtual Boy emulator loop.

   Copyright 2025, tompko

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
   FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
   DEALINGS IN THE SOFTWARE.

*/

package core

import (
	"fmt"
	"sort"

	"github.com/tompko/virtualboy/emu/instruction"
	"github.com/tompko/virtualboy/emu/interconnect"
	"github.com/tompko/virtualboy/emu/rom"
	"github.com/tompko/virtualboy/emu/v810"
)

// The whole machine: CPU bound to the interconnect, plus the debugger
// tables the console works with.
type Machine struct {
	Interconnect *interconnect.Interconnect
	CPU          *v810.CPU

	breakpoints map[uint32]struct{}
	watchpoints map[uint32]uint8
	labels      map[string]uint32
}

func New(cart *rom.ROM) *Machine {
	cpu := v810.New()
	cpu.Reset()

	return &Machine{
		Interconnect: interconnect.New(cart),
		CPU:          cpu,
		breakpoints:  map[uint32]struct{}{},
		watchpoints:  map[uint32]uint8{},
		labels:       map[string]uint32{},
	}
}

// Execute one instruction. Peripheral time advances by the cycle count
// and any resulting interrupt is delivered back to the CPU.
func (m *Machine) Step() int {
	cycles := m.CPU.Step(m.Interconnect)

	if code, ok := m.Interconnect.Cycles(cycles); ok {
		m.CPU.RequestInterrupt(code)
	}

	return cycles
}

// Run until a breakpoint is hit or a watched byte changes. Returns the
// number of instructions executed and a reason for stopping.
func (m *Machine) Run() (int, string) {
	steps := 0
	for {
		m.Step()
		steps++

		if _, ok := m.breakpoints[m.CPU.PC()]; ok {
			return steps, fmt.Sprintf("breakpoint at 0x%08x", m.CPU.PC())
		}
		if addr, old, hit := m.checkWatchpoints(); hit {
			return steps, fmt.Sprintf("watchpoint at 0x%08x, 0x%02x -> 0x%02x",
				addr, old, m.Interconnect.ReadByte(addr))
		}
	}
}

func (m *Machine) AddBreakpoint(addr uint32) {
	m.breakpoints[addr] = struct{}{}
}

func (m *Machine) RemoveBreakpoint(addr uint32) {
	delete(m.breakpoints, addr)
}

func (m *Machine) Breakpoints() []uint32 {
	addrs := make([]uint32, 0, len(m.breakpoints))
	for addr := range m.breakpoints {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// Watchpoints snapshot the byte at the watched address and fire when a
// later step changes it.
func (m *Machine) AddWatchpoint(addr uint32) {
	m.watchpoints[addr] = m.Interconnect.ReadByte(addr)
}

func (m *Machine) RemoveWatchpoint(addr uint32) {
	delete(m.watchpoints, addr)
}

func (m *Machine) Watchpoints() []uint32 {
	addrs := make([]uint32, 0, len(m.watchpoints))
	for addr := range m.watchpoints {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

func (m *Machine) checkWatchpoints() (uint32, uint8, bool) {
	for addr, old := range m.watchpoints {
		val := m.Interconnect.ReadByte(addr)
		if val != old {
			m.watchpoints[addr] = val
			return addr, old, true
		}
	}
	return 0, 0, false
}

func (m *Machine) AddLabel(name string, addr uint32) {
	m.labels[name] = addr
}

func (m *Machine) RemoveLabel(name string) {
	delete(m.labels, name)
}

func (m *Machine) Labels() map[string]uint32 {
	return m.labels
}

// Look up a label, for commands that take either a name or an address.
func (m *Machine) Label(name string) (uint32, bool) {
	addr, ok := m.labels[name]
	return addr, ok
}

// Disassemble count instructions starting at addr. Returns the rendered
// lines and the address after the last instruction.
func (m *Machine) Disassemble(addr uint32, count int) ([]string, uint32) {
	lines := make([]string, 0, count)
	for range count {
		a := m.Interconnect.ReadHalfword(addr)
		b := m.Interconnect.ReadHalfword(addr + 2)
		inst := instruction.FromHalfwords(a, b)

		lines = append(lines, fmt.Sprintf("%08x: %v", addr, inst))

		if inst.IsLong() {
			addr += 4
		} else {
			addr += 2
		}
	}
	return lines, addr
}

// Dump the register file for the console.
func (m *Machine) ShowRegs() []string {
	lines := []string{
		fmt.Sprintf("pc:    %08x", m.CPU.PC()),
		fmt.Sprintf("psw:   %08x", m.CPU.PSW()),
		fmt.Sprintf("eipc:  %08x eipsw: %08x", m.CPU.EIPC(), m.CPU.EIPSW()),
	}
	for i := uint16(0); i < 32; i += 4 {
		lines = append(lines, fmt.Sprintf("r%-2d: %08x r%-2d: %08x r%-2d: %08x r%-2d: %08x",
			i, m.CPU.GPR(i), i+1, m.CPU.GPR(i+1), i+2, m.CPU.GPR(i+2), i+3, m.CPU.GPR(i+3)))
	}
	return lines
}
