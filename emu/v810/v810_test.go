/*
 * virtualboy - V810 CPU test cases
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

package v810

import (
	"testing"
)

// A flat scripted bus backing the CPU in tests.
type testBus struct {
	mem map[uint32]uint8
}

func newTestBus() *testBus {
	return &testBus{mem: map[uint32]uint8{}}
}

func (bus *testBus) ReadByte(addr uint32) uint8 {
	return bus.mem[addr]
}

func (bus *testBus) ReadHalfword(addr uint32) uint16 {
	addr &= 0xfffffffe
	return uint16(bus.mem[addr]) | (uint16(bus.mem[addr+1]) << 8)
}

func (bus *testBus) ReadWord(addr uint32) uint32 {
	return uint32(bus.ReadHalfword(addr)) | (uint32(bus.ReadHalfword(addr+2)) << 16)
}

func (bus *testBus) WriteByte(addr uint32, val uint8) {
	bus.mem[addr] = val
}

func (bus *testBus) WriteHalfword(addr uint32, val uint16) {
	addr &= 0xfffffffe
	bus.mem[addr] = uint8(val)
	bus.mem[addr+1] = uint8(val >> 8)
}

func (bus *testBus) WriteWord(addr uint32, val uint32) {
	bus.WriteHalfword(addr, uint16(val))
	bus.WriteHalfword(addr+2, uint16(val>>16))
}

func (bus *testBus) Cycles(cycles int) (uint16, bool) {
	return 0, false
}

// Place a program at the given address and point the CPU at it.
func setupCPU(pc uint32, halfwords ...uint16) (*CPU, *testBus) {
	cpu := New()
	cpu.Reset()
	cpu.SetPSW(0)
	cpu.SetPC(pc)

	bus := newTestBus()
	for i, hw := range halfwords {
		bus.WriteHalfword(pc+uint32(i*2), hw)
	}
	return cpu, bus
}

func checkFlags(t *testing.T, cpu *CPU, z, s, ov, cy bool) {
	t.Helper()
	if cpu.pswZero != z {
		t.Errorf("Z flag got: %v expected: %v", cpu.pswZero, z)
	}
	if cpu.pswSign != s {
		t.Errorf("S flag got: %v expected: %v", cpu.pswSign, s)
	}
	if cpu.pswOverflow != ov {
		t.Errorf("OV flag got: %v expected: %v", cpu.pswOverflow, ov)
	}
	if cpu.pswCarry != cy {
		t.Errorf("CY flag got: %v expected: %v", cpu.pswCarry, cy)
	}
}

func TestReset(t *testing.T) {
	cpu := New()
	cpu.Reset()

	if cpu.PC() != 0xfffffff0 {
		t.Errorf("PC after reset got: %08x expected: %08x", cpu.PC(), 0xfffffff0)
	}
	if cpu.GPR(0) != 0 {
		t.Errorf("r0 after reset got: %08x expected: 0", cpu.GPR(0))
	}
	for i := uint16(1); i < 32; i++ {
		if cpu.GPR(i) != 0xdeadbeef {
			t.Errorf("r%d after reset got: %08x expected: %08x", i, cpu.GPR(i), 0xdeadbeef)
		}
	}
	if cpu.EIPC() != 0xdeadbeef || cpu.EIPSW() != 0xdeadbeef {
		t.Errorf("exception context after reset got: %08x %08x", cpu.EIPC(), cpu.EIPSW())
	}
	if cpu.ecr != 0x0000fff0 {
		t.Errorf("ECR after reset got: %08x expected: %08x", cpu.ecr, 0x0000fff0)
	}
	if cpu.PSW() != 0x00008000 {
		t.Errorf("PSW after reset got: %08x expected: %08x", cpu.PSW(), 0x00008000)
	}
}

// MOV register to register, no flags touched.
func TestMovReg(t *testing.T) {
	cpu, bus := setupCPU(0x07000000, 0x0025) // MOV r5 r1
	cpu.gpr[5] = 0x12345678
	cpu.pswCarry = true

	cpu.Step(bus)

	if cpu.GPR(1) != 0x12345678 {
		t.Errorf("r1 got: %08x expected: %08x", cpu.GPR(1), 0x12345678)
	}
	if cpu.PC() != 0x07000002 {
		t.Errorf("PC got: %08x expected: %08x", cpu.PC(), 0x07000002)
	}
	if !cpu.pswCarry {
		t.Error("MOV should not touch the flags")
	}
}

func TestMovImm(t *testing.T) {
	cpu, bus := setupCPU(0x1000, 0x407e) // MOV -2 r3
	cpu.Step(bus)
	if cpu.GPR(3) != 0xfffffffe {
		t.Errorf("r3 got: %08x expected: %08x", cpu.GPR(3), 0xfffffffe)
	}
}

func TestAdd(t *testing.T) {
	// ADD r2 -> r1 with r1 = 0.
	cpu, bus := setupCPU(0, 0x0422)
	cpu.gpr[2] = 0xffffffff
	cpu.gpr[1] = 0

	cpu.Step(bus)

	if cpu.GPR(1) != 0xffffffff {
		t.Errorf("r1 got: %08x expected: %08x", cpu.GPR(1), 0xffffffff)
	}
	checkFlags(t, cpu, false, true, false, false)

	// Signed overflow: 0x7fffffff + 1.
	cpu, bus = setupCPU(0, 0x0441) // ADD r1 -> r2
	cpu.gpr[1] = 0x7fffffff
	cpu.gpr[2] = 1

	cpu.Step(bus)

	if cpu.GPR(2) != 0x80000000 {
		t.Errorf("r2 got: %08x expected: %08x", cpu.GPR(2), 0x80000000)
	}
	checkFlags(t, cpu, false, true, true, false)

	// Unsigned carry out.
	cpu, bus = setupCPU(0, 0x0441)
	cpu.gpr[1] = 0xffffffff
	cpu.gpr[2] = 1

	cpu.Step(bus)

	if cpu.GPR(2) != 0 {
		t.Errorf("r2 got: %08x expected: 0", cpu.GPR(2))
	}
	checkFlags(t, cpu, true, false, false, true)
}

func TestCmp(t *testing.T) {
	// CMP r3 -> r2: 0xff - 1.
	cpu, bus := setupCPU(0, 0x0c43)
	cpu.gpr[2] = 0x000000ff
	cpu.gpr[3] = 0x00000001

	cpu.Step(bus)

	if cpu.GPR(2) != 0x000000ff {
		t.Errorf("CMP must not write r2, got: %08x", cpu.GPR(2))
	}
	checkFlags(t, cpu, false, false, false, false)

	// Borrow: 0 - 1.
	cpu, bus = setupCPU(0, 0x0c43)
	cpu.gpr[2] = 0
	cpu.gpr[3] = 1

	cpu.Step(bus)
	checkFlags(t, cpu, false, true, false, true)
}

func TestSub(t *testing.T) {
	cpu, bus := setupCPU(0, 0x0841) // SUB r1 -> r2
	cpu.gpr[2] = 10
	cpu.gpr[1] = 4

	cpu.Step(bus)

	if cpu.GPR(2) != 6 {
		t.Errorf("r2 got: %d expected: 6", cpu.GPR(2))
	}
	checkFlags(t, cpu, false, false, false, false)

	// Signed overflow: INT_MIN - 1.
	cpu, bus = setupCPU(0, 0x0841)
	cpu.gpr[2] = 0x80000000
	cpu.gpr[1] = 1

	cpu.Step(bus)

	if cpu.GPR(2) != 0x7fffffff {
		t.Errorf("r2 got: %08x expected: %08x", cpu.GPR(2), 0x7fffffff)
	}
	checkFlags(t, cpu, false, false, true, false)
}

// Scenario 4 and 5: MOVEA and MOVHI don't touch flags.
func TestMovEaMovHi(t *testing.T) {
	cpu, bus := setupCPU(0x1000, 0xa020, 0x1234) // MOVEA 0x1234 r0 r1
	cpu.Step(bus)

	if cpu.GPR(1) != 0x00001234 {
		t.Errorf("r1 got: %08x expected: %08x", cpu.GPR(1), 0x00001234)
	}
	if cpu.PC() != 0x1004 {
		t.Errorf("PC got: %08x expected: %08x", cpu.PC(), 0x1004)
	}

	cpu, bus = setupCPU(0x1000, 0xbc20, 0xabcd) // MOVHI 0xabcd r0 r1
	cpu.Step(bus)

	if cpu.GPR(1) != 0xabcd0000 {
		t.Errorf("r1 got: %08x expected: %08x", cpu.GPR(1), 0xabcd0000)
	}
	if cpu.PC() != 0x1004 {
		t.Errorf("PC got: %08x expected: %08x", cpu.PC(), 0x1004)
	}

	// MOVEA sign extends its immediate.
	cpu, bus = setupCPU(0x1000, 0xa020, 0xffff)
	cpu.Step(bus)
	if cpu.GPR(1) != 0xffffffff {
		t.Errorf("r1 got: %08x expected: %08x", cpu.GPR(1), 0xffffffff)
	}
}

// Scenarios 6 and 7: BZ taken and not taken.
func TestBranch(t *testing.T) {
	cpu, bus := setupCPU(0x1000, 0x8408) // BZ +8
	cpu.pswZero = true
	cpu.Step(bus)
	if cpu.PC() != 0x1008 {
		t.Errorf("taken BZ PC got: %08x expected: %08x", cpu.PC(), 0x1008)
	}

	cpu, bus = setupCPU(0x1000, 0x8408)
	cpu.pswZero = false
	cpu.Step(bus)
	if cpu.PC() != 0x1002 {
		t.Errorf("untaken BZ PC got: %08x expected: %08x", cpu.PC(), 0x1002)
	}

	// BR is always taken, backwards displacement.
	cpu, bus = setupCPU(0x1000, 0x8bfe) // BR -2
	cpu.Step(bus)
	if cpu.PC() != 0x0ffe {
		t.Errorf("BR PC got: %08x expected: %08x", cpu.PC(), 0x0ffe)
	}

	// NOP never branches.
	cpu, bus = setupCPU(0x1000, 0x9a08) // NOP +8
	cpu.Step(bus)
	if cpu.PC() != 0x1002 {
		t.Errorf("NOP PC got: %08x expected: %08x", cpu.PC(), 0x1002)
	}

	// BLT follows S xor OV.
	cpu, bus = setupCPU(0x1000, 0x8c08) // BLT +8
	cpu.pswSign = true
	cpu.Step(bus)
	if cpu.PC() != 0x1008 {
		t.Errorf("BLT PC got: %08x expected: %08x", cpu.PC(), 0x1008)
	}

	cpu, bus = setupCPU(0x1000, 0x8c08)
	cpu.pswSign = true
	cpu.pswOverflow = true
	cpu.Step(bus)
	if cpu.PC() != 0x1002 {
		t.Errorf("BLT with S and OV PC got: %08x expected: %08x", cpu.PC(), 0x1002)
	}
}

// Scenario 9: JAL links the address after the four byte instruction.
func TestJumps(t *testing.T) {
	cpu, bus := setupCPU(0x2000, 0xac00, 0x0100) // JAL +0x100
	cpu.Step(bus)
	if cpu.GPR(31) != 0x2004 {
		t.Errorf("r31 got: %08x expected: %08x", cpu.GPR(31), 0x2004)
	}
	if cpu.PC() != 0x2100 {
		t.Errorf("JAL PC got: %08x expected: %08x", cpu.PC(), 0x2100)
	}

	cpu, bus = setupCPU(0x2000, 0xabff, 0xfffc) // JR -4
	cpu.Step(bus)
	if cpu.PC() != 0x1ffc {
		t.Errorf("JR PC got: %08x expected: %08x", cpu.PC(), 0x1ffc)
	}

	cpu, bus = setupCPU(0x2000, 0x1805) // JMP [r5]
	cpu.gpr[5] = 0x07000100
	cpu.Step(bus)
	if cpu.PC() != 0x07000100 {
		t.Errorf("JMP PC got: %08x expected: %08x", cpu.PC(), 0x07000100)
	}
}

func TestLogical(t *testing.T) {
	// AND rN rN leaves the value and sets flags from it.
	cpu, bus := setupCPU(0, 0x3463) // AND r3 r3
	cpu.gpr[3] = 0x80000001
	cpu.pswOverflow = true

	cpu.Step(bus)

	if cpu.GPR(3) != 0x80000001 {
		t.Errorf("r3 got: %08x expected: %08x", cpu.GPR(3), 0x80000001)
	}
	checkFlags(t, cpu, false, true, false, false)

	// XOR of a value with itself is zero.
	cpu, bus = setupCPU(0, 0x3863) // XOR r3 r3
	cpu.gpr[3] = 0x12345678
	cpu.Step(bus)
	if cpu.GPR(3) != 0 {
		t.Errorf("r3 got: %08x expected: 0", cpu.GPR(3))
	}
	if !cpu.pswZero {
		t.Error("XOR of self should set Z")
	}

	// ANDI always clears the sign flag.
	cpu, bus = setupCPU(0, 0xb443, 0xffff) // ANDI 0xffff r3 r2
	cpu.gpr[3] = 0x80000000
	cpu.pswSign = true
	cpu.Step(bus)
	if cpu.GPR(2) != 0 {
		t.Errorf("r2 got: %08x expected: 0", cpu.GPR(2))
	}
	checkFlags(t, cpu, true, false, false, false)

	// ORI zero extends its immediate.
	cpu, bus = setupCPU(0, 0xb043, 0x8000) // ORI 0x8000 r3 r2
	cpu.gpr[3] = 1
	cpu.Step(bus)
	if cpu.GPR(2) != 0x00008001 {
		t.Errorf("r2 got: %08x expected: %08x", cpu.GPR(2), 0x00008001)
	}
	checkFlags(t, cpu, false, false, false, false)

	// NOT.
	cpu, bus = setupCPU(0, 0x3c43) // NOT r3 r2
	cpu.gpr[3] = 0x0000ffff
	cpu.Step(bus)
	if cpu.GPR(2) != 0xffff0000 {
		t.Errorf("r2 got: %08x expected: %08x", cpu.GPR(2), 0xffff0000)
	}
	checkFlags(t, cpu, false, true, false, false)
}

func TestShifts(t *testing.T) {
	// Zero shift only refreshes Z and S.
	cpu, bus := setupCPU(0, 0x5060) // SHL 0 r3
	cpu.gpr[3] = 0x80000000
	cpu.pswCarry = true
	cpu.Step(bus)
	if cpu.GPR(3) != 0x80000000 {
		t.Errorf("r3 got: %08x expected: %08x", cpu.GPR(3), 0x80000000)
	}
	checkFlags(t, cpu, false, true, false, false)

	// SHL catches the last bit out in carry.
	cpu, bus = setupCPU(0, 0x5061) // SHL 1 r3
	cpu.gpr[3] = 0x80000000
	cpu.Step(bus)
	if cpu.GPR(3) != 0 {
		t.Errorf("r3 got: %08x expected: 0", cpu.GPR(3))
	}
	checkFlags(t, cpu, true, false, false, true)

	// SHR.
	cpu, bus = setupCPU(0, 0x5461) // SHR 1 r3
	cpu.gpr[3] = 0x00000001
	cpu.Step(bus)
	if cpu.GPR(3) != 0 {
		t.Errorf("r3 got: %08x expected: 0", cpu.GPR(3))
	}
	checkFlags(t, cpu, true, false, false, true)

	// SAR keeps the sign bit.
	cpu, bus = setupCPU(0, 0x5c61) // SAR 1 r3
	cpu.gpr[3] = 0x80000000
	cpu.Step(bus)
	if cpu.GPR(3) != 0xc0000000 {
		t.Errorf("r3 got: %08x expected: %08x", cpu.GPR(3), 0xc0000000)
	}
	checkFlags(t, cpu, false, true, false, false)

	// Shift amounts from a register are taken mod 32.
	cpu, bus = setupCPU(0, 0x1044) // SHL r4 -> r2
	cpu.gpr[2] = 1
	cpu.gpr[4] = 33
	cpu.Step(bus)
	if cpu.GPR(2) != 2 {
		t.Errorf("r2 got: %08x expected: 2", cpu.GPR(2))
	}
}

// Loads mask their effective address down to a word boundary, stores to a
// halfword boundary for byte and halfword widths.
func TestLoadStore(t *testing.T) {
	cpu, bus := setupCPU(0x1000, 0xc083, 0x0000) // LD.B 0[gpr3] r4
	bus.WriteByte(0x2000, 0xa5)
	cpu.gpr[3] = 0x2003
	cpu.gpr[4] = 0xffffffff
	cpu.Step(bus)
	if cpu.GPR(4) != 0x000000a5 {
		t.Errorf("LD.B r4 got: %08x expected: %08x", cpu.GPR(4), 0x000000a5)
	}

	cpu, bus = setupCPU(0x1000, 0xc483, 0x0000) // LD.H 0[gpr3] r4
	bus.WriteHalfword(0x2000, 0x8765)
	cpu.gpr[3] = 0x2002
	cpu.Step(bus)
	if cpu.GPR(4) != 0x00008765 {
		t.Errorf("LD.H r4 got: %08x expected: %08x", cpu.GPR(4), 0x00008765)
	}

	cpu, bus = setupCPU(0x1000, 0xc883, 0xfffc) // LD.W -4[gpr3] r4
	bus.WriteWord(0x2000, 0x89abcdef)
	cpu.gpr[3] = 0x2004
	cpu.Step(bus)
	if cpu.GPR(4) != 0x89abcdef {
		t.Errorf("LD.W r4 got: %08x expected: %08x", cpu.GPR(4), 0x89abcdef)
	}

	// ST.B masks bit 0 only.
	cpu, bus = setupCPU(0x1000, 0xd083, 0x0000) // ST.B 0[gpr3] r4
	cpu.gpr[3] = 0x2003
	cpu.gpr[4] = 0x112233a5
	cpu.Step(bus)
	if bus.mem[0x2002] != 0xa5 {
		t.Errorf("ST.B wrote: %02x at 2002 expected: a5", bus.mem[0x2002])
	}

	cpu, bus = setupCPU(0x1000, 0xd483, 0x0000) // ST.H 0[gpr3] r4
	cpu.gpr[3] = 0x2001
	cpu.gpr[4] = 0x1122beef
	cpu.Step(bus)
	if bus.ReadHalfword(0x2000) != 0xbeef {
		t.Errorf("ST.H wrote: %04x expected: beef", bus.ReadHalfword(0x2000))
	}

	cpu, bus = setupCPU(0x1000, 0xd883, 0x0000) // ST.W 0[gpr3] r4
	cpu.gpr[3] = 0x2003
	cpu.gpr[4] = 0x12345678
	cpu.Step(bus)
	if bus.ReadWord(0x2000) != 0x12345678 {
		t.Errorf("ST.W wrote: %08x expected: 12345678", bus.ReadWord(0x2000))
	}
}

// LDSR PSW then STSR PSW is the identity on the defined bits.
func TestLdsrStsr(t *testing.T) {
	cpu, bus := setupCPU(0x1000, 0x7065, 0x7485) // LDSR r3 PSW, STSR PSW r4
	cpu.gpr[3] = 0xffffffff
	cpu.Step(bus)
	cpu.Step(bus)

	if cpu.GPR(4) != 0x000ff3ff {
		t.Errorf("round trip PSW got: %08x expected: %08x", cpu.GPR(4), 0x000ff3ff)
	}
}

// The defined bits are the four integer flags, the six floating point
// flags, ID, AE, EP, NP and the four bit mask level.
func TestPSWRoundTrip(t *testing.T) {
	cpu := New()
	for _, val := range []uint32{0, 0xffffffff, 0x00008000, 0x000ff3ff, 0x12345678, 0x0005a50f} {
		cpu.SetPSW(val)
		expect := val & 0x000ff3ff
		if got := cpu.PSW(); got != expect {
			t.Errorf("PSW round trip of %08x got: %08x expected: %08x", val, got, expect)
		}
	}
}

func TestCliSei(t *testing.T) {
	cpu, bus := setupCPU(0x1000, 0x7800, 0x5800) // SEI, CLI
	cpu.Step(bus)
	if !cpu.pswInterruptDisable {
		t.Error("SEI should set ID")
	}
	cpu.Step(bus)
	if cpu.pswInterruptDisable {
		t.Error("CLI should clear ID")
	}
}

// Writes to r0 are dropped.
func TestGPRZero(t *testing.T) {
	cpu, bus := setupCPU(0x1000, 0x4005, 0x0080) // MOV 5 r0, MOV r0 r4
	cpu.Step(bus)
	if cpu.GPR(0) != 0 {
		t.Errorf("r0 got: %08x expected: 0", cpu.GPR(0))
	}
	cpu.Step(bus)
	if cpu.GPR(4) != 0 {
		t.Errorf("r4 got: %08x expected: 0", cpu.GPR(4))
	}
}

// Decoded but unimplemented opcodes fail loudly.
func TestUnimplemented(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MUL should have panicked")
		}
	}()

	cpu, bus := setupCPU(0x1000, 0x2041) // MUL r1 -> r2
	cpu.Step(bus)
}

func TestIllegal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("illegal opcode should have panicked")
		}
	}()

	cpu, bus := setupCPU(0x1000, 0x6c00)
	cpu.Step(bus)
}
