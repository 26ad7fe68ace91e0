/*
 * virtualboy - V810 CPU engine
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

/*
   The V810 is a 32 bit RISC processor with 32 general purpose registers,
   register 0 hardwired to zero. Instructions are one or two halfwords in
   seven formats. The program counter resets to 0xfffffff0, which the 27
   bit bus folds into the top of cartridge ROM.

   Condition flags live in the processor status word together with the
   interrupt and exception state. The four integer flags are:

     Z   result was zero
     S   result was negative
     OV  signed overflow
     CY  carry or borrow out of bit 31
*/

import (
	"fmt"
	"log/slog"

	"github.com/tompko/virtualboy/emu/instruction"
	"github.com/tompko/virtualboy/util/debug"
)

// The narrow contract the CPU needs from the interconnect. Tests
// substitute a scripted fake that records accesses.
type Bus interface {
	ReadByte(addr uint32) uint8
	ReadHalfword(addr uint32) uint16
	ReadWord(addr uint32) uint32
	WriteByte(addr uint32, val uint8)
	WriteHalfword(addr uint32, val uint16)
	WriteWord(addr uint32, val uint32)
	Cycles(cycles int) (uint16, bool)
}

type CPU struct {
	pc  uint32
	gpr [32]uint32

	eipc  uint32
	eipsw uint32
	fepc  uint32
	fepsw uint32
	ecr   uint32
	tkcw  uint32
	chcw  uint32
	adtre uint32

	pswZero                   bool
	pswSign                   bool
	pswOverflow               bool
	pswCarry                  bool
	pswFPPrecisionDegradation bool
	pswFPUnderflow            bool
	pswFPOverflow             bool
	pswFPZeroDivision         bool
	pswFPInvalidOperation     bool
	pswFPReservedOperand      bool
	pswInterruptDisable       bool
	pswAddressTrapEnable      bool
	pswExceptionPending       bool
	pswNMIPending             bool
	pswInterruptMaskLevel     uint8

	debugMask int
}

func New() *CPU {
	return &CPU{}
}

// Put the CPU in its power on state.
func (cpu *CPU) Reset() {
	cpu.pc = 0xfffffff0
	cpu.eipc = 0xdeadbeef
	cpu.eipsw = 0xdeadbeef
	cpu.fepc = 0xdeadbeef
	cpu.fepsw = 0xdeadbeef
	cpu.setECR(0x0000, 0xfff0)
	cpu.SetPSW(0x00008000)
	for i := 1; i < 32; i++ {
		cpu.gpr[i] = 0xdeadbeef
	}
}

// Set the instruction trace mask.
func (cpu *CPU) SetDebug(mask int) {
	cpu.debugMask = mask
}

// Execute one instruction against the bus. Returns the number of cycles
// the instruction took.
func (cpu *CPU) Step(bus Bus) int {
	firstHalfword := bus.ReadHalfword(cpu.pc)
	nextPC := cpu.pc + 2
	cycles := 1 // Not based on the instruction yet.

	fetchNext := func() uint16 {
		secondHalfword := bus.ReadHalfword(nextPC)
		nextPC += 2
		return secondHalfword
	}

	if (firstHalfword >> 13) == instruction.BitsBCondPrefix {
		opbits := firstHalfword >> 9

		var takeBranch bool
		switch opbits {
		case instruction.BitsBCondBV:
			takeBranch = cpu.pswOverflow
		case instruction.BitsBCondBC:
			takeBranch = cpu.pswCarry
		case instruction.BitsBCondBZ:
			takeBranch = cpu.pswZero
		case instruction.BitsBCondBNH:
			takeBranch = cpu.pswCarry || cpu.pswZero
		case instruction.BitsBCondBN:
			takeBranch = cpu.pswSign
		case instruction.BitsBCondBR:
			takeBranch = true
		case instruction.BitsBCondBLT:
			takeBranch = cpu.pswSign != cpu.pswOverflow
		case instruction.BitsBCondBLE:
			takeBranch = (cpu.pswSign != cpu.pswOverflow) || cpu.pswZero
		case instruction.BitsBCondBNV:
			takeBranch = !cpu.pswOverflow
		case instruction.BitsBCondBNC:
			takeBranch = !cpu.pswCarry
		case instruction.BitsBCondBNZ:
			takeBranch = !cpu.pswZero
		case instruction.BitsBCondBH:
			takeBranch = !(cpu.pswCarry || cpu.pswZero)
		case instruction.BitsBCondBP:
			takeBranch = !cpu.pswSign
		case instruction.BitsBCondNOP:
			takeBranch = false
		case instruction.BitsBCondBGE:
			takeBranch = !(cpu.pswSign != cpu.pswOverflow)
		case instruction.BitsBCondBGT:
			takeBranch = !((cpu.pswSign != cpu.pswOverflow) || cpu.pswZero)
		default:
			panic(fmt.Sprintf("invariant violated: BCond bits 0x%02x", opbits))
		}

		if takeBranch {
			disp := uint32(int32((int16(firstHalfword)<<7)>>7)) & 0xfffffffe
			nextPC = cpu.pc + disp
		}
	} else {
		reg1 := firstHalfword & 0x1f
		reg2 := (firstHalfword >> 5) & 0x1f
		imm5 := firstHalfword & 0x1f

		opbits := firstHalfword >> 10

		switch opbits {
		case instruction.BitsMovReg:
			cpu.setGPR(reg2, cpu.GPR(reg1))
		case instruction.BitsAddReg:
			cpu.add(cpu.GPR(reg1), cpu.GPR(reg2), reg2)
		case instruction.BitsSub:
			res := cpu.sub(cpu.GPR(reg2), cpu.GPR(reg1))
			cpu.setGPR(reg2, res)
		case instruction.BitsCmpReg:
			cpu.sub(cpu.GPR(reg2), cpu.GPR(reg1))
		case instruction.BitsShlReg:
			res := cpu.shl(cpu.GPR(reg2), cpu.GPR(reg1))
			cpu.setGPR(reg2, res)
		case instruction.BitsShrReg:
			res := cpu.shr(cpu.GPR(reg2), cpu.GPR(reg1))
			cpu.setGPR(reg2, res)
		case instruction.BitsJmp:
			nextPC = cpu.GPR(reg1)
		case instruction.BitsSarReg:
			res := cpu.sar(cpu.GPR(reg2), cpu.GPR(reg1))
			cpu.setGPR(reg2, res)
		case instruction.BitsOr:
			res := cpu.GPR(reg1) | cpu.GPR(reg2)
			cpu.pswOverflow = false
			cpu.setZeroSignFlags(res)
			cpu.setGPR(reg2, res)
		case instruction.BitsAnd:
			res := cpu.GPR(reg1) & cpu.GPR(reg2)
			cpu.pswOverflow = false
			cpu.setZeroSignFlags(res)
			cpu.setGPR(reg2, res)
		case instruction.BitsXor:
			res := cpu.GPR(reg1) ^ cpu.GPR(reg2)
			cpu.pswOverflow = false
			cpu.setZeroSignFlags(res)
			cpu.setGPR(reg2, res)
		case instruction.BitsNot:
			res := ^cpu.GPR(reg1)
			cpu.pswOverflow = false
			cpu.setZeroSignFlags(res)
			cpu.setGPR(reg2, res)
		case instruction.BitsMovImm:
			cpu.setGPR(reg2, signExtendImm5(imm5))
		case instruction.BitsAddImm:
			cpu.add(cpu.GPR(reg2), signExtendImm5(imm5), reg2)
		case instruction.BitsCmpImm:
			cpu.sub(cpu.GPR(reg2), signExtendImm5(imm5))
		case instruction.BitsShlImm:
			res := cpu.shl(cpu.GPR(reg2), uint32(imm5))
			cpu.setGPR(reg2, res)
		case instruction.BitsShrImm:
			res := cpu.shr(cpu.GPR(reg2), uint32(imm5))
			cpu.setGPR(reg2, res)
		case instruction.BitsSarImm:
			res := cpu.sar(cpu.GPR(reg2), uint32(imm5))
			cpu.setGPR(reg2, res)
		case instruction.BitsCli:
			cpu.pswInterruptDisable = false
		case instruction.BitsSei:
			cpu.pswInterruptDisable = true
		case instruction.BitsLdsr:
			val := cpu.GPR(reg2)
			switch imm5 {
			case instruction.SysRegECR:
				slog.Warn(fmt.Sprintf("Attempted to write to ECR %d", val))
			case instruction.SysRegPSW:
				cpu.SetPSW(val)
			case instruction.SysRegPIR:
				slog.Warn(fmt.Sprintf("Attempted to write to PIR %d", val))
			case instruction.SysRegTKCW:
				slog.Warn(fmt.Sprintf("Attempted to write to TKCW %d", val))
			case instruction.SysRegCHCW:
				cpu.setCHCW(val)
			default:
				panic(fmt.Sprintf("unimplemented LDSR system register %d at pc 0x%08x", imm5, cpu.pc))
			}
		case instruction.BitsStsr:
			var val uint32
			switch imm5 {
			case instruction.SysRegPSW:
				val = cpu.PSW()
			default:
				panic(fmt.Sprintf("unimplemented STSR system register %d at pc 0x%08x", imm5, cpu.pc))
			}
			cpu.setGPR(reg2, val)
		case instruction.BitsMovEa:
			imm16 := fetchNext()
			cpu.setGPR(reg2, cpu.GPR(reg1)+signExtend16(imm16))
		case instruction.BitsAddI:
			imm16 := fetchNext()
			cpu.add(cpu.GPR(reg1), signExtend16(imm16), reg2)
		case instruction.BitsJr:
			disp26 := fetchDisp26(firstHalfword, fetchNext())
			nextPC = cpu.pc + disp26
		case instruction.BitsJal:
			disp26 := fetchDisp26(firstHalfword, fetchNext())
			cpu.setGPR(31, nextPC)
			nextPC = cpu.pc + disp26
		case instruction.BitsOrI:
			imm16 := fetchNext()
			res := cpu.GPR(reg1) | uint32(imm16)
			cpu.pswOverflow = false
			cpu.setZeroSignFlags(res)
			cpu.setGPR(reg2, res)
		case instruction.BitsAndI:
			imm16 := fetchNext()
			res := cpu.GPR(reg1) & uint32(imm16)
			cpu.pswOverflow = false
			cpu.pswSign = false
			cpu.pswZero = res == 0
			cpu.setGPR(reg2, res)
		case instruction.BitsXorI:
			imm16 := fetchNext()
			res := cpu.GPR(reg1) ^ uint32(imm16)
			cpu.pswOverflow = false
			cpu.setZeroSignFlags(res)
			cpu.setGPR(reg2, res)
		case instruction.BitsMovHi:
			imm16 := fetchNext()
			cpu.setGPR(reg2, cpu.GPR(reg1)+(uint32(imm16)<<16))
		case instruction.BitsLdB:
			disp16 := fetchNext()
			addr := (cpu.GPR(reg1) + signExtend16(disp16)) & 0xfffffffc
			val := bus.ReadByte(addr)
			cpu.setGPR(reg2, uint32(val))
		case instruction.BitsLdH:
			disp16 := fetchNext()
			addr := (cpu.GPR(reg1) + signExtend16(disp16)) & 0xfffffffc
			val := bus.ReadHalfword(addr)
			cpu.setGPR(reg2, uint32(val))
		case instruction.BitsLdW:
			disp16 := fetchNext()
			addr := (cpu.GPR(reg1) + signExtend16(disp16)) & 0xfffffffc
			val := bus.ReadWord(addr)
			cpu.setGPR(reg2, val)
		case instruction.BitsStB:
			disp16 := fetchNext()
			addr := (cpu.GPR(reg1) + signExtend16(disp16)) & 0xfffffffe
			bus.WriteByte(addr, uint8(cpu.GPR(reg2)))
		case instruction.BitsStH:
			disp16 := fetchNext()
			addr := (cpu.GPR(reg1) + signExtend16(disp16)) & 0xfffffffe
			bus.WriteHalfword(addr, uint16(cpu.GPR(reg2)))
		case instruction.BitsStW:
			disp16 := fetchNext()
			addr := (cpu.GPR(reg1) + signExtend16(disp16)) & 0xfffffffc
			bus.WriteWord(addr, cpu.GPR(reg2))
		default:
			secondHalfword := bus.ReadHalfword(nextPC)
			inst := instruction.FromHalfwords(firstHalfword, secondHalfword)
			panic(fmt.Sprintf("unimplemented instruction %v at pc 0x%08x", inst, cpu.pc))
		}
	}

	debug.Debugf("CPU", cpu.debugMask, debug.TraceStep, "%08x -> %08x", cpu.pc, nextPC)

	cpu.pc = nextPC

	return cycles
}

// Deliver an external interrupt. Interrupt delivery is not modeled: this
// panics with the interrupt code.
func (cpu *CPU) RequestInterrupt(interruptCode uint16) {
	panic(fmt.Sprintf("interrupt delivery not implemented, code 0x%04x", interruptCode))
}

func (cpu *CPU) PC() uint32 {
	return cpu.pc
}

// Force the program counter, used by the debugger.
func (cpu *CPU) SetPC(pc uint32) {
	cpu.pc = pc
}

func (cpu *CPU) EIPC() uint32 {
	return cpu.eipc
}

func (cpu *CPU) EIPSW() uint32 {
	return cpu.eipsw
}

func (cpu *CPU) GPR(index uint16) uint32 {
	return cpu.gpr[index]
}

// Register 0 is hardwired to zero, writes to it are dropped.
func (cpu *CPU) setGPR(index uint16, val uint32) {
	if index != 0 {
		cpu.gpr[index] = val
	}
}

// Pack the PSW fields into their architectural layout.
func (cpu *CPU) PSW() uint32 {
	var val uint32
	if cpu.pswZero {
		val |= 1 << 0
	}
	if cpu.pswSign {
		val |= 1 << 1
	}
	if cpu.pswOverflow {
		val |= 1 << 2
	}
	if cpu.pswCarry {
		val |= 1 << 3
	}
	if cpu.pswFPPrecisionDegradation {
		val |= 1 << 4
	}
	if cpu.pswFPUnderflow {
		val |= 1 << 5
	}
	if cpu.pswFPOverflow {
		val |= 1 << 6
	}
	if cpu.pswFPZeroDivision {
		val |= 1 << 7
	}
	if cpu.pswFPInvalidOperation {
		val |= 1 << 8
	}
	if cpu.pswFPReservedOperand {
		val |= 1 << 9
	}
	if cpu.pswInterruptDisable {
		val |= 1 << 12
	}
	if cpu.pswAddressTrapEnable {
		val |= 1 << 13
	}
	if cpu.pswExceptionPending {
		val |= 1 << 14
	}
	if cpu.pswNMIPending {
		val |= 1 << 15
	}
	val |= (uint32(cpu.pswInterruptMaskLevel) & 0x0f) << 16
	return val
}

// Unpack an architectural PSW value into the fields.
func (cpu *CPU) SetPSW(val uint32) {
	cpu.pswZero = (val>>0)&0x01 != 0
	cpu.pswSign = (val>>1)&0x01 != 0
	cpu.pswOverflow = (val>>2)&0x01 != 0
	cpu.pswCarry = (val>>3)&0x01 != 0
	cpu.pswFPPrecisionDegradation = (val>>4)&0x01 != 0
	cpu.pswFPUnderflow = (val>>5)&0x01 != 0
	cpu.pswFPOverflow = (val>>6)&0x01 != 0
	cpu.pswFPZeroDivision = (val>>7)&0x01 != 0
	cpu.pswFPInvalidOperation = (val>>8)&0x01 != 0
	cpu.pswFPReservedOperand = (val>>9)&0x01 != 0
	cpu.pswInterruptDisable = (val>>12)&0x01 != 0
	cpu.pswAddressTrapEnable = (val>>13)&0x01 != 0
	cpu.pswExceptionPending = (val>>14)&0x01 != 0
	cpu.pswNMIPending = (val>>15)&0x01 != 0
	cpu.pswInterruptMaskLevel = uint8((val >> 16) & 0x0f)
}

func (cpu *CPU) setECR(fecc, eicc uint16) {
	cpu.ecr = (uint32(fecc) << 16) | uint32(eicc)
}

func (cpu *CPU) setCHCW(val uint32) {
	slog.Warn(fmt.Sprintf("Cache Control Word not implemented, write 0x%08x", val))
	cpu.chcw = val
}

func (cpu *CPU) add(lhs, rhs uint32, reg2 uint16) {
	res := lhs + rhs
	cpu.setGPR(reg2, res)
	cpu.setZeroSignFlags(res)
	cpu.pswOverflow = ((^(lhs^rhs))&(rhs^res))&0x80000000 != 0
	cpu.pswCarry = res < lhs
}

func (cpu *CPU) sub(lhs, rhs uint32) uint32 {
	res := lhs - rhs

	cpu.setZeroSignFlags(res)
	cpu.pswOverflow = ((lhs^rhs)&(^(rhs^res)))&0x80000000 != 0
	cpu.pswCarry = lhs < rhs

	return res
}

// Shift left. Carry takes the last bit shifted out.
func (cpu *CPU) shl(val, shift uint32) uint32 {
	shift &= 0x0000001f
	if shift == 0 {
		cpu.pswCarry = false
		cpu.pswOverflow = false
		cpu.setZeroSignFlags(val)
		return val
	}

	res := val << (shift - 1)
	cpu.pswCarry = res&0x80000000 != 0
	res <<= 1
	cpu.pswOverflow = false
	cpu.setZeroSignFlags(res)
	return res
}

// Logical shift right.
func (cpu *CPU) shr(val, shift uint32) uint32 {
	shift &= 0x0000001f
	if shift == 0 {
		cpu.pswCarry = false
		cpu.pswOverflow = false
		cpu.setZeroSignFlags(val)
		return val
	}

	res := val >> (shift - 1)
	cpu.pswCarry = res&0x00000001 != 0
	res >>= 1
	cpu.pswOverflow = false
	cpu.setZeroSignFlags(res)
	return res
}

// Arithmetic shift right.
func (cpu *CPU) sar(val, shift uint32) uint32 {
	shift &= 0x0000001f
	if shift == 0 {
		cpu.pswCarry = false
		cpu.pswOverflow = false
		cpu.setZeroSignFlags(val)
		return val
	}

	res := uint32(int32(val) >> (shift - 1))
	cpu.pswCarry = res&0x00000001 != 0
	res = uint32(int32(res) >> 1)
	cpu.pswOverflow = false
	cpu.setZeroSignFlags(res)
	return res
}

func (cpu *CPU) setZeroSignFlags(val uint32) {
	cpu.pswZero = val == 0
	cpu.pswSign = val&0x80000000 != 0
}

func signExtendImm5(imm5 uint16) uint32 {
	return uint32((int32(imm5) << 27) >> 27)
}

func signExtend16(val uint16) uint32 {
	return uint32(int32(int16(val)))
}

func fetchDisp26(firstHalfword, secondHalfword uint16) uint32 {
	disp26 := (uint32(firstHalfword&0x3ff) << 16) | uint32(secondHalfword)
	disp26 = uint32(int32(disp26<<6) >> 6)
	return disp26 & 0xfffffffe
}
