/*
 * virtualboy - V810 instruction decoder
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

package instruction

import "fmt"

// The seven V810 encodings plus the illegal marker.
type Format int

const (
	FormatIllegal Format = iota
	FormatI              // Register to register.
	FormatII             // Small immediate or system.
	FormatIII            // Conditional branch, 9 bit displacement.
	FormatIV             // Jump, 26 bit displacement.
	FormatV              // Register plus 16 bit immediate.
	FormatVI             // Load, store and I/O, 16 bit displacement.
	FormatVII            // Extended, floating point and bit string.
)

// A decoded instruction. Only the fields of the decoded format carry
// meaning, the rest stay zero.
type Instruction struct {
	Format Format
	Opcode Opcode

	Reg1   uint16
	Reg2   uint16
	Imm5   uint16
	Disp9  int16
	Disp26 uint32
	Imm16  uint16
	Disp16 int16
	SubOp  uint16
}

// True when the encoding occupies two halfwords.
func (inst Instruction) IsLong() bool {
	switch inst.Format {
	case FormatIV, FormatV, FormatVI, FormatVII:
		return true
	default:
		return false
	}
}

// Sub opcodes of the bit string group, taken from the low five bits of
// the first halfword.
var bitStringOps = map[uint16]Opcode{
	0x00: OpSch0BSU,
	0x01: OpSch0BSD,
	0x02: OpSch1BSU,
	0x03: OpSch1BSD,
	0x08: OpOrBSU,
	0x09: OpAndBSU,
	0x0a: OpXorBSU,
	0x0b: OpMovBSU,
	0x0c: OpOrNBSU,
	0x0d: OpAndNBSU,
	0x0e: OpXorNBSU,
	0x0f: OpNotBSU,
}

// Sub opcodes of the floating point group, taken from the top six bits of
// the second halfword.
var floatOps = map[uint16]Opcode{
	0x00: OpCmpFS,
	0x02: OpCvtWS,
	0x03: OpCvtSW,
	0x04: OpAddFS,
	0x05: OpSubFS,
	0x06: OpMulFS,
	0x07: OpDivFS,
	0x08: OpXB,
	0x09: OpXH,
	0x0a: OpRev,
	0x0b: OpTrncSW,
	0x0c: OpMpyHw,
}

// Decode one or two halfwords into an instruction. The second halfword is
// only examined for the two halfword formats.
func FromHalfwords(a, b uint16) Instruction {
	if (a >> 13) == BitsBCondPrefix {
		opbits := a >> 9
		switch opbits {
		case BitsBCondBV:
			return formatIII(OpBv, a)
		case BitsBCondBC:
			return formatIII(OpBc, a)
		case BitsBCondBZ:
			return formatIII(OpBz, a)
		case BitsBCondBNH:
			return formatIII(OpBnh, a)
		case BitsBCondBN:
			return formatIII(OpBn, a)
		case BitsBCondBR:
			return formatIII(OpBr, a)
		case BitsBCondBLT:
			return formatIII(OpBlt, a)
		case BitsBCondBLE:
			return formatIII(OpBle, a)
		case BitsBCondBNV:
			return formatIII(OpBnv, a)
		case BitsBCondBNC:
			return formatIII(OpBnc, a)
		case BitsBCondBNZ:
			return formatIII(OpBnz, a)
		case BitsBCondBH:
			return formatIII(OpBh, a)
		case BitsBCondBP:
			return formatIII(OpBp, a)
		case BitsBCondNOP:
			return formatIII(OpNop, a)
		case BitsBCondBGE:
			return formatIII(OpBge, a)
		case BitsBCondBGT:
			return formatIII(OpBgt, a)
		default:
			panic(fmt.Sprintf("invariant violated: BCond bits 0x%02x", opbits))
		}
	}

	opbits := a >> 10

	switch opbits {
	case BitsMovReg:
		return formatI(OpMov, a)
	case BitsAddReg:
		return formatI(OpAdd, a)
	case BitsSub:
		return formatI(OpSub, a)
	case BitsCmpReg:
		return formatI(OpCmp, a)
	case BitsShlReg:
		return formatI(OpShl, a)
	case BitsShrReg:
		return formatI(OpShr, a)
	case BitsJmp:
		return formatI(OpJmp, a)
	case BitsSarReg:
		return formatI(OpSar, a)
	case BitsMul:
		return formatI(OpMul, a)
	case BitsDiv:
		return formatI(OpDiv, a)
	case BitsMulu:
		return formatI(OpMulu, a)
	case BitsDivu:
		return formatI(OpDivu, a)
	case BitsOr:
		return formatI(OpOr, a)
	case BitsAnd:
		return formatI(OpAnd, a)
	case BitsXor:
		return formatI(OpXor, a)
	case BitsNot:
		return formatI(OpNot, a)
	case BitsMovImm:
		return formatII(OpMov, a)
	case BitsAddImm:
		return formatII(OpAdd, a)
	case BitsSetf:
		return formatII(OpSetf, a)
	case BitsCmpImm:
		return formatII(OpCmp, a)
	case BitsShlImm:
		return formatII(OpShl, a)
	case BitsShrImm:
		return formatII(OpShr, a)
	case BitsCli:
		return formatII(OpCli, a)
	case BitsSarImm:
		return formatII(OpSar, a)
	case BitsTrap:
		return formatII(OpTrap, a)
	case BitsReti:
		return formatII(OpReti, a)
	case BitsHalt:
		return formatII(OpHalt, a)
	case BitsLdsr:
		return formatII(OpLdsr, a)
	case BitsStsr:
		return formatII(OpStsr, a)
	case BitsSei:
		return formatII(OpSei, a)
	case BitsBitStr:
		op, ok := bitStringOps[a&0x1f]
		if !ok {
			return Instruction{}
		}
		return formatVII(op, a, b)
	case BitsMovEa:
		return formatV(OpMovEa, a, b)
	case BitsAddI:
		return formatV(OpAddI, a, b)
	case BitsJr:
		return formatIV(OpJr, a, b)
	case BitsJal:
		return formatIV(OpJal, a, b)
	case BitsOrI:
		return formatV(OpOrI, a, b)
	case BitsAndI:
		return formatV(OpAndI, a, b)
	case BitsXorI:
		return formatV(OpXorI, a, b)
	case BitsMovHi:
		return formatV(OpMovHi, a, b)
	case BitsLdB:
		return formatVI(OpLdB, a, b)
	case BitsLdH:
		return formatVI(OpLdH, a, b)
	case BitsLdW:
		return formatVI(OpLdW, a, b)
	case BitsStB:
		return formatVI(OpStB, a, b)
	case BitsStH:
		return formatVI(OpStH, a, b)
	case BitsStW:
		return formatVI(OpStW, a, b)
	case BitsInB:
		return formatVI(OpInB, a, b)
	case BitsInH:
		return formatVI(OpInH, a, b)
	case BitsCaxi:
		return formatVI(OpCaxi, a, b)
	case BitsInW:
		return formatVI(OpInW, a, b)
	case BitsOutB:
		return formatVI(OpOutB, a, b)
	case BitsOutH:
		return formatVI(OpOutH, a, b)
	case BitsFP:
		op, ok := floatOps[b>>10]
		if !ok {
			return Instruction{}
		}
		return formatVII(op, a, b)
	case BitsOutW:
		return formatVI(OpOutW, a, b)
	default:
		return Instruction{}
	}
}

func formatI(op Opcode, a uint16) Instruction {
	return Instruction{
		Format: FormatI,
		Opcode: op,
		Reg1:   a & 0x1f,
		Reg2:   (a >> 5) & 0x1f,
	}
}

func formatII(op Opcode, a uint16) Instruction {
	return Instruction{
		Format: FormatII,
		Opcode: op,
		Imm5:   a & 0x1f,
		Reg2:   (a >> 5) & 0x1f,
	}
}

func formatIII(op Opcode, a uint16) Instruction {
	// Sign extend the 9 bit displacement and force bit 0 to 0.
	disp9 := ((int16(a) << 7) >> 7) & ^int16(1)
	return Instruction{
		Format: FormatIII,
		Opcode: op,
		Disp9:  disp9,
	}
}

func formatIV(op Opcode, a, b uint16) Instruction {
	disp26 := (uint32(a&0x3ff) << 16) | uint32(b)
	disp26 = uint32((int32(disp26<<6))>>6) & 0xfffffffe
	return Instruction{
		Format: FormatIV,
		Opcode: op,
		Disp26: disp26,
	}
}

func formatV(op Opcode, a, b uint16) Instruction {
	return Instruction{
		Format: FormatV,
		Opcode: op,
		Reg1:   a & 0x1f,
		Reg2:   (a >> 5) & 0x1f,
		Imm16:  b,
	}
}

func formatVI(op Opcode, a, b uint16) Instruction {
	return Instruction{
		Format: FormatVI,
		Opcode: op,
		Reg1:   a & 0x1f,
		Reg2:   (a >> 5) & 0x1f,
		Disp16: int16(b),
	}
}

func formatVII(op Opcode, a, b uint16) Instruction {
	return Instruction{
		Format: FormatVII,
		Opcode: op,
		Reg1:   a & 0x1f,
		Reg2:   (a >> 5) & 0x1f,
		SubOp:  b >> 10,
	}
}

// Render the instruction as assembler text.
func (inst Instruction) String() string {
	switch inst.Format {
	case FormatI:
		if inst.Opcode == OpJmp {
			return fmt.Sprintf("%v [r%d]", inst.Opcode, inst.Reg1)
		}
		return fmt.Sprintf("%v r%d r%d", inst.Opcode, inst.Reg1, inst.Reg2)
	case FormatII:
		return fmt.Sprintf("%v %d r%d", inst.Opcode, inst.Imm5, inst.Reg2)
	case FormatIII:
		return fmt.Sprintf("%v %d", inst.Opcode, inst.Disp9)
	case FormatIV:
		return fmt.Sprintf("%v %d", inst.Opcode, int32(inst.Disp26))
	case FormatV:
		return fmt.Sprintf("%v 0x%04x r%d r%d", inst.Opcode, inst.Imm16, inst.Reg1, inst.Reg2)
	case FormatVI:
		return fmt.Sprintf("%v %d[gpr%d] r%d", inst.Opcode, inst.Disp16, inst.Reg1, inst.Reg2)
	case FormatVII:
		return fmt.Sprintf("%v r%d r%d", inst.Opcode, inst.Reg1, inst.Reg2)
	default:
		return "ILLEGAL OPCODE"
	}
}
