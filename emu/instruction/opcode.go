/*
 * virtualboy - V810 opcode definitions
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

// Main opcode bit patterns, a[15:10] of the first halfword. Conditional
// branches are recognised first on a[15:13] and never reach this table.
const (
	BitsMovReg = 0x00
	BitsAddReg = 0x01
	BitsSub    = 0x02
	BitsCmpReg = 0x03
	BitsShlReg = 0x04
	BitsShrReg = 0x05
	BitsJmp    = 0x06
	BitsSarReg = 0x07
	BitsMul    = 0x08
	BitsDiv    = 0x09
	BitsMulu   = 0x0a
	BitsDivu   = 0x0b
	BitsOr     = 0x0c
	BitsAnd    = 0x0d
	BitsXor    = 0x0e
	BitsNot    = 0x0f
	BitsMovImm = 0x10
	BitsAddImm = 0x11
	BitsSetf   = 0x12
	BitsCmpImm = 0x13
	BitsShlImm = 0x14
	BitsShrImm = 0x15
	BitsCli    = 0x16
	BitsSarImm = 0x17
	BitsTrap   = 0x18
	BitsReti   = 0x19
	BitsHalt   = 0x1a
	BitsLdsr   = 0x1c
	BitsStsr   = 0x1d
	BitsSei    = 0x1e
	BitsBitStr = 0x1f
	BitsMovEa  = 0x28
	BitsAddI   = 0x29
	BitsJr     = 0x2a
	BitsJal    = 0x2b
	BitsOrI    = 0x2c
	BitsAndI   = 0x2d
	BitsXorI   = 0x2e
	BitsMovHi  = 0x2f
	BitsLdB    = 0x30
	BitsLdH    = 0x31
	BitsLdW    = 0x32
	BitsStB    = 0x34
	BitsStH    = 0x35
	BitsStW    = 0x36
	BitsInB    = 0x38
	BitsInH    = 0x39
	BitsCaxi   = 0x3a
	BitsInW    = 0x3b
	BitsOutB   = 0x3c
	BitsOutH   = 0x3d
	BitsFP     = 0x3e
	BitsOutW   = 0x3f
)

// Conditional branch bit patterns, a[15:9] of the first halfword. The top
// three bits are the 0b100 prefix, the low four select the condition.
const (
	BitsBCondPrefix = 0x4

	BitsBCondBV  = 0x40
	BitsBCondBC  = 0x41
	BitsBCondBZ  = 0x42
	BitsBCondBNH = 0x43
	BitsBCondBN  = 0x44
	BitsBCondBR  = 0x45
	BitsBCondBLT = 0x46
	BitsBCondBLE = 0x47
	BitsBCondBNV = 0x48
	BitsBCondBNC = 0x49
	BitsBCondBNZ = 0x4a
	BitsBCondBH  = 0x4b
	BitsBCondBP  = 0x4c
	BitsBCondNOP = 0x4d
	BitsBCondBGE = 0x4e
	BitsBCondBGT = 0x4f
)

// System register selectors for LDSR and STSR.
const (
	SysRegEIPC  = 0
	SysRegEIPSW = 1
	SysRegFEPC  = 2
	SysRegFEPSW = 3
	SysRegECR   = 4
	SysRegPSW   = 5
	SysRegPIR   = 6
	SysRegTKCW  = 7
	SysRegCHCW  = 24
	SysRegADTRE = 25
)

type Opcode int

const (
	OpIllegal Opcode = iota
	OpMov
	OpAdd
	OpSub
	OpCmp
	OpShl
	OpShr
	OpJmp
	OpSar
	OpMul
	OpDiv
	OpMulu
	OpDivu
	OpOr
	OpAnd
	OpXor
	OpNot
	OpSetf
	OpCli
	OpTrap
	OpReti
	OpHalt
	OpLdsr
	OpStsr
	OpSei
	OpMovEa
	OpAddI
	OpJr
	OpJal
	OpOrI
	OpAndI
	OpXorI
	OpMovHi
	OpLdB
	OpLdH
	OpLdW
	OpStB
	OpStH
	OpStW
	OpInB
	OpInH
	OpCaxi
	OpInW
	OpOutB
	OpOutH
	OpOutW

	// BCond opcodes.
	OpBv
	OpBc
	OpBz
	OpBnh
	OpBn
	OpBr
	OpBlt
	OpBle
	OpBnv
	OpBnc
	OpBnz
	OpBh
	OpBp
	OpNop
	OpBge
	OpBgt

	// Bit string opcodes, main opcode 0b011111.
	OpSch0BSU
	OpSch0BSD
	OpSch1BSU
	OpSch1BSD
	OpOrBSU
	OpAndBSU
	OpXorBSU
	OpMovBSU
	OpOrNBSU
	OpAndNBSU
	OpXorNBSU
	OpNotBSU

	// Floating point opcodes, main opcode 0b111110.
	OpCmpFS
	OpCvtWS
	OpCvtSW
	OpAddFS
	OpSubFS
	OpMulFS
	OpDivFS
	OpXB
	OpXH
	OpRev
	OpTrncSW
	OpMpyHw
)

var opcodeNames = map[Opcode]string{
	OpIllegal: "ILLEGAL",
	OpMov:     "MOV",
	OpAdd:     "ADD",
	OpSub:     "SUB",
	OpCmp:     "CMP",
	OpShl:     "SHL",
	OpShr:     "SHR",
	OpJmp:     "JMP",
	OpSar:     "SAR",
	OpMul:     "MUL",
	OpDiv:     "DIV",
	OpMulu:    "MULU",
	OpDivu:    "DIVU",
	OpOr:      "OR",
	OpAnd:     "AND",
	OpXor:     "XOR",
	OpNot:     "NOT",
	OpSetf:    "SETF",
	OpCli:     "CLI",
	OpTrap:    "TRAP",
	OpReti:    "RETI",
	OpHalt:    "HALT",
	OpLdsr:    "LDSR",
	OpStsr:    "STSR",
	OpSei:     "SEI",
	OpMovEa:   "MOVEA",
	OpAddI:    "ADDI",
	OpJr:      "JR",
	OpJal:     "JAL",
	OpOrI:     "ORI",
	OpAndI:    "ANDI",
	OpXorI:    "XORI",
	OpMovHi:   "MOVHI",
	OpLdB:     "LD.B",
	OpLdH:     "LD.H",
	OpLdW:     "LD.W",
	OpStB:     "ST.B",
	OpStH:     "ST.H",
	OpStW:     "ST.W",
	OpInB:     "IN.B",
	OpInH:     "IN.H",
	OpCaxi:    "CAXI",
	OpInW:     "IN.W",
	OpOutB:    "OUT.B",
	OpOutH:    "OUT.H",
	OpOutW:    "OUT.W",
	OpBv:      "BV",
	OpBc:      "BC",
	OpBz:      "BZ",
	OpBnh:     "BNH",
	OpBn:      "BN",
	OpBr:      "BR",
	OpBlt:     "BLT",
	OpBle:     "BLE",
	OpBnv:     "BNV",
	OpBnc:     "BNC",
	OpBnz:     "BNZ",
	OpBh:      "BH",
	OpBp:      "BP",
	OpNop:     "NOP",
	OpBge:     "BGE",
	OpBgt:     "BGT",
	OpSch0BSU: "SCH0BSU",
	OpSch0BSD: "SCH0BSD",
	OpSch1BSU: "SCH1BSU",
	OpSch1BSD: "SCH1BSD",
	OpOrBSU:   "ORBSU",
	OpAndBSU:  "ANDBSU",
	OpXorBSU:  "XORBSU",
	OpMovBSU:  "MOVBSU",
	OpOrNBSU:  "ORNBSU",
	OpAndNBSU: "ANDNBSU",
	OpXorNBSU: "XORNBSU",
	OpNotBSU:  "NOTBSU",
	OpCmpFS:   "CMPF.S",
	OpCvtWS:   "CVT.WS",
	OpCvtSW:   "CVT.SW",
	OpAddFS:   "ADDF.S",
	OpSubFS:   "SUBF.S",
	OpMulFS:   "MULF.S",
	OpDivFS:   "DIVF.S",
	OpXB:      "XB",
	OpXH:      "XH",
	OpRev:     "REV",
	OpTrncSW:  "TRNC.SW",
	OpMpyHw:   "MPYHW",
}

func (op Opcode) String() string {
	name, ok := opcodeNames[op]
	if !ok {
		return "ILLEGAL"
	}
	return name
}
