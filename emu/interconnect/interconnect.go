/*
 * virtualboy - Address decode fabric
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

package interconnect

import (
	"fmt"
	"log/slog"

	"github.com/tompko/virtualboy/emu/memory"
	"github.com/tompko/virtualboy/emu/rom"
	"github.com/tompko/virtualboy/emu/vip"
	"github.com/tompko/virtualboy/emu/vsu"
	"github.com/tompko/virtualboy/util/debug"
)

// The physical address space is 27 bits, everything above is a mirror.
const AddrMask uint32 = 0x07ffffff

const (
	VIPStart uint32 = 0x00000000
	VIPEnd   uint32 = 0x00ffffff
	VSUStart uint32 = 0x01000000
	VSUEnd   uint32 = 0x01ffffff

	HardwareLinkCtrl        uint32 = 0x02000000
	HardwareAuxLink         uint32 = 0x02000004
	HardwareLinkSend        uint32 = 0x02000008
	HardwareLinkRecv        uint32 = 0x0200000c
	HardwareGamePadLow      uint32 = 0x02000010
	HardwareGamePadHigh     uint32 = 0x02000014
	HardwareTimerReloadHigh uint32 = 0x02000018
	HardwareTimerReloadLow  uint32 = 0x0200001c
	HardwareTimerCtrl       uint32 = 0x02000020
	HardwareWaitCtrl        uint32 = 0x02000024
	HardwareGamePadCtrl     uint32 = 0x02000028

	UnusedStart uint32 = 0x0200002c
	UnusedEnd   uint32 = 0x03ffffff

	CartExpansionStart uint32 = 0x04000000
	CartExpansionEnd   uint32 = 0x04ffffff
	SWRAMStart         uint32 = 0x05000000
	SWRAMEnd           uint32 = 0x05ffffff
	CartRAMStart       uint32 = 0x06000000
	CartRAMEnd         uint32 = 0x06ffffff
	ROMStart           uint32 = 0x07000000
	ROMEnd             uint32 = 0x07ffffff
)

// System work RAM is 64K physical, the region mirrors it.
const swramSize = 64 * 1024

// Routes byte, halfword and word accesses to the device that owns the
// address. Also holds the hardware control register bytes.
type Interconnect struct {
	vip     *vip.VIP
	vsu     *vsu.VSU
	sysWRAM *memory.RAM
	rom     *rom.ROM

	regLCR   uint8
	regALR   uint8
	regLTD   uint8
	regLRD   uint8
	regGPIL  uint8
	regGPIH  uint8
	regTCRL  uint8
	regTCRH  uint8
	regTCR   uint8
	regWCR   uint8
	regGPICR uint8

	debugMask int
}

func New(cart *rom.ROM) *Interconnect {
	sysWRAM, err := memory.NewRAM(swramSize)
	if err != nil {
		panic(err)
	}

	return &Interconnect{
		vip:     vip.New(),
		vsu:     vsu.New(),
		sysWRAM: sysWRAM,
		rom:     cart,
	}
}

// Set the bus access trace mask.
func (ic *Interconnect) SetDebug(mask int) {
	ic.debugMask = mask
}

// The cartridge behind the bus, for header queries.
func (ic *Interconnect) ROM() *rom.ROM {
	return ic.rom
}

// Advance peripherals by the given number of cycles. May return an
// interrupt code to deliver to the CPU. No peripheral drives interrupts
// yet, so this always comes back empty.
func (ic *Interconnect) Cycles(cycles int) (uint16, bool) {
	return 0, false
}

func (ic *Interconnect) ReadByte(addr uint32) uint8 {
	addr &= AddrMask
	debug.Debugf("BUS", ic.debugMask, debug.TraceAccess, "read.b  [%08x]", addr)
	switch {
	case addr <= VIPEnd:
		return ic.vip.ReadByte(addr - VIPStart)
	case addr <= VSUEnd:
		panic(fmt.Sprintf("byte read from VSU not implemented [0x%08x]", addr))
	case addr <= UnusedEnd:
		panic(fmt.Sprintf("byte read from hardware control space not implemented [0x%08x]", addr))
	case addr <= CartExpansionEnd:
		panic(fmt.Sprintf("byte read from cartridge expansion not implemented [0x%08x]", addr))
	case addr <= SWRAMEnd:
		return ic.sysWRAM.ReadByte(addr - SWRAMStart)
	case addr <= CartRAMEnd:
		panic(fmt.Sprintf("byte read from cartridge RAM not implemented [0x%08x]", addr))
	case addr <= ROMEnd:
		return ic.rom.ReadByte(addr - ROMStart)
	default:
		panic(fmt.Sprintf("invariant violated: address outside 27 bit map [0x%08x]", addr))
	}
}

func (ic *Interconnect) ReadHalfword(addr uint32) uint16 {
	addr &= AddrMask
	addr &= 0xfffffffe
	debug.Debugf("BUS", ic.debugMask, debug.TraceAccess, "read.h  [%08x]", addr)
	switch {
	case addr <= VIPEnd:
		return ic.vip.ReadHalfword(addr - VIPStart)
	case addr <= VSUEnd:
		panic(fmt.Sprintf("halfword read from VSU not implemented [0x%08x]", addr))
	case addr <= UnusedEnd:
		panic(fmt.Sprintf("halfword read from hardware control space not implemented [0x%08x]", addr))
	case addr <= CartExpansionEnd:
		panic(fmt.Sprintf("halfword read from cartridge expansion not implemented [0x%08x]", addr))
	case addr <= SWRAMEnd:
		return ic.sysWRAM.ReadHalfword(addr - SWRAMStart)
	case addr <= CartRAMEnd:
		panic(fmt.Sprintf("halfword read from cartridge RAM not implemented [0x%08x]", addr))
	case addr <= ROMEnd:
		return ic.rom.ReadHalfword(addr - ROMStart)
	default:
		panic(fmt.Sprintf("invariant violated: address outside 27 bit map [0x%08x]", addr))
	}
}

// Words are two little endian halfwords, low at the aligned address.
func (ic *Interconnect) ReadWord(addr uint32) uint32 {
	return uint32(ic.ReadHalfword(addr)) | (uint32(ic.ReadHalfword(addr+2)) << 16)
}

func (ic *Interconnect) WriteByte(addr uint32, val uint8) {
	addr &= AddrMask
	debug.Debugf("BUS", ic.debugMask, debug.TraceAccess, "write.b [%08x] = %02x", addr, val)
	switch {
	case addr <= VIPEnd:
		panic(fmt.Sprintf("byte write to VIP not implemented [0x%08x] = 0x%02x", addr, val))
	case addr <= VSUEnd:
		ic.vsu.WriteByte(addr-VSUStart, val)
	case addr == HardwareLinkCtrl:
		slog.Warn(fmt.Sprintf("Write to link control register not fully supported = 0x%02x", val))
		ic.regLCR = val
	case addr == HardwareAuxLink:
		slog.Warn(fmt.Sprintf("Write to auxiliary link register not fully supported = 0x%02x", val))
		ic.regALR = val
	case addr == HardwareLinkSend:
		slog.Warn(fmt.Sprintf("Write to link transmit register not fully supported = 0x%02x", val))
		ic.regLTD = val
	case addr == HardwareLinkRecv:
		slog.Warn(fmt.Sprintf("Write to link receive register not fully supported = 0x%02x", val))
		ic.regLRD = val
	case addr == HardwareGamePadLow:
		slog.Warn(fmt.Sprintf("Write to game pad low register not fully supported = 0x%02x", val))
		ic.regGPIL = val
	case addr == HardwareGamePadHigh:
		slog.Warn(fmt.Sprintf("Write to game pad high register not fully supported = 0x%02x", val))
		ic.regGPIH = val
	case addr == HardwareTimerReloadHigh:
		slog.Warn(fmt.Sprintf("Write to timer reload high register not fully supported = 0x%02x", val))
		ic.regTCRH = val
	case addr == HardwareTimerReloadLow:
		slog.Warn(fmt.Sprintf("Write to timer reload low register not fully supported = 0x%02x", val))
		ic.regTCRL = val
	case addr == HardwareTimerCtrl:
		slog.Warn(fmt.Sprintf("Write to timer control register not fully supported = 0x%02x", val))
		ic.regTCR = val
	case addr == HardwareWaitCtrl:
		slog.Warn(fmt.Sprintf("Write to wait control register not fully supported = 0x%02x", val))
		ic.regWCR = val
	case addr == HardwareGamePadCtrl:
		slog.Warn(fmt.Sprintf("Write to game pad control register not fully supported = 0x%02x", val))
		ic.regGPICR = val
	case addr >= UnusedStart && addr <= UnusedEnd:
		slog.Warn(fmt.Sprintf("Write to unused portion of memory [0x%08x] = 0x%02x", addr, val))
	case addr <= UnusedEnd:
		panic(fmt.Sprintf("byte write to hardware control space not implemented [0x%08x] = 0x%02x", addr, val))
	case addr <= CartExpansionEnd:
		slog.Warn(fmt.Sprintf("Writing to cartridge expansion unimplemented %08x=%d", addr, val))
	case addr <= SWRAMEnd:
		ic.sysWRAM.WriteByte(addr-SWRAMStart, val)
	case addr <= CartRAMEnd:
		panic(fmt.Sprintf("byte write to cartridge RAM not implemented [0x%08x] = 0x%02x", addr, val))
	case addr <= ROMEnd:
		panic(fmt.Sprintf("byte write to ROM not permitted [0x%08x] = 0x%02x", addr, val))
	default:
		panic(fmt.Sprintf("invariant violated: address outside 27 bit map [0x%08x]", addr))
	}
}

func (ic *Interconnect) WriteHalfword(addr uint32, val uint16) {
	addr &= AddrMask
	addr &= 0xfffffffe
	debug.Debugf("BUS", ic.debugMask, debug.TraceAccess, "write.h [%08x] = %04x", addr, val)
	switch {
	case addr <= VIPEnd:
		ic.vip.WriteHalfword(addr-VIPStart, val)
	case addr <= VSUEnd:
		ic.vsu.WriteHalfword(addr-VSUStart, val)
	case addr >= UnusedStart && addr <= UnusedEnd:
		slog.Warn(fmt.Sprintf("Write to unused portion of memory [0x%08x] = 0x%04x", addr, val))
	case addr <= UnusedEnd:
		// Register storage is byte wide only.
		panic(fmt.Sprintf("halfword write to hardware control space not implemented [0x%08x] = 0x%04x", addr, val))
	case addr <= CartExpansionEnd:
		slog.Warn(fmt.Sprintf("Writing to cartridge expansion unimplemented %08x=%d", addr, val))
	case addr <= SWRAMEnd:
		ic.sysWRAM.WriteHalfword(addr-SWRAMStart, val)
	case addr <= CartRAMEnd:
		panic(fmt.Sprintf("halfword write to cartridge RAM not implemented [0x%08x] = 0x%04x", addr, val))
	case addr <= ROMEnd:
		panic(fmt.Sprintf("halfword write to ROM not permitted [0x%08x] = 0x%04x", addr, val))
	default:
		panic(fmt.Sprintf("invariant violated: address outside 27 bit map [0x%08x]", addr))
	}
}

// Low halfword first, then high at addr+2.
func (ic *Interconnect) WriteWord(addr uint32, val uint32) {
	ic.WriteHalfword(addr, uint16(val))
	ic.WriteHalfword(addr+2, uint16(val>>16))
}
