/*
 * virtualboy - Low level memory
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

package memory

import "fmt"

// A fixed size block of byte addressable memory. The size must be a
// power of two, offsets wrap by masking with size-1.
type RAM struct {
	data []uint8
	size uint32
}

// Allocate a new RAM block of the given size in bytes.
func NewRAM(size uint32) (*RAM, error) {
	if size == 0 || (size&(size-1)) != 0 {
		return nil, fmt.Errorf("RAM size must be power of 2, given %d", size)
	}

	return &RAM{
		data: make([]uint8, size),
		size: size,
	}, nil
}

// Return size of memory in bytes.
func (ram *RAM) Size() uint32 {
	return ram.size
}

func (ram *RAM) ReadByte(addr uint32) uint8 {
	addr = ram.maskAddr(addr)
	return ram.data[addr]
}

// Halfwords are little endian, bit 0 of the address is ignored.
func (ram *RAM) ReadHalfword(addr uint32) uint16 {
	addr &= 0xfffffffe
	addr = ram.maskAddr(addr)
	return uint16(ram.data[addr]) | (uint16(ram.data[addr+1]) << 8)
}

func (ram *RAM) WriteByte(addr uint32, val uint8) {
	addr = ram.maskAddr(addr)
	ram.data[addr] = val
}

func (ram *RAM) WriteHalfword(addr uint32, val uint16) {
	addr &= 0xfffffffe
	addr = ram.maskAddr(addr)
	ram.data[addr] = uint8(val)
	ram.data[addr+1] = uint8(val >> 8)
}

func (ram *RAM) maskAddr(addr uint32) uint32 {
	return addr & (ram.size - 1)
}
