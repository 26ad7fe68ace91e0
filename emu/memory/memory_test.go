/*
 * virtualboy - Low level memory test cases
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

import (
	"testing"
)

// Only power of two sizes are valid.
func TestNewRAM(t *testing.T) {
	for _, size := range []uint32{1024, 2048, 65536, 1 << 24} {
		ram, err := NewRAM(size)
		if err != nil {
			t.Errorf("NewRAM(%d) failed: %v", size, err)
			continue
		}
		if ram.Size() != size {
			t.Errorf("RAM size not correct got: %d expected: %d", ram.Size(), size)
		}
	}

	for _, size := range []uint32{0, 3, 100, 1000, 65535, 65537} {
		_, err := NewRAM(size)
		if err == nil {
			t.Errorf("NewRAM(%d) should have failed", size)
		}
	}
}

// Bytes wrap at the size mask.
func TestRAMByte(t *testing.T) {
	ram, err := NewRAM(1024)
	if err != nil {
		t.Fatalf("NewRAM failed: %v", err)
	}

	for i := range uint32(256) {
		ram.WriteByte(i, uint8(i))
	}

	for i := range uint32(256) {
		r := ram.ReadByte(i)
		if r != uint8(i) {
			t.Errorf("ReadByte not correct got: %02x expected: %02x", r, uint8(i))
		}
	}

	// Reads above the size wrap back into the block.
	for i := range uint32(256) {
		r := ram.ReadByte(i + 1024)
		if r != uint8(i) {
			t.Errorf("ReadByte wrap not correct got: %02x expected: %02x", r, uint8(i))
		}
	}

	// Writes wrap the same way.
	ram.WriteByte(2048+5, 0xa5)
	r := ram.ReadByte(5)
	if r != 0xa5 {
		t.Errorf("WriteByte wrap not correct got: %02x expected: %02x", r, 0xa5)
	}
}

// Halfwords are little endian and ignore bit 0 of the address.
func TestRAMHalfword(t *testing.T) {
	ram, err := NewRAM(1024)
	if err != nil {
		t.Fatalf("NewRAM failed: %v", err)
	}

	ram.WriteByte(0x10, 0x34)
	ram.WriteByte(0x11, 0x12)

	r := ram.ReadHalfword(0x10)
	if r != 0x1234 {
		t.Errorf("ReadHalfword not correct got: %04x expected: %04x", r, 0x1234)
	}

	r = ram.ReadHalfword(0x11)
	if r != 0x1234 {
		t.Errorf("ReadHalfword ignoring bit 0 got: %04x expected: %04x", r, 0x1234)
	}

	ram.WriteHalfword(0x21, 0xbeef)
	if ram.ReadByte(0x20) != 0xef {
		t.Errorf("WriteHalfword low byte got: %02x expected: %02x", ram.ReadByte(0x20), 0xef)
	}
	if ram.ReadByte(0x21) != 0xbe {
		t.Errorf("WriteHalfword high byte got: %02x expected: %02x", ram.ReadByte(0x21), 0xbe)
	}
}
