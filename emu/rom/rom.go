/*
 * virtualboy - Cartridge ROM image
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

package rom

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/japanese"
)

const (
	MinROMSize = 1024
	MaxROMSize = 16 * 1024 * 1024
)

// Load failure kinds, wrapped in the error returned by Load and FromBytes.
var (
	ErrSizeBelowMinimum  = errors.New("invalid ROM size, below minimum")
	ErrSizeAboveMaximum  = errors.New("invalid ROM size, above maximum")
	ErrSizeNotPowerOfTwo = errors.New("invalid ROM size, not power of two")
)

// The header lives in the last 544 bytes of the image. Offsets below wrap
// through the size mask, so they address the tail of any power of two image.
const (
	nameStart   = 0xfffffde0
	nameEnd     = 0xfffffdf4
	makerStart  = 0xfffffdf9
	makerEnd    = 0xfffffdfb
	gameStart   = 0xfffffdfb
	gameEnd     = 0xfffffdff
	versionAddr = 0xfffffdff
)

// A cartridge ROM image. Reads wrap at the size mask, writes are not
// permitted.
type ROM struct {
	data []uint8
}

// Load a raw ROM image from a file.
func Load(fileName string) (*ROM, error) {
	contents, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	return FromBytes(contents)
}

// Build a ROM from an in memory image, validating the size.
func FromBytes(bytes []uint8) (*ROM, error) {
	size := len(bytes)
	if size < MinROMSize {
		return nil, fmt.Errorf("%w: %d", ErrSizeBelowMinimum, size)
	}
	if size > MaxROMSize {
		return nil, fmt.Errorf("%w: %d", ErrSizeAboveMaximum, size)
	}
	if (size & (size - 1)) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrSizeNotPowerOfTwo, size)
	}

	data := make([]uint8, size)
	copy(data, bytes)

	return &ROM{data: data}, nil
}

// Return size of the image in bytes.
func (rom *ROM) Size() uint32 {
	return uint32(len(rom.data))
}

// Game title from the header, decoded as Shift-JIS. Undecodable bytes are
// an error.
func (rom *ROM) Name() (string, error) {
	shiftJISTitle := make([]uint8, 0, nameEnd-nameStart)
	for offset := uint32(nameStart); offset < nameEnd; offset++ {
		shiftJISTitle = append(shiftJISTitle, rom.ReadByte(offset))
	}

	name, err := japanese.ShiftJIS.NewDecoder().Bytes(shiftJISTitle)
	if err != nil {
		return "", err
	}
	// The decoder substitutes U+FFFD for bytes it can't map.
	if strings.ContainsRune(string(name), '�') {
		return "", errors.New("ROM name is not valid Shift-JIS")
	}
	return string(name), nil
}

// Two character maker code from the header.
func (rom *ROM) MakerCode() string {
	mc := make([]uint8, 0, makerEnd-makerStart)
	for offset := uint32(makerStart); offset < makerEnd; offset++ {
		mc = append(mc, rom.ReadByte(offset))
	}
	return string(mc)
}

// Four character game code from the header.
func (rom *ROM) GameCode() string {
	gc := make([]uint8, 0, gameEnd-gameStart)
	for offset := uint32(gameStart); offset < gameEnd; offset++ {
		gc = append(gc, rom.ReadByte(offset))
	}
	return string(gc)
}

// Game version from the header, printed as 1.<byte>.
func (rom *ROM) GameVersion() string {
	return fmt.Sprintf("1.%d", rom.ReadByte(versionAddr))
}

func (rom *ROM) ReadByte(addr uint32) uint8 {
	addr = rom.maskAddr(addr)
	return rom.data[addr]
}

// Halfwords are little endian, bit 0 of the address is ignored.
func (rom *ROM) ReadHalfword(addr uint32) uint16 {
	addr = rom.maskAddr(addr & 0xfffffffe)
	return uint16(rom.data[addr]) | (uint16(rom.data[addr+1]) << 8)
}

func (rom *ROM) maskAddr(addr uint32) uint32 {
	return addr & (rom.Size() - 1)
}
