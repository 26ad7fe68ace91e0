/*
 * virtualboy - Virtual sound unit stub
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

package vsu

import (
	"fmt"
	"log/slog"
)

// Placeholder for the sound unit. Writes are swallowed until waveform
// synthesis is modeled.
type VSU struct {
}

func New() *VSU {
	return &VSU{}
}

func (vsu *VSU) WriteByte(addr uint32, val uint8) {
	slog.Warn(fmt.Sprintf("Writing to VSU not implemented [0x%08x] = 0x%02x", addr, val))
}

func (vsu *VSU) WriteHalfword(addr uint32, val uint16) {
	slog.Warn(fmt.Sprintf("Writing to VSU not implemented [0x%08x] = %d/0x%04x", addr, val, val))
}
