// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"io"
)

// MemSize is the size of the M68xx address space. Every address computation
// wraps modulo this size.
const MemSize = 64 * 1024

// Reserved cells at the top of the address space. The four interrupt vector
// words occupy 0xfff8-0xffff; the assembler seeds pseudo-labels for them. The
// cells below the vectors belong to the input buffer the external front end
// writes key and mouse bytes into.
const (
	VecIRQ = 0xfff8 // IRQ vector word
	VecSWI = 0xfffa // SWI vector word
	VecNMI = 0xfffc // NMI vector word
	VecRST = 0xfffe // RST vector word

	KeyInputAddr   = 0xfff0 // last key pressed
	MouseInputAddr = 0xfff1 // last mouse event

	ReservedAddr = 0xfff0 // start of the input-buffer/vector region
)

// Errors
var (
	ErrImageSize = errors.New("memory image must be exactly 65536 bytes")
)

// Memory represents the entire 16-bit address space as a flat 64K buffer,
// together with a pristine backup copy. The backup holds the image produced
// by the most recent assembly so the machine can reset without running the
// assembler again.
type Memory struct {
	bytes  [MemSize]byte
	backup [MemSize]byte
}

// NewMemory creates a new 16-bit memory space.
func NewMemory() *Memory {
	return &Memory{}
}

// LoadByte loads a single byte from the address and returns it.
func (m *Memory) LoadByte(addr uint16) byte {
	return m.bytes[addr]
}

// LoadBytes loads multiple bytes starting at the address and stores them
// into the buffer 'b', wrapping at the top of the address space.
func (m *Memory) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = m.bytes[addr]
		addr++
	}
}

// LoadWord loads a 16-bit word from the requested address and returns it.
// Words are stored high byte first, as on the M6800 bus. A word at 0xffff
// wraps: its low byte comes from 0x0000.
func (m *Memory) LoadWord(addr uint16) uint16 {
	return uint16(m.bytes[addr])<<8 | uint16(m.bytes[addr+1])
}

// StoreByte stores a byte to the requested address.
func (m *Memory) StoreByte(addr uint16, v byte) {
	m.bytes[addr] = v
}

// StoreBytes stores multiple bytes starting at the requested address,
// wrapping at the top of the address space.
func (m *Memory) StoreBytes(addr uint16, b []byte) {
	for _, v := range b {
		m.bytes[addr] = v
		addr++
	}
}

// StoreWord stores a 16-bit word to the requested address, high byte first.
func (m *Memory) StoreWord(addr uint16, v uint16) {
	m.bytes[addr] = byte(v >> 8)
	m.bytes[addr+1] = byte(v)
}

// Clear zeroes the full address space and its backup copy.
func (m *Memory) Clear() {
	m.bytes = [MemSize]byte{}
	m.backup = [MemSize]byte{}
}

// Commit records the current contents as the pristine image restored by
// Revert. The assembler driver calls it after a successful assembly.
func (m *Memory) Commit() {
	m.backup = m.bytes
}

// Revert restores the most recently committed image.
func (m *Memory) Revert() {
	m.bytes = m.backup
}

// Snapshot returns a copy of the full address space.
func (m *Memory) Snapshot() []byte {
	b := make([]byte, MemSize)
	copy(b, m.bytes[:])
	return b
}

// WriteTo dumps the raw 64KB image to w, satisfying io.WriterTo.
func (m *Memory) WriteTo(w io.Writer) (n int64, err error) {
	nn, err := w.Write(m.bytes[:])
	return int64(nn), err
}

// ReadFrom replaces the full image with exactly 64KB read from r and commits
// it as the pristine copy. It satisfies io.ReaderFrom.
func (m *Memory) ReadFrom(r io.Reader) (n int64, err error) {
	nn, err := io.ReadFull(r, m.bytes[:])
	n = int64(nn)
	if err != nil {
		return n, ErrImageSize
	}
	// Reject trailing bytes so a truncated or oversized file is caught.
	var extra [1]byte
	switch _, err = r.Read(extra[:]); err {
	case io.EOF:
	case nil:
		return n, ErrImageSize
	default:
		return n, err
	}
	m.Commit()
	return n, nil
}

// Convert a 1- or 2-byte big-endian operand into an address.
func operandToAddress(operand []byte) uint16 {
	switch len(operand) {
	case 1:
		return uint16(operand[0])
	case 2:
		return uint16(operand[0])<<8 | uint16(operand[1])
	}
	return 0
}
