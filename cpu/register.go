// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Registers contains the state of all M6800/M6803 registers.
type Registers struct {
	A         byte      // accumulator A
	B         byte      // accumulator B
	IX        [2]uint16 // index registers (the M6803 board exposes a second one)
	CurIndReg int       // index register selected for indexed addressing
	SP        uint16    // stack pointer
	PC        uint16    // program counter
	Carry     bool      // CC: carry/borrow bit
	Overflow  bool      // CC: two's-complement overflow bit
	Zero      bool      // CC: zero bit
	Negative  bool      // CC: negative bit
	IntMask   bool      // CC: interrupt mask bit
	HalfCarry bool      // CC: half carry (bit 3 to bit 4) bit
}

// Bits assigned to the condition code register byte. The two most-significant
// bits have no flag behind them and always read as 1.
const (
	CarryBit     = 1 << 0
	OverflowBit  = 1 << 1
	ZeroBit      = 1 << 2
	NegativeBit  = 1 << 3
	IntMaskBit   = 1 << 4
	HalfCarryBit = 1 << 5
	reservedBits = 1<<6 | 1<<7
)

// X returns the value of the currently selected index register.
func (r *Registers) X() uint16 {
	return r.IX[r.CurIndReg]
}

// SetX stores v into the currently selected index register.
func (r *Registers) SetX(v uint16) {
	r.IX[r.CurIndReg] = v
}

// D returns the double accumulator, formed from accumulator A (high byte)
// and accumulator B (low byte).
func (r *Registers) D() uint16 {
	return uint16(r.A)<<8 | uint16(r.B)
}

// SetD splits a 16-bit value across accumulators A (high byte) and B
// (low byte).
func (r *Registers) SetD(v uint16) {
	r.A = byte(v >> 8)
	r.B = byte(v)
}

// SaveCC packs the condition code flags into a byte value. The two unused
// most-significant bits are always saved as on.
func (r *Registers) SaveCC() byte {
	var cc byte = reservedBits
	if r.Carry {
		cc |= CarryBit
	}
	if r.Overflow {
		cc |= OverflowBit
	}
	if r.Zero {
		cc |= ZeroBit
	}
	if r.Negative {
		cc |= NegativeBit
	}
	if r.IntMask {
		cc |= IntMaskBit
	}
	if r.HalfCarry {
		cc |= HalfCarryBit
	}
	return cc
}

// RestoreCC unpacks a condition code byte into the individual flags.
func (r *Registers) RestoreCC(cc byte) {
	r.Carry = ((cc & CarryBit) != 0)
	r.Overflow = ((cc & OverflowBit) != 0)
	r.Zero = ((cc & ZeroBit) != 0)
	r.Negative = ((cc & NegativeBit) != 0)
	r.IntMask = ((cc & IntMaskBit) != 0)
	r.HalfCarry = ((cc & HalfCarryBit) != 0)
}

func boolToByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}

// Init initializes all registers. A, B, IX = 0. SP = 0x00ff. PC = 0.
// All condition flags are cleared.
func (r *Registers) Init() {
	r.A = 0
	r.B = 0
	r.IX[0] = 0
	r.IX[1] = 0
	r.CurIndReg = 0
	r.SP = 0x00ff
	r.PC = 0
	r.RestoreCC(0)
}
