// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements an emulation of the Motorola M6800 and M6803
// 8-bit microprocessors: registers, a 64KB address space, the full
// instruction set of both variants, and the RST/NMI/IRQ interrupt
// machinery in both cycle-accurate and instruction-per-step timing.
package cpu

import (
	"fmt"
)

// Interrupt identifies a pending interrupt request. The three service
// values are transient states used only in cycle-accurate mode to model
// interrupt entry latency.
type Interrupt byte

// Interrupt request states.
const (
	IntNone Interrupt = iota // no request pending
	IntRST                   // reset requested
	IntNMI                   // non-maskable interrupt requested
	IntIRQ                   // maskable interrupt requested
	intServiceRST            // reset entry sequence in progress
	intServiceNMI            // NMI entry sequence in progress
	intServiceIRQ            // IRQ entry sequence in progress
)

func (i Interrupt) String() string {
	switch i.request() {
	case IntRST:
		return "RST"
	case IntNMI:
		return "NMI"
	case IntIRQ:
		return "IRQ"
	}
	return "none"
}

// request maps an in-service state back to the request that started it.
func (i Interrupt) request() Interrupt {
	switch i {
	case intServiceRST:
		return IntRST
	case intServiceNMI:
		return IntNMI
	case intServiceIRQ:
		return IntIRQ
	}
	return i
}

// service maps a request to its entry-sequence state.
func (i Interrupt) service() Interrupt {
	switch i {
	case IntRST:
		return intServiceRST
	case IntNMI:
		return intServiceNMI
	case IntIRQ:
		return intServiceIRQ
	}
	return i
}

// Cycle cost of an interrupt entry sequence. Waking from WAI is cheaper
// since the context is already on the stack.
const (
	interruptCycles = 12
	wakeCycles      = 4
)

// An InvalidOpcodeError is returned when the CPU fetches an opcode that has
// no instruction assigned on the selected variant and the
// increment-on-invalid fallback is off.
type InvalidOpcodeError struct {
	Addr   uint16
	Opcode byte
}

func (e InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode $%02X at $%04X", e.Opcode, e.Addr)
}

// CPU represents a single M6800 or M6803 processor connected to a 64KB
// memory. It is not safe for concurrent use; the processor package
// serializes access to it.
type CPU struct {
	Arch    Arch            // processor variant being emulated
	Reg     Registers       // registers
	Mem     *Memory         // memory connected to the CPU
	Cycles  uint64          // total executed CPU cycles
	InstSet *InstructionSet // instruction set for the variant

	// IncrementOnInvalid makes an unassigned opcode advance PC by one
	// byte instead of stopping execution with an error.
	IncrementOnInvalid bool

	interrupt     Interrupt // latched interrupt request or service state
	waiting       bool      // parked by WAI until an interrupt arrives
	pendingCycles int       // cycles left before the next dispatch (cycle mode)
}

// NewCPU creates an emulated M6800 or M6803 processor bound to the
// memory m.
func NewCPU(arch Arch, m *Memory) *CPU {
	c := &CPU{
		Arch:    arch,
		Mem:     m,
		InstSet: GetInstructionSet(arch),
	}
	c.Reset()
	return c
}

// Reset returns the processor to its power-on state: PC zeroed, SP at the
// top of page zero, flags cleared, no interrupt pending. Memory is left
// untouched.
func (c *CPU) Reset() {
	c.Reg.Init()
	c.Cycles = 0
	c.interrupt = IntNone
	c.waiting = false
	c.pendingCycles = 0
}

// SetPC updates the CPU program counter to the requested address.
func (c *CPU) SetPC(addr uint16) {
	c.Reg.PC = addr
}

// Raise latches an interrupt request. Only the first request wins: raising
// while another request or entry sequence is pending does nothing.
func (c *CPU) Raise(kind Interrupt) {
	if c.interrupt != IntNone {
		return
	}
	switch kind {
	case IntRST, IntNMI, IntIRQ:
		c.interrupt = kind
	}
}

// PendingInterrupt returns the latched interrupt request, if any.
func (c *CPU) PendingInterrupt() Interrupt {
	return c.interrupt.request()
}

// Waiting reports whether the CPU is parked by a WAI instruction.
func (c *CPU) Waiting() bool {
	return c.waiting
}

// Step executes one instruction in instruction-per-step mode. A pending
// interrupt is serviced in place of the instruction; a parked CPU does
// nothing until a request arrives.
func (c *CPU) Step() error {
	switch c.interrupt {
	case intServiceRST, intServiceNMI, intServiceIRQ:
		panic("interrupt service state in instruction-per-step mode")

	case IntIRQ:
		if c.Reg.IntMask {
			c.interrupt = IntNone
			break
		}
		fallthrough

	case IntRST, IntNMI:
		kind := c.interrupt
		c.interrupt = IntNone
		if c.waiting {
			c.waiting = false
			c.serviceInterrupt(kind, false)
			c.Cycles += wakeCycles
		} else {
			c.serviceInterrupt(kind, true)
			c.Cycles += interruptCycles
		}
		return nil
	}

	if c.waiting {
		return nil
	}

	cycles, err := c.execute()
	c.Cycles += uint64(cycles)
	return err
}

// Tick advances the CPU by one clock cycle in cycle-accurate mode. An
// instruction dispatches on its first cycle and the remaining cycles of
// its documented cost are burned one tick at a time.
func (c *CPU) Tick() error {
	if c.pendingCycles > 0 {
		c.pendingCycles--
		c.Cycles++
		return nil
	}

	switch c.interrupt {
	case intServiceRST, intServiceNMI, intServiceIRQ:
		// Tail of the entry sequence: stack the context and chase the
		// vector. A CPU parked by WAI already stacked its context.
		kind := c.interrupt.request()
		c.interrupt = IntNone
		c.Cycles++
		c.serviceInterrupt(kind, !c.waiting)
		c.waiting = false
		return nil
	}

	if c.waiting {
		// Parked: the clock is gated until a request arrives.
		switch c.interrupt {
		case IntNone:
			return nil
		case IntIRQ:
			if c.Reg.IntMask {
				c.interrupt = IntNone
				return nil
			}
		}
		c.interrupt = c.interrupt.service()
		c.Cycles++
		c.pendingCycles = wakeCycles - 1
		return nil
	}

	switch c.interrupt {
	case IntIRQ:
		if c.Reg.IntMask {
			c.interrupt = IntNone
			break
		}
		fallthrough

	case IntRST, IntNMI:
		// One more instruction runs before the entry sequence, and the
		// entry latency replaces its natural cycle cost.
		c.interrupt = c.interrupt.service()
		c.Cycles++
		_, err := c.execute()
		c.pendingCycles = interruptCycles - 1
		return err
	}

	c.Cycles++
	cycles, err := c.execute()
	if cycles > 0 {
		c.pendingCycles = int(cycles) - 1
	}
	return err
}

// execute fetches, decodes and runs the instruction at PC, returning its
// cycle cost. PC is advanced past the instruction before the handler runs,
// so jumps and branches may overwrite it absolutely.
func (c *CPU) execute() (byte, error) {
	opAddr := c.Reg.PC
	opcode := c.Mem.LoadByte(opAddr)
	inst := c.InstSet.Lookup(opcode)

	if inst.Mode == INVALID {
		if !c.IncrementOnInvalid {
			return 0, InvalidOpcodeError{Addr: opAddr, Opcode: opcode}
		}
		c.Reg.PC++
		return 1, nil
	}

	var buf [2]byte
	operand := buf[:inst.Length-1]
	for i := range operand {
		operand[i] = c.Mem.LoadByte(opAddr + 1 + uint16(i))
	}

	c.Reg.PC = opAddr + uint16(inst.Length)
	inst.fn(c, inst, operand)
	return inst.Cycles, nil
}

// serviceInterrupt performs an interrupt entry: context push (skipped when
// the context is already stacked), interrupt masking, and the vector fetch.
func (c *CPU) serviceInterrupt(kind Interrupt, push bool) {
	if push {
		c.pushContext()
	}
	c.Reg.IntMask = true

	var vec uint16
	switch kind {
	case IntRST:
		vec = VecRST
	case IntNMI:
		vec = VecNMI
	case IntIRQ:
		vec = VecIRQ
	}
	c.Reg.PC = c.Mem.LoadWord(vec)
}

// pushContext stacks PC, X, A, B and the condition codes, in that order.
func (c *CPU) pushContext() {
	c.pushWord(c.Reg.PC)
	c.pushWord(c.Reg.X())
	c.push(c.Reg.A)
	c.push(c.Reg.B)
	c.push(c.Reg.SaveCC())
}

// operandAddress converts an instruction operand into a memory address.
func (c *CPU) operandAddress(mode Mode, operand []byte) uint16 {
	switch mode {
	case DIR, EXT:
		return operandToAddress(operand)
	case IDX:
		return c.Reg.X() + uint16(operand[0])
	}
	panic("addressing mode carries no address")
}

// loadByte returns the 8-bit value selected by the addressing mode.
func (c *CPU) loadByte(inst *Instruction, operand []byte) byte {
	if inst.Mode == IMM {
		return operand[0]
	}
	return c.Mem.LoadByte(c.operandAddress(inst.Mode, operand))
}

// loadWord returns the 16-bit value selected by the addressing mode.
func (c *CPU) loadWord(inst *Instruction, operand []byte) uint16 {
	if inst.Mode == IMM {
		return uint16(operand[0])<<8 | uint16(operand[1])
	}
	return c.Mem.LoadWord(c.operandAddress(inst.Mode, operand))
}

// push a byte onto the stack. The stack pointer addresses the next free
// slot and grows downward.
func (c *CPU) push(v byte) {
	c.Mem.StoreByte(c.Reg.SP, v)
	c.Reg.SP--
}

// push a word onto the stack, low byte first so the high byte lands at the
// lower address.
func (c *CPU) pushWord(v uint16) {
	c.push(byte(v))
	c.push(byte(v >> 8))
}

// pop a byte value from the stack.
func (c *CPU) pop() byte {
	c.Reg.SP++
	return c.Mem.LoadByte(c.Reg.SP)
}

// pop a 16-bit value from the stack.
func (c *CPU) popWord() uint16 {
	hi := c.pop()
	lo := c.pop()
	return uint16(hi)<<8 | uint16(lo)
}

// update the Zero and Negative flags from an 8-bit result.
func (c *CPU) setNZ8(v byte) {
	c.Reg.Negative = (v & 0x80) != 0
	c.Reg.Zero = v == 0
}

// update the Zero and Negative flags from a 16-bit result.
func (c *CPU) setNZ16(v uint16) {
	c.Reg.Negative = (v & 0x8000) != 0
	c.Reg.Zero = v == 0
}

// add8 adds two bytes plus an optional carry-in, updating H, N, Z, V
// and C.
func (c *CPU) add8(a, b byte, carry bool) byte {
	cin := boolToByte(carry)
	r := a + b + cin
	c.Reg.HalfCarry = (a&0x0f)+(b&0x0f)+cin > 0x0f
	c.Reg.Carry = uint16(a)+uint16(b)+uint16(cin) > 0xff
	c.Reg.Overflow = ((a^r)&(b^r)&0x80) != 0
	c.setNZ8(r)
	return r
}

// sub8 subtracts a byte and an optional borrow-in, updating N, Z, V and C.
// The half-carry flag is untouched by subtraction.
func (c *CPU) sub8(a, b byte, borrow bool) byte {
	bin := boolToByte(borrow)
	r := a - b - bin
	c.Reg.Carry = uint16(b)+uint16(bin) > uint16(a)
	c.Reg.Overflow = ((a^b)&(a^r)&0x80) != 0
	c.setNZ8(r)
	return r
}

// add16 adds two words, updating N, Z, V and C.
func (c *CPU) add16(a, b uint16) uint16 {
	r := a + b
	c.Reg.Carry = uint32(a)+uint32(b) > 0xffff
	c.Reg.Overflow = ((a^r)&(b^r)&0x8000) != 0
	c.setNZ16(r)
	return r
}

// sub16 subtracts two words, updating N, Z, V and C.
func (c *CPU) sub16(a, b uint16) uint16 {
	r := a - b
	c.Reg.Carry = b > a
	c.Reg.Overflow = ((a^b)&(a^r)&0x8000) != 0
	c.setNZ16(r)
	return r
}

// logic8 records the flag effects shared by the 8-bit logical, load and
// store operations: N and Z from the value, V cleared.
func (c *CPU) logic8(v byte) byte {
	c.setNZ8(v)
	c.Reg.Overflow = false
	return v
}

// move16 records the flag effects of the 16-bit load and store operations.
func (c *CPU) move16(v uint16) uint16 {
	c.setNZ16(v)
	c.Reg.Overflow = false
	return v
}

// rmw applies a read-modify-write transform to the addressed memory byte.
func (c *CPU) rmw(inst *Instruction, operand []byte, f func(byte) byte) {
	addr := c.operandAddress(inst.Mode, operand)
	c.Mem.StoreByte(addr, f(c.Mem.LoadByte(addr)))
}

// branch adds the signed displacement to PC when the condition holds. PC
// already points past the operand byte.
func (c *CPU) branch(operand []byte, take bool) {
	if take {
		c.Reg.PC += uint16(int16(int8(operand[0])))
	}
}

// aslv shifts left one bit, shifting bit 7 into the carry.
func (c *CPU) aslv(v byte) byte {
	r := v << 1
	c.Reg.Carry = (v & 0x80) != 0
	c.setNZ8(r)
	c.Reg.Overflow = c.Reg.Negative != c.Reg.Carry
	return r
}

// asrv shifts right one bit, preserving the sign bit and shifting bit 0
// into the carry.
func (c *CPU) asrv(v byte) byte {
	r := v>>1 | v&0x80
	c.Reg.Carry = (v & 0x01) != 0
	c.setNZ8(r)
	c.Reg.Overflow = c.Reg.Negative != c.Reg.Carry
	return r
}

// lsrv shifts right one bit, feeding zero into bit 7.
func (c *CPU) lsrv(v byte) byte {
	r := v >> 1
	c.Reg.Carry = (v & 0x01) != 0
	c.setNZ8(r)
	c.Reg.Overflow = c.Reg.Negative != c.Reg.Carry
	return r
}

// rolv rotates left one bit through the carry.
func (c *CPU) rolv(v byte) byte {
	r := v << 1
	if c.Reg.Carry {
		r |= 0x01
	}
	c.Reg.Carry = (v & 0x80) != 0
	c.setNZ8(r)
	c.Reg.Overflow = c.Reg.Negative != c.Reg.Carry
	return r
}

// rorv rotates right one bit through the carry.
func (c *CPU) rorv(v byte) byte {
	r := v >> 1
	if c.Reg.Carry {
		r |= 0x80
	}
	c.Reg.Carry = (v & 0x01) != 0
	c.setNZ8(r)
	c.Reg.Overflow = c.Reg.Negative != c.Reg.Carry
	return r
}

// negv produces the two's complement, with overflow only on 0x80 and carry
// on any non-zero result.
func (c *CPU) negv(v byte) byte {
	r := -v
	c.setNZ8(r)
	c.Reg.Overflow = r == 0x80
	c.Reg.Carry = r != 0
	return r
}

// comv produces the one's complement, always setting the carry.
func (c *CPU) comv(v byte) byte {
	r := ^v
	c.setNZ8(r)
	c.Reg.Overflow = false
	c.Reg.Carry = true
	return r
}

// incv adds one, with overflow only on the 0x7F to 0x80 transition.
func (c *CPU) incv(v byte) byte {
	r := v + 1
	c.setNZ8(r)
	c.Reg.Overflow = r == 0x80
	return r
}

// decv subtracts one, with overflow only on the 0x80 to 0x7F transition.
func (c *CPU) decv(v byte) byte {
	r := v - 1
	c.setNZ8(r)
	c.Reg.Overflow = r == 0x7f
	return r
}

// clrv clears a value, forcing N=0 Z=1 V=0 C=0.
func (c *CPU) clrv(byte) byte {
	c.Reg.Negative = false
	c.Reg.Zero = true
	c.Reg.Overflow = false
	c.Reg.Carry = false
	return 0
}

// tstv tests a value, clearing V and C.
func (c *CPU) tstv(v byte) {
	c.setNZ8(v)
	c.Reg.Overflow = false
	c.Reg.Carry = false
}

// Add accumulator B to accumulator A.
func (c *CPU) aba(inst *Instruction, operand []byte) {
	c.Reg.A = c.add8(c.Reg.A, c.Reg.B, false)
}

// Add accumulator B to the index register (no flags).
func (c *CPU) abx(inst *Instruction, operand []byte) {
	c.Reg.SetX(c.Reg.X() + uint16(c.Reg.B))
}

// Add memory and carry to accumulator A.
func (c *CPU) adca(inst *Instruction, operand []byte) {
	c.Reg.A = c.add8(c.Reg.A, c.loadByte(inst, operand), c.Reg.Carry)
}

// Add memory and carry to accumulator B.
func (c *CPU) adcb(inst *Instruction, operand []byte) {
	c.Reg.B = c.add8(c.Reg.B, c.loadByte(inst, operand), c.Reg.Carry)
}

// Add memory to accumulator A.
func (c *CPU) adda(inst *Instruction, operand []byte) {
	c.Reg.A = c.add8(c.Reg.A, c.loadByte(inst, operand), false)
}

// Add memory to accumulator B.
func (c *CPU) addb(inst *Instruction, operand []byte) {
	c.Reg.B = c.add8(c.Reg.B, c.loadByte(inst, operand), false)
}

// Add 16-bit memory to the double accumulator.
func (c *CPU) addd(inst *Instruction, operand []byte) {
	c.Reg.SetD(c.add16(c.Reg.D(), c.loadWord(inst, operand)))
}

// AND memory with accumulator A.
func (c *CPU) anda(inst *Instruction, operand []byte) {
	c.Reg.A = c.logic8(c.Reg.A & c.loadByte(inst, operand))
}

// AND memory with accumulator B.
func (c *CPU) andb(inst *Instruction, operand []byte) {
	c.Reg.B = c.logic8(c.Reg.B & c.loadByte(inst, operand))
}

// Arithmetic shift left memory.
func (c *CPU) asl(inst *Instruction, operand []byte) {
	c.rmw(inst, operand, c.aslv)
}

// Arithmetic shift left accumulator A.
func (c *CPU) asla(inst *Instruction, operand []byte) {
	c.Reg.A = c.aslv(c.Reg.A)
}

// Arithmetic shift left accumulator B.
func (c *CPU) aslb(inst *Instruction, operand []byte) {
	c.Reg.B = c.aslv(c.Reg.B)
}

// Arithmetic shift left the double accumulator.
func (c *CPU) asld(inst *Instruction, operand []byte) {
	d := c.Reg.D()
	r := d << 1
	c.Reg.Carry = (d & 0x8000) != 0
	c.setNZ16(r)
	c.Reg.Overflow = c.Reg.Negative != c.Reg.Carry
	c.Reg.SetD(r)
}

// Arithmetic shift right memory.
func (c *CPU) asr(inst *Instruction, operand []byte) {
	c.rmw(inst, operand, c.asrv)
}

// Arithmetic shift right accumulator A.
func (c *CPU) asra(inst *Instruction, operand []byte) {
	c.Reg.A = c.asrv(c.Reg.A)
}

// Arithmetic shift right accumulator B.
func (c *CPU) asrb(inst *Instruction, operand []byte) {
	c.Reg.B = c.asrv(c.Reg.B)
}

// Branch if carry clear.
func (c *CPU) bcc(inst *Instruction, operand []byte) {
	c.branch(operand, !c.Reg.Carry)
}

// Branch if carry set.
func (c *CPU) bcs(inst *Instruction, operand []byte) {
	c.branch(operand, c.Reg.Carry)
}

// Branch if equal to zero.
func (c *CPU) beq(inst *Instruction, operand []byte) {
	c.branch(operand, c.Reg.Zero)
}

// Branch if greater than or equal to zero (signed).
func (c *CPU) bge(inst *Instruction, operand []byte) {
	c.branch(operand, c.Reg.Negative == c.Reg.Overflow)
}

// Branch if greater than zero (signed).
func (c *CPU) bgt(inst *Instruction, operand []byte) {
	c.branch(operand, !c.Reg.Zero && c.Reg.Negative == c.Reg.Overflow)
}

// Branch if higher (unsigned).
func (c *CPU) bhi(inst *Instruction, operand []byte) {
	c.branch(operand, !c.Reg.Carry && !c.Reg.Zero)
}

// Bit test memory against accumulator A.
func (c *CPU) bita(inst *Instruction, operand []byte) {
	c.logic8(c.Reg.A & c.loadByte(inst, operand))
}

// Bit test memory against accumulator B.
func (c *CPU) bitb(inst *Instruction, operand []byte) {
	c.logic8(c.Reg.B & c.loadByte(inst, operand))
}

// Branch if less than or equal to zero (signed).
func (c *CPU) ble(inst *Instruction, operand []byte) {
	c.branch(operand, c.Reg.Zero || c.Reg.Negative != c.Reg.Overflow)
}

// Branch if lower or same (unsigned).
func (c *CPU) bls(inst *Instruction, operand []byte) {
	c.branch(operand, c.Reg.Carry || c.Reg.Zero)
}

// Branch if less than zero (signed).
func (c *CPU) blt(inst *Instruction, operand []byte) {
	c.branch(operand, c.Reg.Negative != c.Reg.Overflow)
}

// Branch if minus.
func (c *CPU) bmi(inst *Instruction, operand []byte) {
	c.branch(operand, c.Reg.Negative)
}

// Branch if not equal to zero.
func (c *CPU) bne(inst *Instruction, operand []byte) {
	c.branch(operand, !c.Reg.Zero)
}

// Branch if plus.
func (c *CPU) bpl(inst *Instruction, operand []byte) {
	c.branch(operand, !c.Reg.Negative)
}

// Branch always.
func (c *CPU) bra(inst *Instruction, operand []byte) {
	c.branch(operand, true)
}

// Branch never.
func (c *CPU) brn(inst *Instruction, operand []byte) {
	c.branch(operand, false)
}

// Branch to subroutine.
func (c *CPU) bsr(inst *Instruction, operand []byte) {
	c.pushWord(c.Reg.PC)
	c.branch(operand, true)
}

// Branch if overflow clear.
func (c *CPU) bvc(inst *Instruction, operand []byte) {
	c.branch(operand, !c.Reg.Overflow)
}

// Branch if overflow set.
func (c *CPU) bvs(inst *Instruction, operand []byte) {
	c.branch(operand, c.Reg.Overflow)
}

// Compare accumulator B with accumulator A.
func (c *CPU) cba(inst *Instruction, operand []byte) {
	c.sub8(c.Reg.A, c.Reg.B, false)
}

// Clear the carry flag.
func (c *CPU) clc(inst *Instruction, operand []byte) {
	c.Reg.Carry = false
}

// Clear the interrupt mask.
func (c *CPU) cli(inst *Instruction, operand []byte) {
	c.Reg.IntMask = false
}

// Clear memory.
func (c *CPU) clr(inst *Instruction, operand []byte) {
	c.rmw(inst, operand, c.clrv)
}

// Clear accumulator A.
func (c *CPU) clra(inst *Instruction, operand []byte) {
	c.Reg.A = c.clrv(0)
}

// Clear accumulator B.
func (c *CPU) clrb(inst *Instruction, operand []byte) {
	c.Reg.B = c.clrv(0)
}

// Clear the overflow flag.
func (c *CPU) clv(inst *Instruction, operand []byte) {
	c.Reg.Overflow = false
}

// Compare memory with accumulator A.
func (c *CPU) cmpa(inst *Instruction, operand []byte) {
	c.sub8(c.Reg.A, c.loadByte(inst, operand), false)
}

// Compare memory with accumulator B.
func (c *CPU) cmpb(inst *Instruction, operand []byte) {
	c.sub8(c.Reg.B, c.loadByte(inst, operand), false)
}

// Complement memory.
func (c *CPU) com(inst *Instruction, operand []byte) {
	c.rmw(inst, operand, c.comv)
}

// Complement accumulator A.
func (c *CPU) coma(inst *Instruction, operand []byte) {
	c.Reg.A = c.comv(c.Reg.A)
}

// Complement accumulator B.
func (c *CPU) comb(inst *Instruction, operand []byte) {
	c.Reg.B = c.comv(c.Reg.B)
}

// Compare memory with the index register. The M6800 leaves the carry
// untouched.
func (c *CPU) cpx6800(inst *Instruction, operand []byte) {
	carry := c.Reg.Carry
	c.sub16(c.Reg.X(), c.loadWord(inst, operand))
	c.Reg.Carry = carry
}

// Compare memory with the index register, M6803 style: the carry is
// computed like any other subtraction.
func (c *CPU) cpx6803(inst *Instruction, operand []byte) {
	c.sub16(c.Reg.X(), c.loadWord(inst, operand))
}

// Decimal adjust accumulator A after a BCD addition. The adjustment and
// the resulting carry follow the hardware truth table over the carry, the
// half-carry and the two nibbles. The overflow flag is left untouched.
func (c *CPU) daa(inst *Instruction, operand []byte) {
	a := c.Reg.A
	hi, lo := a>>4, a&0x0f

	var add byte
	carry := c.Reg.Carry
	switch {
	case !c.Reg.Carry && !c.Reg.HalfCarry && hi <= 9 && lo <= 9:
		add = 0x00
	case !c.Reg.Carry && !c.Reg.HalfCarry && hi <= 8 && lo >= 10:
		add = 0x06
	case !c.Reg.Carry && c.Reg.HalfCarry && hi <= 9 && lo <= 3:
		add = 0x06
	case !c.Reg.Carry && !c.Reg.HalfCarry && hi >= 10 && lo <= 9:
		add, carry = 0x60, true
	case !c.Reg.Carry && !c.Reg.HalfCarry && hi >= 9 && lo >= 10:
		add, carry = 0x66, true
	case !c.Reg.Carry && c.Reg.HalfCarry && hi >= 10 && lo <= 3:
		add, carry = 0x66, true
	case c.Reg.Carry && !c.Reg.HalfCarry && hi <= 2 && lo <= 9:
		add, carry = 0x60, true
	case c.Reg.Carry && !c.Reg.HalfCarry && hi <= 2 && lo >= 10:
		add, carry = 0x66, true
	case c.Reg.Carry && c.Reg.HalfCarry && hi <= 3 && lo <= 3:
		add, carry = 0x66, true
	}

	r := a + add
	c.setNZ8(r)
	c.Reg.Carry = carry
	c.Reg.A = r
}

// Decrement memory.
func (c *CPU) dec(inst *Instruction, operand []byte) {
	c.rmw(inst, operand, c.decv)
}

// Decrement accumulator A.
func (c *CPU) deca(inst *Instruction, operand []byte) {
	c.Reg.A = c.decv(c.Reg.A)
}

// Decrement accumulator B.
func (c *CPU) decb(inst *Instruction, operand []byte) {
	c.Reg.B = c.decv(c.Reg.B)
}

// Decrement the stack pointer (no flags).
func (c *CPU) des(inst *Instruction, operand []byte) {
	c.Reg.SP--
}

// Decrement the index register. Only the zero flag is updated.
func (c *CPU) dex(inst *Instruction, operand []byte) {
	c.Reg.SetX(c.Reg.X() - 1)
	c.Reg.Zero = c.Reg.X() == 0
}

// Exclusive-OR memory with accumulator A.
func (c *CPU) eora(inst *Instruction, operand []byte) {
	c.Reg.A = c.logic8(c.Reg.A ^ c.loadByte(inst, operand))
}

// Exclusive-OR memory with accumulator B.
func (c *CPU) eorb(inst *Instruction, operand []byte) {
	c.Reg.B = c.logic8(c.Reg.B ^ c.loadByte(inst, operand))
}

// Increment memory.
func (c *CPU) inc(inst *Instruction, operand []byte) {
	c.rmw(inst, operand, c.incv)
}

// Increment accumulator A.
func (c *CPU) inca(inst *Instruction, operand []byte) {
	c.Reg.A = c.incv(c.Reg.A)
}

// Increment accumulator B.
func (c *CPU) incb(inst *Instruction, operand []byte) {
	c.Reg.B = c.incv(c.Reg.B)
}

// Increment the stack pointer (no flags).
func (c *CPU) ins(inst *Instruction, operand []byte) {
	c.Reg.SP++
}

// Increment the index register. Only the zero flag is updated.
func (c *CPU) inx(inst *Instruction, operand []byte) {
	c.Reg.SetX(c.Reg.X() + 1)
	c.Reg.Zero = c.Reg.X() == 0
}

// Jump to the operand address.
func (c *CPU) jmp(inst *Instruction, operand []byte) {
	c.Reg.PC = c.operandAddress(inst.Mode, operand)
}

// Jump to subroutine.
func (c *CPU) jsr(inst *Instruction, operand []byte) {
	c.pushWord(c.Reg.PC)
	c.Reg.PC = c.operandAddress(inst.Mode, operand)
}

// Load accumulator A.
func (c *CPU) ldaa(inst *Instruction, operand []byte) {
	c.Reg.A = c.logic8(c.loadByte(inst, operand))
}

// Load accumulator B.
func (c *CPU) ldab(inst *Instruction, operand []byte) {
	c.Reg.B = c.logic8(c.loadByte(inst, operand))
}

// Load the double accumulator.
func (c *CPU) ldd(inst *Instruction, operand []byte) {
	c.Reg.SetD(c.move16(c.loadWord(inst, operand)))
}

// Load the stack pointer.
func (c *CPU) lds(inst *Instruction, operand []byte) {
	c.Reg.SP = c.move16(c.loadWord(inst, operand))
}

// Load the index register.
func (c *CPU) ldx(inst *Instruction, operand []byte) {
	c.Reg.SetX(c.move16(c.loadWord(inst, operand)))
}

// Logical shift right memory.
func (c *CPU) lsr(inst *Instruction, operand []byte) {
	c.rmw(inst, operand, c.lsrv)
}

// Logical shift right accumulator A.
func (c *CPU) lsra(inst *Instruction, operand []byte) {
	c.Reg.A = c.lsrv(c.Reg.A)
}

// Logical shift right accumulator B.
func (c *CPU) lsrb(inst *Instruction, operand []byte) {
	c.Reg.B = c.lsrv(c.Reg.B)
}

// Logical shift right the double accumulator.
func (c *CPU) lsrd(inst *Instruction, operand []byte) {
	d := c.Reg.D()
	r := d >> 1
	c.Reg.Carry = (d & 0x0001) != 0
	c.setNZ16(r)
	c.Reg.Overflow = c.Reg.Negative != c.Reg.Carry
	c.Reg.SetD(r)
}

// Multiply accumulator A by accumulator B into D. The carry takes bit 7 of
// the low result byte so rounding can use ADCA #0.
func (c *CPU) mul(inst *Instruction, operand []byte) {
	r := uint16(c.Reg.A) * uint16(c.Reg.B)
	c.Reg.SetD(r)
	c.Reg.Carry = (r & 0x80) != 0
}

// Negate memory.
func (c *CPU) neg(inst *Instruction, operand []byte) {
	c.rmw(inst, operand, c.negv)
}

// Negate accumulator A.
func (c *CPU) nega(inst *Instruction, operand []byte) {
	c.Reg.A = c.negv(c.Reg.A)
}

// Negate accumulator B.
func (c *CPU) negb(inst *Instruction, operand []byte) {
	c.Reg.B = c.negv(c.Reg.B)
}

// No operation.
func (c *CPU) nop(inst *Instruction, operand []byte) {
}

// OR memory with accumulator A.
func (c *CPU) oraa(inst *Instruction, operand []byte) {
	c.Reg.A = c.logic8(c.Reg.A | c.loadByte(inst, operand))
}

// OR memory with accumulator B.
func (c *CPU) orab(inst *Instruction, operand []byte) {
	c.Reg.B = c.logic8(c.Reg.B | c.loadByte(inst, operand))
}

// Push accumulator A.
func (c *CPU) psha(inst *Instruction, operand []byte) {
	c.push(c.Reg.A)
}

// Push accumulator B.
func (c *CPU) pshb(inst *Instruction, operand []byte) {
	c.push(c.Reg.B)
}

// Push the index register.
func (c *CPU) pshx(inst *Instruction, operand []byte) {
	c.pushWord(c.Reg.X())
}

// Pull accumulator A.
func (c *CPU) pula(inst *Instruction, operand []byte) {
	c.Reg.A = c.pop()
}

// Pull accumulator B.
func (c *CPU) pulb(inst *Instruction, operand []byte) {
	c.Reg.B = c.pop()
}

// Pull the index register.
func (c *CPU) pulx(inst *Instruction, operand []byte) {
	c.Reg.SetX(c.popWord())
}

// Rotate memory left through the carry.
func (c *CPU) rol(inst *Instruction, operand []byte) {
	c.rmw(inst, operand, c.rolv)
}

// Rotate accumulator A left through the carry.
func (c *CPU) rola(inst *Instruction, operand []byte) {
	c.Reg.A = c.rolv(c.Reg.A)
}

// Rotate accumulator B left through the carry.
func (c *CPU) rolb(inst *Instruction, operand []byte) {
	c.Reg.B = c.rolv(c.Reg.B)
}

// Rotate memory right through the carry.
func (c *CPU) ror(inst *Instruction, operand []byte) {
	c.rmw(inst, operand, c.rorv)
}

// Rotate accumulator A right through the carry.
func (c *CPU) rora(inst *Instruction, operand []byte) {
	c.Reg.A = c.rorv(c.Reg.A)
}

// Rotate accumulator B right through the carry.
func (c *CPU) rorb(inst *Instruction, operand []byte) {
	c.Reg.B = c.rorv(c.Reg.B)
}

// Return from interrupt: restore the stacked context in reverse push
// order.
func (c *CPU) rti(inst *Instruction, operand []byte) {
	c.Reg.RestoreCC(c.pop())
	c.Reg.B = c.pop()
	c.Reg.A = c.pop()
	c.Reg.SetX(c.popWord())
	c.Reg.PC = c.popWord()
}

// Return from subroutine.
func (c *CPU) rts(inst *Instruction, operand []byte) {
	c.Reg.PC = c.popWord()
}

// Subtract accumulator B from accumulator A.
func (c *CPU) sba(inst *Instruction, operand []byte) {
	c.Reg.A = c.sub8(c.Reg.A, c.Reg.B, false)
}

// Subtract memory and carry from accumulator A.
func (c *CPU) sbca(inst *Instruction, operand []byte) {
	c.Reg.A = c.sub8(c.Reg.A, c.loadByte(inst, operand), c.Reg.Carry)
}

// Subtract memory and carry from accumulator B.
func (c *CPU) sbcb(inst *Instruction, operand []byte) {
	c.Reg.B = c.sub8(c.Reg.B, c.loadByte(inst, operand), c.Reg.Carry)
}

// Set the carry flag.
func (c *CPU) sec(inst *Instruction, operand []byte) {
	c.Reg.Carry = true
}

// Set the interrupt mask.
func (c *CPU) sei(inst *Instruction, operand []byte) {
	c.Reg.IntMask = true
}

// Set the overflow flag.
func (c *CPU) sev(inst *Instruction, operand []byte) {
	c.Reg.Overflow = true
}

// Store accumulator A.
func (c *CPU) staa(inst *Instruction, operand []byte) {
	c.Mem.StoreByte(c.operandAddress(inst.Mode, operand), c.logic8(c.Reg.A))
}

// Store accumulator B.
func (c *CPU) stab(inst *Instruction, operand []byte) {
	c.Mem.StoreByte(c.operandAddress(inst.Mode, operand), c.logic8(c.Reg.B))
}

// Store the double accumulator.
func (c *CPU) std(inst *Instruction, operand []byte) {
	c.Mem.StoreWord(c.operandAddress(inst.Mode, operand), c.move16(c.Reg.D()))
}

// Store the stack pointer.
func (c *CPU) sts(inst *Instruction, operand []byte) {
	c.Mem.StoreWord(c.operandAddress(inst.Mode, operand), c.move16(c.Reg.SP))
}

// Store the index register.
func (c *CPU) stx(inst *Instruction, operand []byte) {
	c.Mem.StoreWord(c.operandAddress(inst.Mode, operand), c.move16(c.Reg.X()))
}

// Subtract memory from accumulator A.
func (c *CPU) suba(inst *Instruction, operand []byte) {
	c.Reg.A = c.sub8(c.Reg.A, c.loadByte(inst, operand), false)
}

// Subtract memory from accumulator B.
func (c *CPU) subb(inst *Instruction, operand []byte) {
	c.Reg.B = c.sub8(c.Reg.B, c.loadByte(inst, operand), false)
}

// Subtract 16-bit memory from the double accumulator.
func (c *CPU) subd(inst *Instruction, operand []byte) {
	c.Reg.SetD(c.sub16(c.Reg.D(), c.loadWord(inst, operand)))
}

// Software interrupt: stack the context and chase the SWI vector.
func (c *CPU) swi(inst *Instruction, operand []byte) {
	c.pushContext()
	c.Reg.IntMask = true
	c.Reg.PC = c.Mem.LoadWord(VecSWI)
}

// Transfer accumulator A to accumulator B.
func (c *CPU) tab(inst *Instruction, operand []byte) {
	c.Reg.B = c.logic8(c.Reg.A)
}

// Transfer accumulator A to the condition codes.
func (c *CPU) tap(inst *Instruction, operand []byte) {
	c.Reg.RestoreCC(c.Reg.A)
}

// Transfer accumulator B to accumulator A.
func (c *CPU) tba(inst *Instruction, operand []byte) {
	c.Reg.A = c.logic8(c.Reg.B)
}

// Transfer the condition codes to accumulator A. The two reserved bits
// read as on.
func (c *CPU) tpa(inst *Instruction, operand []byte) {
	c.Reg.A = c.Reg.SaveCC()
}

// Test memory.
func (c *CPU) tst(inst *Instruction, operand []byte) {
	c.tstv(c.Mem.LoadByte(c.operandAddress(inst.Mode, operand)))
}

// Test accumulator A.
func (c *CPU) tsta(inst *Instruction, operand []byte) {
	c.tstv(c.Reg.A)
}

// Test accumulator B.
func (c *CPU) tstb(inst *Instruction, operand []byte) {
	c.tstv(c.Reg.B)
}

// Transfer the stack pointer to the index register. X receives SP+1.
func (c *CPU) tsx(inst *Instruction, operand []byte) {
	c.Reg.SetX(c.Reg.SP + 1)
}

// Transfer the index register to the stack pointer. SP receives X-1.
func (c *CPU) txs(inst *Instruction, operand []byte) {
	c.Reg.SP = c.Reg.X() - 1
}

// Wait for interrupt: stack the context once and park the CPU.
func (c *CPU) wai(inst *Instruction, operand []byte) {
	c.pushContext()
	c.waiting = true
}
