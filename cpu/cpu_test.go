package cpu_test

import (
	"errors"
	"testing"

	"github.com/VladimirJanus/go68xx/cpu"
)

func loadCPU(arch cpu.Arch, origin uint16, code ...byte) *cpu.CPU {
	mem := cpu.NewMemory()
	mem.StoreBytes(origin, code)
	c := cpu.NewCPU(arch, mem)
	c.SetPC(origin)
	return c
}

func stepCPU(t *testing.T, c *cpu.CPU, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d failed: %v", i+1, err)
		}
	}
}

func tickCPU(t *testing.T, c *cpu.CPU, ticks int) {
	t.Helper()
	for i := 0; i < ticks; i++ {
		if err := c.Tick(); err != nil {
			t.Fatalf("tick %d failed: %v", i+1, err)
		}
	}
}

func expectPC(t *testing.T, c *cpu.CPU, pc uint16) {
	t.Helper()
	if c.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, c.Reg.PC)
	}
}

func expectCycles(t *testing.T, c *cpu.CPU, cycles uint64) {
	t.Helper()
	if c.Cycles != cycles {
		t.Errorf("Cycles incorrect. exp: %d, got: %d", cycles, c.Cycles)
	}
}

func expectA(t *testing.T, c *cpu.CPU, a byte) {
	t.Helper()
	if c.Reg.A != a {
		t.Errorf("Accumulator A incorrect. exp: $%02X, got: $%02X", a, c.Reg.A)
	}
}

func expectB(t *testing.T, c *cpu.CPU, b byte) {
	t.Helper()
	if c.Reg.B != b {
		t.Errorf("Accumulator B incorrect. exp: $%02X, got: $%02X", b, c.Reg.B)
	}
}

func expectX(t *testing.T, c *cpu.CPU, x uint16) {
	t.Helper()
	if c.Reg.X() != x {
		t.Errorf("Index register incorrect. exp: $%04X, got: $%04X", x, c.Reg.X())
	}
}

func expectSP(t *testing.T, c *cpu.CPU, sp uint16) {
	t.Helper()
	if c.Reg.SP != sp {
		t.Errorf("Stack pointer incorrect. exp: $%04X, got: $%04X", sp, c.Reg.SP)
	}
}

func expectMem(t *testing.T, c *cpu.CPU, addr uint16, v byte) {
	t.Helper()
	got := c.Mem.LoadByte(addr)
	if got != v {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

func expectFlag(t *testing.T, name string, got, want bool) {
	t.Helper()
	if got != want {
		t.Errorf("%s flag incorrect. exp: %v, got: %v", name, want, got)
	}
}

func TestAccumulatorArithmetic(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x86, 0x05, // LDAA #$05
		0x8b, 0x03, // ADDA #$03
		0x97, 0x20, // STAA $20
	)
	stepCPU(t, c, 3)

	expectPC(t, c, 0x1006)
	expectCycles(t, c, 8)
	expectA(t, c, 0x08)
	expectMem(t, c, 0x0020, 0x08)
	expectFlag(t, "Zero", c.Reg.Zero, false)
	expectFlag(t, "Negative", c.Reg.Negative, false)
	expectFlag(t, "Carry", c.Reg.Carry, false)
}

func TestLoadFlags(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x86, 0x00, // LDAA #$00
		0xc6, 0x80, // LDAB #$80
	)
	c.Reg.Overflow = true

	stepCPU(t, c, 1)
	expectFlag(t, "Zero", c.Reg.Zero, true)
	expectFlag(t, "Negative", c.Reg.Negative, false)
	expectFlag(t, "Overflow", c.Reg.Overflow, false)

	stepCPU(t, c, 1)
	expectB(t, c, 0x80)
	expectFlag(t, "Zero", c.Reg.Zero, false)
	expectFlag(t, "Negative", c.Reg.Negative, true)
}

func TestAddFlags(t *testing.T) {
	// Two positive operands whose sum flips the sign bit.
	c := loadCPU(cpu.M6800, 0x1000,
		0x86, 0x40, // LDAA #$40
		0x8b, 0x40, // ADDA #$40
	)
	stepCPU(t, c, 2)
	expectA(t, c, 0x80)
	expectFlag(t, "Overflow", c.Reg.Overflow, true)
	expectFlag(t, "Negative", c.Reg.Negative, true)
	expectFlag(t, "Carry", c.Reg.Carry, false)
	expectFlag(t, "HalfCarry", c.Reg.HalfCarry, false)

	// Wraparound sets carry, half-carry and zero.
	c = loadCPU(cpu.M6800, 0x1000,
		0x86, 0xff, // LDAA #$FF
		0x8b, 0x01, // ADDA #$01
	)
	stepCPU(t, c, 2)
	expectA(t, c, 0x00)
	expectFlag(t, "Carry", c.Reg.Carry, true)
	expectFlag(t, "HalfCarry", c.Reg.HalfCarry, true)
	expectFlag(t, "Zero", c.Reg.Zero, true)
	expectFlag(t, "Overflow", c.Reg.Overflow, false)
}

func TestSubtractFlags(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x86, 0x00, // LDAA #$00
		0x80, 0x01, // SUBA #$01
	)
	stepCPU(t, c, 2)
	expectA(t, c, 0xff)
	expectFlag(t, "Carry", c.Reg.Carry, true)
	expectFlag(t, "Negative", c.Reg.Negative, true)
	expectFlag(t, "Overflow", c.Reg.Overflow, false)

	c = loadCPU(cpu.M6800, 0x1000,
		0x86, 0x80, // LDAA #$80
		0x80, 0x01, // SUBA #$01
	)
	stepCPU(t, c, 2)
	expectA(t, c, 0x7f)
	expectFlag(t, "Overflow", c.Reg.Overflow, true)
	expectFlag(t, "Carry", c.Reg.Carry, false)
}

func TestDecimalAdjust(t *testing.T) {
	// 15 + 27 = 42 in BCD.
	c := loadCPU(cpu.M6800, 0x1000,
		0x86, 0x15, // LDAA #$15
		0x8b, 0x27, // ADDA #$27
		0x19, // DAA
	)
	stepCPU(t, c, 3)
	expectA(t, c, 0x42)
	expectFlag(t, "Carry", c.Reg.Carry, false)

	// 91 + 91 = 182 in BCD: the adjusted carry survives.
	c = loadCPU(cpu.M6800, 0x1000,
		0x86, 0x91, // LDAA #$91
		0x8b, 0x91, // ADDA #$91
		0x19, // DAA
	)
	stepCPU(t, c, 3)
	expectA(t, c, 0x82)
	expectFlag(t, "Carry", c.Reg.Carry, true)

	// 99 + 01 = 100 in BCD: result wraps to zero with carry.
	c = loadCPU(cpu.M6800, 0x1000,
		0x86, 0x99, // LDAA #$99
		0x8b, 0x01, // ADDA #$01
		0x19, // DAA
	)
	stepCPU(t, c, 3)
	expectA(t, c, 0x00)
	expectFlag(t, "Carry", c.Reg.Carry, true)
	expectFlag(t, "Zero", c.Reg.Zero, true)
}

func TestBranches(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x86, 0x00, // LDAA #$00
		0x27, 0x02, // BEQ +2
		0x86, 0x55, // LDAA #$55  (skipped)
		0x26, 0x02, // BNE +2     (not taken)
		0xc6, 0x77, // LDAB #$77
	)
	stepCPU(t, c, 4)
	expectA(t, c, 0x00)
	expectB(t, c, 0x77)
	expectPC(t, c, 0x100a)
}

func TestSubroutines(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x8d, 0x02, // BSR +2
		0x01,       // NOP (return lands here)
		0x01,       // NOP
		0x39,       // RTS
	)
	stepCPU(t, c, 1)
	expectPC(t, c, 0x1004)
	expectSP(t, c, 0x00fd)
	expectMem(t, c, 0x00fe, 0x10)
	expectMem(t, c, 0x00ff, 0x02)

	stepCPU(t, c, 1)
	expectPC(t, c, 0x1002)
	expectSP(t, c, 0x00ff)
}

func TestIndexedAddressing(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0xce, 0x20, 0x00, // LDX #$2000
		0x86, 0x5e, // LDAA #$5E
		0xa7, 0x10, // STAA $10,X
	)
	stepCPU(t, c, 3)
	expectMem(t, c, 0x2010, 0x5e)
	expectX(t, c, 0x2000)
}

func TestStackContext(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x3f, // SWI
	)
	c.Mem.StoreWord(cpu.VecSWI, 0x2000)
	c.Mem.StoreByte(0x2000, 0x3b) // RTI
	c.Reg.A = 0x11
	c.Reg.B = 0x22
	c.Reg.SetX(0x3344)

	stepCPU(t, c, 1)
	expectPC(t, c, 0x2000)
	expectSP(t, c, 0x00f8)
	expectFlag(t, "IntMask", c.Reg.IntMask, true)

	// Stacked context, ascending: CC, B, A, XH, XL, PCH, PCL.
	expectMem(t, c, 0x00f9, 0xc0)
	expectMem(t, c, 0x00fa, 0x22)
	expectMem(t, c, 0x00fb, 0x11)
	expectMem(t, c, 0x00fc, 0x33)
	expectMem(t, c, 0x00fd, 0x44)
	expectMem(t, c, 0x00fe, 0x10)
	expectMem(t, c, 0x00ff, 0x01)

	c.Reg.A = 0x00
	c.Reg.B = 0x00
	c.Reg.SetX(0)

	stepCPU(t, c, 1) // RTI
	expectPC(t, c, 0x1001)
	expectSP(t, c, 0x00ff)
	expectA(t, c, 0x11)
	expectB(t, c, 0x22)
	expectX(t, c, 0x3344)
	expectFlag(t, "IntMask", c.Reg.IntMask, false)
}

func TestInterruptRequest(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x01, // NOP
	)
	c.Mem.StoreWord(cpu.VecIRQ, 0x3000)
	c.Mem.StoreByte(0x3000, 0x01) // NOP

	c.Raise(cpu.IntIRQ)
	stepCPU(t, c, 1)
	expectPC(t, c, 0x3000)
	expectSP(t, c, 0x00f8)
	expectCycles(t, c, 12)
	expectFlag(t, "IntMask", c.Reg.IntMask, true)

	// A masked IRQ is dropped and a normal instruction runs instead.
	c.Raise(cpu.IntIRQ)
	stepCPU(t, c, 1)
	expectPC(t, c, 0x3001)
	if got := c.PendingInterrupt(); got != cpu.IntNone {
		t.Errorf("pending interrupt incorrect. exp: none, got: %v", got)
	}
}

func TestInterruptLatch(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000, 0x01)
	c.Raise(cpu.IntIRQ)
	c.Raise(cpu.IntNMI)
	if got := c.PendingInterrupt(); got != cpu.IntIRQ {
		t.Errorf("pending interrupt incorrect. exp: IRQ, got: %v", got)
	}
}

func TestWaitForInterrupt(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x3e, // WAI
	)
	c.Mem.StoreWord(cpu.VecNMI, 0x4000)

	stepCPU(t, c, 1)
	if !c.Waiting() {
		t.Error("CPU should be parked after WAI")
	}
	expectSP(t, c, 0x00f8)
	expectCycles(t, c, 9)

	// Parked: stepping costs nothing and changes nothing.
	stepCPU(t, c, 1)
	expectCycles(t, c, 9)

	// Waking skips the context push since WAI already stacked it.
	c.Raise(cpu.IntNMI)
	stepCPU(t, c, 1)
	expectPC(t, c, 0x4000)
	expectSP(t, c, 0x00f8)
	expectCycles(t, c, 13)
	if c.Waiting() {
		t.Error("CPU should be awake after servicing the interrupt")
	}
}

func TestCycleTiming(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x01,       // NOP        (2 cycles)
		0x86, 0x05, // LDAA #$05  (2 cycles)
	)

	tickCPU(t, c, 1)
	expectPC(t, c, 0x1001)
	expectCycles(t, c, 1)
	expectA(t, c, 0x00)

	tickCPU(t, c, 2)
	expectPC(t, c, 0x1003)
	expectCycles(t, c, 3)
	expectA(t, c, 0x05)

	tickCPU(t, c, 1)
	expectCycles(t, c, 4)
	expectPC(t, c, 0x1003)
}

func TestCycleModeInterrupt(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x01, // NOP
	)
	c.Mem.StoreWord(cpu.VecIRQ, 0x3000)
	c.Raise(cpu.IntIRQ)

	// One more instruction executes before the entry sequence.
	tickCPU(t, c, 1)
	expectPC(t, c, 0x1001)

	// The entry latency burns down; the vector is chased on its last tick.
	tickCPU(t, c, 11)
	expectPC(t, c, 0x1001)
	tickCPU(t, c, 1)
	expectPC(t, c, 0x3000)
	expectSP(t, c, 0x00f8)
	expectCycles(t, c, 13)
}

func TestInvalidOpcode(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x00, // unassigned
	)
	err := c.Step()
	var opErr cpu.InvalidOpcodeError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected an invalid opcode error, got: %v", err)
	}
	if opErr.Addr != 0x1000 || opErr.Opcode != 0x00 {
		t.Errorf("error details incorrect. got: addr $%04X opcode $%02X", opErr.Addr, opErr.Opcode)
	}

	c = loadCPU(cpu.M6800, 0x1000, 0x00)
	c.IncrementOnInvalid = true
	stepCPU(t, c, 1)
	expectPC(t, c, 0x1001)
}

func TestCompareIndex(t *testing.T) {
	// The M6800 variant leaves the carry alone.
	c := loadCPU(cpu.M6800, 0x1000,
		0x8c, 0x00, 0x02, // CPX #$0002
	)
	c.Reg.SetX(0x0001)
	stepCPU(t, c, 1)
	expectFlag(t, "Negative", c.Reg.Negative, true)
	expectFlag(t, "Carry", c.Reg.Carry, false)

	// The M6803 variant computes it.
	c = loadCPU(cpu.M6803, 0x1000,
		0x8c, 0x00, 0x02, // CPX #$0002
	)
	c.Reg.SetX(0x0001)
	stepCPU(t, c, 1)
	expectFlag(t, "Negative", c.Reg.Negative, true)
	expectFlag(t, "Carry", c.Reg.Carry, true)
}

func TestDoubleAccumulator(t *testing.T) {
	c := loadCPU(cpu.M6803, 0x1000,
		0xcc, 0x12, 0x34, // LDD #$1234
		0xc3, 0xed, 0xcc, // ADDD #$EDCC
	)
	stepCPU(t, c, 1)
	expectA(t, c, 0x12)
	expectB(t, c, 0x34)
	expectFlag(t, "Zero", c.Reg.Zero, false)

	stepCPU(t, c, 1)
	expectA(t, c, 0x00)
	expectB(t, c, 0x00)
	expectFlag(t, "Zero", c.Reg.Zero, true)
	expectFlag(t, "Carry", c.Reg.Carry, true)

	c = loadCPU(cpu.M6803, 0x1000,
		0x05, // ASLD
	)
	c.Reg.SetD(0x8001)
	stepCPU(t, c, 1)
	if got := c.Reg.D(); got != 0x0002 {
		t.Errorf("D incorrect. exp: $0002, got: $%04X", got)
	}
	expectFlag(t, "Carry", c.Reg.Carry, true)

	c = loadCPU(cpu.M6803, 0x1000,
		0x04, // LSRD
	)
	c.Reg.SetD(0x0003)
	stepCPU(t, c, 1)
	if got := c.Reg.D(); got != 0x0001 {
		t.Errorf("D incorrect. exp: $0001, got: $%04X", got)
	}
	expectFlag(t, "Carry", c.Reg.Carry, true)
	expectFlag(t, "Negative", c.Reg.Negative, false)
}

func TestMultiply(t *testing.T) {
	c := loadCPU(cpu.M6803, 0x1000,
		0x3d, // MUL
	)
	c.Reg.A = 0xff
	c.Reg.B = 0xff
	stepCPU(t, c, 1)
	if got := c.Reg.D(); got != 0xfe01 {
		t.Errorf("D incorrect. exp: $FE01, got: $%04X", got)
	}
	expectFlag(t, "Carry", c.Reg.Carry, false)
	expectCycles(t, c, 10)

	c = loadCPU(cpu.M6803, 0x1000, 0x3d)
	c.Reg.A = 0x10
	c.Reg.B = 0x08
	stepCPU(t, c, 1)
	if got := c.Reg.D(); got != 0x0080 {
		t.Errorf("D incorrect. exp: $0080, got: $%04X", got)
	}
	expectFlag(t, "Carry", c.Reg.Carry, true)
}

func TestIndexStack6803(t *testing.T) {
	c := loadCPU(cpu.M6803, 0x1000,
		0x3c, // PSHX
		0x38, // PULX
		0x3a, // ABX
	)
	c.Reg.SetX(0x1234)

	stepCPU(t, c, 1)
	expectSP(t, c, 0x00fd)
	expectMem(t, c, 0x00fe, 0x12)
	expectMem(t, c, 0x00ff, 0x34)

	c.Reg.SetX(0)
	stepCPU(t, c, 1)
	expectX(t, c, 0x1234)
	expectSP(t, c, 0x00ff)

	c.Reg.B = 0x10
	stepCPU(t, c, 1)
	expectX(t, c, 0x1244)
}

func TestConditionCodeTransfers(t *testing.T) {
	c := loadCPU(cpu.M6800, 0x1000,
		0x07, // TPA
	)
	c.Reg.Carry = true
	c.Reg.Zero = true
	stepCPU(t, c, 1)
	expectA(t, c, 0xc0|0x04|0x01)

	c = loadCPU(cpu.M6800, 0x1000,
		0x06, // TAP
	)
	c.Reg.A = 0x3f
	stepCPU(t, c, 1)
	expectFlag(t, "Carry", c.Reg.Carry, true)
	expectFlag(t, "Overflow", c.Reg.Overflow, true)
	expectFlag(t, "Zero", c.Reg.Zero, true)
	expectFlag(t, "Negative", c.Reg.Negative, true)
	expectFlag(t, "IntMask", c.Reg.IntMask, true)
	expectFlag(t, "HalfCarry", c.Reg.HalfCarry, true)
}
