// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/VladimirJanus/go68xx/asm"
	"github.com/VladimirJanus/go68xx/cpu"
	"github.com/VladimirJanus/go68xx/disasm"
)

func assemble(t *testing.T, arch cpu.Arch, src string) *cpu.Memory {
	t.Helper()
	mem := cpu.NewMemory()
	_, err := asm.Assemble(arch, strings.NewReader(src), mem, io.Discard, 0)
	if err != nil {
		t.Fatalf("assembly failed: %v", err)
	}
	return mem
}

func wantLine(t *testing.T, source, want string) {
	t.Helper()
	for _, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) == want {
			return
		}
	}
	t.Errorf("line %q missing from disassembly:\n%s", want, source)
}

func TestRoundTrip(t *testing.T) {
	src := `
	.ORG $1000
START	LDAA #$05
	ADDA #$03
	STAA $20
LOOP	DECA
	BNE LOOP
	LDX #$1234
	LDAA $40,X
	JMP START
	.BYTE $EE,$EE
	.SETW RST_PTR,START
	.SETW NMI_PTR,$2000
`
	mem := assemble(t, cpu.M6800, src)

	d := disasm.Disassemble(cpu.M6800, 0x1000, 0xffff, mem)
	if len(d.Warnings) > 0 {
		t.Fatalf("unexpected warnings: %v", d.Warnings)
	}

	mem2 := assemble(t, cpu.M6800, d.Source)
	if !bytes.Equal(mem.Snapshot(), mem2.Snapshot()) {
		t.Fatalf("reassembled image differs from original:\n%s", d.Source)
	}
}

func TestRoundTripM6803(t *testing.T) {
	src := `
	.ORG $0200
	LDD #$BEEF
	ADDD #$0001
	STD $30
	ASLD
	BRA $0200
	.SETW RST_PTR,$0200
`
	mem := assemble(t, cpu.M6803, src)

	d := disasm.Disassemble(cpu.M6803, 0x0200, 0xffff, mem)
	mem2 := assemble(t, cpu.M6803, d.Source)
	if !bytes.Equal(mem.Snapshot(), mem2.Snapshot()) {
		t.Fatalf("reassembled image differs from original:\n%s", d.Source)
	}
}

func TestVectorLines(t *testing.T) {
	mem := cpu.NewMemory()
	mem.StoreWord(cpu.VecRST, 0x1000)
	mem.StoreWord(cpu.VecIRQ, 0x2FFE)
	mem.StoreByte(cpu.KeyInputAddr, 0x41)

	d := disasm.Disassemble(cpu.M6800, 0x1000, 0xffff, mem)
	wantLine(t, d.Source, ".SETW $FFFE,$1000")
	wantLine(t, d.Source, ".SETW $FFF8,$2FFE")
	wantLine(t, d.Source, ".SETW $FFF0,$4100")
	if strings.Contains(d.Source, "$FFFC") {
		t.Errorf("zero vector pair should not be emitted:\n%s", d.Source)
	}
}

func TestPrefixRegion(t *testing.T) {
	mem := cpu.NewMemory()
	mem.StoreByte(0x0002, 0xAB)
	mem.StoreByte(0x1000, 0x01) // NOP

	d := disasm.Disassemble(cpu.M6800, 0x1000, 0xffff, mem)
	wantLine(t, d.Source, ".RMB 2")
	wantLine(t, d.Source, ".BYTE $AB")
	wantLine(t, d.Source, ".RMB 4093")
	wantLine(t, d.Source, ".ORG $1000")
	wantLine(t, d.Source, "NOP")
}

func TestInvalidOpcode(t *testing.T) {
	mem := cpu.NewMemory()
	mem.StoreBytes(0x1000, []byte{0x01, 0x02, 0x01})

	d := disasm.Disassemble(cpu.M6800, 0x1000, 0xffff, mem)
	if len(d.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", d.Warnings)
	}
	if want := "invalid opcode $02 at $1001"; d.Warnings[0] != want {
		t.Errorf("warning incorrect. exp: %q, got: %q", want, d.Warnings[0])
	}
	if !strings.Contains(d.Source, ".BYTE $02") {
		t.Errorf("invalid opcode not absorbed as .BYTE:\n%s", d.Source)
	}

	mem2 := assemble(t, cpu.M6800, d.Source)
	if !bytes.Equal(mem.Snapshot(), mem2.Snapshot()) {
		t.Fatalf("reassembled image differs from original:\n%s", d.Source)
	}
}

func TestZeroRunInCode(t *testing.T) {
	mem := cpu.NewMemory()
	mem.StoreByte(0x1000, 0x01)
	mem.StoreByte(0x1004, 0x01)

	d := disasm.Disassemble(cpu.M6800, 0x1000, 0xffff, mem)
	if len(d.Warnings) != 0 {
		t.Fatalf("zero run should not warn, got %v", d.Warnings)
	}
	wantLine(t, d.Source, ".RMB 3")
}

func TestArchSensitivity(t *testing.T) {
	// ADDD is an M6803 instruction. On M6800 the opcode is invalid and
	// decodes as data.
	mem := cpu.NewMemory()
	mem.StoreBytes(0x1000, []byte{0xC3, 0x00, 0x01})

	d := disasm.Disassemble(cpu.M6803, 0x1000, 0xffff, mem)
	wantLine(t, d.Source, "ADDD #$0001")

	d = disasm.Disassemble(cpu.M6800, 0x1000, 0xffff, mem)
	if !strings.Contains(d.Source, ".BYTE $C3") {
		t.Errorf("M6800 should not decode ADDD:\n%s", d.Source)
	}
	if len(d.Warnings) == 0 {
		t.Errorf("expected invalid opcode warning on M6800")
	}
}

func TestRelativeAsAbsolute(t *testing.T) {
	mem := assemble(t, cpu.M6800, `
	.ORG $1000
LOOP	DECA
	BNE LOOP
	BRA $1010
`)
	d := disasm.Disassemble(cpu.M6800, 0x1000, 0xffff, mem)
	wantLine(t, d.Source, "BNE $1000")
	wantLine(t, d.Source, "BRA $1010")
}

func TestReservedRegionExcluded(t *testing.T) {
	mem := cpu.NewMemory()
	mem.StoreByte(0x1000, 0x01)
	mem.StoreWord(cpu.VecRST, 0x1000)

	d := disasm.Disassemble(cpu.M6800, 0x1000, 0xffff, mem)

	// The RST vector must appear as a .SETW line, not be decoded as
	// trailing code.
	count := strings.Count(d.Source, "$1000")
	if count != 2 { // .ORG $1000 and .SETW $FFFE,$1000
		t.Errorf("expected 2 occurrences of $1000, got %d:\n%s", count, d.Source)
	}
	// .SETW, .RMB prefix, .ORG, NOP
	lines := strings.Count(strings.TrimRight(d.Source, "\n"), "\n") + 1
	if lines != 4 {
		t.Errorf("expected 4 lines, got %d:\n%s", lines, d.Source)
	}
}

func TestSourceMap(t *testing.T) {
	mem := assemble(t, cpu.M6800, `
	.ORG $1000
	LDAA #$05
	STAA $20
`)
	d := disasm.Disassemble(cpu.M6800, 0x1000, 0xffff, mem)

	line, ok := d.SourceMap.FindLine(0x1002)
	if !ok {
		t.Fatalf("no source map entry for $1002")
	}
	e := d.SourceMap.Lines[line-1]
	if e.Mnemonic != "STAA" || e.Operand != "$20" {
		t.Errorf("map entry incorrect: %+v", e)
	}
	if !bytes.Equal(e.Code, []byte{0x97, 0x20}) {
		t.Errorf("map code incorrect: % X", e.Code)
	}

	if _, ok := d.SourceMap.FindAddr(line); !ok {
		t.Errorf("FindAddr failed for line %d", line)
	}
}

func TestDecodeOne(t *testing.T) {
	mem := assemble(t, cpu.M6800, `
	.ORG $1000
	LDAA #$05
	BRA $1000
	TAB
`)
	set := cpu.GetInstructionSet(cpu.M6800)

	line, next := disasm.DecodeOne(set, mem, 0x1000)
	if line != "LDAA #$05" || next != 0x1002 {
		t.Errorf("got %q next=$%04X", line, next)
	}

	line, next = disasm.DecodeOne(set, mem, 0x1002)
	if line != "BRA $1000" || next != 0x1004 {
		t.Errorf("got %q next=$%04X", line, next)
	}

	line, next = disasm.DecodeOne(set, mem, 0x1004)
	if line != "TAB" || next != 0x1005 {
		t.Errorf("got %q next=$%04X", line, next)
	}

	line, next = disasm.DecodeOne(set, mem, 0x2000)
	if line != ".BYTE $00" || next != 0x2001 {
		t.Errorf("got %q next=$%04X", line, next)
	}
}
