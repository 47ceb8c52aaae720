// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"io"
	"strings"
	"testing"

	"github.com/VladimirJanus/go68xx/cpu"
)

func assemble(t *testing.T, arch cpu.Arch, src string) (*cpu.Memory, *Assembly) {
	t.Helper()
	mem := cpu.NewMemory()
	assembly, err := Assemble(arch, strings.NewReader(src), mem, io.Discard, 0)
	if err != nil {
		t.Fatalf("assembly failed: %v", err)
	}
	return mem, assembly
}

func checkCode(t *testing.T, mem *cpu.Memory, addr uint16, want ...byte) {
	t.Helper()
	got := make([]byte, len(want))
	mem.LoadBytes(addr, got)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte at $%04X incorrect. exp: $%02X, got: $%02X",
				int(addr)+i, want[i], got[i])
		}
	}
}

func checkError(t *testing.T, arch cpu.Arch, src, want string) {
	t.Helper()
	mem := cpu.NewMemory()
	_, err := Assemble(arch, strings.NewReader(src), mem, io.Discard, 0)
	if err == nil {
		t.Fatalf("expected error containing %q, got none", want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Fatalf("error incorrect. exp: %q, got: %q", want, err.Error())
	}
}

func checkWarning(t *testing.T, assembly *Assembly, want string) {
	t.Helper()
	for _, w := range assembly.Warnings {
		if strings.Contains(w, want) {
			return
		}
	}
	t.Fatalf("warning containing %q missing. got: %v", want, assembly.Warnings)
}

func TestModeSelection(t *testing.T) {
	src := `
	.ORG $1000
	LDAA #$05
	LDAA $20
	LDAA $0100
	LDAA $20,X
	LDX #$1234
	NOP
`
	mem, assembly := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x1000,
		0x86, 0x05,
		0x96, 0x20,
		0xb6, 0x01, 0x00,
		0xa6, 0x20,
		0xce, 0x12, 0x34,
		0x01)
	if assembly.Origin != 0x1000 {
		t.Errorf("origin incorrect. exp: $1000, got: $%04X", assembly.Origin)
	}
}

func TestLowerCaseSource(t *testing.T) {
	src := `
	.org $1000
start	ldaa #$05
	bra start
`
	mem, _ := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x1000, 0x86, 0x05, 0x20, 0xfc)
}

func TestForwardReference(t *testing.T) {
	src := `
	.ORG $1000
	LDAA DATA
	LDAB #DATA
	LDAA DATA,X
	LDX #TABLE
	BRA DONE
DATA	.EQU $80
TABLE	.EQU $1200
DONE	NOP
`
	mem, assembly := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x1000,
		0xb6, 0x00, 0x80,
		0xc6, 0x80,
		0xa6, 0x80,
		0xce, 0x12, 0x00,
		0x20, 0x00,
		0x01)

	// The deferred extended operand must be patched in the map too.
	var found bool
	for _, l := range assembly.SourceMap.Lines {
		if l.Mnemonic == "LDAA" && l.Operand == "DATA" {
			found = true
			if len(l.Code) != 3 || l.Code[1] != 0x00 || l.Code[2] != 0x80 {
				t.Errorf("mapped code incorrect. exp: [B6 00 80], got: % X", l.Code)
			}
		}
	}
	if !found {
		t.Error("source map entry for forward reference missing")
	}
}

func TestBackwardBranch(t *testing.T) {
	src := `
	.ORG $1000
LOOP	DECA
	BNE LOOP
`
	mem, _ := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x1000, 0x4a, 0x26, 0xfd)
}

func TestBranchRange(t *testing.T) {
	src := `
	.ORG $1000
	BRA TARGET
	.RMB 125
TARGET	NOP
`
	mem, _ := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x1000, 0x20, 0x7d)
	checkCode(t, mem, 0x107f, 0x01)

	src = `
	.ORG $1000
	BRA TARGET
	.RMB 128
TARGET	NOP
`
	checkError(t, cpu.M6800, src, "out of range[-128,127]")
}

func TestBranchSelfJump(t *testing.T) {
	src := `
	.ORG $1000
LOOP	BRA LOOP
`
	checkError(t, cpu.M6800, src, "branch target inside its own instruction")
}

func TestIndexedErrors(t *testing.T) {
	checkError(t, cpu.M6800, "\tLDAA $100,X\n", "does not fit in a byte")
	checkError(t, cpu.M6800, "\tLDAA #$10,X\n", "cannot mix immediate and indexed addressing")
	checkError(t, cpu.M6800, "\tLDAA $10,Y\n", "indexed operand must end with ',X'")
	checkError(t, cpu.M6800, "\tTAB $10,X\n", "does not support indexed addressing")
}

func TestWordImmediate(t *testing.T) {
	src := `
	.ORG $1000
	LDD #$1234
	ADDD #$0001
	CPX #$FFFF
`
	mem, _ := assemble(t, cpu.M6803, src)
	checkCode(t, mem, 0x1000,
		0xcc, 0x12, 0x34,
		0xc3, 0x00, 0x01,
		0x8c, 0xff, 0xff)
}

func TestDataDirectives(t *testing.T) {
	src := `
	.ORG $2000
	.BYTE 1,$FF,'A'
	.WORD $1234,60000
	.STR "HI"
	.RMB 2
	.BYTE %1010
`
	mem, _ := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x2000,
		0x01, 0xff, 0x41,
		0x12, 0x34, 0xea, 0x60,
		0x48, 0x49,
		0x00, 0x00,
		0x0a)
}

func TestSetDirectives(t *testing.T) {
	src := `
START	.EQU $1000
	.SETW RST_PTR,START
	.SETB $FFF0,'A'
	.SETW $0200,$BEEF
`
	mem, assembly := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0xfffe, 0x10, 0x00)
	checkCode(t, mem, 0xfff0, 0x41)
	checkCode(t, mem, 0x0200, 0xbe, 0xef)

	if len(assembly.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", assembly.Warnings)
	}
	if assembly.Origin != -1 {
		t.Errorf("origin incorrect. exp: -1, got: $%04X", assembly.Origin)
	}
}

func TestEquate(t *testing.T) {
	src := `
VALUE	.EQU $80
OFFSET	.EQU VALUE+$10
	.ORG $1000
	LDAA #VALUE
	LDAB #OFFSET
	STAA VALUE
`
	mem, _ := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x1000, 0x86, 0x80, 0xc6, 0x90, 0x97, 0x80)
}

func TestMultipleOrigins(t *testing.T) {
	src := `
	.ORG $1000
	NOP
	.ORG $2000
	NOP
`
	mem, assembly := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x1000, 0x01)
	checkCode(t, mem, 0x2000, 0x01)
	if assembly.Origin != 0x1000 {
		t.Errorf("origin incorrect. exp: $1000, got: $%04X", assembly.Origin)
	}
}

func TestVectorPseudoLabels(t *testing.T) {
	src := `
	.ORG $1000
	LDX #RST_PTR
`
	mem, _ := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x1000, 0xce, 0xff, 0xfe)
}

func TestExpressions(t *testing.T) {
	labels := map[string]uint16{"LABEL": 0x100}

	cases := []struct {
		in   string
		want int
	}{
		{"$10+5", 21},
		{"LABEL-2", 0xfe},
		{"%1010", 10},
		{"'A'+1", 66},
		{"$FFFF", 0xffff},
		{"5 + 3 - 2", 6},
		{"LABEL+LABEL", 0x200},
	}
	for _, c := range cases {
		v, undef, err := evalExpr(newFstring(1, c.in), labels, true)
		if err != nil {
			t.Errorf("%q failed: %v", c.in, err)
			continue
		}
		if undef {
			t.Errorf("%q unexpectedly undefined", c.in)
			continue
		}
		if v != c.want {
			t.Errorf("%q incorrect. exp: %d, got: %d", c.in, c.want, v)
		}
	}
}

func TestExpressionErrors(t *testing.T) {
	labels := map[string]uint16{}

	cases := []struct {
		in   string
		want string
	}{
		{"", "empty expression"},
		{"MISSING", "undefined label 'MISSING'"},
		{"$FFFF+1", "out of range [0,$FFFF]"},
		{"5+", "expression ends with an operator"},
		{"5 5", "expected '+' or '-'"},
		{"5*2", "expected '+' or '-'"},
		{"@", "unexpected character"},
		{"$", "malformed hexadecimal number"},
		{"99999999999", "too large"},
		{"2147483647+2147483647", "expression overflow"},
		{"'A", "malformed character literal"},
	}
	for _, c := range cases {
		_, _, err := evalExpr(newFstring(1, c.in), labels, true)
		if err == nil {
			t.Errorf("%q: expected error containing %q, got none", c.in, c.want)
			continue
		}
		if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%q error incorrect. exp: %q, got: %q", c.in, c.want, err.Error())
		}
	}
}

func TestUndefinedLabelModes(t *testing.T) {
	labels := map[string]uint16{}

	_, _, err := evalExpr(newFstring(1, "MISSING"), labels, true)
	if err == nil {
		t.Error("strict evaluation of an undefined label must fail")
	}

	v, undef, err := evalExpr(newFstring(1, "MISSING+1"), labels, false)
	if err != nil {
		t.Errorf("lenient evaluation failed: %v", err)
	}
	if !undef {
		t.Error("lenient evaluation must report the result undefined")
	}
	if v != 0 {
		t.Errorf("undefined value incorrect. exp: 0, got: %d", v)
	}
}

func TestEval(t *testing.T) {
	v, err := Eval("$1000+8", nil)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if v != 0x1008 {
		t.Errorf("Eval incorrect. exp: $1008, got: $%04X", v)
	}
}

func TestAssemblyErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"LDAA #1\n", "reserved mnemonic"},
		{"1BAD\tNOP\n", "invalid label '1BAD'"},
		{"X\t.EQU 1\nX\t.EQU 2\n", "defined more than once"},
		{"\tFROB #1\n", "unknown mnemonic 'FROB'"},
		{"\tMUL\n", "not available on the M6800"},
		{"\tLDD #5\n", "not available on the M6800"},
		{"\tLDAA\n", "requires an operand"},
		{"\tNOP $10\n", "invalid addressing mode for mnemonic 'NOP'"},
		{"\tSTAA #$10\n", "does not support immediate addressing"},
		{"\tLDAA #$100\n", "does not fit in a byte"},
		{"\t.BYTE 256\n", "does not fit in a byte"},
		{"\t.STR HELLO\n", "malformed string"},
		{"\t.STR \"HI\n", "unterminated string"},
		{"\t.SETB $10\n", "expected 'address,value'"},
		{"\t.EQU 5\n", ".EQU requires a label"},
		{"\tLDAA MISSING\n", "undefined label 'MISSING'"},
	}
	for _, c := range cases {
		checkError(t, cpu.M6800, c.src, c.want)
	}
}

func TestUndocWarnings(t *testing.T) {
	mem, assembly := assemble(t, cpu.M6800, "\tJSR $20\n")
	checkCode(t, mem, 0x0000, 0x9d, 0x20)
	checkWarning(t, assembly, "$9D")

	mem, assembly = assemble(t, cpu.M6803, "\tSTD $20\n")
	checkCode(t, mem, 0x0000, 0xdd, 0x20)
	checkWarning(t, assembly, "$DD")
}

func TestReservedRegionWarning(t *testing.T) {
	src := `
	.ORG $FFF0
	NOP
`
	_, assembly := assemble(t, cpu.M6800, src)
	checkWarning(t, assembly, "reserved region")
}

func TestSourceMap(t *testing.T) {
	src := `	.ORG $1000
START	LDAA #$05
	BRA END
	NOP
END	NOP
`
	mem, assembly := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x1000, 0x86, 0x05, 0x20, 0x01, 0x01, 0x01)

	m := assembly.SourceMap
	if addr, ok := m.FindAddr(2); !ok || addr != 0x1000 {
		t.Errorf("FindAddr(2) incorrect. exp: $1000, got: $%04X ok=%v", addr, ok)
	}
	if line, ok := m.FindLine(0x1004); !ok || line != 4 {
		t.Errorf("FindLine($1004) incorrect. exp: 4, got: %d ok=%v", line, ok)
	}
	if _, ok := m.FindAddr(1); ok {
		t.Error("FindAddr(1) must fail for a line with no emitted bytes")
	}

	for _, l := range m.Lines {
		if l.Mnemonic == "BRA" {
			if len(l.Code) != 2 || l.Code[0] != 0x20 || l.Code[1] != 0x01 {
				t.Errorf("mapped branch code incorrect. exp: [20 01], got: % X", l.Code)
			}
			if l.Operand != "END" {
				t.Errorf("mapped operand incorrect. exp: END, got: %s", l.Operand)
			}
		}
	}
}

func TestCommentsAndBlanks(t *testing.T) {
	src := `
; full-line comment
	.ORG $1000	; set the origin
	LDAA #';'	; character operand containing the comment char
	NOP
`
	mem, _ := assemble(t, cpu.M6800, src)
	checkCode(t, mem, 0x1000, 0x86, 0x3b, 0x01)
}

func TestAssembleAndRun(t *testing.T) {
	src := "\tLDAA #$05\n\tADDA #$03\n\tSTAA $20\n"

	mem, assembly := assemble(t, cpu.M6800, src)
	if assembly.Origin != 0 {
		t.Fatalf("origin incorrect. exp: 0, got: $%04X", assembly.Origin)
	}

	c := cpu.NewCPU(cpu.M6800, mem)
	c.SetPC(uint16(assembly.Origin))
	for i := 0; i < 3; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	if c.Reg.A != 0x08 {
		t.Errorf("A incorrect. exp: $08, got: $%02X", c.Reg.A)
	}
	if v := mem.LoadByte(0x20); v != 0x08 {
		t.Errorf("memory at $20 incorrect. exp: $08, got: $%02X", v)
	}
	if c.Reg.Zero {
		t.Error("Zero flag incorrect. exp: false, got: true")
	}
}
