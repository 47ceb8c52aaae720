// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm reconstructs assembly source from the memory image of
// an M6800 or M6803 system. The output reassembles to a byte-identical
// image as long as the image came from the assembler in the first
// place.
package disasm

import (
	"fmt"
	"strings"

	"github.com/VladimirJanus/go68xx/asm"
	"github.com/VladimirJanus/go68xx/cpu"
)

// Disassembler formatting for addressing modes. Indexed by cpu.Mode.
// REL operands are converted to absolute targets before formatting, so
// they share the EXT format.
var modeFormat = []string{
	"",       // INH
	"#$%s",   // IMM
	"$%s",    // DIR
	"$%s,X",  // IDX
	"$%s",    // EXT
	"$%s",    // REL
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice.
func hexString(b []byte) string {
	hexbuf := make([]byte, len(b)*2)
	j := 0
	for _, n := range b {
		hexbuf[j] = hex[n>>4]
		hexbuf[j+1] = hex[n&0xf]
		j += 2
	}
	return string(hexbuf)
}

// A Disassembly holds the reconstructed source for a memory image,
// along with a source map tying each line back to the address and
// bytes it came from.
type Disassembly struct {
	Source    string
	Warnings  []string
	SourceMap *asm.SourceMap
}

type disassembler struct {
	set      *cpu.InstructionSet
	mem      *cpu.Memory
	out      strings.Builder
	row      int
	srcMap   *asm.SourceMap
	warnings []string
}

// Disassemble reconstructs source for the memory image 'mem' on the
// requested architecture. The reserved region at the top of memory is
// rendered as .SETW lines, memory below 'start' as .RMB gaps and
// .BYTE fills, and [start, end] as instructions. Trailing zero bytes
// and the reserved region never join the instruction walk.
func Disassemble(arch cpu.Arch, start, end uint16, mem *cpu.Memory) *Disassembly {
	d := &disassembler{
		set:    cpu.GetInstructionSet(arch),
		mem:    mem,
		row:    1,
		srcMap: &asm.SourceMap{},
	}

	d.emitVectors()
	d.emitPrefix(start)
	d.emitLine(-1, nil, ".ORG", fmt.Sprintf("$%04X", start), "")
	d.walk(start, end)

	return &Disassembly{
		Source:    d.out.String(),
		Warnings:  d.warnings,
		SourceMap: d.srcMap,
	}
}

// emitVectors emits a .SETW line for each non-zero word pair in the
// reserved region, so reassembly restores interrupt vectors and input
// cells before any code.
func (d *disassembler) emitVectors() {
	for addr := int(cpu.ReservedAddr); addr < cpu.MemSize; addr += 2 {
		v := d.mem.LoadWord(uint16(addr))
		if v != 0 {
			code := []byte{byte(v >> 8), byte(v)}
			operand := fmt.Sprintf("$%04X,$%04X", addr, v)
			d.emitLine(addr, code, ".SETW", operand, "")
		}
	}
}

// emitPrefix renders memory below the start address. Zero runs
// compress to .RMB, anything else becomes an individual .BYTE.
func (d *disassembler) emitPrefix(start uint16) {
	for addr := 0; addr < int(start); {
		b := d.mem.LoadByte(uint16(addr))
		if b == 0 {
			n := 1
			for addr+n < int(start) && d.mem.LoadByte(uint16(addr+n)) == 0 {
				n++
			}
			d.emitLine(-1, nil, ".RMB", fmt.Sprintf("%d", n), "")
			addr += n
			continue
		}
		d.emitLine(addr, []byte{b}, ".BYTE", fmt.Sprintf("$%02X", b), "")
		addr++
	}
}

// walk decodes instructions from the start address to the last
// non-zero byte at or before the end bound.
func (d *disassembler) walk(start, end uint16) {
	stop := d.lastCodeAddr(start, end)

	for addr := int(start); addr <= stop; {
		opcode := d.mem.LoadByte(uint16(addr))
		inst := d.set.Lookup(opcode)

		if inst.Mode == cpu.INVALID {
			addr = d.absorbInvalid(addr, stop, opcode)
			continue
		}

		operand := make([]byte, inst.Length-1)
		d.mem.LoadBytes(uint16(addr+1), operand)

		code := make([]byte, 0, inst.Length)
		code = append(code, opcode)
		code = append(code, operand...)
		d.emitLine(addr, code, inst.Name, formatOperand(inst, operand, uint16(addr)), "")
		addr += int(inst.Length)
	}
}

// lastCodeAddr returns the address of the last non-zero byte in
// [start, min(end, ReservedAddr-1)], or start-1 when the range holds
// only zeros.
func (d *disassembler) lastCodeAddr(start, end uint16) int {
	limit := int(end)
	if limit >= int(cpu.ReservedAddr) {
		limit = int(cpu.ReservedAddr) - 1
	}
	for addr := limit; addr >= int(start); addr-- {
		if d.mem.LoadByte(uint16(addr)) != 0 {
			return addr
		}
	}
	return int(start) - 1
}

// absorbInvalid emits filler for a byte that decodes to no
// instruction. Zero runs compress silently to .RMB; anything else
// becomes an annotated .BYTE and a warning. Returns the address where
// decoding resumes.
func (d *disassembler) absorbInvalid(addr, stop int, opcode byte) int {
	if opcode == 0 {
		n := 1
		for addr+n <= stop && d.mem.LoadByte(uint16(addr+n)) == 0 {
			n++
		}
		d.emitLine(-1, nil, ".RMB", fmt.Sprintf("%d", n), "")
		return addr + n
	}

	d.warnings = append(d.warnings,
		fmt.Sprintf("invalid opcode $%02X at $%04X", opcode, addr))
	d.emitLine(addr, []byte{opcode}, ".BYTE", fmt.Sprintf("$%02X", opcode),
		fmt.Sprintf("invalid opcode at $%04X", addr))
	return addr + 1
}

// emitLine appends one line of reconstructed source and its source map
// entry.
func (d *disassembler) emitLine(addr int, code []byte, mnemonic, operand, comment string) {
	d.out.WriteByte('\t')
	d.out.WriteString(mnemonic)
	if operand != "" {
		d.out.WriteByte(' ')
		d.out.WriteString(operand)
	}
	if comment != "" {
		d.out.WriteString("\t; ")
		d.out.WriteString(comment)
	}
	d.out.WriteByte('\n')

	d.srcMap.Lines = append(d.srcMap.Lines, asm.MappedLine{
		Addr:     addr,
		Line:     d.row,
		Code:     code,
		Mnemonic: mnemonic,
		Operand:  operand,
	})
	d.row++
}

// formatOperand renders an instruction operand the way the assembler
// reads it back. Relative offsets appear as absolute targets.
func formatOperand(inst *cpu.Instruction, operand []byte, addr uint16) string {
	if inst.Mode == cpu.INH {
		return ""
	}
	if inst.Mode == cpu.REL {
		target := addr + uint16(inst.Length) + uint16(int16(int8(operand[0])))
		operand = []byte{byte(target >> 8), byte(target)}
	}
	return fmt.Sprintf(modeFormat[inst.Mode], hexString(operand))
}

// DecodeOne disassembles the single instruction in memory 'mem' at
// address 'addr'. Return a 'line' string representing the disassembled
// instruction and a 'next' address that starts the following line of
// machine code. Bytes that decode to no instruction render as .BYTE.
func DecodeOne(set *cpu.InstructionSet, mem *cpu.Memory, addr uint16) (line string, next uint16) {
	opcode := mem.LoadByte(addr)
	inst := set.Lookup(opcode)
	if inst.Mode == cpu.INVALID {
		return fmt.Sprintf(".BYTE $%02X", opcode), addr + 1
	}

	operand := make([]byte, inst.Length-1)
	mem.LoadBytes(addr+1, operand)

	line = inst.Name
	if op := formatOperand(inst, operand, addr); op != "" {
		line += " " + op
	}
	next = addr + uint16(inst.Length)
	return
}
