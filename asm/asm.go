// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a two-pass assembler for the Motorola M6800 and
// M6803 microprocessors. Pass 1 dissects each source line into label,
// mnemonic and operand, selects an addressing mode from the operand's
// shape, and emits machine code directly into a 64KB memory image.
// Operands that reference still-undefined labels are parked in fix-up
// maps; pass 2 drains the maps against the completed label table and
// patches the encoded bytes.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/VladimirJanus/go68xx/cpu"
)

// An Error describes a fatal assembly problem and where it was found.
// Assembly stops at the first Error; the memory image must be discarded
// once one has been reported.
type Error struct {
	Line   int    // 1-based source line, 0 if unknown
	Column int    // 1-based column, 0 if unknown
	Msg    string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Column, e.Msg)
	}
	return e.Msg
}

func errorAt(l fstring, format string, args ...any) *Error {
	return &Error{Line: l.row, Column: l.column + 1, Msg: fmt.Sprintf(format, args...)}
}

// Option type used by the Assemble function.
type Option uint

// Options for the Assemble function.
const (
	Verbose Option = 1 << iota // verbose output during assembly
)

// An Assembly holds the results of a successful assembly run. The machine
// code itself lives in the memory image passed to Assemble.
type Assembly struct {
	Origin    int        // address of the first emitted byte, or -1
	Warnings  []string   // non-fatal diagnostics
	SourceMap *SourceMap // line-to-address mappings
}

// A fixup is an instruction operand whose expression could not be resolved
// during pass 1. The fix-up maps key each fixup by the address of the
// bytes awaiting the resolved value.
type fixup struct {
	expr  fstring // unresolved operand expression
	entry int     // index of the source map entry owning the patch site
}

// The assembler is a state object used during the assembly of machine
// code from assembly code.
type assembler struct {
	arch      cpu.Arch            // requested processor variant
	instSet   *cpu.InstructionSet // instructions on that variant
	mem       *cpu.Memory         // memory image receiving the code
	pc        int                 // the running emission address
	origin    int                 // address of first emitted byte, -1 until known
	labels    map[string]uint16   // label -> value
	fixups8   map[int]fixup       // deferred 8-bit immediate/indexed operands
	fixups16  map[int]fixup       // deferred 16-bit extended operands
	fixupsRel map[int]fixup       // deferred relative branch operands
	srcMap    *SourceMap          // line mappings built during emission
	warnings  []string            // non-fatal diagnostics
	out       io.Writer           // output used for verbose logging
	verbose   bool                // verbose output
}

// Directive handlers, looked up by the uppercased directive name.
var directives = map[string]func(a *assembler, line, label fstring) error{
	".BYTE": (*assembler).parseBytes,
	".WORD": (*assembler).parseWords,
	".STR":  (*assembler).parseString,
	".EQU":  (*assembler).parseEquate,
	".ORG":  (*assembler).parseOrigin,
	".RMB":  (*assembler).parseReserve,
	".SETB": (*assembler).parseSetByte,
	".SETW": (*assembler).parseSetWord,
}

// Assemble translates M6800/M6803 assembly source into machine code,
// storing the emitted bytes directly into mem. Emission starts at address
// 0 unless the source moves it with .ORG.
func Assemble(arch cpu.Arch, r io.Reader, mem *cpu.Memory, out io.Writer, options Option) (*Assembly, error) {
	if out == nil {
		out = os.Stdout
	}

	a := &assembler{
		arch:    arch,
		instSet: cpu.GetInstructionSet(arch),
		mem:     mem,
		origin:  -1,
		labels: map[string]uint16{
			"IRQ_PTR": cpu.VecIRQ,
			"SWI_PTR": cpu.VecSWI,
			"NMI_PTR": cpu.VecNMI,
			"RST_PTR": cpu.VecRST,
		},
		fixups8:   make(map[int]fixup),
		fixups16:  make(map[int]fixup),
		fixupsRel: make(map[int]fixup),
		srcMap:    &SourceMap{},
		out:       out,
		verbose:   (options & Verbose) != 0,
	}

	if err := a.parse(bufio.NewScanner(r)); err != nil {
		return nil, err
	}
	if err := a.resolveFixups(); err != nil {
		return nil, err
	}

	return &Assembly{
		Origin:    a.origin,
		Warnings:  a.warnings,
		SourceMap: a.srcMap,
	}, nil
}

// AssembleFile assembles the source file at path into a 64KB memory image
// written to outPath. An empty outPath derives the image name from the
// source name.
func AssembleFile(path, outPath string, arch cpu.Arch, options Option, out io.Writer) error {
	if out == nil {
		out = os.Stdout
	}

	inFile, err := os.Open(path)
	if err != nil {
		return err
	}
	defer inFile.Close()

	mem := cpu.NewMemory()
	assembly, err := Assemble(arch, inFile, mem, out, options)
	if err != nil {
		return err
	}

	for _, w := range assembly.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	if outPath == "" {
		ext := filepath.Ext(path)
		outPath = path[:len(path)-len(ext)] + ".bin"
	}

	binFile, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer binFile.Close()

	if _, err = mem.WriteTo(binFile); err != nil {
		return err
	}

	mapPath := outPath[:len(outPath)-len(filepath.Ext(outPath))] + ".map"
	mapFile, err := os.OpenFile(mapPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer mapFile.Close()

	if _, err = assembly.SourceMap.WriteTo(mapFile); err != nil {
		return err
	}

	fmt.Fprintf(out, "Assembled '%s' to produce '%s' and '%s'.\n",
		filepath.Base(path), filepath.Base(outPath), filepath.Base(mapPath))
	return nil
}

// Pass 1. Read the source a line at a time, building the label table and
// the fix-up maps while emitting machine code.
func (a *assembler) parse(scanner *bufio.Scanner) error {
	a.logSection("Parsing assembly code")

	row := 1
	for scanner.Scan() {
		line := newFstring(row, scanner.Text())
		if err := a.parseLine(line.stripTrailingComment()); err != nil {
			return err
		}
		row++
	}
	return scanner.Err()
}

// Parse a single line of assembly code.
func (a *assembler) parseLine(line fstring) error {
	if line.isEmpty() {
		return nil
	}

	a.log("---")

	var label fstring
	if !line.startsWith(whitespace) {
		var err error
		label, line, err = a.parseLabel(line)
		if err != nil {
			return err
		}
	}

	line = line.consumeWhitespace()
	if line.isEmpty() {
		// Label-only line. Bind the label to the current address.
		if !label.isEmpty() {
			return a.storeLabel(label, uint16(a.pc))
		}
		return nil
	}

	mnemonic, remain := line.consumeWhile(mnemonicChar)
	if mnemonic.isEmpty() {
		return errorAt(line, "expected a mnemonic, found '%c'", line.str[0])
	}
	if !remain.isEmpty() && !remain.startsWith(whitespace) {
		bad, _ := line.consumeUntil(whitespace)
		return errorAt(line, "malformed mnemonic '%s'", bad.str)
	}

	name := strings.ToUpper(mnemonic.str)
	operand := remain.consumeWhitespace().upperUnquoted()
	a.logLine(mnemonic, "op=%s operand=%s", name, operand.str)

	// A label on any line except an equate binds to the address at which
	// the line starts emitting.
	if name != ".EQU" && !label.isEmpty() {
		if err := a.storeLabel(label, uint16(a.pc)); err != nil {
			return err
		}
	}

	if fn, ok := directives[name]; ok {
		return fn(a, operand, label)
	}
	return a.parseInstruction(mnemonic, name, operand)
}

// Parse a label at the beginning of a line. Labels start with a letter
// and continue with letters, digits and underscores.
func (a *assembler) parseLabel(line fstring) (label, remain fstring, err error) {
	if !line.startsWith(labelStartChar) {
		bad, _ := line.consumeUntil(whitespace)
		return fstring{}, line, errorAt(line, "invalid label '%s'", bad.str)
	}

	label, remain = line.consumeWhile(labelChar)
	if !remain.isEmpty() && !remain.startsWith(whitespace) {
		bad, _ := line.consumeUntil(whitespace)
		return fstring{}, line, errorAt(line, "invalid label '%s'", bad.str)
	}

	label.str = strings.ToUpper(label.str)
	if cpu.IsMnemonic(label.str) {
		return fstring{}, line, errorAt(label, "label '%s' is a reserved mnemonic", label.str)
	}
	return label, remain, nil
}

// Store a label in the label table. Redefinition is an error, including
// redefinition of the interrupt-pointer pseudo-labels.
func (a *assembler) storeLabel(label fstring, value uint16) error {
	if _, found := a.labels[label.str]; found {
		return errorAt(label, "label '%s' defined more than once", label.str)
	}
	a.labels[label.str] = value
	a.logLine(label, "label=%s val=$%04X", label.str, value)
	return nil
}

// Parse an instruction mnemonic and its operand, select an addressing
// mode from the operand's shape, and emit the instruction's bytes.
func (a *assembler) parseInstruction(pos fstring, name string, operand fstring) error {
	m, err := a.instSet.FindMnemonic(name)
	if err != nil {
		return errorAt(pos, "%s", err)
	}

	offExpr, idx := operand.consumeUntilUnquotedChar(',')
	switch {
	case operand.isEmpty():
		if !m.HasMode(cpu.INH) {
			return errorAt(pos, "mnemonic '%s' requires an operand", name)
		}
		a.emitCode(pos, name, "", []byte{m.Opcodes[cpu.INH]})
		return nil

	case !idx.isEmpty():
		return a.parseIndexed(pos, name, m, operand, offExpr, idx)

	case m.HasMode(cpu.REL):
		return a.parseRelative(pos, name, m, operand)

	case operand.startsWithChar('#'):
		return a.parseImmediate(pos, name, m, operand)

	default:
		return a.parseDirectOrExtended(pos, name, m, operand)
	}
}

// Indexed operands have the form "offset,X" with an offset that must fit
// in a byte.
func (a *assembler) parseIndexed(pos fstring, name string, m *cpu.Mnemonic, operand, off, idx fstring) error {
	if !m.HasMode(cpu.IDX) {
		return errorAt(pos, "mnemonic '%s' does not support indexed addressing", name)
	}
	reg := idx.consume(1).consumeWhitespace()
	if reg.str != "X" {
		return errorAt(idx, "indexed operand must end with ',X'")
	}
	if strings.ContainsRune(off.str, '#') {
		return errorAt(off, "cannot mix immediate and indexed addressing")
	}

	opcode := m.Opcodes[cpu.IDX]
	site := a.pc + 1

	v, undef, err := evalExpr(off, a.labels, false)
	if err != nil {
		return err
	}
	if undef {
		entry := a.emitCode(pos, name, operand.str, []byte{opcode, 0})
		a.fixups8[site] = fixup{expr: off, entry: entry}
		return nil
	}
	if v > 0xff {
		return errorAt(off, "indexed offset $%X does not fit in a byte", v)
	}
	a.emitCode(pos, name, operand.str, []byte{opcode, byte(v)})
	return nil
}

// Relative operands encode a signed distance from the end of the branch
// instruction. Targets that cannot be resolved yet are deferred to the
// relative fix-up map.
func (a *assembler) parseRelative(pos fstring, name string, m *cpu.Mnemonic, operand fstring) error {
	opcode := m.Opcodes[cpu.REL]
	site := a.pc + 1

	v, undef, err := evalExpr(operand, a.labels, false)
	if err != nil {
		return err
	}
	if undef {
		entry := a.emitCode(pos, name, operand.str, []byte{opcode, 0})
		a.fixupsRel[site] = fixup{expr: operand, entry: entry}
		return nil
	}

	off, err := relOffset(v, site, operand)
	if err != nil {
		return err
	}
	a.emitCode(pos, name, operand.str, []byte{opcode, off})
	return nil
}

// relOffset computes the relative branch encoding for a jump from the
// operand byte at site to target. The encodings $FE and $FF would jump
// into the branch instruction itself and are rejected.
func relOffset(target, site int, pos fstring) (byte, error) {
	diff := target - site - 1
	switch {
	case diff < -128 || diff > 127:
		return 0, errorAt(pos, "out of range[-128,127]")
	case diff == -1 || diff == -2:
		return 0, errorAt(pos, "branch target inside its own instruction")
	case diff >= 0:
		return byte(diff), nil
	default:
		return byte(256 + diff), nil
	}
}

// Immediate operands begin with '#'. Word-sized mnemonics take a 16-bit
// immediate, all others a single byte.
func (a *assembler) parseImmediate(pos fstring, name string, m *cpu.Mnemonic, operand fstring) error {
	if !m.HasMode(cpu.IMM) {
		return errorAt(pos, "mnemonic '%s' does not support immediate addressing", name)
	}
	opcode := m.Opcodes[cpu.IMM]
	length := int(a.instSet.Lookup(opcode).Length)
	expr := operand.consume(1).consumeWhitespace()
	site := a.pc + 1

	v, undef, err := evalExpr(expr, a.labels, false)
	if err != nil {
		return err
	}

	switch {
	case undef && length == 3:
		entry := a.emitCode(pos, name, operand.str, []byte{opcode, 0, 0})
		a.fixups16[site] = fixup{expr: expr, entry: entry}
	case undef:
		entry := a.emitCode(pos, name, operand.str, []byte{opcode, 0})
		a.fixups8[site] = fixup{expr: expr, entry: entry}
	case length == 3:
		a.emitCode(pos, name, operand.str, []byte{opcode, byte(v >> 8), byte(v)})
	case v > 0xff:
		return errorAt(expr, "immediate value $%X does not fit in a byte", v)
	default:
		a.emitCode(pos, name, operand.str, []byte{opcode, byte(v)})
	}
	return nil
}

// Direct-or-extended operands are bare addresses. Values that fit in a
// byte prefer the shorter direct encoding when the mnemonic supports it.
// A forward reference must assume the extended encoding, since pass 1
// cannot yet know whether the label's value will fit in a byte.
func (a *assembler) parseDirectOrExtended(pos fstring, name string, m *cpu.Mnemonic, operand fstring) error {
	v, undef, err := evalExpr(operand, a.labels, false)
	if err != nil {
		return err
	}

	switch {
	case undef:
		if !m.HasMode(cpu.EXT) {
			return errorAt(pos, "mnemonic '%s' does not support extended addressing", name)
		}
		site := a.pc + 1
		entry := a.emitCode(pos, name, operand.str, []byte{m.Opcodes[cpu.EXT], 0, 0})
		a.fixups16[site] = fixup{expr: operand, entry: entry}

	case v <= 0xff && m.HasMode(cpu.DIR):
		opcode := m.Opcodes[cpu.DIR]
		a.checkUndoc(pos, opcode)
		a.emitCode(pos, name, operand.str, []byte{opcode, byte(v)})

	case m.HasMode(cpu.EXT):
		a.emitCode(pos, name, operand.str, []byte{m.Opcodes[cpu.EXT], byte(v >> 8), byte(v)})

	default:
		return errorAt(pos, "invalid addressing mode for mnemonic '%s'", name)
	}
	return nil
}

// Parse a .BYTE directive: a comma-separated list of byte expressions.
func (a *assembler) parseBytes(line, label fstring) error {
	b, err := a.parseDataList(line, 1)
	if err != nil {
		return err
	}
	a.emitCode(line, ".BYTE", line.str, b)
	return nil
}

// Parse a .WORD directive: a comma-separated list of word expressions,
// each emitted high byte first.
func (a *assembler) parseWords(line, label fstring) error {
	b, err := a.parseDataList(line, 2)
	if err != nil {
		return err
	}
	a.emitCode(line, ".WORD", line.str, b)
	return nil
}

// parseDataList evaluates a comma-separated expression list into bytes of
// the requested unit size. List elements must resolve immediately.
func (a *assembler) parseDataList(line fstring, unit int) ([]byte, error) {
	var b []byte
	for remain := line; ; {
		expr, rest := remain.consumeUntilUnquotedChar(',')
		v, _, err := evalExpr(expr, a.labels, true)
		if err != nil {
			return nil, err
		}
		if unit == 1 {
			if v > 0xff {
				return nil, errorAt(expr, "byte value $%X does not fit in a byte", v)
			}
			b = append(b, byte(v))
		} else {
			b = append(b, byte(v>>8), byte(v))
		}
		if rest.isEmpty() {
			break
		}
		remain = rest.consume(1).consumeWhitespace()
	}
	return b, nil
}

// Parse a .STR directive: one quoted string emitted as raw bytes.
func (a *assembler) parseString(line, label fstring) error {
	if !line.startsWith(stringQuote) {
		return errorAt(line, "malformed string")
	}
	q := line.str[0]
	open := line.consume(1)
	body, rest := open.consumeUntilChar(q)
	if rest.isEmpty() {
		return errorAt(line, "unterminated string")
	}
	if rest = rest.consume(1); !rest.isEmpty() {
		return errorAt(rest, "unexpected text after string")
	}
	a.emitCode(line, ".STR", line.str, []byte(body.str))
	return nil
}

// Parse an .EQU directive, binding the line's label to a value.
func (a *assembler) parseEquate(line, label fstring) error {
	if label.isEmpty() {
		return errorAt(line, ".EQU requires a label")
	}
	v, _, err := evalExpr(line, a.labels, true)
	if err != nil {
		return err
	}
	if err := a.storeLabel(label, uint16(v)); err != nil {
		return err
	}
	a.emitCode(line, ".EQU", line.str, nil)
	return nil
}

// Parse an .ORG directive, moving the emission address.
func (a *assembler) parseOrigin(line, label fstring) error {
	v, _, err := evalExpr(line, a.labels, true)
	if err != nil {
		return err
	}
	a.pc = v
	a.logLine(line, "org=$%04X", v)
	a.emitCode(line, ".ORG", line.str, nil)
	return nil
}

// Parse an .RMB directive, reserving bytes without emitting them.
func (a *assembler) parseReserve(line, label fstring) error {
	v, _, err := evalExpr(line, a.labels, true)
	if err != nil {
		return err
	}
	a.pc = (a.pc + v) & 0xffff
	a.logLine(line, "rmb=%d", v)
	a.emitCode(line, ".RMB", line.str, nil)
	return nil
}

// Parse a .SETB directive: an "address,value" pair stored without moving
// the emission address.
func (a *assembler) parseSetByte(line, label fstring) error {
	addr, v, err := a.parseAddrValue(line)
	if err != nil {
		return err
	}
	if v > 0xff {
		return errorAt(line, "byte value $%X does not fit in a byte", v)
	}
	a.emitAt(line, ".SETB", line.str, addr, []byte{byte(v)})
	return nil
}

// Parse a .SETW directive: an "address,value" pair stored high byte first
// without moving the emission address.
func (a *assembler) parseSetWord(line, label fstring) error {
	addr, v, err := a.parseAddrValue(line)
	if err != nil {
		return err
	}
	a.emitAt(line, ".SETW", line.str, addr, []byte{byte(v >> 8), byte(v)})
	return nil
}

// parseAddrValue splits and evaluates an "address,value" operand pair.
// Both expressions must resolve immediately.
func (a *assembler) parseAddrValue(line fstring) (addr, value int, err error) {
	addrExpr, rest := line.consumeUntilChar(',')
	if rest.isEmpty() {
		return 0, 0, errorAt(line, "expected 'address,value'")
	}
	valExpr := rest.consume(1).consumeWhitespace()

	addr, _, err = evalExpr(addrExpr, a.labels, true)
	if err != nil {
		return
	}
	value, _, err = evalExpr(valExpr, a.labels, true)
	return
}

// emitCode stores b at the current emission address, advances it, and
// records a source map entry for the line. It returns the entry's index
// so deferred operands can be patched in pass 2.
func (a *assembler) emitCode(pos fstring, mnemonic, operand string, b []byte) int {
	addr := -1
	if len(b) > 0 {
		addr = a.pc
		a.mem.StoreBytes(uint16(a.pc), b)
		if a.origin < 0 {
			a.origin = a.pc
		}
		a.checkReserved(pos, a.pc, len(b))
		a.logBytes(a.pc, b)
		a.pc = (a.pc + len(b)) & 0xffff
	}

	a.srcMap.Lines = append(a.srcMap.Lines, MappedLine{
		Addr:     addr,
		Line:     pos.row,
		Code:     b,
		Mnemonic: mnemonic,
		Operand:  operand,
	})
	return len(a.srcMap.Lines) - 1
}

// emitAt stores b at a fixed address without moving the emission address.
func (a *assembler) emitAt(pos fstring, mnemonic, operand string, addr int, b []byte) {
	a.mem.StoreBytes(uint16(addr), b)
	a.logBytes(addr, b)

	a.srcMap.Lines = append(a.srcMap.Lines, MappedLine{
		Addr:     addr,
		Line:     pos.row,
		Code:     b,
		Mnemonic: mnemonic,
		Operand:  operand,
	})
}

// The top 16 bytes of memory hold the interrupt vectors and the
// memory-mapped input cells. Sequential emission into that region is
// almost always an .ORG mistake, so it earns a warning.
func (a *assembler) checkReserved(pos fstring, addr, n int) {
	if addr+n > cpu.ReservedAddr {
		a.warnf(pos, "code emitted in reserved region $%04X-$FFFF", cpu.ReservedAddr)
	}
}

// JSR direct ($9D) and STD direct ($DD) assemble and execute but are
// undocumented on real silicon, so choosing one earns a warning.
func (a *assembler) checkUndoc(pos fstring, opcode byte) {
	if a.instSet.Lookup(opcode).Undoc {
		a.warnf(pos, "opcode $%02X is undocumented on %s hardware", opcode, a.arch)
	}
}

// Pass 2. Drain the fix-up maps in address order, resolving each deferred
// expression against the completed label table and patching the encoded
// bytes into memory and the source map. Unresolved labels are fatal here.
func (a *assembler) resolveFixups() error {
	a.logSection("Resolving fix-ups")

	if err := a.drainFixups(a.fixups8, a.patch8); err != nil {
		return err
	}
	if err := a.drainFixups(a.fixups16, a.patch16); err != nil {
		return err
	}
	return a.drainFixups(a.fixupsRel, a.patchRel)
}

func (a *assembler) drainFixups(m map[int]fixup, patch func(site int, f fixup, v int) error) error {
	sites := make([]int, 0, len(m))
	for site := range m {
		sites = append(sites, site)
	}
	sort.Ints(sites)

	for _, site := range sites {
		f := m[site]
		v, _, err := evalExpr(f.expr, a.labels, true)
		if err != nil {
			return err
		}
		if err := patch(site, f, v); err != nil {
			return err
		}
	}
	return nil
}

func (a *assembler) patch8(site int, f fixup, v int) error {
	if v > 0xff {
		return errorAt(f.expr, "value $%X does not fit in a byte", v)
	}
	a.patchByte(site, f.entry, byte(v))
	return nil
}

func (a *assembler) patch16(site int, f fixup, v int) error {
	a.patchByte(site, f.entry, byte(v>>8))
	a.patchByte(site+1, f.entry, byte(v))
	return nil
}

func (a *assembler) patchRel(site int, f fixup, v int) error {
	off, err := relOffset(v, site, f.expr)
	if err != nil {
		return err
	}
	a.patchByte(site, f.entry, off)
	return nil
}

// patchByte rewrites one byte of a previously emitted instruction in both
// memory and the source map.
func (a *assembler) patchByte(site, entry int, v byte) {
	a.mem.StoreByte(uint16(site), v)
	e := &a.srcMap.Lines[entry]
	e.Code[site-e.Addr] = v
	a.log("%04X <- %02X (%s)", site, v, e.Mnemonic)
}

// Record a non-fatal diagnostic.
func (a *assembler) warnf(pos fstring, format string, args ...any) {
	msg := fmt.Sprintf("line %d: %s", pos.row, fmt.Sprintf(format, args...))
	a.warnings = append(a.warnings, msg)
	a.log("warning: %s", msg)
}

// In verbose mode, log a string to the output writer.
func (a *assembler) log(format string, args ...any) {
	if a.verbose {
		fmt.Fprintf(a.out, format, args...)
		fmt.Fprintf(a.out, "\n")
	}
}

// In verbose mode, log a string and its associated line of assembly code.
func (a *assembler) logLine(line fstring, format string, args ...any) {
	if a.verbose {
		detail := fmt.Sprintf(format, args...)
		fmt.Fprintf(a.out, "%-3d %-3d | %s\n", line.row, line.column+1, detail)
	}
}

// In verbose mode, log a series of bytes with their starting address.
func (a *assembler) logBytes(addr int, b []byte) {
	if a.verbose {
		for i, n := 0, len(b); i < n; i += 3 {
			j := i + 3
			if j > n {
				j = n
			}
			a.log("%04X-   %s", addr+i, byteString(b[i:j]))
		}
	}
}

// In verbose mode, log a section header.
func (a *assembler) logSection(name string) {
	if a.verbose {
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
		fmt.Fprintf(a.out, "-- %s --\n", name)
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
	}
}
