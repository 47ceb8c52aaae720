// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host provides the interactive monitor for the emulated M6800
// machine: a 64K memory image, a built-in assembler and disassembler, a
// paced execution driver, and a command-line debugger.
//
// Within the host it is possible to assemble and load machine code into
// memory, step through machine code, run it at a paced instruction rate,
// set breakpoints and bookmarks, raise interrupts, dump and modify memory,
// disassemble the contents of memory, manipulate CPU registers, and
// evaluate expressions.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/beevik/cmd"

	"github.com/VladimirJanus/go68xx/asm"
	"github.com/VladimirJanus/go68xx/cpu"
	"github.com/VladimirJanus/go68xx/disasm"
	"github.com/VladimirJanus/go68xx/processor"
)

// errExiting signals the command loop to stop processing commands.
var errExiting = errors.New("Exiting program")

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles

	displayAll = displayRegisters | displayCycles
)

// A Host connects an interactive terminal or a command script to the
// emulated machine: the processor driver, the assembler and the
// disassembler.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	proc        *processor.Processor
	sourceMap   *asm.SourceMap
	settings    *settings
	lastCmd     *cmd.Selection
	breakpoint  processor.Breakpoint
	bookmarks   map[uint16]bool
	stopped     chan processor.StopReason

	mu   sync.Mutex
	last *processor.Snapshot
}

// New creates a host environment around an emulated processor of the
// requested variant.
func New(arch cpu.Arch) *Host {
	h := &Host{
		settings:  newSettings(),
		bookmarks: make(map[uint16]bool),
		stopped:   make(chan processor.StopReason, 1),
	}
	h.proc = processor.New(arch, h)
	return h
}

// OnSnapshot stores the latest machine state published by a paced run.
func (h *Host) OnSnapshot(s *processor.Snapshot) {
	h.mu.Lock()
	h.last = s
	h.mu.Unlock()
}

// OnRunStopped wakes the command loop blocked in the run command.
func (h *Host) OnRunStopped(r processor.StopReason) {
	h.stopped <- r
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	h.displayPC()

	h.repl()
}

// repl reads and dispatches commands until the input runs out or a handler
// reports an exit condition.
func (h *Host) repl() error {
	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			return err
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(func(*Host, cmd.Selection) error)
		if err := handler(h, c); err != nil {
			return err
		}
	}
}

// Break interrupts a paced run, or redisplays the prompt when the
// processor is idle.
func (h *Host) Break() {
	h.println()

	if h.proc.Running() {
		h.proc.Stop()
	} else {
		h.prompt()
	}
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _ := h.disassemble(h.proc.CPU().Reg.PC, displayAll)
		h.println(d)
	}
}

func (h *Host) cmdAssembleFile(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".asm"
	}

	var options asm.Option
	if h.settings.Verbose {
		options |= asm.Verbose
	}
	if len(c.Args) > 1 {
		verbose, err := stringToBool(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		if verbose {
			options |= asm.Verbose
		}
	}

	err := asm.AssembleFile(filename, "", h.proc.CPU().Arch, options, h.output)
	h.flush()
	if err != nil {
		h.printf("Failed to assemble '%s': %v\n", filepath.Base(filename), err)
	}
	return nil
}

func (h *Host) cmdAssembleInteractive(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.println("Enter assembly language instructions.")
	h.println("Type END to assemble them into memory.")

	var src strings.Builder
	fmt.Fprintf(&src, "\t.ORG $%04X\n", addr)

	for {
		if h.interactive {
			h.print("] ")
			h.flush()
		}

		line, err := h.getLine()
		if err != nil {
			return err
		}
		if strings.ToUpper(strings.TrimSpace(line)) == "END" {
			break
		}
		src.WriteString(line)
		src.WriteByte('\n')
	}

	var options asm.Option
	if h.settings.Verbose {
		options |= asm.Verbose
	}

	mem := h.proc.CPU().Mem
	assembly, err := asm.Assemble(h.proc.CPU().Arch, strings.NewReader(src.String()), mem, h.output, options)
	h.flush()
	if err != nil {
		// Pass 1 may have emitted bytes before the failure.
		mem.Revert()
		h.printf("Assembly failed: %v\n", err)
		h.println("Memory restored to the last committed image.")
		return nil
	}

	for _, w := range assembly.Warnings {
		h.printf("warning: %s\n", w)
	}

	mem.Commit()
	h.sourceMap = assembly.SourceMap

	org := addr
	if assembly.Origin >= 0 {
		org = uint16(assembly.Origin)
	}
	h.proc.CPU().SetPC(org)
	h.settings.NextDisasmAddr = org

	h.printf("Assembled code at $%04X.\n", org)
	h.displayPC()
	return nil
}

func (h *Host) cmdBookmarkAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.bookmarks[addr] = true
	h.proc.AddAction(processor.Action{Type: processor.ActionSetBookmarks, Bookmarks: h.bookmarkAddrs()})
	h.printf("Bookmark added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBookmarkRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if !h.bookmarks[addr] {
		h.printf("No bookmark was set on $%04X.\n", addr)
		return nil
	}

	delete(h.bookmarks, addr)
	h.proc.AddAction(processor.Action{Type: processor.ActionSetBookmarks, Bookmarks: h.bookmarkAddrs()})
	h.printf("Bookmark at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdBookmarkList(c cmd.Selection) error {
	h.println("Addr")
	h.println("-----")
	for _, a := range h.bookmarkAddrs() {
		h.printf("$%04X\n", a)
	}
	return nil
}

func (h *Host) cmdBreakpointSet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayHelpText(c.Command)
		return nil
	}

	b := processor.Breakpoint{On: true}

	kind := strings.ToLower(c.Args[0])
	switch kind {
	case "line", "pc", "sp", "x", "a", "b":
		v, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		switch kind {
		case "line":
			b.Kind = processor.BreakLine
			if h.sourceMap == nil {
				h.println("Note: line breakpoints require a loaded source map.")
			}
		case "pc":
			b.Kind = processor.BreakPC
		case "sp":
			b.Kind = processor.BreakSP
		case "x":
			b.Kind = processor.BreakX
		case "a":
			b.Kind = processor.BreakA
			v &= 0xff
		case "b":
			b.Kind = processor.BreakB
			v &= 0xff
		}
		b.Value = v

	case "flag":
		mask, ok := flagBit(strings.ToLower(c.Args[1]))
		if !ok {
			h.printf("Unknown condition code '%s'.\n", c.Args[1])
			return nil
		}
		on := true
		if len(c.Args) > 2 {
			var err error
			on, err = stringToBool(c.Args[2])
			if err != nil {
				h.printf("%v\n", err)
				return nil
			}
		}
		b.Kind = processor.BreakFlag
		b.Value = uint16(mask)
		b.On = on

	case "memory":
		if len(c.Args) < 3 {
			h.displayHelpText(c.Command)
			return nil
		}
		addr, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		value, err := h.parseExpr(c.Args[2])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		b.Kind = processor.BreakMemory
		b.Addr = addr
		b.Value = value & 0xff

	default:
		h.printf("Unknown breakpoint kind '%s'.\n", kind)
		return nil
	}

	h.breakpoint = b
	h.proc.AddAction(processor.Action{Type: processor.ActionSetBreakpoint, Break: b})
	h.printf("Breakpoint set: %s.\n", h.describeBreakpoint())
	return nil
}

func (h *Host) cmdBreakpointClear(c cmd.Selection) error {
	h.breakpoint = processor.Breakpoint{}
	h.proc.AddAction(processor.Action{Type: processor.ActionSetBreakpoint})
	h.println("Breakpoint cleared.")
	return nil
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	if h.breakpoint.Kind == processor.BreakNone {
		h.println("No breakpoint set.")
		return nil
	}
	h.printf("Breakpoint: %s.\n", h.describeBreakpoint())
	return nil
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr
		if addr == 0 {
			addr = h.proc.CPU().Reg.PC
		}

	case ".":
		addr = h.proc.CPU().Reg.PC

	default:
		a, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(l)
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, 0)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdEvaluate(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	expr := strings.Join(c.Args, " ")
	v, err := h.parseExpr(expr)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("$%04X\n", v)
	return nil
}

func (h *Host) cmdExecute(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	file, err := os.Open(c.Args[0])
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(c.Args[0]), err)
		return nil
	}
	defer file.Close()

	input, interactive := h.input, h.interactive
	h.input = bufio.NewScanner(file)
	h.interactive = false

	err = h.repl()

	h.input, h.interactive = input, interactive

	if err == errExiting {
		return err
	}
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands("go68xx", rootBriefs)
		return nil
	}

	topic := strings.Join(c.Args, " ")
	if sub, ok := subBriefs[strings.ToLower(topic)]; ok {
		h.displayCommands(topic, sub)
		return nil
	}

	s, err := cmds.Lookup(topic)
	if err != nil || s.Command == nil {
		h.printf("Help topic '%s' not found.\n", topic)
		return nil
	}

	if s.Command.Usage != "" {
		h.printf("Syntax: %s\n\n", s.Command.Usage)
	}
	switch {
	case s.Command.Description != "":
		h.printf("Description:\n%s\n\n", indentWrap(3, s.Command.Description))
	case s.Command.Brief != "":
		h.printf("Description:\n%s.\n\n", indentWrap(3, s.Command.Brief))
	}
	return nil
}

func (h *Host) cmdInputKey(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	v, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.proc.AddAction(processor.Action{Type: processor.ActionKeyInput, Value: v})
	h.printf("Key input cell $%04X set to $%02X.\n", uint16(cpu.KeyInputAddr), byte(v))
	return nil
}

func (h *Host) cmdInputMouse(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	v, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.proc.AddAction(processor.Action{Type: processor.ActionMouseInput, Value: v})
	h.printf("Mouse input cell $%04X set to $%02X.\n", uint16(cpu.MouseInputAddr), byte(v))
	return nil
}

func (h *Host) cmdInstruction(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	set := h.proc.CPU().InstSet
	m, err := set.FindMnemonic(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("%s: %s.\n", m.Name, m.Help)
	h.printf("Condition codes (HINZVC): %s\n", m.Flags)
	h.println("Mode  Opcode  Bytes  Cycles")
	h.println("----  ------  -----  ------")
	for mode := cpu.INH; mode <= cpu.REL; mode++ {
		if !m.HasMode(mode) {
			continue
		}
		inst := set.Lookup(m.Opcodes[mode])
		undoc := ""
		if inst.Undoc {
			undoc = "  (undocumented)"
		}
		h.printf("%-4s  $%02X     %d      %d%s\n",
			mode, inst.Opcode, inst.Length, inst.Cycles, undoc)
	}
	return nil
}

func (h *Host) cmdInterruptIRQ(c cmd.Selection) error {
	h.proc.AddAction(processor.Action{Type: processor.ActionRaiseIRQ})
	h.println("IRQ requested.")
	return nil
}

func (h *Host) cmdInterruptNMI(c cmd.Selection) error {
	h.proc.AddAction(processor.Action{Type: processor.ActionRaiseNMI})
	h.println("NMI requested.")
	return nil
}

func (h *Host) cmdInterruptRST(c cmd.Selection) error {
	h.proc.AddAction(processor.Action{Type: processor.ActionRaiseRST})
	h.println("RST requested.")
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	file, err := os.Open(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	defer file.Close()

	mem := h.proc.CPU().Mem
	if _, err = mem.ReadFrom(file); err != nil {
		h.printf("Failed to read '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.printf("Loaded '%s'.\n", filepath.Base(filename))

	ext := filepath.Ext(filename)
	mapName := filename[:len(filename)-len(ext)] + ".map"
	if mapFile, err := os.Open(mapName); err == nil {
		sm := &asm.SourceMap{}
		if _, err = sm.ReadFrom(mapFile); err != nil {
			h.printf("Failed to read '%s': %v\n", filepath.Base(mapName), err)
		} else {
			h.sourceMap = sm
			h.printf("Loaded '%s' source map.\n", filepath.Base(mapName))
		}
		mapFile.Close()
	}

	if rst := mem.LoadWord(cpu.VecRST); rst != 0 {
		h.proc.CPU().SetPC(rst)
	}
	h.settings.NextDisasmAddr = h.proc.CPU().Reg.PC

	h.displayPC()
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr
		if addr == 0 {
			addr = h.proc.CPU().Reg.PC
		}

	case ".":
		addr = h.proc.CPU().Reg.PC

	default:
		a, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayHelpText(c.Command)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	for i, arg := range c.Args[1:] {
		v, err := h.parseExpr(arg)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.proc.AddAction(processor.Action{
			Type:  processor.ActionSetMemory,
			Addr:  addr + uint16(i),
			Value: v & 0xff,
		})
	}

	h.printf("Set %d byte(s) starting at $%04X.\n", len(c.Args)-1, addr)
	return nil
}

func (h *Host) cmdProcessor(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.printf("Processor variant: %s.\n", h.proc.CPU().Arch)
		return nil
	}

	arch, err := cpu.ParseArch(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.proc.SwitchArch(arch)
	h.printf("Processor variant set to %s.\n", arch)
	h.displayPC()
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errExiting
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	if len(c.Args) == 0 {
		d, _ := h.disassemble(h.proc.CPU().Reg.PC, displayAll)
		h.println(d)
		return nil
	}

	if len(c.Args) < 2 {
		h.displayHelpText(c.Command)
		return nil
	}

	key := strings.ToLower(c.Args[0])
	value := strings.Join(c.Args[1:], " ")
	reg := &h.proc.CPU().Reg

	if mask, ok := flagBit(key); ok {
		on, err := stringToBool(value)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		cc := reg.SaveCC()
		if on {
			cc |= mask
		} else {
			cc &^= mask
		}
		reg.RestoreCC(cc)
		h.printf("Flag %s set to %v.\n", strings.ToUpper(key), on)
		h.displayPC()
		return nil
	}

	v, err := h.parseExpr(value)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	switch key {
	case "a":
		reg.A = byte(v)
		h.printf("Register A set to $%02X.\n", reg.A)
	case "b":
		reg.B = byte(v)
		h.printf("Register B set to $%02X.\n", reg.B)
	case "d":
		reg.SetD(v)
		h.printf("Register D set to $%04X.\n", v)
	case "x":
		reg.SetX(v)
		h.printf("Register X set to $%04X.\n", v)
	case "sp":
		reg.SP = v
		h.printf("Register SP set to $%04X.\n", v)
	case ".", "pc":
		reg.PC = v
		h.settings.NextDisasmAddr = v
		h.printf("Register PC set to $%04X.\n", v)
	default:
		h.printf("Unknown register '%s'.\n", c.Args[0])
		return nil
	}

	h.displayPC()
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	h.proc.Reset()

	mem := h.proc.CPU().Mem
	if rst := mem.LoadWord(cpu.VecRST); rst != 0 {
		h.proc.CPU().SetPC(rst)
	}

	h.println("Processor reset.")
	h.settings.NextDisasmAddr = h.proc.CPU().Reg.PC
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	rate := h.settings.Rate
	if len(c.Args) > 0 {
		n, err := strconv.Atoi(c.Args[0])
		if err != nil || n <= 0 {
			h.printf("Invalid rate '%s'.\n", c.Args[0])
			return nil
		}
		rate = n
	}

	h.printf("Running at %d ops/sec from $%04X. Press ctrl-C to break.\n",
		rate, h.proc.CPU().Reg.PC)
	h.flush()

	if err := h.proc.Start(rate, h.sourceMap, h.bookmarkAddrs()); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	reason := <-h.stopped

	h.mu.Lock()
	last := h.last
	h.mu.Unlock()

	if last != nil {
		h.printf("Run stopped (%s): %d instructions, %d cycles.\n",
			reason, last.TotalOps, last.Cycles)
	} else {
		h.printf("Run stopped (%s).\n", reason)
	}
	h.displayPC()

	h.settings.NextDisasmAddr = h.proc.CPU().Reg.PC
	return nil
}

func (h *Host) cmdSave(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		h.printf("Failed to create '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	defer file.Close()

	if _, err = h.proc.CPU().Mem.WriteTo(file); err != nil {
		h.printf("Failed to write '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.printf("Saved '%s'.\n", filepath.Base(filename))

	if h.sourceMap == nil {
		return nil
	}

	ext := filepath.Ext(filename)
	mapName := filename[:len(filename)-len(ext)] + ".map"
	mapFile, err := os.OpenFile(mapName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		h.printf("Failed to create '%s': %v\n", filepath.Base(mapName), err)
		return nil
	}
	defer mapFile.Close()

	if _, err = h.sourceMap.WriteTo(mapFile); err != nil {
		h.printf("Failed to write '%s': %v\n", filepath.Base(mapName), err)
		return nil
	}

	h.printf("Saved '%s' source map.\n", filepath.Base(mapName))
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Settings:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayHelpText(c.Command)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.String:
			err = h.settings.Set(key, value)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		case reflect.Int:
			var n int
			n, err = strconv.Atoi(value)
			if err == nil {
				err = h.settings.Set(key, n)
			}
		default:
			var v uint16
			v, err = h.parseExpr(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStep(c cmd.Selection) error {
	count := 1
	if len(c.Args) > 0 {
		n, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		count = int(n)
	}

	for i := count - 1; i >= 0; i-- {
		if err := h.proc.Step(); err != nil {
			h.printf("%v\n", err)
			break
		}
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}

	h.settings.NextDisasmAddr = h.proc.CPU().Reg.PC
	return nil
}

// onSettingsUpdate pushes the driver-relevant settings into the processor's
// action queue.
func (h *Host) onSettingsUpdate() {
	h.proc.AddAction(processor.Action{Type: processor.ActionCycleMode, On: h.settings.CycleMode})
	h.proc.AddAction(processor.Action{Type: processor.ActionIncrementOnInvalid, On: h.settings.IncrementOnInvalid})
	h.proc.AddAction(processor.Action{Type: processor.ActionIndexRegister, Value: uint16(h.settings.IndexRegister)})
}

// parseExpr evaluates a monitor expression. Register names and the
// interrupt vector pointer names are available as labels, and "." stands
// for the program counter.
func (h *Host) parseExpr(expr string) (uint16, error) {
	expr = strings.ToUpper(strings.TrimSpace(expr))
	if expr == "." {
		return h.proc.CPU().Reg.PC, nil
	}
	return asm.Eval(expr, h.exprLabels())
}

func (h *Host) exprLabels() map[string]uint16 {
	reg := &h.proc.CPU().Reg
	return map[string]uint16{
		"A":       uint16(reg.A),
		"B":       uint16(reg.B),
		"D":       reg.D(),
		"X":       reg.X(),
		"SP":      reg.SP,
		"PC":      reg.PC,
		"IRQ_PTR": cpu.VecIRQ,
		"SWI_PTR": cpu.VecSWI,
		"NMI_PTR": cpu.VecNMI,
		"RST_PTR": cpu.VecRST,
	}
}

func (h *Host) bookmarkAddrs() []uint16 {
	addrs := make([]uint16, 0, len(h.bookmarks))
	for a := range h.bookmarks {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

func (h *Host) describeBreakpoint() string {
	b := h.breakpoint
	switch b.Kind {
	case processor.BreakLine:
		return fmt.Sprintf("source line %d", b.Value)
	case processor.BreakPC:
		return fmt.Sprintf("PC == $%04X", b.Value)
	case processor.BreakSP:
		return fmt.Sprintf("SP == $%04X", b.Value)
	case processor.BreakX:
		return fmt.Sprintf("X == $%04X", b.Value)
	case processor.BreakA:
		return fmt.Sprintf("A == $%02X", b.Value)
	case processor.BreakB:
		return fmt.Sprintf("B == $%02X", b.Value)
	case processor.BreakFlag:
		state := 0
		if b.On {
			state = 1
		}
		return fmt.Sprintf("flag %s == %d", flagName(byte(b.Value)), state)
	case processor.BreakMemory:
		return fmt.Sprintf("memory[$%04X] == $%02X", b.Addr, b.Value)
	}
	return "none"
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	c := h.proc.CPU()

	var line string
	line, next = disasm.DecodeOne(c.InstSet, c.Mem, addr)

	b := make([]byte, next-addr)
	c.Mem.LoadBytes(addr, b)

	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, codeString(b), line)

	if (flags & displayRegisters) != 0 {
		str += " " + registerString(&c.Reg)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%-12d", c.Cycles)
	}

	return str, next
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := addr0, 6, 32; a <= addr1; a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.proc.CPU().Mem.LoadByte(a)
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := uint16(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(a, buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= addr0 && a <= addr1 {
				m := h.proc.CPU().Mem.LoadByte(a)
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayHelpText(c *cmd.Command) {
	if c.Usage != "" {
		h.printf("Syntax: %s\n", c.Usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(title string, briefs []commandBrief) {
	h.printf("%s commands:\n", title)
	for _, b := range briefs {
		h.printf("    %-15s  %s\n", b.name, b.brief)
	}
}
