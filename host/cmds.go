// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

var cmds *cmd.Tree

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "go68xx"})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "help",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Host).cmdHelp,
	})

	// Assembler commands
	as := root.AddSubtree(cmd.TreeDescriptor{Name: "assemble", Brief: "Assembler commands"})
	as.AddCommand(cmd.CommandDescriptor{
		Name:  "file",
		Brief: "Assemble a file from disk and save the binary to disk",
		Description: "Run the cross-assembler on the specified file," +
			" producing a binary file and source map file if successful." +
			" If you want verbose output, specify true as a second parameter.",
		Usage: "assemble file <filename> [<verbose>]",
		Data:  (*Host).cmdAssembleFile,
	})
	as.AddCommand(cmd.CommandDescriptor{
		Name:  "interactive",
		Brief: "Start interactive assembly mode",
		Description: "Start interactive assembler mode. A new prompt will" +
			" appear, allowing you to enter assembly language instructions" +
			" interactively. Once you type END, the instructions will be" +
			" assembled and stored in memory at the specified address.",
		Usage: "assemble interactive <address>",
		Data:  (*Host).cmdAssembleInteractive,
	})

	// Bookmark commands
	bm := root.AddSubtree(cmd.TreeDescriptor{Name: "bookmark", Brief: "Bookmark commands"})
	bm.AddCommand(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a bookmark",
		Description: "Add a bookmark at the specified address. A paced run" +
			" stops whenever the program counter reaches a bookmarked" +
			" address.",
		Usage: "bookmark add <address>",
		Data:  (*Host).cmdBookmarkAdd,
	})
	bm.AddCommand(cmd.CommandDescriptor{
		Name:        "remove",
		Brief:       "Remove a bookmark",
		Description: "Remove a bookmark at the specified address.",
		Usage:       "bookmark remove <address>",
		Data:        (*Host).cmdBookmarkRemove,
	})
	bm.AddCommand(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List bookmarks",
		Description: "List all current bookmarks.",
		Usage:       "bookmark list",
		Data:        (*Host).cmdBookmarkList,
	})

	// Breakpoint commands
	bp := root.AddSubtree(cmd.TreeDescriptor{Name: "breakpoint", Brief: "Breakpoint commands"})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set the breakpoint",
		Description: "Set the breakpoint condition checked after every" +
			" instruction of a paced run. Kinds: 'pc', 'sp', 'x', 'a' or" +
			" 'b' break when the register matches the value; 'line' breaks" +
			" when the program counter reaches the source line (requires a" +
			" loaded source map); 'flag' breaks when the named condition" +
			" code (H, I, N, Z, V or C) reaches the given state, 1 if" +
			" omitted; 'memory' breaks when the cell at the address holds" +
			" the value. Only one breakpoint is active at a time.",
		Usage: "breakpoint set <kind> <value> [<value>]",
		Data:  (*Host).cmdBreakpointSet,
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "clear",
		Brief:       "Clear the breakpoint",
		Description: "Clear the current breakpoint condition.",
		Usage:       "breakpoint clear",
		Data:        (*Host).cmdBreakpointClear,
	})
	bp.AddCommand(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "Show the breakpoint",
		Description: "Show the current breakpoint condition.",
		Usage:       "breakpoint list",
		Data:        (*Host).cmdBreakpointList,
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:  "disassemble",
		Brief: "Disassemble code",
		Description: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly continues from where the last disassembly left off.",
		Usage: "disassemble [<address>] [<lines>]",
		Data:  (*Host).cmdDisassemble,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "evaluate",
		Brief:       "Evaluate an expression",
		Description: "Evaluate a mathematical expression.",
		Usage:       "evaluate <expression>",
		Data:        (*Host).cmdEvaluate,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "execute",
		Brief: "Execute a go68xx script file",
		Description: "Load a go68xx script file from disk and execute the" +
			" commands it contains.",
		Usage: "execute <filename>",
		Data:  (*Host).cmdExecute,
	})

	// Input cell commands
	in := root.AddSubtree(cmd.TreeDescriptor{Name: "input", Brief: "Input cell commands"})
	in.AddCommand(cmd.CommandDescriptor{
		Name:  "key",
		Brief: "Store a byte in the key input cell",
		Description: "Store a byte value in the memory-mapped key input" +
			" cell, where a running program can poll for it.",
		Usage: "input key <value>",
		Data:  (*Host).cmdInputKey,
	})
	in.AddCommand(cmd.CommandDescriptor{
		Name:  "mouse",
		Brief: "Store a byte in the mouse input cell",
		Description: "Store a byte value in the memory-mapped mouse input" +
			" cell, where a running program can poll for it.",
		Usage: "input mouse <value>",
		Data:  (*Host).cmdInputMouse,
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:  "instruction",
		Brief: "Describe an instruction mnemonic",
		Description: "Display the addressing modes, opcodes, instruction" +
			" lengths, cycle counts and condition code effects of the named" +
			" instruction on the active processor variant.",
		Usage: "instruction <mnemonic>",
		Data:  (*Host).cmdInstruction,
	})

	// Interrupt commands
	ir := root.AddSubtree(cmd.TreeDescriptor{Name: "interrupt", Brief: "Interrupt commands"})
	ir.AddCommand(cmd.CommandDescriptor{
		Name:  "irq",
		Brief: "Raise a maskable interrupt",
		Description: "Request a maskable interrupt. The processor services" +
			" it before its next instruction unless the interrupt mask is" +
			" set, in which case the request is dropped.",
		Usage: "interrupt irq",
		Data:  (*Host).cmdInterruptIRQ,
	})
	ir.AddCommand(cmd.CommandDescriptor{
		Name:  "nmi",
		Brief: "Raise a non-maskable interrupt",
		Description: "Request a non-maskable interrupt. The processor" +
			" services it before its next instruction regardless of the" +
			" interrupt mask.",
		Usage: "interrupt nmi",
		Data:  (*Host).cmdInterruptNMI,
	})
	ir.AddCommand(cmd.CommandDescriptor{
		Name:  "rst",
		Brief: "Raise a reset interrupt",
		Description: "Request a reset interrupt. The processor reloads the" +
			" program counter from the reset vector before its next" +
			" instruction.",
		Usage: "interrupt rst",
		Data:  (*Host).cmdInterruptRST,
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:  "load",
		Brief: "Load a binary image",
		Description: "Load a full 64KB memory image from a binary file and" +
			" commit it as the reset image. If the file has an associated" +
			" source map, it is loaded too, and the program counter is set" +
			" from the image's reset vector.",
		Usage: "load <filename>",
		Data:  (*Host).cmdLoad,
	})

	// Memory commands
	me := root.AddSubtree(cmd.TreeDescriptor{Name: "memory", Brief: "Memory commands"})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off.",
		Usage: "memory dump [<address>] [<bytes>]",
		Data:  (*Host).cmdMemoryDump,
	})
	me.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set memory at address",
		Description: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values. You may use an expression for each" +
			" byte value.",
		Usage: "memory set <address> <byte> [<byte> ...]",
		Data:  (*Host).cmdMemorySet,
	})

	root.AddCommand(cmd.CommandDescriptor{
		Name:  "processor",
		Brief: "Show or switch the processor variant",
		Description: "When used without arguments, this command displays the" +
			" active processor variant. When used with a variant name, it" +
			" switches the emulated processor, preserving memory contents.",
		Usage: "processor [m6800|m6803]",
		Data:  (*Host).cmdProcessor,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        (*Host).cmdQuit,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "register",
		Brief: "View or change register values",
		Description: "When used without arguments, this command displays the" +
			" current contents of the CPU registers. When used with" +
			" arguments, this command changes the value of a register or one" +
			" of the condition codes. Allowed register names include A, B, D," +
			" X, SP and PC. Allowed condition code names include C (Carry)," +
			" V (Overflow), Z (Zero), N (Negative), I (IntMask) and" +
			" H (HalfCarry).",
		Usage: "register [<name> <value>]",
		Data:  (*Host).cmdRegister,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "reset",
		Brief: "Reset the processor",
		Description: "Return the processor to its power-on state: registers" +
			" cleared, memory restored to the last committed image, and the" +
			" program counter loaded from the reset vector.",
		Usage: "reset",
		Data:  (*Host).cmdReset,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "run",
		Brief: "Run the processor",
		Description: "Run the processor at a paced rate until the breakpoint" +
			" condition is satisfied, a bookmark is reached, or the user" +
			" types Ctrl-C. The rate in operations per second may be given" +
			" as an option; otherwise the Rate setting applies.",
		Usage: "run [<rate>]",
		Data:  (*Host).cmdRun,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "save",
		Brief: "Save a binary image",
		Description: "Save the full 64KB memory image to a binary file." +
			" If a source map is active, it is saved alongside the image.",
		Usage: "save <filename>",
		Data:  (*Host).cmdSave,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  (*Host).cmdSet,
	})
	root.AddCommand(cmd.CommandDescriptor{
		Name:  "step",
		Brief: "Step the processor",
		Description: "Step the processor by a single instruction. The number" +
			" of steps may be specified as an option.",
		Usage: "step [<count>]",
		Data:  (*Host).cmdStep,
	})

	// Add command shortcuts.
	root.AddShortcut("a", "assemble file")
	root.AddShortcut("ai", "assemble interactive")
	root.AddShortcut("b", "breakpoint")
	root.AddShortcut("bp", "breakpoint")
	root.AddShortcut("bs", "breakpoint set")
	root.AddShortcut("bc", "breakpoint clear")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("bm", "bookmark")
	root.AddShortcut("bma", "bookmark add")
	root.AddShortcut("bmr", "bookmark remove")
	root.AddShortcut("bml", "bookmark list")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("e", "evaluate")
	root.AddShortcut("irq", "interrupt irq")
	root.AddShortcut("nmi", "interrupt nmi")
	root.AddShortcut("rst", "interrupt rst")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("r", "register")
	root.AddShortcut("s", "step")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "register")

	cmds = root
}

// The cmd tree resolves prefixes but does not enumerate its contents, so
// the help listings are maintained here alongside the tree.
type commandBrief struct {
	name  string
	brief string
}

var rootBriefs = []commandBrief{
	{"assemble", "Assembler commands"},
	{"bookmark", "Bookmark commands"},
	{"breakpoint", "Breakpoint commands"},
	{"disassemble", "Disassemble code"},
	{"evaluate", "Evaluate an expression"},
	{"execute", "Execute a go68xx script file"},
	{"help", "Display help for a command"},
	{"input", "Input cell commands"},
	{"instruction", "Describe an instruction mnemonic"},
	{"interrupt", "Interrupt commands"},
	{"load", "Load a binary image"},
	{"memory", "Memory commands"},
	{"processor", "Show or switch the processor variant"},
	{"quit", "Quit the program"},
	{"register", "View or change register values"},
	{"reset", "Reset the processor"},
	{"run", "Run the processor"},
	{"save", "Save a binary image"},
	{"set", "Set a configuration variable"},
	{"step", "Step the processor"},
}

var subBriefs = map[string][]commandBrief{
	"assemble": {
		{"file", "Assemble a file from disk and save the binary to disk"},
		{"interactive", "Start interactive assembly mode"},
	},
	"bookmark": {
		{"add", "Add a bookmark"},
		{"remove", "Remove a bookmark"},
		{"list", "List bookmarks"},
	},
	"breakpoint": {
		{"set", "Set the breakpoint"},
		{"clear", "Clear the breakpoint"},
		{"list", "Show the breakpoint"},
	},
	"input": {
		{"key", "Store a byte in the key input cell"},
		{"mouse", "Store a byte in the mouse input cell"},
	},
	"interrupt": {
		{"irq", "Raise a maskable interrupt"},
		{"nmi", "Raise a non-maskable interrupt"},
		{"rst", "Raise a reset interrupt"},
	},
	"memory": {
		{"dump", "Dump memory at address"},
		{"set", "Set memory at address"},
	},
}
