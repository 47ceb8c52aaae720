// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"
	"sort"
	"strings"
)

// Arch selects the emulated processor variant.
type Arch int

// Supported processor variants.
const (
	M6800 Arch = iota // the original NMOS M6800
	M6803             // the M6801/M6803 core with the extended instruction set
)

func (a Arch) String() string {
	switch a {
	case M6800:
		return "M6800"
	case M6803:
		return "M6803"
	}
	return "unknown"
}

// ParseArch converts a processor variant name into an Arch value.
func ParseArch(s string) (Arch, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M6800", "6800":
		return M6800, nil
	case "M6803", "6803", "M6801", "6801":
		return M6803, nil
	}
	return M6800, fmt.Errorf("unknown processor variant '%s'", s)
}

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symABA opsym = iota
	symABX
	symADCA
	symADCB
	symADDA
	symADDB
	symADDD
	symANDA
	symANDB
	symASL
	symASLA
	symASLB
	symASLD
	symASR
	symASRA
	symASRB
	symBCC
	symBCS
	symBEQ
	symBGE
	symBGT
	symBHI
	symBITA
	symBITB
	symBLE
	symBLS
	symBLT
	symBMI
	symBNE
	symBPL
	symBRA
	symBRN
	symBSR
	symBVC
	symBVS
	symCBA
	symCLC
	symCLI
	symCLR
	symCLRA
	symCLRB
	symCLV
	symCMPA
	symCMPB
	symCOM
	symCOMA
	symCOMB
	symCPX
	symDAA
	symDEC
	symDECA
	symDECB
	symDES
	symDEX
	symEORA
	symEORB
	symINC
	symINCA
	symINCB
	symINS
	symINX
	symJMP
	symJSR
	symLDAA
	symLDAB
	symLDD
	symLDS
	symLDX
	symLSR
	symLSRA
	symLSRB
	symLSRD
	symMUL
	symNEG
	symNEGA
	symNEGB
	symNOP
	symORAA
	symORAB
	symPSHA
	symPSHB
	symPSHX
	symPULA
	symPULB
	symPULX
	symROL
	symROLA
	symROLB
	symROR
	symRORA
	symRORB
	symRTI
	symRTS
	symSBA
	symSBCA
	symSBCB
	symSEC
	symSEI
	symSEV
	symSTAA
	symSTAB
	symSTD
	symSTS
	symSTX
	symSUBA
	symSUBB
	symSUBD
	symSWI
	symTAB
	symTAP
	symTBA
	symTPA
	symTST
	symTSTA
	symTSTB
	symTSX
	symTXS
	symWAI
)

type instfunc func(c *CPU, inst *Instruction, operand []byte)

// Emulator implementation for each mnemonic. The flags string covers the
// columns H I N Z V C: '-' untouched, '+' computed from the result, '0'
// cleared, '1' set.
type opcodeImpl struct {
	sym   opsym
	name  string
	fn    [2]instfunc // M6800=0, M6803=1
	flags string
	help  string
}

var impl = []opcodeImpl{
	{symABA, "ABA", [2]instfunc{(*CPU).aba, (*CPU).aba}, "+-++++", "Add accumulator B to accumulator A"},
	{symABX, "ABX", [2]instfunc{nil, (*CPU).abx}, "------", "Add accumulator B to the index register"},
	{symADCA, "ADCA", [2]instfunc{(*CPU).adca, (*CPU).adca}, "+-++++", "Add memory and carry to accumulator A"},
	{symADCB, "ADCB", [2]instfunc{(*CPU).adcb, (*CPU).adcb}, "+-++++", "Add memory and carry to accumulator B"},
	{symADDA, "ADDA", [2]instfunc{(*CPU).adda, (*CPU).adda}, "+-++++", "Add memory to accumulator A"},
	{symADDB, "ADDB", [2]instfunc{(*CPU).addb, (*CPU).addb}, "+-++++", "Add memory to accumulator B"},
	{symADDD, "ADDD", [2]instfunc{nil, (*CPU).addd}, "--++++", "Add 16-bit memory to the double accumulator D"},
	{symANDA, "ANDA", [2]instfunc{(*CPU).anda, (*CPU).anda}, "--++0-", "AND memory with accumulator A"},
	{symANDB, "ANDB", [2]instfunc{(*CPU).andb, (*CPU).andb}, "--++0-", "AND memory with accumulator B"},
	{symASL, "ASL", [2]instfunc{(*CPU).asl, (*CPU).asl}, "--++++", "Arithmetic shift left memory"},
	{symASLA, "ASLA", [2]instfunc{(*CPU).asla, (*CPU).asla}, "--++++", "Arithmetic shift left accumulator A"},
	{symASLB, "ASLB", [2]instfunc{(*CPU).aslb, (*CPU).aslb}, "--++++", "Arithmetic shift left accumulator B"},
	{symASLD, "ASLD", [2]instfunc{nil, (*CPU).asld}, "--++++", "Arithmetic shift left the double accumulator D"},
	{symASR, "ASR", [2]instfunc{(*CPU).asr, (*CPU).asr}, "--++++", "Arithmetic shift right memory"},
	{symASRA, "ASRA", [2]instfunc{(*CPU).asra, (*CPU).asra}, "--++++", "Arithmetic shift right accumulator A"},
	{symASRB, "ASRB", [2]instfunc{(*CPU).asrb, (*CPU).asrb}, "--++++", "Arithmetic shift right accumulator B"},
	{symBCC, "BCC", [2]instfunc{(*CPU).bcc, (*CPU).bcc}, "------", "Branch if carry clear"},
	{symBCS, "BCS", [2]instfunc{(*CPU).bcs, (*CPU).bcs}, "------", "Branch if carry set"},
	{symBEQ, "BEQ", [2]instfunc{(*CPU).beq, (*CPU).beq}, "------", "Branch if equal to zero"},
	{symBGE, "BGE", [2]instfunc{(*CPU).bge, (*CPU).bge}, "------", "Branch if greater than or equal (signed)"},
	{symBGT, "BGT", [2]instfunc{(*CPU).bgt, (*CPU).bgt}, "------", "Branch if greater than (signed)"},
	{symBHI, "BHI", [2]instfunc{(*CPU).bhi, (*CPU).bhi}, "------", "Branch if higher (unsigned)"},
	{symBITA, "BITA", [2]instfunc{(*CPU).bita, (*CPU).bita}, "--++0-", "Bit test memory against accumulator A"},
	{symBITB, "BITB", [2]instfunc{(*CPU).bitb, (*CPU).bitb}, "--++0-", "Bit test memory against accumulator B"},
	{symBLE, "BLE", [2]instfunc{(*CPU).ble, (*CPU).ble}, "------", "Branch if less than or equal (signed)"},
	{symBLS, "BLS", [2]instfunc{(*CPU).bls, (*CPU).bls}, "------", "Branch if lower or same (unsigned)"},
	{symBLT, "BLT", [2]instfunc{(*CPU).blt, (*CPU).blt}, "------", "Branch if less than (signed)"},
	{symBMI, "BMI", [2]instfunc{(*CPU).bmi, (*CPU).bmi}, "------", "Branch if minus"},
	{symBNE, "BNE", [2]instfunc{(*CPU).bne, (*CPU).bne}, "------", "Branch if not equal to zero"},
	{symBPL, "BPL", [2]instfunc{(*CPU).bpl, (*CPU).bpl}, "------", "Branch if plus"},
	{symBRA, "BRA", [2]instfunc{(*CPU).bra, (*CPU).bra}, "------", "Branch always"},
	{symBRN, "BRN", [2]instfunc{nil, (*CPU).brn}, "------", "Branch never"},
	{symBSR, "BSR", [2]instfunc{(*CPU).bsr, (*CPU).bsr}, "------", "Branch to subroutine"},
	{symBVC, "BVC", [2]instfunc{(*CPU).bvc, (*CPU).bvc}, "------", "Branch if overflow clear"},
	{symBVS, "BVS", [2]instfunc{(*CPU).bvs, (*CPU).bvs}, "------", "Branch if overflow set"},
	{symCBA, "CBA", [2]instfunc{(*CPU).cba, (*CPU).cba}, "--++++", "Compare accumulator B with accumulator A"},
	{symCLC, "CLC", [2]instfunc{(*CPU).clc, (*CPU).clc}, "-----0", "Clear carry"},
	{symCLI, "CLI", [2]instfunc{(*CPU).cli, (*CPU).cli}, "-0----", "Clear interrupt mask"},
	{symCLR, "CLR", [2]instfunc{(*CPU).clr, (*CPU).clr}, "--0100", "Clear memory"},
	{symCLRA, "CLRA", [2]instfunc{(*CPU).clra, (*CPU).clra}, "--0100", "Clear accumulator A"},
	{symCLRB, "CLRB", [2]instfunc{(*CPU).clrb, (*CPU).clrb}, "--0100", "Clear accumulator B"},
	{symCLV, "CLV", [2]instfunc{(*CPU).clv, (*CPU).clv}, "----0-", "Clear overflow"},
	{symCMPA, "CMPA", [2]instfunc{(*CPU).cmpa, (*CPU).cmpa}, "--++++", "Compare memory with accumulator A"},
	{symCMPB, "CMPB", [2]instfunc{(*CPU).cmpb, (*CPU).cmpb}, "--++++", "Compare memory with accumulator B"},
	{symCOM, "COM", [2]instfunc{(*CPU).com, (*CPU).com}, "--++01", "Complement memory (one's complement)"},
	{symCOMA, "COMA", [2]instfunc{(*CPU).coma, (*CPU).coma}, "--++01", "Complement accumulator A"},
	{symCOMB, "COMB", [2]instfunc{(*CPU).comb, (*CPU).comb}, "--++01", "Complement accumulator B"},
	{symCPX, "CPX", [2]instfunc{(*CPU).cpx6800, (*CPU).cpx6803}, "--+++-", "Compare memory with the index register"},
	{symDAA, "DAA", [2]instfunc{(*CPU).daa, (*CPU).daa}, "--++-+", "Decimal adjust accumulator A"},
	{symDEC, "DEC", [2]instfunc{(*CPU).dec, (*CPU).dec}, "--+++-", "Decrement memory"},
	{symDECA, "DECA", [2]instfunc{(*CPU).deca, (*CPU).deca}, "--+++-", "Decrement accumulator A"},
	{symDECB, "DECB", [2]instfunc{(*CPU).decb, (*CPU).decb}, "--+++-", "Decrement accumulator B"},
	{symDES, "DES", [2]instfunc{(*CPU).des, (*CPU).des}, "------", "Decrement stack pointer"},
	{symDEX, "DEX", [2]instfunc{(*CPU).dex, (*CPU).dex}, "---+--", "Decrement index register"},
	{symEORA, "EORA", [2]instfunc{(*CPU).eora, (*CPU).eora}, "--++0-", "Exclusive OR memory with accumulator A"},
	{symEORB, "EORB", [2]instfunc{(*CPU).eorb, (*CPU).eorb}, "--++0-", "Exclusive OR memory with accumulator B"},
	{symINC, "INC", [2]instfunc{(*CPU).inc, (*CPU).inc}, "--+++-", "Increment memory"},
	{symINCA, "INCA", [2]instfunc{(*CPU).inca, (*CPU).inca}, "--+++-", "Increment accumulator A"},
	{symINCB, "INCB", [2]instfunc{(*CPU).incb, (*CPU).incb}, "--+++-", "Increment accumulator B"},
	{symINS, "INS", [2]instfunc{(*CPU).ins, (*CPU).ins}, "------", "Increment stack pointer"},
	{symINX, "INX", [2]instfunc{(*CPU).inx, (*CPU).inx}, "---+--", "Increment index register"},
	{symJMP, "JMP", [2]instfunc{(*CPU).jmp, (*CPU).jmp}, "------", "Jump"},
	{symJSR, "JSR", [2]instfunc{(*CPU).jsr, (*CPU).jsr}, "------", "Jump to subroutine"},
	{symLDAA, "LDAA", [2]instfunc{(*CPU).ldaa, (*CPU).ldaa}, "--++0-", "Load accumulator A"},
	{symLDAB, "LDAB", [2]instfunc{(*CPU).ldab, (*CPU).ldab}, "--++0-", "Load accumulator B"},
	{symLDD, "LDD", [2]instfunc{nil, (*CPU).ldd}, "--++0-", "Load the double accumulator D"},
	{symLDS, "LDS", [2]instfunc{(*CPU).lds, (*CPU).lds}, "--++0-", "Load stack pointer"},
	{symLDX, "LDX", [2]instfunc{(*CPU).ldx, (*CPU).ldx}, "--++0-", "Load index register"},
	{symLSR, "LSR", [2]instfunc{(*CPU).lsr, (*CPU).lsr}, "--0+++", "Logical shift right memory"},
	{symLSRA, "LSRA", [2]instfunc{(*CPU).lsra, (*CPU).lsra}, "--0+++", "Logical shift right accumulator A"},
	{symLSRB, "LSRB", [2]instfunc{(*CPU).lsrb, (*CPU).lsrb}, "--0+++", "Logical shift right accumulator B"},
	{symLSRD, "LSRD", [2]instfunc{nil, (*CPU).lsrd}, "--0+++", "Logical shift right the double accumulator D"},
	{symMUL, "MUL", [2]instfunc{nil, (*CPU).mul}, "-----+", "Multiply accumulators A and B into D"},
	{symNEG, "NEG", [2]instfunc{(*CPU).neg, (*CPU).neg}, "--++++", "Negate memory (two's complement)"},
	{symNEGA, "NEGA", [2]instfunc{(*CPU).nega, (*CPU).nega}, "--++++", "Negate accumulator A"},
	{symNEGB, "NEGB", [2]instfunc{(*CPU).negb, (*CPU).negb}, "--++++", "Negate accumulator B"},
	{symNOP, "NOP", [2]instfunc{(*CPU).nop, (*CPU).nop}, "------", "No operation"},
	{symORAA, "ORAA", [2]instfunc{(*CPU).oraa, (*CPU).oraa}, "--++0-", "OR memory with accumulator A"},
	{symORAB, "ORAB", [2]instfunc{(*CPU).orab, (*CPU).orab}, "--++0-", "OR memory with accumulator B"},
	{symPSHA, "PSHA", [2]instfunc{(*CPU).psha, (*CPU).psha}, "------", "Push accumulator A onto the stack"},
	{symPSHB, "PSHB", [2]instfunc{(*CPU).pshb, (*CPU).pshb}, "------", "Push accumulator B onto the stack"},
	{symPSHX, "PSHX", [2]instfunc{nil, (*CPU).pshx}, "------", "Push index register onto the stack"},
	{symPULA, "PULA", [2]instfunc{(*CPU).pula, (*CPU).pula}, "------", "Pull accumulator A from the stack"},
	{symPULB, "PULB", [2]instfunc{(*CPU).pulb, (*CPU).pulb}, "------", "Pull accumulator B from the stack"},
	{symPULX, "PULX", [2]instfunc{nil, (*CPU).pulx}, "------", "Pull index register from the stack"},
	{symROL, "ROL", [2]instfunc{(*CPU).rol, (*CPU).rol}, "--++++", "Rotate memory left through carry"},
	{symROLA, "ROLA", [2]instfunc{(*CPU).rola, (*CPU).rola}, "--++++", "Rotate accumulator A left through carry"},
	{symROLB, "ROLB", [2]instfunc{(*CPU).rolb, (*CPU).rolb}, "--++++", "Rotate accumulator B left through carry"},
	{symROR, "ROR", [2]instfunc{(*CPU).ror, (*CPU).ror}, "--++++", "Rotate memory right through carry"},
	{symRORA, "RORA", [2]instfunc{(*CPU).rora, (*CPU).rora}, "--++++", "Rotate accumulator A right through carry"},
	{symRORB, "RORB", [2]instfunc{(*CPU).rorb, (*CPU).rorb}, "--++++", "Rotate accumulator B right through carry"},
	{symRTI, "RTI", [2]instfunc{(*CPU).rti, (*CPU).rti}, "++++++", "Return from interrupt"},
	{symRTS, "RTS", [2]instfunc{(*CPU).rts, (*CPU).rts}, "------", "Return from subroutine"},
	{symSBA, "SBA", [2]instfunc{(*CPU).sba, (*CPU).sba}, "--++++", "Subtract accumulator B from accumulator A"},
	{symSBCA, "SBCA", [2]instfunc{(*CPU).sbca, (*CPU).sbca}, "--++++", "Subtract memory and carry from accumulator A"},
	{symSBCB, "SBCB", [2]instfunc{(*CPU).sbcb, (*CPU).sbcb}, "--++++", "Subtract memory and carry from accumulator B"},
	{symSEC, "SEC", [2]instfunc{(*CPU).sec, (*CPU).sec}, "-----1", "Set carry"},
	{symSEI, "SEI", [2]instfunc{(*CPU).sei, (*CPU).sei}, "-1----", "Set interrupt mask"},
	{symSEV, "SEV", [2]instfunc{(*CPU).sev, (*CPU).sev}, "----1-", "Set overflow"},
	{symSTAA, "STAA", [2]instfunc{(*CPU).staa, (*CPU).staa}, "--++0-", "Store accumulator A"},
	{symSTAB, "STAB", [2]instfunc{(*CPU).stab, (*CPU).stab}, "--++0-", "Store accumulator B"},
	{symSTD, "STD", [2]instfunc{nil, (*CPU).std}, "--++0-", "Store the double accumulator D"},
	{symSTS, "STS", [2]instfunc{(*CPU).sts, (*CPU).sts}, "--++0-", "Store stack pointer"},
	{symSTX, "STX", [2]instfunc{(*CPU).stx, (*CPU).stx}, "--++0-", "Store index register"},
	{symSUBA, "SUBA", [2]instfunc{(*CPU).suba, (*CPU).suba}, "--++++", "Subtract memory from accumulator A"},
	{symSUBB, "SUBB", [2]instfunc{(*CPU).subb, (*CPU).subb}, "--++++", "Subtract memory from accumulator B"},
	{symSUBD, "SUBD", [2]instfunc{nil, (*CPU).subd}, "--++++", "Subtract 16-bit memory from the double accumulator D"},
	{symSWI, "SWI", [2]instfunc{(*CPU).swi, (*CPU).swi}, "-1----", "Software interrupt"},
	{symTAB, "TAB", [2]instfunc{(*CPU).tab, (*CPU).tab}, "--++0-", "Transfer accumulator A to accumulator B"},
	{symTAP, "TAP", [2]instfunc{(*CPU).tap, (*CPU).tap}, "++++++", "Transfer accumulator A to the condition codes"},
	{symTBA, "TBA", [2]instfunc{(*CPU).tba, (*CPU).tba}, "--++0-", "Transfer accumulator B to accumulator A"},
	{symTPA, "TPA", [2]instfunc{(*CPU).tpa, (*CPU).tpa}, "------", "Transfer the condition codes to accumulator A"},
	{symTST, "TST", [2]instfunc{(*CPU).tst, (*CPU).tst}, "--++00", "Test memory"},
	{symTSTA, "TSTA", [2]instfunc{(*CPU).tsta, (*CPU).tsta}, "--++00", "Test accumulator A"},
	{symTSTB, "TSTB", [2]instfunc{(*CPU).tstb, (*CPU).tstb}, "--++00", "Test accumulator B"},
	{symTSX, "TSX", [2]instfunc{(*CPU).tsx, (*CPU).tsx}, "------", "Transfer stack pointer to index register"},
	{symTXS, "TXS", [2]instfunc{(*CPU).txs, (*CPU).txs}, "------", "Transfer index register to stack pointer"},
	{symWAI, "WAI", [2]instfunc{(*CPU).wai, (*CPU).wai}, "------", "Push context and wait for interrupt"},
}

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes. The first six values double as the
// slot indices of a mnemonic's opcode row, so their order is fixed.
const (
	INH     Mode = iota // Inherent (no operand)
	IMM                 // Immediate (8-bit, or 16-bit when the length is 3)
	DIR                 // Direct (one-byte address)
	IDX                 // Indexed (offset byte + index register)
	EXT                 // Extended (two-byte address)
	REL                 // Relative (signed offset byte)
	INVALID             // No instruction assigned to the opcode
)

// NumModes is the number of encodable addressing modes.
const NumModes = 6

var modeNames = []string{"INH", "IMM", "DIR", "IDX", "EXT", "REL", "INVALID"}

func (m Mode) String() string {
	return modeNames[m]
}

// Processor variant bitmasks used by the opcode table and the alias table.
const (
	arch6800 = 1 << M6800
	arch6803 = 1 << M6803
	archAll  = arch6800 | arch6803
)

// Opcode data for an (opcode, mode) pair. Cycle counts are per variant;
// undoc marks opcodes that execute but are absent from the Motorola hardware
// documentation.
type opcodeData struct {
	sym    opsym   // internal opcode symbol
	mode   Mode    // addressing mode
	opcode byte    // opcode hex value
	length byte    // length of opcode + operand in bytes
	cycles [2]byte // documented cycles: M6800, M6803
	archs  byte    // variants carrying the opcode
	undoc  bool    // undefined on real hardware
}

// All valid (opcode, mode) pairs.
var data = []opcodeData{
	// Loads and stores
	{symLDAA, IMM, 0x86, 2, [2]byte{2, 2}, archAll, false},
	{symLDAA, DIR, 0x96, 2, [2]byte{3, 3}, archAll, false},
	{symLDAA, IDX, 0xa6, 2, [2]byte{5, 4}, archAll, false},
	{symLDAA, EXT, 0xb6, 3, [2]byte{4, 4}, archAll, false},
	{symLDAB, IMM, 0xc6, 2, [2]byte{2, 2}, archAll, false},
	{symLDAB, DIR, 0xd6, 2, [2]byte{3, 3}, archAll, false},
	{symLDAB, IDX, 0xe6, 2, [2]byte{5, 4}, archAll, false},
	{symLDAB, EXT, 0xf6, 3, [2]byte{4, 4}, archAll, false},
	{symSTAA, DIR, 0x97, 2, [2]byte{4, 3}, archAll, false},
	{symSTAA, IDX, 0xa7, 2, [2]byte{6, 4}, archAll, false},
	{symSTAA, EXT, 0xb7, 3, [2]byte{5, 4}, archAll, false},
	{symSTAB, DIR, 0xd7, 2, [2]byte{4, 3}, archAll, false},
	{symSTAB, IDX, 0xe7, 2, [2]byte{6, 4}, archAll, false},
	{symSTAB, EXT, 0xf7, 3, [2]byte{5, 4}, archAll, false},
	{symLDD, IMM, 0xcc, 3, [2]byte{0, 3}, arch6803, false},
	{symLDD, DIR, 0xdc, 2, [2]byte{0, 4}, arch6803, false},
	{symLDD, IDX, 0xec, 2, [2]byte{0, 5}, arch6803, false},
	{symLDD, EXT, 0xfc, 3, [2]byte{0, 5}, arch6803, false},
	{symSTD, DIR, 0xdd, 2, [2]byte{0, 4}, arch6803, true},
	{symSTD, IDX, 0xed, 2, [2]byte{0, 5}, arch6803, false},
	{symSTD, EXT, 0xfd, 3, [2]byte{0, 5}, arch6803, false},
	{symLDX, IMM, 0xce, 3, [2]byte{3, 3}, archAll, false},
	{symLDX, DIR, 0xde, 2, [2]byte{4, 4}, archAll, false},
	{symLDX, IDX, 0xee, 2, [2]byte{6, 5}, archAll, false},
	{symLDX, EXT, 0xfe, 3, [2]byte{5, 5}, archAll, false},
	{symSTX, DIR, 0xdf, 2, [2]byte{5, 4}, archAll, false},
	{symSTX, IDX, 0xef, 2, [2]byte{7, 5}, archAll, false},
	{symSTX, EXT, 0xff, 3, [2]byte{6, 5}, archAll, false},
	{symLDS, IMM, 0x8e, 3, [2]byte{3, 3}, archAll, false},
	{symLDS, DIR, 0x9e, 2, [2]byte{4, 4}, archAll, false},
	{symLDS, IDX, 0xae, 2, [2]byte{6, 5}, archAll, false},
	{symLDS, EXT, 0xbe, 3, [2]byte{5, 5}, archAll, false},
	{symSTS, DIR, 0x9f, 2, [2]byte{5, 4}, archAll, false},
	{symSTS, IDX, 0xaf, 2, [2]byte{7, 5}, archAll, false},
	{symSTS, EXT, 0xbf, 3, [2]byte{6, 5}, archAll, false},

	// Addition and subtraction
	{symADDA, IMM, 0x8b, 2, [2]byte{2, 2}, archAll, false},
	{symADDA, DIR, 0x9b, 2, [2]byte{3, 3}, archAll, false},
	{symADDA, IDX, 0xab, 2, [2]byte{5, 4}, archAll, false},
	{symADDA, EXT, 0xbb, 3, [2]byte{4, 4}, archAll, false},
	{symADDB, IMM, 0xcb, 2, [2]byte{2, 2}, archAll, false},
	{symADDB, DIR, 0xdb, 2, [2]byte{3, 3}, archAll, false},
	{symADDB, IDX, 0xeb, 2, [2]byte{5, 4}, archAll, false},
	{symADDB, EXT, 0xfb, 3, [2]byte{4, 4}, archAll, false},
	{symADCA, IMM, 0x89, 2, [2]byte{2, 2}, archAll, false},
	{symADCA, DIR, 0x99, 2, [2]byte{3, 3}, archAll, false},
	{symADCA, IDX, 0xa9, 2, [2]byte{5, 4}, archAll, false},
	{symADCA, EXT, 0xb9, 3, [2]byte{4, 4}, archAll, false},
	{symADCB, IMM, 0xc9, 2, [2]byte{2, 2}, archAll, false},
	{symADCB, DIR, 0xd9, 2, [2]byte{3, 3}, archAll, false},
	{symADCB, IDX, 0xe9, 2, [2]byte{5, 4}, archAll, false},
	{symADCB, EXT, 0xf9, 3, [2]byte{4, 4}, archAll, false},
	{symADDD, IMM, 0xc3, 3, [2]byte{0, 4}, arch6803, false},
	{symADDD, DIR, 0xd3, 2, [2]byte{0, 5}, arch6803, false},
	{symADDD, IDX, 0xe3, 2, [2]byte{0, 6}, arch6803, false},
	{symADDD, EXT, 0xf3, 3, [2]byte{0, 6}, arch6803, false},
	{symSUBA, IMM, 0x80, 2, [2]byte{2, 2}, archAll, false},
	{symSUBA, DIR, 0x90, 2, [2]byte{3, 3}, archAll, false},
	{symSUBA, IDX, 0xa0, 2, [2]byte{5, 4}, archAll, false},
	{symSUBA, EXT, 0xb0, 3, [2]byte{4, 4}, archAll, false},
	{symSUBB, IMM, 0xc0, 2, [2]byte{2, 2}, archAll, false},
	{symSUBB, DIR, 0xd0, 2, [2]byte{3, 3}, archAll, false},
	{symSUBB, IDX, 0xe0, 2, [2]byte{5, 4}, archAll, false},
	{symSUBB, EXT, 0xf0, 3, [2]byte{4, 4}, archAll, false},
	{symSBCA, IMM, 0x82, 2, [2]byte{2, 2}, archAll, false},
	{symSBCA, DIR, 0x92, 2, [2]byte{3, 3}, archAll, false},
	{symSBCA, IDX, 0xa2, 2, [2]byte{5, 4}, archAll, false},
	{symSBCA, EXT, 0xb2, 3, [2]byte{4, 4}, archAll, false},
	{symSBCB, IMM, 0xc2, 2, [2]byte{2, 2}, archAll, false},
	{symSBCB, DIR, 0xd2, 2, [2]byte{3, 3}, archAll, false},
	{symSBCB, IDX, 0xe2, 2, [2]byte{5, 4}, archAll, false},
	{symSBCB, EXT, 0xf2, 3, [2]byte{4, 4}, archAll, false},
	{symSUBD, IMM, 0x83, 3, [2]byte{0, 4}, arch6803, false},
	{symSUBD, DIR, 0x93, 2, [2]byte{0, 5}, arch6803, false},
	{symSUBD, IDX, 0xa3, 2, [2]byte{0, 6}, arch6803, false},
	{symSUBD, EXT, 0xb3, 3, [2]byte{0, 6}, arch6803, false},
	{symCMPA, IMM, 0x81, 2, [2]byte{2, 2}, archAll, false},
	{symCMPA, DIR, 0x91, 2, [2]byte{3, 3}, archAll, false},
	{symCMPA, IDX, 0xa1, 2, [2]byte{5, 4}, archAll, false},
	{symCMPA, EXT, 0xb1, 3, [2]byte{4, 4}, archAll, false},
	{symCMPB, IMM, 0xc1, 2, [2]byte{2, 2}, archAll, false},
	{symCMPB, DIR, 0xd1, 2, [2]byte{3, 3}, archAll, false},
	{symCMPB, IDX, 0xe1, 2, [2]byte{5, 4}, archAll, false},
	{symCMPB, EXT, 0xf1, 3, [2]byte{4, 4}, archAll, false},
	{symCPX, IMM, 0x8c, 3, [2]byte{3, 4}, archAll, false},
	{symCPX, DIR, 0x9c, 2, [2]byte{4, 5}, archAll, false},
	{symCPX, IDX, 0xac, 2, [2]byte{6, 6}, archAll, false},
	{symCPX, EXT, 0xbc, 3, [2]byte{5, 6}, archAll, false},
	{symABA, INH, 0x1b, 1, [2]byte{2, 2}, archAll, false},
	{symSBA, INH, 0x10, 1, [2]byte{2, 2}, archAll, false},
	{symCBA, INH, 0x11, 1, [2]byte{2, 2}, archAll, false},
	{symABX, INH, 0x3a, 1, [2]byte{0, 3}, arch6803, false},
	{symDAA, INH, 0x19, 1, [2]byte{2, 2}, archAll, false},
	{symMUL, INH, 0x3d, 1, [2]byte{0, 10}, arch6803, false},

	// Logic
	{symANDA, IMM, 0x84, 2, [2]byte{2, 2}, archAll, false},
	{symANDA, DIR, 0x94, 2, [2]byte{3, 3}, archAll, false},
	{symANDA, IDX, 0xa4, 2, [2]byte{5, 4}, archAll, false},
	{symANDA, EXT, 0xb4, 3, [2]byte{4, 4}, archAll, false},
	{symANDB, IMM, 0xc4, 2, [2]byte{2, 2}, archAll, false},
	{symANDB, DIR, 0xd4, 2, [2]byte{3, 3}, archAll, false},
	{symANDB, IDX, 0xe4, 2, [2]byte{5, 4}, archAll, false},
	{symANDB, EXT, 0xf4, 3, [2]byte{4, 4}, archAll, false},
	{symORAA, IMM, 0x8a, 2, [2]byte{2, 2}, archAll, false},
	{symORAA, DIR, 0x9a, 2, [2]byte{3, 3}, archAll, false},
	{symORAA, IDX, 0xaa, 2, [2]byte{5, 4}, archAll, false},
	{symORAA, EXT, 0xba, 3, [2]byte{4, 4}, archAll, false},
	{symORAB, IMM, 0xca, 2, [2]byte{2, 2}, archAll, false},
	{symORAB, DIR, 0xda, 2, [2]byte{3, 3}, archAll, false},
	{symORAB, IDX, 0xea, 2, [2]byte{5, 4}, archAll, false},
	{symORAB, EXT, 0xfa, 3, [2]byte{4, 4}, archAll, false},
	{symEORA, IMM, 0x88, 2, [2]byte{2, 2}, archAll, false},
	{symEORA, DIR, 0x98, 2, [2]byte{3, 3}, archAll, false},
	{symEORA, IDX, 0xa8, 2, [2]byte{5, 4}, archAll, false},
	{symEORA, EXT, 0xb8, 3, [2]byte{4, 4}, archAll, false},
	{symEORB, IMM, 0xc8, 2, [2]byte{2, 2}, archAll, false},
	{symEORB, DIR, 0xd8, 2, [2]byte{3, 3}, archAll, false},
	{symEORB, IDX, 0xe8, 2, [2]byte{5, 4}, archAll, false},
	{symEORB, EXT, 0xf8, 3, [2]byte{4, 4}, archAll, false},
	{symBITA, IMM, 0x85, 2, [2]byte{2, 2}, archAll, false},
	{symBITA, DIR, 0x95, 2, [2]byte{3, 3}, archAll, false},
	{symBITA, IDX, 0xa5, 2, [2]byte{5, 4}, archAll, false},
	{symBITA, EXT, 0xb5, 3, [2]byte{4, 4}, archAll, false},
	{symBITB, IMM, 0xc5, 2, [2]byte{2, 2}, archAll, false},
	{symBITB, DIR, 0xd5, 2, [2]byte{3, 3}, archAll, false},
	{symBITB, IDX, 0xe5, 2, [2]byte{5, 4}, archAll, false},
	{symBITB, EXT, 0xf5, 3, [2]byte{4, 4}, archAll, false},

	// Read-modify-write
	{symNEG, IDX, 0x60, 2, [2]byte{7, 6}, archAll, false},
	{symNEG, EXT, 0x70, 3, [2]byte{6, 6}, archAll, false},
	{symNEGA, INH, 0x40, 1, [2]byte{2, 2}, archAll, false},
	{symNEGB, INH, 0x50, 1, [2]byte{2, 2}, archAll, false},
	{symCOM, IDX, 0x63, 2, [2]byte{7, 6}, archAll, false},
	{symCOM, EXT, 0x73, 3, [2]byte{6, 6}, archAll, false},
	{symCOMA, INH, 0x43, 1, [2]byte{2, 2}, archAll, false},
	{symCOMB, INH, 0x53, 1, [2]byte{2, 2}, archAll, false},
	{symLSR, IDX, 0x64, 2, [2]byte{7, 6}, archAll, false},
	{symLSR, EXT, 0x74, 3, [2]byte{6, 6}, archAll, false},
	{symLSRA, INH, 0x44, 1, [2]byte{2, 2}, archAll, false},
	{symLSRB, INH, 0x54, 1, [2]byte{2, 2}, archAll, false},
	{symLSRD, INH, 0x04, 1, [2]byte{0, 3}, arch6803, false},
	{symROR, IDX, 0x66, 2, [2]byte{7, 6}, archAll, false},
	{symROR, EXT, 0x76, 3, [2]byte{6, 6}, archAll, false},
	{symRORA, INH, 0x46, 1, [2]byte{2, 2}, archAll, false},
	{symRORB, INH, 0x56, 1, [2]byte{2, 2}, archAll, false},
	{symASR, IDX, 0x67, 2, [2]byte{7, 6}, archAll, false},
	{symASR, EXT, 0x77, 3, [2]byte{6, 6}, archAll, false},
	{symASRA, INH, 0x47, 1, [2]byte{2, 2}, archAll, false},
	{symASRB, INH, 0x57, 1, [2]byte{2, 2}, archAll, false},
	{symASL, IDX, 0x68, 2, [2]byte{7, 6}, archAll, false},
	{symASL, EXT, 0x78, 3, [2]byte{6, 6}, archAll, false},
	{symASLA, INH, 0x48, 1, [2]byte{2, 2}, archAll, false},
	{symASLB, INH, 0x58, 1, [2]byte{2, 2}, archAll, false},
	{symASLD, INH, 0x05, 1, [2]byte{0, 3}, arch6803, false},
	{symROL, IDX, 0x69, 2, [2]byte{7, 6}, archAll, false},
	{symROL, EXT, 0x79, 3, [2]byte{6, 6}, archAll, false},
	{symROLA, INH, 0x49, 1, [2]byte{2, 2}, archAll, false},
	{symROLB, INH, 0x59, 1, [2]byte{2, 2}, archAll, false},
	{symDEC, IDX, 0x6a, 2, [2]byte{7, 6}, archAll, false},
	{symDEC, EXT, 0x7a, 3, [2]byte{6, 6}, archAll, false},
	{symDECA, INH, 0x4a, 1, [2]byte{2, 2}, archAll, false},
	{symDECB, INH, 0x5a, 1, [2]byte{2, 2}, archAll, false},
	{symINC, IDX, 0x6c, 2, [2]byte{7, 6}, archAll, false},
	{symINC, EXT, 0x7c, 3, [2]byte{6, 6}, archAll, false},
	{symINCA, INH, 0x4c, 1, [2]byte{2, 2}, archAll, false},
	{symINCB, INH, 0x5c, 1, [2]byte{2, 2}, archAll, false},
	{symTST, IDX, 0x6d, 2, [2]byte{7, 6}, archAll, false},
	{symTST, EXT, 0x7d, 3, [2]byte{6, 6}, archAll, false},
	{symTSTA, INH, 0x4d, 1, [2]byte{2, 2}, archAll, false},
	{symTSTB, INH, 0x5d, 1, [2]byte{2, 2}, archAll, false},
	{symCLR, IDX, 0x6f, 2, [2]byte{7, 6}, archAll, false},
	{symCLR, EXT, 0x7f, 3, [2]byte{6, 6}, archAll, false},
	{symCLRA, INH, 0x4f, 1, [2]byte{2, 2}, archAll, false},
	{symCLRB, INH, 0x5f, 1, [2]byte{2, 2}, archAll, false},

	// Index register and stack pointer
	{symINX, INH, 0x08, 1, [2]byte{4, 3}, archAll, false},
	{symDEX, INH, 0x09, 1, [2]byte{4, 3}, archAll, false},
	{symINS, INH, 0x31, 1, [2]byte{4, 3}, archAll, false},
	{symDES, INH, 0x34, 1, [2]byte{4, 3}, archAll, false},
	{symTSX, INH, 0x30, 1, [2]byte{4, 3}, archAll, false},
	{symTXS, INH, 0x35, 1, [2]byte{4, 3}, archAll, false},
	{symPSHA, INH, 0x36, 1, [2]byte{4, 3}, archAll, false},
	{symPSHB, INH, 0x37, 1, [2]byte{4, 3}, archAll, false},
	{symPULA, INH, 0x32, 1, [2]byte{4, 4}, archAll, false},
	{symPULB, INH, 0x33, 1, [2]byte{4, 4}, archAll, false},
	{symPSHX, INH, 0x3c, 1, [2]byte{0, 4}, arch6803, false},
	{symPULX, INH, 0x38, 1, [2]byte{0, 5}, arch6803, false},

	// Branches
	{symBRA, REL, 0x20, 2, [2]byte{4, 3}, archAll, false},
	{symBRN, REL, 0x21, 2, [2]byte{0, 3}, arch6803, false},
	{symBHI, REL, 0x22, 2, [2]byte{4, 3}, archAll, false},
	{symBLS, REL, 0x23, 2, [2]byte{4, 3}, archAll, false},
	{symBCC, REL, 0x24, 2, [2]byte{4, 3}, archAll, false},
	{symBCS, REL, 0x25, 2, [2]byte{4, 3}, archAll, false},
	{symBNE, REL, 0x26, 2, [2]byte{4, 3}, archAll, false},
	{symBEQ, REL, 0x27, 2, [2]byte{4, 3}, archAll, false},
	{symBVC, REL, 0x28, 2, [2]byte{4, 3}, archAll, false},
	{symBVS, REL, 0x29, 2, [2]byte{4, 3}, archAll, false},
	{symBPL, REL, 0x2a, 2, [2]byte{4, 3}, archAll, false},
	{symBMI, REL, 0x2b, 2, [2]byte{4, 3}, archAll, false},
	{symBGE, REL, 0x2c, 2, [2]byte{4, 3}, archAll, false},
	{symBLT, REL, 0x2d, 2, [2]byte{4, 3}, archAll, false},
	{symBGT, REL, 0x2e, 2, [2]byte{4, 3}, archAll, false},
	{symBLE, REL, 0x2f, 2, [2]byte{4, 3}, archAll, false},
	{symBSR, REL, 0x8d, 2, [2]byte{8, 6}, archAll, false},

	// Jumps, calls and returns
	{symJMP, IDX, 0x6e, 2, [2]byte{4, 3}, archAll, false},
	{symJMP, EXT, 0x7e, 3, [2]byte{3, 3}, archAll, false},
	{symJSR, DIR, 0x9d, 2, [2]byte{8, 5}, archAll, true},
	{symJSR, IDX, 0xad, 2, [2]byte{8, 6}, archAll, false},
	{symJSR, EXT, 0xbd, 3, [2]byte{9, 6}, archAll, false},
	{symRTS, INH, 0x39, 1, [2]byte{5, 5}, archAll, false},
	{symRTI, INH, 0x3b, 1, [2]byte{10, 10}, archAll, false},
	{symSWI, INH, 0x3f, 1, [2]byte{12, 12}, archAll, false},
	{symWAI, INH, 0x3e, 1, [2]byte{9, 9}, archAll, false},
	{symNOP, INH, 0x01, 1, [2]byte{2, 2}, archAll, false},

	// Transfers and condition code operations
	{symTAB, INH, 0x16, 1, [2]byte{2, 2}, archAll, false},
	{symTBA, INH, 0x17, 1, [2]byte{2, 2}, archAll, false},
	{symTAP, INH, 0x06, 1, [2]byte{2, 2}, archAll, false},
	{symTPA, INH, 0x07, 1, [2]byte{2, 2}, archAll, false},
	{symCLC, INH, 0x0c, 1, [2]byte{2, 2}, archAll, false},
	{symSEC, INH, 0x0d, 1, [2]byte{2, 2}, archAll, false},
	{symCLI, INH, 0x0e, 1, [2]byte{2, 2}, archAll, false},
	{symSEI, INH, 0x0f, 1, [2]byte{2, 2}, archAll, false},
	{symCLV, INH, 0x0a, 1, [2]byte{2, 2}, archAll, false},
	{symSEV, INH, 0x0b, 1, [2]byte{2, 2}, archAll, false},
}

// Variant-specific mnemonic synonyms accepted by the assembler.
type aliasData struct {
	canonical string
	archs     byte
}

var aliases = map[string]aliasData{
	"LSL":  {"ASL", archAll},
	"LSLA": {"ASLA", archAll},
	"LSLB": {"ASLB", archAll},
	"LSLD": {"ASLD", arch6803},
	"BHS":  {"BCC", archAll},
	"BLO":  {"BCS", archAll},
}

// An Instruction describes a CPU instruction, including its name, its
// addressing mode, its opcode value, its operand size, and its CPU cycle
// cost on the instruction set's variant.
type Instruction struct {
	Name   string   // all-caps name of the instruction
	Mode   Mode     // addressing mode (INVALID when unassigned)
	Opcode byte     // hexadecimal opcode value
	Length byte     // combined size of opcode and operand, in bytes
	Cycles byte     // number of CPU cycles to execute the instruction
	Undoc  bool     // executes here but undefined on real hardware
	fn     instfunc // emulator implementation of the instruction
}

// A Mnemonic collects everything the assembler and the monitor need to know
// about one instruction name: its opcode for each addressing-mode slot
// (0 = mode unsupported), the condition codes it touches, and a short
// description.
type Mnemonic struct {
	Name    string
	Opcodes [NumModes]byte // indexed by INH..REL
	Flags   string
	Help    string
}

// HasMode reports whether the mnemonic supports the addressing mode.
func (m *Mnemonic) HasMode(mode Mode) bool {
	return mode < NumModes && m.Opcodes[mode] != 0
}

// An InstructionSet defines the set of all possible instructions that can
// run on one variant of the emulated CPU.
type InstructionSet struct {
	Arch         Arch
	instructions [256]Instruction
	mnemonics    map[string]*Mnemonic
}

// Lookup retrieves the instruction assigned to the requested opcode. Every
// opcode returns an entry; unassigned ones have Mode == INVALID.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

// Supported reports whether the opcode is assigned an instruction on this
// variant.
func (s *InstructionSet) Supported(opcode byte) bool {
	return s.instructions[opcode].Mode != INVALID
}

// FindMnemonic resolves an instruction name, applying the alias table, and
// returns its mnemonic entry. The error distinguishes names unknown to the
// whole family from names the other variant supports.
func (s *InstructionSet) FindMnemonic(name string) (*Mnemonic, error) {
	name = strings.ToUpper(name)
	if a, ok := aliases[name]; ok {
		if a.archs&(1<<s.Arch) == 0 {
			return nil, fmt.Errorf("mnemonic '%s' is not available on the %s", name, s.Arch)
		}
		name = a.canonical
	}
	if m, ok := s.mnemonics[name]; ok {
		return m, nil
	}
	if mnemonicKnown(name) {
		return nil, fmt.Errorf("mnemonic '%s' is not available on the %s", name, s.Arch)
	}
	return nil, fmt.Errorf("unknown mnemonic '%s'", name)
}

// IsMnemonic reports whether the name collides with an instruction name or
// alias on any variant. The assembler uses it to reject reserved words as
// labels.
func IsMnemonic(name string) bool {
	name = strings.ToUpper(name)
	if _, ok := aliases[name]; ok {
		return true
	}
	return mnemonicKnown(name)
}

// Mnemonics returns the variant's mnemonic entries sorted by name.
func (s *InstructionSet) Mnemonics() []*Mnemonic {
	all := make([]*Mnemonic, 0, len(s.mnemonics))
	for _, m := range s.mnemonics {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

var knownNames map[string]bool

func mnemonicKnown(name string) bool {
	if knownNames == nil {
		knownNames = make(map[string]bool, len(impl))
		for i := range impl {
			knownNames[impl[i].name] = true
		}
	}
	return knownNames[name]
}

const unassignedName = "???"

// Create an instruction set for a processor variant.
func newInstructionSet(arch Arch) *InstructionSet {
	set := &InstructionSet{Arch: arch}

	symToImpl := make(map[opsym]*opcodeImpl, len(impl))
	for i := range impl {
		symToImpl[impl[i].sym] = &impl[i]
	}

	// Mark every opcode unassigned, then fill in the variant's rows.
	for i := 0; i < 256; i++ {
		set.instructions[i] = Instruction{
			Name:   unassignedName,
			Mode:   INVALID,
			Opcode: byte(i),
			Length: 1,
		}
	}

	set.mnemonics = make(map[string]*Mnemonic)
	for _, d := range data {
		if d.archs&(1<<arch) == 0 {
			continue
		}
		im := symToImpl[d.sym]
		if im == nil || im.fn[arch] == nil {
			panic("missing instruction " + fmt.Sprintf("%02x", d.opcode))
		}

		set.instructions[d.opcode] = Instruction{
			Name:   im.name,
			Mode:   d.mode,
			Opcode: d.opcode,
			Length: d.length,
			Cycles: d.cycles[arch],
			Undoc:  d.undoc,
			fn:     im.fn[arch],
		}

		m := set.mnemonics[im.name]
		if m == nil {
			m = &Mnemonic{Name: im.name, Flags: im.flags, Help: im.help}
			set.mnemonics[im.name] = m
		}
		m.Opcodes[d.mode] = d.opcode
	}

	// CPX sets the carry on the M6803 but leaves it alone on the M6800.
	if arch == M6803 {
		if m, ok := set.mnemonics["CPX"]; ok {
			m.Flags = "--++++"
		}
	}

	return set
}

var instructionSets [2]*InstructionSet

// GetInstructionSet returns the instruction set for the requested processor
// variant.
func GetInstructionSet(arch Arch) *InstructionSet {
	if instructionSets[arch] == nil {
		// Lazy-create the instruction set.
		instructionSets[arch] = newInstructionSet(arch)
	}
	return instructionSets[arch]
}
