// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strings"

	"github.com/VladimirJanus/go68xx/cpu"
)

func codeString(b []byte) string {
	switch len(b) {
	case 1:
		return fmt.Sprintf("%02X", b[0])
	case 2:
		return fmt.Sprintf("%02X %02X", b[0], b[1])
	case 3:
		return fmt.Sprintf("%02X %02X %02X", b[0], b[1], b[2])
	default:
		return ""
	}
}

// registerString formats the register file the way the monitor displays it
// alongside each disassembled instruction.
func registerString(r *cpu.Registers) string {
	return fmt.Sprintf("A=%02X B=%02X X=%04X SP=%04X CC=[%s]",
		r.A, r.B, r.X(), r.SP, ccString(r))
}

// ccString renders the condition code flags in HINZVC order, upper case
// when set.
func ccString(r *cpu.Registers) string {
	b := []byte("hinzvc")
	if r.HalfCarry {
		b[0] = 'H'
	}
	if r.IntMask {
		b[1] = 'I'
	}
	if r.Negative {
		b[2] = 'N'
	}
	if r.Zero {
		b[3] = 'Z'
	}
	if r.Overflow {
		b[4] = 'V'
	}
	if r.Carry {
		b[5] = 'C'
	}
	return string(b)
}

// flagBit resolves a condition code name to its bit mask.
func flagBit(name string) (byte, bool) {
	switch strings.ToLower(name) {
	case "c", "carry":
		return cpu.CarryBit, true
	case "v", "overflow":
		return cpu.OverflowBit, true
	case "z", "zero":
		return cpu.ZeroBit, true
	case "n", "negative":
		return cpu.NegativeBit, true
	case "i", "intmask":
		return cpu.IntMaskBit, true
	case "h", "halfcarry":
		return cpu.HalfCarryBit, true
	}
	return 0, false
}

func flagName(mask byte) string {
	switch mask {
	case cpu.CarryBit:
		return "C"
	case cpu.OverflowBit:
		return "V"
	case cpu.ZeroBit:
		return "Z"
	case cpu.NegativeBit:
		return "N"
	case cpu.IntMaskBit:
		return "I"
	case cpu.HalfCarryBit:
		return "H"
	}
	return "?"
}

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false", "off":
		return false, nil
	case "1", "true", "on":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>12)&0xf]
	b[1] = hexString[(addr>>8)&0xf]
	b[2] = hexString[(addr>>4)&0xf]
	b[3] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	switch {
	case v >= 32 && v < 127:
		return v
	case v >= 160 && v < 255:
		return v - 128
	default:
		return '.'
	}
}

// indentWrap word-wraps a help string to 80 columns with a left indent,
// preserving explicit line breaks.
func indentWrap(indent int, s string) string {
	pad := strings.Repeat(" ", indent)
	var sb strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if line == "" {
			continue
		}
		col := 0
		for _, word := range strings.Fields(line) {
			switch {
			case col == 0:
				sb.WriteString(pad)
				col = indent
			case col+1+len(word) > 80:
				sb.WriteByte('\n')
				sb.WriteString(pad)
				col = indent
			default:
				sb.WriteByte(' ')
				col++
			}
			sb.WriteString(word)
			col += len(word)
		}
	}
	return sb.String()
}
