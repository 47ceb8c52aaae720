// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"encoding/json"
	"io"
)

// A SourceMap describes the mapping between source code lines and the
// machine code they produced. The processor consults it to resolve
// line-based breakpoints, and the monitor uses it to show source next to
// memory addresses.
type SourceMap struct {
	Lines []MappedLine
}

// A MappedLine records the bytes emitted for one source line. Addr is -1
// for lines that emitted nothing, such as equates and origin changes.
type MappedLine struct {
	Addr     int    // first address of the emitted bytes, or -1
	Line     int    // 1-based source line number
	Code     []byte // emitted machine code
	Mnemonic string // mnemonic or directive name
	Operand  string // operand text as written
}

// FindAddr returns the address of the code emitted for a source line.
func (m *SourceMap) FindAddr(line int) (int, bool) {
	for i := range m.Lines {
		if m.Lines[i].Line == line && m.Lines[i].Addr >= 0 {
			return m.Lines[i].Addr, true
		}
	}
	return 0, false
}

// FindLine returns the source line whose emitted code starts at addr.
func (m *SourceMap) FindLine(addr int) (int, bool) {
	for i := range m.Lines {
		if m.Lines[i].Addr == addr && len(m.Lines[i].Code) > 0 {
			return m.Lines[i].Line, true
		}
	}
	return 0, false
}

// ReadFrom reads the contents of an exported source map.
func (m *SourceMap) ReadFrom(r io.Reader) (n int64, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	err = json.Unmarshal(b, m)
	if err != nil {
		return 0, err
	}
	return int64(len(b)), nil
}

// WriteTo writes the contents of the source map to an output stream.
func (m *SourceMap) WriteTo(w io.Writer) (n int64, err error) {
	b, err := json.Marshal(*m)
	if err != nil {
		return 0, err
	}

	nn, err := w.Write(b)
	return int64(nn), err
}
