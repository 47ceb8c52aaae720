// Copyright 2024-2026 Vladimir Janus. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"math"
	"strconv"
)

// Operand expressions are sums and differences of numeric literals and
// label references: decimal numbers, '$'-prefixed hexadecimal, '%'-prefixed
// binary, quoted ASCII characters, and label names, joined by '+' and '-'.
// The evaluator accumulates a 32-bit signed result whose final value must
// land in [0,$FFFF].

// evalExpr evaluates an operand expression against the label table. When
// errOnUndefined is false, a reference to an unknown label marks the result
// undefined instead of failing, letting pass 1 defer the expression to a
// fix-up map.
func evalExpr(line fstring, labels map[string]uint16, errOnUndefined bool) (value int, undefined bool, err error) {
	remain := line.consumeWhitespace()
	if remain.isEmpty() {
		return 0, false, errorAt(line, "empty expression")
	}

	var acc int64
	op := byte('+')
	for {
		var v int
		var undef bool
		v, undef, remain, err = parseExprOperand(remain, labels, errOnUndefined)
		if err != nil {
			return 0, false, err
		}
		undefined = undefined || undef

		switch op {
		case '+':
			acc += int64(v)
		default:
			acc -= int64(v)
		}
		if acc > math.MaxInt32 || acc < math.MinInt32 {
			return 0, false, errorAt(line, "expression overflow")
		}

		remain = remain.consumeWhitespace()
		if remain.isEmpty() {
			break
		}

		if !remain.startsWithChar('+') && !remain.startsWithChar('-') {
			return 0, false, errorAt(remain, "expected '+' or '-', found '%c'", remain.str[0])
		}
		op = remain.str[0]
		opPos := remain
		remain = remain.consume(1).consumeWhitespace()
		if remain.isEmpty() {
			return 0, false, errorAt(opPos, "expression ends with an operator")
		}
	}

	if undefined {
		return 0, true, nil
	}
	if acc < 0 || acc > 0xffff {
		return 0, false, errorAt(line, "expression value %d out of range [0,$FFFF]", acc)
	}
	return int(acc), false, nil
}

// parseExprOperand consumes a single operand token: a numeric literal, a
// character literal, or a label reference.
func parseExprOperand(l fstring, labels map[string]uint16, errOnUndefined bool) (value int, undefined bool, remain fstring, err error) {
	switch {
	case l.startsWithChar('$'):
		value, remain, err = parseExprNumber(l.consume(1), hexadecimal, 16, "hexadecimal")

	case l.startsWithChar('%'):
		value, remain, err = parseExprNumber(l.consume(1), binarynum, 2, "binary")

	case l.startsWith(decimal):
		value, remain, err = parseExprNumber(l, decimal, 10, "decimal")

	case l.startsWithChar('\''):
		if len(l.str) < 3 || l.str[2] != '\'' {
			err = errorAt(l, "malformed character literal")
			return
		}
		value, remain = int(l.str[1]), l.consume(3)

	case l.startsWith(labelStartChar):
		var name fstring
		name, remain = l.consumeWhile(labelChar)
		v, ok := labels[name.str]
		switch {
		case ok:
			value = int(v)
		case errOnUndefined:
			err = errorAt(name, "undefined label '%s'", name.str)
		default:
			undefined = true
		}

	default:
		err = errorAt(l, "unexpected character '%c' in expression", l.str[0])
	}
	return
}

// parseExprNumber consumes a run of digit characters and converts them in
// the requested base.
func parseExprNumber(l fstring, fn func(c byte) bool, base int, kind string) (value int, remain fstring, err error) {
	num, remain := l.consumeWhile(fn)
	if num.isEmpty() {
		return 0, remain, errorAt(l, "malformed %s number", kind)
	}
	v, converr := strconv.ParseInt(num.str, base, 32)
	if converr != nil {
		return 0, remain, errorAt(num, "%s number '%s' too large", kind, num.str)
	}
	return int(v), remain, nil
}

// Eval evaluates a stand-alone expression, such as one typed into the
// interactive monitor, against an optional label table. References to
// undefined labels are errors.
func Eval(s string, labels map[string]uint16) (uint16, error) {
	v, _, err := evalExpr(newFstring(0, s), labels, true)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
