package compiler

// This file implements a human-readable/writable textual form of a
// compiled instruction stream: one instruction per line, mnemonic first,
// then its arg and/or signed off as the opcode requires. It exists so that
// optimiser tests can assert on the shape of a rewrite without hand-building
// Instr literals, and so the `dump` CLI subcommand has something to print.
//
// 	ADD 3
// 	JZ +3
// 	CMUL 2 +1
// 	SET 0
// 	JNZ -3
// 	SEEKL

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
)

var reverseOpNames = func() map[string]Op {
	m := make(map[string]Op, len(opNames))
	for op, name := range opNames {
		if name != "" {
			m[name] = Op(op)
		}
	}
	return m
}()

// hasArg reports whether op's textual form carries an Arg operand.
func hasArg(op Op) bool {
	switch op {
	case Add, Sub, Left, Right, PutCh, GetCh, Set, CMul, CNMul:
		return true
	}
	return false
}

// hasOff reports whether op's textual form carries an Off operand.
func hasOff(op Op) bool {
	switch op {
	case JZ, JNZ, J, CMul, CNMul:
		return true
	}
	return false
}

// Disassemble renders ins as human-readable assembly, one instruction per
// line.
func Disassemble(ins Instructions) string {
	var b strings.Builder
	for _, in := range ins {
		b.WriteString(in.Op.String())
		if hasArg(in.Op) {
			fmt.Fprintf(&b, " %d", in.Arg)
		}
		if hasOff(in.Op) {
			fmt.Fprintf(&b, " %+d", in.Off)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Assemble parses the textual form produced by Disassemble back into an
// Instructions value.
func Assemble(text string) (Instructions, error) {
	var out Instructions

	sc := bufio.NewScanner(strings.NewReader(text))
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		op, ok := reverseOpNames[fields[0]]
		if !ok {
			return nil, fmt.Errorf("line %d: invalid opcode: %s", lineNo, fields[0])
		}

		in := Instr{Op: op}
		fields = fields[1:]
		if hasArg(op) {
			if len(fields) == 0 {
				return nil, fmt.Errorf("line %d: %s: missing arg", lineNo, op)
			}
			n, err := strconv.ParseUint(fields[0], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: invalid arg: %s", lineNo, op, fields[0])
			}
			in.Arg = uint8(n)
			fields = fields[1:]
		}
		if hasOff(op) {
			if len(fields) == 0 {
				return nil, fmt.Errorf("line %d: %s: missing off", lineNo, op)
			}
			n, err := strconv.ParseInt(fields[0], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: invalid off: %s", lineNo, op, fields[0])
			}
			in.Off = int32(n)
			fields = fields[1:]
		}
		if len(fields) != 0 {
			return nil, fmt.Errorf("line %d: %s: unexpected trailing field: %s", lineNo, op, fields[0])
		}

		out = append(out, in)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
