package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/bfo/lang/compiler"
)

func TestDisassembleAssembleRoundtrip(t *testing.T) {
	ins := compiler.Instructions{
		{Op: compiler.Add, Arg: 3},
		{Op: compiler.JZ, Off: 4},
		{Op: compiler.CMul, Arg: 2, Off: 1},
		{Op: compiler.Set, Arg: 0},
		{Op: compiler.JNZ, Off: -3},
		{Op: compiler.SeekL},
		{Op: compiler.PutCh, Arg: 1},
	}
	text := compiler.Disassemble(ins)
	got, err := compiler.Assemble(text)
	require.NoError(t, err)
	assert.Equal(t, ins, got)
}

func TestAssembleErrors(t *testing.T) {
	cases := []struct {
		desc string
		in   string
		err  string
	}{
		{"invalid opcode", "FROB 1", "invalid opcode: FROB"},
		{"missing arg", "ADD", "missing arg"},
		{"invalid arg", "ADD x", "invalid arg: x"},
		{"missing off", "JZ", "missing off"},
		{"invalid off", "JZ x", "invalid off: x"},
		{"trailing field", "SEEKL 1", "unexpected trailing field: 1"},
		{"blank lines and whitespace are ignored", "\n  \nADD 1\n\n", ""},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, err := compiler.Assemble(c.in)
			if c.err == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.err)
		})
	}
}

func TestDisassembleFormat(t *testing.T) {
	ins := compiler.Instructions{
		{Op: compiler.Add, Arg: 3},
		{Op: compiler.SeekR},
	}
	want := "ADD 3\nSEEKR\n"
	assert.Equal(t, want, compiler.Disassemble(ins))
}
