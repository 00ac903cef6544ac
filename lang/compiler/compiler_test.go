package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/bfo/lang/compiler"
	"github.com/mna/bfo/lang/token"
)

// noOpt disables every rewrite so tests can assert on the raw accumulator
// output without a loop-shape rewrite kicking in underneath it.
var noOpt = compiler.Options{}

func TestCompileFusion(t *testing.T) {
	cases := []struct {
		desc string
		in   string
		want compiler.Instructions
	}{
		{"empty", "", nil},
		{"single add", "+", compiler.Instructions{{Op: compiler.Add, Arg: 1}}},
		{"run of adds", "+++", compiler.Instructions{{Op: compiler.Add, Arg: 3}}},
		{"mixed run", "+++---", compiler.Instructions{
			{Op: compiler.Add, Arg: 3},
			{Op: compiler.Sub, Arg: 3},
		}},
		{"non-bf bytes are ignored", "+ comment \n +", compiler.Instructions{
			{Op: compiler.Add, Arg: 2},
		}},
		{"run caps at 255 and starts a new instr", func() string {
			s := make([]byte, 256)
			for i := range s {
				s[i] = '+'
			}
			return string(s)
		}(), compiler.Instructions{
			{Op: compiler.Add, Arg: 255},
			{Op: compiler.Add, Arg: 1},
		}},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			got, err := compiler.Compile([]byte(c.in), compiler.Options{FuseAdjacent: true})
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestCompileFuseSetAdd(t *testing.T) {
	// [-] collapses to Set 0 under loop-set-zero; a following run of + that
	// is itself flushed before end of input (here, by the trailing '.')
	// folds into that Set rather than emitting a separate Add.
	opts := compiler.Options{FuseAdjacent: true, FuseSetAdd: true, LoopSetZero: true}
	got, err := compiler.Compile([]byte("[-]+++."), opts)
	require.NoError(t, err)
	assert.Equal(t, compiler.Instructions{
		{Op: compiler.Set, Arg: 3},
		{Op: compiler.PutCh, Arg: 1},
	}, got)
}

func TestCompileFuseSetAddNotAtEOF(t *testing.T) {
	// Per spec, a trailing accumulator run at end of input is flushed
	// without the fuse_set_add merge, even though it directly follows a
	// Set instruction.
	opts := compiler.Options{FuseAdjacent: true, FuseSetAdd: true, LoopSetZero: true}
	got, err := compiler.Compile([]byte("[-]+++"), opts)
	require.NoError(t, err)
	assert.Equal(t, compiler.Instructions{
		{Op: compiler.Set, Arg: 0},
		{Op: compiler.Add, Arg: 3},
	}, got)
}

func TestCompileBracketErrors(t *testing.T) {
	cases := []struct {
		desc string
		in   string
		want string
	}{
		{"unmatched close", "+]+", "unmatched ']'"},
		{"unmatched open", "+[+", "unmatched '['"},
		{"nested unmatched open", "[[+]", "unmatched '['"},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, err := compiler.Compile([]byte(c.in), compiler.DefaultOptions())
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.want)
			var berr *compiler.BracketError
			require.ErrorAs(t, err, &berr)
		})
	}
}

func TestCompileUnmatchedOpenReportsInnermost(t *testing.T) {
	// Two dangling '[' never closed: the reported position must be the
	// last (innermost, most-recently-pushed) one, not the first.
	_, err := compiler.Compile([]byte("[[+"), compiler.DefaultOptions())
	require.Error(t, err)
	var berr *compiler.BracketError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, token.MakePos(1, 2), berr.Pos)
}

func TestCompileJumpPairing(t *testing.T) {
	// A loop that cannot be rewritten by any shape pass (fuse-everything
	// disabled) must still produce a JZ/JNZ pair whose offsets land each on
	// the other's instruction-after, preserving the jump-pairing invariant.
	got, err := compiler.Compile([]byte("+[>,.<]"), noOpt)
	require.NoError(t, err)
	require.Len(t, got, 7)
	assert.Equal(t, compiler.JZ, got[1].Op)
	assert.Equal(t, compiler.JNZ, got[6].Op)
	// JZ at index 1 jumping past the loop lands at 1 + off + 1 == 7.
	assert.EqualValues(t, 5, got[1].Off)
	// JNZ at index 6 jumping back to the body start lands at 6 + off + 1 == 2.
	assert.EqualValues(t, -5, got[6].Off)
}

func TestCompileNeverReducesToNothing(t *testing.T) {
	// +[] must not be optimised away: the loop body is empty (no Add/Sub to
	// sum), so set-zero does not apply, and the loop runs forever if the
	// cell is nonzero -- which it is here.
	got, err := compiler.Compile([]byte("+[]"), compiler.DefaultOptions())
	require.NoError(t, err)
	var sawJZ bool
	for _, in := range got {
		if in.Op == compiler.JZ {
			sawJZ = true
		}
	}
	assert.True(t, sawJZ, "expected the infinite loop to survive compilation: %v", got)
}

func TestCompileClassicalMove(t *testing.T) {
	// The textbook "move cell 0 into cell 2" idiom.
	got, err := compiler.Compile([]byte("+>+>+<<[->>+<<]"), compiler.DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, compiler.Set, last.Op)
	assert.EqualValues(t, 0, last.Arg)

	var sawCMul bool
	for _, in := range got {
		if in.Op == compiler.CMul && in.Off == 2 && in.Arg == 1 {
			sawCMul = true
		}
	}
	assert.True(t, sawCMul, "expected a CMul{1,2}: %v", got)
}
