package compiler

import (
	"fmt"

	"github.com/mna/bfo/lang/token"
)

// BracketError reports a source position with an unmatched '[' or ']'.
type BracketError struct {
	Pos token.Pos
	Msg string
}

func (e *BracketError) Error() string {
	if e.Pos.Unknown() {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Compile lowers source into a compact instruction stream, applying the
// peephole and loop-shape rewrites enabled in opts. The only compile-time
// error is bracket imbalance.
func Compile(source []byte, opts Options) (Instructions, error) {
	c := &pcomp{opts: opts, line: 1, col: 1}
	for _, b := range source {
		if op, ok := fusible(b); ok {
			c.accumulate(op)
		} else if b == '[' {
			c.flush(false)
			c.instrs = append(c.instrs, Instr{Op: JZ})
			c.jumps = append(c.jumps, len(c.instrs)-1)
			c.jumpPos = append(c.jumpPos, token.MakePos(c.line, c.col))
		} else if b == ']' {
			c.flush(false)
			if len(c.jumps) == 0 {
				return nil, &BracketError{Pos: token.MakePos(c.line, c.col), Msg: "unmatched ']'"}
			}
			start := c.jumps[len(c.jumps)-1]
			c.jumps = c.jumps[:len(c.jumps)-1]
			c.jumpPos = c.jumpPos[:len(c.jumpPos)-1]

			here := len(c.instrs)
			c.instrs = append(c.instrs, Instr{Op: JNZ, Off: int32(start - here)})
			c.instrs[start].Off = int32(here - start)

			if repl, ok := optimiseLoop(c.instrs, start, opts); ok {
				c.instrs = append(c.instrs[:start], repl...)
			}
		}

		if b == '\n' {
			c.line++
			c.col = 1
		} else {
			c.col++
		}
	}
	c.flush(true)

	if len(c.jumps) > 0 {
		return nil, &BracketError{Pos: c.jumpPos[len(c.jumpPos)-1], Msg: "unmatched '['"}
	}
	return c.instrs, nil
}

// pcomp holds the single-pass compiler state.
type pcomp struct {
	opts Options

	instrs  Instructions
	jumps   []int       // stack of indices into instrs of open JZ slots
	jumpPos []token.Pos // parallel stack of source positions, for errors

	accumulating bool
	accOp        Op
	accN         int

	line, col int
}

// accumulate folds op (a fusible primitive op) into the run-length
// accumulator, flushing the previous run first if op changes, the run
// would overflow a byte, or fusion is disabled (which forces every
// character to flush as its own run of one).
func (c *pcomp) accumulate(op Op) {
	if c.accumulating && c.accOp == op && c.opts.FuseAdjacent && c.accN < 255 {
		c.accN++
		return
	}
	c.flush(false)
	c.accumulating = true
	c.accOp = op
	c.accN = 1
}

// flush emits (or folds) the pending accumulator run. atEOF disables the
// fuse_set_add fold, per spec.
func (c *pcomp) flush(atEOF bool) {
	if !c.accumulating {
		return
	}
	op, n := c.accOp, c.accN
	c.accumulating = false
	c.accN = 0

	if !atEOF && c.opts.FuseSetAdd && len(c.instrs) > 0 && (op == Add || op == Sub) {
		if last := &c.instrs[len(c.instrs)-1]; last.Op == Set {
			delta := n
			if op == Sub {
				delta = -delta
			}
			last.Arg = uint8(int(last.Arg) + delta)
			return
		}
	}
	c.instrs = append(c.instrs, Instr{Op: op, Arg: uint8(n)})
}
