// Package machine implements the dispatch loop that executes a compiled
// instruction stream against a fixed-size, wrapping byte tape.
package machine

import (
	"bufio"
	"io"

	"github.com/mna/bfo/lang/compiler"
)

// TapeSize is the fixed number of cells on the tape. It never grows.
const TapeSize = 30000

// Tape is the fixed byte array the machine operates on, plus the current
// data pointer. The zero value is a freshly zeroed tape with dp at 0.
type Tape struct {
	Mem [TapeSize]byte
	DP  int
}

// Get returns the value of cell i.
func (t *Tape) Get(i int) byte { return t.Mem[i] }

// Run executes ins against a fresh tape, reading GetCh bytes from stdin and
// writing PutCh bytes to stdout. It is the pure side-effecting procedure
// spec.md describes: it returns only on completion or on a stdout write
// error, never on program-internal conditions (an out-of-range CMul/CNMul
// target or a SeekL/SeekR run-off is a programmer bug and panics, per
// spec.md §7).
func Run(ins compiler.Instructions, stdin io.Reader, stdout io.Writer) error {
	_, err := RunTape(ins, stdin, stdout)
	return err
}

// RunTape behaves like Run but also returns the final tape state, for tests
// and tools that need to inspect memory after execution.
func RunTape(ins compiler.Instructions, stdin io.Reader, stdout io.Writer) (*Tape, error) {
	return run(ins, stdin, stdout, nil)
}

// run is the shared dispatch loop. stats may be nil; when non-nil each
// executed instruction's Op is tallied into it.
func run(ins compiler.Instructions, stdin io.Reader, stdout io.Writer, stats *Stats) (*Tape, error) {
	var tape Tape

	in := bufio.NewReader(stdin)
	out := bufio.NewWriter(stdout)

	var werr error
	ip := 0
loop:
	for ip < len(ins) {
		instr := ins[ip]
		if stats != nil {
			stats.count(instr.Op)
		}

		switch instr.Op {
		case compiler.Add:
			tape.Mem[tape.DP] += instr.Arg

		case compiler.Sub:
			tape.Mem[tape.DP] -= instr.Arg

		case compiler.Left:
			n := int(instr.Arg)
			if n > tape.DP {
				tape.DP = 0
			} else {
				tape.DP -= n
			}

		case compiler.Right:
			tape.DP += int(instr.Arg)
			if tape.DP > TapeSize-1 {
				tape.DP = TapeSize - 1
			}

		case compiler.PutCh:
			for i := uint8(0); i < instr.Arg; i++ {
				if err := out.WriteByte(tape.Mem[tape.DP]); err != nil {
					werr = err
					break loop
				}
			}

		case compiler.GetCh:
			// Only the last byte read is kept; a failed read (including
			// EOF) leaves the cell unchanged.
			for i := uint8(0); i < instr.Arg; i++ {
				b, err := in.ReadByte()
				if err == nil {
					tape.Mem[tape.DP] = b
				}
			}

		case compiler.JZ:
			if tape.Mem[tape.DP] == 0 {
				ip += int(instr.Off)
			}

		case compiler.JNZ:
			if tape.Mem[tape.DP] != 0 {
				ip += int(instr.Off)
			}

		case compiler.J:
			ip += int(instr.Off)

		case compiler.Set:
			tape.Mem[tape.DP] = instr.Arg

		case compiler.CMul:
			t := tape.DP + int(instr.Off)
			tape.Mem[t] += tape.Mem[tape.DP] * instr.Arg

		case compiler.CNMul:
			t := tape.DP + int(instr.Off)
			tape.Mem[t] -= tape.Mem[tape.DP] * instr.Arg

		case compiler.SeekL:
			for tape.Mem[tape.DP] != 0 {
				tape.DP--
			}

		case compiler.SeekR:
			for tape.Mem[tape.DP] != 0 {
				tape.DP++
			}
		}
		ip++
	}

	if werr != nil {
		return &tape, werr
	}
	if err := out.Flush(); err != nil {
		return &tape, err
	}
	return &tape, nil
}
