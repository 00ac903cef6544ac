package maincmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/bfo/lang/compiler"
)

// options builds the compiler.Options value requested by the parsed flags,
// starting from compiler.DefaultOptions and applying the negations (and the
// one addition, --loop-seek-lr) the user asked for.
func (c *Cmd) options() compiler.Options {
	o := compiler.DefaultOptions()
	if c.NoFuseAdjacent {
		o.FuseAdjacent = false
	}
	if c.NoFuseSetAdd {
		o.FuseSetAdd = false
	}
	if c.NoLoopSetZero {
		o.LoopSetZero = false
	}
	if c.NoLoopCopyMultiply {
		o.LoopCopyMultiply = false
	}
	if c.LoopSeekLR {
		o.LoopSeekLR = true
	}
	if c.NoLoopSetJump {
		o.LoopSetJump = false
	}
	return o
}

// compileFile reads the source file at path and compiles it with c's
// options, printing the two literal diagnostics spec.md's CLI contract
// requires on stdout before returning a non-nil error.
func (c *Cmd) compileFile(stdio mainer.Stdio, path string) (compiler.Instructions, error) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(stdio.Stdout, "ERROR: could not open file.")
		return nil, err
	}
	defer f.Close()

	src, err := io.ReadAll(f)
	if err != nil {
		fmt.Fprintln(stdio.Stdout, "ERROR: could not open file.")
		return nil, err
	}

	ins, err := compiler.Compile(src, c.options())
	if err != nil {
		fmt.Fprintln(stdio.Stdout, "ERROR: could not compile code (are your brackets matched?")
		return nil, err
	}
	return ins, nil
}
