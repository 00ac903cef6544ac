package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/bfo/lang/compiler"
)

// Dump compiles the source file at args[0] and prints the disassembled
// instruction stream, one instruction per line, without executing it.
func (c *Cmd) Dump(ctx context.Context, stdio mainer.Stdio, args []string) error {
	ins, err := c.compileFile(stdio, args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(stdio.Stdout, compiler.Disassemble(ins))
	return nil
}
