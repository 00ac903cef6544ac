package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/bfo/lang/machine"
)

// Stats compiles the source file at args[0], runs it, and prints an
// opcode execution-frequency report.
func (c *Cmd) Stats(ctx context.Context, stdio mainer.Stdio, args []string) error {
	ins, err := c.compileFile(stdio, args[0])
	if err != nil {
		return err
	}
	stats, err := machine.RunWithStats(ins, stdio.Stdin, stdio.Stdout)
	if err != nil {
		return printError(stdio, err)
	}
	fmt.Fprint(stdio.Stdout, stats.Format())
	return nil
}
