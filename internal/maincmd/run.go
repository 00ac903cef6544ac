package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/mna/bfo/lang/machine"
)

// Run compiles the source file at args[0] and executes it, reading GetCh
// bytes from stdio.Stdin and writing PutCh bytes to stdio.Stdout. It is the
// default subcommand when only a path is given.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	ins, err := c.compileFile(stdio, args[0])
	if err != nil {
		return err
	}
	if err := machine.Run(ins, stdio.Stdin, stdio.Stdout); err != nil {
		return printError(stdio, err)
	}
	return nil
}
