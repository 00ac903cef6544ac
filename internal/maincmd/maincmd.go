// Package maincmd wires the bfo CLI's commands to the compiler and machine
// packages. It is kept separate from cmd/bfo so it can be driven directly
// from tests via an in-memory mainer.Stdio.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "bfo"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<command>] <path>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<command>] <path>
       %[1]s -h|--help
       %[1]s -v|--version

An optimizing compiler and interpreter for an eight-symbol tape language.

The <command> can be one of:
       run                       Compile and execute the source file
                                 (the default when only a path is given).
       dump                      Compile and print the disassembled
                                 instruction stream.
       stats                     Compile, run, and print an opcode
                                 execution-frequency report.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Valid flag options for all commands:
       --no-fuse-adjacent        Disable run-length fusion of adjacent
                                 primitives.
       --no-fuse-set-add         Disable folding +/- runs into a
                                 preceding Set.
       --no-loop-set-zero        Disable the [-]/[+] -> Set 0 rewrite.
       --no-loop-copy-multiply   Disable the copy-multiply loop rewrite.
       --loop-seek-lr            Enable the [<]/[>] -> SeekL/SeekR rewrite
                                 (disabled by default).
       --no-loop-set-jump        Disable the dead-loop / unconditional
                                 back-edge rewrite.

More information on the bfo repository:
       https://github.com/mna/bfo
`, binName)
)

// Cmd holds the parsed command-line flags and dispatches to the matching
// subcommand method.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	NoFuseAdjacent     bool `flag:"no-fuse-adjacent"`
	NoFuseSetAdd       bool `flag:"no-fuse-set-add"`
	NoLoopSetZero      bool `flag:"no-loop-set-zero"`
	NoLoopCopyMultiply bool `flag:"no-loop-copy-multiply"`
	LoopSeekLR         bool `flag:"loop-seek-lr"`
	NoLoopSetJump      bool `flag:"no-loop-set-jump"`

	args  []string
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

// errNoPath is returned by Validate when no path argument was given at all;
// Main recognizes it and prints the literal USAGE line rather than an
// invalid-arguments message.
var errNoPath = errors.New("no path specified")

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errNoPath
	}

	commands := buildCmds(c)

	cmdName := "run"
	path := c.args[0]
	if _, ok := commands[c.args[0]]; ok {
		cmdName = c.args[0]
		if len(c.args) < 2 {
			return fmt.Errorf("%s: a source file path is required", cmdName)
		}
		path = c.args[1]
	}
	c.cmdFn = commands[cmdName]
	c.args = []string{path}
	return nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

// Main runs the command-line tool: it parses args, dispatches to the
// selected subcommand, and returns a process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	if err := c.Validate(); err != nil {
		if errors.Is(err, errNoPath) {
			fmt.Fprintln(stdio.Stdout, "USAGE: bfo <file>")
			return mainer.InvalidArgs
		}
		fmt.Fprintf(stdio.Stderr, "%s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args); err != nil {
		// each command takes care of printing its own errors
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds reflects over v's methods to find the ones matching the
// subcommand signature (context, stdio, args) error, keyed by lowercased
// method name.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
