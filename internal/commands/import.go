package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"watchlater/internal/config"
	"watchlater/internal/exitcode"
	"watchlater/internal/request"
	"watchlater/internal/service"
)

func init() {
	Register(&ImportCmd{})
}

// ImportCmd replaces the saved state with a validated JSON document.
type ImportCmd struct {
	// Stdin is read when the file argument is "-". Nil means os.Stdin.
	Stdin io.Reader
}

func (c *ImportCmd) Name() string       { return "import" }
func (c *ImportCmd) Aliases() []string  { return nil }
func (c *ImportCmd) Synopsis() string   { return "Replace saved state from a JSON file" }
func (c *ImportCmd) Usage() string      { return "watchlater import <file|->" }
func (c *ImportCmd) NeedsService() bool { return true }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: exactly one file required")
		return exitcode.UserError
	}

	var in io.Reader
	if args[0] == "-" {
		in = c.Stdin
		if in == nil {
			in = os.Stdin
		}
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		defer f.Close()
		in = f
	}

	st, err := request.ParseState(in)
	if err != nil {
		return fail(errOut, err)
	}

	if !svc.SetState(ctx, st) {
		fmt.Fprintln(errOut, "error: failed to save state")
		return exitcode.BackendError
	}

	printOK(cfg, out, len(st.Lists), len(st.Items))
	return exitcode.Success
}
