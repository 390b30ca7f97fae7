package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"watchlater/internal/config"
	"watchlater/internal/exitcode"
	"watchlater/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return nil }
func (c *RmCmd) Synopsis() string   { return "Delete saved items" }
func (c *RmCmd) Usage() string      { return "watchlater rm <item-id...>" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: item id required")
		return exitcode.UserError
	}

	n, err := svc.DeleteMany(ctx, args)
	if err != nil {
		return fail(errOut, err)
	}
	if n == 0 {
		fmt.Fprintln(errOut, "error: no matching items")
		return exitcode.UserError
	}

	printOK(cfg, out, n)
	return exitcode.Success
}
