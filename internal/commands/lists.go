package commands

import (
	"context"
	"flag"
	"io"

	"watchlater/internal/config"
	"watchlater/internal/exitcode"
	"watchlater/internal/output"
	"watchlater/internal/service"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command.
type ListsCmd struct{}

func (c *ListsCmd) Name() string       { return "lists" }
func (c *ListsCmd) Aliases() []string  { return nil }
func (c *ListsCmd) Synopsis() string   { return "List all lists" }
func (c *ListsCmd) Usage() string      { return "watchlater lists" }
func (c *ListsCmd) NeedsService() bool { return true }

func (c *ListsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	st := svc.GetState(ctx)
	for i, list := range st.Lists {
		output.FormatListName(out, list, i == 0, len(st.ItemsIn(list.ID)))
	}
	return exitcode.Success
}
