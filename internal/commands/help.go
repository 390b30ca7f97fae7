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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "watchlater help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  watchlater                                   List all saved items
  watchlater list [common flags] [<list-id>]   List items in one list
  watchlater lists [common flags]
  watchlater add [common flags] [--list <list-id>] <title...>
  watchlater create [common flags] [--list <list-id>] <title...>
  watchlater rm [common flags] <item-id...>
  watchlater createlist [common flags] [<list-name...>]
  watchlater addlist [common flags] [<list-name...>]
  watchlater rmlist [common flags] [--keep] [--move-to <list-id>] <list-id>
  watchlater state [common flags]
  watchlater import [common flags] <file|->
  watchlater push [common flags]
  watchlater login [common flags]
  watchlater logout [common flags]
  watchlater help
  watchlater version

Without --keep or --move-to, rmlist deletes the list's items too.
createlist asks for a name when none is given.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
