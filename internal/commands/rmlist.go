package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"watchlater/internal/config"
	"watchlater/internal/exitcode"
	"watchlater/internal/service"
)

func init() {
	Register(&RmListCmd{})
}

// RmListCmd implements the rmlist command.
// Items are deleted with the list unless --keep or --move-to is given.
type RmListCmd struct {
	keep   bool
	moveTo string
}

// SetKeep sets the keep flag (for testing).
func (c *RmListCmd) SetKeep(keep bool) {
	c.keep = keep
}

// SetMoveTo sets the destination list (for testing).
func (c *RmListCmd) SetMoveTo(id string) {
	c.moveTo = id
}

func (c *RmListCmd) Name() string      { return "rmlist" }
func (c *RmListCmd) Aliases() []string { return nil }
func (c *RmListCmd) Synopsis() string  { return "Delete a list" }
func (c *RmListCmd) Usage() string {
	return "watchlater rmlist [--keep] [--move-to <list-id>] <list-id>"
}
func (c *RmListCmd) NeedsService() bool { return true }

func (c *RmListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.keep, "keep", false, "")
	fs.StringVar(&c.moveTo, "move-to", "", "")
}

func (c *RmListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	listID := strings.TrimSpace(strings.Join(args, " "))
	if listID == "" {
		fmt.Fprintln(errOut, "error: list id required")
		return exitcode.UserError
	}

	opts := service.DefaultDeleteListOptions()
	if c.keep || c.moveTo != "" {
		opts.Cascade = false
		opts.MoveToID = strings.TrimSpace(c.moveTo)
	}

	res, err := svc.DeleteList(ctx, listID, opts)
	if err != nil {
		return fail(errOut, err)
	}

	if res.DestFallback {
		fmt.Fprintf(errOut, "warning: list not usable as destination: %s (moved to %s)\n", opts.MoveToID, res.DestID)
	}
	if cfg.Quiet {
		return exitcode.Success
	}
	if opts.Cascade {
		fmt.Fprintf(out, "ok deleted %d\n", res.Deleted)
	} else {
		fmt.Fprintf(out, "ok moved %d to %s\n", res.Moved, res.DestID)
	}
	return exitcode.Success
}
