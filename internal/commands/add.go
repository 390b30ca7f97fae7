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
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	listID string
}

// SetListID sets the target list (for testing).
func (c *AddCmd) SetListID(id string) {
	c.listID = id
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return nil }
func (c *AddCmd) Synopsis() string   { return "Save a title" }
func (c *AddCmd) Usage() string      { return "watchlater add [--list <list-id>] <title...>" }
func (c *AddCmd) NeedsService() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listID, "list", "", "")
	fs.StringVar(&c.listID, "l", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.listID, args, out, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct {
	listID string
}

func (c *CreateCmd) Name() string       { return "create" }
func (c *CreateCmd) Aliases() []string  { return nil }
func (c *CreateCmd) Synopsis() string   { return "Save a title (alias for add)" }
func (c *CreateCmd) Usage() string      { return "watchlater create [--list <list-id>] <title...>" }
func (c *CreateCmd) NeedsService() bool { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.listID, "list", "", "")
	fs.StringVar(&c.listID, "l", "", "")
}

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, c.listID, args, out, errOut)
}

// runAdd is the shared implementation for add and create commands.
func runAdd(ctx context.Context, cfg *config.Config, svc service.Service, listID string, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	// Resolve list; default is the first one
	st := svc.GetState(ctx)
	listID = strings.TrimSpace(listID)
	if listID == "" {
		listID = st.Lists[0].ID
	} else if !st.HasList(listID) {
		fmt.Fprintf(errOut, "error: list not found: %s\n", listID)
		return exitcode.UserError
	}

	item, err := svc.AddItem(ctx, service.AddItemParams{ListID: listID, Title: title})
	if err != nil {
		return fail(errOut, err)
	}
	if item == nil {
		// Nothing left after sanitizing, e.g. only quotes
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	if isExisting(st, item) {
		if !cfg.Quiet {
			fmt.Fprintf(out, "already saved %s\n", item.ID)
		}
		return exitcode.Success
	}
	printOK(cfg, out, item.ID)
	return exitcode.Success
}

// isExisting reports whether item was already in st when it was read.
func isExisting(st service.State, item *service.Item) bool {
	for _, it := range st.Items {
		if it.ID == item.ID {
			return true
		}
	}
	return false
}
