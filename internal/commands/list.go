package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"watchlater/internal/config"
	"watchlater/internal/exitcode"
	"watchlater/internal/output"
	"watchlater/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `watchlater` (no args) and `watchlater list <list-id>`.
type ListCmd struct{}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return nil }
func (c *ListCmd) Synopsis() string   { return "List saved items" }
func (c *ListCmd) Usage() string      { return "watchlater list [<list-id>]" }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	st := svc.GetState(ctx)

	// If no args, list every non-empty list
	if len(args) == 0 {
		return c.listAll(cfg, st, out)
	}

	listID := strings.TrimSpace(strings.Join(args, " "))
	if listID == "" {
		fmt.Fprintln(errOut, "error: list id required")
		return exitcode.UserError
	}
	return c.listOne(st, listID, out, errOut)
}

// listAll prints a section per list that has items.
func (c *ListCmd) listAll(cfg *config.Config, st service.State, out io.Writer) int {
	hasAnyItems := false
	for i, list := range st.Lists {
		items := st.ItemsIn(list.ID)
		if len(items) == 0 {
			continue // Skip empty lists
		}
		output.FormatListHeader(out, list, i == 0, len(items))
		for _, it := range items {
			output.FormatItemIndented(out, it)
		}
		hasAnyItems = true
	}

	if !hasAnyItems && !cfg.Quiet {
		fmt.Fprintln(out, "no items found")
	}
	return exitcode.Success
}

// listOne prints one list section, even if empty.
func (c *ListCmd) listOne(st service.State, listID string, out, errOut io.Writer) int {
	var (
		list  service.List
		found bool
		first bool
	)
	for i, l := range st.Lists {
		if l.ID == listID {
			list, found, first = l, true, i == 0
			break
		}
	}
	if !found {
		fmt.Fprintf(errOut, "error: list not found: %s\n", listID)
		return exitcode.UserError
	}

	items := st.ItemsIn(list.ID)
	output.FormatListHeader(out, list, first, len(items))
	for _, it := range items {
		output.FormatItemIndented(out, it)
	}
	return exitcode.Success
}
