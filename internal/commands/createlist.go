package commands

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"watchlater/internal/config"
	"watchlater/internal/exitcode"
	"watchlater/internal/prompt"
	"watchlater/internal/service"
)

func init() {
	Register(&CreateListCmd{})
	Register(&AddListCmd{})
}

// CreateListCmd implements the createlist command.
type CreateListCmd struct {
	// Prompt asks for a name when none is given. Nil selects the terminal
	// line with an editor fallback.
	Prompt prompt.NameRequester
}

func (c *CreateListCmd) Name() string       { return "createlist" }
func (c *CreateListCmd) Aliases() []string  { return nil }
func (c *CreateListCmd) Synopsis() string   { return "Create a new list" }
func (c *CreateListCmd) Usage() string      { return "watchlater createlist [<list-name...>]" }
func (c *CreateListCmd) NeedsService() bool { return true }

func (c *CreateListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CreateListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runCreateList(ctx, cfg, svc, c.Prompt, args, out, errOut)
}

// AddListCmd is an alias for CreateListCmd.
type AddListCmd struct {
	Prompt prompt.NameRequester
}

func (c *AddListCmd) Name() string       { return "addlist" }
func (c *AddListCmd) Aliases() []string  { return nil }
func (c *AddListCmd) Synopsis() string   { return "Create a new list (alias for createlist)" }
func (c *AddListCmd) Usage() string      { return "watchlater addlist [<list-name...>]" }
func (c *AddListCmd) NeedsService() bool { return true }

func (c *AddListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runCreateList(ctx, cfg, svc, c.Prompt, args, out, errOut)
}

func defaultPrompt() prompt.NameRequester {
	return prompt.Fallback{Primary: prompt.NewStdinLine(), Secondary: prompt.NewEnvEditor()}
}

// runCreateList is the shared implementation for createlist and addlist commands.
func runCreateList(ctx context.Context, cfg *config.Config, svc service.Service, p prompt.NameRequester, args []string, out, errOut io.Writer) int {
	name := strings.TrimSpace(strings.Join(args, " "))

	// No name given: ask for one
	if name == "" {
		if p == nil {
			p = defaultPrompt()
		}
		asked, err := p.RequestName(ctx, "")
		switch {
		case stderrors.Is(err, prompt.ErrCanceled):
			if !cfg.Quiet {
				fmt.Fprintln(out, "canceled")
			}
			return exitcode.Success
		case stderrors.Is(err, prompt.ErrUnavailable):
			fmt.Fprintln(errOut, "error: list name required")
			return exitcode.UserError
		case err != nil:
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		name = asked
	}

	list, err := svc.CreateList(ctx, name)
	if err != nil {
		return fail(errOut, err)
	}
	if list == nil {
		fmt.Fprintln(errOut, "error: list name required")
		return exitcode.UserError
	}

	printOK(cfg, out, list.ID)
	return exitcode.Success
}
