package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"watchlater/internal/backend/googletasks"
	"watchlater/internal/config"
	"watchlater/internal/exitcode"
	"watchlater/internal/service"
)

func init() {
	Register(&PushCmd{})
}

// Pusher mirrors a State to a remote task service.
type Pusher interface {
	Push(ctx context.Context, st service.State) (googletasks.PushResult, error)
}

// PushCmd mirrors lists and items into Google Tasks.
type PushCmd struct {
	// Connect creates the Pusher. Nil means googletasks.New.
	Connect func(ctx context.Context, cfg *config.Config) (Pusher, error)
}

func (c *PushCmd) Name() string       { return "push" }
func (c *PushCmd) Aliases() []string  { return []string{"sync"} }
func (c *PushCmd) Synopsis() string   { return "Copy lists and items to Google Tasks" }
func (c *PushCmd) Usage() string      { return "watchlater push" }
func (c *PushCmd) NeedsService() bool { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PushCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	connect := c.Connect
	if connect == nil {
		// Check for required auth files and report user-friendly errors
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return exitcode.AuthError
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: watchlater login)")
			return exitcode.AuthError
		}
		connect = func(ctx context.Context, cfg *config.Config) (Pusher, error) {
			return googletasks.New(ctx, cfg)
		}
	}

	pusher, err := connect(ctx, cfg)
	if err != nil {
		return fail(errOut, err)
	}

	res, err := pusher.Push(ctx, svc.GetState(ctx))
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok lists created %d, tasks created %d, skipped %d\n",
			res.ListsCreated, res.TasksCreated, res.TasksSkipped)
	}
	return exitcode.Success
}
