package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"watchlater/internal/config"
	"watchlater/internal/exitcode"
	"watchlater/internal/output"
	"watchlater/internal/service"
)

func init() {
	Register(&StateCmd{})
}

// StateCmd prints the whole saved state as JSON.
type StateCmd struct{}

func (c *StateCmd) Name() string       { return "state" }
func (c *StateCmd) Aliases() []string  { return []string{"export"} }
func (c *StateCmd) Synopsis() string   { return "Print saved state as JSON" }
func (c *StateCmd) Usage() string      { return "watchlater state" }
func (c *StateCmd) NeedsService() bool { return true }

func (c *StateCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if err := output.FormatState(out, svc.GetState(ctx)); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
