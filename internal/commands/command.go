// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"watchlater/internal/config"
	"watchlater/internal/errors"
	"watchlater/internal/exitcode"
	"watchlater/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsService returns true if the command reads or writes saved state.
	// Commands like help, version, login, logout return false.
	NeedsService() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths, settings).
	// svc is nil if NeedsService() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// ExitCode maps an error category to the process exit code.
func ExitCode(err error) int {
	switch errors.GetCategory(err) {
	case errors.CategoryValidation, errors.CategoryNotFound, errors.CategoryInvariant:
		return exitcode.UserError
	case errors.CategoryConfig, errors.CategoryAuth:
		return exitcode.AuthError
	default:
		return exitcode.BackendError
	}
}

// fail prints err and returns its exit code.
func fail(errOut io.Writer, err error) int {
	fmt.Fprintf(errOut, "error: %s\n", message(err))
	return ExitCode(err)
}

// messageContext are the context fields shown to users, in order.
var messageContext = []string{"list_id", "field", "reason"}

// message renders err for users. Structured errors print their message,
// context and cause without the category prefix.
func message(err error) string {
	e, ok := errors.As(err)
	if !ok {
		return err.Error()
	}
	msg := e.Message
	for _, key := range messageContext {
		if v, ok := e.Context[key]; ok {
			msg = fmt.Sprintf("%s: %v", msg, v)
		}
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// printOK prints the success line unless quiet.
func printOK(cfg *config.Config, out io.Writer, detail ...any) {
	if cfg.Quiet {
		return
	}
	if len(detail) == 0 {
		fmt.Fprintln(out, "ok")
		return
	}
	fmt.Fprintln(out, append([]any{"ok"}, detail...)...)
}
