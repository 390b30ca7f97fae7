// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by the CLI.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown list, last list).
	UserError = 1

	// AuthError indicates an auth or config error.
	AuthError = 2

	// BackendError indicates a storage or remote API error.
	BackendError = 3
)
