// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, bad task reference, task not found).
	UserError = 1

	// ConfigError indicates an unreadable config file or an invalid backend URL.
	ConfigError = 2

	// BackendError indicates a backend/network error or a non-2xx answer.
	BackendError = 3
)
