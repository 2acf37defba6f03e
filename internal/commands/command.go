// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"

	"github.com/alecthomas/kingpin/v2"

	"tasklist/internal/config"
	"tasklist/internal/log"
	"tasklist/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// NeedsBackend returns true if the command talks to the REST backend.
	// Commands like help and version return false.
	NeedsBackend() bool

	// Register registers command-specific flags and arguments.
	Register(cmd *kingpin.CmdClause)

	// Run executes the command and returns the exit code.
	Run(ctx context.Context, env *Env) int
}

// Env is what a command runs with.
type Env struct {
	// Config is always provided (config dir, backend URL, delays).
	Config *config.Config
	// Service is nil if NeedsBackend() returns false.
	Service service.Service
	Logger  log.Logger

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}
