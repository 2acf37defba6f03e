package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"tasklist/internal/config"
	"tasklist/internal/exitcode"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

func init() {
	Register(func() Command { return &VersionCmd{} })
}

// VersionCmd implements the version command.
type VersionCmd struct{}

func (c *VersionCmd) Name() string       { return "version" }
func (c *VersionCmd) Aliases() []string  { return nil }
func (c *VersionCmd) Synopsis() string   { return "Print version" }
func (c *VersionCmd) NeedsBackend() bool { return false }

func (c *VersionCmd) Register(cmd *kingpin.CmdClause) {}

func (c *VersionCmd) Run(ctx context.Context, env *Env) int {
	fmt.Fprintf(env.Out, "%s %s\n", config.AppName, Version)
	return exitcode.Success
}
