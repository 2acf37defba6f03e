package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"tasklist/internal/exitcode"
	"tasklist/internal/tui"
)

// UICommandName is the command run when no command is given.
const UICommandName = "ui"

func init() {
	Register(func() Command { return &UICmd{} })
}

// UICmd implements the interactive terminal view.
type UICmd struct{}

func (c *UICmd) Name() string       { return UICommandName }
func (c *UICmd) Aliases() []string  { return nil }
func (c *UICmd) Synopsis() string   { return "Open the interactive task view" }
func (c *UICmd) NeedsBackend() bool { return true }

func (c *UICmd) Register(cmd *kingpin.CmdClause) {}

func (c *UICmd) Run(ctx context.Context, env *Env) int {
	err := tui.Run(ctx, tui.Config{
		Service:      env.Service,
		Logger:       env.Logger,
		MessageDelay: env.Config.MessageDelay,
		In:           env.In,
		Out:          env.Out,
	})
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
