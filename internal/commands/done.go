package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
)

func init() {
	Register(func() Command { return NewDoneCmd() })
	Register(func() Command { return NewReopenCmd() })
}

// ToggleCmd implements the done and reopen commands.
type ToggleCmd struct {
	taskCommand
	name      string
	synopsis  string
	completed bool
}

// NewDoneCmd returns the command that marks a task completed.
func NewDoneCmd() *ToggleCmd {
	return &ToggleCmd{
		taskCommand: taskCommand{filter: service.FilterAll.String()},
		name:        "done",
		synopsis:    "Mark a task completed",
		completed:   true,
	}
}

// NewReopenCmd returns the command that marks a task pending again.
func NewReopenCmd() *ToggleCmd {
	return &ToggleCmd{
		taskCommand: taskCommand{filter: service.FilterAll.String()},
		name:        "reopen",
		synopsis:    "Mark a task pending again",
		completed:   false,
	}
}

// SetFilter sets the filter positions refer to (for testing).
func (c *ToggleCmd) SetFilter(filter string) {
	c.filter = filter
}

// SetArgs sets the task reference (for testing).
func (c *ToggleCmd) SetArgs(args []string) {
	c.args = args
}

func (c *ToggleCmd) Name() string       { return c.name }
func (c *ToggleCmd) Aliases() []string  { return nil }
func (c *ToggleCmd) Synopsis() string   { return c.synopsis }
func (c *ToggleCmd) NeedsBackend() bool { return true }

func (c *ToggleCmd) Register(cmd *kingpin.CmdClause) {
	registerFilterFlag(cmd, &c.filter)
	cmd.Arg("ref", "Task number in the listed filter, or @<id>.").StringsVar(&c.args)
}

func (c *ToggleCmd) Run(ctx context.Context, env *Env) int {
	id, code, ok := c.target(ctx, env)
	if !ok {
		return code
	}

	surface := &console{out: env.Out, errOut: env.ErrOut, quiet: env.Config.Quiet}
	v, err := newView(env, surface, output.Text{}, nil)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	return failureCode(v.ToggleTask(ctx, id, c.completed))
}
