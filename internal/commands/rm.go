package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
	"tasklist/internal/view"
)

func init() {
	Register(func() Command { return NewRmCmd() })
}

// RmCmd implements the rm command.
type RmCmd struct {
	taskCommand
	yes bool
}

// NewRmCmd returns the rm command with positions referring to all tasks.
func NewRmCmd() *RmCmd {
	return &RmCmd{taskCommand: taskCommand{filter: service.FilterAll.String()}}
}

// SetFilter sets the filter positions refer to (for testing).
func (c *RmCmd) SetFilter(filter string) {
	c.filter = filter
}

// SetYes skips the confirmation prompt (for testing).
func (c *RmCmd) SetYes(yes bool) {
	c.yes = yes
}

// SetArgs sets the task reference (for testing).
func (c *RmCmd) SetArgs(args []string) {
	c.args = args
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) Register(cmd *kingpin.CmdClause) {
	registerFilterFlag(cmd, &c.filter)
	cmd.Flag("yes", "Do not ask for confirmation.").Short('y').BoolVar(&c.yes)
	cmd.Arg("ref", "Task number in the listed filter, or @<id>.").StringsVar(&c.args)
}

func (c *RmCmd) Run(ctx context.Context, env *Env) int {
	id, code, ok := c.target(ctx, env)
	if !ok {
		return code
	}

	var confirmer view.Confirmer = promptConfirmer{in: env.In, out: env.ErrOut}
	if c.yes {
		confirmer = alwaysConfirm
	}

	surface := &console{out: env.Out, errOut: env.ErrOut, quiet: env.Config.Quiet}
	v, err := newView(env, surface, output.Text{}, confirmer)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	confirmed, err := v.DeleteTask(ctx, id)
	if err != nil {
		return failureCode(err)
	}
	if !confirmed && !env.Config.Quiet {
		fmt.Fprintln(env.Out, "not deleted")
	}
	return exitcode.Success
}
