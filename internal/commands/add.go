package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"tasklist/internal/exitcode"
	"tasklist/internal/output"
)

func init() {
	Register(func() Command { return &AddCmd{} })
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	args        []string
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(description string) {
	c.description = description
}

// SetArgs sets the title words (for testing).
func (c *AddCmd) SetArgs(args []string) {
	c.args = args
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) Register(cmd *kingpin.CmdClause) {
	cmd.Flag("description", "Task description.").Short('d').StringVar(&c.description)
	cmd.Arg("title", "Task title.").StringsVar(&c.args)
}

func (c *AddCmd) Run(ctx context.Context, env *Env) int {
	// Join args to form title
	title := strings.Join(c.args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(env.ErrOut, "error: title required")
		return exitcode.UserError
	}

	surface := &console{out: env.Out, errOut: env.ErrOut, quiet: env.Config.Quiet}
	v, err := newView(env, surface, output.Text{}, nil)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	return failureCode(v.CreateTask(ctx, title, c.description))
}
