package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/render"
	"tasklist/internal/service"
	"tasklist/internal/view"
)

func init() {
	Register(func() Command { return &ListCmd{filter: service.FilterAll.String()} })
}

// ListCmd implements the list command.
type ListCmd struct {
	filter string
	html   bool
}

// SetFilter sets the filter (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

// SetHTML selects the HTML renderer (for testing).
func (c *ListCmd) SetHTML(html bool) {
	c.html = html
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) Register(cmd *kingpin.CmdClause) {
	registerFilterFlag(cmd, &c.filter)
	cmd.Flag("html", "Print the list as HTML.").BoolVar(&c.html)
}

func (c *ListCmd) Run(ctx context.Context, env *Env) int {
	filter, err := service.ParseFilter(c.filter)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}

	var renderer view.Renderer = output.Text{}
	if c.html {
		renderer = render.HTML{}
	}

	surface := &console{out: env.Out, errOut: env.ErrOut, quiet: env.Config.Quiet, printList: true}
	v, err := newView(env, surface, renderer, nil)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	return failureCode(v.SetFilter(ctx, filter))
}

// registerFilterFlag adds the shared --filter flag.
func registerFilterFlag(cmd *kingpin.CmdClause, target *string) {
	cmd.Flag("filter", "Task subset: all, pending or completed.").
		Short('f').
		Default(service.FilterAll.String()).
		EnumVar(target, service.FilterAll.String(), service.FilterPending.String(), service.FilterCompleted.String())
}
