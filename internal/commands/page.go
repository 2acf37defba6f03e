package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"tasklist/internal/exitcode"
	"tasklist/internal/render"
	"tasklist/internal/service"
)

func init() {
	Register(func() Command { return &PageCmd{filter: service.FilterAll.String()} })
}

// PageCmd implements the page command: it loads the list into an HTML page
// and prints the whole document. A failed load still prints the page, with
// the error banner showing.
type PageCmd struct {
	filter      string
	title       string
	description string
}

// SetFilter sets the filter (for testing).
func (c *PageCmd) SetFilter(filter string) {
	c.filter = filter
}

// SetForm sets the values the create form is prefilled with (for testing).
func (c *PageCmd) SetForm(title, description string) {
	c.title = title
	c.description = description
}

func (c *PageCmd) Name() string       { return "page" }
func (c *PageCmd) Aliases() []string  { return nil }
func (c *PageCmd) Synopsis() string   { return "Print the task page as HTML" }
func (c *PageCmd) NeedsBackend() bool { return true }

func (c *PageCmd) Register(cmd *kingpin.CmdClause) {
	registerFilterFlag(cmd, &c.filter)
	cmd.Flag("title", "Prefill the title of the create form.").StringVar(&c.title)
	cmd.Flag("description", "Prefill the description of the create form.").Short('d').StringVar(&c.description)
}

func (c *PageCmd) Run(ctx context.Context, env *Env) int {
	filter, err := service.ParseFilter(c.filter)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}

	page := render.NewPage()
	page.SetForm(c.title, c.description)
	v, err := newView(env, page, render.HTML{}, nil)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if filter == service.FilterAll {
		err = v.Init(ctx)
	} else {
		err = v.SetFilter(ctx, filter)
	}

	doc, derr := page.Document()
	if derr != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", derr)
		return exitcode.BackendError
	}
	fmt.Fprint(env.Out, doc)
	env.Logger.Debugf("page rendered with %d %s tasks", len(page.Tasks()), filter)

	return failureCode(err)
}
