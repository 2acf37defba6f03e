package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tasklist/internal/exitcode"
	"tasklist/internal/output"
	"tasklist/internal/service"
	"tasklist/internal/view"
)

// console is the view.Surface of one-shot commands. Success banners go to
// out unless quiet, error banners always go to errOut as they are. Banners
// are printed once, so hiding is a no-op.
type console struct {
	out       io.Writer
	errOut    io.Writer
	quiet     bool
	printList bool
}

func (c *console) ReplaceList(list view.List) {
	if c.printList {
		fmt.Fprint(c.out, list.Markup)
	}
}

func (c *console) ResetForm()                {}
func (c *console) MarkFilter(service.Filter) {}
func (c *console) HideBanner()               {}

func (c *console) ShowBanner(text string, kind view.Kind) {
	text = output.Sanitize(text)
	if kind == view.KindError {
		fmt.Fprintln(c.errOut, text)
		return
	}
	if !c.quiet {
		fmt.Fprintln(c.out, text)
	}
}

// promptConfirmer asks on out and reads a y/N answer from in.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(ctx context.Context, prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// alwaysConfirm backs --yes.
var alwaysConfirm = view.ConfirmFunc(func(context.Context, string) bool { return true })

// newView builds a view client for a command run.
func newView(env *Env, surface view.Surface, renderer view.Renderer, confirmer view.Confirmer) (*view.Client, error) {
	return view.New(view.Config{
		Service:      env.Service,
		Surface:      surface,
		Renderer:     renderer,
		Confirmer:    confirmer,
		Logger:       env.Logger,
		MessageDelay: env.Config.MessageDelay,
	})
}

// failureCode maps an operation error to an exit code. The view has already
// reported it on the surface.
func failureCode(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case service.IsNotFound(err), errors.Is(err, service.ErrInvalidFilter):
		return exitcode.UserError
	}
	return exitcode.BackendError
}
