// Package output provides formatters for terminal output.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/render"
	"tasklist/internal/service"
)

// Styles colours parts of a task entry.
type Styles struct {
	Number    lipgloss.Style
	Title     lipgloss.Style
	Pending   lipgloss.Style
	Completed lipgloss.Style
	Muted     lipgloss.Style
}

// Text renders tasks as numbered plain text entries. A nil Styles renders
// without colours.
type Text struct {
	Styles *Styles
}

func (t Text) paint(pick func(*Styles) lipgloss.Style, s string) string {
	if t.Styles == nil {
		return s
	}
	return pick(t.Styles).Render(s)
}

func number(s *Styles) lipgloss.Style    { return s.Number }
func title(s *Styles) lipgloss.Style     { return s.Title }
func pending(s *Styles) lipgloss.Style   { return s.Pending }
func completed(s *Styles) lipgloss.Style { return s.Completed }
func muted(s *Styles) lipgloss.Style     { return s.Muted }

// Render returns one entry per task in the given order, or the empty state.
func (t Text) Render(tasks []service.Task) string {
	var b strings.Builder
	if len(tasks) == 0 {
		fmt.Fprintln(&b, t.paint(muted, render.EmptyStateText))
		return b.String()
	}
	for i, task := range tasks {
		t.FormatTask(&b, i+1, task)
	}
	return b.String()
}

// FormatTask writes one task entry.
// Format: "{N:>4}  {STATUS:<9}  {TITLE}\n      {DESCRIPTION}\n"
func (t Text) FormatTask(w io.Writer, num int, task service.Task) {
	status := pending
	if task.Completed {
		status = completed
	}

	fmt.Fprintf(w, "%s  %s  %s\n",
		t.paint(number, fmt.Sprintf("%4d", num)),
		t.paint(status, fmt.Sprintf("%-9s", render.StatusLabel(task))),
		t.paint(title, normalizeTitle(task.Title)),
	)
	fmt.Fprintf(w, "      %s\n", t.paint(muted, Sanitize(render.Description(task))))
}

// Sanitize makes s safe to print on a single terminal line: line breaks,
// tabs and other control characters (escape sequences included) become
// spaces.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// normalizeTitle normalizes a task title for display.
// - Control characters are replaced with spaces
// - Empty or whitespace-only titles become "(untitled)"
func normalizeTitle(title string) string {
	title = Sanitize(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
