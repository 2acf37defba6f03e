package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tasklist/internal/service"
	"tasklist/internal/view"
)

// Messages delivered from the view to the model.
type listMsg struct{ list view.List }

type filterMsg struct{ filter service.Filter }

type resetFormMsg struct{}

type bannerMsg struct {
	text string
	kind view.Kind
}

type hideBannerMsg struct{}

// confirmMsg asks the user a yes/no question. The answer goes to reply,
// which has room for one value.
type confirmMsg struct {
	prompt string
	reply  chan<- bool
}

// opDoneMsg reports the end of a view operation. The view has already
// reported failures on the surface.
type opDoneMsg struct {
	op  string
	err error
}

// programSurface forwards view updates to the running program. It is also
// the view's confirmer.
type programSurface struct {
	send func(tea.Msg)
}

var (
	_ view.Surface   = (*programSurface)(nil)
	_ view.Confirmer = (*programSurface)(nil)
)

func (s *programSurface) post(msg tea.Msg) {
	if s.send != nil {
		s.send(msg)
	}
}

func (s *programSurface) ReplaceList(list view.List)       { s.post(listMsg{list: list}) }
func (s *programSurface) ResetForm()                       { s.post(resetFormMsg{}) }
func (s *programSurface) MarkFilter(filter service.Filter) { s.post(filterMsg{filter: filter}) }
func (s *programSurface) HideBanner()                      { s.post(hideBannerMsg{}) }

func (s *programSurface) ShowBanner(text string, kind view.Kind) {
	s.post(bannerMsg{text: text, kind: kind})
}

// Confirm shows prompt and waits for the answer. Cancelling ctx declines.
func (s *programSurface) Confirm(ctx context.Context, prompt string) bool {
	if s.send == nil {
		return false
	}
	reply := make(chan bool, 1)
	s.send(confirmMsg{prompt: prompt, reply: reply})
	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	}
}
