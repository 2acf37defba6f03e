package testutil

import (
	"sync"
	"time"

	"tasklist/internal/service"
	"tasklist/internal/view"
)

// Banner is the banner state seen by a RecordingSurface.
type Banner struct {
	Text    string
	Kind    view.Kind
	Visible bool
}

// RecordingSurface is a view.Surface that keeps the latest state and counts
// every call.
type RecordingSurface struct {
	mu sync.Mutex

	List        view.List
	Banner      Banner
	Filter      service.Filter
	Replaces    int
	FormResets  int
	BannerShows []Banner
	Hides       int
}

// Compile-time verification that *RecordingSurface implements view.Surface.
var _ view.Surface = (*RecordingSurface)(nil)

func (s *RecordingSurface) ReplaceList(list view.List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.List = list
	s.Replaces++
}

func (s *RecordingSurface) ResetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FormResets++
}

func (s *RecordingSurface) MarkFilter(filter service.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Filter = filter
}

func (s *RecordingSurface) ShowBanner(text string, kind view.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Banner = Banner{Text: text, Kind: kind, Visible: true}
	s.BannerShows = append(s.BannerShows, s.Banner)
}

func (s *RecordingSurface) HideBanner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Banner.Visible = false
	s.Hides++
}

// Snapshot returns a copy of the surface state.
func (s *RecordingSurface) Snapshot() RecordingSurface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RecordingSurface{
		List:        s.List,
		Banner:      s.Banner,
		Filter:      s.Filter,
		Replaces:    s.Replaces,
		FormResets:  s.FormResets,
		BannerShows: append([]Banner(nil), s.BannerShows...),
		Hides:       s.Hides,
	}
}

// ManualTimers is a view.AfterFunc whose timers fire only when Advance
// moves the fake clock past their deadline.
type ManualTimers struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	owner   *ManualTimers
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// AfterFunc implements view.AfterFunc.
func (m *ManualTimers) AfterFunc(d time.Duration, f func()) view.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{owner: m, at: m.now + d, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward and runs the timers that became due, in
// deadline order, outside the lock. Stopped timers are skipped, the way
// time.AfterFunc skips them.
func (m *ManualTimers) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.stopped && !t.fired && t.at <= m.now {
			t.fired = true
			due = append(due, t)
		}
	}
	m.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// FireAll runs every timer that has not fired yet, including stopped
// ones. It models a timer whose callback was already running when Stop was
// called.
func (m *ManualTimers) FireAll() {
	m.mu.Lock()
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	m.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}
