package tui

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/internal/output"
	"tasklist/internal/service"
	"tasklist/internal/testutil"
	"tasklist/internal/view"
)

type opCall struct {
	op          string
	filter      service.Filter
	id          service.ID
	completed   bool
	title, desc string
}

type fakeOps struct {
	mu    sync.Mutex
	calls []opCall
}

func (f *fakeOps) record(c opCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeOps) Calls() []opCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]opCall(nil), f.calls...)
}

func (f *fakeOps) Init(ctx context.Context) error {
	f.record(opCall{op: "init"})
	return nil
}

func (f *fakeOps) SetFilter(ctx context.Context, filter service.Filter) error {
	f.record(opCall{op: "filter", filter: filter})
	return nil
}

func (f *fakeOps) LoadTasks(ctx context.Context) error {
	f.record(opCall{op: "load"})
	return nil
}

func (f *fakeOps) CreateTask(ctx context.Context, title, description string) error {
	f.record(opCall{op: "create", title: title, desc: description})
	return nil
}

func (f *fakeOps) ToggleTask(ctx context.Context, id service.ID, completed bool) error {
	f.record(opCall{op: "toggle", id: id, completed: completed})
	return nil
}

func (f *fakeOps) DeleteTask(ctx context.Context, id service.ID) (bool, error) {
	f.record(opCall{op: "delete", id: id})
	return true, nil
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// exec runs an operation command and checks it reported completion.
func exec(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	_, ok := cmd().(opDoneMsg)
	require.True(t, ok)
}

func sampleList() view.List {
	tasks := []service.Task{
		{ID: "1", Title: "Buy milk", Description: "2 liters"},
		{ID: "2", Title: "Call mom", Completed: true},
	}
	return view.List{Tasks: tasks, Markup: output.Text{}.Render(tasks)}
}

func newTestModel(t *testing.T) (Model, *fakeOps) {
	t.Helper()
	ops := &fakeOps{}
	m := NewModel(context.Background(), ops, nil)
	m, _ = update(t, m, listMsg{list: sampleList()})
	return m, ops
}

func TestModel_InitLoads(t *testing.T) {
	ops := &fakeOps{}
	m := NewModel(context.Background(), ops, nil)

	exec(t, m.Init())

	assert.Equal(t, []opCall{{op: "init"}}, ops.Calls())
}

func TestModel_FilterKeys(t *testing.T) {
	tests := map[string]struct {
		key       string
		expFilter service.Filter
	}{
		"all":            {key: "a", expFilter: service.FilterAll},
		"all by number":  {key: "1", expFilter: service.FilterAll},
		"pending":        {key: "p", expFilter: service.FilterPending},
		"pending number": {key: "2", expFilter: service.FilterPending},
		"completed":      {key: "c", expFilter: service.FilterCompleted},
		"completed num":  {key: "3", expFilter: service.FilterCompleted},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			m, ops := newTestModel(t)

			_, cmd := update(t, m, keyRunes(test.key))
			exec(t, cmd)

			assert.Equal(t, []opCall{{op: "filter", filter: test.expFilter}}, ops.Calls())
		})
	}
}

func TestModel_ToggleSelected(t *testing.T) {
	tests := map[string]struct {
		keys         []tea.KeyMsg
		expID        service.ID
		expCompleted bool
	}{
		"first task completes": {
			keys:         []tea.KeyMsg{{Type: tea.KeySpace, Runes: []rune{' '}}},
			expID:        "1",
			expCompleted: true,
		},
		"second task reopens": {
			keys:         []tea.KeyMsg{keyRunes("j"), keyRunes("x")},
			expID:        "2",
			expCompleted: false,
		},
		"cursor stops at the end": {
			keys:         []tea.KeyMsg{keyRunes("j"), keyRunes("j"), keyRunes("j"), keyRunes("x")},
			expID:        "2",
			expCompleted: false,
		},
		"cursor stops at the top": {
			keys:         []tea.KeyMsg{keyRunes("k"), {Type: tea.KeyDown}, {Type: tea.KeyUp}, keyRunes("x")},
			expID:        "1",
			expCompleted: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			m, ops := newTestModel(t)

			var cmd tea.Cmd
			for _, k := range test.keys {
				m, cmd = update(t, m, k)
			}
			exec(t, cmd)

			assert.Equal(t, []opCall{{op: "toggle", id: test.expID, completed: test.expCompleted}}, ops.Calls())
		})
	}
}

func TestModel_ToggleWithoutTasks(t *testing.T) {
	ops := &fakeOps{}
	m := NewModel(context.Background(), ops, nil)

	_, cmd := update(t, m, keyRunes("x"))

	assert.Nil(t, cmd)
	assert.Empty(t, ops.Calls())
}

func TestModel_DeleteSelected(t *testing.T) {
	m, ops := newTestModel(t)

	m, _ = update(t, m, keyRunes("j"))
	_, cmd := update(t, m, keyRunes("d"))
	exec(t, cmd)

	assert.Equal(t, []opCall{{op: "delete", id: "2"}}, ops.Calls())
}

func TestModel_Reload(t *testing.T) {
	m, ops := newTestModel(t)

	_, cmd := update(t, m, keyRunes("r"))
	exec(t, cmd)

	assert.Equal(t, []opCall{{op: "load"}}, ops.Calls())
}

func TestModel_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyCtrlC}} {
		t.Run(key.String(), func(t *testing.T) {
			m, _ := newTestModel(t)

			_, cmd := update(t, m, key)

			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestModel_ListClampsCursor(t *testing.T) {
	m, ops := newTestModel(t)

	m, _ = update(t, m, keyRunes("j"))
	list := sampleList()
	list.Tasks = list.Tasks[:1]
	list.Markup = output.Text{}.Render(list.Tasks)
	m, _ = update(t, m, listMsg{list: list})
	_, cmd := update(t, m, keyRunes("x"))
	exec(t, cmd)

	assert.Equal(t, []opCall{{op: "toggle", id: "1", completed: true}}, ops.Calls())
}

func TestModel_CreateTask(t *testing.T) {
	m, ops := newTestModel(t)

	m, _ = update(t, m, keyRunes("n"))
	require.Equal(t, modeForm, m.mode)
	m, _ = update(t, m, keyRunes("Buy bread"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, keyRunes("whole grain"))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	exec(t, cmd)

	assert.Equal(t, []opCall{{op: "create", title: "Buy bread", desc: "whole grain"}}, ops.Calls())

	// The view resets the form after a successful create.
	m, _ = update(t, m, resetFormMsg{})
	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.inputs[fieldTitle].Value())
	assert.Empty(t, m.inputs[fieldDescription].Value())
}

func TestModel_CreateRequiresTitle(t *testing.T) {
	m, ops := newTestModel(t)

	m, _ = update(t, m, keyRunes("n"))
	m, _ = update(t, m, keyRunes("   "))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, ops.Calls())
	assert.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), errTitleRequired)
}

func TestModel_FormEscKeepsInput(t *testing.T) {
	m, ops := newTestModel(t)

	m, _ = update(t, m, keyRunes("n"))
	m, _ = update(t, m, keyRunes("draft"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "draft", m.inputs[fieldTitle].Value())
	assert.Empty(t, ops.Calls())

	// Keys act on the list again.
	_, cmd := update(t, m, keyRunes("r"))
	exec(t, cmd)
	assert.Equal(t, []opCall{{op: "load"}}, ops.Calls())
}

func TestModel_Confirm(t *testing.T) {
	tests := map[string]struct {
		key tea.KeyMsg
		exp bool
	}{
		"yes":    {key: keyRunes("y"), exp: true},
		"YES":    {key: keyRunes("Y"), exp: true},
		"no":     {key: keyRunes("n"), exp: false},
		"escape": {key: tea.KeyMsg{Type: tea.KeyEsc}, exp: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			m, _ := newTestModel(t)
			reply := make(chan bool, 1)

			m, _ = update(t, m, confirmMsg{prompt: view.DeletePrompt, reply: reply})
			assert.Contains(t, m.View(), view.DeletePrompt)
			m, _ = update(t, m, test.key)

			assert.Equal(t, test.exp, <-reply)
			assert.Equal(t, modeList, m.mode)
			assert.NotContains(t, m.View(), view.DeletePrompt)
		})
	}
}

func TestModel_ConfirmIgnoresOtherKeys(t *testing.T) {
	m, ops := newTestModel(t)
	reply := make(chan bool, 1)

	m, _ = update(t, m, confirmMsg{prompt: view.DeletePrompt, reply: reply})
	m, cmd := update(t, m, keyRunes("r"))

	assert.Nil(t, cmd)
	assert.Equal(t, modeConfirm, m.mode)
	assert.Empty(t, reply)
	assert.Empty(t, ops.Calls())
}

func TestModel_QuitDeclinesPendingConfirm(t *testing.T) {
	m, _ := newTestModel(t)
	reply := make(chan bool, 1)

	m, _ = update(t, m, confirmMsg{prompt: view.DeletePrompt, reply: reply})
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.False(t, <-reply)
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = update(t, m, filterMsg{filter: service.FilterPending})
	m, _ = update(t, m, bannerMsg{text: view.MsgCreated, kind: view.KindSuccess})
	got := m.View()

	assert.Contains(t, got, "Task Manager")
	for _, f := range service.Filters() {
		assert.Contains(t, got, f.Label())
	}
	assert.Contains(t, got, "> "+"   1  Pending    Buy milk")
	assert.Contains(t, got, "     2  Completed  Call mom")
	assert.Contains(t, got, view.MsgCreated)
	assert.Equal(t, service.FilterPending, m.filter)

	m, _ = update(t, m, hideBannerMsg{})
	assert.NotContains(t, m.View(), view.MsgCreated)
}

func TestModel_ViewEmptyState(t *testing.T) {
	ops := &fakeOps{}
	m := NewModel(context.Background(), ops, nil)

	m, _ = update(t, m, listMsg{list: view.List{Markup: output.Text{}.Render(nil)}})

	assert.Contains(t, m.View(), "No tasks found")
}

func TestProgramSurface_Confirm(t *testing.T) {
	tests := map[string]struct {
		send   func(reply chan<- bool)
		cancel bool
		exp    bool
	}{
		"answered yes": {
			send: func(reply chan<- bool) { reply <- true },
			exp:  true,
		},
		"answered no": {
			send: func(reply chan<- bool) { reply <- false },
			exp:  false,
		},
		"cancelled": {
			send:   func(reply chan<- bool) {},
			cancel: true,
			exp:    false,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var prompts []string
			s := &programSurface{send: func(msg tea.Msg) {
				c := msg.(confirmMsg)
				prompts = append(prompts, c.prompt)
				test.send(c.reply)
			}}

			ctx, cancel := context.WithCancel(context.Background())
			if test.cancel {
				cancel()
			} else {
				defer cancel()
			}

			assert.Equal(t, test.exp, s.Confirm(ctx, "sure?"))
			assert.Equal(t, []string{"sure?"}, prompts)
		})
	}
}

func TestProgramSurface_NotStarted(t *testing.T) {
	s := &programSurface{}

	s.ReplaceList(view.List{})
	s.ShowBanner("x", view.KindError)
	assert.False(t, s.Confirm(context.Background(), "sure?"))
}

func TestProgramSurface_Forwards(t *testing.T) {
	var got []tea.Msg
	s := &programSurface{send: func(msg tea.Msg) { got = append(got, msg) }}

	s.ReplaceList(view.List{Markup: "m"})
	s.MarkFilter(service.FilterCompleted)
	s.ShowBanner("hi", view.KindSuccess)
	s.HideBanner()
	s.ResetForm()

	assert.Equal(t, []tea.Msg{
		listMsg{list: view.List{Markup: "m"}},
		filterMsg{filter: service.FilterCompleted},
		bannerMsg{text: "hi", kind: view.KindSuccess},
		hideBannerMsg{},
		resetFormMsg{},
	}, got)
}

func TestRun_RequiresService(t *testing.T) {
	err := Run(context.Background(), Config{})

	assert.Error(t, err)
}

func TestRun_QuitKey(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", "", false)

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), Config{
			Service: svc,
			In:      strings.NewReader("q"),
			Out:     &out,
		})
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("interactive view did not quit")
	}
}

func TestRun_ContextCancelStops(t *testing.T) {
	svc := testutil.NewFakeService()
	ctx, cancel := context.WithCancel(context.Background())

	in, w := io.Pipe()
	defer w.Close()
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{Service: svc, In: in, Out: &out})
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("interactive view did not stop")
	}
}
