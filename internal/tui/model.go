// Package tui is the interactive terminal surface of the task list view.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/log"
	"tasklist/internal/service"
	"tasklist/internal/view"
)

// Ops is the part of view.Client the model drives.
type Ops interface {
	Init(ctx context.Context) error
	SetFilter(ctx context.Context, filter service.Filter) error
	LoadTasks(ctx context.Context) error
	CreateTask(ctx context.Context, title, description string) error
	ToggleTask(ctx context.Context, id service.ID, completed bool) error
	DeleteTask(ctx context.Context, id service.ID) (bool, error)
}

var _ Ops = (*view.Client)(nil)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirm
)

const (
	fieldTitle = iota
	fieldDescription
)

// errTitleRequired is shown when the form is submitted without a title.
const errTitleRequired = "Title is required"

const helpText = "a/p/c filter • j/k move • space toggle • n new • d delete • r reload • q quit"

// Model is the Bubble Tea model. Every view operation runs as a tea.Cmd;
// Update never calls the view directly because the view may be waiting to
// deliver a message to this loop.
type Model struct {
	ctx    context.Context
	ops    Ops
	logger log.Logger

	list   view.List
	cursor int
	filter service.Filter

	banner        string
	bannerKind    view.Kind
	bannerVisible bool

	mode    mode
	inputs  [2]textinput.Model
	focus   int
	formErr string

	prompt string
	reply  chan<- bool

	width int
}

// NewModel creates the model. ctx bounds every operation it starts.
func NewModel(ctx context.Context, ops Ops, logger log.Logger) Model {
	if logger == nil {
		logger = log.Noop
	}

	title := textinput.New()
	title.Placeholder = "Task title"
	title.Prompt = "Title:       "
	title.CharLimit = 256

	description := textinput.New()
	description.Placeholder = "Description (optional)"
	description.Prompt = "Description: "
	description.CharLimit = 1024

	return Model{
		ctx:    ctx,
		ops:    ops,
		logger: logger,
		filter: service.FilterAll,
		inputs: [2]textinput.Model{title, description},
	}
}

// Init loads the list with the default filter.
func (m Model) Init() tea.Cmd {
	return m.run("init", m.ops.Init)
}

// run wraps a view operation in a command.
func (m Model) run(op string, f func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: f(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.answer(false)
			return m, tea.Quit
		}
		switch m.mode {
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeForm:
			return m.updateForm(msg)
		}
		return m.updateList(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-20, 10)
		}

	case listMsg:
		m.list = msg.list
		m.cursor = clampCursor(m.cursor, len(m.list.Tasks))

	case filterMsg:
		m.filter = msg.filter
		m.cursor = 0

	case bannerMsg:
		m.banner, m.bannerKind, m.bannerVisible = msg.text, msg.kind, true

	case hideBannerMsg:
		m.bannerVisible = false

	case resetFormMsg:
		m.resetForm()
		if m.mode == modeForm {
			m.mode = modeList
		}

	case confirmMsg:
		// A second question declines the first.
		m.answer(false)
		m.mode = modeConfirm
		m.prompt = msg.prompt
		m.reply = msg.reply

	case opDoneMsg:
		if msg.err != nil {
			m.logger.Debugf("%s failed: %v", msg.op, msg.err)
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a", "1":
		return m, m.setFilter(service.FilterAll)
	case "p", "2":
		return m, m.setFilter(service.FilterPending)
	case "c", "3":
		return m, m.setFilter(service.FilterCompleted)
	case "r":
		return m, m.run("load", m.ops.LoadTasks)
	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, len(m.list.Tasks))
	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, len(m.list.Tasks))
	case "n":
		m.mode = modeForm
		m.formErr = ""
		return m, m.focusInput(fieldTitle)
	case " ", "x":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run("toggle", func(ctx context.Context) error {
			return m.ops.ToggleTask(ctx, task.ID, !task.Completed)
		})
	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.run("delete", func(ctx context.Context) error {
			_, err := m.ops.DeleteTask(ctx, task.ID)
			return err
		})
	}
	return m, nil
}

func (m Model) setFilter(filter service.Filter) tea.Cmd {
	return m.run("filter", func(ctx context.Context) error {
		return m.ops.SetFilter(ctx, filter)
	})
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.formErr = ""
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyDown, tea.KeyUp:
		return m, m.focusInput((m.focus + 1) % len(m.inputs))
	case tea.KeyEnter:
		title := m.inputs[fieldTitle].Value()
		if strings.TrimSpace(title) == "" {
			m.formErr = errTitleRequired
			return m, m.focusInput(fieldTitle)
		}
		m.formErr = ""
		description := m.inputs[fieldDescription].Value()
		return m, m.run("create", func(ctx context.Context) error {
			return m.ops.CreateTask(ctx, title, description)
		})
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		m.answer(true)
	case "n", "esc", "q":
		m.answer(false)
	default:
		return m, nil
	}
	m.mode = modeList
	return m, nil
}

// answer replies to a pending question, if any.
func (m *Model) answer(ok bool) {
	if m.reply == nil {
		return
	}
	m.reply <- ok
	m.reply = nil
	m.prompt = ""
}

func (m *Model) focusInput(field int) tea.Cmd {
	m.focus = field
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return m.inputs[field].Focus()
}

func (m *Model) resetForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = fieldTitle
	m.formErr = ""
}

func (m Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.list.Tasks) {
		return service.Task{}, false
	}
	return m.list.Tasks[m.cursor], true
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Task Manager"))
	b.WriteString("\n")

	filters := make([]string, 0, 3)
	for _, f := range service.Filters() {
		style := filterStyle
		if f == m.filter {
			style = activeFilterStyle
		}
		filters = append(filters, style.Render(f.Label()))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, filters...))
	b.WriteString("\n\n")

	b.WriteString(m.listView())
	b.WriteString("\n")

	if m.bannerVisible {
		b.WriteString(bannerStyles[m.bannerKind].Render(m.banner))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeForm:
		b.WriteString("\n")
		for _, in := range m.inputs {
			b.WriteString(in.View())
			b.WriteString("\n")
		}
		if m.formErr != "" {
			b.WriteString(errorStyle.Render(m.formErr))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("enter save • tab switch • esc cancel"))
	case modeConfirm:
		b.WriteString(fmt.Sprintf("\n%s (y/n)", m.prompt))
	default:
		b.WriteString(helpStyle.Render(helpText))
	}
	b.WriteString("\n")

	return b.String()
}

// listView marks the selected task in the rendered list. Text markup has two
// lines per task; anything else is shown as is.
func (m Model) listView() string {
	markup := strings.TrimSuffix(m.list.Markup, "\n")
	lines := strings.Split(markup, "\n")
	if len(m.list.Tasks) == 0 || len(lines) != 2*len(m.list.Tasks) {
		return markup
	}

	for i := range lines {
		prefix := "  "
		if i/2 == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
