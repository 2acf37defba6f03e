// Package view implements the task list view: it keeps a rendered task list
// in sync with the backend, routes every mutation through the backend and
// reports outcomes on a transient status banner.
//
// The view never edits its list locally. After each successful mutation it
// reloads the list for the active filter.
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tasklist/internal/log"
	"tasklist/internal/service"
)

// Kind selects the banner style.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

func (k Kind) String() string {
	if k == KindError {
		return "error"
	}
	return "success"
}

// List is a rendered task list: the tasks in backend order and their markup.
type List struct {
	Tasks  []service.Task
	Markup string
}

// Surface is what the view draws on.
type Surface interface {
	// ReplaceList replaces the whole rendered list.
	ReplaceList(list List)
	// ResetForm clears the create form.
	ResetForm()
	// MarkFilter marks the control of the active filter.
	MarkFilter(filter service.Filter)
	// ShowBanner shows a status banner, replacing any visible one.
	ShowBanner(text string, kind Kind)
	// HideBanner hides the status banner.
	HideBanner()
}

// Renderer turns tasks into markup. Implementations must be pure.
type Renderer interface {
	Render(tasks []service.Task) string
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(tasks []service.Task) string

func (f RendererFunc) Render(tasks []service.Task) string { return f(tasks) }

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Timer is the part of *time.Timer the banner needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// User facing texts.
const (
	DeletePrompt = "Are you sure you want to delete this task?"

	MsgCreated       = "Task created successfully!"
	MsgCreateFailed  = "Error creating task"
	MsgCompleted     = "Task completed!"
	MsgReopened      = "Task reopened!"
	MsgUpdateFailed  = "Error updating task"
	MsgDeleted       = "Task deleted successfully!"
	MsgDeleteFailed  = "Error deleting task"
	msgLoadFailedFmt = "Error loading tasks: %s"
	msgErrorFmt      = "Error: %s"
)

// DefaultMessageDelay is how long a banner stays visible.
const DefaultMessageDelay = 3000 * time.Millisecond

var (
	// ErrServiceRequired is returned by New without a service.
	ErrServiceRequired = errors.New("service is required")
	// ErrSurfaceRequired is returned by New without a surface.
	ErrSurfaceRequired = errors.New("surface is required")
)

// Config is the configuration of a Client.
type Config struct {
	Service  service.Service
	Surface  Surface
	Renderer Renderer
	// Confirmer defaults to declining every destructive action.
	Confirmer    Confirmer
	Logger       log.Logger
	MessageDelay time.Duration
	// AfterFunc defaults to time.AfterFunc.
	AfterFunc AfterFunc
}

func (c *Config) defaults() error {
	if c.Service == nil {
		return ErrServiceRequired
	}
	if c.Surface == nil {
		return ErrSurfaceRequired
	}
	if c.Renderer == nil {
		return fmt.Errorf("renderer is required")
	}
	if c.Confirmer == nil {
		c.Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.MessageDelay <= 0 {
		c.MessageDelay = DefaultMessageDelay
	}
	if c.AfterFunc == nil {
		c.AfterFunc = realAfterFunc
	}
	return nil
}

// Client is the task list view.
type Client struct {
	svc       service.Service
	surface   Surface
	renderer  Renderer
	confirmer Confirmer
	logger    log.Logger
	delay     time.Duration
	afterFunc AfterFunc

	mu     sync.Mutex
	filter service.Filter
	// loadSeq is the number of the latest issued load.
	loadSeq uint64
	// bannerSeq identifies the newest banner; older hide timers are no-ops.
	bannerSeq   uint64
	bannerTimer Timer
}

// New creates a view client with the filter set to all.
func New(cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		svc:       cfg.Service,
		surface:   cfg.Surface,
		renderer:  cfg.Renderer,
		confirmer: cfg.Confirmer,
		logger:    cfg.Logger.WithValues(log.Kv{"component": "view"}),
		delay:     cfg.MessageDelay,
		afterFunc: cfg.AfterFunc,
		filter:    service.FilterAll,
	}, nil
}

// Filter returns the active filter.
func (c *Client) Filter() service.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Init loads the list with the default filter.
func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	c.filter = service.FilterAll
	c.surface.MarkFilter(service.FilterAll)
	c.mu.Unlock()

	return c.LoadTasks(ctx)
}

// SetFilter switches the active filter and reloads.
func (c *Client) SetFilter(ctx context.Context, filter service.Filter) error {
	if !filter.Valid() {
		return fmt.Errorf("%w: %d", service.ErrInvalidFilter, int(filter))
	}

	c.mu.Lock()
	c.filter = filter
	c.surface.MarkFilter(filter)
	c.mu.Unlock()

	return c.LoadTasks(ctx)
}

// LoadTasks fetches the tasks of the active filter and replaces the rendered
// list. On failure the previous list stays in place and an error banner is
// shown. Results of a load that was overtaken by a newer one are dropped.
func (c *Client) LoadTasks(ctx context.Context) error {
	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	filter := c.filter
	c.mu.Unlock()

	tasks, err := c.svc.ListTasks(ctx, filter)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.loadSeq {
		c.logger.Debugf("dropping stale load %d (latest %d, filter %s)", seq, c.loadSeq, filter)
		return nil
	}

	if err != nil {
		c.logger.Warningf("could not load %s tasks: %v", filter, err)
		c.showLocked(fmt.Sprintf(msgLoadFailedFmt, err), KindError)
		return fmt.Errorf("could not load tasks: %w", err)
	}

	c.surface.ReplaceList(List{
		Tasks:  tasks,
		Markup: c.renderer.Render(tasks),
	})
	c.logger.Debugf("rendered %d %s tasks", len(tasks), filter)
	return nil
}

// CreateTask submits a new, not completed task. On success the form is
// cleared and the list reloaded once.
func (c *Client) CreateTask(ctx context.Context, title, description string) error {
	_, err := c.svc.CreateTask(ctx, service.NewTask(title, description))
	if err != nil {
		c.reportFailure(err, MsgCreateFailed)
		return fmt.Errorf("could not create task: %w", err)
	}

	c.ShowMessage(MsgCreated, KindSuccess)
	c.mu.Lock()
	c.surface.ResetForm()
	c.mu.Unlock()

	return c.LoadTasks(ctx)
}

// ToggleTask sets the completed flag of a task. The backend only accepts
// full records, so the task is read first and written back whole; a
// concurrent writer between the two calls is overwritten.
func (c *Client) ToggleTask(ctx context.Context, id service.ID, completed bool) error {
	task, err := c.svc.GetTask(ctx, id)
	if err != nil {
		c.reportFailure(err, MsgUpdateFailed)
		return fmt.Errorf("could not read task %s: %w", id, err)
	}

	task.ID = id
	task.Completed = completed

	if _, err := c.svc.UpdateTask(ctx, task); err != nil {
		c.reportFailure(err, MsgUpdateFailed)
		return fmt.Errorf("could not update task %s: %w", id, err)
	}

	if completed {
		c.ShowMessage(MsgCompleted, KindSuccess)
	} else {
		c.ShowMessage(MsgReopened, KindSuccess)
	}

	return c.LoadTasks(ctx)
}

// DeleteTask deletes a task after the user confirms. Declining sends nothing.
// The returned bool reports whether the user confirmed.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) (bool, error) {
	if !c.confirmer.Confirm(ctx, DeletePrompt) {
		c.logger.Debugf("delete of task %s declined", id)
		return false, nil
	}

	if err := c.svc.DeleteTask(ctx, id); err != nil {
		c.reportFailure(err, MsgDeleteFailed)
		return true, fmt.Errorf("could not delete task %s: %w", id, err)
	}

	c.ShowMessage(MsgDeleted, KindSuccess)
	return true, c.LoadTasks(ctx)
}

// ShowMessage shows a banner and hides it after the message delay. A newer
// message replaces the text and restarts the delay.
func (c *Client) ShowMessage(text string, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showLocked(text, kind)
}

func (c *Client) showLocked(text string, kind Kind) {
	c.bannerSeq++
	seq := c.bannerSeq
	if c.bannerTimer != nil {
		c.bannerTimer.Stop()
	}

	c.surface.ShowBanner(text, kind)
	c.bannerTimer = c.afterFunc(c.delay, func() { c.hideBanner(seq) })
}

func (c *Client) hideBanner(seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.bannerSeq {
		return
	}
	c.bannerTimer = nil
	c.surface.HideBanner()
}

// reportFailure shows the generic message for a non-2xx answer and the
// underlying text for anything else.
func (c *Client) reportFailure(err error, statusMsg string) {
	if service.IsStatus(err) {
		c.logger.Warningf("%s: %v", statusMsg, err)
		c.ShowMessage(statusMsg, KindError)
		return
	}
	c.logger.Errorf("request failed: %v", err)
	c.ShowMessage(fmt.Sprintf(msgErrorFmt, err), KindError)
}
