package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/run"

	"tasklist/internal/log"
	"tasklist/internal/output"
	"tasklist/internal/service"
	"tasklist/internal/view"
)

// Config is the interactive view configuration.
type Config struct {
	Service      service.Service
	Logger       log.Logger
	MessageDelay time.Duration
	In           io.Reader
	Out          io.Writer
}

func (c *Config) defaults() error {
	if c.Service == nil {
		return fmt.Errorf("service is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "tui"})
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	return nil
}

// Run shows the interactive view until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.defaults(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	surface := &programSurface{}
	client, err := view.New(view.Config{
		Service:      cfg.Service,
		Surface:      surface,
		Renderer:     output.Text{Styles: listStyles},
		Confirmer:    surface,
		Logger:       cfg.Logger,
		MessageDelay: cfg.MessageDelay,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(NewModel(ctx, client, cfg.Logger),
		tea.WithContext(ctx),
		tea.WithInput(cfg.In),
		tea.WithOutput(cfg.Out),
		tea.WithAltScreen(),
	)
	surface.send = p.Send

	var g run.Group

	// Program.
	g.Add(
		func() error {
			_, err := p.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
		func(error) {
			cancel()
			p.Quit()
		},
	)

	// Context.
	g.Add(
		func() error {
			<-ctx.Done()
			return nil
		},
		func(error) {
			cancel()
		},
	)

	cfg.Logger.Debugf("interactive view started")
	err = g.Run()
	cfg.Logger.Debugf("interactive view stopped")
	return err
}
