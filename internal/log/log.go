// Package log defines the logger used across the application.
package log

// Kv is a helper type for structured logging key-value pairs.
type Kv = map[string]any

// Logger is the interface every component logs through.
type Logger interface {
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
	WithValues(values Kv) Logger
}

type noop struct{}

// Noop is a logger that discards everything.
var Noop Logger = noop{}

func (noop) Infof(format string, args ...any)    {}
func (noop) Warningf(format string, args ...any) {}
func (noop) Errorf(format string, args ...any)   {}
func (noop) Debugf(format string, args ...any)   {}
func (n noop) WithValues(Kv) Logger              { return n }
