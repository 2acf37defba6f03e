package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/sirupsen/logrus"

	"tasklist/internal/backend/rest"
	"tasklist/internal/commands"
	"tasklist/internal/config"
	"tasklist/internal/exitcode"
	"tasklist/internal/log"
	loglogrus "tasklist/internal/log/logrus"
	"tasklist/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, logger log.Logger) (service.Service, error)

// RESTFactory builds the REST backend client from config.
func RESTFactory(ctx context.Context, cfg *config.Config, logger log.Logger) (service.Service, error) {
	return rest.New(rest.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
}

// helpCommand is answered before parsing; kingpin reserves its own help
// command and flag.
const helpCommand = "help"

// terminalCommands own the terminal while they run. They only log with
// --debug, and then to the log file.
var terminalCommands = map[string]bool{
	commands.UICommandName: true,
}

func init() {
	// "@<id>" is a task reference, not an arguments file.
	kingpin.EnableFileExpansion = false
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
// A nil factory uses RESTFactory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	if factory == nil {
		factory = RESTFactory
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir  string
	url        string
	quiet      bool
	debug      bool
	loggerType string
}

// Run parses arguments and dispatches to the appropriate command.
// No command runs the interactive view. Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if len(args) > 0 && (args[0] == helpCommand || args[0] == "--help" || args[0] == "-h") {
		return d.runHelp(ctx, in, out, errOut)
	}

	app := kingpin.New(config.AppName, "Task list client for the tasks REST backend.")
	app.UsageWriter(out)
	app.ErrorWriter(errOut)
	terminated := false
	app.Terminate(func(int) { terminated = true })

	var flags commonFlags
	app.Flag("config", "Override config directory.").StringVar(&flags.configDir)
	app.Flag("url", "Backend base URL.").StringVar(&flags.url)
	app.Flag("quiet", "Suppress informational output.").BoolVar(&flags.quiet)
	app.Flag("debug", "Enable debug logs.").BoolVar(&flags.debug)
	app.Flag("logger", "Selects the logger type.").EnumVar(&flags.loggerType, config.LoggerTypeDefault, config.LoggerTypeJSON)

	cmds := make(map[string]commands.Command)
	for _, cmd := range d.registry.All() {
		if cmd.Name() == helpCommand {
			continue
		}
		clause := app.Command(cmd.Name(), cmd.Synopsis())
		for _, alias := range cmd.Aliases() {
			clause.Alias(alias)
		}
		if cmd.Name() == commands.UICommandName {
			clause.Default()
		}
		cmd.Register(clause)
		cmds[clause.FullCommand()] = cmd
	}

	selected, err := app.Parse(args)
	if terminated {
		// --help printed the usage
		return exitcode.Success
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	cmd, ok := cmds[selected]
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", selected)
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(flags.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = flags.quiet
	cfg.Debug = flags.debug
	if flags.url != "" {
		cfg.BaseURL = flags.url
	}
	if flags.loggerType != "" {
		cfg.LoggerType = flags.loggerType
	}

	logger, closeLog, err := newLogger(cfg, errOut, terminalCommands[cmd.Name()])
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}
	defer closeLog()
	logger = logger.WithValues(log.Kv{"cmd": cmd.Name()})

	var svc service.Service
	if cmd.NeedsBackend() {
		svc, err = d.factory(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.ConfigError
		}
		logger.Debugf("using backend %s", cfg.BaseURL)
	}

	return cmd.Run(ctx, &commands.Env{
		Config:  cfg,
		Service: svc,
		Logger:  logger,
		In:      in,
		Out:     out,
		ErrOut:  errOut,
	})
}

func (d *Dispatcher) runHelp(ctx context.Context, in io.Reader, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(helpCommand)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", helpCommand)
		return exitcode.UserError
	}
	return cmd.Run(ctx, &commands.Env{
		Config: &config.Config{},
		Logger: log.Noop,
		In:     in,
		Out:    out,
		ErrOut: errOut,
	})
}

// newLogger returns the application logger. Logging is off unless --debug;
// terminal commands then log to the log file instead of stderr.
func newLogger(cfg *config.Config, errOut io.Writer, ownsTerminal bool) (log.Logger, func(), error) {
	noClose := func() {}
	if !cfg.Debug {
		return log.Noop, noClose, nil
	}

	logrusLog := logrus.New()
	logrusLog.Out = errOut
	logrusLog.SetLevel(logrus.DebugLevel)
	closeLog := noClose

	if ownsTerminal {
		if err := cfg.EnsureDir(); err != nil {
			return nil, nil, fmt.Errorf("could not create config dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open log file: %w", err)
		}
		logrusLog.Out = f
		closeLog = func() { _ = f.Close() }
	}

	switch cfg.LoggerType {
	case config.LoggerTypeJSON:
		logrusLog.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrusLog.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}

	logger := loglogrus.NewLogrus(logrus.NewEntry(logrusLog)).WithValues(log.Kv{
		"version": commands.Version,
	})
	logger.Debugf("Debug level is enabled")

	return logger, closeLog, nil
}
