package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tweakdeck/internal/config"
	"tweakdeck/internal/deck"
	"tweakdeck/internal/dispatch"
	"tweakdeck/internal/logging"
	"tweakdeck/internal/remote"
	"tweakdeck/internal/trace"
)

// annotationTUI marks commands that take over the terminal.
const annotationTUI = "tweakdeck/tui"

// app is the state shared by the root command and its subcommands.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	logFile *os.File
	tracing *trace.Provider
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, newRootCmd())
}

// execute runs root and then releases what its pre-run opened, whether or
// not the command succeeded.
func execute(ctx context.Context, root *rootCmd) error {
	err := root.ExecuteContext(ctx)
	return errors.Join(err, root.app.close(ctx))
}

// rootCmd is the cobra root together with the state its hooks fill in.
type rootCmd struct {
	*cobra.Command
	app *app
}

func newRootCmd() *rootCmd {
	a := &app{}
	var (
		url      string
		modules  []string
		initial  string
		timeout  time.Duration
		logFile  string
		logLevel string
	)

	root := &cobra.Command{
		Use:          "tweakdeck",
		Short:        "Live tuning console for a remote effects engine",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		Annotations:  map[string]string{annotationTUI: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("url") {
				cfg.URL = url
			}
			if flags.Changed("modules") {
				cfg.Modules = modules
			}
			if flags.Changed("module") {
				cfg.InitialModule = initial
			}
			if flags.Changed("timeout") {
				cfg.RequestTimeout = timeout
			}
			if flags.Changed("log-file") {
				cfg.LogFile = logFile
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			a.cfg = cfg
			return a.open(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&url, "url", "", "engine base URL (default $TWEAKDECK_URL or http://127.0.0.1:8080)")
	pf.StringSliceVar(&modules, "modules", nil, "module catalog, comma separated")
	pf.StringVarP(&initial, "module", "m", "", "module to load at startup")
	pf.DurationVar(&timeout, "timeout", 0, "per-request timeout (0 for none)")
	pf.StringVar(&logFile, "log-file", "", "log file for the console (default tweakdeck.log)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		demoCmd(a),
		modulesCmd(a),
		loadCmd(a),
		tweaksCmd(a),
		setCmd(a),
		nudgeCmd(a),
		pressCmd(a),
		reloadCmd(a),
	)
	return &rootCmd{Command: root, app: a}
}

// open sets up logging and tracing for cmd.
func (a *app) open(cmd *cobra.Command) error {
	level, err := logging.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	if cmd.Annotations[annotationTUI] != "" {
		logger, f, err := logging.OpenFile(a.cfg.LogFile, level)
		if err != nil {
			return err
		}
		a.logger, a.logFile = logger, f
	} else {
		a.logger = logging.New(cmd.ErrOrStderr(), level)
	}

	tp, err := trace.Setup(cmd.Context(), a.cfg.OTLPEndpoint, a.cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	a.tracing = tp
	return nil
}

// close flushes spans and closes the log file. It is safe to call when open
// never ran, and more than once.
func (a *app) close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.tracing.Shutdown(ctx); err != nil && a.logger != nil {
		a.logger.Warn("trace shutdown failed", slog.Any("error", err))
	}
	a.tracing = nil
	f := a.logFile
	a.logFile = nil
	if f != nil {
		return f.Close()
	}
	return nil
}

// newDeck connects a deck to the configured engine. ctx bounds the writes it
// dispatches.
func (a *app) newDeck(ctx context.Context, onWrite func(dispatch.Result)) *deck.Deck {
	client := remote.New(a.cfg.URL,
		remote.WithTimeout(a.cfg.RequestTimeout),
		remote.WithTracerProvider(a.tracing),
	)
	return deck.New(ctx, client, deck.Options{
		Catalog: a.cfg.Catalog(),
		Logger:  a.logger,
		OnWrite: onWrite,
	})
}
