package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/statewalk/evlog/internal/client"
	"github.com/statewalk/evlog/internal/config"
	"github.com/statewalk/evlog/internal/eventstore"
	"github.com/statewalk/evlog/internal/logging"
	"github.com/statewalk/evlog/internal/source"
)

// Process exit statuses.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInvalid = 2
)

// Options wire the command tree to its environment.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	// Now is the clock used to resolve "today". Defaults to time.Now.
	Now func() time.Time
	// Color forces styled output on or off. Nil detects a terminal on Stdout.
	Color *bool
}

// cli holds the state shared by every command of one invocation.
type cli struct {
	opts Options

	configPath string
	storeDir   string
	remote     string
	logLevel   string

	cfg   config.Config
	src   source.Source
	style styles
}

// Execute runs the evlog command line and returns the process exit status.
func Execute(ctx context.Context, args []string, opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	root := NewRootCommand(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	fmt.Fprintf(opts.Stderr, "evlog: %v\n", err)
	return ExitCode(err)
}

// ExitCode maps an error returned by a command to an exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, eventstore.ErrInvalidArgument):
		return ExitInvalid
	default:
		return ExitFailure
	}
}

// NewRootCommand builds the evlog command tree. The root command itself
// shows the events of one date.
func NewRootCommand(opts Options) *cobra.Command {
	c := &cli{opts: opts, style: newStyles(opts.Stdout, opts.Color)}

	root := &cobra.Command{
		Use:   "evlog [date]",
		Short: "Query the state-machine event log",
		Long: "evlog reads the daily events-<YYYY-MM-DD>.jsonl files written by the " +
			"state-machine backend, recovers every well-formed record and prints them.",
		Args:              maxArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runView,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(err, eventstore.ErrInvalidArgument)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default ~/.config/evlog/config.toml)")
	pf.StringVar(&c.storeDir, "dir", "", "event store directory (default event-store)")
	pf.StringVar(&c.remote, "remote", "", "read through an evlog HTTP API at HOST:PORT instead of the local store")
	pf.StringVar(&c.logLevel, "log-level", "", "diagnostic log level: debug|info|warn|error")

	root.Flags().String("filter", "", "keep events whose category, type or machine id equals this value")
	root.Flags().Int("last", 0, "show only the last N events")
	root.Flags().String("where", "", "CEL expression each event must satisfy, e.g. 'success == false'")
	root.Flags().Bool("stats", false, "print store statistics instead of events")

	root.AddCommand(
		c.newSummaryCommand(),
		c.newFilesCommand(),
		c.newBrowseCommand(),
		c.newServeCommand(),
		c.newSchemaCommand(),
	)
	return root
}

// setup loads configuration, applies flag overrides, initialises logging and
// picks the event source.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.StoreDir = config.ExpandPath(c.storeDir)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	c.cfg = cfg

	logging.Init(c.opts.Stderr, false, logging.ParseLevel(cfg.LogLevel))

	if c.remote != "" {
		cl, err := client.NewClient(c.remote)
		if err != nil {
			return errors.Mark(err, eventstore.ErrInvalidArgument)
		}
		slog.Debug("using remote source", "remote", c.remote)
		c.src = cl
		return nil
	}
	c.src = c.local()
	return nil
}

func (c *cli) local() *source.Local {
	l := source.NewLocal(c.cfg.StoreDir, c.cfg.RetentionDays)
	l.Now = c.opts.Now
	return l
}

// date resolves the optional positional date argument against the clock.
func (c *cli) date(args []string) (string, error) {
	if len(args) == 0 {
		return eventstore.FormatDate(eventstore.Today(c.opts.Now())), nil
	}
	day, err := eventstore.ParseDate(args[0])
	if err != nil {
		return "", err
	}
	return eventstore.FormatDate(day), nil
}

func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return errors.Mark(err, eventstore.ErrInvalidArgument)
		}
		return nil
	}
}
