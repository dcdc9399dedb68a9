package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/statewalk/evlog/internal/event"
	"github.com/statewalk/evlog/internal/eventstore"
	"github.com/statewalk/evlog/internal/filter"
	"github.com/statewalk/evlog/internal/logging"
	"github.com/statewalk/evlog/internal/prefs"
	"github.com/statewalk/evlog/internal/render"
	"github.com/statewalk/evlog/internal/server"
	"github.com/statewalk/evlog/internal/source"
	"github.com/statewalk/evlog/internal/state"
	"github.com/statewalk/evlog/internal/ui"
)

// runView prints every event of one date in detailed form.
func (c *cli) runView(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	flags := cmd.Flags()
	if showStats, _ := flags.GetBool("stats"); showStats {
		return c.printStats(cmd, out)
	}

	date, err := c.date(args)
	if err != nil {
		return err
	}
	value, _ := flags.GetString("filter")
	where, _ := flags.GetString("where")
	last, _ := flags.GetInt("last")

	var expr filter.Expr
	if where != "" {
		if expr, err = filter.Compile(where); err != nil {
			return err
		}
	}

	day, err := c.src.Events(cmd.Context(), date)
	if errors.Is(err, eventstore.ErrNotFound) {
		return c.reportMissing(cmd, out, date)
	}
	if err != nil {
		return err
	}
	logRecovery(day)

	fmt.Fprintln(out, c.style.Header("Events for "+day.Date))

	records := day.Records
	if value != "" {
		records = filter.Match(records, value)
		fmt.Fprintf(out, "Filtered to %d events matching '%s'\n", len(records), value)
	}
	if where != "" {
		records = expr.Filter(records)
		fmt.Fprintf(out, "Matched %d events where %s\n", len(records), where)
	}
	if last > 0 {
		records = filter.Last(records, last)
		fmt.Fprintf(out, "Showing last %d events\n", len(records))
	}
	fmt.Fprintf(out, "Total: %d events\n", len(records))

	for _, r := range records {
		fmt.Fprintln(out)
		fmt.Fprintln(out, c.style.Block(render.Detailed(r)))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, c.style.Muted(render.Separator()))
	fmt.Fprintf(out, "Total events displayed: %d\n", len(records))
	return nil
}

// reportMissing explains that date has no file and lists the files that do
// exist. A missing file is not a failure.
func (c *cli) reportMissing(cmd *cobra.Command, out io.Writer, date string) error {
	fmt.Fprintf(out, "No events file found for %s\n", date)
	files, err := c.src.Files(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Available files:")
	if len(files) == 0 {
		fmt.Fprintln(out, "   (none)")
		return nil
	}
	for _, f := range files {
		fmt.Fprintf(out, "   - %s\n", f.Name)
	}
	return nil
}

func (c *cli) printStats(cmd *cobra.Command, out io.Writer) error {
	rep, err := c.src.Stats(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprint(out, rep.String())
	return nil
}

func logRecovery(day source.Day) {
	if day.Dropped > 0 || day.Partial {
		slog.Debug("recovered events with gaps",
			"date", day.Date,
			"records", len(day.Records),
			"dropped", day.Dropped,
			"partial_tail", day.Partial,
		)
	}
}

func (c *cli) newSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [date]",
		Short: "Print one condensed line per event, sorted by time",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			date, err := c.date(args)
			if err != nil {
				return err
			}
			day, err := c.src.Events(cmd.Context(), date)
			if errors.Is(err, eventstore.ErrNotFound) {
				return c.reportMissing(cmd, out, date)
			}
			if err != nil {
				return err
			}
			logRecovery(day)
			fmt.Fprintln(out, c.style.Header("Event summary for "+day.Date))
			fmt.Fprint(out, render.Summary(day.Records))
			return nil
		},
	}
}

func (c *cli) newFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the event files in the store",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			files, err := c.src.Files(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				if files == nil {
					files = []eventstore.File{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(files)
			}
			if len(files) == 0 {
				fmt.Fprintln(out, "No event files found")
				return nil
			}
			for _, f := range files {
				fmt.Fprintf(out, "%-28s %8.1f KB\n", f.Name, float64(f.Size)/1024)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "print the listing as JSON")
	return cmd
}

func (c *cli) newBrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [date]",
		Short: "Browse one date's events interactively",
		Args:  maxArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := c.date(args)
			if err != nil {
				return err
			}
			day, err := eventstore.ParseDate(date)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			value, _ := flags.GetString("filter")
			where, _ := flags.GetString("where")
			prefsPath, _ := flags.GetString("prefs")
			if where != "" {
				if _, err := filter.Compile(where); err != nil {
					return err
				}
			}

			userPrefs := prefs.Load(prefsPath)
			if c.cfg.Theme != "" {
				userPrefs.Theme = c.cfg.Theme
			}
			if value == "" {
				value = userPrefs.LastFilter
			}

			return ui.Run(ui.Options{
				Context:   cmd.Context(),
				Source:    c.src,
				Store:     &state.Store{},
				Date:      day,
				Query:     filter.Query{Value: value, Where: where},
				Prefs:     userPrefs,
				PrefsPath: prefsPath,
			})
		},
	}
	cmd.Flags().String("filter", "", "initial category, type or machine id filter")
	cmd.Flags().String("where", "", "initial CEL filter expression")
	cmd.Flags().String("prefs", "", "preferences file (default ~/.config/evlog/prefs.toml)")
	return cmd
}

func (c *cli) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local event store over a read-only HTTP API",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.remote != "" {
				return errors.Wrap(eventstore.ErrInvalidArgument, "serve reads the local store; drop --remote")
			}
			flags := cmd.Flags()
			bind := c.cfg.HTTPBind
			if flags.Changed("bind") {
				bind, _ = flags.GetString("bind")
			}
			if logJSON, _ := flags.GetBool("log-json"); logJSON {
				logging.Init(c.opts.Stderr, true, logging.ParseLevel(c.cfg.LogLevel))
			}
			gin.SetMode(gin.ReleaseMode)

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", c.cfg.StoreDir, bind)
			err := server.Run(cmd.Context(), c.local(), server.Config{Bind: bind, Now: c.opts.Now})
			if err != nil {
				return errors.Wrap(err, "http server")
			}
			return nil
		},
	}
	cmd.Flags().String("bind", "", "listen address (default from config, 127.0.0.1:7488)")
	cmd.Flags().Bool("log-json", false, "emit diagnostics as JSON")
	return cmd
}

func (c *cli) newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of an event record",
		Args:  maxArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := json.MarshalIndent(event.Schema(), "", "  ")
			if err != nil {
				return errors.Wrap(err, "marshal schema")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
