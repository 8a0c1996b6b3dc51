package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/codalotl/locpick/internal/config"
	"github.com/codalotl/locpick/internal/location"
	"github.com/codalotl/locpick/internal/locationapi"
	"github.com/codalotl/locpick/internal/locationd"
	"github.com/codalotl/locpick/internal/simplelogger"
	"github.com/codalotl/locpick/internal/tui"
)

// Test seams.
var (
	runTUI     = tui.Run
	isTerminal = func(v any) bool {
		f, ok := v.(interface{ Fd() uintptr })
		return ok && term.IsTerminal(int(f.Fd()))
	}
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "locpick",
		Short: "Pick a country, state, and city from a location-data service",
		Long: `locpick is an interactive cascading selector: choose a country, then one of its states, then one of that state's cities.
Each list is fetched from the location-data service as the previous level is chosen.`,
		Version:       Version,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (default: ./locpick.yaml or ~/.locpick/locpick.yaml)")
	pf.String("api-url", "", "location-data service base URL")
	pf.Duration("timeout", 0, "per-request timeout (0 = none)")
	pf.String("log-file", "", "append logs to this file")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text, json")

	root.Flags().Bool("discard-stale", false, "ignore responses superseded by a newer selection")
	root.Flags().Int("max-rows", 0, "options visible per column")
	root.Flags().String("palette", "", "color palette: auto, plain")

	loadConfig := func(cmd *cobra.Command) (*config.Config, error) {
		return config.Load(configPath, cmd.Flags())
	}

	root.RunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runSelector(cmd, cfg)
	}

	root.AddCommand(
		newListCommand(loadConfig),
		newServeCommand(loadConfig),
		newConfigCommand(loadConfig),
		newVersionCommand(),
	)
	return root
}

// usageArgs marks positional-arg validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}

// newLogger returns a logger that writes to cfg.Log.File when set, and otherwise to fallback.
func newLogger(cfg *config.Config, fallback io.Writer) *slog.Logger {
	w := fallback
	if cfg.Log.File != "" {
		w = simplelogger.Open(cfg.Log.File)
	}
	return cfg.Log.NewLogger(w)
}

func newClient(cfg *config.Config, logger *slog.Logger) *locationapi.Client {
	return locationapi.NewClient(cfg.API.BaseURL,
		locationapi.WithTimeout(cfg.API.Timeout),
		locationapi.WithLogger(logger),
	)
}

func runSelector(cmd *cobra.Command, cfg *config.Config) error {
	if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.OutOrStdout()) {
		return errors.New("locpick: the interactive selector needs a terminal; use `locpick list` for scripted lookups")
	}

	// The TUI owns the terminal, so logs only go to a file (or nowhere).
	logger := cfg.Log.NewLogger(simplelogger.Open(cfg.Log.File))

	sel, err := runTUI(cmd.Context(), tui.Config{
		Fetcher:      newClient(cfg, logger),
		Logger:       logger,
		DiscardStale: cfg.UI.DiscardStale,
		MaxRows:      cfg.UI.MaxRows,
		Palette:      tui.ParsePaletteName(cfg.UI.Palette),
		Input:        cmd.InOrStdin(),
		Output:       cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("run selector: %w", err)
	}
	if line, ok := sel.Summary(); ok {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func newListCommand(loadConfig func(*cobra.Command) (*config.Config, error)) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list [country [state]]",
		Short: "Print countries, the states of a country, or the cities of a state",
		Example: `  locpick list
  locpick list India
  locpick list India Goa --json`,
		Args: usageArgs(cobra.MaximumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var sel location.Selection
			for i, a := range args {
				if strings.TrimSpace(a) == "" {
					return usageErrorf("%s must be non-empty", location.Levels[i])
				}
				sel = sel.With(location.Levels[i], a)
			}
			level := location.Levels[len(args)]

			client := newClient(cfg, newLogger(cfg, cmd.ErrOrStderr()))
			values, err := client.List(cmd.Context(), level, sel)
			if errors.Is(err, locationapi.ErrMissingParent) {
				return usageError{err: err}
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(values)
			}
			for _, v := range values {
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array")
	return cmd
}

func newServeCommand(loadConfig func(*cobra.Command) (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the location-data API from a YAML dataset",
		Long: `serve runs a local location-data service with the same endpoints the selector uses:

  GET /countries
  GET /country={country}/states
  GET /country={country}/state={state}/cities

Without --data it serves a small built-in dataset.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			ds, err := locationd.Load(cfg.Serve.Data)
			if err != nil {
				return err
			}
			gin.SetMode(cfg.Serve.GinMode)
			return locationd.ListenAndServe(cmd.Context(), cfg.Serve.Addr, locationd.New(ds, logger), logger)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().String("data", "", "YAML dataset path (default: built-in dataset)")
	return cmd
}

func newConfigCommand(loadConfig func(*cobra.Command) (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as JSON",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return cfg.WriteJSON(cmd.OutOrStdout())
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the locpick version",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}
