package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-salon-sync/internal/app"
	"github.com/MKhiriev/go-salon-sync/internal/config"
	"github.com/MKhiriev/go-salon-sync/internal/logger"
	"github.com/MKhiriev/go-salon-sync/internal/service"
	"github.com/MKhiriev/go-salon-sync/internal/tui"
	"github.com/MKhiriev/go-salon-sync/models"
)

const defaultWait = 10 * time.Second

// RootOptions holds the global flags shared by every command.
type RootOptions struct {
	ConfigPath  string
	Transport   string
	HTTPAddress string
	GRPCAddress string
	DSN         string
	Driver      string
	HashKey     string
	LogLevel    string
	LogFile     string
	Collections []string
	Wait        time.Duration
}

// overrides turns the flags into the highest-priority config source below
// the environment.
func (o *RootOptions) overrides() *config.StructuredConfig {
	return &config.StructuredConfig{
		App:     config.App{HashKey: o.HashKey},
		Storage: config.Storage{DB: config.DB{DSN: o.DSN, Driver: o.Driver}},
		Adapter: config.Adapter{
			Transport:   o.Transport,
			HTTPAddress: o.HTTPAddress,
			GRPCAddress: o.GRPCAddress,
		},
		Sync:     config.Sync{Collections: o.Collections},
		Log:      config.Log{Level: o.LogLevel, File: o.LogFile},
		FilePath: o.ConfigPath,
	}
}

// NewRootCommand creates the salon client CLI. Without a subcommand it
// starts the terminal UI.
func NewRootCommand(build models.AppBuildInfo) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "salon",
		Short:         "Offline-first salon data client",
		Long:          "Browse and edit salon collections. Every change is kept on this device and synced when the server is reachable.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, build)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (json, toml, yaml)")
	flags.StringVar(&opts.Transport, "transport", "", "remote transport: http, grpc or none")
	flags.StringVar(&opts.HTTPAddress, "address", "", "HTTP sync server address")
	flags.StringVar(&opts.GRPCAddress, "grpc-address", "", "gRPC sync server address")
	flags.StringVar(&opts.DSN, "db", "", "local store path or DSN")
	flags.StringVar(&opts.Driver, "driver", "", "local store driver: sqlite, bolt or file")
	flags.StringVar(&opts.HashKey, "hash-key", "", "payload integrity hash key")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.LogFile, "log-file", "", "log file")
	flags.StringSliceVar(&opts.Collections, "collections", nil, "collections to open (default: all)")
	flags.DurationVar(&opts.Wait, "wait", defaultWait, "how long to wait for the first sync")

	cmd.AddCommand(newStatusCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newPutCommand(opts))
	cmd.AddCommand(newPullCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newTUICommand(opts, build))
	cmd.AddCommand(newVersionCommand(build))

	return cmd
}

// ExecuteContext runs the CLI and prints a failed command's error in red.
func ExecuteContext(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}
	return err
}

// openApp loads the config and opens the sync stack. The caller closes the
// returned App.
func openApp(ctx context.Context, opts *RootOptions) (*App, error) {
	cfg, err := config.LoadClientConfig(opts.overrides())
	if err != nil {
		return nil, err
	}

	log := logger.NewClientLogger("salon-client", cfg.Log.File)
	if err = logger.SetLevel(cfg.Log.Level); err != nil {
		return nil, err
	}

	return NewApp(ctx, cfg, log)
}

// waitInitialSync waits up to opts.Wait and warns instead of failing when
// the remote store is slow.
func waitInitialSync(ctx context.Context, cmd *cobra.Command, a *App, opts *RootOptions) {
	ctx, cancel := context.WithTimeout(ctx, opts.Wait)
	defer cancel()

	if err := a.WaitInitialSync(ctx); err != nil {
		color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), app.MsgInitialSyncTimeout)
	}
}

func newStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the sync state of every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			waitInitialSync(cmd.Context(), cmd, a, opts)
			printStatuses(cmd.OutOrStdout(), a.Registry().Statuses())
			return nil
		},
	}
}

func printStatuses(w io.Writer, statuses []service.Status) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	for _, st := range statuses {
		state := app.MsgSyncing
		switch {
		case st.State == service.StateLocalOnly:
			state = yellow("offline")
		case st.InitialSynced:
			state = green(app.MsgSynced)
		}

		fmt.Fprintf(w, "%-14s %5d records  %-10s pulls=%d pushes=%d\n", st.Key, st.Records, state, st.Pulls, st.Pushes)
		if st.LocalOnlyReason != "" {
			fmt.Fprintf(w, "  %s: %s\n", app.MsgLocalOnly, st.LocalOnlyReason)
		}
		if st.LastPullError != "" {
			fmt.Fprintf(w, "  %s\n", red("pull error: "+st.LastPullError))
		}
		if st.LastPushError != "" {
			fmt.Fprintf(w, "  %s\n", red("push error: "+st.LastPushError))
		}
	}
}

func newListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <collection>",
		Short: "Print the records of a collection as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			waitInitialSync(cmd.Context(), cmd, a, opts)

			text, err := a.Registry().Encoded(args[0])
			if err != nil {
				return err
			}

			var out bytes.Buffer
			if err = json.Indent(&out, []byte(text), "", "  "); err != nil {
				return err
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}

func newPutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "put <collection> <record-json|->",
		Short: "Insert or replace one record by id",
		Long:  "Insert or replace one record by id. Pass - to read the record from stdin. The record is stamped with the current time.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := []byte(args[1])
			if args[1] == "-" {
				var err error
				if raw, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			stamped, err := models.StampJSON(raw, time.Now())
			if err != nil {
				return fmt.Errorf("%s: %w", app.MsgInvalidRecord, err)
			}

			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			// a push is only possible after the first pull
			waitInitialSync(cmd.Context(), cmd, a, opts)

			key := args[0]
			before, err := a.Status(key)
			if err != nil {
				return err
			}
			if err = a.Registry().UpsertJSON(key, stamped); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), app.MsgRecordSaved)

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Wait)
			defer cancel()
			if err = a.WaitPushed(ctx, key, before.Pushes); err != nil {
				color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), app.MsgPushPending)
			}
			return nil
		},
	}
}

func newPullCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Pull and merge every collection now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			waitInitialSync(cmd.Context(), cmd, a, opts)

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Wait)
			defer cancel()
			if err = a.Registry().RefreshAll(ctx); err != nil {
				return fmt.Errorf("%s: %w", app.MsgRefreshFailed, err)
			}

			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), app.MsgRefreshDone)
			printStatuses(cmd.OutOrStdout(), a.Registry().Statuses())
			return nil
		},
	}
}

func newSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Restore missing default categories, services and staff",
		Long:  "Restore missing default categories, services and staff. Records that exist, edited or not, are left alone.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.Close()

			// seeding before the first pull could resurrect records the
			// remote already holds under another revision
			waitInitialSync(cmd.Context(), cmd, a, opts)

			before := make(map[string]int)
			for _, st := range a.Registry().Statuses() {
				before[st.Key] = st.Pushes
			}

			added := service.RestoreSeeds(a.Salon(), time.Now())

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Wait)
			defer cancel()
			for _, key := range slices.Sorted(maps.Keys(added)) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %d added\n", key, added[key])
				if added[key] == 0 {
					continue
				}
				if err = a.WaitPushed(ctx, key, before[key]); err != nil {
					color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), app.MsgPushPending)
				}
			}
			return nil
		},
	}
}

func newTUICommand(opts *RootOptions, build models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse collections in the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts, build)
		},
	}
}

func runTUI(cmd *cobra.Command, opts *RootOptions, build models.AppBuildInfo) error {
	a, err := openApp(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ui := tui.New(a.Registry(), build, a.logger)
	return a.Run(cmd.Context(), ui)
}

func newVersionCommand(build models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, line := range build.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
		},
	}
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
