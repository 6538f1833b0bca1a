package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bft-labs/mantle/internal/app"
	"github.com/bft-labs/mantle/internal/cliconfig"
)

func newListCommand(cfg *cliconfig.Config, zl *zerolog.Logger) *cobra.Command {
	var all, categories bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered algorithms by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := newEngine(ctx, *cfg, *zl)
			if err != nil {
				return err
			}
			defer e.close(ctx)

			out := cmd.OutOrStdout()
			if categories {
				return printCategories(out, e.registry.CategoriesWithState(), all)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tALGORITHM\tVERSION")
			for _, d := range e.registry.Descriptors(all) {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", d.Category, d.Name, d.Version)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include hidden categories")
	cmd.Flags().BoolVar(&categories, "categories", false, "list categories instead of algorithms")
	return cmd
}

func printCategories(out io.Writer, state map[string]bool, all bool) error {
	names := make([]string, 0, len(state))
	for c := range state {
		names = append(names, c)
	}
	sort.Strings(names)
	for _, c := range names {
		hidden := state[c]
		switch {
		case hidden && all:
			fmt.Fprintf(out, "%s (hidden)\n", c)
		case !hidden:
			fmt.Fprintln(out, c)
		}
	}
	return nil
}

func newRunCommand(cfg *cliconfig.Config, zl *zerolog.Logger) *cobra.Command {
	var (
		jobPath string
		version int
		props   []string
	)
	cmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "Run one algorithm, from arguments or a job file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := jobFromArgs(jobPath, args, version, props)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := newEngine(ctx, *cfg, *zl)
			if err != nil {
				return err
			}
			defer e.close(context.Background())

			res, err := e.runner.Run(ctx, job)
			printResult(cmd.OutOrStdout(), res, err)
			return err
		},
	}
	cmd.Flags().StringVar(&jobPath, "job", "", "job file (.toml, .yaml) describing the run")
	cmd.Flags().IntVar(&version, "algorithm-version", -1, "algorithm version (-1 selects the highest)")
	cmd.Flags().StringArrayVarP(&props, "property", "p", nil, "property as name=value (repeatable)")
	return cmd
}

func newWatchCommand(cfg *cliconfig.Config, zl *zerolog.Logger) *cobra.Command {
	var jobPath string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run a job file and run it again every time it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobPath == "" {
				return errors.New("--job is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := newEngine(ctx, *cfg, *zl)
			if err != nil {
				return err
			}
			defer e.close(context.Background())

			out := cmd.OutOrStdout()
			w := app.NewWatcher(jobPath, e.runner,
				app.WithDebounce(cfg.WatchDebounce),
				app.WithWatcherLogger(e.logger),
				app.WithResultHandler(func(res app.Result, err error) { printResult(out, res, err) }),
			)
			return w.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&jobPath, "job", "", "job file (.toml, .yaml) to watch")
	return cmd
}

// jobFromArgs builds a job from a job file or from the command line.
// Command line properties override those of the file.
func jobFromArgs(path string, args []string, version int, props []string) (app.Job, error) {
	job := app.Job{Version: version}
	if path != "" {
		loaded, err := app.LoadJob(path)
		if err != nil {
			return app.Job{}, err
		}
		job = loaded
		if version != -1 {
			job.Version = version
		}
	}
	if len(args) == 1 {
		job.Algorithm = args[0]
	}
	for _, p := range props {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return app.Job{}, fmt.Errorf("invalid property %q: want name=value", p)
		}
		if job.Properties == nil {
			job.Properties = map[string]any{}
		}
		job.Properties[strings.TrimSpace(name)] = value
	}
	return job, job.Validate()
}

func printResult(out io.Writer, res app.Result, err error) {
	if res.Algorithm == "" {
		fmt.Fprintf(os.Stderr, "job failed: %v\n", err)
		return
	}
	status := "ok"
	if err != nil {
		status = "failed: " + err.Error()
	}
	fmt.Fprintf(out, "%s v%d [%s] %s in %s\n", res.Algorithm, res.Version, res.ID, status, res.Duration)
	for _, name := range res.Stored {
		fmt.Fprintf(out, "  stored %s\n", name)
	}
}
