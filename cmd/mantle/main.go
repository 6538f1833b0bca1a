package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/mantle/internal/cliconfig"
)

const helpDescription = `
Run numerical algorithms through a managed lifecycle.

Highlights:
  - Every algorithm is initialized, validated, executed and finalized in order.
  - Workflows build child algorithms that share logging, storage and tracing.
  - Outputs land in an artifact store: in memory, on disk, or in redis.
  - Configure via file ($HOME/.mantle/config.toml), MANTLE_* env, or flags.
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  mantle list --all
  mantle run CreateWorkspace -p DataX=1,2,3 -p DataY=4,5,6 -p OutputWorkspace=raw
  mantle run --job scale.toml --artifact-backend file --metrics
  mantle watch --job chain.yaml --trace
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger(cfg, os.Stderr)

	root := &cobra.Command{
		Use:           "mantle",
		Short:         "Run numerical algorithms through a managed lifecycle",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// MANTLE_* overrides the file but not explicit flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			log = cliconfig.Logger(cfg, os.Stderr)
			log.Debug().Interface("config", cfg).Msg("configuration")
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.mantle/config.toml)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, notice, warn, error, fatal)")
	pf.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "write logs as JSON")
	pf.StringVar(&cfg.ArtifactBackend, "artifact-backend", cfg.ArtifactBackend, "artifact store back end (memory, file, redis)")
	pf.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address for the redis back end")
	pf.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "redis database number")
	pf.DurationVar(&cfg.RedisTTL, "redis-ttl", cfg.RedisTTL, "expiry of stored workspaces (0 keeps them)")
	pf.IntVar(&cfg.RedisConnectAttempts, "redis-connect-attempts", cfg.RedisConnectAttempts, "redis connection attempts before giving up")
	pf.StringVar(&cfg.StoreDir, "store-dir", cfg.StoreDir, "directory for the file back end (default: $HOME/.mantle/workspaces)")
	pf.StringSliceVar(&cfg.HiddenCategories, "hidden-categories", cfg.HiddenCategories, "categories left out of listings")
	pf.BoolVar(&cfg.Trace, "trace", cfg.Trace, "print execution spans to stderr")
	pf.BoolVar(&cfg.MetricsSummary, "metrics", cfg.MetricsSummary, "print execution metrics when done")
	pf.DurationVar(&cfg.WatchDebounce, "watch-debounce", cfg.WatchDebounce, "delay between a job file change and the rerun")
	if err := root.PersistentFlags().MarkHidden("redis-connect-attempts"); err != nil {
		log.Info().Err(err).Msg("failed to hide redis-connect-attempts flag")
	}

	root.AddCommand(
		newListCommand(&cfg, &log),
		newRunCommand(&cfg, &log),
		newWatchCommand(&cfg, &log),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("mantle")
		os.Exit(1)
	}
}
