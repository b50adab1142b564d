// Package cmd defines the feedsync CLI commands.
package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/autolife/feedsync/cmd/feedsync/app"
)

// BuildInfo carries version metadata populated at build time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// state is shared between the persistent pre-run and the subcommands.
type state struct {
	cfg    *app.Config
	logger zerolog.Logger
}

// Execute runs the CLI.
func Execute(ctx context.Context, info BuildInfo) error {
	return newRootCmd(info).ExecuteContext(ctx)
}

func newRootCmd(info BuildInfo) *cobra.Command {
	var (
		configFile string
		verbose    bool
		quiet      bool
		noColor    bool
		logLevel   string
	)
	st := &state{}

	root := &cobra.Command{
		Use:   "feedsync",
		Short: "Synchronize a supplier product feed into the webshop catalog",
		Long: `feedsync downloads the supplier product feed, compares it with the
current webshop catalog, and applies the difference: new products are
created (unpublished, with their category chain materialized on demand)
and known products get their stock, delivery time, and prices updated.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(configFile)
			if err != nil {
				return err
			}
			cfg.UpdateFromFlags(verbose, quiet, noColor, logLevel)
			st.cfg = cfg
			st.logger = app.NewLogger(cfg)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default .feedsync.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "warnings and errors only")
	pf.BoolVar(&noColor, "no-color", false, "disable colored console output")
	pf.StringVar(&logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")

	root.AddCommand(
		newSyncCmd(st),
		newVersionCmd(info),
	)
	return root
}
