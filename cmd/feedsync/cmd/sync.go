package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/autolife/feedsync"
	"github.com/autolife/feedsync/cmd/feedsync/app"
	"github.com/autolife/feedsync/pkg/batch"
	"github.com/autolife/feedsync/pkg/errors"
	"github.com/autolife/feedsync/pkg/plan"
)

func newSyncCmd(st *state) *cobra.Command {
	var (
		dryRun     bool
		planOutput string
		feedURL    string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one feed-to-catalog synchronization pass",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := st.cfg
			if feedURL != "" {
				cfg.FeedURL = feedURL
			}
			if cfg.APIKey == "" {
				return errors.New("no API key configured, set UNAS_API_KEY")
			}
			if cfg.FeedURL == "" {
				return errors.New("no feed URL configured, set FEED_URL or --feed-url")
			}

			syncer, err := feedsync.New(
				feedsync.WithAPIKey(cfg.APIKey),
				feedsync.WithBaseURL(cfg.BaseURL),
				feedsync.WithFeedURL(cfg.FeedURL),
				feedsync.WithLogger(&st.logger),
				feedsync.WithPlanConfig(planConfig(cfg)),
				feedsync.WithBatchConfig(batch.Config{
					BatchSize:   cfg.BatchSize,
					Delay:       cfg.BatchDelay,
					StopOnError: cfg.StopOnError,
				}),
				feedsync.WithNewProductsCategoryID(cfg.NewProductsCategoryID),
				feedsync.WithDryRun(dryRun),
			)
			if err != nil {
				return err
			}

			result, runErr := syncer.Sync(cmd.Context())
			if result != nil {
				if err := writePlan(result, planOutput); err != nil {
					st.logger.Error().Err(err).Msg("failed to write plan")
				}
				printSummary(cmd, result)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan without creating categories or submitting products")
	cmd.Flags().StringVarP(&planOutput, "output", "o", "", "write the operation plan as YAML to this file (- for stdout)")
	cmd.Flags().StringVar(&feedURL, "feed-url", "", "feed URL (overrides configuration)")
	return cmd
}

// planConfig builds the engine configuration from the CLI config.
func planConfig(cfg *app.Config) plan.Config {
	pc := feedsync.DefaultPlanConfig()
	pc.Attributes = plan.AttributeIDs{
		ExternalSKU:  cfg.ExternalSKUParam,
		EAN:          cfg.EANParam,
		DeliveryTime: cfg.DeliveryTimeParam,
		Manufacturer: cfg.ManufacturerParam,
	}
	pc.BaseCategoryID = cfg.BaseCategoryID
	pc.Unit = cfg.Unit
	pc.VATRate = cfg.VATRate
	pc.VATLabel = cfg.VATLabel
	return pc
}

// writePlan dumps the operation list as YAML when an output was asked
// for.
func writePlan(result *feedsync.Result, path string) error {
	if path == "" {
		return nil
	}
	out, err := yaml.Marshal(result.Operations)
	if err != nil {
		return errors.WrapParse("yaml", "plan", err)
	}
	if path == "-" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return errors.WrapIO("write", path, os.WriteFile(path, out, 0o644))
}

func printSummary(cmd *cobra.Command, result *feedsync.Result) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "records=%d creates=%d updates=%d skipped=%d\n",
		result.RecordsRead, result.Counts.Creates, result.Counts.Updates, result.Counts.Skipped)
	if result.DryRun {
		fmt.Fprintln(w, "dry run: nothing submitted")
		return
	}
	fmt.Fprintf(w, "batches=%d succeeded=%d\n",
		result.Report.BatchesAttempted, result.Report.BatchesSucceeded)
	if result.Report.Failed() {
		fmt.Fprintf(w, "first failure: batch %d: %v\n",
			result.Report.FirstFailure.Batch, result.Report.FirstFailure.Err)
	}
}
