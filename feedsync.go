// Package feedsync synchronizes a supplier product feed into a remote
// webshop catalog. A sync run fetches the feed and the current catalog,
// plans one create or update per feed row, and submits the plan in
// rate-limited batches.
package feedsync

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/autolife/feedsync/internal/transport"
	"github.com/autolife/feedsync/internal/unas"
	"github.com/autolife/feedsync/pkg/batch"
	"github.com/autolife/feedsync/pkg/catalog"
	"github.com/autolife/feedsync/pkg/categories"
	"github.com/autolife/feedsync/pkg/errors"
	"github.com/autolife/feedsync/pkg/feed"
	"github.com/autolife/feedsync/pkg/logging"
	"github.com/autolife/feedsync/pkg/plan"
)

// Remote is the full remote-catalog surface a sync run needs.
type Remote interface {
	// Login exchanges the API key for a session token.
	Login(ctx context.Context, apiKey string) error
	// Products fetches the complete catalog listing.
	Products(ctx context.Context) ([]catalog.Entry, error)

	categories.API
	batch.API
}

// FeedSource produces the normalized feed records for a run.
type FeedSource func(ctx context.Context) ([]feed.Record, error)

// Syncer runs feed-to-catalog synchronization.
type Syncer struct {
	cfg    *config
	remote Remote
	source FeedSource
	log    zerolog.Logger
}

// New creates a Syncer from the given options. An API key is required
// unless a pre-authenticated remote is injected.
func New(opts ...Option) (*Syncer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = &logging.Nop
	}

	remote := cfg.remote
	if remote == nil {
		tc := transport.NewWithHTTPClient(&transport.BearerAuth{}, cfg.httpClient)
		remote = unas.NewClient(tc, cfg.baseURL, logger)
	}

	s := &Syncer{cfg: cfg, remote: remote, log: *logger}

	s.source = cfg.source
	if s.source == nil {
		if cfg.feedURL == "" {
			return nil, errors.New("feedsync: a feed URL or feed source is required")
		}
		url, cols := cfg.feedURL, cfg.columns
		tc := transport.NewWithHTTPClient(&transport.NoAuth{}, cfg.httpClient)
		s.source = func(ctx context.Context) ([]feed.Record, error) {
			return feed.Fetch(ctx, tc, url, cols)
		}
	}

	return s, nil
}

// Sync runs one full synchronization pass. In dry-run mode the plan is
// built against the live catalog but nothing is created or submitted.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	if err := s.remote.Login(ctx, s.cfg.apiKey); err != nil {
		return nil, err
	}

	entries, err := s.remote.Products(ctx)
	if err != nil {
		return nil, err
	}
	index := catalog.NewIndex(entries, s.cfg.planConfig.Attributes.ExternalSKU)
	s.log.Info().
		Int("entries", len(entries)).
		Int("indexed", index.Len()).
		Int("duplicates", index.Duplicates()).
		Int("unindexed", index.Unindexed()).
		Msg("catalog indexed")

	records, err := s.source(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("records", len(records)).Msg("feed loaded")

	var catAPI categories.API = s.remote
	if s.cfg.dryRun {
		catAPI = &readOnlyCategories{api: s.remote}
	}
	resolver := categories.NewResolver(catAPI, s.cfg.newProductsCategoryID, &s.log)

	engine := plan.NewEngine(s.cfg.planConfig, index, resolver, &s.log)
	ops, counts, err := engine.Plan(ctx, records)
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int("creates", counts.Creates).
		Int("updates", counts.Updates).
		Int("skipped", counts.Skipped).
		Msg("plan built")

	result := &Result{
		RecordsRead: len(records),
		Counts:      counts,
		Operations:  ops,
		DryRun:      s.cfg.dryRun,
	}

	if s.cfg.dryRun {
		s.log.Info().Msg("dry run, skipping submission")
		return result, nil
	}

	submitter := batch.NewSubmitter(s.remote, s.cfg.batchConfig, &s.log)
	report, err := submitter.Submit(ctx, ops)
	result.Report = report
	if err != nil {
		return result, err
	}

	s.log.Info().
		Int("batches", report.BatchesAttempted).
		Int("succeeded", report.BatchesSucceeded).
		Msg("sync finished")
	return result, nil
}

// readOnlyCategories serves category lookups but refuses to create.
// Dry runs plan against the live taxonomy without mutating it; a zero
// category ID in the plan marks a chain that would be created.
type readOnlyCategories struct {
	api categories.API
}

func (r *readOnlyCategories) Categories(ctx context.Context, limit int) ([]categories.Category, error) {
	return r.api.Categories(ctx, limit)
}

func (r *readOnlyCategories) CreateCategory(_ context.Context, _ int64, _, _ string) (int64, error) {
	return 0, nil
}
