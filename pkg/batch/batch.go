// Package batch drives the remote submission protocol: the plan is cut
// into fixed-size batches, each submitted at most once, with a fixed
// pause between batches to stay under the remote rate limits.
package batch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/autolife/feedsync/pkg/errors"
	"github.com/autolife/feedsync/pkg/logging"
	"github.com/autolife/feedsync/pkg/plan"
)

// API is the remote surface the submitter needs.
type API interface {
	// SubmitProducts submits one batch of operations as a single request.
	SubmitProducts(ctx context.Context, ops []plan.Operation) error
}

// Default protocol parameters.
const (
	DefaultBatchSize = 50
	DefaultDelay     = 15 * time.Second
)

// BatchFailure records the first batch that failed.
type BatchFailure struct {
	Batch int // 1-based batch number
	Err   error
}

// Report summarizes a submission run.
type Report struct {
	TotalOperations  int
	BatchesAttempted int
	BatchesSucceeded int
	FirstFailure     *BatchFailure
}

// Failed reports whether any batch failed.
func (r Report) Failed() bool { return r.FirstFailure != nil }

// Config carries the protocol parameters.
type Config struct {
	// BatchSize is the maximum number of operations per request.
	BatchSize int
	// Delay is the pause after each submitted batch.
	Delay time.Duration
	// StopOnError aborts the run on the first failed batch. When false,
	// recoverable failures are logged and later batches still run.
	StopOnError bool
}

// Submitter pushes a plan to the remote catalog batch by batch.
type Submitter struct {
	api   API
	cfg   Config
	log   zerolog.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSubmitter creates a submitter. Zero config fields fall back to the
// protocol defaults.
func NewSubmitter(api API, cfg Config, logger *zerolog.Logger) *Submitter {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if logger == nil {
		logger = &logging.Nop
	}
	return &Submitter{api: api, cfg: cfg, log: *logger, sleep: sleepCtx}
}

// Submit pushes ops in order. Every batch is attempted at most once;
// there are no retries, so a failed batch leaves its operations
// unapplied. The returned error is the first failure when the run was
// aborted, nil otherwise — a completed run with skipped batches reports
// the failure through Report.FirstFailure instead.
func (s *Submitter) Submit(ctx context.Context, ops []plan.Operation) (Report, error) {
	report := Report{TotalOperations: len(ops)}
	if len(ops) == 0 {
		return report, nil
	}

	batches := partition(ops, s.cfg.BatchSize)
	s.log.Info().
		Int("operations", len(ops)).
		Int("batches", len(batches)).
		Int("batch_size", s.cfg.BatchSize).
		Msg("starting submission")

	for i, b := range batches {
		report.BatchesAttempted++
		if err := s.api.SubmitProducts(ctx, b); err != nil {
			if report.FirstFailure == nil {
				report.FirstFailure = &BatchFailure{Batch: i + 1, Err: err}
			}
			if s.cfg.StopOnError || !errors.IsRecoverable(err) {
				s.log.Error().Err(err).Int("batch", i+1).Msg("batch failed, aborting run")
				return report, err
			}
			s.log.Warn().Err(err).Int("batch", i+1).Msg("batch failed, continuing")
		} else {
			report.BatchesSucceeded++
			s.log.Info().
				Int("batch", i+1).
				Int("of", len(batches)).
				Int("operations", len(b)).
				Msg("batch submitted")
		}

		if err := s.sleep(ctx, s.cfg.Delay); err != nil {
			return report, err
		}
	}

	return report, nil
}

// partition cuts ops into slices of at most size elements, preserving
// order. Slices alias the input.
func partition(ops []plan.Operation, size int) [][]plan.Operation {
	var out [][]plan.Operation
	for len(ops) > size {
		out = append(out, ops[:size])
		ops = ops[size:]
	}
	return append(out, ops)
}

// sleepCtx pauses for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
