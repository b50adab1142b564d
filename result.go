package feedsync

import (
	"github.com/autolife/feedsync/pkg/batch"
	"github.com/autolife/feedsync/pkg/plan"
)

// Result summarizes one sync run.
type Result struct {
	// RecordsRead is the number of valid feed records.
	RecordsRead int
	// Counts breaks the plan down by classification.
	Counts plan.Counts
	// Operations is the built plan, in feed order.
	Operations []plan.Operation
	// Report covers the submission phase. Zero in dry-run mode.
	Report batch.Report
	// DryRun reports whether submission was skipped.
	DryRun bool
}

// Submitted reports whether every batch was accepted by the remote.
func (r *Result) Submitted() bool {
	return !r.DryRun && r.Report.BatchesAttempted > 0 && !r.Report.Failed()
}
