package ui

import (
	"context"

	"election-check/core/batch"
	"election-check/core/input"
	"election-check/core/reference"
)

// ValidationRunner runs a validation batch with a progress bar
type ValidationRunner struct {
	w            *Writer
	showProgress bool
}

// NewValidationRunner creates a runner. The progress bar is drawn only when
// showProgress is set and there is more than one document.
func NewValidationRunner(w *Writer, showProgress bool) *ValidationRunner {
	return &ValidationRunner{
		w:            w,
		showProgress: showProgress,
	}
}

// Run validates docs and returns the batch summary
func (r *ValidationRunner) Run(ctx context.Context, ref *reference.Config, opts batch.Options, docs []*input.Document) (*batch.Summary, error) {
	var bar *ProgressBar
	if r.showProgress && len(docs) > 1 {
		bar = r.w.NewProgressBar(len(docs), "Documents")
		opts.Progress = func(done, _ int) {
			bar.Update(done)
		}
	}

	summary, err := batch.NewRunner(ref, opts).Run(ctx, docs)
	if bar != nil {
		bar.Done()
	}
	return summary, err
}
