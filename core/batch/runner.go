// Package batch drives validation over whole dataset documents.
// Validation is fail-fast: a run stops at the first rejected record, and
// that record is the first failing one in document order even when records
// are validated in parallel.
package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"election-check/core/input"
	"election-check/core/metrics"
	"election-check/core/reference"
	"election-check/core/validate"
	"election-check/internal/errors"
	"election-check/internal/logging"
)

// Options configures a Runner
type Options struct {
	// Workers bounds the records validated at once; 1 validates sequentially
	Workers int

	// Metrics is optional
	Metrics *metrics.Metrics

	// Logger defaults to the global logger
	Logger *zap.Logger

	// Progress is called after each fully accepted document
	Progress func(done, total int)
}

// RecordFailure identifies the rejected record of a run
type RecordFailure struct {
	Document string
	RecordID string
	Kind     validate.Kind
	Err      error
}

// Error implements error
func (f *RecordFailure) Error() string {
	return fmt.Sprintf("%s: record %q: %v", f.Document, f.RecordID, f.Err)
}

// Unwrap returns the validation failure
func (f *RecordFailure) Unwrap() error {
	return f.Err
}

// DocumentResult describes a fully accepted document
type DocumentResult struct {
	Path     string        `json:"path"`
	Layout   string        `json:"layout"`
	Records  int           `json:"records"`
	Duration time.Duration `json:"duration_ns"`
}

// Summary describes a run. Failure is nil when every record was accepted.
type Summary struct {
	RunID     string           `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration_ns"`
	Documents []DocumentResult `json:"documents"`
	Accepted  int              `json:"accepted"`
	Failure   *RecordFailure   `json:"-"`
}

// Runner validates documents against one reference configuration. The
// configuration is shared read-only between workers.
type Runner struct {
	ref      *reference.Config
	workers  int
	metrics  *metrics.Metrics
	log      *zap.Logger
	progress func(done, total int)
}

// NewRunner creates a runner. ref may be nil when only results are validated.
func NewRunner(ref *reference.Config, opts Options) *Runner {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	log := opts.Logger
	if log == nil {
		log = logging.Logger
	}
	return &Runner{
		ref:      ref,
		workers:  workers,
		metrics:  opts.Metrics,
		log:      log,
		progress: opts.Progress,
	}
}

// Run validates docs in order and stops at the first rejected record.
// The returned error is nil when the run completed, even with a rejection;
// check Summary.Failure. A non-nil error means the run was interrupted.
func (r *Runner) Run(ctx context.Context, docs []*input.Document) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Documents: []DocumentResult{},
	}
	log := r.log.With(zap.String("run_id", summary.RunID))
	log.Info("validation run started",
		zap.Int("documents", len(docs)),
		zap.Int("workers", r.workers))

	for _, doc := range docs {
		result, err := r.validateDocument(ctx, doc, log)
		if err != nil {
			var failure *RecordFailure
			if !errors.As(err, &failure) {
				return summary, err
			}
			summary.Failure = failure
			break
		}
		summary.Documents = append(summary.Documents, result)
		summary.Accepted += result.Records
		if r.progress != nil {
			r.progress(len(summary.Documents), len(docs))
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	if summary.Failure != nil {
		log.Error("validation run rejected a record",
			zap.String("document", summary.Failure.Document),
			zap.String("record", summary.Failure.RecordID),
			zap.String("failure", string(errors.KindOf(summary.Failure.Err))),
			zap.Error(summary.Failure.Err))
	} else {
		log.Info("validation run completed",
			zap.Int("accepted", summary.Accepted),
			zap.Duration("duration", summary.Duration))
	}
	return summary, nil
}

// ValidateDocument validates one document. A rejection is returned as a
// *RecordFailure.
func (r *Runner) ValidateDocument(ctx context.Context, doc *input.Document) (DocumentResult, error) {
	return r.validateDocument(ctx, doc, r.log)
}

func (r *Runner) validateDocument(ctx context.Context, doc *input.Document, log *zap.Logger) (DocumentResult, error) {
	start := time.Now()
	ref := r.ref
	if doc.Candidates != nil && ref != nil {
		ref = ref.WithCandidates(doc.Candidates)
	}
	log.Debug("validating document",
		zap.String("document", doc.Source.Path),
		zap.String("layout", doc.Layout.String()),
		zap.Int("records", len(doc.Records)))

	var (
		rej *rejection
		err error
	)
	if r.workers == 1 || len(doc.Records) < 2 {
		rej, err = r.sequential(ctx, doc, ref)
	} else {
		rej, err = r.parallel(ctx, doc, ref)
	}
	r.metrics.ObserveDocument(time.Since(start))

	if err != nil {
		return DocumentResult{}, err
	}
	if rej != nil {
		rec := doc.Records[rej.index]
		return DocumentResult{}, &RecordFailure{
			Document: doc.Source.Path,
			RecordID: rec.ID,
			Kind:     rec.Kind,
			Err:      rej.err,
		}
	}

	return DocumentResult{
		Path:     doc.Source.Path,
		Layout:   doc.Layout.String(),
		Records:  len(doc.Records),
		Duration: time.Since(start),
	}, nil
}

// rejection is the first rejected record of a document
type rejection struct {
	index int
	err   error
}

func (r *Runner) sequential(ctx context.Context, doc *input.Document, ref *reference.Config) (*rejection, error) {
	for i, rec := range doc.Records {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.KindInternal, "validation interrupted", err)
		}
		if err := r.check(rec, ref); err != nil {
			return &rejection{index: i, err: err}, nil
		}
	}
	return nil, nil
}

// parallel validates records on a bounded errgroup. Once record i is
// rejected, records after i are skipped but records before i still run, so
// the lowest rejected index is the one sequential validation would report.
func (r *Runner) parallel(ctx context.Context, doc *input.Document, ref *reference.Config) (*rejection, error) {
	n := len(doc.Records)
	failures := make([]error, n)

	var lowest atomic.Int64
	lowest.Store(int64(n))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i := range doc.Records {
		if int64(i) > lowest.Load() || gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if int64(i) > lowest.Load() {
				return nil
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := r.check(doc.Records[i], ref); err != nil {
				failures[i] = err
				for {
					cur := lowest.Load()
					if int64(i) >= cur || lowest.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.KindInternal, "validation interrupted", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.KindInternal, "validation interrupted", err)
	}
	if i := int(lowest.Load()); i < n {
		return &rejection{index: i, err: failures[i]}, nil
	}
	return nil, nil
}

// check validates a record and records the outcome
func (r *Runner) check(rec input.Record, ref *reference.Config) error {
	err := r.validateRecord(rec, ref)
	if err != nil {
		r.metrics.IncrementRejected(rec.Kind.String(), errors.KindOf(err))
		return err
	}
	r.metrics.IncrementAccepted(rec.Kind.String())
	return nil
}

func (r *Runner) validateRecord(rec input.Record, ref *reference.Config) error {
	_, err := validate.Validate(rec.Kind, rec.Raw, ref)
	return err
}
