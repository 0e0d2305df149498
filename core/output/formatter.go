// Package output renders validation reports.
// This package produces human and machine-readable outputs.
package output

import (
	"io"
	"sort"
	"time"

	"election-check/core/batch"
	"election-check/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable report
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given report
	Render(w io.Writer, report *Report) error
}

// Report is the outcome of a validation run
type Report struct {
	// Version is the tool version
	Version string

	// Election names the reference configuration used, empty for results
	// validated without one
	Election string

	// Summary is the batch outcome
	Summary *batch.Summary
}

// Accepted reports whether every record was accepted
func (r *Report) Accepted() bool {
	return r.Summary.Failure == nil
}

// FailureView is the flattened form of a rejected record
type FailureView struct {
	Document   string                 `json:"document"`
	RecordID   string                 `json:"record"`
	RecordKind string                 `json:"record_kind"`
	Kind       errors.Kind            `json:"kind"`
	Location   string                 `json:"location,omitempty"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
}

// Failure flattens the rejected record, nil when there is none
func (r *Report) Failure() *FailureView {
	f := r.Summary.Failure
	if f == nil {
		return nil
	}
	view := &FailureView{
		Document:   f.Document,
		RecordID:   f.RecordID,
		RecordKind: f.Kind.String(),
		Message:    f.Err.Error(),
	}
	var e *errors.Error
	if errors.As(f.Err, &e) {
		view.Kind = e.Kind
		view.Location = e.Location()
		view.Message = e.Message
		view.Context = e.Context
	}
	return view
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}

// Registry holds the available formatters
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry creates a registry holding the given formatters
func NewRegistry(formatters ...Formatter) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	for _, f := range formatters {
		r.formatters[f.Format()] = f
	}
	return r
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, error) {
	f, ok := r.formatters[format]
	if !ok {
		return nil, errors.Newf(errors.KindConfig, "unknown output format %q: expected one of %v", format, r.Formats())
	}
	return f, nil
}

// Formats returns the registered formats in sorted order
func (r *Registry) Formats() []Format {
	formats := make([]Format, 0, len(r.formatters))
	for f := range r.formatters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
