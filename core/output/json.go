package output

import (
	"encoding/json"
	"io"
	"time"

	"election-check/core/batch"
)

// JSONFormatter writes the report as an indented JSON object
type JSONFormatter struct{}

type jsonReport struct {
	Version   string                 `json:"version"`
	RunID     string                 `json:"run_id"`
	Election  string                 `json:"election,omitempty"`
	Status    string                 `json:"status"`
	StartedAt time.Time              `json:"started_at"`
	Duration  string                 `json:"duration"`
	Accepted  int                    `json:"accepted_records"`
	Documents []batch.DocumentResult `json:"documents"`
	Failure   *FailureView           `json:"failure,omitempty"`
}

// Format returns FormatJSON
func (JSONFormatter) Format() Format {
	return FormatJSON
}

// Render writes the report
func (JSONFormatter) Render(w io.Writer, report *Report) error {
	s := report.Summary
	out := jsonReport{
		Version:   report.Version,
		RunID:     s.RunID,
		Election:  report.Election,
		Status:    "accepted",
		StartedAt: s.StartedAt,
		Duration:  round(s.Duration).String(),
		Accepted:  s.Accepted,
		Documents: s.Documents,
		Failure:   report.Failure(),
	}
	if !report.Accepted() {
		out.Status = "rejected"
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
