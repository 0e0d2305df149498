package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"election-check/core/batch"
	"election-check/core/validate"
	"election-check/internal/errors"
)

func acceptedReport() *Report {
	return &Report{
		Version:  "test",
		Election: "presidentielle-2022",
		Summary: &batch.Summary{
			RunID:     "3f1c",
			StartedAt: time.Date(2022, 4, 1, 12, 0, 0, 0, time.UTC),
			Duration:  1500 * time.Microsecond,
			Documents: []batch.DocumentResult{
				{Path: "sondages.json", Layout: "polls-envelope", Records: 1200},
			},
			Accepted: 1200,
		},
	}
}

func rejectedReport() *Report {
	r := acceptedReport()
	r.Summary.Documents = nil
	r.Summary.Accepted = 0
	r.Summary.Failure = &batch.RecordFailure{
		Document: "sondages.json",
		RecordID: "ifop-2022-01-17",
		Kind:     validate.KindPoll,
		Err: errors.At(
			errors.New(errors.KindSumMismatch, "voting intentions must sum to 100, found 99").
				WithContext("sum", "99"),
			"premier_tour", errors.Index(0), "intentions"),
	}
	return r
}

func TestJSONAccepted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONFormatter{}.Render(&buf, acceptedReport()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "accepted", got["status"])
	assert.Equal(t, 1200.0, got["accepted_records"])
	assert.Equal(t, "presidentielle-2022", got["election"])
	assert.NotContains(t, got, "failure")
}

func TestJSONRejected(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONFormatter{}.Render(&buf, rejectedReport()))

	var got struct {
		Status  string      `json:"status"`
		Failure FailureView `json:"failure"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "rejected", got.Status)
	assert.Equal(t, "ifop-2022-01-17", got.Failure.RecordID)
	assert.Equal(t, errors.KindSumMismatch, got.Failure.Kind)
	assert.Equal(t, "premier_tour[0].intentions", got.Failure.Location)
	assert.Equal(t, "poll", got.Failure.RecordKind)
	assert.Equal(t, "99", got.Failure.Context["sum"])
}

func TestCLIAccepted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CLIFormatter{NoColor: true, Language: "en"}.Render(&buf, acceptedReport()))

	out := buf.String()
	assert.Contains(t, out, "Validation · presidentielle-2022")
	assert.Contains(t, out, "sondages.json")
	assert.Contains(t, out, "✓ 1,200 records accepted in 1 documents")
	assert.Contains(t, out, "run 3f1c completed in 2ms")
}

func TestCLIRejected(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CLIFormatter{NoColor: true}.Render(&buf, rejectedReport()))

	out := buf.String()
	assert.Contains(t, out, `✗ Record "ifop-2022-01-17" of sondages.json was rejected`)
	assert.Contains(t, out, "SUM_MISMATCH")
	assert.Contains(t, out, "premier_tour[0].intentions")
	assert.Contains(t, out, "sum = 99")
	assert.NotContains(t, out, "\033[")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(CLIFormatter{}, JSONFormatter{})
	assert.Equal(t, []Format{FormatCLI, FormatJSON}, r.Formats())

	f, err := r.Get(FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f.Format())

	_, err = r.Get("html")
	assert.True(t, errors.IsKind(err, errors.KindConfig))
}
