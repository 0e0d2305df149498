// Package input loads dataset documents and enumerates their records.
// Everything downstream consumes Document only.
package input

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"time"

	"election-check/core/checks"
	"election-check/core/types"
	"election-check/core/validate"
	"election-check/internal/errors"
)

// DatasetKind is the kind of records a document holds
type DatasetKind string

const (
	// DatasetAuto detects the kind from the document
	DatasetAuto DatasetKind = ""

	// DatasetPolls holds poll records
	DatasetPolls DatasetKind = "polls"

	// DatasetResults holds results records of any layout
	DatasetResults DatasetKind = "results"
)

// ParseDatasetKind converts a dataset kind name. "auto" and the empty
// string both select detection.
func ParseDatasetKind(s string) (DatasetKind, error) {
	switch s {
	case "", "auto":
		return DatasetAuto, nil
	case string(DatasetPolls):
		return DatasetPolls, nil
	case string(DatasetResults):
		return DatasetResults, nil
	}
	return "", errors.Newf(errors.KindInput, "unknown dataset kind %q: expected polls, results or auto", s)
}

// Layout is the top-level shape of a document
type Layout int

const (
	// LayoutPolls maps poll identifiers to polls
	LayoutPolls Layout = iota

	// LayoutPollsEnvelope wraps polls with the roster they were published with:
	// {"candidats": [...], "sondages": {id: poll}}
	LayoutPollsEnvelope

	// LayoutResults maps record identifiers to results
	LayoutResults
)

// String returns the layout name
func (l Layout) String() string {
	switch l {
	case LayoutPolls:
		return "polls"
	case LayoutPollsEnvelope:
		return "polls-envelope"
	case LayoutResults:
		return "results"
	default:
		return "unknown"
	}
}

// Source describes where a document came from
type Source struct {
	Path        string    `json:"path"`
	ContentHash string    `json:"content_hash"`
	Size        int64     `json:"size"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Record is one undecoded record of a document
type Record struct {
	ID   string
	Kind validate.Kind
	Raw  json.RawMessage
}

// Document is a loaded dataset. Records keep document order.
type Document struct {
	Source Source
	Layout Layout

	// Candidates is the roster shipped with the document, nil when the
	// reference roster applies
	Candidates []string

	Records []Record
}

// LoadFile reads and parses the document at path. The file is closed before
// LoadFile returns.
func LoadFile(path string, kind DatasetKind) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Input("failed to open dataset", err).WithContext("path", path)
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, errors.Input("failed to read dataset", err).WithContext("path", path)
	}
	return Parse(data, path, kind)
}

// Parse splits data into records. path only labels the document.
func Parse(data []byte, path string, kind DatasetKind) (*Document, error) {
	doc := &Document{
		Source: Source{
			Path:        path,
			ContentHash: hashContent(data),
			Size:        int64(len(data)),
			LoadedAt:    time.Now().UTC(),
		},
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.Newf(errors.KindInput, "dataset %s is empty", path)
	}

	var top types.Entries[json.RawMessage]
	if err := top.UnmarshalJSON(data); err != nil {
		return nil, errors.Wrapf(errors.KindMalformed, err, "dataset %s is not a JSON object", path)
	}

	if isEnvelope(top) {
		if kind == DatasetResults {
			return nil, errors.Newf(errors.KindInput, "dataset %s holds polls, not results", path)
		}
		if err := doc.loadEnvelope(top); err != nil {
			return nil, err
		}
		return doc, nil
	}

	if kind == DatasetAuto {
		kind = detectKind(top)
	}
	switch kind {
	case DatasetPolls:
		doc.Layout = LayoutPolls
		if err := doc.addPolls(top); err != nil {
			return nil, err
		}
	case DatasetResults:
		doc.Layout = LayoutResults
		if err := doc.addResults(top); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Kinds returns the record kinds present, in first-seen order
func (d *Document) Kinds() []validate.Kind {
	var kinds []validate.Kind
	seen := map[validate.Kind]bool{}
	for _, r := range d.Records {
		if !seen[r.Kind] {
			seen[r.Kind] = true
			kinds = append(kinds, r.Kind)
		}
	}
	return kinds
}

func (d *Document) loadEnvelope(top types.Entries[json.RawMessage]) error {
	d.Layout = LayoutPollsEnvelope

	if raw, ok := top.Get("candidats"); ok {
		var roster []string
		if err := json.Unmarshal(raw, &roster); err != nil {
			return errors.At(errors.Malformed("expected a list of candidate names", err), "candidats")
		}
		if _, err := checks.Distinct("candidats", roster); err != nil {
			return errors.At(err, "candidats")
		}
		d.Candidates = roster
	}

	raw, _ := top.Get("sondages")
	var polls types.Entries[json.RawMessage]
	if err := polls.UnmarshalJSON(raw); err != nil {
		return errors.At(err, "sondages")
	}
	return d.addPolls(polls)
}

func (d *Document) addPolls(entries types.Entries[json.RawMessage]) error {
	if _, err := checks.Distinct("record identifiers", entries.Keys()); err != nil {
		return err
	}
	for _, e := range entries {
		d.Records = append(d.Records, Record{ID: e.Key, Kind: validate.KindPoll, Raw: e.Value})
	}
	return nil
}

func (d *Document) addResults(entries types.Entries[json.RawMessage]) error {
	if _, err := checks.Distinct("record identifiers", entries.Keys()); err != nil {
		return err
	}
	for _, e := range entries {
		kind, err := validate.DetectResultsKind(e.Value)
		if err != nil {
			return errors.At(err, errors.Key(e.Key))
		}
		d.Records = append(d.Records, Record{ID: e.Key, Kind: kind, Raw: e.Value})
	}
	return nil
}

func isEnvelope(top types.Entries[json.RawMessage]) bool {
	if _, ok := top.Get("sondages"); !ok {
		return false
	}
	for _, key := range top.Keys() {
		if key != "sondages" && key != "candidats" {
			return false
		}
	}
	return true
}

// detectKind looks at the first record: polls always name their pollster
func detectKind(top types.Entries[json.RawMessage]) DatasetKind {
	if len(top) == 0 {
		return DatasetResults
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(top[0].Value, &fields); err == nil {
		if _, ok := fields["institut"]; ok {
			return DatasetPolls
		}
	}
	return DatasetResults
}

func hashContent(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
