// Package validate holds the record validators. Validators are stateless:
// they read the record and the reference configuration and never mutate
// either, so one configuration can be shared by concurrent callers.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"election-check/core/reference"
	"election-check/core/types"
	"election-check/internal/errors"
)

// Kind selects the record layout to decode and validate
type Kind string

const (
	// KindPoll is a poll record
	KindPoll Kind = "poll"

	// KindRound is the tally of a single-round election
	KindRound Kind = "round"

	// KindResults is a two-round results record
	KindResults Kind = "results"

	// KindTerritorial maps territorial units to two-round results
	KindTerritorial Kind = "territorial"

	// KindRegional is a territorial mapping wrapped in a resultats object
	KindRegional Kind = "regional"
)

// String returns the kind name
func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a kind name
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindPoll, KindRound, KindResults, KindTerritorial, KindRegional:
		return k, nil
	}
	return "", errors.Newf(errors.KindInput,
		"unknown record kind %q: expected one of poll, round, results, territorial, regional", s)
}

// Record is an accepted, fully typed record. Exactly one of the payload
// fields is set, matching Kind.
type Record struct {
	Kind        Kind                     `json:"kind"`
	Poll        *types.Poll              `json:"-"`
	Round       *types.Results           `json:"-"`
	Results     *types.TwoRoundResults   `json:"-"`
	Territorial types.TerritorialResults `json:"-"`
}

// Validate decodes raw strictly as a record of the given kind and checks it.
// Poll records need ref; results records are self-contained.
func Validate(kind Kind, raw json.RawMessage, ref *reference.Config) (*Record, error) {
	switch kind {
	case KindPoll:
		if ref == nil {
			return nil, errors.New(errors.KindInternal, "poll validation needs a reference configuration")
		}
		var p types.Poll
		if err := decode(raw, &p); err != nil {
			return nil, err
		}
		if err := Poll(&p, ref); err != nil {
			return nil, err
		}
		return &Record{Kind: kind, Poll: &p}, nil

	case KindRound:
		var r types.Results
		if err := decode(raw, &r); err != nil {
			return nil, err
		}
		if err := Results(&r); err != nil {
			return nil, err
		}
		return &Record{Kind: kind, Round: &r}, nil

	case KindResults:
		var r types.TwoRoundResults
		if err := decode(raw, &r); err != nil {
			return nil, err
		}
		if err := TwoRound(&r); err != nil {
			return nil, err
		}
		return &Record{Kind: kind, Results: &r}, nil

	case KindTerritorial:
		var units types.TerritorialResults
		if err := decode(raw, &units); err != nil {
			return nil, err
		}
		if err := Territorial(units); err != nil {
			return nil, err
		}
		return &Record{Kind: kind, Territorial: units}, nil

	case KindRegional:
		var r types.RegionalResults
		if err := decode(raw, &r); err != nil {
			return nil, err
		}
		if err := Territorial(r.Units); err != nil {
			return nil, errors.At(err, "resultats")
		}
		return &Record{Kind: kind, Territorial: r.Units}, nil
	}
	return nil, errors.Newf(errors.KindInternal, "unsupported record kind %q", kind)
}

// DetectResultsKind tells the results layouts apart from the top-level keys:
// inscrits marks a single-round tally, premier_tour a two-round record and a
// lone resultats key a regional wrapper. Anything else is a territorial
// mapping.
func DetectResultsKind(raw json.RawMessage) (Kind, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return "", errors.Malformed("expected a results object", err)
	}
	if keys == nil {
		return "", errors.New(errors.KindMalformed, "expected a results object, found null")
	}
	if _, ok := keys["inscrits"]; ok {
		return KindRound, nil
	}
	if _, ok := keys["premier_tour"]; ok {
		return KindResults, nil
	}
	if _, ok := keys["resultats"]; ok && len(keys) == 1 {
		return KindRegional, nil
	}
	return KindTerritorial, nil
}

func decode(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New(errors.KindMalformed, "empty record")
	}
	err := types.DecodeStrict(raw, v)
	if err == nil {
		return nil
	}
	var e *errors.Error
	if errors.As(err, &e) {
		return err
	}
	return errors.Malformed(fmt.Sprintf("cannot decode %T", v), err)
}
