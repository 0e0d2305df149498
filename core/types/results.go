package types

import (
	"encoding/json"

	"election-check/internal/errors"
)

// Results is the tally of one round in one territory
type Results struct {
	Registered   int64          `json:"inscrits"`
	Turnout      int64          `json:"votants"`
	Expressed    int64          `json:"exprimes"`
	PerCandidate Entries[int64] `json:"resultats"`
}

type resultsWire struct {
	Inscrits  *int64          `json:"inscrits"`
	Votants   *int64          `json:"votants"`
	Exprimes  *int64          `json:"exprimes"`
	Resultats *Entries[int64] `json:"resultats"`
}

// UnmarshalJSON decodes a tally strictly and checks required fields
func (r *Results) UnmarshalJSON(data []byte) error {
	var w resultsWire
	if err := DecodeStrict(data, &w); err != nil {
		return malformedAt(err)
	}

	required := []struct {
		field   string
		present bool
	}{
		{"inscrits", w.Inscrits != nil},
		{"votants", w.Votants != nil},
		{"exprimes", w.Exprimes != nil},
		{"resultats", w.Resultats != nil},
	}
	for _, f := range required {
		if !f.present {
			return missingField(f.field)
		}
	}

	*r = Results{
		Registered:   *w.Inscrits,
		Turnout:      *w.Votants,
		Expressed:    *w.Exprimes,
		PerCandidate: *w.Resultats,
	}
	return nil
}

// TwoRoundResults holds both rounds of an election in one territory. Some
// elections are decided in the first round, so the second is optional.
type TwoRoundResults struct {
	FirstRound  Results  `json:"premier_tour"`
	SecondRound *Results `json:"second_tour,omitempty"`
}

type twoRoundWire struct {
	PremierTour *json.RawMessage `json:"premier_tour"`
	SecondTour  *json.RawMessage `json:"second_tour"`
}

// UnmarshalJSON decodes both rounds, requiring the first
func (t *TwoRoundResults) UnmarshalJSON(data []byte) error {
	var w twoRoundWire
	if err := DecodeStrict(data, &w); err != nil {
		return malformedAt(err)
	}
	if w.PremierTour == nil {
		return missingField("premier_tour")
	}

	var out TwoRoundResults
	if err := out.FirstRound.UnmarshalJSON(*w.PremierTour); err != nil {
		return errors.At(err, "premier_tour")
	}
	if w.SecondTour != nil && string(*w.SecondTour) != "null" {
		out.SecondRound = &Results{}
		if err := out.SecondRound.UnmarshalJSON(*w.SecondTour); err != nil {
			return errors.At(err, "second_tour")
		}
	}

	*t = out
	return nil
}

// TerritorialResults maps territorial units to their two-round results
type TerritorialResults = Entries[TwoRoundResults]

// RegionalResults wraps territorial results the way regional elections are
// published: {"resultats": {unit: two-round results}}
type RegionalResults struct {
	Units TerritorialResults `json:"resultats"`
}

type regionalWire struct {
	Resultats *json.RawMessage `json:"resultats"`
}

// UnmarshalJSON decodes the wrapper strictly, requiring the units
func (r *RegionalResults) UnmarshalJSON(data []byte) error {
	var w regionalWire
	if err := DecodeStrict(data, &w); err != nil {
		return malformedAt(err)
	}
	if w.Resultats == nil || string(*w.Resultats) == "null" {
		return missingField("resultats")
	}

	var units TerritorialResults
	if err := units.UnmarshalJSON(*w.Resultats); err != nil {
		return errors.At(err, "resultats")
	}
	r.Units = units
	return nil
}

func missingField(field string) error {
	return errors.At(errors.New(errors.KindMissingValue, "required field is missing"), field)
}
