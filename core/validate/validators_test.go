package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"election-check/core/types"
	"election-check/internal/errors"
)

func intentions(pairs ...any) types.Intentions {
	out := types.Intentions{}
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, types.Entry[decimal.Decimal]{
			Key:   pairs[i].(string),
			Value: decimal.RequireFromString(pairs[i+1].(string)),
		})
	}
	return out
}

func TestScenarioCeiling(t *testing.T) {
	ref := testReference(t)

	s := types.Scenario{Intentions: intentions("A", "70", "B", "30")}
	assert.NoError(t, Scenario(&s, ref))

	s = types.Scenario{Intentions: intentions("A", "70.0001", "B", "29.9999")}
	e := requireKind(t, Scenario(&s, ref), errors.KindOutOfRange)
	assert.Equal(t, "intentions[A]", e.Location())
}

func TestScenarioSumIsExact(t *testing.T) {
	ref := testReference(t)

	s := types.Scenario{Intentions: intentions("A", "33.3", "B", "33.3", "C", "33.4")}
	assert.NoError(t, Scenario(&s, ref))

	s = types.Scenario{Intentions: intentions("A", "33.33", "B", "33.33", "C", "33.33")}
	requireKind(t, Scenario(&s, ref), errors.KindSumMismatch)
}

func TestScenarioSumReportedBeforeRange(t *testing.T) {
	s := types.Scenario{Intentions: intentions("A", "101")}
	requireKind(t, Scenario(&s, testReference(t)), errors.KindSumMismatch)
}

func TestScenarioNegativeIntention(t *testing.T) {
	s := types.Scenario{Intentions: intentions("A", "-5", "B", "65", "C", "40")}
	e := requireKind(t, Scenario(&s, testReference(t)), errors.KindOutOfRange)
	assert.Equal(t, "intentions[A]", e.Location())
}

func TestScenarioOptionalFields(t *testing.T) {
	ref := testReference(t)
	zero := 0
	hundred := decimal.NewFromInt(100)
	half := decimal.NewFromInt(50)

	tests := []struct {
		name     string
		scenario types.Scenario
		kind     errors.Kind
		location string
	}{
		{
			name:     "unknown base",
			scenario: types.Scenario{Base: "X"},
			kind:     errors.KindUnknownValue,
			location: "base",
		},
		{
			name:     "undecided share of 100",
			scenario: types.Scenario{Undecided: &hundred},
			kind:     errors.KindOutOfRange,
			location: "nspp",
		},
		{
			name:     "no respondents",
			scenario: types.Scenario{Respondents: &zero},
			kind:     errors.KindOutOfRange,
			location: "intentions_exprimees",
		},
		{
			name: "certainty for an unknown candidate",
			scenario: types.Scenario{Certainty: &types.Certainty{
				Overall: &half,
				Detail:  intentions("A", "80", "Z", "60"),
			}},
			kind:     errors.KindUnknownValue,
			location: "certitude.detail[Z]",
		},
		{
			name: "certainty share of 100",
			scenario: types.Scenario{Certainty: &types.Certainty{
				Detail: intentions("A", "100"),
			}},
			kind:     errors.KindOutOfRange,
			location: "certitude.detail[A]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.scenario
			s.Intentions = intentions("A", "60", "B", "40")
			e := requireKind(t, Scenario(&s, ref), tt.kind)
			assert.Equal(t, tt.location, e.Location())
		})
	}

	s := types.Scenario{Base: types.BaseCertainDecided, Undecided: &half, Intentions: intentions("A", "60", "B", "40")}
	assert.NoError(t, Scenario(&s, ref))
}

func TestScenarioDuplicateCandidate(t *testing.T) {
	s := types.Scenario{Intentions: intentions("A", "50", "A", "50")}
	requireKind(t, Scenario(&s, testReference(t)), errors.KindDuplicateValue)
}

func TestTransfer(t *testing.T) {
	ref := testReference(t)
	second := []string{"Emmanuel Macron", "Marine Le Pen"}

	tests := []struct {
		name     string
		matrix   types.TransferMatrix
		kind     errors.Kind
		location string
	}{
		{
			name: "shape reported before sums",
			matrix: types.TransferMatrix{
				FirstRound:  []string{"A", "B", "C"},
				SecondRound: second,
				Reports:     [][]int{{50, 40}, {30, 30}},
			},
			kind:     errors.KindShapeMismatch,
			location: "reports",
		},
		{
			name: "short row",
			matrix: types.TransferMatrix{
				FirstRound:  []string{"A", "B"},
				SecondRound: second,
				Reports:     [][]int{{50, 50}, {100}},
			},
			kind:     errors.KindShapeMismatch,
			location: "reports[1]",
		},
		{
			name: "row sum",
			matrix: types.TransferMatrix{
				FirstRound:  []string{"A", "B"},
				SecondRound: second,
				Reports:     [][]int{{50, 50}, {60, 30}},
			},
			kind:     errors.KindSumMismatch,
			location: "reports[1]",
		},
		{
			name: "negative cell",
			matrix: types.TransferMatrix{
				FirstRound:  []string{"A"},
				SecondRound: second,
				Reports:     [][]int{{110, -10}},
			},
			kind:     errors.KindOutOfRange,
			location: "reports[0][1]",
		},
		{
			name: "unknown candidate",
			matrix: types.TransferMatrix{
				FirstRound:  []string{"A", "Jean Dupont"},
				SecondRound: second,
				Reports:     [][]int{{50, 50}, {50, 50}},
			},
			kind:     errors.KindUnknownValue,
			location: "candidats_1er_tour[1]",
		},
		{
			name: "repeated candidate",
			matrix: types.TransferMatrix{
				FirstRound:  []string{"A"},
				SecondRound: []string{"Marine Le Pen", "Marine Le Pen"},
				Reports:     [][]int{{50, 50}},
			},
			kind:     errors.KindDuplicateValue,
			location: "candidats_2nd_tour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := requireKind(t, Transfer(&tt.matrix, ref), tt.kind)
			assert.Equal(t, tt.location, e.Location())
		})
	}

	ok := types.TransferMatrix{
		FirstRound:  []string{"A", "B", "C"},
		SecondRound: second,
		Reports:     [][]int{{70, 30}, {20, 80}, {50, 50}},
	}
	assert.NoError(t, Transfer(&ok, ref))
}

func TestTransferRowSumNamesCandidate(t *testing.T) {
	m := types.TransferMatrix{
		FirstRound:  []string{"A", "B"},
		SecondRound: []string{"Emmanuel Macron", "Marine Le Pen"},
		Reports:     [][]int{{50, 50}, {60, 30}},
	}
	err := Transfer(&m, testReference(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vote transfers from B")
}

func tally(registered, turnout, expressed int64, votes ...any) types.Results {
	r := types.Results{Registered: registered, Turnout: turnout, Expressed: expressed, PerCandidate: types.Entries[int64]{}}
	for i := 0; i < len(votes); i += 2 {
		r.PerCandidate = append(r.PerCandidate, types.Entry[int64]{Key: votes[i].(string), Value: int64(votes[i+1].(int))})
	}
	return r
}

func TestResults(t *testing.T) {
	tests := []struct {
		name     string
		results  types.Results
		kind     errors.Kind
		location string
	}{
		{"negative registered", tally(-1, 0, 0), errors.KindOutOfRange, "inscrits"},
		{"turnout above registered", tally(1000, 1200, 900, "A", 1), errors.KindOrderingViolation, "votants"},
		{"expressed above turnout", tally(1000, 800, 850, "A", 850), errors.KindOrderingViolation, "exprimes"},
		{"sum mismatch", tally(1000, 800, 780, "A", 400, "B", 379), errors.KindSumMismatch, "resultats"},
		{"negative votes", tally(1000, 800, 780, "A", 790, "B", -10), errors.KindOutOfRange, "resultats[B]"},
		{"repeated candidate", tally(1000, 800, 780, "A", 390, "A", 390), errors.KindDuplicateValue, "resultats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := requireKind(t, Results(&tt.results), tt.kind)
			assert.Equal(t, tt.location, e.Location())
		})
	}

	ok := tally(1000, 800, 780, "A", 400, "B", 380)
	assert.NoError(t, Results(&ok))
}

func TestTwoRoundSecondRoundOptional(t *testing.T) {
	r := types.TwoRoundResults{FirstRound: tally(10, 8, 7, "A", 7)}
	assert.NoError(t, TwoRound(&r))

	second := tally(10, 11, 7, "A", 7)
	r.SecondRound = &second
	e := requireKind(t, TwoRound(&r), errors.KindOrderingViolation)
	assert.Equal(t, "second_tour.votants", e.Location())
}

func TestTerritorialRejectsRepeatedUnits(t *testing.T) {
	unit := types.TwoRoundResults{FirstRound: tally(10, 8, 7, "A", 7)}
	units := types.TerritorialResults{{Key: "Ain", Value: unit}, {Key: "Ain", Value: unit}}
	requireKind(t, Territorial(units), errors.KindDuplicateValue)
}
