package types

import (
	"github.com/shopspring/decimal"

	"election-check/internal/errors"
)

// Base is the respondent population a scenario's shares are computed over
type Base string

const (
	// BaseInterviewed is every interviewed respondent
	BaseInterviewed Base = "I"

	// BaseCertain is respondents certain to vote
	BaseCertain Base = "SV"

	// BaseCertainDecided is respondents certain to vote and of their choice
	BaseCertainDecided Base = "SVC"
)

// Intentions maps candidate names to their share of voting intentions, in
// document order
type Intentions = Entries[decimal.Decimal]

// Certainty reports how settled respondents are in their choice
type Certainty struct {
	// Overall is the share of respondents certain of their choice
	Overall *decimal.Decimal `json:"ensemble,omitempty"`

	// Detail is the same share per candidate
	Detail Entries[decimal.Decimal] `json:"detail,omitempty"`
}

// Scenario is one labeled voting-intention distribution of a poll round
type Scenario struct {
	// Hypothesis labels the scenario when the round is published as a list
	Hypothesis string `json:"hypothese,omitempty"`

	// Base is the respondent population
	Base Base `json:"base,omitempty"`

	// Undecided is the share of respondents without an answer
	Undecided *decimal.Decimal `json:"nspp,omitempty"`

	// Respondents is the declared number of expressed intentions
	Respondents *int `json:"intentions_exprimees,omitempty"`

	// Intentions is the share per candidate among answers
	Intentions Intentions `json:"intentions"`

	// Certainty is the optional certainty breakdown
	Certainty *Certainty `json:"certitude,omitempty"`
}

// TransferMatrix reports how first-round voters of each candidate split in
// the second round. Rows follow FirstRound, columns follow SecondRound.
type TransferMatrix struct {
	FirstRound  []string `json:"candidats_1er_tour"`
	SecondRound []string `json:"candidats_2nd_tour"`
	Reports     [][]int  `json:"reports"`
}

// Poll is a published survey with its rounds and transfer matrices
type Poll struct {
	Pollster    string
	Sponsors    []string
	SourceLink  string
	Method      string
	SampleSize  int
	Population  string
	Start       Date
	End         Date
	Publication *Date

	// Hypotheses maps declared labels to their description. It is nil when
	// the poll declares none.
	Hypotheses Entries[string]

	FirstRound  Collection[Scenario]
	SecondRound *Collection[Scenario]
	Transfers   *Collection[TransferMatrix]
}

// pollWire accepts the field names of both document layouts
type pollWire struct {
	Institut        *string                     `json:"institut"`
	Commanditaires  []string                    `json:"commanditaires"`
	Lien            *string                     `json:"lien"`
	Source          *string                     `json:"source"`
	Methode         *string                     `json:"methode"`
	Echantillon     *int                        `json:"echantillon"`
	Interroges      *int                        `json:"interroges"`
	Population      *string                     `json:"population"`
	DateDebut       *Date                       `json:"date_debut"`
	DateFin         *Date                       `json:"date_fin"`
	DatePublication *Date                       `json:"date_publication"`
	Hypotheses      *Entries[string]            `json:"hypotheses"`
	PremierTour     Collection[Scenario]        `json:"premier_tour"`
	SecondTour      *Collection[Scenario]       `json:"second_tour"`
	Reports         *Collection[TransferMatrix] `json:"reports"`
}

// UnmarshalJSON decodes a poll strictly and checks required fields
func (p *Poll) UnmarshalJSON(data []byte) error {
	var w pollWire
	if err := DecodeStrict(data, &w); err != nil {
		return malformedAt(err)
	}

	missing := missingField
	switch {
	case w.Institut == nil:
		return missing("institut")
	case w.Methode == nil:
		return missing("methode")
	case w.DateDebut == nil:
		return missing("date_debut")
	case w.DateFin == nil:
		return missing("date_fin")
	case w.Lien == nil && w.Source == nil:
		return missing("lien")
	case w.Echantillon == nil && w.Interroges == nil:
		return missing("echantillon")
	case w.Lien != nil && w.Source != nil:
		return errors.New(errors.KindMalformed, "both lien and source are set")
	case w.Echantillon != nil && w.Interroges != nil:
		return errors.New(errors.KindMalformed, "both echantillon and interroges are set")
	}

	out := Poll{
		Pollster:    *w.Institut,
		Sponsors:    w.Commanditaires,
		Method:      *w.Methode,
		Start:       *w.DateDebut,
		End:         *w.DateFin,
		Publication: w.DatePublication,
		FirstRound:  w.PremierTour,
		SecondRound: w.SecondTour,
		Transfers:   w.Reports,
	}
	if w.Lien != nil {
		out.SourceLink = *w.Lien
	} else {
		out.SourceLink = *w.Source
	}
	if w.Echantillon != nil {
		out.SampleSize = *w.Echantillon
	} else {
		out.SampleSize = *w.Interroges
	}
	if w.Population != nil {
		out.Population = *w.Population
	}
	if w.Hypotheses != nil {
		out.Hypotheses = *w.Hypotheses
		if out.Hypotheses == nil {
			out.Hypotheses = Entries[string]{}
		}
	}

	*p = out
	return nil
}

// DeclaresHypotheses reports whether the poll carries a hypotheses mapping
func (p *Poll) DeclaresHypotheses() bool {
	return p.Hypotheses != nil
}
