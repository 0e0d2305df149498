package validate

import (
	"github.com/shopspring/decimal"

	"election-check/core/checks"
	"election-check/core/reference"
	"election-check/core/types"
	"election-check/internal/errors"
)

// Scenario checks one voting-intention scenario. ref carries the roster of
// the enclosing poll.
//
// Checks run in this order and stop at the first failure:
//  1. intentions sum to exactly 100
//  2. each intention lies in [0, 100) and does not exceed the ceiling
//  3. candidate names are distinct and belong to the roster
//  4. base, undecided share and respondent count when present
//  5. certainty shares and candidates when present
func Scenario(s *types.Scenario, ref *reference.Config) error {
	if _, err := checks.SumEquals("voting intentions", s.Intentions.Values(), checks.Hundred()); err != nil {
		return errors.At(err, "intentions")
	}

	for _, e := range s.Intentions {
		at := []string{"intentions", errors.Key(e.Key)}
		if _, err := checks.Between("voting intention", e.Value, decimal.Zero, checks.Hundred(), checks.Closed, checks.Open); err != nil {
			return errors.At(err, at...)
		}
		if _, err := checks.UpperBound("voting intention", e.Value, ref.IntentionCeiling, checks.Closed); err != nil {
			return errors.At(err, at...)
		}
	}

	names := s.Intentions.Keys()
	if _, err := checks.Distinct("intentions", names); err != nil {
		return errors.At(err, "intentions")
	}
	for _, name := range names {
		if _, err := checks.IsMember("candidate", name, ref.Candidates); err != nil {
			return errors.At(err, "intentions", errors.Key(name))
		}
	}

	if s.Base != "" {
		if _, err := checks.IsMember("base", string(s.Base), ref.Bases); err != nil {
			return errors.At(err, "base")
		}
	}
	if s.Undecided != nil {
		if _, err := checks.Between("undecided share", *s.Undecided, decimal.Zero, checks.Hundred(), checks.Open, checks.Open); err != nil {
			return errors.At(err, "nspp")
		}
	}
	if s.Respondents != nil {
		if _, err := checks.Positive("declared respondent count", *s.Respondents); err != nil {
			return errors.At(err, "intentions_exprimees")
		}
	}

	if s.Certainty != nil {
		if err := certainty(s.Certainty, ref); err != nil {
			return errors.At(err, "certitude")
		}
	}
	return nil
}

func certainty(c *types.Certainty, ref *reference.Config) error {
	if c.Overall != nil {
		if _, err := checks.Between("certainty share", *c.Overall, decimal.Zero, checks.Hundred(), checks.Open, checks.Open); err != nil {
			return errors.At(err, "ensemble")
		}
	}
	if _, err := checks.Distinct("detail", c.Detail.Keys()); err != nil {
		return errors.At(err, "detail")
	}
	for _, e := range c.Detail {
		at := []string{"detail", errors.Key(e.Key)}
		if _, err := checks.Between("certainty share", e.Value, decimal.Zero, checks.Hundred(), checks.Open, checks.Open); err != nil {
			return errors.At(err, at...)
		}
		if _, err := checks.IsMember("candidate", e.Key, ref.Candidates); err != nil {
			return errors.At(err, at...)
		}
	}
	return nil
}
