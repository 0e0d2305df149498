package validate

import (
	"election-check/core/checks"
	"election-check/core/types"
	"election-check/internal/errors"
)

// Results checks the tally of one round: votants <= inscrits, then
// exprimes <= votants, then the per-candidate votes sum to exprimes.
func Results(r *types.Results) error {
	counts := []struct {
		field string
		n     int64
	}{
		{"inscrits", r.Registered},
		{"votants", r.Turnout},
		{"exprimes", r.Expressed},
	}
	for _, c := range counts {
		if _, err := checks.NonNegative(c.field, c.n); err != nil {
			return errors.At(err, c.field)
		}
	}

	if _, err := checks.Ordered("votants", r.Turnout, "inscrits", r.Registered); err != nil {
		return errors.At(err, "votants")
	}
	if _, err := checks.Ordered("exprimes", r.Expressed, "votants", r.Turnout); err != nil {
		return errors.At(err, "exprimes")
	}

	if _, err := checks.Distinct("resultats", r.PerCandidate.Keys()); err != nil {
		return errors.At(err, "resultats")
	}
	for _, e := range r.PerCandidate {
		if _, err := checks.NonNegative("votes", e.Value); err != nil {
			return errors.At(err, "resultats", errors.Key(e.Key))
		}
	}
	if _, err := checks.SumEqualsInt("votes per candidate", r.PerCandidate.Values(), r.Expressed); err != nil {
		return errors.At(err, "resultats")
	}
	return nil
}

// TwoRound checks each round independently; no invariant links the rounds
func TwoRound(t *types.TwoRoundResults) error {
	if err := Results(&t.FirstRound); err != nil {
		return errors.At(err, "premier_tour")
	}
	if t.SecondRound != nil {
		if err := Results(t.SecondRound); err != nil {
			return errors.At(err, "second_tour")
		}
	}
	return nil
}

// Territorial checks each territorial unit in isolation, in document order.
// Unit totals are not compared with any national total.
func Territorial(units types.TerritorialResults) error {
	if _, err := checks.Distinct("territorial units", units.Keys()); err != nil {
		return err
	}
	for i := range units {
		if err := TwoRound(&units[i].Value); err != nil {
			return errors.At(err, errors.Key(units[i].Key))
		}
	}
	return nil
}
