package validate

import (
	"election-check/core/checks"
	"election-check/core/reference"
	"election-check/core/types"
	"election-check/internal/errors"
)

// Poll checks a full poll record against ref, whose roster must be the one
// the poll was published with.
//
// Checks run in a fixed order and stop at the first failure:
//  1. date ordering: date_debut <= date_fin <= date_publication
//  2. identity: pollster, method and population are whitelisted
//  3. source link, sponsors and sample size
//  4. every date lies in the valid period
//  5. hypothesis keys are declared
//  6. first-round then second-round scenarios
//  7. transfer matrices
func Poll(p *types.Poll, ref *reference.Config) error {
	if err := pollDates(p); err != nil {
		return err
	}
	if err := pollIdentity(p, ref); err != nil {
		return err
	}
	if err := pollWindow(p, ref.Period); err != nil {
		return err
	}
	if err := hypothesisKeys(p); err != nil {
		return err
	}

	if err := rounds("premier_tour", &p.FirstRound, ref); err != nil {
		return err
	}
	if p.SecondRound != nil {
		if err := rounds("second_tour", p.SecondRound, ref); err != nil {
			return err
		}
	}

	if p.Transfers != nil {
		for i := range p.Transfers.Items {
			if err := Transfer(&p.Transfers.Items[i].Value, ref); err != nil {
				return errors.At(err, "reports", p.Transfers.Segment(i))
			}
		}
	}
	return nil
}

func pollDates(p *types.Poll) error {
	if _, err := checks.OrderedDates("date_debut", p.Start, "date_fin", p.End); err != nil {
		return errors.At(err, "date_fin")
	}
	if p.Publication != nil {
		if _, err := checks.OrderedDates("date_fin", p.End, "date_publication", *p.Publication); err != nil {
			return errors.At(err, "date_publication")
		}
	}
	return nil
}

func pollIdentity(p *types.Poll, ref *reference.Config) error {
	if _, err := checks.IsMember("pollster", p.Pollster, ref.Pollsters); err != nil {
		return errors.At(err, "institut")
	}
	if _, err := checks.IsMember("method", p.Method, ref.Methods); err != nil {
		return errors.At(err, "methode")
	}
	if p.Population != "" {
		if _, err := checks.IsMember("population", p.Population, ref.Populations); err != nil {
			return errors.At(err, "population")
		}
	}

	if _, err := checks.NotEmpty("a link", p.SourceLink); err != nil {
		return errors.At(err, "lien")
	}
	for i, sponsor := range p.Sponsors {
		if _, err := checks.NotEmpty("a sponsor name", sponsor); err != nil {
			return errors.At(err, "commanditaires", errors.Index(i))
		}
	}
	if _, err := checks.Positive("sample size", p.SampleSize); err != nil {
		return errors.At(err, "echantillon")
	}
	return nil
}

func pollWindow(p *types.Poll, period reference.Period) error {
	dates := []struct {
		field string
		date  *types.Date
	}{
		{"date_debut", &p.Start},
		{"date_fin", &p.End},
		{"date_publication", p.Publication},
	}
	for _, d := range dates {
		if d.date == nil {
			continue
		}
		if _, err := checks.WithinWindow(d.field, *d.date, period.Start, period.End); err != nil {
			return errors.At(err, d.field)
		}
	}
	return nil
}

// hypothesisKeys rejects scenario and transfer keys that the poll does not
// declare. Keyed rounds always need a declaration; labels of list-shaped
// scenarios are only checked when the poll declares hypotheses.
func hypothesisKeys(p *types.Poll) error {
	if p.DeclaresHypotheses() {
		if _, err := checks.Distinct("hypotheses", p.Hypotheses.Keys()); err != nil {
			return errors.At(err, "hypotheses")
		}
	}
	declared := types.NewNameSet(p.Hypotheses.Keys()...)

	if err := scenarioKeys("premier_tour", &p.FirstRound, p.DeclaresHypotheses(), declared); err != nil {
		return err
	}
	if p.SecondRound != nil {
		if err := scenarioKeys("second_tour", p.SecondRound, p.DeclaresHypotheses(), declared); err != nil {
			return err
		}
	}
	if p.Transfers != nil && p.Transfers.Keyed {
		if err := keyedLabels("reports", p.Transfers.Items.Keys(), declared); err != nil {
			return err
		}
	}
	return nil
}

func scenarioKeys(field string, c *types.Collection[types.Scenario], declares bool, declared types.NameSet) error {
	if c.Keyed {
		return keyedLabels(field, c.Items.Keys(), declared)
	}
	if !declares {
		return nil
	}
	for i, item := range c.Items {
		label := item.Value.Hypothesis
		if label == "" {
			continue
		}
		if !declared.Contains(label) {
			return orphan(field, label, declared, errors.Index(i), "hypothese")
		}
	}
	return nil
}

func keyedLabels(field string, keys []string, declared types.NameSet) error {
	if _, err := checks.Distinct(field, keys); err != nil {
		return errors.At(err, field)
	}
	for _, key := range keys {
		if !declared.Contains(key) {
			return orphan(field, key, declared, errors.Key(key))
		}
	}
	return nil
}

func orphan(field, label string, declared types.NameSet, at ...string) error {
	err := errors.Newf(errors.KindOrphanKey,
		"hypothesis %q used in %s is not declared: expected one of %s", label, field, declared.String()).
		WithContext("hypothesis", label)
	return errors.At(err, append([]string{field}, at...)...)
}

func rounds(field string, c *types.Collection[types.Scenario], ref *reference.Config) error {
	for i := range c.Items {
		if err := Scenario(&c.Items[i].Value, ref); err != nil {
			return errors.At(err, field, c.Segment(i))
		}
	}
	return nil
}
