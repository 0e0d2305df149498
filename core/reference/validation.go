// Package reference - Definition validation
// Ensures reference definitions are self-consistent before any dataset is
// checked against them.
package reference

import (
	"strings"

	"github.com/shopspring/decimal"

	"election-check/core/types"
	"election-check/internal/errors"
)

// Rule is a definition validation rule
type Rule func(*Definition) error

// DefaultRules returns the standard validation rules
func DefaultRules() []Rule {
	return []Rule{
		validateName,
		validateCandidates,
		validateNoDuplicates,
		validatePeriod,
		validateCeiling,
	}
}

// Validate runs every rule and collects all failures
func Validate(def *Definition, rules []Rule) []error {
	var errs []error
	for _, rule := range rules {
		if err := rule(def); err != nil {
			errs = append(errs, errors.At(err, def.Name))
		}
	}
	return errs
}

func validateName(d *Definition) error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New(errors.KindConfig, "election name must not be empty")
	}
	return nil
}

func validateCandidates(d *Definition) error {
	if len(d.Candidates) == 0 {
		return errors.New(errors.KindConfig, "candidate roster must not be empty")
	}
	return nil
}

func validateNoDuplicates(d *Definition) error {
	lists := []struct {
		name  string
		names []string
	}{
		{"candidates", d.Candidates},
		{"pollsters", d.Pollsters},
		{"methods", d.Methods},
		{"populations", d.Populations},
		{"bases", d.Bases},
	}
	for _, l := range lists {
		if dups := types.Duplicates(l.names); len(dups) > 0 {
			return errors.Newf(errors.KindConfig, "%s lists %q more than once", l.name, dups[0])
		}
	}
	return nil
}

func validatePeriod(d *Definition) error {
	start, err := types.ParseDate(d.PeriodStart)
	if err != nil {
		return errors.Config("invalid period start "+d.PeriodStart, err)
	}
	end, err := types.ParseDate(d.PeriodEnd)
	if err != nil {
		return errors.Config("invalid period end "+d.PeriodEnd, err)
	}
	if start.Compare(end) > 0 {
		return errors.Newf(errors.KindConfig, "period start %s is after its end %s", start, end)
	}
	return nil
}

func validateCeiling(d *Definition) error {
	if d.IntentionCeiling == "" {
		return nil
	}
	ceiling, err := decimal.NewFromString(d.IntentionCeiling)
	if err != nil {
		return errors.Config("invalid intention ceiling "+d.IntentionCeiling, err)
	}
	if !ceiling.IsPositive() || ceiling.GreaterThan(decimal.NewFromInt(100)) {
		return errors.Newf(errors.KindConfig, "intention ceiling must lie in (0, 100], found %s", ceiling)
	}
	return nil
}
