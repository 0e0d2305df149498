package validate

import (
	"election-check/core/checks"
	"election-check/core/reference"
	"election-check/core/types"
	"election-check/internal/errors"
)

// Transfer checks a second-round vote transfer matrix. The shape is checked
// before the row sums so a ragged matrix reports a shape mismatch.
func Transfer(m *types.TransferMatrix, ref *reference.Config) error {
	if _, err := checks.MatrixShape("the transfer matrix", m.Reports, len(m.FirstRound), len(m.SecondRound)); err != nil {
		return errors.At(err, "reports")
	}

	for i, row := range m.Reports {
		if _, err := checks.SumEqualsInt("vote transfers from "+m.FirstRound[i], row, 100); err != nil {
			return errors.At(err, "reports", errors.Index(i))
		}
		for j, share := range row {
			if _, err := checks.NonNegative("vote transfer", share); err != nil {
				return errors.At(err, "reports", errors.Index(i), errors.Index(j))
			}
		}
	}

	axes := []struct {
		field string
		names []string
	}{
		{"candidats_1er_tour", m.FirstRound},
		{"candidats_2nd_tour", m.SecondRound},
	}
	for _, axis := range axes {
		if _, err := checks.Distinct(axis.field, axis.names); err != nil {
			return errors.At(err, axis.field)
		}
		for i, name := range axis.names {
			if _, err := checks.IsMember("candidate", name, ref.Candidates); err != nil {
				return errors.At(err, axis.field, errors.Index(i))
			}
		}
	}
	return nil
}
