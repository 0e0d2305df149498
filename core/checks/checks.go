// Package checks provides the reusable invariant predicates of the
// validation engine. Every check is side-effect free and returns its input
// unchanged on success so checks can be chained.
package checks

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"election-check/core/types"
	"election-check/internal/errors"
)

// Integer is the set of integer types tallies are stored in
type Integer interface {
	~int | ~int32 | ~int64
}

// Bound selects whether an interval end is included
type Bound int

const (
	// Open excludes the limit itself
	Open Bound = iota

	// Closed includes the limit
	Closed
)

var hundred = decimal.NewFromInt(100)

// Hundred is the target of every percentage sum
func Hundred() decimal.Decimal {
	return hundred
}

// SumEquals fails with SumMismatch unless values add up exactly to target
func SumEquals(label string, values []decimal.Decimal, target decimal.Decimal) ([]decimal.Decimal, error) {
	sum := decimal.Sum(decimal.Zero, values...)
	if !sum.Equal(target) {
		return values, errors.Newf(errors.KindSumMismatch,
			"%s must sum to %s, found %s", label, target.String(), sum.String()).
			WithContext("sum", sum.String()).
			WithContext("target", target.String())
	}
	return values, nil
}

// SumEqualsInt is SumEquals for integer tallies
func SumEqualsInt[T Integer](label string, values []T, target T) ([]T, error) {
	var sum T
	for _, v := range values {
		sum += v
	}
	if sum != target {
		return values, errors.Newf(errors.KindSumMismatch,
			"%s must sum to %d, found %d", label, target, sum).
			WithContext("sum", sum).
			WithContext("target", target)
	}
	return values, nil
}

// UpperBound fails with OutOfRange when value exceeds limit. With an open
// bound a value equal to the limit also fails.
func UpperBound(label string, value, limit decimal.Decimal, bound Bound) (decimal.Decimal, error) {
	c := value.Cmp(limit)
	if c > 0 || (c == 0 && bound == Open) {
		return value, errors.Newf(errors.KindOutOfRange,
			"%s is abnormally large: %s (limit %s)", label, value.String(), limit.String()).
			WithContext("value", value.String()).
			WithContext("limit", limit.String())
	}
	return value, nil
}

// Between fails with OutOfRange when value lies outside the interval
// delimited by low and high with the given bounds
func Between(label string, value, low, high decimal.Decimal, lowBound, highBound Bound) (decimal.Decimal, error) {
	lc := value.Cmp(low)
	hc := value.Cmp(high)
	if lc < 0 || (lc == 0 && lowBound == Open) || hc > 0 || (hc == 0 && highBound == Open) {
		return value, errors.Newf(errors.KindOutOfRange,
			"%s must lie in %s, found %s", label, interval(low, high, lowBound, highBound), value.String()).
			WithContext("value", value.String())
	}
	return value, nil
}

func interval(low, high decimal.Decimal, lowBound, highBound Bound) string {
	left, right := "(", ")"
	if lowBound == Closed {
		left = "["
	}
	if highBound == Closed {
		right = "]"
	}
	return fmt.Sprintf("%s%s, %s%s", left, low.String(), high.String(), right)
}

// Positive fails with OutOfRange unless n > 0
func Positive[T Integer](label string, n T) (T, error) {
	if n <= 0 {
		return n, errors.Newf(errors.KindOutOfRange, "%s must be positive, found %d", label, n).
			WithContext("value", n)
	}
	return n, nil
}

// NonNegative fails with OutOfRange unless n >= 0
func NonNegative[T Integer](label string, n T) (T, error) {
	if n < 0 {
		return n, errors.Newf(errors.KindOutOfRange, "%s must not be negative, found %d", label, n).
			WithContext("value", n)
	}
	return n, nil
}

// Ordered fails with OrderingViolation unless a <= b
func Ordered[T cmp.Ordered](aLabel string, a T, bLabel string, b T) (T, error) {
	if cmp.Compare(a, b) > 0 {
		return a, errors.Newf(errors.KindOrderingViolation,
			"%s (%v) must not exceed %s (%v)", aLabel, a, bLabel, b).
			WithContext(aLabel, a).
			WithContext(bLabel, b)
	}
	return a, nil
}

// OrderedDates fails with OrderingViolation unless a is not after b
func OrderedDates(aLabel string, a types.Date, bLabel string, b types.Date) (types.Date, error) {
	if a.Compare(b) > 0 {
		return a, errors.Newf(errors.KindOrderingViolation,
			"%s (%s) must not be after %s (%s)", aLabel, a, bLabel, b).
			WithContext(aLabel, a.String()).
			WithContext(bLabel, b.String())
	}
	return a, nil
}

// WithinWindow fails with OutOfRange when d lies outside [start, end]
func WithinWindow(label string, d, start, end types.Date) (types.Date, error) {
	if d.Compare(start) < 0 || d.Compare(end) > 0 {
		return d, errors.Newf(errors.KindOutOfRange,
			"%s %s is outside the valid period [%s, %s]", label, d, start, end).
			WithContext("date", d.String())
	}
	return d, nil
}

// IsMember fails with UnknownValue when value is not in allowed
func IsMember(label, value string, allowed types.NameSet) (string, error) {
	if !allowed.Contains(value) {
		return value, errors.Newf(errors.KindUnknownValue,
			"%s %q is not valid: expected one of %s", label, value, allowed.String()).
			WithContext("value", value)
	}
	return value, nil
}

// Distinct fails with DuplicateValue when a name is repeated
func Distinct(label string, names []string) ([]string, error) {
	if dups := types.Duplicates(names); len(dups) > 0 {
		return names, errors.Newf(errors.KindDuplicateValue,
			"%s lists %s more than once", label, strings.Join(quote(dups), ", ")).
			WithContext("duplicates", dups)
	}
	return names, nil
}

// NotEmpty fails with MissingValue for an empty or blank string: a link or
// sponsor made only of spaces names nothing
func NotEmpty(label, s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return s, errors.Newf(errors.KindMissingValue, "expected %s, found none", label)
	}
	return s, nil
}

// MatrixShape fails with ShapeMismatch unless matrix has rows rows of cols
// columns each
func MatrixShape[T any](label string, matrix [][]T, rows, cols int) ([][]T, error) {
	if len(matrix) != rows {
		return matrix, errors.Newf(errors.KindShapeMismatch,
			"the number of rows in %s does not match the number of candidates: expected %d, found %d",
			label, rows, len(matrix)).
			WithContext("expected_rows", rows).
			WithContext("rows", len(matrix))
	}
	for i, row := range matrix {
		if len(row) != cols {
			return matrix, errors.At(errors.Newf(errors.KindShapeMismatch,
				"the number of columns in %s does not match the number of candidates: expected %d, found %d",
				label, cols, len(row)).
				WithContext("expected_columns", cols).
				WithContext("columns", len(row)), errors.Index(i))
		}
	}
	return matrix, nil
}

func quote(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = fmt.Sprintf("%q", n)
	}
	return out
}
