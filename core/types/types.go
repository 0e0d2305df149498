// Package types defines the election dataset value objects.
// This package contains NO validation logic - only type definitions and
// strict decoding from the JSON documents.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"election-check/internal/errors"
)

// DateLayout is the calendar date layout used by every document
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day
type Date struct {
	t time.Time
}

// NewDate builds a date from its components
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals; it panics on bad input
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Compare returns -1, 0 or +1 as d is before, equal to or after o
func (d Date) Compare(o Date) int {
	return d.t.Compare(o.t)
}

// IsZero reports whether the date is unset
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String returns the YYYY-MM-DD form
func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Malformed("date must be a YYYY-MM-DD string", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return errors.Malformed(fmt.Sprintf("invalid date %q", s), err)
	}
	*d = parsed
	return nil
}

// NameSet is an ordered set of names with constant-time membership.
// It is immutable once built.
type NameSet struct {
	names []string
	index map[string]struct{}
}

// NewNameSet builds a set; repeated names keep their first position
func NewNameSet(names ...string) NameSet {
	s := NameSet{
		names: make([]string, 0, len(names)),
		index: make(map[string]struct{}, len(names)),
	}
	for _, n := range names {
		if _, ok := s.index[n]; ok {
			continue
		}
		s.index[n] = struct{}{}
		s.names = append(s.names, n)
	}
	return s
}

// Contains reports membership
func (s NameSet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of names
func (s NameSet) Len() int {
	return len(s.names)
}

// Names returns the names in declaration order
func (s NameSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// String renders the set for error messages
func (s NameSet) String() string {
	quoted := make([]string, len(s.names))
	for i, n := range s.names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// MarshalJSON encodes the set as an array
func (s NameSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// Duplicates returns the names that appear more than once, in order of
// their second appearance
func Duplicates(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	var dups []string
	for _, n := range names {
		if _, ok := seen[n]; ok {
			dups = append(dups, n)
			continue
		}
		seen[n] = struct{}{}
	}
	return dups
}

// DecodeStrict decodes a single JSON value, rejecting unknown fields and
// trailing data
func DecodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

// malformedAt attaches a path segment to a decoding failure
func malformedAt(err error, segments ...string) error {
	var e *errors.Error
	if !errors.As(err, &e) {
		err = errors.Malformed("invalid value", err)
	}
	return errors.At(err, segments...)
}
