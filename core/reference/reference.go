// Package reference holds the reference configurations datasets are checked
// against: candidate rosters, pollster/method/population whitelists and the
// valid period of an election cycle.
// A Config is immutable once built and may be shared between goroutines.
package reference

import (
	"sort"

	"github.com/shopspring/decimal"

	"election-check/core/types"
	"election-check/internal/errors"
)

// DefaultIntentionCeiling is the share above which an intention is assumed
// to be a typing mistake
var DefaultIntentionCeiling = decimal.NewFromInt(70)

// DefaultBases returns the respondent bases used when a definition lists none
func DefaultBases() []string {
	return []string{
		string(types.BaseInterviewed),
		string(types.BaseCertain),
		string(types.BaseCertainDecided),
	}
}

// Period is the closed date window of an election cycle
type Period struct {
	Start types.Date `json:"start"`
	End   types.Date `json:"end"`
}

// Config is the reference configuration of one election
type Config struct {
	Name             string          `json:"name"`
	Candidates       types.NameSet   `json:"candidates"`
	Pollsters        types.NameSet   `json:"pollsters"`
	Methods          types.NameSet   `json:"methods"`
	Populations      types.NameSet   `json:"populations"`
	Bases            types.NameSet   `json:"bases"`
	Period           Period          `json:"period"`
	IntentionCeiling decimal.Decimal `json:"intention_ceiling"`
}

// WithCandidates returns a copy using the given roster. Documents that ship
// their own candidate list are validated against it instead of the
// configured one.
func (c *Config) WithCandidates(names []string) *Config {
	out := *c
	out.Candidates = types.NewNameSet(names...)
	return &out
}

// Definition is the raw form of a Config as written in a reference file
type Definition struct {
	Name             string
	Candidates       []string
	Pollsters        []string
	Methods          []string
	Populations      []string
	Bases            []string
	PeriodStart      string
	PeriodEnd        string
	IntentionCeiling string

	// Source locates the definition for error messages
	Source string
}

// Build checks def against rules and converts it
func Build(def Definition, rules []Rule) (*Config, error) {
	for _, rule := range rules {
		if err := rule(&def); err != nil {
			return nil, errors.At(err, def.Name)
		}
	}

	start, _ := types.ParseDate(def.PeriodStart)
	end, _ := types.ParseDate(def.PeriodEnd)
	ceiling := DefaultIntentionCeiling
	if def.IntentionCeiling != "" {
		ceiling, _ = decimal.NewFromString(def.IntentionCeiling)
	}
	bases := def.Bases
	if len(bases) == 0 {
		bases = DefaultBases()
	}

	return &Config{
		Name:             def.Name,
		Candidates:       types.NewNameSet(def.Candidates...),
		Pollsters:        types.NewNameSet(def.Pollsters...),
		Methods:          types.NewNameSet(def.Methods...),
		Populations:      types.NewNameSet(def.Populations...),
		Bases:            types.NewNameSet(bases...),
		Period:           Period{Start: start, End: end},
		IntentionCeiling: ceiling,
	}, nil
}

// Catalog indexes the reference configurations of several elections
type Catalog struct {
	entries map[string]*Config
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]*Config),
	}
}

// Register validates def with the default rules and adds it
func (c *Catalog) Register(def Definition) error {
	if _, exists := c.entries[def.Name]; exists {
		return errors.Newf(errors.KindDuplicateValue, "election %q is defined twice", def.Name)
	}
	cfg, err := Build(def, DefaultRules())
	if err != nil {
		return err
	}
	c.entries[def.Name] = cfg
	return nil
}

// Get returns the configuration of an election
func (c *Catalog) Get(name string) (*Config, bool) {
	cfg, ok := c.entries[name]
	return cfg, ok
}

// Resolve returns the named configuration. An empty name resolves to the
// only election of a single-entry catalog.
func (c *Catalog) Resolve(name string) (*Config, error) {
	if name == "" {
		if len(c.entries) == 1 {
			for _, cfg := range c.entries {
				return cfg, nil
			}
		}
		return nil, errors.Newf(errors.KindConfig,
			"an election must be selected among %s", types.NewNameSet(c.Names()...).String())
	}
	cfg, ok := c.entries[name]
	if !ok {
		return nil, errors.Newf(errors.KindConfig,
			"unknown election %q: expected one of %s", name, types.NewNameSet(c.Names()...).String())
	}
	return cfg, nil
}

// Names returns the election names in sorted order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of elections
func (c *Catalog) Len() int {
	return len(c.entries)
}
