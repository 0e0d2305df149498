// Package hcl loads reference configurations written in HCL.
//
// A reference file holds one block per election:
//
//	election "presidentielle-2022" {
//	  candidates  = ["Nathalie Arthaud", "Philippe Poutou"]
//	  pollsters   = ["Ifop", "Ipsos"]
//	  methods     = ["internet"]
//	  populations = ["Inscrits sur les listes électorales"]
//	  bases       = ["I", "SV", "SVC"]
//
//	  period {
//	    start = "2021-01-01"
//	    end   = "2022-04-24"
//	  }
//	}
//
// Files ending in .json are read with the HCL JSON syntax.
package hcl

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"election-check/core/reference"
	"election-check/internal/errors"
)

type referenceFile struct {
	Elections []electionBlock `hcl:"election,block"`
}

type electionBlock struct {
	Name             string      `hcl:"name,label"`
	Candidates       []string    `hcl:"candidates"`
	Pollsters        []string    `hcl:"pollsters,optional"`
	Methods          []string    `hcl:"methods,optional"`
	Populations      []string    `hcl:"populations,optional"`
	Bases            []string    `hcl:"bases,optional"`
	IntentionCeiling *string     `hcl:"intention_ceiling,optional"`
	Period           periodBlock `hcl:"period,block"`
}

type periodBlock struct {
	Start string `hcl:"start"`
	End   string `hcl:"end"`
}

// LoadFile reads and decodes a reference file
func LoadFile(path string) (*reference.Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Config("failed to read reference file "+path, err)
	}
	return Parse(src, path)
}

// Parse decodes reference definitions from src. filename selects the
// syntax and appears in diagnostics.
func Parse(src []byte, filename string) (*reference.Catalog, error) {
	parser := hclparse.NewParser()

	var (
		file  *hcl.File
		diags hcl.Diagnostics
	)
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		file, diags = parser.ParseJSON(src, filename)
	} else {
		file, diags = parser.ParseHCL(src, filename)
	}
	if diags.HasErrors() {
		return nil, diagnosticsError("failed to parse "+filename, diags)
	}

	var decoded referenceFile
	if diags := gohcl.DecodeBody(file.Body, nil, &decoded); diags.HasErrors() {
		return nil, diagnosticsError("failed to decode "+filename, diags)
	}

	catalog := reference.NewCatalog()
	for _, block := range decoded.Elections {
		def := reference.Definition{
			Name:        block.Name,
			Candidates:  block.Candidates,
			Pollsters:   block.Pollsters,
			Methods:     block.Methods,
			Populations: block.Populations,
			Bases:       block.Bases,
			PeriodStart: block.Period.Start,
			PeriodEnd:   block.Period.End,
			Source:      fmt.Sprintf("%s: election %q", filename, block.Name),
		}
		if block.IntentionCeiling != nil {
			def.IntentionCeiling = *block.IntentionCeiling
		}
		if err := catalog.Register(def); err != nil {
			return nil, errors.Wrapf(errors.KindConfig, err, "invalid definition in %s", def.Source)
		}
	}

	if catalog.Len() == 0 {
		return nil, errors.Newf(errors.KindConfig, "%s defines no election", filename)
	}
	return catalog, nil
}

func diagnosticsError(message string, diags hcl.Diagnostics) error {
	var details []string
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		line := 0
		if diag.Subject != nil {
			line = diag.Subject.Start.Line
		}
		details = append(details, fmt.Sprintf("line %d: %s: %s", line, diag.Summary, diag.Detail))
	}
	return errors.New(errors.KindConfig, message+": "+strings.Join(details, "; "))
}
