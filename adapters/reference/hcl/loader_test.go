package hcl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"election-check/internal/errors"
)

const twoElections = `
election "presidentielle-2022" {
  candidates  = ["Marine Le Pen", "Emmanuel Macron"]
  pollsters   = ["Ifop", "Ipsos"]
  methods     = ["internet"]
  populations = ["Inscrits sur les listes électorales", "Certains d'aller voter"]
  bases       = ["I", "SV", "SVC"]

  period {
    start = "2021-01-01"
    end   = "2022-04-24"
  }
}

election "europeennes-2024" {
  candidates        = ["Jordan Bardella", "Valérie Hayer"]
  pollsters         = ["Elabe"]
  methods           = ["internet & telephone"]
  intention_ceiling = 60

  period {
    start = "2023-06-01"
    end   = "2024-06-09"
  }
}
`

func TestParseHCL(t *testing.T) {
	catalog, err := Parse([]byte(twoElections), "elections.hcl")
	require.NoError(t, err)

	assert.Equal(t, []string{"europeennes-2024", "presidentielle-2022"}, catalog.Names())

	pres, ok := catalog.Get("presidentielle-2022")
	require.True(t, ok)
	assert.Equal(t, []string{"Marine Le Pen", "Emmanuel Macron"}, pres.Candidates.Names())
	assert.True(t, pres.Populations.Contains("Certains d'aller voter"))
	assert.Equal(t, "2021-01-01", pres.Period.Start.String())
	assert.Equal(t, "70", pres.IntentionCeiling.String())

	euro, ok := catalog.Get("europeennes-2024")
	require.True(t, ok)
	assert.Equal(t, "60", euro.IntentionCeiling.String())
	assert.Equal(t, 0, euro.Populations.Len())
}

func TestParseJSONSyntax(t *testing.T) {
	src := `{
  "election": {
    "regionales-2021": {
      "candidates": ["Liste A", "Liste B"],
      "pollsters": ["Ifop"],
      "methods": ["internet"],
      "period": {"start": "2021-01-01", "end": "2021-06-27"}
    }
  }
}`
	catalog, err := Parse([]byte(src), "elections.json")
	require.NoError(t, err)

	cfg, err := catalog.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "regionales-2021", cfg.Name)
	assert.True(t, cfg.Candidates.Contains("Liste B"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `election "x" {`},
		{"missing candidates", `election "x" {
  period {
    start = "2021-01-01"
    end   = "2021-02-01"
  }
}`},
		{"unknown attribute", `election "x" {
  candidates = ["A"]
  candidats  = ["A"]
  period {
    start = "2021-01-01"
    end   = "2021-02-01"
  }
}`},
		{"inverted period", `election "x" {
  candidates = ["A"]
  period {
    start = "2021-03-01"
    end   = "2021-02-01"
  }
}`},
		{"duplicate candidate", `election "x" {
  candidates = ["A", "A"]
  period {
    start = "2021-01-01"
    end   = "2021-02-01"
  }
}`},
		{"no election", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			require.Error(t, err)
			assert.Equal(t, errors.KindConfig, errors.KindOf(err))
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elections.hcl")
	require.NoError(t, os.WriteFile(path, []byte(twoElections), 0644))

	catalog, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.hcl"))
	assert.Equal(t, errors.KindConfig, errors.KindOf(err))
}

func TestLoadRepositoryReference(t *testing.T) {
	catalog, err := LoadFile(filepath.Join("..", "..", "..", "reference", "elections.hcl"))
	require.NoError(t, err)

	for _, name := range []string{"presidentielle-2017", "presidentielle-2022"} {
		_, ok := catalog.Get(name)
		assert.True(t, ok, name)
	}
}
