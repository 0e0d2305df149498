package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"election-check/core/validate"
	"election-check/internal/errors"
)

const testdata = "../../testdata"

func recordIDs(doc *Document) []string {
	ids := make([]string, len(doc.Records))
	for i, r := range doc.Records {
		ids[i] = r.ID
	}
	return ids
}

func TestLoadEnvelope(t *testing.T) {
	doc, err := LoadFile(filepath.Join(testdata, "sondages", "presidentielle-2022.json"), DatasetAuto)
	require.NoError(t, err)

	assert.Equal(t, LayoutPollsEnvelope, doc.Layout)
	assert.Contains(t, doc.Candidates, "Éric Zemmour")
	assert.Equal(t, []string{"ifop-2022-03-25", "elabe-2022-03-28"}, recordIDs(doc))
	assert.Equal(t, []validate.Kind{validate.KindPoll}, doc.Kinds())
	assert.Len(t, doc.Source.ContentHash, 64)
}

func TestLoadKeyedPolls(t *testing.T) {
	doc, err := LoadFile(filepath.Join(testdata, "sondages", "hypotheses-2021.json"), DatasetAuto)
	require.NoError(t, err)

	assert.Equal(t, LayoutPolls, doc.Layout)
	assert.Nil(t, doc.Candidates)
	assert.Equal(t, []string{"opinionway-2021-05-20"}, recordIDs(doc))
}

func TestLoadResultsDetectsRecordShape(t *testing.T) {
	doc, err := LoadFile(filepath.Join(testdata, "resultats", "presidentielle-2017.json"), DatasetAuto)
	require.NoError(t, err)
	assert.Equal(t, LayoutResults, doc.Layout)
	assert.Equal(t, []validate.Kind{validate.KindResults}, doc.Kinds())

	doc, err = LoadFile(filepath.Join(testdata, "resultats", "departements.json"), DatasetResults)
	require.NoError(t, err)
	assert.Equal(t, []validate.Kind{validate.KindTerritorial}, doc.Kinds())
}

func TestLoadSingleRoundAndRegionalResults(t *testing.T) {
	doc, err := LoadFile(filepath.Join(testdata, "resultats", "europeennes.json"), DatasetAuto)
	require.NoError(t, err)
	assert.Equal(t, LayoutResults, doc.Layout)
	assert.Equal(t, []string{"2014", "2019"}, recordIDs(doc))
	assert.Equal(t, []validate.Kind{validate.KindRound}, doc.Kinds())

	doc, err = LoadFile(filepath.Join(testdata, "resultats", "regionales.json"), DatasetResults)
	require.NoError(t, err)
	assert.Equal(t, []validate.Kind{validate.KindRegional}, doc.Kinds())

	for _, rec := range doc.Records {
		_, err := validate.Validate(rec.Kind, rec.Raw, nil)
		assert.NoError(t, err, rec.ID)
	}
}

func TestParseSingleRoundRecord(t *testing.T) {
	data := []byte(`{"2019": {"inscrits": 1000, "votants": 500, "exprimes": 480, "resultats": {"A": 300, "B": 180}}}`)

	doc, err := Parse(data, "inline.json", DatasetResults)
	require.NoError(t, err)
	require.Len(t, doc.Records, 1)
	assert.Equal(t, validate.KindRound, doc.Records[0].Kind)

	rec, err := validate.Validate(doc.Records[0].Kind, doc.Records[0].Raw, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(480), rec.Round.Expressed)
}

func TestParseKeepsDocumentOrder(t *testing.T) {
	data := []byte(`{"z": {"institut": "Ifop"}, "a": {"institut": "Ifop"}, "m": {"institut": "Ifop"}}`)

	doc, err := Parse(data, "inline.json", DatasetAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, recordIDs(doc))
}

func TestParseRejectsRepeatedIdentifiers(t *testing.T) {
	data := []byte(`{"a": {"institut": "Ifop"}, "a": {"institut": "Ipsos"}}`)

	_, err := Parse(data, "inline.json", DatasetPolls)
	assert.True(t, errors.IsKind(err, errors.KindDuplicateValue), "got %v", err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		kind DatasetKind
		want errors.Kind
	}{
		{"empty", "  ", DatasetAuto, errors.KindInput},
		{"array", `[1, 2]`, DatasetAuto, errors.KindMalformed},
		{"truncated", `{"a": {`, DatasetAuto, errors.KindMalformed},
		{"envelope as results", `{"candidats": [], "sondages": {}}`, DatasetResults, errors.KindInput},
		{"roster not a list", `{"candidats": "A", "sondages": {}}`, DatasetAuto, errors.KindMalformed},
		{"repeated roster name", `{"candidats": ["A", "A"], "sondages": {}}`, DatasetAuto, errors.KindDuplicateValue},
		{"results record not an object", `{"france": 12}`, DatasetResults, errors.KindMalformed},
		{"null record", `{"france": null}`, DatasetResults, errors.KindMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "inline.json", tt.kind)
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.KindOf(err), err.Error())
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"), DatasetAuto)
	assert.True(t, errors.IsKind(err, errors.KindInput))
}

func TestParseDatasetKind(t *testing.T) {
	kind, err := ParseDatasetKind("auto")
	require.NoError(t, err)
	assert.Equal(t, DatasetAuto, kind)

	kind, err = ParseDatasetKind("results")
	require.NoError(t, err)
	assert.Equal(t, DatasetResults, kind)

	_, err = ParseDatasetKind("sondages")
	assert.True(t, errors.IsKind(err, errors.KindInput))
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cache"), 0o755))
	for _, name := range []string{"b.json", "a.json", "notes.txt", filepath.Join("sub", "c.json"), filepath.Join(".cache", "d.json")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	files, err := ExpandPaths([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b.json"),
		filepath.Join(dir, "sub", "c.json"),
	}, files)

	_, err = ExpandPaths([]string{filepath.Join(dir, "missing")})
	assert.True(t, errors.IsKind(err, errors.KindInput))

	files, err = ExpandPaths([]string{filepath.Join(dir, "b.json"), filepath.Join(dir, "a.json")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.json"), filepath.Join(dir, "a.json")}, files)
}
