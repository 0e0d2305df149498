package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberFollowsLanguage(t *testing.T) {
	w := NewWriter(&bytes.Buffer{}, true)
	assert.Equal(t, "1 234 567", strings.ReplaceAll(w.Number(1234567), " ", " "))

	w.SetLanguage("en")
	assert.Equal(t, "1,234,567", w.Number(1234567))

	w.SetLanguage("not a tag!")
	assert.Equal(t, "1 234 567", strings.ReplaceAll(w.Number(1234567), " ", " "))
}

func TestTableAlignsAccentedCells(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	table := w.NewTable("Candidat", "Voix")
	table.AddRow("Éric Zemmour", "10")
	table.AddRow("A", "100 %")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "Candidat     │ Voix ", lines[0])
	assert.Equal(t, "Éric Zemmour │ 10   ", lines[2])
	assert.Equal(t, "A            │ 100 %", lines[3])
}

func TestColorsDisabled(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	w.Success("%d records accepted", 3)

	assert.Equal(t, "✓ 3 records accepted\n", buf.String())
	assert.Equal(t, "x", w.Colorize(Red, "x"))
}

func TestVerbosity(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)
	w.SetVerbosity(0)
	w.Info("hidden")
	w.Debug("hidden")
	assert.Empty(t, buf.String())

	w.SetVerbosity(2)
	w.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	bar := w.NewProgressBar(4, "Documents")
	bar.Update(2)
	bar.Done()

	out := buf.String()
	assert.Contains(t, out, "Documents [")
	assert.Contains(t, out, " 50% (2/4)")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestWarningAndInfo(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	w.Warning("%s holds no records", "vide.json")
	w.Info("Reference %s", "elections.hcl")

	assert.Equal(t, "⚠ vide.json holds no records\nℹ Reference elections.hcl\n", buf.String())
}
