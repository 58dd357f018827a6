package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadVocabOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
exclusions:
  - tweed
brands:
  - Maison Margiela
hype_brands:
  - Corteiz
`), 0o644))

	v, err := LoadVocabOverride(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"tweed"}, v.Exclusions)
	assert.Equal(t, []string{"Maison Margiela"}, v.Brands)
	assert.Equal(t, []string{"Corteiz"}, v.HypeBrands)
}

func TestLoadVocabOverride_EmptyPath(t *testing.T) {
	v, err := LoadVocabOverride("")
	require.NoError(t, err)
	assert.Empty(t, v.Exclusions)
	assert.Empty(t, v.Brands)
	assert.Empty(t, v.HypeBrands)
}

func TestLoadVocabOverride_MissingFile(t *testing.T) {
	_, err := LoadVocabOverride("/nonexistent/vocab.yaml")
	require.Error(t, err)
}

func TestLoadVocabOverride_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exclusions: {{"), 0o644))

	_, err := LoadVocabOverride(path)
	require.Error(t, err)
}

func TestMergeBrands(t *testing.T) {
	merged := MergeBrands([]string{"Maison Margiela", "nike", ""})

	// Extras join, duplicates of built-ins are dropped, longest first.
	assert.Contains(t, merged, "Maison Margiela")
	count := 0
	for _, b := range merged {
		if b == "Nike" || b == "nike" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	for i := 1; i < len(merged); i++ {
		assert.GreaterOrEqual(t, len(merged[i-1]), len(merged[i]))
	}
}
