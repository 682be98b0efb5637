package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	c := DefaultCatalog()

	tests := map[string]string{
		"apples":            "Produce",
		"Almond Milk":       "Dairy",
		"paneer":            "Dairy",
		"whole wheat bread": "Bakery",
		"green tea":         "Drinks",
		"potato chips":      "Produce",
		"chocolate":         "Snacks",
		"toilet paper":      "Household",
		"turmeric powder":   "Spices",
		"rice":              OtherCategory,
		"":                  OtherCategory,
	}
	for name, want := range tests {
		assert.Equal(t, want, c.Categorize(name), name)
	}
}

func TestSubstitutes(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, []string{"almond milk", "soy milk", "oat milk"}, c.Substitutes("Milk"))
	assert.Equal(t, []string{"margarine"}, c.Substitutes("peanut butter"))
	assert.Equal(t, []string{"honey"}, c.Substitutes("brown sugar"))
	assert.Equal(t, []string{}, c.Substitutes("bread"))

	// callers may not modify the table
	subs := c.Substitutes("milk")
	subs[0] = "changed"
	assert.Equal(t, "almond milk", c.Substitutes("milk")[0])
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - name: Grains
    keywords: [Rice, wheat]
  - name: Dairy
    keywords: [milk]
`), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	assert.Equal(t, "Grains", c.Categorize("basmati rice"))
	assert.Equal(t, "Dairy", c.Categorize("milk"))
	assert.Equal(t, OtherCategory, c.Categorize("apples"))
	assert.Equal(t, []string{"Grains", "Dairy", OtherCategory}, c.Categories())

	// substitutes section missing keeps the built-in table
	assert.Equal(t, []string{"margarine"}, c.Substitutes("butter"))
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [unterminated"), 0o644))
	_, err = LoadCatalog(path)
	assert.Error(t, err)
}
