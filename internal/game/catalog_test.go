package game

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	require.Len(t, c.Templates(), 9)
	assert.Equal(t, "tree1", c.MinTree().ID)
	counts := map[CardType]int{}
	for _, tmpl := range c.Templates() {
		counts[tmpl.Type]++
	}
	assert.Equal(t, 4, counts[CardTypeTree])
	for _, ct := range []CardType{CardTypeFire, CardTypeWildfire, CardTypeLumberjack, CardTypePolitician, CardTypeContract} {
		assert.Equal(t, 1, counts[ct], ct.String())
	}

	tree4, ok := c.Lookup("tree4")
	require.True(t, ok)
	assert.Equal(t, 4, tree4.Points())
	fire, _ := c.Lookup("fogata")
	assert.Zero(t, fire.Points())
	_, ok = c.Lookup("nope")
	assert.False(t, ok)
}

const testCatalogYAML = `
cards:
  - id: sapling
    type: tree
    value: 1
    name: Sapling
  - id: oak
    type: Tree
    value: 5
  - id: spark
    type: fire
    name: Spark
    image: spark.png
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(testCatalogYAML))
	require.NoError(t, err)

	require.Len(t, c.Templates(), 3)
	assert.Equal(t, "sapling", c.MinTree().ID)
	oak, _ := c.Lookup("oak")
	assert.Equal(t, "oak", oak.Name, "name defaults to id")
	spark, _ := c.Lookup("spark")
	assert.Equal(t, CardTypeFire, spark.Type)
	assert.Equal(t, "spark.png", spark.ImageRef)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalogYAML), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Templates(), 3)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "cards: []"},
		{"unknown type", "cards:\n  - {id: x, type: meteor}"},
		{"missing id", "cards:\n  - {type: tree, value: 1}"},
		{"duplicate id", "cards:\n  - {id: a, type: tree, value: 1}\n  - {id: a, type: tree, value: 2}"},
		{"zero tree", "cards:\n  - {id: a, type: tree}"},
		{"valued action", "cards:\n  - {id: a, type: tree, value: 1}\n  - {id: f, type: fire, value: 3}"},
		{"no trees", "cards:\n  - {id: f, type: fire}"},
		{"smallest tree above one", "cards:\n  - {id: oak, type: tree, value: 3}\n  - {id: jack, type: lumberjack}"},
		{"not yaml", "cards: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSampleAndDeal(t *testing.T) {
	c := DefaultCatalog()
	rng := rand.New(rand.NewSource(1))

	assert.Len(t, c.Sample(rng, 50), 50)

	dealt := c.Deal(rng, 9)
	seen := map[string]bool{}
	for _, tmpl := range dealt {
		seen[tmpl.ID] = true
	}
	assert.Len(t, seen, 9, "a full deal covers the catalog once")

	assert.Len(t, c.Deal(rng, 12), 12)
}

func TestParseCardType(t *testing.T) {
	ct, err := ParseCardType(" Lumberjack ")
	require.NoError(t, err)
	assert.Equal(t, CardTypeLumberjack, ct)

	_, err = ParseCardType("dragon")
	assert.Error(t, err)

	text, err := CardTypeContract.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "contract", string(text))
	assert.True(t, CardTypeFire.NeedsTarget())
	assert.False(t, CardTypeWildfire.NeedsTarget())
}
