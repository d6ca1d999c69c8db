package game

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogFile represents the top-level YAML structure of a catalog file.
type CatalogFile struct {
	Cards []*CardTemplate `yaml:"cards"`
}

// Catalog is the fixed pool of card templates. It is a multiset pool, not a
// deck: drawing never exhausts it.
type Catalog struct {
	templates []*CardTemplate
	byID      map[string]*CardTemplate
	minTree   *CardTemplate
}

// DefaultCatalog returns the reference rule set: four Trees with escalating
// values and one of each action card.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog([]*CardTemplate{
		{ID: "tree1", Type: CardTypeTree, Value: 1, Name: "Tree x1", ImageRef: "Arbol1.png"},
		{ID: "tree2", Type: CardTypeTree, Value: 2, Name: "Tree x2", ImageRef: "Arbol2.png"},
		{ID: "tree3", Type: CardTypeTree, Value: 3, Name: "Tree x3", ImageRef: "Arbol3.png"},
		{ID: "tree4", Type: CardTypeTree, Value: 4, Name: "Tree x4", ImageRef: "Arbol4.png"},
		{ID: "fogata", Type: CardTypeFire, Name: "Campfire", ImageRef: "Fogata.png"},
		{ID: "lenador", Type: CardTypeLumberjack, Name: "Lumberjack", ImageRef: "Lenador.png"},
		{ID: "politician", Type: CardTypePolitician, Name: "Politician", ImageRef: "Politico.png"},
		{ID: "contrato", Type: CardTypeContract, Name: "Contract", ImageRef: "Contrato.png"},
		{ID: "incendio", Type: CardTypeWildfire, Name: "Wildfire", ImageRef: "Incendio.png"},
	})
	if err != nil {
		panic(fmt.Sprintf("default catalog: %v", err))
	}
	return c
}

// NewCatalog validates templates and builds a catalog from them.
func NewCatalog(templates []*CardTemplate) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	c := &Catalog{byID: make(map[string]*CardTemplate, len(templates))}
	for i, t := range templates {
		if t == nil {
			return nil, fmt.Errorf("card %d: nil template", i)
		}
		if t.ID == "" {
			return nil, fmt.Errorf("card %d: id is required", i)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("card %q: duplicate id", t.ID)
		}
		if t.Type == CardTypeTree && t.Value <= 0 {
			return nil, fmt.Errorf("card %q: tree value must be positive", t.ID)
		}
		if t.Type != CardTypeTree && t.Value != 0 {
			return nil, fmt.Errorf("card %q: only trees carry a value", t.ID)
		}
		if t.Name == "" {
			t.Name = t.ID
		}
		c.byID[t.ID] = t
		c.templates = append(c.templates, t)
		if t.Type == CardTypeTree && (c.minTree == nil || t.Value < c.minTree.Value) {
			c.minTree = t
		}
	}
	if c.minTree == nil {
		return nil, fmt.Errorf("catalog has no tree cards")
	}
	// The Lumberjack sapling is the smallest Tree and must be worth exactly 1.
	if c.minTree.Value != 1 {
		return nil, fmt.Errorf("card %q: smallest tree must be worth 1, got %d", c.minTree.ID, c.minTree.Value)
	}
	return c, nil
}

// LoadCatalog parses a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

// ParseCatalog parses catalog YAML from memory.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return NewCatalog(cf.Cards)
}

// Templates returns the catalog entries in declaration order.
func (c *Catalog) Templates() []*CardTemplate {
	out := make([]*CardTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}

// Lookup finds a template by id.
func (c *Catalog) Lookup(id string) (*CardTemplate, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// MinTree returns the lowest-value Tree template, always worth 1.
func (c *Catalog) MinTree() *CardTemplate {
	return c.minTree
}

// Sample picks n templates uniformly at random with replacement.
func (c *Catalog) Sample(rng *rand.Rand, n int) []*CardTemplate {
	out := make([]*CardTemplate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, c.templates[rng.Intn(len(c.templates))])
	}
	return out
}

// Deal picks n distinct templates (shuffled catalog, first n). If n exceeds the
// catalog size the remainder is sampled with replacement.
func (c *Catalog) Deal(rng *rand.Rand, n int) []*CardTemplate {
	shuffled := c.Templates()
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n <= len(shuffled) {
		return shuffled[:n]
	}
	return append(shuffled, c.Sample(rng, n-len(shuffled))...)
}
