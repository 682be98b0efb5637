package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OtherCategory is used when no keyword matches
const OtherCategory = "Other"

// CategoryRule maps a category to the keywords that select it
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// SubstituteRule lists alternatives for items containing Key
type SubstituteRule struct {
	Key          string   `yaml:"key"`
	Alternatives []string `yaml:"alternatives"`
}

// Catalog classifies item names and looks up substitutes. Tables are evaluated in
// order and the first containing keyword wins.
type Catalog struct {
	categories  []CategoryRule
	substitutes []SubstituteRule
}

var defaultCategories = []CategoryRule{
	{Name: "Dairy", Keywords: []string{"milk", "cheese", "yogurt", "butter", "paneer"}},
	{Name: "Produce", Keywords: []string{"apple", "banana", "orange", "tomato", "potato", "onion", "mango"}},
	{Name: "Bakery", Keywords: []string{"bread", "bagel", "bun"}},
	{Name: "Drinks", Keywords: []string{"water", "juice", "coffee", "tea"}},
	{Name: "Snacks", Keywords: []string{"chips", "biscuit", "chocolate"}},
	{Name: "Household", Keywords: []string{"detergent", "soap", "shampoo", "toilet paper"}},
	{Name: "Spices", Keywords: []string{"salt", "pepper", "turmeric"}},
}

var defaultSubstitutes = []SubstituteRule{
	{Key: "milk", Alternatives: []string{"almond milk", "soy milk", "oat milk"}},
	{Key: "butter", Alternatives: []string{"margarine"}},
	{Key: "sugar", Alternatives: []string{"honey"}},
}

// DefaultCatalog returns the built-in tables
func DefaultCatalog() *Catalog {
	return &Catalog{
		categories:  defaultCategories,
		substitutes: defaultSubstitutes,
	}
}

// catalogFile is the YAML layout accepted by LoadCatalog
type catalogFile struct {
	Categories  []CategoryRule   `yaml:"categories"`
	Substitutes []SubstituteRule `yaml:"substitutes"`
}

// LoadCatalog reads tables from a YAML file. A section that is missing or empty
// keeps the built-in table.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}

	c := DefaultCatalog()
	if len(f.Categories) > 0 {
		c.categories = normalizeCategoryRules(f.Categories)
	}
	if len(f.Substitutes) > 0 {
		c.substitutes = normalizeSubstituteRules(f.Substitutes)
	}
	return c, nil
}

// Categorize returns the first category with a keyword contained in name.
func (c *Catalog) Categorize(name string) string {
	low := strings.ToLower(name)
	for _, rule := range c.categories {
		for _, kw := range rule.Keywords {
			if strings.Contains(low, kw) {
				return rule.Name
			}
		}
	}
	return OtherCategory
}

// Substitutes returns the alternatives of the first rule whose key is contained in
// name, or an empty slice.
func (c *Catalog) Substitutes(name string) []string {
	low := strings.ToLower(name)
	for _, rule := range c.substitutes {
		if strings.Contains(low, rule.Key) {
			out := make([]string, len(rule.Alternatives))
			copy(out, rule.Alternatives)
			return out
		}
	}
	return []string{}
}

// Categories returns the configured category names in table order.
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.categories)+1)
	for _, rule := range c.categories {
		names = append(names, rule.Name)
	}
	return append(names, OtherCategory)
}

func normalizeCategoryRules(rules []CategoryRule) []CategoryRule {
	out := make([]CategoryRule, 0, len(rules))
	for _, r := range rules {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		out = append(out, CategoryRule{Name: name, Keywords: lowerAll(r.Keywords)})
	}
	return out
}

func normalizeSubstituteRules(rules []SubstituteRule) []SubstituteRule {
	out := make([]SubstituteRule, 0, len(rules))
	for _, r := range rules {
		key := strings.ToLower(strings.TrimSpace(r.Key))
		if key == "" {
			continue
		}
		out = append(out, SubstituteRule{Key: key, Alternatives: r.Alternatives})
	}
	return out
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}
