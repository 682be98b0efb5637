package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/foxxcyber/voicelist/internal/models"
)

// Pattern fragments shared by the price filter rules
const (
	searchVerbs   = `(?:(?:find|show me|show|search|get|look for|look up)\s+)?`
	currency      = `(?:₹|rs\.?|rupees)?`
	priceNumber   = `([0-9]+(?:\.[0-9]+)?)`
	upperBoundKW  = `(?:under|below|less than)`
	lowerBoundKW  = `(?:above|over|more than)`
	brandFragment = `([a-z0-9\s]+?)`
)

// priceFilterRule is one entry of the ordered detection cascade
type priceFilterRule struct {
	name    string
	pattern *regexp.Regexp
	build   func(m []string) *models.PriceFilterQuery
	// skip lets a rule decline a match so a later rule can claim the phrase
	skip func(m []string) bool
}

// PriceFilterDetector recognizes product searches with price or brand constraints
type PriceFilterDetector struct {
	rules []priceFilterRule
}

var brandClausePattern = regexp.MustCompile(`\s(?:from|by)\s+\S`)

// NewPriceFilterDetector creates a detector with the rules in precedence order
func NewPriceFilterDetector() *PriceFilterDetector {
	return &PriceFilterDetector{
		rules: []priceFilterRule{
			{
				name:    "upper_bound",
				pattern: regexp.MustCompile(`^` + searchVerbs + `(.+?)\s+` + upperBoundKW + `\s*` + currency + `\s*` + priceNumber),
				build: func(m []string) *models.PriceFilterQuery {
					return &models.PriceFilterQuery{Q: m[1], MaxPrice: parsePrice(m[2])}
				},
				// "shampoo from dove under 300" belongs to the brand rule
				skip: func(m []string) bool {
					return brandClausePattern.MatchString(m[1])
				},
			},
			{
				name:    "between",
				pattern: regexp.MustCompile(`^` + searchVerbs + `(.+?)\s+between\s*` + currency + `\s*` + priceNumber + `\s+(?:and|-)\s*` + currency + `\s*` + priceNumber),
				build: func(m []string) *models.PriceFilterQuery {
					return &models.PriceFilterQuery{Q: m[1], MinPrice: parsePrice(m[2]), MaxPrice: parsePrice(m[3])}
				},
			},
			{
				name:    "brand_upper_bound",
				pattern: regexp.MustCompile(`^` + searchVerbs + `(.+?)\s+(?:from|by)\s+` + brandFragment + `\s+(?:under|below)\s*` + currency + `\s*` + priceNumber),
				build: func(m []string) *models.PriceFilterQuery {
					return &models.PriceFilterQuery{Q: m[1], Brand: brandPtr(m[2]), MaxPrice: parsePrice(m[3])}
				},
			},
			{
				name:    "bare_upper_bound",
				pattern: regexp.MustCompile(`^(.+?)\s+` + upperBoundKW + `\s*` + currency + `\s*` + priceNumber),
				build: func(m []string) *models.PriceFilterQuery {
					return &models.PriceFilterQuery{Q: m[1], MaxPrice: parsePrice(m[2])}
				},
			},
			{
				name:    "lower_bound",
				pattern: regexp.MustCompile(`^` + searchVerbs + `(.+?)\s+` + lowerBoundKW + `\s*` + currency + `\s*` + priceNumber),
				build: func(m []string) *models.PriceFilterQuery {
					return &models.PriceFilterQuery{Q: m[1], MinPrice: parsePrice(m[2])}
				},
			},
			{
				name:    "brand_only",
				pattern: regexp.MustCompile(`(?:find|show|search)(?:\s+me)?\s+(.+?)\s+(?:from|by)\s+([a-z0-9\s]+)`),
				build: func(m []string) *models.PriceFilterQuery {
					return &models.PriceFilterQuery{Q: m[1], Brand: brandPtr(m[2])}
				},
			},
		},
	}
}

// Detect returns the structured query for phrase, or nil when no rule resolves it.
func (d *PriceFilterDetector) Detect(phrase string) *models.PriceFilterQuery {
	q, _ := d.Match(phrase)
	return q
}

// Match is Detect that also names the rule which resolved the phrase.
func (d *PriceFilterDetector) Match(phrase string) (*models.PriceFilterQuery, string) {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return nil, ""
	}

	for _, rule := range d.rules {
		m := rule.pattern.FindStringSubmatch(p)
		if m == nil {
			continue
		}
		if rule.skip != nil && rule.skip(m) {
			continue
		}
		q := rule.build(m)
		q.Q = strings.TrimSpace(q.Q)
		if q.Resolved() {
			return q, rule.name
		}
	}
	return nil, ""
}

// SynthesizePhrase builds a phrase the detector understands from a base phrase
// and whichever price bounds are present.
func SynthesizePhrase(base string, bounds *models.PriceBounds) string {
	base = strings.TrimSpace(base)
	if bounds == nil {
		return base
	}
	switch {
	case bounds.Min != nil && bounds.Max != nil:
		return base + " between " + formatPrice(*bounds.Min) + " and " + formatPrice(*bounds.Max)
	case bounds.Max != nil:
		return base + " under " + formatPrice(*bounds.Max)
	case bounds.Min != nil:
		return base + " above " + formatPrice(*bounds.Min)
	}
	return base
}

func parsePrice(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func brandPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
