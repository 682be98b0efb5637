package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/foxxcyber/voicelist/internal/models"
)

// QuantityMatch is the result of pulling a quantity out of a phrase fragment.
// HasQty is false when no rule matched; Qty is then zero and meaningless.
type QuantityMatch struct {
	Qty    int
	HasQty bool
	Rest   string
}

// QuantityExtractor finds a leading or trailing quantity in an item phrase
type QuantityExtractor struct {
	leadingDigitsPattern *regexp.Regexp
	leadingWordPattern   *regexp.Regexp
	multiplierPattern    *regexp.Regexp
}

// NewQuantityExtractor creates a new extractor instance
func NewQuantityExtractor() *QuantityExtractor {
	return &QuantityExtractor{
		// "2 apples"
		leadingDigitsPattern: regexp.MustCompile(`^(\d+)`),

		// "two apples"
		leadingWordPattern: regexp.MustCompile(`^([a-zA-Z]+)\s+(.+)$`),

		// "apples x 2"
		multiplierPattern: regexp.MustCompile(`(?i)(.+)\s+x\s+(\d+)`),
	}
}

// Extract applies the quantity rules in order; the first match wins. A leading
// number word is checked before the trailing multiplier, so "three x 2" yields 3
// with "x 2" left as the rest.
func (e *QuantityExtractor) Extract(text string) QuantityMatch {
	text = strings.TrimSpace(text)

	if m := e.leadingDigitsPattern.FindStringSubmatch(text); m != nil {
		return QuantityMatch{Qty: parseDigits(m[1]), HasQty: true, Rest: strings.TrimSpace(text[len(m[0]):])}
	}

	if m := e.leadingWordPattern.FindStringSubmatch(text); m != nil {
		if qty, ok := models.NumberWords[strings.ToLower(m[1])]; ok {
			return QuantityMatch{Qty: qty, HasQty: true, Rest: strings.TrimSpace(m[2])}
		}
	}

	if m := e.multiplierPattern.FindStringSubmatch(text); m != nil {
		return QuantityMatch{Qty: parseDigits(m[2]), HasQty: true, Rest: strings.TrimSpace(m[1])}
	}

	return QuantityMatch{Rest: text}
}

// parseDigits reads a run of digits, capping it at models.MaxQty
func parseDigits(digits string) int {
	qty, err := strconv.Atoi(digits)
	if err != nil || qty > models.MaxQty {
		return models.MaxQty
	}
	return qty
}
