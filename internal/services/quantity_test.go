package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foxxcyber/voicelist/internal/models"
)

func TestQuantityExtractor(t *testing.T) {
	e := NewQuantityExtractor()

	tests := []struct {
		name   string
		input  string
		qty    int
		hasQty bool
		rest   string
	}{
		{"leading digits", "2 apples", 2, true, "apples"},
		{"digits glued to name", "12eggs", 12, true, "eggs"},
		{"number word", "two apples", 2, true, "apples"},
		{"capitalized number word", "Ten Bananas", 10, true, "Bananas"},
		{"trailing multiplier", "apples x 3", 3, true, "apples"},
		{"uppercase multiplier", "eggs X 12", 12, true, "eggs"},
		{"number word wins over multiplier", "three x 2", 3, true, "x 2"},
		{"no quantity", "bread", 0, false, "bread"},
		{"unknown word", "fresh milk", 0, false, "fresh milk"},
		{"surrounding space", "  5 onions  ", 5, true, "onions"},
		{"digits only", "7", 7, true, ""},
		{"digits beyond int range", "99999999999999999999 eggs", models.MaxQty, true, "eggs"},
		{"max int digits", "9223372036854775807 apples", models.MaxQty, true, "apples"},
		{"large multiplier", "apples x 123456", models.MaxQty, true, "apples"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.input)
			assert.Equal(t, tt.hasQty, got.HasQty)
			assert.Equal(t, tt.qty, got.Qty)
			assert.Equal(t, tt.rest, got.Rest)
		})
	}
}
