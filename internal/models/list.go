package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ListItem is a single entry on a shopping list. Entries are identified by their
// lowercased name.
type ListItem struct {
	Name     string    `json:"name"`
	Qty      int       `json:"qty"`
	Category string    `json:"category"`
	AddedAt  time.Time `json:"added_at"`
}

// Key returns the identity key of the item.
func (i ListItem) Key() string {
	return NameKey(i.Name)
}

// NameKey normalizes a name into the list identity key.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MaxQty caps every stored quantity and history count
const MaxQty = 9999

// ClampQty bounds n to [-MaxQty, MaxQty].
func ClampQty(n int) int {
	switch {
	case n > MaxQty:
		return MaxQty
	case n < -MaxQty:
		return -MaxQty
	}
	return n
}

// AddQty returns a+b clamped to [0, MaxQty].
func AddQty(a, b int) int {
	v := ClampQty(a) + ClampQty(b)
	if v < 0 {
		return 0
	}
	if v > MaxQty {
		return MaxQty
	}
	return v
}

// Theme is the persisted UI theme preference
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// LastPurchasedPrefix prefixes the timestamp entries of a persisted history blob.
const LastPurchasedPrefix = "last-purchased:"

// PurchaseHistory tracks how much of each item has ever been added and when it
// was last added. It only grows.
type PurchaseHistory struct {
	Counts        map[string]int
	LastPurchased map[string]time.Time
}

// NewPurchaseHistory returns an empty history
func NewPurchaseHistory() *PurchaseHistory {
	return &PurchaseHistory{
		Counts:        make(map[string]int),
		LastPurchased: make(map[string]time.Time),
	}
}

// Record adds qty purchases of name at the given time.
func (h *PurchaseHistory) Record(name string, qty int, at time.Time) {
	key := NameKey(name)
	if key == "" {
		return
	}
	if qty <= 0 {
		qty = 1
	}
	h.Counts[key] = AddQty(h.Counts[key], qty)
	h.LastPurchased[key] = at.UTC()
}

// MarshalJSON writes the history as one flat object: counts under the item key and
// timestamps under "last-purchased:<item>".
func (h PurchaseHistory) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(h.Counts)+len(h.LastPurchased))
	for k, v := range h.Counts {
		flat[k] = v
	}
	for k, v := range h.LastPurchased {
		flat[LastPurchasedPrefix+k] = v.Format(time.RFC3339Nano)
	}
	return json.Marshal(flat)
}

// UnmarshalJSON reads the flat object written by MarshalJSON. Entries of the wrong
// shape are skipped.
func (h *PurchaseHistory) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("decoding purchase history: %w", err)
	}

	h.Counts = make(map[string]int)
	h.LastPurchased = make(map[string]time.Time)
	for k, raw := range flat {
		if name, ok := strings.CutPrefix(k, LastPurchasedPrefix); ok {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				continue
			}
			if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
				h.LastPurchased[name] = ts
			}
			continue
		}
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			continue
		}
		h.Counts[k] = int(n)
	}
	return nil
}

// Recommendation is a frequently purchased item that is not on the list
type Recommendation struct {
	Name          string     `json:"name"`
	Count         int        `json:"count"`
	Category      string     `json:"category"`
	LastPurchased *time.Time `json:"last_purchased,omitempty"`
}

// GroupedItem is a list item annotated for rendering
type GroupedItem struct {
	ListItem
	Label       string   `json:"label"`
	Substitutes []string `json:"substitutes,omitempty"`
}

// CategoryGroup holds the items of one category
type CategoryGroup struct {
	Category string        `json:"category"`
	Count    int           `json:"count"`
	Items    []GroupedItem `json:"items"`
}

// GroupedList is the rendered view of a list: categories sorted by name
type GroupedList struct {
	Count      int             `json:"count"`
	CountLabel string          `json:"count_label"`
	Categories []CategoryGroup `json:"categories"`
}

// Snapshot describes an archived copy of a cleared list
type Snapshot struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Request types

// AddItemRequest is the request body for adding an item directly
type AddItemRequest struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// AdjustQtyRequest is the request body for the +/- quantity buttons
type AdjustQtyRequest struct {
	Delta int `json:"delta"`
}

// ThemeRequest is the request body for saving the theme preference
type ThemeRequest struct {
	Theme Theme `json:"theme"`
}
