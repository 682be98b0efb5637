package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fixed parameters of every product search
const (
	SearchCurrency = "INR"
	SearchLimit    = 12
)

// PriceFilterQuery is a product search derived from a spoken phrase
type PriceFilterQuery struct {
	Q        string   `json:"q"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	Brand    *string  `json:"brand"`
}

// Resolved reports whether the query has enough to run a search.
func (q *PriceFilterQuery) Resolved() bool {
	return q != nil && strings.TrimSpace(q.Q) != ""
}

// BrandName returns the brand or an empty string.
func (q *PriceFilterQuery) BrandName() string {
	if q == nil || q.Brand == nil {
		return ""
	}
	return *q.Brand
}

// PriceLabel is a display price. The search service may send it as a string
// ("₹65.00") or as a bare number.
type PriceLabel string

func (p *PriceLabel) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PriceLabel(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a string or number: %w", err)
	}
	*p = PriceLabel(strconv.FormatFloat(n, 'f', 2, 64))
	return nil
}

// Product is one search result from the product catalog
type Product struct {
	ID          int        `json:"id,omitempty"`
	Name        string     `json:"name"`
	Brand       *string    `json:"brand,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Price       PriceLabel `json:"price,omitempty"`
	PriceINR    *float64   `json:"price_inr,omitempty"`
	Unit        *string    `json:"unit,omitempty"`
	Stock       *int       `json:"stock,omitempty"`
	Available   bool       `json:"available"`
	Substitutes []string   `json:"substitutes,omitempty"`
}

// DisplayPrice returns the price label, falling back to the rupee amount.
func (p Product) DisplayPrice() string {
	if p.Price != "" {
		return string(p.Price)
	}
	var v float64
	if p.PriceINR != nil {
		v = *p.PriceINR
	}
	return fmt.Sprintf("₹%.2f", v)
}

// SearchQueryEcho is the normalized query echoed back by the search endpoint
type SearchQueryEcho struct {
	Q        string   `json:"q"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	Brand    string   `json:"brand"`
	Currency string   `json:"currency"`
}

// SearchResponse is the wire format of the product search service
type SearchResponse struct {
	Items []Product        `json:"items"`
	Query *SearchQueryEcho `json:"query,omitempty"`
}

// ProductSearchParams contains parameters for searching the catalog
type ProductSearchParams struct {
	Q        string
	MinPrice *float64
	MaxPrice *float64
	Brand    string
	Limit    int
}

// CreateProductRequest is one catalog row to seed
type CreateProductRequest struct {
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Category string  `json:"category"`
	PriceINR float64 `json:"price_inr"`
	Unit     string  `json:"unit"`
	Stock    int     `json:"stock"`
}
