package services

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/foxxcyber/voicelist/internal/database"
	"github.com/foxxcyber/voicelist/internal/models"
)

// ProductSearcher finds catalog products for a search query
type ProductSearcher interface {
	Search(ctx context.Context, params *models.ProductSearchParams) (*models.SearchResponse, error)
}

// CatalogSearcher ranks products from a ProductSource by how well they match the
// query text
type CatalogSearcher struct {
	source  database.ProductSource
	catalog *Catalog
}

// NewCatalogSearcher creates a searcher over source. A nil catalog uses DefaultCatalog.
func NewCatalogSearcher(source database.ProductSource, catalog *Catalog) *CatalogSearcher {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &CatalogSearcher{
		source:  source,
		catalog: catalog,
	}
}

type scoredProduct struct {
	score   int
	product models.Product
}

// Search filters by price and brand, then orders by score and price. Products
// that share nothing with the query text are dropped; with no query text every
// candidate scores the same.
func (s *CatalogSearcher) Search(ctx context.Context, params *models.ProductSearchParams) (*models.SearchResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = models.SearchLimit
	}

	candidates, err := s.source.ListProducts(ctx, params)
	if err != nil {
		return nil, err
	}

	q := normalizeSearchText(params.Q)
	scored := make([]scoredProduct, 0, len(candidates))
	for _, p := range candidates {
		score := 1
		if q != "" {
			score = scoreProduct(p, q)
		}
		if score == 0 {
			continue
		}
		scored = append(scored, scoredProduct{score: score, product: p})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return priceOrInf(scored[i].product) < priceOrInf(scored[j].product)
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	items := make([]models.Product, 0, len(scored))
	for _, sp := range scored {
		p := sp.product
		p.Substitutes = s.catalog.Substitutes(p.Name)
		items = append(items, p)
	}

	return &models.SearchResponse{
		Items: items,
		Query: &models.SearchQueryEcho{
			Q:        params.Q,
			MinPrice: params.MinPrice,
			MaxPrice: params.MaxPrice,
			Brand:    params.Brand,
			Currency: models.SearchCurrency,
		},
	}, nil
}

// scoreProduct weighs a name prefix match highest, then a name substring, brand
// and category, plus a small bonus per query word found in the name or brand.
func scoreProduct(p models.Product, q string) int {
	name := normalizeSearchText(p.Name)
	brand := normalizeSearchText(derefString(p.Brand))
	category := normalizeSearchText(derefString(p.Category))

	score := 0
	if strings.HasPrefix(name, q) {
		score += 100
	} else if strings.Contains(name, q) {
		score += 50
	}
	if strings.Contains(brand, q) {
		score += 30
	}
	if strings.Contains(category, q) {
		score += 20
	}

	for _, w := range strings.Fields(q) {
		if strings.Contains(name, w) {
			score += 6
		}
		if strings.Contains(brand, w) {
			score += 3
		}
	}
	return score
}

func normalizeSearchText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func priceOrInf(p models.Product) float64 {
	if p.PriceINR == nil {
		return math.Inf(1)
	}
	return *p.PriceINR
}
