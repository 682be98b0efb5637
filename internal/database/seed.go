package database

import (
	"context"
	"strings"

	"github.com/foxxcyber/voicelist/internal/models"
)

// DefaultProducts is the catalog loaded by the seeder when no CSV is given and
// served by StaticCatalog when no database is configured.
var DefaultProducts = []models.CreateProductRequest{
	{Name: "Amul Gold Milk 1L", Brand: "Amul", Category: "Dairy", PriceINR: 65},
	{Name: "Britannia White Bread 400g", Brand: "Britannia", Category: "Bakery", PriceINR: 35},
	{Name: "Parle G Biscuits 300g", Brand: "Parle", Category: "Snacks", PriceINR: 25},
	{Name: "Tata Salt Iodized 1kg", Brand: "Tata", Category: "Spices", PriceINR: 28},
	{Name: "Colgate Toothpaste 100g", Brand: "Colgate", Category: "Household", PriceINR: 90},
	{Name: "Dove Shampoo 340ml", Brand: "Dove", Category: "Household", PriceINR: 250},
	{Name: "Almond Milk (Alpro) 1L", Brand: "Alpro", Category: "Dairy", PriceINR: 240},
	{Name: "Apple - Red Delicious (1kg)", Brand: "FreshFarm", Category: "Produce", PriceINR: 180},
	{Name: "Minute Maid Orange Juice 1L", Brand: "Minute Maid", Category: "Drinks", PriceINR: 145},
	{Name: "Organic Bananas (1 dozen)", Brand: "GreenLeaf", Category: "Produce", PriceINR: 60},
	{Name: "Maggi Masala Noodles 2x70g", Brand: "Maggi", Category: "Snacks", PriceINR: 20},
	{Name: "Saffola Gold Oil 1L", Brand: "Saffola", Category: "Household", PriceINR: 220},
	{Name: "Bread - Whole Wheat 400g", Brand: "LocalBakery", Category: "Bakery", PriceINR: 40},
	{Name: "Paneer 200g", Brand: "LocalDairy", Category: "Dairy", PriceINR: 110},
	{Name: "Oreo Chocolate Biscuits 150g", Brand: "Oreo", Category: "Snacks", PriceINR: 60},
	{Name: "Organic Apples", Brand: "NatureFarm", Category: "Produce", PriceINR: 180, Unit: "kg", Stock: 50},
	{Name: "Toothpaste - Colgate Germicheck", Brand: "Colgate", Category: "Household", PriceINR: 120, Unit: "toothpaste", Stock: 40},
	{Name: "Toothpaste - Dabur", Brand: "Dabur", Category: "Household", PriceINR: 85, Unit: "toothpaste", Stock: 25},
	{Name: "Milk (2L)", Brand: "Amul", Category: "Dairy", PriceINR: 120, Unit: "2L", Stock: 100},
	{Name: "Almond Milk 1L", Brand: "Alpro", Category: "Dairy", PriceINR: 250, Unit: "1L", Stock: 15},
	{Name: "Salt 1kg", Brand: "MDH", Category: "Spices", PriceINR: 35, Unit: "1kg", Stock: 80},
	{Name: "Chocolate Cookies Pack", Brand: "Parle", Category: "Snacks", PriceINR: 45, Unit: "pkt", Stock: 60},
	{Name: "Basmati Rice 5kg", Brand: "IndiaGate", Category: "Grocery", PriceINR: 450, Unit: "5kg", Stock: 20},
}

// StaticCatalog is an in-memory ProductSource
type StaticCatalog struct {
	products []models.Product
}

// NewStaticCatalog numbers rows from 1 in the order given
func NewStaticCatalog(rows []models.CreateProductRequest) *StaticCatalog {
	products := make([]models.Product, 0, len(rows))
	for i, r := range rows {
		price := r.PriceINR
		products = append(products, models.Product{
			ID:        i + 1,
			Name:      r.Name,
			Brand:     nullString(r.Brand),
			Category:  nullString(r.Category),
			PriceINR:  &price,
			Unit:      nullString(r.Unit),
			Stock:     nullInt(r.Stock),
			Available: true,
		})
	}
	return &StaticCatalog{products: products}
}

// ListProducts applies the same filters as the products table query
func (c *StaticCatalog) ListProducts(_ context.Context, params *models.ProductSearchParams) ([]models.Product, error) {
	brand := strings.ToLower(strings.TrimSpace(params.Brand))

	var out []models.Product
	for _, p := range c.products {
		if p.PriceINR != nil {
			if params.MinPrice != nil && *p.PriceINR < *params.MinPrice {
				continue
			}
			if params.MaxPrice != nil && *p.PriceINR > *params.MaxPrice {
				continue
			}
		}
		if brand != "" {
			if p.Brand == nil || !strings.Contains(strings.ToLower(*p.Brand), brand) {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// Len returns the number of products
func (c *StaticCatalog) Len() int {
	return len(c.products)
}
