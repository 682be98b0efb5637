package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/voicelist/internal/models"
)

// ProductSource returns catalog rows passing the price and brand filters. Ranking
// is left to the caller.
type ProductSource interface {
	ListProducts(ctx context.Context, params *models.ProductSearchParams) ([]models.Product, error)
}

// ListProducts returns products within the price bounds whose brand contains the
// brand filter. Rows without a price pass the price filters.
func (db *DB) ListProducts(ctx context.Context, params *models.ProductSearchParams) ([]models.Product, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, brand, category, price_inr::float8, unit, stock
		FROM products
		WHERE ($1::float8 IS NULL OR price_inr IS NULL OR price_inr >= $1)
		  AND ($2::float8 IS NULL OR price_inr IS NULL OR price_inr <= $2)
		  AND ($3 = '' OR LOWER(COALESCE(brand, '')) LIKE '%' || $3 || '%' ESCAPE '\')
		ORDER BY id ASC
	`, params.MinPrice, params.MaxPrice, escapeLike(strings.ToLower(strings.TrimSpace(params.Brand))))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p := models.Product{Available: true}
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Category, &p.PriceINR, &p.Unit, &p.Stock); err != nil {
			return nil, err
		}
		if p.Stock != nil && *p.Stock <= 0 {
			p.Available = false
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// InsertProducts loads catalog rows, optionally replacing the current catalog
func (db *DB) InsertProducts(ctx context.Context, products []models.CreateProductRequest, replace bool) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if replace {
		if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
			return 0, fmt.Errorf("failed to clear products: %w", err)
		}
	}

	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		rows = append(rows, []interface{}{p.Name, nullString(p.Brand), nullString(p.Category), p.PriceINR, nullString(p.Unit), nullInt(p.Stock)})
	}

	count, err := tx.CopyFrom(ctx,
		pgx.Identifier{"products"},
		[]string{"name", "brand", "category", "price_inr", "unit", "stock"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit products: %w", err)
	}
	return count, nil
}

// CountProducts returns the number of catalog rows
func (db *DB) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func nullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// a zero stock in a seed row means the stock is not tracked
func nullInt(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
