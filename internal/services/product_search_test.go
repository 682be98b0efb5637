package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/voicelist/internal/database"
	"github.com/foxxcyber/voicelist/internal/models"
)

func productNames(items []models.Product) []string {
	names := make([]string, 0, len(items))
	for _, p := range items {
		names = append(names, p.Name)
	}
	return names
}

func newCatalogSearcher() *CatalogSearcher {
	return NewCatalogSearcher(database.NewStaticCatalog(database.DefaultProducts), nil)
}

func TestCatalogSearcherRanking(t *testing.T) {
	s := newCatalogSearcher()

	resp, err := s.Search(context.Background(), &models.ProductSearchParams{Q: "Milk"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Milk (2L)",
		"Amul Gold Milk 1L",
		"Almond Milk (Alpro) 1L",
		"Almond Milk 1L",
	}, productNames(resp.Items))
	assert.Equal(t, []string{"almond milk", "soy milk", "oat milk"}, resp.Items[0].Substitutes)

	require.NotNil(t, resp.Query)
	assert.Equal(t, "Milk", resp.Query.Q)
	assert.Equal(t, models.SearchCurrency, resp.Query.Currency)
}

func TestCatalogSearcherFilters(t *testing.T) {
	s := newCatalogSearcher()
	ctx := context.Background()

	resp, err := s.Search(ctx, &models.ProductSearchParams{Q: "toothpaste", MaxPrice: floatPtr(100)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Toothpaste - Dabur", "Colgate Toothpaste 100g"}, productNames(resp.Items))

	resp, err = s.Search(ctx, &models.ProductSearchParams{Q: "toothpaste", Brand: "colgate"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Toothpaste - Colgate Germicheck", "Colgate Toothpaste 100g"}, productNames(resp.Items))

	resp, err = s.Search(ctx, &models.ProductSearchParams{Q: "soap"})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestCatalogSearcherLimit(t *testing.T) {
	s := newCatalogSearcher()

	resp, err := s.Search(context.Background(), &models.ProductSearchParams{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Maggi Masala Noodles 2x70g",
		"Parle G Biscuits 300g",
		"Tata Salt Iodized 1kg",
	}, productNames(resp.Items))

	resp, err = s.Search(context.Background(), &models.ProductSearchParams{})
	require.NoError(t, err)
	assert.Len(t, resp.Items, models.SearchLimit)
}

type failingSource struct{}

func (failingSource) ListProducts(context.Context, *models.ProductSearchParams) ([]models.Product, error) {
	return nil, errors.New("connection refused")
}

func TestCatalogSearcherSourceError(t *testing.T) {
	s := NewCatalogSearcher(failingSource{}, nil)
	_, err := s.Search(context.Background(), &models.ProductSearchParams{Q: "milk"})
	assert.Error(t, err)
}

func TestSearchClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "soap", q.Get("q"))
		assert.Equal(t, "50", q.Get("min_price"))
		assert.Equal(t, "150.5", q.Get("max_price"))
		assert.Equal(t, "dove", q.Get("brand"))
		assert.Equal(t, "INR", q.Get("currency"))
		assert.Equal(t, "12", q.Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"name":"Dove Soap","brand":"Dove","price":"₹65.00","price_inr":65,"available":true}]}`))
	}))
	defer server.Close()

	c := NewSearchClient(server.URL, time.Second)
	resp, err := c.Search(context.Background(), &models.ProductSearchParams{
		Q:        "soap",
		MinPrice: floatPtr(50),
		MaxPrice: floatPtr(150.5),
		Brand:    "dove",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Dove Soap", resp.Items[0].Name)
	assert.Equal(t, "₹65.00", resp.Items[0].DisplayPrice())
}

func TestSearchClientBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("min_price"))
		assert.Empty(t, r.URL.Query().Get("brand"))
		w.Write([]byte(` [{"name":"Tata Salt","price":28},{"name":"Salt 1kg"}]`))
	}))
	defer server.Close()

	resp, err := NewSearchClient(server.URL, 0).Search(context.Background(), &models.ProductSearchParams{Q: "salt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tata Salt", "Salt 1kg"}, productNames(resp.Items))
	assert.Equal(t, "28.00", resp.Items[0].DisplayPrice())
	assert.Equal(t, "₹0.00", resp.Items[1].DisplayPrice())
}

func TestSearchClientErrors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer failing.Close()

	_, err := NewSearchClient(failing.URL, time.Second).Search(context.Background(), &models.ProductSearchParams{Q: "x"})
	assert.ErrorContains(t, err, "502")

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer garbage.Close()

	_, err = NewSearchClient(garbage.URL, time.Second).Search(context.Background(), &models.ProductSearchParams{Q: "x"})
	assert.Error(t, err)
}
