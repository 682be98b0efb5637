package handlers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/foxxcyber/voicelist/internal/models"
)

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// parsePriceParam accepts "120", "120.50" or "₹120"; anything else is no bound
func parsePriceParam(v string) *float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return &f
	}
	if f, err := strconv.ParseFloat(nonPriceChars.ReplaceAllString(v, ""), 64); err == nil {
		return &f
	}
	return nil
}

// SearchProducts handles GET /api/products/search. It answers in the product
// search wire format ({items, query}) so the server can act as its own search
// service.
func (h *Handler) SearchProducts(c *fiber.Ctx) error {
	if h.searcher == nil {
		return Error(c, fiber.StatusServiceUnavailable, "product search is not configured")
	}

	params := &models.ProductSearchParams{
		Q:        c.Query("q"),
		MinPrice: parsePriceParam(c.Query("min_price")),
		MaxPrice: parsePriceParam(c.Query("max_price")),
		Brand:    c.Query("brand"),
		Limit:    c.QueryInt("limit", models.SearchLimit),
	}
	if params.Limit < 1 || params.Limit > 100 {
		params.Limit = models.SearchLimit
	}

	resp, err := h.searcher.Search(c.UserContext(), params)
	if err != nil {
		h.logger.Warn("product search failed", zap.String("q", params.Q), zap.Error(err))
		return Error(c, fiber.StatusBadGateway, "product search failed")
	}
	if resp.Items == nil {
		resp.Items = []models.Product{}
	}
	if resp.Query != nil {
		if currency := c.Query("currency"); currency != "" {
			resp.Query.Currency = currency
		}
	}
	return c.JSON(resp)
}

// Ping is a liveness check kept for older clients
func (h *Handler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "msg": "pong"})
}
