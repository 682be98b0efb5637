package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/voicelist/internal/middleware"
)

// RegisterRoutes mounts every endpoint on app
func (h *Handler) RegisterRoutes(app *fiber.App) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
	})

	api := app.Group("/api")
	api.Get("/ping", h.Ping)
	api.Get("/languages", h.GetLanguages)
	api.Get("/categories", h.GetCategories)
	api.Get("/products/search", h.SearchProducts)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/token", h.IssueToken)

	protected := api.Group("", middleware.AuthRequired(h.cfg))

	// Command routes
	protected.Post("/commands", h.Interpret)
	protected.Post("/commands/parse", h.ParseLocal)

	// List routes
	protected.Get("/items", h.GetList)
	protected.Post("/items", h.AddItem)
	protected.Delete("/items", h.ClearList)
	protected.Delete("/items/:name", h.RemoveItem)
	protected.Post("/items/:name/adjust", h.AdjustQty)

	protected.Get("/history", h.GetHistory)
	protected.Get("/recommendations", h.GetRecommendations)
	protected.Get("/lists/snapshots", h.ListSnapshots)
	protected.Get("/lists/snapshots/:key", h.GetSnapshot)

	// Settings routes
	protected.Get("/theme", h.GetTheme)
	protected.Put("/theme", h.UpdateTheme)
}
