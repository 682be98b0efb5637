package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/voicelist/internal/models"
)

// GetTheme returns the owner's theme preference
func (h *Handler) GetTheme(c *fiber.Ctx) error {
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	theme, err := h.store.Theme(c.UserContext(), owner)
	if err != nil {
		return h.storeError(c, "load theme", err)
	}
	return Success(c, fiber.Map{"theme": theme})
}

// UpdateTheme stores the owner's theme preference
func (h *Handler) UpdateTheme(c *fiber.Ctx) error {
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	var req models.ThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !req.Theme.Valid() {
		return Error(c, fiber.StatusBadRequest, "theme must be light or dark")
	}

	if err := h.store.SetTheme(c.UserContext(), owner, req.Theme); err != nil {
		return h.storeError(c, "save theme", err)
	}
	return Success(c, fiber.Map{"theme": req.Theme})
}

// GetLanguages returns the recognition languages and the default
func (h *Handler) GetLanguages(c *fiber.Ctx) error {
	return Success(c, fiber.Map{
		"languages": models.SupportedLanguages,
		"default":   h.cfg.DefaultLang,
	})
}

// GetCategories returns the category names in classifier order, "Other" last
func (h *Handler) GetCategories(c *fiber.Ctx) error {
	return Success(c, fiber.Map{"categories": h.store.Catalog().Categories()})
}
