package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/voicelist/internal/models"
)

// itemName reads the :name route parameter, which clients URL-encode
func itemName(c *fiber.Ctx) (string, error) {
	raw := c.Params("name")
	name, err := url.PathUnescape(raw)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid item name")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "item name is required")
	}
	return name, nil
}

// GetList returns the owner's list grouped by category
func (h *Handler) GetList(c *fiber.Ctx) error {
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	list, err := h.store.RenderOwner(c.UserContext(), owner)
	if err != nil {
		return h.storeError(c, "load list", err)
	}
	return Success(c, list)
}

// AddItem adds an item directly, without interpretation
func (h *Handler) AddItem(c *fiber.Ctx) error {
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	var req models.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return Error(c, fiber.StatusBadRequest, "name is required")
	}

	ctx := c.UserContext()
	if _, err := h.store.AddItem(ctx, owner, req.Name, req.Qty); err != nil {
		return h.storeError(c, "add item", err)
	}

	list, err := h.store.RenderOwner(ctx, owner)
	if err != nil {
		return h.storeError(c, "load list", err)
	}
	return c.Status(fiber.StatusCreated).JSON(APIResponse{Success: true, Data: list})
}

// RemoveItem deletes an item by exact name
func (h *Handler) RemoveItem(c *fiber.Ctx) error {
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}
	name, err := itemName(c)
	if err != nil {
		return err
	}

	found, err := h.store.RemoveItem(c.UserContext(), owner, name)
	if err != nil {
		return h.storeError(c, "remove item", err)
	}
	if !found {
		return Error(c, fiber.StatusNotFound, "item not found")
	}

	return Success(c, fiber.Map{"message": "item removed"})
}

// AdjustQty applies the +/- buttons. The quantity stops at zero and the item
// stays on the list.
func (h *Handler) AdjustQty(c *fiber.Ctx) error {
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}
	name, err := itemName(c)
	if err != nil {
		return err
	}

	var req models.AdjustQtyRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	qty, found, err := h.store.AdjustQty(c.UserContext(), owner, name, req.Delta)
	if err != nil {
		return h.storeError(c, "adjust quantity", err)
	}
	if !found {
		return Error(c, fiber.StatusNotFound, "item not found")
	}

	return Success(c, fiber.Map{"name": name, "qty": qty})
}

// ClearList erases the owner's list
func (h *Handler) ClearList(c *fiber.Ctx) error {
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	if err := h.store.Clear(c.UserContext(), owner); err != nil {
		return h.storeError(c, "clear list", err)
	}
	return Success(c, fiber.Map{"message": "list cleared"})
}
