package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/voicelist/internal/services"
)

// GetHistory returns the owner's purchase history
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	history, err := h.store.History(c.UserContext(), owner)
	if err != nil {
		return h.storeError(c, "load history", err)
	}
	return Success(c, history)
}

// GetRecommendations returns frequently bought items missing from the list
func (h *Handler) GetRecommendations(c *fiber.Ctx) error {
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	limit := c.QueryInt("limit", services.DefaultRecommendations)
	if limit < 1 || limit > 50 {
		limit = services.DefaultRecommendations
	}

	recs, err := h.store.Recommendations(c.UserContext(), owner, limit)
	if err != nil {
		return h.storeError(c, "load recommendations", err)
	}
	return SuccessWithMeta(c, recs, len(recs), limit, 0)
}

// ListSnapshots returns the archived copies of the owner's cleared lists
func (h *Handler) ListSnapshots(c *fiber.Ctx) error {
	if h.snapshots == nil {
		return Error(c, fiber.StatusServiceUnavailable, "snapshot storage is not configured")
	}
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	snaps, err := h.snapshots.ListSnapshots(c.UserContext(), owner)
	if err != nil {
		return h.storeError(c, "list snapshots", err)
	}
	return Success(c, snaps)
}

// GetSnapshot returns the items of one archived list
func (h *Handler) GetSnapshot(c *fiber.Ctx) error {
	if h.snapshots == nil {
		return Error(c, fiber.StatusServiceUnavailable, "snapshot storage is not configured")
	}
	owner, err := getOwner(c)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, err.Error())
	}

	items, err := h.snapshots.LoadSnapshot(c.UserContext(), owner, c.Params("key"))
	if err != nil {
		if errors.Is(err, services.ErrSnapshotNotFound) {
			return Error(c, fiber.StatusNotFound, "snapshot not found")
		}
		return h.storeError(c, "load snapshot", err)
	}
	return Success(c, h.store.Render(items))
}
