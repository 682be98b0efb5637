package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/voicelist/internal/middleware"
	"github.com/foxxcyber/voicelist/internal/models"
	"github.com/foxxcyber/voicelist/internal/services"
)

// getOwner extracts the list owner from context using the middleware helper
func getOwner(c *fiber.Ctx) (string, error) {
	owner := middleware.GetOwner(c)
	if owner == "" {
		return "", errors.New("owner not authenticated")
	}
	return owner, nil
}

func (h *Handler) parseCommand(c *fiber.Ctx) (models.Command, error) {
	owner, err := getOwner(c)
	if err != nil {
		return models.Command{}, fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	var req models.CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return models.Command{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Transcript) == "" {
		return models.Command{}, fiber.NewError(fiber.StatusBadRequest, "transcript is required")
	}

	return models.Command{Owner: owner, Transcript: req.Transcript, Lang: req.Lang}, nil
}

// Interpret handles POST /api/commands: a final transcript from speech capture
func (h *Handler) Interpret(c *fiber.Ctx) error {
	cmd, err := h.parseCommand(c)
	if err != nil {
		return err
	}

	res, err := h.dispatcher.Dispatch(c.UserContext(), cmd)
	if err != nil {
		return h.dispatchError(c, err)
	}
	return Success(c, res)
}

// ParseLocal handles POST /api/commands/parse: typed input handled by the local
// parser only
func (h *Handler) ParseLocal(c *fiber.Ctx) error {
	cmd, err := h.parseCommand(c)
	if err != nil {
		return err
	}

	res, err := h.dispatcher.DispatchLocal(c.UserContext(), cmd)
	if err != nil {
		return h.dispatchError(c, err)
	}
	return Success(c, res)
}

func (h *Handler) dispatchError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrDispatchBusy) {
		return Error(c, fiber.StatusConflict, "another command is still running for this list")
	}
	return h.storeError(c, "interpret command", err)
}
