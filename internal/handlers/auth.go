package handlers

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/foxxcyber/voicelist/internal/middleware"
	"github.com/foxxcyber/voicelist/internal/models"
)

var ownerRegex = regexp.MustCompile(`^[a-zA-Z0-9._@-]{1,64}$`)

// IssueToken handles POST /api/auth/token. Without an API password tokens are
// only issued in development.
func (h *Handler) IssueToken(c *fiber.Ctx) error {
	var req models.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Owner = strings.TrimSpace(req.Owner)
	if !ownerRegex.MatchString(req.Owner) {
		return Error(c, fiber.StatusBadRequest, "owner must be 1-64 letters, digits or . _ @ -")
	}

	if h.passwordHash == nil {
		if !h.cfg.IsDevelopment() {
			return Error(c, fiber.StatusForbidden, "token issuance is disabled")
		}
	} else if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)); err != nil {
		return Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, expires, err := middleware.IssueToken(h.cfg, req.Owner, h.now())
	if err != nil {
		h.logger.Error("failed to sign token", zap.Error(err))
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return Success(c, models.TokenResponse{
		Token:     token,
		Owner:     req.Owner,
		ExpiresAt: expires,
	})
}
