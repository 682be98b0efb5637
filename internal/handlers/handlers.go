package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/foxxcyber/voicelist/internal/config"
	"github.com/foxxcyber/voicelist/internal/logging"
	"github.com/foxxcyber/voicelist/internal/models"
	"github.com/foxxcyber/voicelist/internal/services"
)

// SnapshotStore lists and reads archived lists
type SnapshotStore interface {
	ListSnapshots(ctx context.Context, owner string) ([]models.Snapshot, error)
	LoadSnapshot(ctx context.Context, owner, key string) ([]models.ListItem, error)
}

// Handler holds all handler dependencies
type Handler struct {
	cfg        *config.Config
	store      *services.ListStore
	dispatcher *services.Dispatcher
	searcher   services.ProductSearcher
	snapshots  SnapshotStore
	logger     *zap.Logger

	passwordHash []byte
	now          func() time.Time
}

// New creates a new Handler instance. The API password is hashed once here and
// compared with bcrypt on every token request.
func New(cfg *config.Config, store *services.ListStore, dispatcher *services.Dispatcher, searcher services.ProductSearcher, logger *zap.Logger) (*Handler, error) {
	h := &Handler{
		cfg:        cfg,
		store:      store,
		dispatcher: dispatcher,
		searcher:   searcher,
		logger:     logging.OrNop(logger),
		now:        time.Now,
	}

	if cfg.APIPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.APIPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h.passwordHash = hash
	}
	return h, nil
}

// SetSnapshots enables the snapshot endpoints
func (h *Handler) SetSnapshots(s SnapshotStore) {
	h.snapshots = s
}

// ErrorHandler is a custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Default to 500
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	// Check if it's a Fiber error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// APIResponse is a standard API response structure
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Success returns a successful response
func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a successful response with pagination
func SuccessWithMeta(c *fiber.Ctx, data interface{}, total, limit, offset int) error {
	return c.JSON(APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Error returns an error response
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(APIResponse{
		Success: false,
		Error:   message,
	})
}

// storeError logs a persistence failure and answers 500
func (h *Handler) storeError(c *fiber.Ctx, op string, err error) error {
	h.logger.Error("list store failure",
		zap.String("op", op),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return Error(c, fiber.StatusInternalServerError, "failed to "+op)
}
