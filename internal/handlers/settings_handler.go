package handlers

import (
	"github.com/gofiber/fiber/v2"

	"refcheck/internal/store"
)

type SettingsHandler struct {
	store *store.Store
}

func NewSettingsHandler(domainStore *store.Store) *SettingsHandler {
	return &SettingsHandler{store: domainStore}
}

// HandleReset handles POST /settings/reset, wiping all candidates and
// references.
func (h *SettingsHandler) HandleReset(c *fiber.Ctx) error {
	if err := h.store.Reset(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset data",
		})
	}

	return c.JSON(fiber.Map{"message": "All data cleared"})
}
