package handlers

import (
	"github.com/gofiber/fiber/v2"

	"refcheck/internal/store"
)

type DashboardHandler struct {
	store *store.Store
}

func NewDashboardHandler(domainStore *store.Store) *DashboardHandler {
	return &DashboardHandler{store: domainStore}
}

// HandleStats handles GET /dashboard
func (h *DashboardHandler) HandleStats(c *fiber.Ctx) error {
	return c.JSON(h.store.Stats())
}
