package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"refcheck/internal/services"
	"refcheck/internal/store"
)

type AnalysisHandler struct {
	analyzer services.AnalyzerService
}

func NewAnalysisHandler(analyzer services.AnalyzerService) *AnalysisHandler {
	return &AnalysisHandler{analyzer: analyzer}
}

// HandleAnalyze handles POST /candidates/:id/analysis. One best-effort
// attempt per request; every failure maps to its taxonomy class and leaves
// the candidate unchanged.
func (h *AnalysisHandler) HandleAnalyze(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	result, err := h.analyzer.AnalyzeCandidate(c.Context(), candidateID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrCandidateNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Candidate not found",
			})
		case errors.Is(err, services.ErrNoCompletedReferences):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Wait for at least one completed reference to generate insights",
			})
		case errors.Is(err, services.ErrMissingAPIKey):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "API Key missing. Please check configuration.",
			})
		case errors.Is(err, services.ErrMalformedResponse):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Analysis provider returned an invalid result. Please try again.",
			})
		case errors.Is(err, services.ErrProviderFailure):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Failed to generate analysis. Please try again.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate analysis",
		})
	}

	return c.JSON(result)
}
