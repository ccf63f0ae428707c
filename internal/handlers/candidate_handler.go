package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"refcheck/internal/models"
	"refcheck/internal/store"
)

type CandidateHandler struct {
	store    *store.Store
	validate *validator.Validate
}

func NewCandidateHandler(domainStore *store.Store, validate *validator.Validate) *CandidateHandler {
	return &CandidateHandler{
		store:    domainStore,
		validate: validate,
	}
}

// HandleList handles GET /candidates
func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	candidates := h.store.Candidates()

	summaries := make([]models.CandidateSummary, 0, len(candidates))
	for _, candidate := range candidates {
		refs := h.store.ReferencesForCandidate(candidate.ID)
		completed := 0
		for _, ref := range refs {
			if ref.Status == models.ReferenceCompleted {
				completed++
			}
		}
		summaries = append(summaries, models.CandidateSummary{
			Candidate:      candidate,
			ReferenceCount: len(refs),
			CompletedCount: completed,
		})
	}

	return c.JSON(fiber.Map{"candidates": summaries})
}

// HandleCreate handles POST /candidates
func (h *CandidateHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateCandidateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	candidate := models.Candidate{
		ID:        uuid.New(),
		Name:      req.Name,
		Role:      req.Role,
		Email:     req.Email,
		Status:    models.CandidateActive,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.store.AddCandidate(candidate); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create candidate",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(candidate)
}

// HandleDetail handles GET /candidates/:id
func (h *CandidateHandler) HandleDetail(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	candidate, err := h.store.CandidateByID(candidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	references := h.store.ReferencesForCandidate(candidateID)
	if references == nil {
		references = []models.Reference{}
	}

	response := models.CandidateDetailResponse{
		Candidate:  candidate,
		References: references,
		CanAnalyze: len(h.store.CompletedReferences(candidateID)) > 0,
	}

	if candidate.AISummary != nil {
		var analysis models.AIAnalysisResult
		if err := json.Unmarshal([]byte(*candidate.AISummary), &analysis); err == nil {
			response.Analysis = &analysis
		}
	}

	return c.JSON(response)
}

// HandleUpdateStatus handles PATCH /candidates/:id/status
func (h *CandidateHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	var req models.UpdateCandidateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	candidate, err := h.store.CandidateByID(candidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	candidate.Status = models.CandidateStatus(req.Status)

	if err := h.store.UpdateCandidate(candidate); err != nil {
		if errors.Is(err, store.ErrCandidateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update candidate",
		})
	}

	return c.JSON(candidate)
}
