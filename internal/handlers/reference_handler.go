package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"refcheck/internal/models"
	"refcheck/internal/store"
)

type ReferenceHandler struct {
	store    *store.Store
	validate *validator.Validate
}

func NewReferenceHandler(domainStore *store.Store, validate *validator.Validate) *ReferenceHandler {
	return &ReferenceHandler{
		store:    domainStore,
		validate: validate,
	}
}

// HandleCreate handles POST /candidates/:id/references. The generated
// reference ID is the shareable survey token, so it is a random v4 UUID.
func (h *ReferenceHandler) HandleCreate(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	var req models.CreateReferenceRequest
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

	reference := models.Reference{
		ID:           uuid.New(),
		CandidateID:  candidateID,
		RefereeName:  req.RefereeName,
		RefereeEmail: req.RefereeEmail,
		Relationship: req.Relationship,
		Status:       models.ReferencePending,
		SentDate:     time.Now().UTC(),
		Responses:    []models.SurveyResponse{},
	}

	if err := h.store.AddReference(reference); err != nil {
		if errors.Is(err, store.ErrCandidateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Candidate not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create reference request",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(models.CreateReferenceResponse{
		Reference: reference,
		SurveyURL: fmt.Sprintf("/survey/%s", reference.ID),
	})
}
