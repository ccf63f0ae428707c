package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"refcheck/internal/models"
	"refcheck/internal/store"
	"refcheck/internal/survey"
)

type SurveyHandler struct {
	store    *store.Store
	validate *validator.Validate
}

func NewSurveyHandler(domainStore *store.Store, validate *validator.Validate) *SurveyHandler {
	return &SurveyHandler{
		store:    domainStore,
		validate: validate,
	}
}

// HandleGetSurvey handles GET /survey/:refID. The reference ID in the path is
// the only credential; an unresolvable ID reads as an invalid or expired
// link, and a completed reference no longer serves the form.
func (h *SurveyHandler) HandleGetSurvey(c *fiber.Ctx) error {
	referenceID, err := uuid.Parse(c.Params("refID"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Reference link invalid or expired",
		})
	}

	reference, err := h.store.ReferenceByID(referenceID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Reference link invalid or expired",
		})
	}

	candidate, err := h.store.CandidateByID(reference.CandidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate data missing",
		})
	}

	if reference.Status == models.ReferenceCompleted {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"error": "This reference has already been submitted",
		})
	}

	return c.JSON(fiber.Map{
		"candidate_name": candidate.Name,
		"role":           candidate.Role,
		"referee_name":   reference.RefereeName,
		"questions":      survey.Questions(),
	})
}

// HandleSubmit handles POST /survey/:refID
func (h *SurveyHandler) HandleSubmit(c *fiber.Ctx) error {
	referenceID, err := uuid.Parse(c.Params("refID"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Reference link invalid or expired",
		})
	}

	var req models.SurveySubmitRequest
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

	instance := survey.New()
	for _, answer := range req.Answers {
		switch {
		case answer.Rating != nil:
			err = instance.AnswerRating(answer.QuestionID, *answer.Rating)
		case answer.Text != nil:
			err = instance.AnswerText(answer.QuestionID, *answer.Text)
		}
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	reference, err := instance.Submit(h.store, referenceID)
	if err != nil {
		switch {
		case errors.Is(err, survey.ErrMissingAnswer):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		case errors.Is(err, store.ErrReferenceNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Reference link invalid or expired",
			})
		case errors.Is(err, store.ErrAlreadyCompleted):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "This reference has already been submitted",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to submit survey",
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Reference submitted successfully",
		"reference": reference,
	})
}
