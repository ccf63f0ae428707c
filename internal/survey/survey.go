package survey

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"refcheck/internal/models"
)

var (
	ErrAlreadySubmitted = errors.New("survey already submitted")
	ErrUnknownQuestion  = errors.New("unknown question")
	ErrWrongAnswerType  = errors.New("answer type does not match question")
	ErrRatingOutOfRange = errors.New("rating out of range")
	ErrMissingAnswer    = errors.New("answer required")
)

// Submitter is the store-side operation a completed survey feeds into.
type Submitter interface {
	SubmitReferenceResponse(referenceID uuid.UUID, responses []models.SurveyResponse) (models.Reference, error)
}

// Survey collects answers for one reference. Once submitted it refuses
// further mutation.
type Survey struct {
	ratings   map[string]int
	texts     map[string]string
	submitted bool
}

func New() *Survey {
	return &Survey{
		ratings: make(map[string]int),
		texts:   make(map[string]string),
	}
}

// AnswerRating records a rating answer. Ratings outside the question's scale
// are rejected rather than clamped.
func (s *Survey) AnswerRating(questionID string, value int) error {
	if s.submitted {
		return ErrAlreadySubmitted
	}

	q, ok := lookupQuestion(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if q.Type != models.QuestionRating {
		return fmt.Errorf("%w: %s expects text", ErrWrongAnswerType, questionID)
	}
	if value < q.Min || value > q.Max {
		return fmt.Errorf("%w: %s must be between %d and %d", ErrRatingOutOfRange, questionID, q.Min, q.Max)
	}

	s.ratings[questionID] = value
	return nil
}

// AnswerText records a free-text answer.
func (s *Survey) AnswerText(questionID, value string) error {
	if s.submitted {
		return ErrAlreadySubmitted
	}

	q, ok := lookupQuestion(questionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuestion, questionID)
	}
	if q.Type != models.QuestionText {
		return fmt.Errorf("%w: %s expects a rating", ErrWrongAnswerType, questionID)
	}

	s.texts[questionID] = value
	return nil
}

// Submit validates the collected answers, assembles one response per bank
// question in bank order, and hands them to the store. The instance becomes
// terminal only after the store accepted the submission, so a failed submit
// can be corrected and retried.
func (s *Survey) Submit(submitter Submitter, referenceID uuid.UUID) (models.Reference, error) {
	if s.submitted {
		return models.Reference{}, ErrAlreadySubmitted
	}

	responses, err := s.buildResponses()
	if err != nil {
		return models.Reference{}, err
	}

	reference, err := submitter.SubmitReferenceResponse(referenceID, responses)
	if err != nil {
		return models.Reference{}, err
	}

	s.submitted = true
	return reference, nil
}

func (s *Survey) buildResponses() ([]models.SurveyResponse, error) {
	responses := make([]models.SurveyResponse, 0, len(questionBank))

	for _, q := range questionBank {
		response := models.SurveyResponse{
			QuestionID:   q.ID,
			QuestionText: q.Text,
			Type:         q.Type,
		}

		switch q.Type {
		case models.QuestionRating:
			rating, ok := s.ratings[q.ID]
			if !ok {
				rating = defaultRating
			}
			response.Rating = rating
		case models.QuestionText:
			text, ok := s.texts[q.ID]
			if !ok || text == "" {
				return nil, fmt.Errorf("%w: %s", ErrMissingAnswer, q.ID)
			}
			response.Text = text
		}

		responses = append(responses, response)
	}

	return responses, nil
}
