package survey

import "refcheck/internal/models"

// Question is one entry of the fixed survey bank.
type Question struct {
	ID   string              `json:"id"`
	Text string              `json:"text"`
	Type models.QuestionType `json:"type"`
	Min  int                 `json:"min,omitempty"`
	Max  int                 `json:"max,omitempty"`
}

const defaultRating = 5

// questionBank is the fixed ordered set every referee answers. Not
// user-configurable.
var questionBank = []Question{
	{
		ID:   "q1",
		Text: "How would you rate the candidate's overall performance?",
		Type: models.QuestionRating,
		Min:  1,
		Max:  10,
	},
	{
		ID:   "q2",
		Text: "How would you rate their reliability and punctuality?",
		Type: models.QuestionRating,
		Min:  1,
		Max:  10,
	},
	{
		ID:   "q3",
		Text: "Please describe the candidate's primary strengths.",
		Type: models.QuestionText,
	},
	{
		ID:   "q4",
		Text: "What is one area where the candidate could improve?",
		Type: models.QuestionText,
	},
	{
		ID:   "q5",
		Text: "Would you rehire this person given the chance?",
		Type: models.QuestionText,
	},
}

// Questions returns a copy of the bank in presentation order.
func Questions() []Question {
	out := make([]Question, len(questionBank))
	copy(out, questionBank)
	return out
}

func lookupQuestion(id string) (Question, bool) {
	for _, q := range questionBank {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
