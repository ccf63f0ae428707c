package models

import (
	"time"

	"github.com/google/uuid"
)

type ReferenceStatus string

const (
	ReferencePending   ReferenceStatus = "PENDING"
	ReferenceCompleted ReferenceStatus = "COMPLETED"
)

type QuestionType string

const (
	QuestionRating QuestionType = "rating"
	QuestionText   QuestionType = "text"
)

// Reference is one feedback request sent to a referee about one candidate.
// Its identifier doubles as the capability token for the public survey link.
type Reference struct {
	ID            uuid.UUID        `json:"id"`
	CandidateID   uuid.UUID        `json:"candidate_id"`
	RefereeName   string           `json:"referee_name"`
	RefereeEmail  string           `json:"referee_email"`
	Relationship  string           `json:"relationship"`
	Status        ReferenceStatus  `json:"status"`
	SentDate      time.Time        `json:"sent_date"`
	CompletedDate *time.Time       `json:"completed_date,omitempty"`
	Responses     []SurveyResponse `json:"responses"`
}

// SurveyResponse carries the question text as a denormalized copy so later
// edits to the question bank never rewrite already-submitted answers.
type SurveyResponse struct {
	QuestionID   string       `json:"question_id"`
	QuestionText string       `json:"question_text"`
	Type         QuestionType `json:"type"`
	Rating       int          `json:"rating,omitempty"`
	Text         string       `json:"text,omitempty"`
}
