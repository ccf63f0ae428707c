package models

import (
	"time"

	"github.com/google/uuid"
)

type CandidateStatus string

const (
	CandidateActive   CandidateStatus = "Active"
	CandidateHired    CandidateStatus = "Hired"
	CandidateRejected CandidateStatus = "Rejected"
)

type Candidate struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Role      string          `json:"role"`
	Email     string          `json:"email"`
	Status    CandidateStatus `json:"status"`
	AISummary *string         `json:"ai_summary,omitempty"`
	AIScore   *float64        `json:"ai_score,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
