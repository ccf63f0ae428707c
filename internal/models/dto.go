package models

import "time"

type CreateCandidateRequest struct {
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type UpdateCandidateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Active Hired Rejected"`
}

type CreateReferenceRequest struct {
	RefereeName  string `json:"referee_name" validate:"required"`
	RefereeEmail string `json:"referee_email" validate:"required,email"`
	Relationship string `json:"relationship" validate:"required"`
}

type CreateReferenceResponse struct {
	Reference Reference `json:"reference"`
	SurveyURL string    `json:"survey_url"`
}

// CandidateSummary is one row of the candidate list view.
type CandidateSummary struct {
	Candidate
	ReferenceCount int `json:"reference_count"`
	CompletedCount int `json:"completed_count"`
}

type CandidateDetailResponse struct {
	Candidate  Candidate         `json:"candidate"`
	References []Reference       `json:"references"`
	Analysis   *AIAnalysisResult `json:"analysis,omitempty"`
	CanAnalyze bool              `json:"can_analyze"`
}

type SurveyAnswerInput struct {
	QuestionID string  `json:"question_id" validate:"required"`
	Rating     *int    `json:"rating,omitempty"`
	Text       *string `json:"text,omitempty"`
}

type SurveySubmitRequest struct {
	Answers []SurveyAnswerInput `json:"answers" validate:"required,dive"`
}

type AnalysisResponse struct {
	Candidate Candidate        `json:"candidate"`
	Analysis  AIAnalysisResult `json:"analysis"`
}

type ActivityEntry struct {
	ReferenceID   string          `json:"reference_id"`
	CandidateName string          `json:"candidate_name"`
	RefereeName   string          `json:"referee_name"`
	Status        ReferenceStatus `json:"status"`
	SentDate      time.Time       `json:"sent_date"`
}

type DashboardStats struct {
	ActiveCandidates    int             `json:"active_candidates"`
	PendingReferences   int             `json:"pending_references"`
	CompletedReferences int             `json:"completed_references"`
	AverageAIScore      *float64        `json:"average_ai_score,omitempty"`
	RecentActivity      []ActivityEntry `json:"recent_activity"`
}
