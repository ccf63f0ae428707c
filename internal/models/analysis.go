package models

// AIAnalysisResult is the structured output the analysis provider must return.
// It is not persisted on its own; on success it is folded into the candidate
// record as serialized summary plus score.
type AIAnalysisResult struct {
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Discrepancies string   `json:"discrepancies,omitempty"`
	Score         float64  `json:"score"`
}
