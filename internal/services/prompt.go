package services

import (
	"fmt"
	"strings"

	"refcheck/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildReferenceAnalysisPrompt creates the prompt for the reference-check
// analysis from the candidate's completed references.
func (pb *PromptBuilder) BuildReferenceAnalysisPrompt(candidateName, role string, references []models.Reference) string {
	return fmt.Sprintf(`You are an expert HR consultant analyzing reference checks for a candidate named %s applying for the role of %s.

Analyze the following reference responses:
%s

Provide a structured analysis focusing on:
1. A concise executive summary.
2. Key strengths identified across references.
3. Potential weaknesses or areas for improvement.
4. Any discrepancies between referees (if they exist).
5. A calculated hiring recommendation score (0-100) based on the sentiment and ratings.`,
		candidateName, role, FormatReferenceBlocks(references))
}

// FormatReferenceBlocks serializes each reference's relationship tag and its
// question/answer pairs into one block per referee, joined in reference order
// with a visible separator. Output is deterministic for a given input.
func FormatReferenceBlocks(references []models.Reference) string {
	blocks := make([]string, 0, len(references))

	for i, ref := range references {
		var b strings.Builder
		fmt.Fprintf(&b, "Referee %d (%s):\n", i+1, ref.Relationship)
		for _, resp := range ref.Responses {
			fmt.Fprintf(&b, "- Q: %s\n  A: %s\n", resp.QuestionText, formatAnswer(resp))
		}
		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n---\n")
}

func formatAnswer(response models.SurveyResponse) string {
	if response.Type == models.QuestionRating {
		return fmt.Sprintf("%d", response.Rating)
	}
	return response.Text
}
