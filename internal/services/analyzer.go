package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"refcheck/internal/models"
	"refcheck/internal/store"
)

var (
	// ErrNoCompletedReferences gates the operation: with zero completed
	// references the analysis is unavailable, not merely failing.
	ErrNoCompletedReferences = errors.New("no completed references to analyze")

	// ErrMalformedResponse covers provider output violating the declared
	// schema: unparseable JSON, a missing required field, or an out-of-range
	// score.
	ErrMalformedResponse = errors.New("malformed analysis response")

	// ErrProviderFailure is an opaque network or remote error.
	ErrProviderFailure = errors.New("analysis provider failure")
)

// analysisSchema is the structured output contract declared on every call.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary":       {Type: genai.TypeString},
		"strengths":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"weaknesses":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"discrepancies": {Type: genai.TypeString},
		"score":         {Type: genai.TypeNumber, Description: "A score between 0 and 100"},
	},
	Required: []string{"summary", "strengths", "weaknesses", "score"},
}

type AnalyzerService interface {
	AnalyzeCandidate(ctx context.Context, candidateID uuid.UUID) (*models.AnalysisResponse, error)
}

type analyzerService struct {
	store         *store.Store
	geminiService GeminiService
	promptBuilder *PromptBuilder
	timeout       time.Duration
}

func NewAnalyzerService(domainStore *store.Store, geminiService GeminiService, timeout time.Duration) AnalyzerService {
	return &analyzerService{
		store:         domainStore,
		geminiService: geminiService,
		promptBuilder: NewPromptBuilder(),
		timeout:       timeout,
	}
}

// AnalyzeCandidate runs one best-effort analysis attempt: serialize the
// completed references, call the provider with the declared schema, validate
// the result, and overwrite the candidate's summary and score together. Any
// failure leaves the candidate record unmodified. No retries; the caller may
// re-invoke manually.
func (a *analyzerService) AnalyzeCandidate(ctx context.Context, candidateID uuid.UUID) (*models.AnalysisResponse, error) {
	candidate, err := a.store.CandidateByID(candidateID)
	if err != nil {
		return nil, err
	}

	completed := a.store.CompletedReferences(candidateID)
	if len(completed) == 0 {
		return nil, fmt.Errorf("%w: candidate %s", ErrNoCompletedReferences, candidateID)
	}

	prompt := a.promptBuilder.BuildReferenceAnalysisPrompt(candidate.Name, candidate.Role, completed)
	log.Printf("🤖 Analyzing candidate %s with %d completed references", candidateID, len(completed))

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.geminiService.GenerateStructured(callCtx, prompt, analysisSchema)
	if err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	result, err := parseAnalysisResult(raw)
	if err != nil {
		return nil, err
	}

	summary, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis result: %w", err)
	}

	// The candidate may have changed while the call was outstanding; the
	// store re-checks existence before applying.
	updated, err := a.store.SetCandidateAnalysis(candidateID, string(summary), result.Score)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Analysis completed for candidate %s (score %.0f)", candidateID, result.Score)
	return &models.AnalysisResponse{Candidate: updated, Analysis: *result}, nil
}

// parseAnalysisResult validates the provider's raw text against the declared
// shape and fails closed on anything structurally off.
func parseAnalysisResult(raw string) (*models.AIAnalysisResult, error) {
	var parsed struct {
		Summary       *string  `json:"summary"`
		Strengths     []string `json:"strengths"`
		Weaknesses    []string `json:"weaknesses"`
		Discrepancies string   `json:"discrepancies"`
		Score         *float64 `json:"score"`
	}

	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	switch {
	case parsed.Summary == nil || *parsed.Summary == "":
		return nil, fmt.Errorf("%w: missing summary", ErrMalformedResponse)
	case parsed.Strengths == nil:
		return nil, fmt.Errorf("%w: missing strengths", ErrMalformedResponse)
	case parsed.Weaknesses == nil:
		return nil, fmt.Errorf("%w: missing weaknesses", ErrMalformedResponse)
	case parsed.Score == nil:
		return nil, fmt.Errorf("%w: missing score", ErrMalformedResponse)
	case *parsed.Score < 0 || *parsed.Score > 100:
		return nil, fmt.Errorf("%w: score %.2f outside 0-100", ErrMalformedResponse, *parsed.Score)
	}

	return &models.AIAnalysisResult{
		Summary:       *parsed.Summary,
		Strengths:     parsed.Strengths,
		Weaknesses:    parsed.Weaknesses,
		Discrepancies: parsed.Discrepancies,
		Score:         *parsed.Score,
	}, nil
}

// extractJSON tries to extract JSON from text that might contain markdown or
// other formatting around the object.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
