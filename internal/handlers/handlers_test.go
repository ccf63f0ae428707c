package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"refcheck/internal/handlers"
	"refcheck/internal/services"
	"refcheck/internal/store"
)

type fakeGemini struct {
	response string
	err      error
	calls    int
}

func (f *fakeGemini) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestApp(t *testing.T, gemini services.GeminiService) (*fiber.App, *store.Store) {
	t.Helper()

	domainStore, err := store.New(store.NewMemoryProvider())
	require.NoError(t, err)

	validate := validator.New()
	analyzer := services.NewAnalyzerService(domainStore, gemini, 30*time.Second)

	candidateHandler := handlers.NewCandidateHandler(domainStore, validate)
	referenceHandler := handlers.NewReferenceHandler(domainStore, validate)
	surveyHandler := handlers.NewSurveyHandler(domainStore, validate)
	analysisHandler := handlers.NewAnalysisHandler(analyzer)
	dashboardHandler := handlers.NewDashboardHandler(domainStore)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Get("/dashboard", dashboardHandler.HandleStats)
	api.Get("/candidates", candidateHandler.HandleList)
	api.Post("/candidates", candidateHandler.HandleCreate)
	api.Get("/candidates/:id", candidateHandler.HandleDetail)
	api.Patch("/candidates/:id/status", candidateHandler.HandleUpdateStatus)
	api.Post("/candidates/:id/references", referenceHandler.HandleCreate)
	api.Post("/candidates/:id/analysis", analysisHandler.HandleAnalyze)
	app.Get("/survey/:refID", surveyHandler.HandleGetSurvey)
	app.Post("/survey/:refID", surveyHandler.HandleSubmit)

	return app, domainStore
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp, decoded
}

func surveyAnswers() map[string]interface{} {
	return map[string]interface{}{
		"answers": []map[string]interface{}{
			{"question_id": "q1", "rating": 8},
			{"question_id": "q2", "rating": 7},
			{"question_id": "q3", "text": "Great"},
			{"question_id": "q4", "text": "Timeliness"},
			{"question_id": "q5", "text": "Yes"},
		},
	}
}

const validAnalysisJSON = `{
	"summary": "Strong hire signal from the reference.",
	"strengths": ["Dependable"],
	"weaknesses": ["Needs delegation practice"],
	"discrepancies": "",
	"score": 84
}`

func TestReferenceCheckLifecycle(t *testing.T) {
	gemini := &fakeGemini{response: validAnalysisJSON}
	app, _ := newTestApp(t, gemini)

	// Add candidate
	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/candidates", map[string]string{
		"name":  "Ana Lee",
		"role":  "Engineer",
		"email": "a@x.com",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	candidateID := body["id"].(string)
	assert.Equal(t, "Active", body["status"])

	// Analysis is unavailable before any completed reference, and the
	// provider is never called.
	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/candidates/"+candidateID+"/analysis", nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, 0, gemini.calls)

	// Issue a reference request
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/v1/candidates/"+candidateID+"/references", map[string]string{
		"referee_name":  "Bo Kim",
		"referee_email": "bo@x.com",
		"relationship":  "Former Manager",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	reference := body["reference"].(map[string]interface{})
	referenceID := reference["id"].(string)
	assert.Equal(t, "PENDING", reference["status"])
	assert.Equal(t, "/survey/"+referenceID, body["survey_url"])

	// The public survey page serves the question bank
	resp, body = doJSON(t, app, fiber.MethodGet, "/survey/"+referenceID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Ana Lee", body["candidate_name"])
	assert.Equal(t, "Bo Kim", body["referee_name"])
	assert.Len(t, body["questions"], 5)

	// Submit the survey
	resp, body = doJSON(t, app, fiber.MethodPost, "/survey/"+referenceID, surveyAnswers())
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	submitted := body["reference"].(map[string]interface{})
	assert.Equal(t, "COMPLETED", submitted["status"])
	assert.Len(t, submitted["responses"], 5)

	// The link is single-use once completed
	resp, _ = doJSON(t, app, fiber.MethodGet, "/survey/"+referenceID, nil)
	require.Equal(t, fiber.StatusGone, resp.StatusCode)
	resp, _ = doJSON(t, app, fiber.MethodPost, "/survey/"+referenceID, surveyAnswers())
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Analysis is now available
	resp, body = doJSON(t, app, fiber.MethodPost, "/api/v1/candidates/"+candidateID+"/analysis", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, gemini.calls)
	analysis := body["analysis"].(map[string]interface{})
	assert.Equal(t, 84.0, analysis["score"])

	// The candidate detail folds the analysis in
	resp, body = doJSON(t, app, fiber.MethodGet, "/api/v1/candidates/"+candidateID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["can_analyze"])
	detailAnalysis := body["analysis"].(map[string]interface{})
	assert.Equal(t, 84.0, detailAnalysis["score"])
	candidate := body["candidate"].(map[string]interface{})
	assert.Equal(t, 84.0, candidate["ai_score"])
}

func TestCreateCandidateValidation(t *testing.T) {
	app, _ := newTestApp(t, &fakeGemini{})

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/candidates", map[string]string{
		"name": "No Role",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/candidates", map[string]string{
		"name":  "Bad Email",
		"role":  "Engineer",
		"email": "not-an-email",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateCandidateStatus(t *testing.T) {
	app, _ := newTestApp(t, &fakeGemini{})

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/candidates", map[string]string{
		"name":  "Ana Lee",
		"role":  "Engineer",
		"email": "a@x.com",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	candidateID := body["id"].(string)

	resp, body = doJSON(t, app, fiber.MethodPatch, "/api/v1/candidates/"+candidateID+"/status", map[string]string{
		"status": "Hired",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hired", body["status"])

	resp, _ = doJSON(t, app, fiber.MethodPatch, "/api/v1/candidates/"+candidateID+"/status", map[string]string{
		"status": "Fired",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPatch, "/api/v1/candidates/00000000-0000-0000-0000-000000000000/status", map[string]string{
		"status": "Hired",
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestReferenceForUnknownCandidate(t *testing.T) {
	app, _ := newTestApp(t, &fakeGemini{})

	resp, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/candidates/00000000-0000-0000-0000-000000000000/references", map[string]string{
		"referee_name":  "Bo Kim",
		"referee_email": "bo@x.com",
		"relationship":  "Mentor",
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSurveyLinkInvalid(t *testing.T) {
	app, _ := newTestApp(t, &fakeGemini{})

	resp, _ := doJSON(t, app, fiber.MethodGet, "/survey/not-a-uuid", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/survey/00000000-0000-0000-0000-000000000000", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAnalysisMalformedProviderResponse(t *testing.T) {
	gemini := &fakeGemini{response: "this is not json"}
	app, domainStore := newTestApp(t, gemini)

	resp, body := doJSON(t, app, fiber.MethodPost, "/api/v1/candidates", map[string]string{
		"name":  "Ana Lee",
		"role":  "Engineer",
		"email": "a@x.com",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	candidateID := body["id"].(string)

	resp, body = doJSON(t, app, fiber.MethodPost, "/api/v1/candidates/"+candidateID+"/references", map[string]string{
		"referee_name":  "Bo Kim",
		"referee_email": "bo@x.com",
		"relationship":  "Former Manager",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	referenceID := body["reference"].(map[string]interface{})["id"].(string)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/survey/"+referenceID, surveyAnswers())
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/candidates/"+candidateID+"/analysis", nil)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	// Candidate summary and score remain unchanged from before the call.
	candidates := domainStore.Candidates()
	require.Len(t, candidates, 1)
	assert.Nil(t, candidates[0].AISummary)
	assert.Nil(t, candidates[0].AIScore)
}

func TestDashboardStats(t *testing.T) {
	app, _ := newTestApp(t, &fakeGemini{})

	resp, body := doJSON(t, app, fiber.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, body["active_candidates"])
	assert.Equal(t, 0.0, body["pending_references"])

	resp, created := doJSON(t, app, fiber.MethodPost, "/api/v1/candidates", map[string]string{
		"name":  "Ana Lee",
		"role":  "Engineer",
		"email": "a@x.com",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	candidateID := created["id"].(string)

	resp, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/candidates/"+candidateID+"/references", map[string]string{
		"referee_name":  "Bo Kim",
		"referee_email": "bo@x.com",
		"relationship":  "Former Manager",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, fiber.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, body["active_candidates"])
	assert.Equal(t, 1.0, body["pending_references"])
	assert.Len(t, body["recent_activity"], 1)
}
