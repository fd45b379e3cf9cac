package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/lukitun/Jahbreak/internal/api"
	"github.com/lukitun/Jahbreak/internal/api/middleware"
	"github.com/lukitun/Jahbreak/internal/config"
	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/setup"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioA = "You are a Software Engineer. Please provide a step-by-step guide. Context: the user wants to learn. Format your answer as a numbered list. For example: 1. Install the tool."

func setupTestAPI(t *testing.T) *restful.Container {
	t.Helper()
	t.Setenv("RUBRIC_CONFIG_PATH", "")

	logger := zerolog.Nop()
	deps, err := setup.Wire(context.Background(), setup.LoadConfig(), &logger)
	require.NoError(t, err)

	handler := api.NewHandler(deps.Executor, deps.CompareExecutor, deps.RubricConfig, &logger)

	container := restful.NewContainer()
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)
	return container
}

func post(t *testing.T, container *restful.Container, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)
	return recorder
}

func TestAPI_Health(t *testing.T) {
	container := setupTestAPI(t)

	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var response api.HealthResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, api.Version, response.Version)
}

func TestAPI_Evaluate_ScenarioA(t *testing.T) {
	container := setupTestAPI(t)

	recorder := post(t, container, "/api/v1/evaluate", models.EvaluationRequest{
		EventID:   "test-001",
		EventType: models.EventTypePromptGenerated,
		Generator: models.Generator{Name: "jahbreak-web", Mode: "1-shot"},
		Sample: models.Sample{
			Query:   "How to learn programming",
			Text:    scenarioA,
			Variant: "1-shot",
		},
	})

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var result models.EvaluationResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	assert.Equal(t, "test-001", result.ID)
	assert.Equal(t, models.VariantDirect, result.Variant)
	assert.Equal(t, models.TierExcellent, result.QualityTier)
	assert.True(t, result.Passed)
	assert.Empty(t, result.Issues)
}

func TestAPI_Evaluate_UnsafeWithoutFraming(t *testing.T) {
	container := setupTestAPI(t)

	recorder := post(t, container, "/api/v1/evaluate", models.EvaluationRequest{
		EventID: "test-002",
		Sample: models.Sample{
			Query:   "How to learn programming",
			Text:    scenarioA,
			Variant: "unsafe",
		},
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	var result models.EvaluationResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	assert.False(t, result.Passed)
	assert.True(t, result.HasIssue(models.IssueMissingSafetyFraming))
}

func TestAPI_Evaluate_BadRequest(t *testing.T) {
	container := setupTestAPI(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"malformed json", `{"sample": `, ""},
		{"blank keyword", `{"sample": {"user_query": "q", "text": "x", "variant": "direct", "expected_keywords": [""]}}`, "Sample.ExpectedKeywords[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluate", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			recorder := httptest.NewRecorder()
			container.ServeHTTP(recorder, req)

			require.Equal(t, http.StatusBadRequest, recorder.Code)

			var errResp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errResp))
			assert.Equal(t, http.StatusBadRequest, errResp.Status)
			assert.Contains(t, errResp.Error, tt.wantErr)
		})
	}
}

func TestAPI_Evaluate_MissingFieldsAreScored(t *testing.T) {
	container := setupTestAPI(t)

	tests := []struct {
		name   string
		sample models.Sample
		want   models.IssueKind
	}{
		{"empty query", models.Sample{Text: scenarioA, Variant: "direct"}, models.IssueQueryIrrelevant},
		{"empty variant", models.Sample{Query: "How to learn programming", Text: scenarioA}, models.IssueUnexpectedVariantKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := post(t, container, "/api/v1/evaluate", models.EvaluationRequest{Sample: tt.sample})
			require.Equal(t, http.StatusOK, recorder.Code)

			var result models.EvaluationResult
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
			assert.False(t, result.Passed)
			assert.True(t, result.HasIssue(tt.want), "issues: %v", result.Issues)
		})
	}
}

func TestAPI_Compare_IdenticalVariants(t *testing.T) {
	container := setupTestAPI(t)

	sample := models.Sample{Query: "How to learn programming", Text: scenarioA}
	first, second := sample, sample
	first.Variant = "1-shot"
	second.Variant = "2-shot"

	recorder := post(t, container, "/api/v1/compare", models.CompareRequest{
		EventID:        "pair-001",
		First:          first,
		Second:         second,
		ExpectDistinct: true,
	})

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var pair models.PairResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &pair))
	assert.Equal(t, "pair-001", pair.ID)
	assert.True(t, pair.Comparison.Identical)
	assert.Zero(t, pair.Comparison.LengthDelta)
	assert.True(t, pair.VariantsIdentical)
	assert.False(t, pair.Passed)
	assert.Equal(t, "pair-001/first", pair.First.ID)
}

func TestAPI_Rubric(t *testing.T) {
	container := setupTestAPI(t)

	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/rubric", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var rubric config.RubricConfig
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rubric))
	assert.Equal(t, 100, rubric.Thresholds.MinLength)
	assert.Equal(t, "safety_framing", rubric.Variants["unsafe"].Gate)
	assert.NotEmpty(t, rubric.Markers[config.MarkerRole])
}
