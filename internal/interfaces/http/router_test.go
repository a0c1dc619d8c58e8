package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"studytrack-backend/internal/cache"
	"studytrack-backend/internal/config"
	"studytrack-backend/internal/repository/mocks"
	"studytrack-backend/internal/service/study"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeVerifier resolves tokens from a fixed table.
type fakeVerifier struct {
	tokens map[string]string
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	if userID, ok := f.tokens[token]; ok {
		return userID, nil
	}
	return "", errors.New("invalid token")
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	logger := zap.NewNop()
	c := cache.New(logger)
	svc := study.NewService(mocks.NewMockRepository(), c, logger)
	verifier := &fakeVerifier{tokens: map[string]string{"token-1": "user-1"}}
	cfg := config.Config{Environment: "test", AllowedOrigins: []string{"*"}}
	return NewRouter(cfg, svc, verifier, c, logger)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthentication(t *testing.T) {
	router := newTestRouter(t)

	t.Run("missing token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/subjects", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/subjects", "bogus", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/subjects", "token-1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestQuestionLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	created := func(t *testing.T, path string, body interface{}) map[string]interface{} {
		t.Helper()
		rec := doJSON(t, router, http.MethodPost, path, "token-1", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	subject := created(t, "/api/v1/subjects", map[string]string{"name": "Anatomy"})
	topic := created(t, "/api/v1/topics", map[string]string{"name": "Heart"})
	exam := created(t, "/api/v1/mock-exams", map[string]string{"title": "Exam1"})

	question := created(t, "/api/v1/questions", map[string]interface{}{
		"subjectId":   subject["id"],
		"topicId":     topic["id"],
		"type":        "error",
		"theory":      "aortic valve",
		"mockExamIds": []string{exam["id"].(string)},
	})
	questionID := question["id"].(string)

	t.Run("get question", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/questions/"+questionID, "token-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "aortic valve", got["theory"])
	})

	t.Run("validation error", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/questions", "token-1", map[string]interface{}{
			"subjectId": subject["id"],
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("exam delete conflict then force", func(t *testing.T) {
		examID := exam["id"].(string)
		rec := doJSON(t, router, http.MethodDelete, "/api/v1/mock-exams/"+examID, "token-1", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = doJSON(t, router, http.MethodDelete, "/api/v1/mock-exams/"+examID+"?force=true", "token-1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("delete moves to trash and purge twice yields 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, "/api/v1/questions/"+questionID, "token-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var snapshot map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
		trashID := snapshot["id"].(string)
		assert.Equal(t, questionID, snapshot["originalId"])

		rec = doJSON(t, router, http.MethodDelete, "/api/v1/trash/"+trashID, "token-1", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = doJSON(t, router, http.MethodDelete, "/api/v1/trash/"+trashID, "token-1", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListQuestionsFilterParams(t *testing.T) {
	router := newTestRouter(t)

	mkJSON := func(t *testing.T, path string, body interface{}) map[string]interface{} {
		t.Helper()
		rec := doJSON(t, router, http.MethodPost, path, "token-1", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	subject := mkJSON(t, "/api/v1/subjects", map[string]string{"name": "Anatomy"})
	topic := mkJSON(t, "/api/v1/topics", map[string]string{"name": "Heart"})
	exam := mkJSON(t, "/api/v1/mock-exams", map[string]string{"title": "Exam1"})
	mkJSON(t, "/api/v1/questions", map[string]interface{}{
		"subjectId":   subject["id"],
		"topicId":     topic["id"],
		"type":        "error",
		"mockExamIds": []string{exam["id"].(string)},
	})

	list := func(t *testing.T, query string) []interface{} {
		t.Helper()
		rec := doJSON(t, router, http.MethodGet, "/api/v1/questions"+query, "token-1", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out []interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}

	assert.Len(t, list(t, ""), 1)
	assert.Len(t, list(t, fmt.Sprintf("?mockExamId=%s", exam["id"])), 1)
	// Present-but-empty parameter filters on the empty set.
	assert.Empty(t, list(t, "?mockExamId="))
	assert.Empty(t, list(t, "?type=doubt"))

	rec := doJSON(t, router, http.MethodGet, "/api/v1/questions?minFailures=x", "token-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDebugCacheEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/debug/cache", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Contains(t, stats, "hits")

	rec = doJSON(t, router, http.MethodDelete, "/debug/cache", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDebugEndpointsHiddenInProduction(t *testing.T) {
	logger := zap.NewNop()
	c := cache.New(logger)
	svc := study.NewService(mocks.NewMockRepository(), c, logger)
	verifier := &fakeVerifier{tokens: map[string]string{}}
	cfg := config.Config{Environment: "production", AllowedOrigins: []string{"*"}}
	router := NewRouter(cfg, svc, verifier, c, logger)

	rec := doJSON(t, router, http.MethodGet, "/debug/cache", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
