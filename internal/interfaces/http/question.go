package http

import (
	"net/http"
	"strconv"

	"studytrack-backend/internal/domain"
	"studytrack-backend/internal/service/study"
	"studytrack-backend/pkg/api"
	appErrors "studytrack-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
)

// ListQuestions handles GET /questions with optional filter parameters:
// subjectId, topicId and mockExamId (repeatable), type, isLearned and
// minFailures. A repeated parameter given with an empty value filters on the
// empty set and matches nothing; omitting it leaves the dimension unfiltered.
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	filter, err := filterFromQuery(r)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	questions, err := h.service.ListQuestions(r.Context(), userID, filter)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, questions)
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	question, err := h.service.GetQuestion(r.Context(), userID, chi.URLParam(r, "questionId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, question)
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req api.CreateQuestionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	question, err := h.service.CreateQuestion(r.Context(), userID, study.CreateQuestionInput{
		SubjectID:   req.SubjectID,
		TopicID:     req.TopicID,
		Type:        domain.QuestionType(req.Type),
		Theory:      req.Theory,
		MockExamIDs: req.MockExamIDs,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, question)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req api.UpdateQuestionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	input := study.UpdateQuestionInput{
		SubjectID:   req.SubjectID,
		TopicID:     req.TopicID,
		Theory:      req.Theory,
		IsLearned:   req.IsLearned,
		MockExamIDs: req.MockExamIDs,
	}
	if req.Type != nil {
		qt := domain.QuestionType(*req.Type)
		input.Type = &qt
	}
	question, err := h.service.UpdateQuestion(r.Context(), userID, chi.URLParam(r, "questionId"), input)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, question)
}

// DeleteQuestion handles DELETE /questions/{questionId}: the question moves
// to trash and the snapshot is returned.
func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	snapshot, err := h.service.DeleteQuestion(r.Context(), userID, chi.URLParam(r, "questionId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, snapshot)
}

// IncrementFailures handles POST /questions/{questionId}/failures.
func (h *Handler) IncrementFailures(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	question, err := h.service.IncrementFailures(r.Context(), userID, chi.URLParam(r, "questionId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, question)
}

// SetLearned handles PATCH /questions/{questionId}/learned.
func (h *Handler) SetLearned(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req api.SetLearnedRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	question, err := h.service.SetLearned(r.Context(), userID, chi.URLParam(r, "questionId"), req.IsLearned)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, question)
}

func filterFromQuery(r *http.Request) (domain.QuestionFilter, error) {
	q := r.URL.Query()
	var filter domain.QuestionFilter

	if values, ok := q["subjectId"]; ok {
		filter.SubjectIDs = nonEmpty(values)
	}
	if values, ok := q["topicId"]; ok {
		filter.TopicIDs = nonEmpty(values)
	}
	if values, ok := q["mockExamId"]; ok {
		filter.MockExamIDs = nonEmpty(values)
	}
	if v := q.Get("type"); v != "" {
		qt := domain.QuestionType(v)
		if !qt.IsValid() {
			return domain.QuestionFilter{}, appErrors.NewValidation("type must be 'error' or 'doubt'")
		}
		filter.Type = &qt
	}
	if v := q.Get("isLearned"); v != "" {
		learned, err := strconv.ParseBool(v)
		if err != nil {
			return domain.QuestionFilter{}, appErrors.NewValidation("isLearned must be a boolean")
		}
		filter.IsLearned = &learned
	}
	if v := q.Get("minFailures"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return domain.QuestionFilter{}, appErrors.NewValidation("minFailures must be a non-negative integer")
		}
		filter.MinFailures = &n
	}
	return filter, nil
}

// nonEmpty keeps the slice non-nil so "parameter present with no usable
// value" stays distinguishable from "parameter absent".
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
