package http

import (
	"net/http"

	"studytrack-backend/internal/service/study"
	"studytrack-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler bundles the study service behind the HTTP surface.
type Handler struct {
	service study.Service
	logger  *zap.Logger
}

func NewHandler(service study.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// ListMockExams handles GET /mock-exams.
func (h *Handler) ListMockExams(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	exams, err := h.service.ListMockExams(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, exams)
}

// CreateMockExam handles POST /mock-exams.
func (h *Handler) CreateMockExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req api.CreateMockExamRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	exam, err := h.service.CreateMockExam(r.Context(), userID, req.Title)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, exam)
}

// UpdateMockExam handles PUT /mock-exams/{examId}.
func (h *Handler) UpdateMockExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req api.UpdateMockExamRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	exam, err := h.service.UpdateMockExam(r.Context(), userID, chi.URLParam(r, "examId"), req.Title)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, exam)
}

// DeleteMockExam handles DELETE /mock-exams/{examId}. The delete is refused
// with 409 while questions still reference the exam, unless ?force=true.
func (h *Handler) DeleteMockExam(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	force := r.URL.Query().Get("force") == "true"
	if err := h.service.DeleteMockExam(r.Context(), userID, chi.URLParam(r, "examId"), force); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// ExamQuestionCounts handles GET /mock-exams/counts.
func (h *Handler) ExamQuestionCounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	counts, err := h.service.ExamQuestionCounts(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, counts)
}
