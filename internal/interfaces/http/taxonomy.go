package http

import (
	"net/http"

	"studytrack-backend/pkg/api"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	subjects, err := h.service.ListSubjects(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, subjects)
}

func (h *Handler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req api.CreateSubjectRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	subject, err := h.service.CreateSubject(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, subject)
}

func (h *Handler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req api.UpdateSubjectRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	subject, err := h.service.UpdateSubject(r.Context(), userID, chi.URLParam(r, "subjectId"), req.Name)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, subject)
}

// DeleteSubject responds 409 while questions still reference the subject.
func (h *Handler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := h.service.DeleteSubject(r.Context(), userID, chi.URLParam(r, "subjectId")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	topics, err := h.service.ListTopics(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, topics)
}

func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req api.CreateTopicRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	topic, err := h.service.CreateTopic(r.Context(), userID, req.Name)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusCreated, topic)
}

func (h *Handler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req api.UpdateTopicRequest
	if err := decodeAndValidate(r, &req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	topic, err := h.service.UpdateTopic(r.Context(), userID, chi.URLParam(r, "topicId"), req.Name)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, topic)
}

// DeleteTopic responds 409 while questions still reference the topic.
func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := h.service.DeleteTopic(r.Context(), userID, chi.URLParam(r, "topicId")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}
