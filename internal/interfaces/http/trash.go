package http

import (
	"net/http"

	"studytrack-backend/pkg/api"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	trash, err := h.service.ListTrash(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, trash)
}

// RestoreQuestion handles POST /trash/{trashId}/restore. An empty body is
// accepted and means a strict restore.
func (h *Handler) RestoreQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req api.RestoreRequest
	if r.ContentLength > 0 {
		if err := decodeAndValidate(r, &req); err != nil {
			handleServiceError(w, h.logger, err)
			return
		}
	}
	result, err := h.service.RestoreQuestion(r.Context(), userID, chi.URLParam(r, "trashId"), req.AllowPartial)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, result)
}

// PurgeTrashedQuestion handles DELETE /trash/{trashId}. A second purge of the
// same id responds 404.
func (h *Handler) PurgeTrashedQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := h.service.PurgeTrashedQuestion(r.Context(), userID, chi.URLParam(r, "trashId")); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusNoContent, nil)
}

// EmptyTrash handles DELETE /trash.
func (h *Handler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	purged, err := h.service.EmptyTrash(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, api.EmptyTrashResponse{Purged: purged})
}
