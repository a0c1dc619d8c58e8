package http

import (
	"net/http"

	"studytrack-backend/pkg/api"
)

func (h *Handler) GetStatsSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	summary, err := h.service.GetStatsSummary(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, summary)
}

func (h *Handler) GetStatsDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		api.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	detail, err := h.service.GetStatsDetail(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	api.Success(w, http.StatusOK, detail)
}

// CacheStats handles GET /debug/cache. Dev-only: mounted outside production.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.service.CacheStats())
}

// ClearCache handles DELETE /debug/cache. Dev-only.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache()
	api.Success(w, http.StatusNoContent, nil)
}
