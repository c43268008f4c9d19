package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/riceguard/apiserver/internal/services"
	"github.com/riceguard/apiserver/internal/store"
	"github.com/riceguard/apiserver/types"
)

// RecommendationHandler serves the static remediation catalog.
type RecommendationHandler struct {
	catalog *services.CatalogService
}

// NewRecommendationHandler constructs a handler with the provided service.
func NewRecommendationHandler(catalog *services.CatalogService) *RecommendationHandler {
	return &RecommendationHandler{catalog: catalog}
}

// RecommendationRouter registers recommendation routes on the given router.
func RecommendationRouter(r chi.Router, catalog *services.CatalogService) {
	handler := NewRecommendationHandler(catalog)

	r.Get("/{diseaseKey}", handler.GetRecommendation)
}

// GetRecommendation returns the remediation entry for one disease label.
func (h *RecommendationHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	key, err := types.ParseDiseaseLabel(chi.URLParam(r, "diseaseKey"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid disease key")
		return
	}

	entry, err := h.catalog.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "recommendation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch recommendation")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}
