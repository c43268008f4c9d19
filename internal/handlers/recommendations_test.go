package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riceguard/apiserver/types"
	"github.com/stretchr/testify/require"
)

func TestGetRecommendation(t *testing.T) {
	env := newTestEnv(t, &fixedBackend{label: "healthy", confidence: 0.9})

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/blast", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entry types.RecommendationEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	require.Equal(t, types.DiseaseBlast, entry.DiseaseKey)
	require.Equal(t, "Rice Blast — Management", entry.Title)
	require.NotEmpty(t, entry.Steps)
}

func TestGetRecommendationInvalidKey(t *testing.T) {
	env := newTestEnv(t, &fixedBackend{label: "healthy", confidence: 0.9})

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/leaf_smut", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRecommendationIsPublic(t *testing.T) {
	env := newTestEnv(t, &fixedBackend{label: "healthy", confidence: 0.9})

	// No Authorization header: the catalog is readable without a token.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/healthy", nil)
	rec := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
