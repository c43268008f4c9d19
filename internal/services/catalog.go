package services

import (
	"context"

	"github.com/riceguard/apiserver/types"
	"github.com/sirupsen/logrus"
)

// RecommendationRepository defines persistence operations for the
// remediation catalog.
type RecommendationRepository interface {
	Get(ctx context.Context, key types.DiseaseLabel) (types.RecommendationEntry, error)
	InsertIfAbsent(ctx context.Context, entry types.RecommendationEntry) (bool, error)
}

// CatalogService owns the static disease remediation catalog.
type CatalogService struct {
	repo RecommendationRepository
	log  *logrus.Logger
}

func NewCatalogService(repo RecommendationRepository, log *logrus.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

// defaultCatalog holds the seed content for every disease label.
var defaultCatalog = []types.RecommendationEntry{
	{
		DiseaseKey: types.DiseaseBrownSpot,
		Title:      "Brown Spot — Management",
		Steps: []string{
			"Remove severely infected leaves",
			"Ensure proper field drainage",
			"Apply balanced fertilizer (avoid excess nitrogen)",
		},
		Version: "1.0",
	},
	{
		DiseaseKey: types.DiseaseBlast,
		Title:      "Rice Blast — Management",
		Steps: []string{
			"Plant resistant varieties if available",
			"Avoid late planting",
			"Improve airflow; avoid dense planting",
		},
		Version: "1.0",
	},
	{
		DiseaseKey: types.DiseaseBlight,
		Title:      "Bacterial Leaf Blight — Management",
		Steps: []string{
			"Use clean seed; remove volunteer plants",
			"Improve field sanitation and water management",
			"Avoid high nitrogen during early growth",
		},
		Version: "1.0",
	},
	{
		DiseaseKey: types.DiseaseHealthy,
		Title:      "Healthy — No Action Needed",
		Steps: []string{
			"Maintain good field hygiene",
			"Monitor crop regularly",
		},
		Version: "1.0",
	},
}

// Seed inserts the default entry for every disease label that has none
// yet. Running it N times leaves the catalog exactly as one run would:
// existing entries, including their timestamps, are never touched. Safe
// under concurrent startup of multiple instances. Returns the number of
// entries actually inserted.
func (s *CatalogService) Seed(ctx context.Context) (int, error) {
	inserted := 0
	for _, entry := range defaultCatalog {
		added, err := s.repo.InsertIfAbsent(ctx, entry)
		if err != nil {
			return inserted, err
		}
		if added {
			inserted++
		}
	}
	s.log.WithField("inserted", inserted).Debug("recommendation catalog seeded")
	return inserted, nil
}

// Get returns the entry for a disease label, or store.ErrNotFound.
func (s *CatalogService) Get(ctx context.Context, key types.DiseaseLabel) (types.RecommendationEntry, error) {
	return s.repo.Get(ctx, key)
}
