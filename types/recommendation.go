package types

import "time"

// RecommendationEntry is the static remediation guidance for one disease.
// Entries are global, read-only to clients, and keyed by disease label.
type RecommendationEntry struct {
	DiseaseKey DiseaseLabel `json:"diseaseKey" db:"disease_key"`
	Title      string       `json:"title" db:"title"`
	Steps      []string     `json:"steps" db:"steps"`
	Version    string       `json:"version" db:"version"`
	UpdatedAt  time.Time    `json:"updatedAt" db:"updated_at"`
}
