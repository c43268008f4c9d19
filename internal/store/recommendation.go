package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/riceguard/apiserver/types"
)

// RecommendationRepository handles persistence for remediation guidance.
type RecommendationRepository struct {
	db *sql.DB
}

func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) Get(ctx context.Context, key types.DiseaseLabel) (types.RecommendationEntry, error) {
	const query = `
		SELECT disease_key, title, steps, version, updated_at
		FROM recommendations
		WHERE disease_key = $1`
	var entry types.RecommendationEntry
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&entry.DiseaseKey,
		&entry.Title,
		pq.Array(&entry.Steps),
		&entry.Version,
		&entry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.RecommendationEntry{}, ErrNotFound
		}
		return types.RecommendationEntry{}, err
	}
	return entry, nil
}

// InsertIfAbsent stores an entry only when its disease key is not present
// yet. ON CONFLICT DO NOTHING keeps the operation idempotent and atomic,
// so concurrent seeding from multiple instances cannot duplicate or
// overwrite an entry. Returns true when a row was inserted.
func (r *RecommendationRepository) InsertIfAbsent(ctx context.Context, entry types.RecommendationEntry) (bool, error) {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO recommendations (disease_key, title, steps, version, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (disease_key) DO NOTHING`
	result, err := r.db.ExecContext(
		ctx,
		query,
		entry.DiseaseKey,
		entry.Title,
		pq.Array(entry.Steps),
		entry.Version,
		entry.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
