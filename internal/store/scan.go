package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/riceguard/apiserver/types"
)

// ScanRepository handles persistence for scans.
type ScanRepository struct {
	db *sql.DB
}

func NewScanRepository(db *sql.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

func (r *ScanRepository) GetByID(ctx context.Context, id int64) (types.Scan, error) {
	const query = `
		SELECT id, user_id, label, confidence, model_version, notes, image_path, created_at
		FROM scans
		WHERE id = $1`
	var scan types.Scan
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&scan.ID,
		&scan.UserID,
		&scan.Label,
		&scan.Confidence,
		&scan.ModelVersion,
		&scan.Notes,
		&scan.ImagePath,
		&scan.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Scan{}, ErrNotFound
		}
		return types.Scan{}, err
	}
	return scan, nil
}

// Create inserts a scan and returns it with the store-assigned identifier.
// CreatedAt must already be set by the caller (request-processing time).
func (r *ScanRepository) Create(ctx context.Context, scan types.Scan) (types.Scan, error) {
	const query = `
		INSERT INTO scans (user_id, label, confidence, model_version, notes, image_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		scan.UserID,
		scan.Label,
		scan.Confidence,
		scan.ModelVersion,
		scan.Notes,
		scan.ImagePath,
		scan.CreatedAt,
	).Scan(&scan.ID); err != nil {
		return types.Scan{}, err
	}
	return scan, nil
}

// ListByOwner returns every scan owned by userID, newest first.
func (r *ScanRepository) ListByOwner(ctx context.Context, userID int) ([]types.Scan, error) {
	const query = `
		SELECT id, user_id, label, confidence, model_version, notes, image_path, created_at
		FROM scans
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scans := make([]types.Scan, 0)
	for rows.Next() {
		var scan types.Scan
		if err := rows.Scan(
			&scan.ID,
			&scan.UserID,
			&scan.Label,
			&scan.Confidence,
			&scan.ModelVersion,
			&scan.Notes,
			&scan.ImagePath,
			&scan.CreatedAt,
		); err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scans, nil
}
