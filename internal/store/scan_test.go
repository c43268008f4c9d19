package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/riceguard/apiserver/types"
	"github.com/stretchr/testify/require"
)

func TestScanCreateAssignsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScanRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO scans").
		WithArgs(1, types.DiseaseBlast, 0.91, "1.0", "", "2026/08/abc.jpg", now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	scan, err := repo.Create(context.Background(), types.Scan{
		UserID:       1,
		Label:        types.DiseaseBlast,
		Confidence:   0.91,
		ModelVersion: "1.0",
		ImagePath:    "2026/08/abc.jpg",
		CreatedAt:    now,
	})
	require.NoError(t, err)
	require.Equal(t, int64(9), scan.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanListByOwnerOrdersNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScanRepository(db)

	newer := time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	columns := []string{"id", "user_id", "label", "confidence", "model_version", "notes", "image_path", "created_at"}
	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(2), 1, "healthy", 0.95, "1.0", "", "2026/08/b.jpg", newer).
			AddRow(int64(1), 1, "blast", 0.82, "1.0", "note", "2026/08/a.jpg", older))

	scans, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	require.Equal(t, int64(2), scans[0].ID)
	require.Equal(t, int64(1), scans[1].ID)
	require.True(t, scans[0].CreatedAt.After(scans[1].CreatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanListByOwnerEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScanRepository(db)

	columns := []string{"id", "user_id", "label", "confidence", "model_version", "notes", "image_path", "created_at"}
	mock.ExpectQuery("FROM scans").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(columns))

	scans, err := repo.ListByOwner(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, scans, "an empty result must serialize as [], not null")
	require.Empty(t, scans)
}
