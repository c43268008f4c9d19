package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/riceguard/apiserver/internal/classifier"
	"github.com/riceguard/apiserver/internal/events"
	"github.com/riceguard/apiserver/internal/storage"
	"github.com/riceguard/apiserver/types"
	"github.com/sirupsen/logrus"
)

// ScanRepository defines persistence operations for scans.
type ScanRepository interface {
	Create(ctx context.Context, scan types.Scan) (types.Scan, error)
	ListByOwner(ctx context.Context, userID int) ([]types.Scan, error)
}

// ScanUpload is the in-memory image received from the HTTP boundary.
type ScanUpload struct {
	Filename string
	Data     []byte
}

// ScanService orchestrates the scan-submission pipeline: persist the
// image, classify it, record the result, notify.
type ScanService struct {
	repo                ScanRepository
	uploads             *storage.UploadStore
	gateway             *classifier.Gateway
	publisher           *events.Publisher
	log                 *logrus.Logger
	defaultModelVersion string
}

// NewScanService wires the pipeline. publisher may be nil when no broker
// is configured.
func NewScanService(
	repo ScanRepository,
	uploads *storage.UploadStore,
	gateway *classifier.Gateway,
	publisher *events.Publisher,
	log *logrus.Logger,
	defaultModelVersion string,
) *ScanService {
	return &ScanService{
		repo:                repo,
		uploads:             uploads,
		gateway:             gateway,
		publisher:           publisher,
		log:                 log,
		defaultModelVersion: defaultModelVersion,
	}
}

// Create runs the pipeline for one upload. A failure at any step aborts
// the whole operation: no scan record is written without a stored image
// and a valid classification. A stored image left behind by a late
// failure is tolerated; it is addressed by a random name and cheap to
// keep.
func (s *ScanService) Create(ctx context.Context, userID int, upload ScanUpload, notes, modelVersion string) (types.Scan, error) {
	key, err := s.uploads.Save(ctx, upload.Filename, bytes.NewReader(upload.Data), int64(len(upload.Data)))
	if err != nil {
		return types.Scan{}, err
	}

	result, err := s.gateway.Classify(ctx, bytes.NewReader(upload.Data))
	if err != nil {
		return types.Scan{}, err
	}

	if strings.TrimSpace(modelVersion) == "" {
		modelVersion = s.defaultModelVersion
	}

	scan, err := s.repo.Create(ctx, types.Scan{
		UserID:       userID,
		Label:        result.Label,
		Confidence:   result.Confidence,
		ModelVersion: modelVersion,
		Notes:        strings.TrimSpace(notes),
		ImagePath:    key,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return types.Scan{}, err
	}

	s.notify(ctx, scan)
	return scan, nil
}

// List returns the caller's scans, newest first. Ownership scoping
// happens in the query; no other user's scans can appear.
func (s *ScanService) List(ctx context.Context, userID int) ([]types.Scan, error) {
	return s.repo.ListByOwner(ctx, userID)
}

func (s *ScanService) notify(ctx context.Context, scan types.Scan) {
	if s.publisher == nil {
		return
	}
	_, err := s.publisher.ScanCreated(ctx, events.ScanCreated{
		ScanID:     scan.ID,
		UserID:     scan.UserID,
		Label:      scan.Label,
		Confidence: scan.Confidence,
		CreatedAt:  scan.CreatedAt,
	})
	if err != nil {
		s.log.WithError(err).WithField("scan_id", scan.ID).Warn("failed to publish scan event")
	}
}
