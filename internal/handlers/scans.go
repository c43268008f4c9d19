package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/riceguard/apiserver/internal/classifier"
	"github.com/riceguard/apiserver/internal/services"
	"github.com/riceguard/apiserver/internal/storage"
	"github.com/riceguard/apiserver/types"
)

const (
	maxMultipartMemory = 32 << 20
	maxImageBytes      = 16 << 20
	formFieldFile      = "file"
	formFieldNotes     = "notes"
	formFieldModelVer  = "modelVersion"
)

// ScanHandler provides HTTP handlers for scan submission and retrieval.
type ScanHandler struct {
	scans *services.ScanService
}

// NewScanHandler constructs a handler with the provided service.
func NewScanHandler(scans *services.ScanService) *ScanHandler {
	return &ScanHandler{scans: scans}
}

// ScanRouter registers scan routes on the given router. Every route
// requires authentication.
func ScanRouter(r chi.Router, scans *services.ScanService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewScanHandler(scans)

	r.Use(authMiddleware)
	r.Post("/", handler.CreateScan)
	r.Get("/", handler.ListScans)
}

// ScanListResponse wraps the owner's scans, newest first.
type ScanListResponse struct {
	Items []types.Scan `json:"items"`
}

// CreateScan accepts a multipart leaf-image upload, classifies it, and
// records the result for the authenticated user.
func (h *ScanHandler) CreateScan(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	upload, notes, modelVersion, err := parseScanForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	scan, err := h.scans.Create(r.Context(), userID, upload, notes, modelVersion)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedMediaType):
			writeError(w, http.StatusUnsupportedMediaType, "unsupported image type")
		case errors.Is(err, classifier.ErrClassification):
			writeError(w, http.StatusBadGateway, "classification failed")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create scan")
		}
		return
	}

	writeJSON(w, http.StatusOK, scan)
}

// ListScans returns every scan owned by the authenticated user.
func (h *ScanHandler) ListScans(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := h.scans.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list scans")
		return
	}

	writeJSON(w, http.StatusOK, ScanListResponse{Items: items})
}

func parseScanForm(r *http.Request) (services.ScanUpload, string, string, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return services.ScanUpload{}, "", "", errors.New("invalid multipart form")
	}

	upload, err := parseImageFile(r.MultipartForm)
	if err != nil {
		return services.ScanUpload{}, "", "", err
	}

	notes := strings.TrimSpace(r.FormValue(formFieldNotes))
	modelVersion := strings.TrimSpace(r.FormValue(formFieldModelVer))
	return upload, notes, modelVersion, nil
}

func parseImageFile(form *multipart.Form) (services.ScanUpload, error) {
	if form == nil {
		return services.ScanUpload{}, errors.New("missing form data")
	}

	files := form.File[formFieldFile]
	if len(files) == 0 {
		return services.ScanUpload{}, errors.New("image file is required")
	}
	if len(files) > 1 {
		return services.ScanUpload{}, errors.New("only one image file is allowed")
	}

	fileHeader := files[0]
	file, err := fileHeader.Open()
	if err != nil {
		return services.ScanUpload{}, fmt.Errorf("failed to read image file: %w", err)
	}

	data, err := readFileLimited(file, maxImageBytes)
	_ = file.Close()
	if err != nil {
		return services.ScanUpload{}, err
	}

	return services.ScanUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	}, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
