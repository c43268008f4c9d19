package types

import "time"

// Scan is one classified leaf image owned by a single user. Scans are
// immutable after insert; a scan is visible only to its owner.
type Scan struct {
	// ID is the store-assigned identifier of the scan.
	ID int64 `json:"id" db:"id"`

	// UserID is the identifier of the owning user. It never changes.
	UserID int `json:"userId" db:"user_id"`

	// Label is the classification outcome for the image.
	Label DiseaseLabel `json:"label" db:"label"`

	// Confidence is the classifier's score for the label, in [0, 1].
	Confidence float64 `json:"confidence" db:"confidence"`

	// ModelVersion records which model produced the label.
	ModelVersion string `json:"modelVersion" db:"model_version"`

	// Notes is optional free text supplied by the user at submission.
	Notes string `json:"notes,omitempty" db:"notes"`

	// ImagePath is the stored location of the uploaded image, relative to
	// the upload root (e.g. "2026/08/2f9d....jpg").
	ImagePath string `json:"imageUrl,omitempty" db:"image_path"`

	// CreatedAt is the server-assigned UTC insert timestamp.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
