package classifier

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/riceguard/apiserver/types"
)

// ErrClassification is returned when the external classifier fails or
// produces output outside the disease-label enumeration. The gateway
// never coerces an unknown label to a default: fabricating a "healthy"
// diagnosis could mask diseased crops.
var ErrClassification = errors.New("classification failed")

// Result is the normalized classifier output.
type Result struct {
	Label      types.DiseaseLabel
	Confidence float64
}

// Classifier is an opaque image classifier backend.
type Classifier interface {
	Classify(ctx context.Context, image io.Reader) (label string, confidence float64, err error)
}

// Gateway adapts a classifier backend, validating its output against the
// closed label set and clamping confidence into [0, 1]. A Gateway is
// constructed once per process and injected where needed; there is no
// global model cache.
type Gateway struct {
	backend Classifier
}

func NewGateway(backend Classifier) *Gateway {
	return &Gateway{backend: backend}
}

// Classify runs the backend and normalizes its output. The backend call
// inherits ctx, so a caller-supplied deadline bounds a slow or hung model.
func (g *Gateway) Classify(ctx context.Context, image io.Reader) (Result, error) {
	rawLabel, confidence, err := g.backend.Classify(ctx, image)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	label, err := types.ParseDiseaseLabel(rawLabel)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	if confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	return Result{Label: label, Confidence: confidence}, nil
}
