package classifier

import (
	"context"
	"io"
	"math/rand"
	"sync"

	"github.com/riceguard/apiserver/types"
)

// StubClassifier returns a random label with a random confidence. It
// stands in for the real model during development, the same way the
// original backend shipped a simulated prediction.
type StubClassifier struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewStubClassifier seeds the stub; a fixed seed makes its sequence
// reproducible in tests.
func NewStubClassifier(seed int64) *StubClassifier {
	return &StubClassifier{rng: rand.New(rand.NewSource(seed))}
}

// Classify discards the image and fabricates a plausible prediction.
func (s *StubClassifier) Classify(ctx context.Context, image io.Reader) (string, float64, error) {
	_, _ = io.Copy(io.Discard, image)

	s.mu.Lock()
	defer s.mu.Unlock()
	labels := types.DiseaseLabels()
	label := labels[s.rng.Intn(len(labels))]
	confidence := 0.85 + s.rng.Float64()*0.14
	return label.String(), confidence, nil
}
