// Package events publishes scan lifecycle notifications to a message
// broker. Publishing is best-effort: the scan pipeline never fails or
// retries because a broker is down.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/riceguard/apiserver/types"
)

// Backend defines the broker-agnostic publish operation.
type Backend interface {
	Publish(ctx context.Context, topic string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// ScanCreated is the payload emitted after a scan is persisted.
type ScanCreated struct {
	ScanID     int64              `json:"scanId"`
	UserID     int                `json:"userId"`
	Label      types.DiseaseLabel `json:"label"`
	Confidence float64            `json:"confidence"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// Publisher wraps a backend with a stable API and a fixed topic.
type Publisher struct {
	backend Backend
	topic   string
}

// NewPublisher constructs a Publisher for the provided backend.
func NewPublisher(backend Backend, topic string) *Publisher {
	return &Publisher{backend: backend, topic: topic}
}

// ScanCreated publishes a scan-created event.
func (p *Publisher) ScanCreated(ctx context.Context, event ScanCreated) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return p.backend.Publish(ctx, p.topic, data, map[string]string{
		"event": "scans.created",
		"label": event.Label.String(),
	})
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	return p.backend.Close()
}
