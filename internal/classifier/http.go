package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClassifier calls an external model-serving endpoint. The request
// carries the raw image bytes; the endpoint answers with a JSON body
// {"label": "...", "confidence": 0.93}.
type HTTPClassifier struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPClassifier constructs a client for the given inference URL.
func NewHTTPClassifier(url string, timeout time.Duration) (*HTTPClassifier, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("classifier url is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClassifier{
		url:     url,
		client:  &http.Client{},
		timeout: timeout,
	}, nil
}

type inferenceResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classify posts the image and decodes the prediction. The configured
// timeout caps the call on top of any deadline already on ctx, so a hung
// model cannot hold a request indefinitely.
func (c *HTTPClassifier) Classify(ctx context.Context, image io.Reader) (string, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, image)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", 0, fmt.Errorf("decode inference response: %w", err)
	}
	return parsed.Label, parsed.Confidence, nil
}
