package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/plant-keeper/sensorsim/internal/sensors"
	"github.com/plant-keeper/sensorsim/log"
)

const defaultTimeout = 10 * time.Second

// StatusError is returned when the sink answers with anything but 200 OK
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

type Option func(h *HTTP)

func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		h.client.Timeout = d
	}
}

// WithClient replaces the underlying client. Apply it before WithTimeout.
func WithClient(c *http.Client) Option {
	return func(h *HTTP) {
		h.client = c
	}
}

// HTTP posts readings as JSON to a remote endpoint
type HTTP struct {
	url    string
	client *http.Client
}

func NewHTTP(url string, opts ...Option) *HTTP {
	h := &HTTP{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *HTTP) Send(ctx context.Context, r sensors.Reading) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("can't encode reading: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("can't create request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	log.Debg.Printf("POST %s [%s]: %s", h.url, reqID, body)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("can't send reading: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	return nil
}
