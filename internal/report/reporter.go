// Package report delivers finished-session result documents to an external
// sink over HTTP. Delivery is best effort; the quiz never waits on it.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"eitango-quiz-service/internal/domain"
)

// Client posts result documents as JSON to a configured endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// New builds a reporter for the given endpoint URL.
func New(url string) *Client {
	return &Client{url: url, httpClient: &http.Client{}}
}

// Send posts the report. The sink only needs to accept it; any non-2xx
// status is treated as a delivery failure.
func (c *Client) Send(ctx context.Context, r domain.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("result sink returned %s", resp.Status)
	}
	return nil
}
