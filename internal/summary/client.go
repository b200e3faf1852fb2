package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client submits daily summaries to the remote service. Submission is
// opportunistic; failures are reported, never retried here.
type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Submit PUTs the payload to the summary endpoint. Each attempt carries a
// fresh submission id so the remote side can deduplicate a retried PUT whose
// first delivery succeeded server-side.
func (c *Client) Submit(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Submission-ID", uuid.New().String())
	req.Header.Set("User-Agent", "HealthSync/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit summary: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("summary endpoint returned HTTP %d", resp.StatusCode)
	}
	return nil
}
