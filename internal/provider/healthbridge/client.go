// Package healthbridge implements provider.HealthProvider against the
// on-device health bridge REST API.
package healthbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vitalstack/healthsync/internal/provider"
)

// Config holds the configuration for the bridge client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8090",
		Timeout: 15 * time.Second,
	}
}

// Client is the HTTP client for the health bridge API. It performs no
// retries of its own; rate-limit recovery belongs to the aggregation layer.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new bridge client
func NewClient(config Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		config: config,
	}
}

type initializeResponse struct {
	Initialized bool `json:"initialized"`
}

type permissionsRequest struct {
	Permissions []provider.Permission `json:"permissions"`
}

type permissionsResponse struct {
	Granted bool `json:"granted"`
}

type recordsResponse struct {
	Records []provider.Record `json:"records"`
}

// Initialize calls POST /initialize to prepare the on-device data store.
func (c *Client) Initialize(ctx context.Context) error {
	var resp initializeResponse
	if err := c.doRequest(ctx, http.MethodPost, "/initialize", nil, nil, &resp); err != nil {
		return err
	}
	if !resp.Initialized {
		return provider.ErrNotInitialized
	}
	return nil
}

// RequestPermissions calls POST /permissions for the given record types.
func (c *Client) RequestPermissions(ctx context.Context, perms []provider.Permission) error {
	req := permissionsRequest{Permissions: perms}

	var resp permissionsResponse
	if err := c.doRequest(ctx, http.MethodPost, "/permissions", nil, req, &resp); err != nil {
		return err
	}
	if !resp.Granted {
		return provider.ErrPermissionDenied
	}
	return nil
}

// ReadRecords calls GET /records with a between filter in ISO-8601.
func (c *Client) ReadRecords(ctx context.Context, rt provider.RecordType, tr provider.TimeRange) ([]provider.Record, error) {
	query := url.Values{}
	query.Set("recordType", string(rt))
	query.Set("operator", "between")
	query.Set("startTime", tr.Start.Format(time.RFC3339Nano))
	query.Set("endTime", tr.End.Format(time.RFC3339Nano))

	var resp recordsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/records", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}, result interface{}) error {
	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return c.classifyStatus(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// classifyStatus maps bridge error responses onto the provider error
// taxonomy so callers can distinguish rate limits from permission failures.
func (c *Client) classifyStatus(resp *http.Response) error {
	msg := readErrorMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", provider.ErrRateLimited, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", provider.ErrPermissionDenied, msg)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", provider.ErrNotInitialized, msg)
	default:
		return fmt.Errorf("bridge returned HTTP %d: %s", resp.StatusCode, msg)
	}
}

func readErrorMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return string(raw)
}
