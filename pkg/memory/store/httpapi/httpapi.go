// Package httpapi implements the remote store client against the reverie
// memory service. Transport faults are returned as plain errors; callers
// (the reconcile engine and turn controller) decide whether a failure is
// a miss or a best-effort save to ignore.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/reveriegames/reverie/pkg/memory"
)

const defaultTimeout = 15 * time.Second

// loadResponse mirrors the memory service's load payload.
type loadResponse struct {
	Status string         `json:"status"`
	Record *memory.Record `json:"record,omitempty"`
}

// Client implements store.Remote over HTTP.
type Client struct {
	target string
	http   *http.Client
}

// NewClient creates a remote store client for the given service URL
// (scheme + host + port, e.g. "http://localhost:8090").
func NewClient(target string) *Client {
	return &Client{
		target: target,
		http:   &http.Client{Timeout: defaultTimeout},
	}
}

// Load fetches the record for a session.
func (c *Client) Load(ctx context.Context, sessionID string) (*memory.Record, bool, error) {
	endpoint := c.target + "/v1/memory/" + url.PathEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating load request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("loading session %s: %w", sessionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("memory service returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload loadResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("parsing load response: %w", err)
	}

	if payload.Status != "loaded" || payload.Record == nil {
		return nil, false, nil
	}

	return payload.Record, true, nil
}

// Save persists the record.
func (c *Client) Save(ctx context.Context, record *memory.Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.target+"/v1/memory", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("saving session %s: %w", record.SessionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("memory service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// Delete removes the session's record.
func (c *Client) Delete(ctx context.Context, sessionID string) error {
	endpoint := c.target + "/v1/memory/" + url.PathEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating delete request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", sessionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("memory service returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
