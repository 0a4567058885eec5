// Package httpapi implements the narrator client against the narrative
// backend's HTTP interface.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/reveriegames/reverie/pkg/narrator"
	"github.com/reveriegames/reverie/pkg/scene"
)

// defaultTimeout bounds one turn round-trip. Narrative generation can be
// slow, so this is generous; the controller treats a timeout like any
// other transport fault.
const defaultTimeout = 3 * time.Minute

// Client implements narrator.Service over HTTP.
type Client struct {
	target string
	http   *http.Client
}

// NewClient creates a narrator client for the given backend URL
// (scheme + host + port, e.g. "http://localhost:8000").
func NewClient(target string) *Client {
	return &Client{
		target: target,
		http:   &http.Client{Timeout: defaultTimeout},
	}
}

// GenerateScene posts the turn request and decodes the scene response.
// The response is validated for required fields before being returned, so
// a 200 with a gutted payload still fails the turn.
func (c *Client) GenerateScene(ctx context.Context, req *narrator.Request) (*scene.Scene, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling turn request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target+"/game/interact", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating turn request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending turn request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("narrator returned status %d: %s", resp.StatusCode, string(respBody))
	}

	s := &scene.Scene{}
	if err := json.NewDecoder(resp.Body).Decode(s); err != nil {
		return nil, fmt.Errorf("parsing scene response: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}
