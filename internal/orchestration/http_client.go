package orchestration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient is an HTTP implementation of the Client interface, talking to
// the session orchestrator service.
type HTTPClient struct {
	url string
}

// NewHTTPClient creates a new HTTPClient.
func NewHTTPClient(url string) *HTTPClient {
	return &HTTPClient{url: url}
}

// Provision starts an interactive session via the orchestrator, under the
// pod name carried by the spec.
func (c *HTTPClient) Provision(ctx context.Context, spec ProvisionSpec) error {
	requestBody, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to marshal provision request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url+"/sessions", bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach orchestrator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("orchestrator refused provisioning: %s", readErrorMessage(resp.Body, resp.StatusCode))
	}

	return nil
}

// Teardown stops the named session resource via the orchestrator.
func (c *HTTPClient) Teardown(ctx context.Context, podName string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.url+"/sessions/"+podName, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach orchestrator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("orchestrator refused teardown: %s", readErrorMessage(resp.Body, resp.StatusCode))
	}

	return nil
}

// readErrorMessage extracts the orchestrator's message body so failures stay
// diagnosable upstream; it falls back to the status code.
func readErrorMessage(body io.Reader, statusCode int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("status code %d", statusCode)
}
