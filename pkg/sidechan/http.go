package sidechan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// httpClient handles HTTP communication with the chatmux backend.
type httpClient struct {
	client     *http.Client
	baseURL    string
	maxRetries int
}

func newHTTPClient(cfg *clientConfig) *httpClient {
	return &httpClient{
		client:     cfg.httpClient,
		baseURL:    cfg.baseURL,
		maxRetries: cfg.maxRetries,
	}
}

// request makes a JSON request with optional retry for retryable errors.
func (h *httpClient) request(ctx context.Context, method, path string, body any, result any) error {
	var bodyData []byte
	if body != nil {
		var err error
		bodyData, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s, ...
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := h.doRequest(ctx, method, path, bodyData, result)
		if err == nil {
			return nil
		}
		lastErr = err

		if apiErr, ok := AsError(err); ok && !apiErr.Retryable() {
			return err
		}
	}
	return lastErr
}

// doRequest performs a single HTTP request.
func (h *httpClient) doRequest(ctx context.Context, method, path string, bodyData []byte, result any) error {
	var bodyReader io.Reader
	if bodyData != nil {
		bodyReader = bytes.NewReader(bodyData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if bodyData != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	return h.handleResponse(resp, result)
}

func (h *httpClient) handleResponse(resp *http.Response, result any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(body, resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// parseError builds a typed error from a failure body. The backend reports
// {error, details}; anything else becomes the raw body text.
func parseError(body []byte, httpStatus int) error {
	var apiErr struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return &Error{
			Message:    apiErr.Error,
			Details:    apiErr.Details,
			HTTPStatus: httpStatus,
		}
	}
	return &Error{
		Message:    string(bytes.TrimSpace(body)),
		HTTPStatus: httpStatus,
	}
}
