package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"curseddiff/logger"

	"github.com/andybalholm/brotli"
)

// ErrNotFound is returned when the backend has no file at the requested index
var ErrNotFound = errors.New("file not found")

// StatusError is a non-200 answer from the backend
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Body)
}

// isAbsent reports whether err means the backend answered without the file,
// as opposed to the request itself failing
func isAbsent(err error) bool {
	var statusErr *StatusError
	return errors.Is(err, ErrNotFound) || errors.As(err, &statusErr)
}

// Client is the HTTP client for the file backend
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewClient creates a client for the backend at baseURL.
// timeoutMs is the HTTP client timeout in milliseconds (0 = no timeout)
func NewClient(baseURL string, timeoutMs int) *Client {
	timeout := time.Duration(0)
	if timeoutMs > 0 {
		timeout = time.Duration(timeoutMs) * time.Millisecond
	}
	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// ListFiles fetches the listing for one folder
func (c *Client) ListFiles(ctx context.Context, side Side) ([]FileEntry, error) {
	defer logger.Trace("catalog.ListFiles")()

	if !side.valid() {
		return nil, fmt.Errorf("invalid side %q", side)
	}
	var entries []FileEntry
	if err := c.getJSON(ctx, fmt.Sprintf("/api/files/%s", side), &entries); err != nil {
		return nil, fmt.Errorf("failed to fetch files from directory %s: %w", strings.ToUpper(string(side)), err)
	}
	return entries, nil
}

// FileContents fetches one file by its index in the side's listing
func (c *Client) FileContents(ctx context.Context, side Side, index int) (*FileContents, error) {
	defer logger.Trace("catalog.FileContents")()

	if !side.valid() {
		return nil, fmt.Errorf("invalid side %q", side)
	}
	if index < 0 {
		return nil, fmt.Errorf("invalid index %d: %w", index, ErrNotFound)
	}
	var fc FileContents
	if err := c.getJSON(ctx, fmt.Sprintf("/api/files/%s/%d/contents", side, index), &fc); err != nil {
		return nil, fmt.Errorf("failed to fetch file contents from directory %s: %w", strings.ToUpper(string(side)), err)
	}
	return &fc, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, identity")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "br") {
		body = brotli.NewReader(resp.Body)
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
