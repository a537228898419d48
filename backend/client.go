// Package backend is the HTTP client for the fleet backend: node registry,
// file store, configuration and OTA command endpoints, and per-node logs.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"fleetpanel/codec"
	"fleetpanel/snapshot"
)

const genericErrMsg = "request failed"

// APIError is a non-2xx backend response. Message carries the backend's
// own error string verbatim when the body had one, else a generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend HTTP %d: %s", e.Status, e.Message)
}

// ConfigPayload is the wire shape for the configuration endpoint.
type ConfigPayload struct {
	Node string  `json:"node"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Ck   string  `json:"ck"`
	Area string  `json:"area"`
	No   string  `json:"no"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the client's base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchNodes reads the full node snapshot.
func (c *Client) FetchNodes(ctx context.Context) (map[string]snapshot.NodeInfo, error) {
	var nodes map[string]snapshot.NodeInfo
	if err := c.do(ctx, http.MethodGet, "/api/nodes", nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// FetchFiles reads the full file listing.
func (c *Client) FetchFiles(ctx context.Context) ([]snapshot.FileEntry, error) {
	var files []snapshot.FileEntry
	if err := c.do(ctx, http.MethodGet, "/api/files", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteNode removes a node record from the backend registry.
func (c *Client) DeleteNode(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/nodes/"+codec.EncodeSegment(id), nil, nil)
}

// DeleteFile removes a file from the backend file store.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/files/"+codec.EncodeSegment(name), nil, nil)
}

// RenameFile renames a stored file.
func (c *Client) RenameFile(ctx context.Context, name, newName string) error {
	body := map[string]string{"new_name": newName}
	return c.do(ctx, http.MethodPost, "/api/files/"+codec.EncodeSegment(name)+"/rename", body, nil)
}

// PushConfig sends a threshold/configuration update for one node.
func (c *Client) PushConfig(ctx context.Context, p ConfigPayload) error {
	return c.do(ctx, http.MethodPost, "/config", p, nil)
}

// TriggerOTA asks the backend to start a firmware update on one node.
func (c *Client) TriggerOTA(ctx context.Context, node, url string) error {
	body := map[string]string{"node": node, "url": url}
	return c.do(ctx, http.MethodPost, "/ota", body, nil)
}

// FetchLogs returns the bounded log tail for one node. A 404 (node unknown
// to the backend) comes back as an APIError with status 404.
func (c *Client) FetchLogs(ctx context.Context, id string) ([]string, error) {
	var result struct {
		Logs []string `json:"logs"`
	}
	if err := c.do(ctx, http.MethodGet, "/logs/"+codec.EncodeSegment(id), nil, &result); err != nil {
		return nil, err
	}
	return result.Logs, nil
}

// Upload streams a file to the backend's multipart upload endpoint.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("backend upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("backend upload copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("backend upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return fmt.Errorf("backend upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend POST /upload: %w", err)
	}
	defer resp.Body.Close()
	// Upload replies with a redirect rather than JSON; anything below 400
	// counts as success.
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return apiError(resp.StatusCode, data)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, data)
	}
	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("backend decode: %w", err)
		}
	}
	return nil
}

// apiError extracts the backend's {error: "..."} body when present and
// falls back to a generic message otherwise.
func apiError(status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	msg := genericErrMsg
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &APIError{Status: status, Message: msg}
}
