package resultstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// HTTPStore keeps results in a remote key/value service under
// /kv/outlines/<key>.
type HTTPStore struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPStore(baseURL, apiKey string) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// nodeRequest is the body for PUT /kv/{key}.
type nodeRequest struct {
	Value  doctree.OutlineResult `json:"value"`
	Source string                `json:"source,omitempty"`
}

// nodeResponse is the response from GET /kv/{key}.
type nodeResponse struct {
	Key   string                `json:"key_path"`
	Value doctree.OutlineResult `json:"value"`
}

func (s *HTTPStore) url(key string) string {
	return s.baseURL + "/kv/outlines/" + url.PathEscape(key)
}

func (s *HTTPStore) Put(ctx context.Context, key string, result doctree.OutlineResult) error {
	if err := validateKey(key); err != nil {
		return err
	}
	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(nodeRequest{Value: result, Source: "docoutline"}); err != nil {
		return fmt.Errorf("marshal outline: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.url(key), &body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(req)
	if err != nil {
		return fmt.Errorf("put outline: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		return statusError("put", key, resp)
	}
	return nil
}

func (s *HTTPStore) Get(ctx context.Context, key string) (*doctree.OutlineResult, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(key), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, fmt.Errorf("get outline: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("get", key, resp)
	}

	var node nodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode outline: %w", err)
	}
	if node.Value.Outline == nil {
		node.Value.Outline = []doctree.Heading{}
	}
	return &node.Value, nil
}

func (s *HTTPStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.url(key), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := s.do(req)
	if err != nil {
		return fmt.Errorf("delete outline: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	}
	return statusError("delete", key, resp)
}

// Close releases idle connections.
func (s *HTTPStore) Close() {
	s.httpClient.CloseIdleConnections()
}

func (s *HTTPStore) do(req *http.Request) (*http.Response, error) {
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	return s.httpClient.Do(req)
}

// statusError maps 429 and 5xx to RetryableError.
func statusError(op, key string, resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	return fmt.Errorf("%s outline %s: status %d: %s", op, key, resp.StatusCode, string(respBody))
}
