// Package resultstore persists OutlineResults keyed by document.
package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Store saves and loads outline results. Get returns nil, nil for a missing
// key.
type Store interface {
	Put(ctx context.Context, key string, result doctree.OutlineResult) error
	Get(ctx context.Context, key string) (*doctree.OutlineResult, error)
	Delete(ctx context.Context, key string) error
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Encode writes result as 4-space indented JSON without HTML escaping, so
// non-ASCII and markup characters in headings survive verbatim.
func Encode(w io.Writer, result doctree.OutlineResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode outline: %w", err)
	}
	return nil
}

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." {
		return fmt.Errorf("invalid key %q", key)
	}
	if strings.ContainsAny(key, "/\\\x00") {
		return fmt.Errorf("invalid key %q: contains path separator", key)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
