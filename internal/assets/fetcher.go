// Package assets fetches foreign assets by absolute URI so the local asset
// cache holds them before a client asks.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const maxAssetBytes = 16 << 20

// HTTPFetcher retrieves assets with GET requests.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher with a bounded client timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Fetch downloads uri. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return fmt.Errorf("create asset request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("asset request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("asset %s: status %d", uri, resp.StatusCode)
	}
	n, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return fmt.Errorf("read asset: %w", err)
	}
	log.Debug().Str("uri", uri).Int64("bytes", n).Msg("Fetched foreign asset")
	return nil
}
