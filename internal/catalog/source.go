package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"partsearch/internal/config"
)

// Source fetches the raw catalog workbook from its well-known location:
// an http(s) URL or a local file path.
type Source struct {
	location   string
	retries    int
	httpClient *http.Client
}

func NewSource(cfg config.Config) *Source {
	retries := cfg.CatalogRetries
	if retries < 1 {
		retries = 1
	}
	return &Source{
		location:   cfg.CatalogSource,
		retries:    retries,
		httpClient: &http.Client{Timeout: time.Duration(cfg.CatalogTimeoutMs) * time.Millisecond},
	}
}

func (s *Source) Location() string {
	return s.location
}

func (s *Source) Fetch(ctx context.Context) ([]byte, error) {
	if isRemote(s.location) {
		return s.fetchHTTP(ctx)
	}
	return os.ReadFile(s.location)
}

func (s *Source) fetchHTTP(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
		if err != nil {
			return nil, err
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if !s.wait(ctx, attempt) {
				break
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			if !s.wait(ctx, attempt) {
				break
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < s.retries {
				lastErr = fmt.Errorf("catalog status %d", resp.StatusCode)
				if !s.wait(ctx, attempt) {
					break
				}
				continue
			}
			return nil, fmt.Errorf("catalog fetch: status=%d", resp.StatusCode)
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("catalog request failed")
	}
	return nil, lastErr
}

// wait sleeps with exponential backoff before the next attempt. It reports
// false when no attempt is left or ctx is done.
func (s *Source) wait(ctx context.Context, attempt int) bool {
	if attempt >= s.retries {
		return false
	}
	backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
	select {
	case <-ctx.Done():
		return false
	case <-time.After(backoff):
		return true
	}
}

func isRemote(location string) bool {
	lower := strings.ToLower(strings.TrimSpace(location))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
