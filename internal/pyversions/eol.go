// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 setuptools-modernize contributors

package pyversions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// EndOfLifeAPIURL is the API endpoint for Python EOL data.
	EndOfLifeAPIURL = "https://endoflife.date/api/python.json"
	// DefaultTimeout bounds one API call.
	DefaultTimeout = 6 * time.Second
	// DefaultMaxRetries is the number of retry attempts.
	DefaultMaxRetries = 2
)

// EOLData is one release cycle entry from endoflife.date.
type EOLData struct {
	Cycle       string      `json:"cycle"`
	ReleaseDate string      `json:"releaseDate"`
	EOL         interface{} `json:"eol"` // date string or boolean
	Latest      string      `json:"latest"`
}

// EOLClient fetches the list of non-EOL Python versions, so the
// generated matrix tracks reality instead of the built-in fallback.
type EOLClient struct {
	httpClient *http.Client
	maxRetries int
	cached     []EOLData
	cachedAt   time.Time
}

// NewEOLClient creates an EOL API client. Zero values select the
// defaults.
func NewEOLClient(timeout time.Duration, maxRetries int) *EOLClient {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	return &EOLClient{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// SupportedVersions returns the currently supported, non-EOL Python
// versions (3.9 and later), oldest first. Callers should fall back
// to FallbackVersions on error.
func (c *EOLClient) SupportedVersions(ctx context.Context) ([]string, error) {
	data, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var supported []string
	// The API lists newest cycles first.
	for i := len(data) - 1; i >= 0; i-- {
		entry := data[i]
		maj, min := parseMajorMinor(entry.Cycle)
		if maj < 3 || (maj == 3 && min < 9) {
			continue
		}
		if !entry.isEOL(now) {
			supported = append(supported, entry.Cycle)
		}
	}
	if len(supported) == 0 {
		return nil, fmt.Errorf("no supported versions in EOL data")
	}
	return supported, nil
}

func (e EOLData) isEOL(now time.Time) bool {
	switch eol := e.EOL.(type) {
	case string:
		date, err := time.Parse("2006-01-02", eol)
		if err != nil {
			return false
		}
		return !now.Before(date)
	case bool:
		return eol
	}
	return false
}

// fetch retrieves the EOL dataset with retries, caching it for an
// hour.
func (c *EOLClient) fetch(ctx context.Context) ([]EOLData, error) {
	if c.cached != nil && time.Since(c.cachedAt) < time.Hour {
		return c.cached, nil
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		data, err := c.fetchOnce(ctx)
		if err == nil {
			c.cached = data
			c.cachedAt = time.Now()
			return data, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to fetch EOL data after %d retries: %w", c.maxRetries, lastErr)
}

func (c *EOLClient) fetchOnce(ctx context.Context) ([]EOLData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, EndOfLifeAPIURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var data []EOLData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse EOL data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("received empty EOL data")
	}
	for i, entry := range data {
		if entry.Cycle == "" {
			return nil, fmt.Errorf("EOL entry %d missing cycle field", i)
		}
	}
	return data, nil
}

// FallbackVersions is the built-in supported-version list, used when
// the EOL API is unavailable or offline mode is requested. Current
// as of 2025.
func FallbackVersions() []string {
	return []string{"3.9", "3.10", "3.11", "3.12", "3.13", "3.14"}
}
