package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// HTTPStatusError is returned when the feed endpoint answers with a
// non-2xx status.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error: %s", e.Status)
}

// Fetcher issues a single bounded request for one date's feed. It performs
// no retries and no logging; reporting outcomes is the caller's job.
type Fetcher struct {
	source     *Source
	httpClient *http.Client
	userAgent  string
}

func NewFetcher(source *Source, httpClient *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		source:     source,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Fetch performs one GET for the given date string and returns the raw
// document bytes. The timeout is carried by the injected http.Client and
// the context.
func (f *Fetcher) Fetch(ctx context.Context, dateStr string) ([]byte, error) {
	u, err := url.Parse(f.source.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}
	q := u.Query()
	q.Set(f.source.DateParam, dateStr)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
