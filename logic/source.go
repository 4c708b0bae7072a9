package logic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"elena/residency_alerts/model"
)

// DefaultSourceURL is the published CSV export of the staff sheet
const DefaultSourceURL = "https://docs.google.com/spreadsheets/d/1Fnr64ZBPhUoOJRY9CUr47rh6a_j-iHRmR37Jew9WdXo/export?format=csv&gid=323448096"

// Fetcher returns the raw sheet text
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// HTTPFetcher downloads the sheet over HTTP
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for url with the given request timeout
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the sheet. Any failure wraps model.ErrFetchFailed.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", model.ErrFetchFailed, err)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrFetchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %s", model.ErrFetchFailed, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", model.ErrFetchFailed, err)
	}

	return string(body), nil
}

// StaticFetcher serves fixed text, for tests and local files
type StaticFetcher string

// Fetch returns the text
func (s StaticFetcher) Fetch(context.Context) (string, error) {
	return string(s), nil
}
