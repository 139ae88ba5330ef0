package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/bookfinder/internal/models"
)

const (
	// DefaultBaseURL is the public Open Library API
	DefaultBaseURL = "https://openlibrary.org"

	// WorkKeyPrefix is stripped from catalog keys before building work URLs
	WorkKeyPrefix = "/works/"

	SearchLimit        = 50
	EditionsLimit      = 50
	SubjectLimit       = 6
	MaxRecommendations = 4

	userAgent = "bookfinder/0.1 (+https://github.com/lehigh-university-libraries/bookfinder)"
)

// ErrFetchFailed marks any failed catalog request: network error, non-success
// status, or an unreadable body.
var ErrFetchFailed = errors.New("fetch failed")

// Client talks to the Open Library search, works and editions endpoints
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// NewClient creates a new catalog client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient swaps the underlying HTTP client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Search runs a catalog search and returns the raw hits
func (c *Client) Search(ctx context.Context, query string, searchType models.SearchType) ([]models.BookSummary, error) {
	searchURL := fmt.Sprintf("%s/search.json?%s=%s&limit=%d",
		c.BaseURL, searchType.QueryParam(), encodeComponent(query), SearchLimit)

	var resp struct {
		Docs []models.BookSummary `json:"docs"`
	}
	if err := c.getJSON(ctx, searchURL, &resp); err != nil {
		return nil, err
	}
	if resp.Docs == nil {
		return []models.BookSummary{}, nil
	}
	return resp.Docs, nil
}

// FetchWork retrieves the work record for a catalog key
func (c *Client) FetchWork(ctx context.Context, workKey string) (*models.WorkDetail, error) {
	workURL := fmt.Sprintf("%s/works/%s.json", c.BaseURL, url.PathEscape(WorkID(workKey)))

	var work models.WorkDetail
	if err := c.getJSON(ctx, workURL, &work); err != nil {
		return nil, err
	}
	return &work, nil
}

// FetchEditions retrieves the editions of a work in upstream order
func (c *Client) FetchEditions(ctx context.Context, workKey string) ([]models.Edition, error) {
	editionsURL := fmt.Sprintf("%s/works/%s/editions.json?limit=%d",
		c.BaseURL, url.PathEscape(WorkID(workKey)), EditionsLimit)

	var resp struct {
		Entries []models.Edition `json:"entries"`
	}
	if err := c.getJSON(ctx, editionsURL, &resp); err != nil {
		return nil, err
	}
	if resp.Entries == nil {
		return []models.Edition{}, nil
	}
	return resp.Entries, nil
}

// SearchBySubject finds books sharing a subject, excluding excludeKey.
// At most MaxRecommendations unique books are returned.
func (c *Client) SearchBySubject(ctx context.Context, subject, excludeKey string) ([]models.BookSummary, error) {
	subjectURL := fmt.Sprintf("%s/search.json?subject=%s&limit=%d",
		c.BaseURL, encodeComponent(subject), SubjectLimit)

	var resp struct {
		Docs []models.BookSummary `json:"docs"`
	}
	if err := c.getJSON(ctx, subjectURL, &resp); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(resp.Docs))
	books := make([]models.BookSummary, 0, MaxRecommendations)
	for _, doc := range resp.Docs {
		if doc.Key == excludeKey || seen[doc.Key] {
			continue
		}
		seen[doc.Key] = true
		books = append(books, doc)
		if len(books) == MaxRecommendations {
			break
		}
	}
	return books, nil
}

// WorkID strips the works prefix from a catalog key
func WorkID(workKey string) string {
	return strings.TrimPrefix(workKey, WorkKeyPrefix)
}

func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	slog.Debug("Catalog request", "url", target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: catalog returned status %d: %s", ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrFetchFailed, err)
	}
	return nil
}

// encodeComponent percent-encodes a query value, spaces included
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
