// Package extract turns a recipe URL into a normalized recipe.Draft.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/forkful/recipe-mcp-server/internal/recipe"
)

var (
	// ErrNoRecipeMarkup is returned when the page carries no JSON-LD
	// Recipe node. Pages without structured markup are not parsed
	// heuristically.
	ErrNoRecipeMarkup = errors.New("no recipe markup found")

	// ErrFetchFailed is returned when the page could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")
)

// DefaultTimeout bounds the single outbound fetch. A slow source page
// fails the ingestion rather than stalling it; there are no retries.
const DefaultTimeout = 10 * time.Second

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// maxBodyBytes caps the response body read. Recipe pages are well under
// this; anything larger is cut off before JSON-LD parsing.
const maxBodyBytes = 4 << 20

// Extractor fetches a page and extracts its embedded Recipe markup.
type Extractor struct {
	client *http.Client
}

// NewExtractor creates an extractor with the given fetch timeout.
// A zero timeout uses DefaultTimeout.
func NewExtractor(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{
		client: &http.Client{Timeout: timeout},
	}
}

// Extract fetches pageURL and returns the normalized recipe draft.
// Returns ErrNoRecipeMarkup when the page has no JSON-LD Recipe node
// and ErrFetchFailed when the page cannot be retrieved.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*recipe.Draft, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", ErrFetchFailed, pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrFetchFailed, resp.StatusCode, parsed.Host)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	draft := extractJSONLDRecipe(doc)
	if draft == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRecipeMarkup, pageURL)
	}

	draft.Link = pageURL
	draft.Source = parsed.Host
	return draft, nil
}
