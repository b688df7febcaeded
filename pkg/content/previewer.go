package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/markusmobius/go-trafilatura"
)

// Previewer fetches a related web page and extracts a short plain-text
// preview of its main content.
type Previewer struct {
	client   *http.Client
	maxChars int
}

// NewPreviewer creates a previewer with the given per-request timeout and
// preview length bound
func NewPreviewer(timeout time.Duration, maxChars int) *Previewer {
	if maxChars <= 0 {
		maxChars = 500
	}
	return &Previewer{
		client:   &http.Client{Timeout: timeout},
		maxChars: maxChars,
	}
}

// Preview fetches the page and returns the opening of its extracted text.
// Pages that produce no extractable text are an error, the caller drops the
// preview and keeps the search result's own description.
func (p *Previewer) Preview(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; VidScope/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch URL %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, pageURL)
	}

	result, err := trafilatura.Extract(resp.Body, trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsed,
	})
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", pageURL, err)
	}
	if result == nil || strings.TrimSpace(result.ContentText) == "" {
		return "", fmt.Errorf("no text content extracted from %s", pageURL)
	}

	return truncate(strings.TrimSpace(result.ContentText), p.maxChars), nil
}

// truncate cuts text at a rune boundary and marks the cut with an ellipsis
func truncate(text string, maxChars int) string {
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxChars])) + "..."
}
