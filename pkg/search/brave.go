package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vidscope/vidscope/pkg/config"
	"github.com/vidscope/vidscope/pkg/domain"
	"github.com/vidscope/vidscope/pkg/llm"
)

//go:generate moq -out mocks/previewer.go -pkg mocks -skip-ensure -fmt goimports . Previewer

// Previewer extracts a short text preview from a web page
type Previewer interface {
	Preview(ctx context.Context, pageURL string) (string, error)
}

// Client queries the Brave web search API for content related to a video
type Client struct {
	config    config.SearchConfig
	http      *http.Client
	sanitizer *bluemonday.Policy
	previewer Previewer // optional, enriches top results with page previews
}

// NewClient creates a search client. The previewer may be nil, enrichment is
// skipped entirely then.
func NewClient(cfg config.SearchConfig, previewer Previewer) *Client {
	return &Client{
		config:    cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		sanitizer: bluemonday.StrictPolicy(),
		previewer: previewer,
	}
}

// braveResponse covers the part of the API payload we consume
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
			Profile     struct {
				Img string `json:"img"`
			} `json:"profile"`
		} `json:"results"`
	} `json:"web"`
}

// Search runs the query and maps results to related resources. Result
// descriptions arrive as HTML snippets and are sanitized to plain text.
func (c *Client) Search(ctx context.Context, query string) ([]domain.RelatedResource, error) {
	opts := llm.RetryOptions{
		Retries: c.config.Retries,
		Delay:   c.config.RetryDelay,
	}

	resources, err := llm.WithRetry(ctx, opts, func(ctx context.Context) ([]domain.RelatedResource, error) {
		return c.searchOnce(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	c.enrich(ctx, resources)
	return resources, nil
}

func (c *Client) searchOnce(ctx context.Context, query string) ([]domain.RelatedResource, error) {
	reqURL := c.config.Endpoint + "?q=" + url.QueryEscape(query) + "&count=" + strconv.Itoa(c.config.MaxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("X-Subscription-Token", c.config.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: %d", resp.StatusCode)
	}

	var data braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	resources := make([]domain.RelatedResource, 0, len(data.Web.Results))
	for _, r := range data.Web.Results {
		parsed, err := url.Parse(r.URL)
		if err != nil || parsed.Host == "" {
			continue
		}

		favicon := r.Profile.Img
		if favicon == "" {
			favicon = "https://www.google.com/s2/favicons?domain=" + parsed.Hostname()
		}

		resources = append(resources, domain.RelatedResource{
			Title:       c.sanitizer.Sanitize(r.Title),
			URL:         r.URL,
			Description: c.sanitizer.Sanitize(r.Description),
			Source:      strings.TrimPrefix(parsed.Hostname(), "www."),
			Favicon:     favicon,
		})
	}
	return resources, nil
}

// enrich replaces the description-only preview of the top results with
// extracted page text. Failures are logged and leave the result as is.
func (c *Client) enrich(ctx context.Context, resources []domain.RelatedResource) {
	if c.previewer == nil || c.config.EnrichTop <= 0 {
		return
	}

	for i := range resources {
		if i >= c.config.EnrichTop {
			break
		}
		preview, err := c.previewer.Preview(ctx, resources[i].URL)
		if err != nil {
			lgr.Printf("[DEBUG] preview skipped for %s: %v", resources[i].URL, err)
			continue
		}
		resources[i].Preview = preview
	}
}
