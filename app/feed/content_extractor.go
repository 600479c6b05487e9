package feed

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"codeberg.org/readeck/go-readability/v2"
	"github.com/microcosm-cc/bluemonday"
)

// ContentExtractor pulls the main article out of a fetched page and
// sanitizes HTML before it becomes entry content.
type ContentExtractor struct {
	policy *bluemonday.Policy
}

func NewContentExtractor() *ContentExtractor {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)

	return &ContentExtractor{policy: p}
}

// Run extracts the article from page HTML. pageURL resolves relative links
// and may be empty.
func (e *ContentExtractor) Run(data []byte, pageURL string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	var base *url.URL
	if pageURL != "" {
		parsed, err := url.Parse(pageURL)
		if err != nil {
			return "", fmt.Errorf("invalid page URL: %w", err)
		}
		base = parsed
	}

	article, err := readability.FromReader(bytes.NewReader(data), base)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	var htmlBuf strings.Builder
	if err := article.RenderHTML(&htmlBuf); err != nil {
		return "", fmt.Errorf("failed to render extracted content: %w", err)
	}

	content := e.Sanitize(htmlBuf.String())
	if content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"url", pageURL,
		"content_length", len(content))

	return content, nil
}

// Sanitize strips scripts, handlers and other unsafe markup, keeping
// ordinary formatting.
func (e *ContentExtractor) Sanitize(html string) string {
	return strings.TrimSpace(e.policy.Sanitize(html))
}
