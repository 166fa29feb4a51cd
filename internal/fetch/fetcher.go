// Package fetch retrieves a job page over HTTP and reduces it to plain text.
// It is the upstream collaborator of the pipeline, not part of it: the
// pipeline only ever sees the resulting text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/coldreach-ai/coldreach/internal/textutil"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultMaxBytes = 4 << 20 // page bodies beyond 4 MiB are truncated
)

// Fetcher downloads pages and extracts their visible text.
type Fetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// Config holds fetcher settings.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// New creates a page fetcher.
func New(cfg Config) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
	}
}

// FetchText downloads the page at url and returns its normalized visible
// text. Script, style, and noscript contents are dropped.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", url, err)
	}

	return textutil.Normalize(ExtractText(doc)), nil
}

// ExtractText walks the HTML tree collecting text nodes, skipping elements
// that never carry visible content.
func ExtractText(n *html.Node) string {
	var b strings.Builder
	extractText(n, &b)
	return b.String()
}

func extractText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "template", "iframe":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, b)
	}
}
