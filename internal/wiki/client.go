package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	// fetchTimeout bounds every page request. Failed requests are terminal
	// soft failures for that call; there is no retry.
	fetchTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 2 << 20

	userAgent = "loremaster/1.0 (game-master assistant; +https://github.com/loremaster)"
)

// Gate reports whether a page name refers to homebrew content. Homebrew
// names are never looked up over the network. The gate is queried on every
// fetch rather than cached, since its answer changes as the user edits
// homebrew content.
type Gate interface {
	IsCustom(name string) bool
}

// Client fetches and parses pages from one wiki, consulting a shared TTL
// cache before the network. Two clients with different base URLs may share
// one cache; entries are keyed by full page URL.
type Client struct {
	baseURL string
	cache   *Cache
	gate    Gate
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a wiki client. gate may be nil when no homebrew
// filtering applies.
func NewClient(baseURL string, cache *Cache, gate Gate, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache,
		gate:    gate,
		http:    &http.Client{Timeout: fetchTimeout},
		logger:  logger,
	}
}

// PageURL builds the fully-qualified URL for a page title. Spaces become
// underscores per wiki convention; the title is used verbatim otherwise,
// so callers wanting namespaced pages pass the qualified title themselves.
func (c *Client) PageURL(title string) string {
	return c.baseURL + "/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// FetchPage resolves a page title to parsed content. The homebrew gate is
// checked before the cache so gated titles are never fetched and never
// cached. Network errors, non-2xx statuses, and unrecognizable markup are
// soft failures: the page is absent, nothing is raised, and no negative
// result is cached.
func (c *Client) FetchPage(ctx context.Context, title string, forceRefresh bool) (*Page, error) {
	if c.gate != nil && c.gate.IsCustom(title) {
		c.logger.Debug("blocked homebrew page lookup", zap.String("title", title))
		return nil, nil
	}

	pageURL := c.PageURL(title)

	if !forceRefresh {
		if page, ok := c.cache.Get(pageURL); ok {
			c.logger.Debug("cache hit", zap.String("title", title))
			return page, nil
		}
	}

	page, err := c.fetch(ctx, title, pageURL)
	if err != nil {
		c.logger.Warn("page fetch failed", zap.String("title", title), zap.Error(err))
		return nil, err
	}

	if err := c.cache.Set(pageURL, page); err != nil {
		c.logger.Warn("cache write failed", zap.String("title", title), zap.Error(err))
	}
	c.logger.Debug("fetched page",
		zap.String("title", page.Title),
		zap.Int("sections", len(page.Sections)))
	return page, nil
}

// fetch performs the HTTP GET and parses the response into a Page.
func (c *Client) fetch(ctx context.Context, title, pageURL string) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %q: HTTP %d", title, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response for %q: %w", title, err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse response for %q: %w", title, err)
	}

	container := findContainer(doc)
	if container == nil {
		return nil, fmt.Errorf("no content container for %q", title)
	}

	return &Page{
		Title:     pageTitle(doc, title),
		URL:       pageURL,
		Sections:  parseSections(container),
		FetchedAt: time.Now(),
	}, nil
}
