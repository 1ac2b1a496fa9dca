package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Fetcher defines the read-only calls the browser makes against the
// collection service. It is implemented by *Client and can be faked in tests.
type Fetcher interface {
	ListPage(ctx context.Context, offset, limit int) (*CollectionPage, error)
	GetDetail(ctx context.Context, key string) (*Pokemon, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

const (
	// DefaultBaseURL is the public PokeAPI endpoint.
	DefaultBaseURL = "https://pokeapi.co/api/v2"
	// DefaultLimit is the page size used when none is configured.
	DefaultLimit = 20

	defaultUserAgent = "pokedex/0.1"
	requestTimeout   = 10 * time.Second
	listPath         = "pokemon"
)

// Client talks to the PokeAPI HTTP service.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *log.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger routes request logging to logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client rooted at baseURL. An empty baseURL uses
// DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListPage fetches limit entries starting at offset.
func (c *Client) ListPage(ctx context.Context, offset, limit int) (*CollectionPage, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if offset < 0 {
		return nil, &ValidationError{Field: "offset", Reason: "must not be negative"}
	}
	if limit < 1 {
		return nil, &ValidationError{Field: "limit", Reason: "must be positive"}
	}

	values := url.Values{}
	values.Set("offset", strconv.Itoa(offset))
	values.Set("limit", strconv.Itoa(limit))
	reqURL := c.baseURL.JoinPath(listPath)
	reqURL.RawQuery = values.Encode()

	var payload ListResponse
	if err := c.get(ctx, reqURL, &payload); err != nil {
		return nil, err
	}

	items := payload.Results
	if items == nil {
		items = []ListRef{}
	}
	return &CollectionPage{
		Count:      payload.Count,
		Offset:     offset,
		Limit:      limit,
		Items:      items,
		NextOffset: nextOffset(payload.Next, offset, len(items)),
	}, nil
}

// GetDetail fetches one record by numeric id or name. A missing entry yields
// an HTTPError with status 404.
func (c *Client) GetDetail(ctx context.Context, key string) (*Pokemon, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	normalized := NormalizeKey(key)
	if normalized == "" {
		return nil, &ValidationError{Field: "key", Reason: "pokemon name or id is required"}
	}

	reqURL := c.baseURL.JoinPath(listPath, url.PathEscape(normalized))
	var payload Pokemon
	if err := c.get(ctx, reqURL, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NormalizeKey trims and lowercases a lookup key so "Pikachu " and "pikachu"
// address the same record.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (c *Client) get(ctx context.Context, reqURL *url.URL, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("GET", "url", reqURL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("request failed", "url", reqURL.String(), "err", err)
		return &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("api error", "url", reqURL.String(), "status", resp.StatusCode)
		return &HTTPError{Status: resp.StatusCode, URL: reqURL.String()}
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.logger.Error("decode failed", "url", reqURL.String(), "err", err)
		return &DecodeError{Err: err}
	}
	return nil
}

// nextOffset reads the offset out of the service's "next" link, falling back
// to offset+count when the link is present but unparseable.
func nextOffset(next *string, offset, count int) *int {
	if next == nil || strings.TrimSpace(*next) == "" {
		return nil
	}
	fallback := offset + count
	u, err := url.Parse(*next)
	if err != nil {
		return &fallback
	}
	parsed, err := strconv.Atoi(u.Query().Get("offset"))
	if err != nil || parsed < 0 {
		return &fallback
	}
	return &parsed
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
