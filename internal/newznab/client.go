package newznab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"resty.dev/v3"

	"github.com/five82/nabsearch/internal/logging"
)

// Indexer defines the calls the search session makes against an indexer.
// This interface is implemented by *Client and can be used for testing.
type Indexer interface {
	Categories(ctx context.Context) ([]Category, error)
	Search(ctx context.Context, query Query) ([]SearchResult, error)
}

// Ensure Client implements Indexer at compile time.
var _ Indexer = (*Client)(nil)

const (
	// DefaultLimit is the number of results requested per search.
	DefaultLimit = 100

	apiPath          = "api"
	defaultUserAgent = "nabsearch/0.1"
	defaultTimeout   = 30 * time.Second
)

// Client talks to a newznab indexer's JSON API.
type Client struct {
	endpoint  string
	http      *resty.Client
	limiter   *rate.Limiter
	userAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d < 0 {
			d = 0
		}
		c.http.SetTimeout(d)
	}
}

// WithRateLimit paces requests to rps per second. Zero or less is unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.SetTransport(rt)
	}
}

// NewClient builds a Client for the indexer rooted at host. The API lives at
// "<host>/api".
func NewClient(host string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(host)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint: base.ResolveReference(&url.URL{Path: apiPath}).String(),
		http: resty.New().
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json, text/javascript").
			SetLogger(logrus.WithField("component", "newznab")),
		limiter:   rate.NewLimiter(rate.Inf, 1),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetHeader("User-Agent", c.userAgent)
	return c, nil
}

// Endpoint returns the API URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Close releases idle connections.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.http.Close()
}

// Categories fetches the category taxonomy (t=caps) and flattens it.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload capsResponse
	if err := c.get(ctx, map[string]string{"t": "caps", "o": "json"}, &payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, payload.Error
	}
	return flattenCategories(payload), nil
}

// Query configures a t=search request.
type Query struct {
	Text       string
	Categories []string
	APIKey     string
	Limit      int // zero uses DefaultLimit
	Offset     int
	MaxAge     int // days
}

func (q Query) params() map[string]string {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	params := map[string]string{
		"t":      "search",
		"o":      "json",
		"limit":  strconv.Itoa(limit),
		"apikey": strings.TrimSpace(q.APIKey),
	}
	if cat := JoinIDs(q.Categories); cat != "" {
		params["cat"] = cat
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		params["q"] = text
	}
	if q.Offset > 0 {
		params["offset"] = strconv.Itoa(q.Offset)
	}
	if q.MaxAge > 0 {
		params["maxage"] = strconv.Itoa(q.MaxAge)
	}
	return params
}

// Search runs a text search. An error payload from the indexer is returned as
// *APIError.
func (c *Client) Search(ctx context.Context, query Query) ([]SearchResult, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload searchResponse
	if err := c.get(ctx, query.params(), &payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, payload.Error
	}
	return mapResults(payload.RSS.Channel.Items), nil
}

func (c *Client) get(ctx context.Context, params map[string]string, dest any) error {
	fn := params["t"]
	defer logging.Track(ctx, "indexer "+fn)()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(c.endpoint)
	if err != nil {
		return fmt.Errorf("execute request: %w", redactURLError(err))
	}

	body := stripJSONP(resp.Bytes())
	if resp.IsError() {
		var probe struct {
			Error *APIError `json:"error"`
		}
		if json.Unmarshal(body, &probe) == nil && probe.Error != nil {
			return probe.Error
		}
		return fmt.Errorf("api %s returned status %d", fn, resp.StatusCode())
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// redactURLError drops the query string, which carries the API key, from
// transport errors.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	target := urlErr.URL
	if u, parseErr := url.Parse(target); parseErr == nil {
		u.RawQuery = ""
		target = u.String()
	} else if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	return &url.Error{Op: urlErr.Op, URL: target, Err: urlErr.Err}
}

func parseBaseURL(host string) (*url.URL, error) {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		return nil, fmt.Errorf("indexer host is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse host %q: %w", host, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse host %q: missing host name", host)
	}
	u.Path = strings.TrimSuffix(u.Path, "/"+apiPath)
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
