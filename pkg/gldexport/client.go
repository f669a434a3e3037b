package gldexport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata" // period dates are Europe/Amsterdam days

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/trace"

	"github.com/bro-exchange/bro-exchange/internal/httpclient"
	"github.com/bro-exchange/bro-exchange/internal/otel"
	"github.com/bro-exchange/bro-exchange/internal/telemetry"
)

const (
	// DefaultBaseURL is the public GLD object endpoint
	DefaultBaseURL = "https://publiek.broservices.nl/gm/gld/v1/objects"

	// DefaultCacheExpiration is how long a dispatched dossier is reused
	DefaultCacheExpiration = 10 * time.Minute

	// DefaultCleanupInterval is how often expired dossiers are dropped
	DefaultCleanupInterval = 30 * time.Minute
)

// amsterdam is the zone period dates are interpreted in
var amsterdam = mustLoadLocation("Europe/Amsterdam")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("gldexport: failed to load time zone %s: %v", name, err))
	}
	return loc
}

// ParseDate reads a YYYY-MM-DD period date as the start of that day in Europe/Amsterdam
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, s, amsterdam)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// Query selects the measurements of one dossier. The dispatch service returns
// every observation overlapping Begin..End; Exact trims the points to that period.
type Query struct {
	BroID string
	Begin time.Time
	End   time.Time
	Exact bool
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL replaces DefaultBaseURL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the HTTP transport
func WithHTTPClient(client httpclient.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithCacheExpiration sets how long dossiers stay cached
func WithCacheExpiration(expiration time.Duration) Option {
	return func(c *Client) {
		c.expiration = expiration
	}
}

// WithTracer enables spans around dossier lookups
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// WithMetrics enables lookup metrics
func WithMetrics(metrics *telemetry.ExportMetrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// Client fetches dossiers from the dispatch service. It is safe for concurrent use.
type Client struct {
	http       httpclient.Client
	baseURL    string
	expiration time.Duration
	cache      *gocache.Cache
	tracer     trace.Tracer
	metrics    *telemetry.ExportMetrics
}

// New returns a Client with an empty cache
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		expiration: DefaultCacheExpiration,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewDefaultClient(0)
	}
	c.cache = gocache.New(c.expiration, DefaultCleanupInterval)
	return c
}

func cacheKey(broID string, begin, end time.Time) string {
	return broID + "|" + begin.Format(time.DateOnly) + "|" + end.Format(time.DateOnly)
}

// Dossier returns the dossier with the observations overlapping begin..end.
// Results are cached per (broID, begin, end) and shared between callers, so
// they must not be modified.
func (c *Client) Dossier(ctx context.Context, broID string, begin, end time.Time) (*Dossier, error) {
	ctx, span := otel.StartSpan(ctx, c.tracer, "gldexport.Dossier")
	defer span.End()
	span.SetAttributes(otel.AttrBroID.String(broID))

	key := cacheKey(broID, begin, end)
	if v, found := c.cache.Get(key); found {
		if d, ok := v.(*Dossier); ok {
			span.SetAttributes(otel.AttrCacheHit.Bool(true))
			c.metrics.RecordLookup(ctx, true)
			slog.Debug("GLD dossier served from cache", "bro_id", broID)
			return d, nil
		}
	}
	span.SetAttributes(otel.AttrCacheHit.Bool(false))
	c.metrics.RecordLookup(ctx, false)

	resp, err := c.http.Do(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/" + url.PathEscape(broID),
		Query: url.Values{
			"observationPeriodBeginDate": {begin.Format(time.DateOnly)},
			"observationPeriodEndDate":   {end.Format(time.DateOnly)},
		},
		Accept: "application/xml",
	})
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to fetch dossier %s: %w", broID, err)
	}

	d, err := ParseDispatch(resp.Body)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to read dossier %s: %w", broID, err)
	}
	c.cache.SetDefault(key, d)

	slog.Debug("GLD dossier fetched", "bro_id", broID, "observations", len(d.Observations))
	return d, nil
}

// Measurements returns the time-sorted measurements q selects
func (c *Client) Measurements(ctx context.Context, q Query) ([]Measurement, error) {
	d, err := c.Dossier(ctx, q.BroID, q.Begin, q.End)
	if err != nil {
		return nil, err
	}
	ms := d.Measurements()
	if q.Exact {
		ms = Filter(ms, q.Begin, q.End)
	}
	return ms, nil
}
