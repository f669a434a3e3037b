// Package connector talks to the bronhouderportaal REST API: it validates
// requests, uploads and delivers sourcedocuments and looks up deliveries.
package connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bro-exchange/bro-exchange/internal/httpclient"
	"github.com/bro-exchange/bro-exchange/internal/otel"
	"github.com/bro-exchange/bro-exchange/internal/telemetry"
)

//go:generate mockgen -destination=mocks/mock_client.go -package=mocks -source=client.go Client

const (
	// DefaultMaxTries is how often a call is attempted before giving up
	DefaultMaxTries = 3

	// DefaultInitialInterval is the first retry delay
	DefaultInitialInterval = 500 * time.Millisecond

	// DefaultPattern selects the files UploadDir delivers when no pattern is given
	DefaultPattern = "*.xml"
)

// Client is the bronhouderportaal API
type Client interface {
	// Validate posts an XML request to /validatie
	Validate(ctx context.Context, payload []byte) (*ValidationResult, error)

	// Deliver creates an upload, adds every document to it and delivers the upload
	Deliver(ctx context.Context, docs ...Document) (*Delivery, error)

	// UploadDir delivers the files in dir that match pattern (doublestar syntax)
	UploadDir(ctx context.Context, dir, pattern string) (*Delivery, error)

	// DeliveryStatus looks up a delivery by identifier
	DeliveryStatus(ctx context.Context, id string) (*Delivery, error)

	// SourceDocument looks up a delivered sourcedocument by identifier
	SourceDocument(ctx context.Context, id string) (*SourceDocumentInfo, error)
}

// Option configures a DefaultClient
type Option func(*clientConfig)

type clientConfig struct {
	user            string
	password        string
	api             APIVersion
	projectID       string
	demo            bool
	baseURL         string
	timeout         time.Duration
	maxTries        uint
	initialInterval time.Duration
	http            httpclient.Client
	tracer          trace.Tracer
	metrics         *telemetry.PortalMetrics
}

// WithCredentials sets the basic auth user and password (the portal token)
func WithCredentials(user, password string) Option {
	return func(c *clientConfig) {
		c.user = user
		c.password = password
	}
}

// WithAPIVersion selects v1 or v2. Defaults to v1.
func WithAPIVersion(api APIVersion) Option {
	return func(c *clientConfig) {
		c.api = api
	}
}

// WithProjectID sets the project id used by API v2
func WithProjectID(id string) Option {
	return func(c *clientConfig) {
		c.projectID = id
	}
}

// WithDemo selects the acceptance environment
func WithDemo(demo bool) Option {
	return func(c *clientConfig) {
		c.demo = demo
	}
}

// WithBaseURL replaces the API root derived from version and environment.
// The v2 project segment is still appended.
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetry sets how often transient failures of validations and lookups are
// attempted and the first delay. Creating calls are sent once.
func WithRetry(maxTries uint, initialInterval time.Duration) Option {
	return func(c *clientConfig) {
		c.maxTries = maxTries
		c.initialInterval = initialInterval
	}
}

// WithHTTPClient replaces the HTTP transport
func WithHTTPClient(client httpclient.Client) Option {
	return func(c *clientConfig) {
		c.http = client
	}
}

// WithTracer enables spans around portal calls
func WithTracer(tracer trace.Tracer) Option {
	return func(c *clientConfig) {
		c.tracer = tracer
	}
}

// WithMetrics enables portal metrics
func WithMetrics(metrics *telemetry.PortalMetrics) Option {
	return func(c *clientConfig) {
		c.metrics = metrics
	}
}

// DefaultClient is the HTTP implementation of Client
type DefaultClient struct {
	http            httpclient.Client
	root            string
	user            string
	password        string
	api             APIVersion
	maxTries        uint
	initialInterval time.Duration
	tracer          trace.Tracer
	metrics         *telemetry.PortalMetrics
}

// New checks the options and returns a client bound to one API root
func New(opts ...Option) (*DefaultClient, error) {
	cfg := &clientConfig{
		api:             APIv1,
		maxTries:        DefaultMaxTries,
		initialInterval: DefaultInitialInterval,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.user == "" || cfg.password == "" {
		return nil, ErrNoCredentials
	}

	root, err := BaseURL(cfg.api, cfg.demo)
	if err != nil {
		return nil, err
	}
	if cfg.baseURL != "" {
		root = cfg.baseURL
	}
	if cfg.api == APIv2 {
		if cfg.projectID == "" {
			return nil, ErrProjectIDRequired
		}
		root += "/" + url.PathEscape(cfg.projectID)
	}

	if cfg.http == nil {
		cfg.http = httpclient.NewDefaultClient(cfg.timeout)
	}
	if cfg.maxTries == 0 {
		cfg.maxTries = 1
	}

	return &DefaultClient{
		http:            cfg.http,
		root:            root,
		user:            cfg.user,
		password:        cfg.password,
		api:             cfg.api,
		maxTries:        cfg.maxTries,
		initialInterval: cfg.initialInterval,
		tracer:          cfg.tracer,
		metrics:         cfg.metrics,
	}, nil
}

// Root returns the API root all paths are resolved against
func (c *DefaultClient) Root() string {
	return c.root
}

// Validate posts an XML request to /validatie
func (c *DefaultClient) Validate(ctx context.Context, payload []byte) (result *ValidationResult, err error) {
	ctx, finish := c.start(ctx, "Validate")
	defer func() { finish(err) }()

	resp, err := c.do(ctx, &httpclient.Request{
		Method:      http.MethodPost,
		URL:         c.root + "/validatie",
		Body:        payload,
		ContentType: "application/xml",
		Accept:      "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to validate request: %w", err)
	}

	result = parseValidation(resp.Body)
	trace.SpanFromContext(ctx).SetAttributes(otel.AttrValidationStatus.String(result.Status))
	c.metrics.RecordValidation(ctx, result.Status)
	slog.DebugContext(ctx, "Validation finished", "status", result.Status, "errors", len(result.Errors))

	return result, nil
}

// Deliver creates an upload, adds every document to it and delivers the upload
func (c *DefaultClient) Deliver(ctx context.Context, docs ...Document) (delivery *Delivery, err error) {
	ctx, finish := c.start(ctx, "Deliver", otel.AttrDocumentCount.Int(len(docs)))
	defer func() { finish(err) }()

	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	// Step 1: create an upload
	resp, err := c.doOnce(ctx, &httpclient.Request{
		Method:      http.MethodPost,
		URL:         c.root + "/uploads",
		ContentType: "application/xml",
		Accept:      "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create upload: %w", err)
	}
	uploadURL := resp.Location()
	if uploadURL == "" {
		return nil, fmt.Errorf("failed to create upload: %w", ErrNoLocation)
	}
	uploadID, err := lastSegment(uploadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload id: %w", err)
	}
	trace.SpanFromContext(ctx).SetAttributes(otel.AttrUploadID.Int(uploadID))

	// Step 2: add the sourcedocuments
	for _, doc := range docs {
		_, err := c.doOnce(ctx, &httpclient.Request{
			Method:      http.MethodPost,
			URL:         uploadURL + "/brondocumenten",
			Query:       url.Values{"filename": []string{doc.Filename}},
			Body:        doc.Payload,
			ContentType: "application/xml",
			Accept:      "application/json",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add sourcedocument %s to upload %d: %w", doc.Filename, uploadID, err)
		}
	}
	c.metrics.RecordDelivered(ctx, len(docs))

	// Step 3: deliver the upload
	body, err := json.Marshal(struct {
		Upload int `json:"upload"`
	}{Upload: uploadID})
	if err != nil {
		return nil, fmt.Errorf("failed to encode delivery: %w", err)
	}
	resp, err = c.doOnce(ctx, &httpclient.Request{
		Method:      http.MethodPost,
		URL:         c.root + "/leveringen",
		Body:        body,
		ContentType: "application/json",
		Accept:      "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deliver upload %d: %w", uploadID, err)
	}

	deliveryURL := resp.Location()
	if deliveryURL == "" {
		delivery = parseDelivery(resp.Body)
		if delivery.Identifier == "" {
			return nil, fmt.Errorf("failed to deliver upload %d: %w", uploadID, ErrNoLocation)
		}
		return delivery, nil
	}

	// Step 4: read back the delivery
	resp, err = c.do(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    deliveryURL,
		Accept: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read delivery: %w", err)
	}

	delivery = parseDelivery(resp.Body)
	trace.SpanFromContext(ctx).SetAttributes(otel.AttrDeliveryID.String(delivery.Identifier))
	slog.InfoContext(ctx, "Upload delivered",
		"upload_id", uploadID,
		"delivery_id", delivery.Identifier,
		"documents", len(docs),
	)

	return delivery, nil
}

// UploadDir delivers the files in dir that match pattern.
// An empty pattern selects DefaultPattern; a plain file name selects that file.
func (c *DefaultClient) UploadDir(ctx context.Context, dir, pattern string) (*Delivery, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to match %q in %s: %w", pattern, dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q in %s: %w", pattern, dir, ErrNoDocuments)
	}
	sort.Strings(matches)

	docs := make([]Document, 0, len(matches))
	for _, match := range matches {
		// #nosec G304 -- match comes from globbing inside the caller-selected directory
		payload, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(match)))
		if err != nil {
			return nil, fmt.Errorf("failed to read sourcedocument %s: %w", match, err)
		}
		docs = append(docs, Document{Filename: path.Base(match), Payload: payload})
	}

	return c.Deliver(ctx, docs...)
}

// DeliveryStatus looks up a delivery by identifier
func (c *DefaultClient) DeliveryStatus(ctx context.Context, id string) (delivery *Delivery, err error) {
	ctx, finish := c.start(ctx, "DeliveryStatus", otel.AttrDeliveryID.String(id))
	defer func() { finish(err) }()

	resp, err := c.do(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    c.root + "/leveringen/" + url.PathEscape(id),
		Accept: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery %s: %w", id, err)
	}

	return parseDelivery(resp.Body), nil
}

// SourceDocument looks up a delivered sourcedocument by identifier
func (c *DefaultClient) SourceDocument(ctx context.Context, id string) (info *SourceDocumentInfo, err error) {
	ctx, finish := c.start(ctx, "SourceDocument")
	defer func() { finish(err) }()

	resp, err := c.do(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    c.root + "/brondocumenten/" + url.PathEscape(id),
		Accept: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get sourcedocument %s: %w", id, err)
	}

	return parseSourceDocument(resp.Body), nil
}

// start opens a span for operation and returns the function that closes it
// and records the call duration.
func (c *DefaultClient) start(
	ctx context.Context,
	operation string,
	attrs ...attribute.KeyValue,
) (context.Context, func(error)) {
	attrs = append(attrs, otel.AttrAPIVersion.String(string(c.api)))
	ctx, span := otel.StartSpan(ctx, c.tracer, "connector."+operation, trace.WithAttributes(attrs...))
	begin := time.Now()

	return ctx, func(err error) {
		otel.RecordError(span, err)
		span.End()
		c.metrics.RecordCall(ctx, operation, time.Since(begin), err == nil)
	}
}

// doOnce authenticates req and sends it a single time.
// Calls that create something on the portal are never repeated.
func (c *DefaultClient) doOnce(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	req.Username = c.user
	req.Password = c.password
	return c.http.Do(ctx, req)
}

// do authenticates req and retries transient failures with exponential backoff.
// Only use it for calls that are safe to repeat.
func (c *DefaultClient) do(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	req.Username = c.user
	req.Password = c.password

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval

	attempt := 0
	return backoff.Retry(ctx, func() (*httpclient.Response, error) {
		attempt++
		resp, err := c.http.Do(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(ctx, err) {
			return nil, backoff.Permanent(err)
		}
		slog.DebugContext(ctx, "Portal call failed, retrying",
			"method", req.Method,
			"url", req.URL,
			"attempt", attempt,
			"error", err,
		)
		return nil, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.maxTries))
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}
	// transport failures (connection refused, reset, timeouts)
	return true
}

// lastSegment parses the numeric id at the end of an upload URL
func lastSegment(location string) (int, error) {
	u, err := url.Parse(location)
	if err != nil {
		return 0, err
	}
	segment := path.Base(strings.TrimRight(u.Path, "/"))
	id, err := strconv.Atoi(segment)
	if err != nil {
		return 0, fmt.Errorf("upload location %q does not end in a numeric id", location)
	}
	return id, nil
}
