// Package fetch implements the Optix Flow descriptor client.
package fetch

import (
	"context"
	"net/http"

	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/jfk9w-go/flu/httpf"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/me3x"
	"github.com/jfk9w-go/flu/syncf"
	"github.com/pkg/errors"

	"github.com/optixflow/optixflow-go/cache"
	"github.com/optixflow/optixflow-go/cdn"
	"github.com/optixflow/optixflow-go/descriptor"
)

type Config struct {
	Host    string       `yaml:"host,omitempty" doc:"CDN origin used for descriptor lookups and URL normalization." default:"https://cdn.optixflow.com"`
	Timeout flu.Duration `yaml:"timeout,omitempty" doc:"Timeout to use while making HTTP requests." default:"30s"`
}

// Context is the application configuration interface.
type Context interface {
	OptixCDNConfig() Config
}

// Store is the descriptor cache consulted and populated by the client.
type Store interface {
	Get(ctx context.Context, key string) (*descriptor.Descriptor, bool)
	Set(ctx context.Context, key string, value *descriptor.Descriptor)
}

// Client is a mixin encapsulating the Optix Flow CDN client.
type Client[C Context] struct {
	*client
}

func (c *Client[C]) Include(ctx context.Context, app apfel.MixinApp[C]) error {
	return c.Standalone(ctx, app.Config().OptixCDNConfig())
}

// Standalone allows to initialize the Client outside an apfel application
// context. Create the Config with apfel.Default[Config]() in this case to
// properly initialize default values.
func (c *Client[C]) Standalone(ctx context.Context, config Config) error {
	transport := httpf.NewDefaultTransport()
	transport.ResponseHeaderTimeout = config.Timeout.Value
	c.client = &client{
		client:  &http.Client{Transport: transport},
		host:    cdn.NormalizeHost(config.Host),
		cache:   cache.NewMemory[*descriptor.Descriptor](),
		metrics: me3x.DummyRegistry{},
	}

	logf.Get(c).Tracef(ctx, "started with host %s", c.client.host)
	return nil
}

// NewClient creates a standalone client for a host with an empty cache.
func NewClient(host string, httpClient httpf.Client, metrics me3x.Registry) *Client[Context] {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if metrics == nil {
		metrics = me3x.DummyRegistry{}
	}

	return &Client[Context]{
		client: &client{
			client:  httpClient,
			host:    cdn.NormalizeHost(host),
			cache:   cache.NewMemory[*descriptor.Descriptor](),
			metrics: metrics,
		},
	}
}

type client struct {
	client  httpf.Client
	host    string
	cache   Store
	metrics me3x.Registry
}

func (c *client) String() string {
	return "optix.client"
}

func (c *client) Host() string {
	return c.host
}

func (c *client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)
	logf.Get(c).Resultf(req.Context(), logf.Trace, logf.Warn, "%s => %v", httpf.RequestBuilder{Request: req}, err)
	return resp, err
}

// Option adjusts a single Descriptor call.
type Option func(*options)

type options struct {
	host        string
	bypassCache bool
}

// WithHost overrides the CDN origin for this call.
func WithHost(host string) Option {
	return func(o *options) { o.host = cdn.NormalizeHost(host) }
}

// BypassCache skips the cache read for this call.
// A renderable result still populates the cache.
func BypassCache() Option {
	return func(o *options) { o.bypassCache = true }
}

// Descriptor fetches the image descriptor for an ID.
//
// The primary endpoint is attempted first, then the legacy one. Context
// cancellation is terminal and never falls back to the next endpoint. The
// descriptor is returned regardless of renderability, but only renderable
// results populate the cache so that later calls can retry.
//
// Concurrent calls for the same ID are independent and not de-duplicated:
// each one is separately cancellable by its caller.
func (c *client) Descriptor(ctx context.Context, id descriptor.ID, opts ...Option) (*descriptor.Descriptor, error) {
	if id <= 0 {
		return nil, errors.Wrapf(ErrInvalidID, "%d", id)
	}

	o := options{host: c.host}
	for _, opt := range opts {
		opt(&o)
	}

	key := cache.DescriptorKey(o.host, id)
	if !o.bypassCache {
		if cached, ok := c.cache.Get(ctx, key); ok {
			c.metrics.Counter("cache_hit", nil).Inc()
			return cached, nil
		}
	}

	var last error
	for _, url := range []string{cdn.PrimaryURL(o.host, id), cdn.LegacyURL(o.host, id)} {
		d, err := c.get(ctx, url)
		if err == nil {
			c.metrics.Counter("fetch_ok", nil).Inc()
			if d.ID == 0 {
				d.ID = id
			}

			if d.Renderable() {
				c.cache.Set(ctx, key, d)
			}

			return d, nil
		}

		if syncf.IsContextRelated(err) {
			return nil, err
		}

		logf.Get(c).Warnf(ctx, "fetch %s: %v", url, err)
		last = err
	}

	c.metrics.Counter("fetch_error", nil).Inc()
	return nil, last
}

func (c *client) get(ctx context.Context, url string) (*descriptor.Descriptor, error) {
	var d descriptor.Descriptor
	var statusCode int
	err := httpf.GET(url).
		Exchange(ctx, c).
		HandleFunc(func(resp *http.Response) error {
			statusCode = resp.StatusCode
			if resp.StatusCode != http.StatusOK {
				return httpf.StatusCodeError{StatusCode: resp.StatusCode, Status: resp.Status}
			}

			return nil
		}).
		DecodeBody(flu.JSON(&d)).
		Error()
	if err != nil {
		if syncf.IsContextRelated(err) {
			return nil, err
		}

		if statusCode == http.StatusOK {
			statusCode = 0
		}

		return nil, &EndpointError{URL: url, StatusCode: statusCode, Err: err}
	}

	return &d, nil
}
