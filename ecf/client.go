/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package ecf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mikeb26/ecfdash/internal"
)

const (
	DefaultGameLimit = 2000

	defaultGamesTTL  = 10 * time.Minute
	defaultPlayerTTL = 18 * time.Hour
	defaultSearchTTL = 400800 * time.Second
)

var tracer = otel.Tracer("github.com/mikeb26/ecfdash/ecf")

// ClientOptions configures a Client. The zero value talks to the public ECF
// api through in-memory caches with no request pacing.
type ClientOptions struct {
	BaseURL           string
	GameLimit         int
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration

	Cache     internal.CacheOptions
	GamesTTL  time.Duration
	PlayerTTL time.Duration
	SearchTTL time.Duration

	// Transport replaces the origin transport underneath the cache.
	Transport http.RoundTripper
}

type Client struct {
	apiBase   string
	gameLimit int

	httpClientGames  *http.Client
	httpClientPlayer *http.Client
	httpClientSearch *http.Client

	log *zap.Logger
}

func NewClient(ctx context.Context, opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = internal.ECFAPIBase
	}
	if opts.GameLimit <= 0 {
		opts.GameLimit = DefaultGameLimit
	}
	if opts.GamesTTL == 0 {
		opts.GamesTTL = defaultGamesTTL
	}
	if opts.PlayerTTL == 0 {
		opts.PlayerTTL = defaultPlayerTTL
	}
	if opts.SearchTTL == 0 {
		opts.SearchTTL = defaultSearchTTL
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}
	// pacing sits underneath the cache so that cache hits are never delayed
	origin := &limitedTransport{
		limiter:   rate.NewLimiter(limit, burst),
		wrappedRT: opts.Transport,
	}

	ret := &Client{
		apiBase:   strings.TrimRight(opts.BaseURL, "?/"),
		gameLimit: opts.GameLimit,
		httpClientGames: internal.NewCachedHttpClientWithTransport(ctx,
			opts.Cache, opts.GamesTTL, origin),
		httpClientPlayer: internal.NewCachedHttpClientWithTransport(ctx,
			opts.Cache, opts.PlayerTTL, origin),
		httpClientSearch: internal.NewCachedHttpClientWithTransport(ctx,
			opts.Cache, opts.SearchTTL, origin),
		log: zap.L().Named("ecf"),
	}
	for _, hc := range []*http.Client{ret.httpClientGames,
		ret.httpClientPlayer, ret.httpClientSearch} {
		hc.Timeout = opts.Timeout
	}

	return ret
}

// endpoint builds the api url for path. The ECF api carries its route in the
// raw query string, e.g. api.php?v2/players/code/123456A.
func (client *Client) endpoint(path string) string {
	return fmt.Sprintf("%v?v2/%v", client.apiBase, path)
}

// getJSON performs a GET against the api and decodes the body into out.
// endpointName labels the span and metrics.
func (client *Client) getJSON(ctx context.Context, hc *http.Client,
	endpointName string, path string, out any) error {

	ctx, span := tracer.Start(ctx, "ecf."+endpointName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("ecf.path", path)))
	defer span.End()

	start := time.Now()
	outcome := "error"
	defer func() {
		internal.UpstreamRequests.WithLabelValues(endpointName, outcome).Inc()
		internal.UpstreamLatency.WithLabelValues(endpointName).
			Observe(time.Since(start).Seconds())
	}()

	err := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", client.endpoint(path), nil)
		if err != nil {
			return fmt.Errorf("creating %v request: %w", endpointName, err)
		}
		req.Header.Set("User-Agent", internal.UserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := hc.Do(req)
		if err != nil {
			return fmt.Errorf("%w: performing %v HTTP GET: %w", ErrUpstream,
				endpointName, err)
		}
		defer resp.Body.Close()

		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode),
			attribute.Bool("ecf.cached", internal.IsCachedResponse(resp)))
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("%w: unexpected %v status %d: %s", ErrUpstream,
				endpointName, resp.StatusCode, string(body))
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding %v JSON: %w", ErrUpstream,
				endpointName, err)
		}
		if internal.IsCachedResponse(resp) {
			outcome = "cached"
		} else {
			outcome = "ok"
		}
		return nil
	}()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		client.log.Debug("ecf api request failed",
			zap.String("endpoint", endpointName), zap.String("path", path),
			zap.Error(err))
	}

	return err
}

type limitedTransport struct {
	limiter   *rate.Limiter
	wrappedRT http.RoundTripper
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.wrappedRT.RoundTrip(req)
}
