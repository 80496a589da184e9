/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"go.uber.org/zap"

	"github.com/mikeb26/ecfdash/s3cache"
)

// CacheOptions selects where cached ECF responses are kept.
type CacheOptions struct {
	// Bucket is the S3 bucket backing the cache. Empty means in-memory only.
	Bucket string
	// KeyPrefix namespaces the S3 objects; empty uses s3cache's default.
	KeyPrefix string
	Gzip      bool
}

// NewCachedHttpClient returns an http.Client that caches responses for
// maxAge. Responses go to S3 when a bucket is configured and reachable and
// to an in-memory cache otherwise.
func NewCachedHttpClient(ctx context.Context, opts CacheOptions,
	maxAge time.Duration) *http.Client {

	return NewCachedHttpClientWithTransport(ctx, opts, maxAge,
		http.DefaultTransport)
}

// NewCachedHttpClientWithTransport is NewCachedHttpClient over an explicit
// origin transport.
func NewCachedHttpClientWithTransport(ctx context.Context, opts CacheOptions,
	maxAge time.Duration, origin http.RoundTripper) *http.Client {

	log := zap.L().Named("httpcache")

	var cache httpcache.Cache
	if opts.Bucket != "" {
		s3c := s3cache.New(ctx, s3cache.Options{
			Bucket:    opts.Bucket,
			KeyPrefix: opts.KeyPrefix,
			Gzip:      opts.Gzip,
		})
		if err := s3c.Open(); err != nil {
			log.Warn("failed to init S3 cache; falling back to in-memory cache",
				zap.String("bucket", opts.Bucket), zap.Error(err))
		} else {
			cache = s3c
		}
	}
	if cache == nil {
		cache = httpcache.NewMemoryCache()
	}

	hc := httpcache.NewTransport(cache)
	// we have to inject our own header overrides here in order to override
	// server responses that might indicate caching shouldn't be done
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: origin,
		Response: func(resp *http.Response) error {
			// Strip any cache-busting headers from origin
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			// Enforce the provided TTL
			resp.Header.Set("Cache-Control",
				fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		},
	}

	return &http.Client{Transport: &cacheHitCounter{wrappedRT: hc}}
}

// IsCachedResponse reports whether resp was served from the local cache.
func IsCachedResponse(resp *http.Response) bool {
	return resp.Header.Get(httpcache.XFromCache) == "1"
}

type cacheHitCounter struct {
	wrappedRT http.RoundTripper
}

func (t *cacheHitCounter) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.wrappedRT.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if IsCachedResponse(resp) {
		CacheLookups.WithLabelValues("hit").Inc()
	} else {
		CacheLookups.WithLabelValues("miss").Inc()
	}
	return resp, nil
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	// Underlying RoundTripper (e.g. default transport or another decorator)
	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so we don’t stomp on the caller’s original
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
