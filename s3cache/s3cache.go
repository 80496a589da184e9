/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3cache is an httpcache.Cache kept in an S3 bucket, so cached ECF
 * api responses survive restarts and can be shared between the dashboard,
 * the discord bot and the cache seeder.
 */
package s3cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// DefaultKeyPrefix is the object key prefix used when none is configured.
const DefaultKeyPrefix = "s3cache"

const gzipSuffix = ".gz"

// Options selects the bucket and object layout of a Cache.
type Options struct {
	Bucket string
	// KeyPrefix namespaces object keys so that several caches can share one
	// bucket. Empty means DefaultKeyPrefix.
	KeyPrefix string
	// Gzip compresses stored responses and suffixes their keys with ".gz".
	Gzip bool
}

// Cache keeps http responses in S3. S3 failures are logged and reported to
// httpcache as misses.
type Cache struct {
	opts   Options
	ctx    context.Context
	client *s3.Client
	log    *zap.Logger
}

// New returns a Cache for opts. Open must succeed before the cache is used.
func New(ctx context.Context, opts Options) *Cache {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}

	return &Cache{
		opts: opts,
		ctx:  ctx,
		log:  zap.L().Named("s3cache").With(zap.String("bucket", opts.Bucket)),
	}
}

// Open loads credentials from the default AWS sources (environment, shared
// config and credential files) and checks that the bucket can be read.
func (c *Cache) Open() error {
	cfg, err := config.LoadDefaultConfig(c.ctx)
	if err != nil {
		return fmt.Errorf("loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)

	if _, err := client.HeadBucket(c.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.opts.Bucket),
	}); err != nil {
		return fmt.Errorf("checking bucket %v: %w", c.opts.Bucket, err)
	}
	// listing is what distinguishes a miss from a permission failure
	if _, err := client.ListObjectsV2(c.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(c.opts.Bucket),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("listing bucket %v: %w", c.opts.Bucket, err)
	}

	c.client = client
	return nil
}

// Get returns the response stored under key.
func (c *Cache) Get(key string) ([]byte, bool) {
	objKey := c.objectKey(key)
	resp, err := c.client.GetObject(c.ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.opts.Bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		if !isMissing(err) {
			c.warn("get failed", objKey, err)
		}
		return nil, false
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if c.opts.Gzip {
		zr, err := gzip.NewReader(body)
		if err != nil {
			c.warn("opening compressed object failed", objKey, err)
			return nil, false
		}
		defer zr.Close()
		body = zr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		c.warn("reading object failed", objKey, err)
		return nil, false
	}

	return data, true
}

// Set stores data under key.
func (c *Cache) Set(key string, data []byte) {
	objKey := c.objectKey(key)
	input := &s3.PutObjectInput{
		Bucket: aws.String(c.opts.Bucket),
		Key:    aws.String(objKey),
	}
	if c.opts.Gzip {
		zdata, err := compress(data)
		if err != nil {
			c.warn("compressing object failed", objKey, err)
			return
		}
		data = zdata
		input.ContentEncoding = aws.String("gzip")
	}
	input.Body = bytes.NewReader(data)

	if _, err := c.client.PutObject(c.ctx, input); err != nil {
		c.warn("put failed", objKey, err)
	}
}

// Delete removes the response stored under key.
func (c *Cache) Delete(key string) {
	objKey := c.objectKey(key)
	if _, err := c.client.DeleteObject(c.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.opts.Bucket),
		Key:    aws.String(objKey),
	}); err != nil {
		c.warn("delete failed", objKey, err)
	}
}

// objectKey maps an httpcache key, which is a request url, onto a fixed
// length object key under the configured prefix.
func (c *Cache) objectKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	objKey := "/" + c.opts.KeyPrefix + "/" + hex.EncodeToString(sum[:])
	if c.opts.Gzip {
		objKey += gzipSuffix
	}

	return objKey
}

func (c *Cache) warn(msg string, objKey string, err error) {
	c.log.Warn(msg, zap.String("key", objKey), zap.Error(err))
}

func isMissing(err error) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey"
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
