// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package store implements the keyed expiring store on Redis, plus the
// per-entity repositories built on top of it.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-feedback-service/pkg/concurrent"
)

// tracerName is the instrumentation name for the store package.
const tracerName = "github.com/linuxfoundation/lfx-v2-feedback-service/internal/infrastructure/store"

// cleanupWorkers bounds the parallel deletes issued by a cleanup pass.
const cleanupWorkers = 4

// IRedisClient is the Redis client surface needed by the [ExpiringStore].
// This interface matches *redis.Client and allows for mocking in tests.
type IRedisClient interface {
	redis.Scripter
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// hsetExpireScript writes hash fields and (re)sets the key's expiration in a
// single atomic step, so a write is never left without an expiration.
// ARGV[1] is the TTL in milliseconds, the rest are field/value pairs.
var hsetExpireScript = redis.NewScript(`
redis.call('HSET', KEYS[1], unpack(ARGV, 2))
redis.call('PEXPIRE', KEYS[1], ARGV[1])
return 1
`)

// SetOptions control a SetFields write.
type SetOptions struct {
	// TTL is the entry's time to live. Zero means the store's default TTL.
	TTL time.Duration

	// TrackID, when non-empty, registers the written key in the tracked-key
	// index under this correlation id so that a later cleanup pass can delete
	// it.
	TrackID string
}

// ExpiringStore is an abstraction over a Redis-backed hash store where every
// write carries an expiration. It also owns the process-local tracked-key
// index used for targeted cleanup by correlation id.
type ExpiringStore struct {
	client     IRedisClient
	defaultTTL time.Duration
	tracked    *trackedKeyIndex
	pool       *concurrent.WorkerPool
}

// NewExpiringStore creates a store with the given default TTL for writes
// that do not specify one.
func NewExpiringStore(client IRedisClient, defaultTTL time.Duration) *ExpiringStore {
	return &ExpiringStore{
		client:     client,
		defaultTTL: defaultTTL,
		tracked:    newTrackedKeyIndex(),
		pool:       concurrent.NewWorkerPool(cleanupWorkers),
	}
}

// IsReady checks if the store is usable.
func (s *ExpiringStore) IsReady() bool {
	return s != nil && s.client != nil
}

// SetFields atomically writes the field map into the hash at key and (re)sets
// its expiration. When opts.TrackID is set, the key is registered in the
// tracked-key index under that correlation id.
func (s *ExpiringStore) SetFields(ctx context.Context, key string, fields map[string]string, opts SetOptions) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "redis.hset_expire",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", "hset_expire"),
			attribute.String("db.redis.key", key),
		),
	)
	defer span.End()

	if !s.IsReady() {
		err := domain.NewUnavailableError("expiring store is not available", domain.ErrServiceUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if len(fields) == 0 {
		err := domain.NewValidationError("no fields to write")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	args := make([]interface{}, 0, 1+2*len(fields))
	args = append(args, ttl.Milliseconds())
	for field, value := range fields {
		args = append(args, field, value)
	}

	if err := hsetExpireScript.Run(ctx, s.client, []string{key}, args...).Err(); err != nil {
		slog.ErrorContext(ctx, "error writing hash to redis", logging.ErrKey, err, "key", key)
		err = domain.NewInternalError("failed to write entry to store", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if opts.TrackID != "" {
		s.tracked.Track(opts.TrackID, key)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetFields returns the full field map stored at key. A missing or expired
// key yields an empty map, not an error: callers must treat empty as "no
// data".
func (s *ExpiringStore) GetFields(ctx context.Context, key string) (map[string]string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "redis.hgetall",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", "hgetall"),
			attribute.String("db.redis.key", key),
		),
	)
	defer span.End()

	if !s.IsReady() {
		err := domain.NewUnavailableError("expiring store is not available", domain.ErrServiceUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		slog.ErrorContext(ctx, "error reading hash from redis", logging.ErrKey, err, "key", key)
		err = domain.NewInternalError("failed to read entry from store", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if fields == nil {
		fields = map[string]string{}
	}

	span.SetStatus(codes.Ok, "")
	return fields, nil
}

// SetValueIfAbsent writes a plain value at key with the given TTL only when
// the key does not exist yet. It reports whether the write happened.
func (s *ExpiringStore) SetValueIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "redis.setnx",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", "setnx"),
			attribute.String("db.redis.key", key),
		),
	)
	defer span.End()

	if !s.IsReady() {
		err := domain.NewUnavailableError("expiring store is not available", domain.ErrServiceUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	created, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		slog.ErrorContext(ctx, "error writing value to redis", logging.ErrKey, err, "key", key)
		err = domain.NewInternalError("failed to write entry to store", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetAttributes(attribute.Bool("db.redis.created", created))
	span.SetStatus(codes.Ok, "")
	return created, nil
}

// GetValue returns the plain value stored at key and whether it exists.
func (s *ExpiringStore) GetValue(ctx context.Context, key string) (string, bool, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "redis.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", "get"),
			attribute.String("db.redis.key", key),
		),
	)
	defer span.End()

	if !s.IsReady() {
		err := domain.NewUnavailableError("expiring store is not available", domain.ErrServiceUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", false, err
	}

	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetStatus(codes.Ok, "")
			return "", false, nil
		}
		slog.ErrorContext(ctx, "error reading value from redis", logging.ErrKey, err, "key", key)
		err = domain.NewInternalError("failed to read entry from store", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", false, err
	}

	span.SetStatus(codes.Ok, "")
	return value, true, nil
}

// Delete removes the entry at key. Deleting a missing key is not an error.
func (s *ExpiringStore) Delete(ctx context.Context, key string) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "redis.del",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", "del"),
			attribute.String("db.redis.key", key),
		),
	)
	defer span.End()

	if !s.IsReady() {
		err := domain.NewUnavailableError("expiring store is not available", domain.ErrServiceUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		slog.ErrorContext(ctx, "error deleting key from redis", logging.ErrKey, err, "key", key)
		err = domain.NewInternalError("failed to delete entry from store", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// CleanupByCorrelationID deletes every tracked key registered under the
// correlation id and removes exactly those entries from the index, leaving
// unrelated tracked keys intact. It returns the keys that were removed.
func (s *ExpiringStore) CleanupByCorrelationID(ctx context.Context, id string) ([]string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "store.cleanup",
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("correlation_id", id),
		),
	)
	defer span.End()

	if !s.IsReady() {
		err := domain.NewUnavailableError("expiring store is not available", domain.ErrServiceUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if id == "" {
		span.SetStatus(codes.Ok, "")
		return nil, nil
	}

	keys := s.tracked.Take(id)
	if len(keys) == 0 {
		span.SetStatus(codes.Ok, "")
		return nil, nil
	}

	deletes := make([]func() error, len(keys))
	for i, key := range keys {
		deletes[i] = func() error {
			if err := s.client.Del(ctx, key).Err(); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
			return nil
		}
	}

	if errs := s.pool.RunAll(ctx, deletes...); len(errs) > 0 {
		err := domain.NewInternalError("failed to clean up tracked keys", errors.Join(errs...))
		slog.ErrorContext(ctx, "cleanup left keys behind until expiry",
			logging.ErrKey, err, "correlation_id", id)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return keys, err
	}

	span.SetAttributes(attribute.Int("store.cleaned_keys", len(keys)))
	span.SetStatus(codes.Ok, "")
	return keys, nil
}

// TrackedKeyCount reports the number of keys currently tracked under the
// correlation id.
func (s *ExpiringStore) TrackedKeyCount(id string) int {
	return s.tracked.Count(id)
}
