// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/infrastructure/collector"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/infrastructure/hooks"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/metrics"
)

// repositories bundles the store-backed repositories of the service.
type repositories struct {
	Store    *store.ExpiringStore
	Session  *store.RedisSessionRepository
	User     *store.RedisUserRepository
	Feedback *store.RedisFeedbackRepository
}

// setupRedis connects to Redis and verifies the connection.
func setupRedis(ctx context.Context, env environment) (*redis.Client, error) {
	opts, err := redis.ParseURL(env.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// setupRepositories builds the expiring store and its repositories on the
// Redis connection.
func setupRepositories(client *redis.Client, env environment) repositories {
	expiringStore := store.NewExpiringStore(client, env.CacheTTL)
	return repositories{
		Store:    expiringStore,
		Session:  store.NewRedisSessionRepository(expiringStore),
		User:     store.NewRedisUserRepository(expiringStore),
		Feedback: store.NewRedisFeedbackRepository(expiringStore),
	}
}

// setupMetrics installs the OTLP metric exporter when an endpoint is
// configured and returns the provider shutdown function. Without an endpoint
// the instruments stay on the default no-op provider.
func setupMetrics(ctx context.Context) (func(context.Context) error, error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT") == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	)
	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}

// setupHooks builds the hook lifecycle manager.
func setupHooks(env environment, m *metrics.Metrics) *hooks.Manager {
	return hooks.NewManager(hooks.Config{
		BaseURL:     env.BasicURL,
		APIPath:     env.APIPath,
		Secret:      env.SharedSecret,
		CallbackURL: env.CallbackURL,
		CreatePath:  env.HooksCreatePath,
		DestroyPath: env.HooksDestroyPath,
	}, m)
}

// setupCollector builds the downstream forwarder client.
func setupCollector(env environment) *collector.Client {
	return collector.NewClient(collector.Config{URL: env.CollectorURL})
}
