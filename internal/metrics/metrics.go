// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package metrics defines the service's OpenTelemetry instruments.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation name for the feedback service.
const meterName = "github.com/linuxfoundation/lfx-v2-feedback-service/internal/metrics"

// Metrics holds the service's counters and the ratings histogram. A nil
// *Metrics is valid and records nothing, so callers never have to guard
// instrumentation sites.
type Metrics struct {
	webhookEvents metric.Int64Counter
	webhookErrors metric.Int64Counter
	registrations metric.Int64Counter
	failures      metric.Int64Counter
	apiCalls      metric.Int64Counter
	apiCallErrors metric.Int64Counter
	ratings       metric.Int64Histogram
}

// New creates the service instruments on the global meter provider.
func New() (*Metrics, error) {
	meter := otel.Meter(meterName)

	webhookEvents, err := meter.Int64Counter("feedback.webhook.events",
		metric.WithDescription("Total number of webhook events received"))
	if err != nil {
		return nil, err
	}
	webhookErrors, err := meter.Int64Counter("feedback.webhook.errors",
		metric.WithDescription("Total number of errors processing webhooks"))
	if err != nil {
		return nil, err
	}
	registrations, err := meter.Int64Counter("feedback.registrations",
		metric.WithDescription("Total number of feedbacks registered"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("feedback.failures",
		metric.WithDescription("Total number of feedback registration failures"))
	if err != nil {
		return nil, err
	}
	apiCalls, err := meter.Int64Counter("feedback.api.calls",
		metric.WithDescription("Total number of conferencing server API calls made"))
	if err != nil {
		return nil, err
	}
	apiCallErrors, err := meter.Int64Counter("feedback.api.call_errors",
		metric.WithDescription("Total number of conferencing server API call errors"))
	if err != nil {
		return nil, err
	}
	ratings, err := meter.Int64Histogram("feedback.ratings",
		metric.WithDescription("Distribution of feedback ratings"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		webhookEvents: webhookEvents,
		webhookErrors: webhookErrors,
		registrations: registrations,
		failures:      failures,
		apiCalls:      apiCalls,
		apiCallErrors: apiCallErrors,
		ratings:       ratings,
	}, nil
}

// WebhookEvent counts one received webhook event by type.
func (m *Metrics) WebhookEvent(ctx context.Context, eventType string) {
	if m == nil {
		return
	}
	m.webhookEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("event_type", eventType)))
}

// WebhookError counts one webhook processing error.
func (m *Metrics) WebhookError(ctx context.Context) {
	if m == nil {
		return
	}
	m.webhookErrors.Add(ctx, 1)
}

// Registration counts one feedback registration by source (a device type,
// "skipped" or "skipped_no_rating").
func (m *Metrics) Registration(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// Failure counts one feedback registration failure by reason.
func (m *Metrics) Failure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// APICall counts one outbound conferencing server API call.
func (m *Metrics) APICall(ctx context.Context, api string) {
	if m == nil {
		return
	}
	m.apiCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("api", api)))
}

// APICallError counts one failed outbound conferencing server API call.
func (m *Metrics) APICallError(ctx context.Context, api string) {
	if m == nil {
		return
	}
	m.apiCallErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("api", api)))
}

// ObserveRating records one rating observation.
func (m *Metrics) ObserveRating(ctx context.Context, rating int) {
	if m == nil {
		return
	}
	m.ratings.Record(ctx, int64(rating))
}
