// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/models"
)

// SessionRepository stores the short-lived session projections written by the
// ingestion pipeline. Implementations are expiring caches, not durable
// storage: a Get after expiry returns a zero record and no error.
type SessionRepository interface {
	// Put writes the session record with the given TTL. Session entries are
	// deliberately not registered for cleanup; they only expire.
	Put(ctx context.Context, session *models.SessionRecord, ttl time.Duration) error

	// Get returns the cached record for the internal meeting id. A missing or
	// expired entry yields a zero record, not an error.
	Get(ctx context.Context, sessionID string) (*models.SessionRecord, error)
}

// UserRepository stores the short-lived user projections written by the
// ingestion pipeline.
type UserRepository interface {
	// Put writes the user record with the given TTL and registers the key for
	// cleanup by the user's correlation id. Rejoins overwrite (last write
	// wins).
	Put(ctx context.Context, user *models.UserRecord, ttl time.Duration) error

	// Get returns the cached record for the internal user id. A missing or
	// expired entry yields a zero record, not an error.
	Get(ctx context.Context, userID string) (*models.UserRecord, error)
}

// FeedbackRepository persists the final merged feedback records. At most one
// record may ever exist per (session, user) pair.
type FeedbackRepository interface {
	// Exists reports whether a record was already submitted for the pair.
	Exists(ctx context.Context, sessionID, userID string) (bool, error)

	// Create persists the record with the given TTL if and only if no record
	// exists for the pair yet. It returns false when the pair already has a
	// record, closing the read-then-write race between concurrent
	// submissions.
	Create(ctx context.Context, sessionID, userID string, record *models.FeedbackRecord, ttl time.Duration) (bool, error)

	// Get returns the persisted record for the pair, or nil when absent.
	Get(ctx context.Context, sessionID, userID string) (*models.FeedbackRecord, error)
}

// TrackedKeyCleaner removes the cleanup-tracked cache entries associated
// with a correlation id (a session or user id).
type TrackedKeyCleaner interface {
	// CleanupByCorrelationID deletes every tracked key registered under the
	// id and returns the keys that were deleted. Unrelated tracked keys are
	// left intact.
	CleanupByCorrelationID(ctx context.Context, id string) ([]string, error)
}

// FeedbackForwarder delivers a persisted feedback record to the downstream
// collector. Delivery is at-least-once and best-effort: failures are logged
// and counted, never surfaced to the submitting client.
type FeedbackForwarder interface {
	Forward(ctx context.Context, record *models.FeedbackRecord) error
}

// HookRegistrar manages the webhook subscription with the conferencing
// server.
type HookRegistrar interface {
	// Register creates the webhook subscription and returns its hook id.
	Register(ctx context.Context) (string, error)

	// Deregister destroys the subscription created by Register. Best-effort:
	// an error must not block shutdown.
	Deregister(ctx context.Context) error
}
