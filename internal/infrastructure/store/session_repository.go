// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-feedback-service/pkg/constants"
)

// RedisSessionRepository implements domain.SessionRepository on the expiring
// store.
type RedisSessionRepository struct {
	store *ExpiringStore
}

// NewRedisSessionRepository creates a new session repository.
func NewRedisSessionRepository(store *ExpiringStore) *RedisSessionRepository {
	return &RedisSessionRepository{store: store}
}

// Put writes the session record with the given TTL. Session keys are not
// registered for cleanup: a meeting-end could still be followed by a late
// feedback submission, so session entries only expire.
func (r *RedisSessionRepository) Put(ctx context.Context, session *models.SessionRecord, ttl time.Duration) error {
	if session == nil || session.SessionID == "" {
		return domain.NewValidationError("session record requires a session id")
	}
	return r.store.SetFields(ctx, constants.SessionKey(session.SessionID), session.ToFields(), SetOptions{TTL: ttl})
}

// Get returns the cached session record. Missing or expired entries yield a
// zero record.
func (r *RedisSessionRepository) Get(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	fields, err := r.store.GetFields(ctx, constants.SessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	return models.SessionRecordFromFields(fields), nil
}
