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

// RedisUserRepository implements domain.UserRepository on the expiring store.
type RedisUserRepository struct {
	store *ExpiringStore
}

// NewRedisUserRepository creates a new user repository.
func NewRedisUserRepository(store *ExpiringStore) *RedisUserRepository {
	return &RedisUserRepository{store: store}
}

// Put writes the user record with the given TTL and registers the key for
// cleanup under the user's id. A rejoin overwrites the previous record.
func (r *RedisUserRepository) Put(ctx context.Context, user *models.UserRecord, ttl time.Duration) error {
	if user == nil || user.ID == "" {
		return domain.NewValidationError("user record requires a user id")
	}
	return r.store.SetFields(ctx, constants.UserKey(user.ID), user.ToFields(), SetOptions{TTL: ttl, TrackID: user.ID})
}

// Get returns the cached user record. Missing or expired entries yield a
// zero record.
func (r *RedisUserRepository) Get(ctx context.Context, userID string) (*models.UserRecord, error) {
	fields, err := r.store.GetFields(ctx, constants.UserKey(userID))
	if err != nil {
		return nil, err
	}
	return models.UserRecordFromFields(fields), nil
}
