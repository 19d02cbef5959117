// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-feedback-service/pkg/constants"
)

// RedisFeedbackRepository implements domain.FeedbackRepository on the
// expiring store. Records are stored as JSON under the composite
// feedback:<sessionId>:<userId> key.
type RedisFeedbackRepository struct {
	store *ExpiringStore
}

// NewRedisFeedbackRepository creates a new feedback repository.
func NewRedisFeedbackRepository(store *ExpiringStore) *RedisFeedbackRepository {
	return &RedisFeedbackRepository{store: store}
}

// Exists reports whether a feedback record was already persisted for the
// (session, user) pair.
func (r *RedisFeedbackRepository) Exists(ctx context.Context, sessionID, userID string) (bool, error) {
	_, found, err := r.store.GetValue(ctx, constants.FeedbackKey(sessionID, userID))
	return found, err
}

// Create persists the record with the given TTL only when no record exists
// for the pair yet. The conditional write is what enforces the
// one-submission-per-pair invariant under concurrent submissions.
func (r *RedisFeedbackRepository) Create(ctx context.Context, sessionID, userID string, record *models.FeedbackRecord, ttl time.Duration) (bool, error) {
	if sessionID == "" || userID == "" {
		return false, domain.NewValidationError("feedback record requires session and user ids")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return false, domain.NewInternalError("failed to marshal feedback record", err)
	}

	return r.store.SetValueIfAbsent(ctx, constants.FeedbackKey(sessionID, userID), string(data), ttl)
}

// Get returns the persisted record for the pair, or nil when absent.
func (r *RedisFeedbackRepository) Get(ctx context.Context, sessionID, userID string) (*models.FeedbackRecord, error) {
	value, found, err := r.store.GetValue(ctx, constants.FeedbackKey(sessionID, userID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var record models.FeedbackRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, domain.NewInternalError("failed to unmarshal feedback record", err)
	}
	return &record, nil
}
