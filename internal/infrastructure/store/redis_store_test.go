// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
)

func newTestStore() (*ExpiringStore, *mockRedisClient) {
	client := newMockRedisClient()
	return NewExpiringStore(client, time.Hour), client
}

func TestExpiringStoreSetGetFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	fields := map[string]string{"name": "Weekly sync", "session_id": "m1"}
	require.NoError(t, s.SetFields(ctx, "feedback:session:m1", fields, SetOptions{}))

	got, err := s.GetFields(ctx, "feedback:session:m1")
	require.NoError(t, err)
	assert.Equal(t, fields, got)
}

func TestExpiringStoreGetFieldsMissingKey(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	// Absent keys yield an empty map, not an error.
	got, err := s.GetFields(ctx, "feedback:session:nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpiringStoreSetFieldsValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	err := s.SetFields(ctx, "key", map[string]string{}, SetOptions{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestExpiringStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	err := s.SetFields(ctx, "feedback:session:short", map[string]string{"session_id": "short"},
		SetOptions{TTL: 30 * time.Millisecond})
	require.NoError(t, err)

	got, err := s.GetFields(ctx, "feedback:session:short")
	require.NoError(t, err)
	assert.NotEmpty(t, got)

	time.Sleep(60 * time.Millisecond)

	got, err = s.GetFields(ctx, "feedback:session:short")
	require.NoError(t, err)
	assert.Empty(t, got, "expired entry must read as no data")
}

func TestExpiringStoreWriteAlwaysHasExpiration(t *testing.T) {
	ctx := context.Background()
	client := newMockRedisClient()
	s := NewExpiringStore(client, 40*time.Millisecond)

	// Zero TTL falls back to the store default, so no write is ever
	// unexpiring.
	require.NoError(t, s.SetFields(ctx, "feedback:user:u1", map[string]string{"id": "u1"}, SetOptions{}))

	client.mu.Lock()
	entry := client.data["feedback:user:u1"]
	client.mu.Unlock()
	require.NotNil(t, entry)
	assert.False(t, entry.expiresAt.IsZero())
}

func TestExpiringStoreSetValueIfAbsent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	created, err := s.SetValueIfAbsent(ctx, "feedback:m1:u1", `{"rating":9}`, time.Hour)
	require.NoError(t, err)
	assert.True(t, created)

	// Second write for the same key must lose.
	created, err = s.SetValueIfAbsent(ctx, "feedback:m1:u1", `{"rating":1}`, time.Hour)
	require.NoError(t, err)
	assert.False(t, created)

	value, found, err := s.GetValue(ctx, "feedback:m1:u1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"rating":9}`, value)
}

func TestExpiringStoreGetValueMissing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	_, found, err := s.GetValue(ctx, "feedback:m1:u1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExpiringStoreCleanupByCorrelationID(t *testing.T) {
	ctx := context.Background()
	s, client := newTestStore()

	// Tracked entries for two users plus an untracked session.
	require.NoError(t, s.SetFields(ctx, "feedback:user:U1", map[string]string{"id": "U1"},
		SetOptions{TrackID: "U1"}))
	require.NoError(t, s.SetFields(ctx, "feedback:user:U12", map[string]string{"id": "U12"},
		SetOptions{TrackID: "U12"}))
	require.NoError(t, s.SetFields(ctx, "feedback:session:m1", map[string]string{"session_id": "m1"},
		SetOptions{}))

	deleted, err := s.CleanupByCorrelationID(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, []string{"feedback:user:U1"}, deleted)

	// U12's entry must survive even though "U1" is a substring of "U12".
	got, err := s.GetFields(ctx, "feedback:user:U12")
	require.NoError(t, err)
	assert.NotEmpty(t, got)

	// Untracked session entries are never cleaned up.
	got, err = s.GetFields(ctx, "feedback:session:m1")
	require.NoError(t, err)
	assert.NotEmpty(t, got)

	got, err = s.GetFields(ctx, "feedback:user:U1")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Len(t, client.keysMatching("feedback:"), 2)
	assert.Equal(t, 0, s.TrackedKeyCount("U1"))
	assert.Equal(t, 1, s.TrackedKeyCount("U12"))
}

func TestExpiringStoreCleanupUnknownID(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	deleted, err := s.CleanupByCorrelationID(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, deleted)

	deleted, err = s.CleanupByCorrelationID(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestExpiringStoreCleanupDeleteFailure(t *testing.T) {
	ctx := context.Background()
	s, client := newTestStore()

	require.NoError(t, s.SetFields(ctx, "feedback:user:U1", map[string]string{"id": "U1"},
		SetOptions{TrackID: "U1"}))

	client.delError = errors.New("connection reset")

	_, err := s.CleanupByCorrelationID(ctx, "U1")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeInternal, domain.GetErrorType(err))
}

func TestExpiringStoreConcurrentTrackAndCleanup(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	const users = 50
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%03d", i)
			key := "feedback:user:" + id
			if err := s.SetFields(ctx, key, map[string]string{"id": id}, SetOptions{TrackID: id}); err != nil {
				t.Error(err)
				return
			}
			if _, err := s.CleanupByCorrelationID(ctx, id); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < users; i++ {
		id := fmt.Sprintf("user-%03d", i)
		assert.Equal(t, 0, s.TrackedKeyCount(id))
	}
}

func TestExpiringStoreNotReady(t *testing.T) {
	ctx := context.Background()
	s := NewExpiringStore(nil, time.Hour)

	err := s.SetFields(ctx, "key", map[string]string{"a": "b"}, SetOptions{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	_, err = s.GetFields(ctx, "key")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	_, _, err = s.GetValue(ctx, "key")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)

	_, err = s.CleanupByCorrelationID(ctx, "id")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}
