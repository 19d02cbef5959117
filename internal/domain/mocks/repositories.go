// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/models"
)

// MockSessionRepository implements SessionRepository for testing
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Put(ctx context.Context, session *models.SessionRecord, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SessionRecord), args.Error(1)
}

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Put(ctx context.Context, user *models.UserRecord, ttl time.Duration) error {
	args := m.Called(ctx, user, ttl)
	return args.Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, userID string) (*models.UserRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRecord), args.Error(1)
}

// MockFeedbackRepository implements FeedbackRepository for testing
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Exists(ctx context.Context, sessionID, userID string) (bool, error) {
	args := m.Called(ctx, sessionID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeedbackRepository) Create(ctx context.Context, sessionID, userID string, record *models.FeedbackRecord, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, sessionID, userID, record, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockFeedbackRepository) Get(ctx context.Context, sessionID, userID string) (*models.FeedbackRecord, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeedbackRecord), args.Error(1)
}

// MockTrackedKeyCleaner implements TrackedKeyCleaner for testing
type MockTrackedKeyCleaner struct {
	mock.Mock
}

func (m *MockTrackedKeyCleaner) CleanupByCorrelationID(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockFeedbackForwarder implements FeedbackForwarder for testing
type MockFeedbackForwarder struct {
	mock.Mock
}

func (m *MockFeedbackForwarder) Forward(ctx context.Context, record *models.FeedbackRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockHookRegistrar implements HookRegistrar for testing
type MockHookRegistrar struct {
	mock.Mock
}

func (m *MockHookRegistrar) Register(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockHookRegistrar) Deregister(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
