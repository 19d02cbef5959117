// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/models"
)

func TestForwardPostsRecord(t *testing.T) {
	var got models.FeedbackRecord
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	rating := 9
	record := &models.FeedbackRecord{
		Rating:   &rating,
		Session:  models.SessionSnapshot{SessionID: "m1", SessionName: "Team retro"},
		User:     models.UserSnapshot{ID: "u1", Email: "ada@example.org"},
		Feedback: map[string]any{"comment": "great audio"},
	}

	c := NewClient(Config{URL: server.URL})
	require.NoError(t, c.Forward(context.Background(), record))

	assert.Equal(t, "application/json", contentType)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 9, *got.Rating)
	assert.Equal(t, "m1", got.Session.SessionID)
	assert.Equal(t, "ada@example.org", got.User.Email)
}

func TestForwardCollectorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(Config{URL: server.URL})
	err := c.Forward(context.Background(), &models.FeedbackRecord{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
	assert.Contains(t, err.Error(), "502")
}

func TestForwardUnreachableCollector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close()

	c := NewClient(Config{URL: server.URL})
	err := c.Forward(context.Background(), &models.FeedbackRecord{})
	require.Error(t, err)
}

func TestForwardNoEndpointConfigured(t *testing.T) {
	c := NewClient(Config{})
	assert.NoError(t, c.Forward(context.Background(), &models.FeedbackRecord{}))
}
