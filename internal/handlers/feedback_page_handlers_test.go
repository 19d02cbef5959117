// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/service"
)

type pageFixture struct {
	handler  *FeedbackPageHandler
	sessions *mocks.MockSessionRepository
	users    *mocks.MockUserRepository
	locales  *service.LocaleRegistry
	served   bool
}

func newPageFixture() *pageFixture {
	f := &pageFixture{
		sessions: &mocks.MockSessionRepository{},
		users:    &mocks.MockUserRepository{},
		locales:  service.NewLocaleRegistry(),
	}
	static := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f.served = true
		w.WriteHeader(http.StatusOK)
	})
	config := service.ServiceConfig{RedirectTimeout: "10000"}
	f.handler = NewFeedbackPageHandler(f.sessions, f.users, f.locales, config, static)
	return f
}

func (f *pageFixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.handler.HandlePage(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func redirectQuery(t *testing.T, w *httptest.ResponseRecorder) url.Values {
	t.Helper()
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	return location.Query()
}

func TestHandlePageOptedOutUserRedirected(t *testing.T) {
	f := newPageFixture()

	skip := false
	f.users.On("Get", mock.Anything, "u1").Return(&models.UserRecord{
		ID:             "u1",
		AskForFeedback: &skip,
		RedirectURL:    "https://example.org/user-bye",
	}, nil)
	f.sessions.On("Get", mock.Anything, "m1").Return(&models.SessionRecord{
		SessionID:       "m1",
		RedirectURL:     "https://example.org/session-bye",
		RedirectTimeout: "5000",
	}, nil)

	w := f.get(t, "/feedback?userId=u1&meetingId=m1")
	require.Equal(t, http.StatusFound, w.Code)
	assert.False(t, f.served)

	query := redirectQuery(t, w)
	assert.Equal(t, "true", query.Get("skipped"))
	assert.Equal(t, "https://example.org/user-bye", query.Get("redirectUrl"))
	assert.Equal(t, "5000", query.Get("redirectTimeout"))
}

func TestHandlePageSessionRedirectFallback(t *testing.T) {
	f := newPageFixture()

	skip := false
	f.users.On("Get", mock.Anything, "u1").Return(&models.UserRecord{
		ID:             "u1",
		AskForFeedback: &skip,
	}, nil)
	f.sessions.On("Get", mock.Anything, "m1").Return(&models.SessionRecord{
		SessionID:   "m1",
		RedirectURL: "https://example.org/session-bye",
	}, nil)

	w := f.get(t, "/feedback?userId=u1&meetingId=m1")
	require.Equal(t, http.StatusFound, w.Code)

	query := redirectQuery(t, w)
	assert.Equal(t, "https://example.org/session-bye", query.Get("redirectUrl"))
	assert.Equal(t, "10000", query.Get("redirectTimeout"))
}

func TestHandlePageAlreadySkippedFallsThrough(t *testing.T) {
	f := newPageFixture()

	w := f.get(t, "/feedback?userId=u1&meetingId=m1&skipped=true")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.served)

	f.users.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestHandlePageAskingUserFallsThrough(t *testing.T) {
	f := newPageFixture()

	// Tri-state default: no flag means the form is shown.
	f.users.On("Get", mock.Anything, "u1").Return(&models.UserRecord{ID: "u1"}, nil)

	w := f.get(t, "/feedback?userId=u1&meetingId=m1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.served)
}

func TestHandlePageLocaleInjection(t *testing.T) {
	f := newPageFixture()

	f.users.On("Get", mock.Anything, "u1").Return(&models.UserRecord{ID: "u1"}, nil)
	f.locales.Set("u1", "pt-BR")

	w := f.get(t, "/feedback?userId=u1&meetingId=m1")
	require.Equal(t, http.StatusFound, w.Code)

	query := redirectQuery(t, w)
	assert.Equal(t, "pt-BR", query.Get("locale"))
	assert.Equal(t, "u1", query.Get("userId"))
}

func TestHandlePageLocalePresentFallsThrough(t *testing.T) {
	f := newPageFixture()

	f.users.On("Get", mock.Anything, "u1").Return(&models.UserRecord{ID: "u1"}, nil)
	f.locales.Set("u1", "pt-BR")

	w := f.get(t, "/feedback?userId=u1&meetingId=m1&locale=en")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.served)
}

func TestHandlePageNoIdentifiersFallsThrough(t *testing.T) {
	f := newPageFixture()

	w := f.get(t, "/feedback")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, f.served)
}
