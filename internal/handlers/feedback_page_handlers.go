// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/service"
)

// FeedbackPageHandler gates GET /feedback before the static form is served.
// Users who opted out of the feedback form at join time are redirected past
// it, and a recorded locale override is injected into the query so the form
// opens in the user's language.
type FeedbackPageHandler struct {
	sessions domain.SessionRepository
	users    domain.UserRepository
	locales  *service.LocaleRegistry
	config   service.ServiceConfig
	static   http.Handler
}

// NewFeedbackPageHandler creates a new FeedbackPageHandler. The static
// handler serves the form assets when the gate falls through.
func NewFeedbackPageHandler(
	sessions domain.SessionRepository,
	users domain.UserRepository,
	locales *service.LocaleRegistry,
	config service.ServiceConfig,
	static http.Handler,
) *FeedbackPageHandler {
	return &FeedbackPageHandler{
		sessions: sessions,
		users:    users,
		locales:  locales,
		config:   config,
		static:   static,
	}
}

// HandlePage applies the gate and falls through to the static assets.
func (h *FeedbackPageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	userID := query.Get("userId")
	meetingID := query.Get("meetingId")

	if userID != "" && meetingID != "" && query.Get("skipped") != "true" {
		user, err := h.users.Get(ctx, userID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to load user record for feedback page",
				logging.ErrKey, err, "user_id", userID)
		} else if user.FeedbackSkipped() {
			h.redirectSkipped(w, r, query, userID, meetingID, user.RedirectURL)
			return
		}
	}

	if userID != "" && query.Get("locale") == "" {
		if locale, ok := h.locales.Lookup(userID); ok {
			target := *r.URL
			query.Set("locale", locale)
			target.RawQuery = query.Encode()
			http.Redirect(w, r, target.String(), http.StatusFound)
			return
		}
	}

	h.static.ServeHTTP(w, r)
}

// redirectSkipped sends an opted-out user straight to the post-feedback
// redirect flow. The user-level redirect URL wins over the session-level
// one; the redirect timeout comes from the session record or the configured
// default.
func (h *FeedbackPageHandler) redirectSkipped(
	w http.ResponseWriter,
	r *http.Request,
	query url.Values,
	userID, meetingID, userRedirectURL string,
) {
	ctx := r.Context()

	redirectURL := userRedirectURL
	redirectTimeout := h.config.RedirectTimeout

	session, err := h.sessions.Get(ctx, meetingID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load session record for feedback page",
			logging.ErrKey, err, "session_id", meetingID)
	} else {
		if redirectURL == "" {
			redirectURL = session.RedirectURL
		}
		if session.RedirectTimeout != "" {
			redirectTimeout = session.RedirectTimeout
		}
	}

	query.Set("skipped", "true")
	if redirectURL != "" {
		query.Set("redirectUrl", redirectURL)
	}
	if redirectTimeout != "" {
		query.Set("redirectTimeout", redirectTimeout)
	}
	if locale, ok := h.locales.Lookup(userID); ok && query.Get("locale") == "" {
		query.Set("locale", locale)
	}

	target := *r.URL
	target.RawQuery = query.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}
