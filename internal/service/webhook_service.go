// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/metrics"
)

// WebhookService ingests conferencing server webhook events and projects
// them into session and user records in the expiring store.
type WebhookService struct {
	sessions domain.SessionRepository
	users    domain.UserRepository
	locales  *LocaleRegistry
	config   ServiceConfig
	metrics  *metrics.Metrics
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(
	sessions domain.SessionRepository,
	users domain.UserRepository,
	locales *LocaleRegistry,
	config ServiceConfig,
	m *metrics.Metrics,
) *WebhookService {
	return &WebhookService{
		sessions: sessions,
		users:    users,
		locales:  locales,
		config:   config,
		metrics:  m,
	}
}

// ServiceReady checks if the service is ready to process requests.
func (s *WebhookService) ServiceReady() bool {
	return s.sessions != nil && s.users != nil && s.locales != nil
}

// HandleBatch processes one webhook envelope. A malformed envelope is an
// error; individual event failures are logged and counted but do not abort
// the batch, and already-applied events from the same batch are not rolled
// back.
func (s *WebhookService) HandleBatch(ctx context.Context, envelope *models.WebhookEnvelope) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("webhook service is not available")
	}

	events, err := envelope.Events()
	if err != nil {
		s.metrics.WebhookError(ctx)
		slog.ErrorContext(ctx, "failed to parse webhook envelope", logging.ErrKey, err)
		return domain.NewValidationError("invalid webhook event payload", err)
	}

	for _, event := range events {
		if event.Data.Type != "event" {
			continue
		}

		s.metrics.WebhookEvent(ctx, event.Data.ID)

		var handleErr error
		switch event.Data.ID {
		case models.WebhookEventMeetingCreated:
			handleErr = s.handleMeetingCreated(ctx, envelope.Domain, event.Data.Attributes.Meeting)
		case models.WebhookEventUserJoined:
			handleErr = s.handleUserJoined(ctx, event.Data.Attributes.User)
		default:
			slog.DebugContext(ctx, "ignoring webhook event", "event_id", event.Data.ID)
		}
		if handleErr != nil {
			s.metrics.WebhookError(ctx)
			slog.ErrorContext(ctx, "failed to process webhook event",
				logging.ErrKey, handleErr, "event_id", event.Data.ID)
		}
	}

	return nil
}

// handleMeetingCreated projects a meeting-created event into a session
// record. Institution identity prefers the mconf metadata over the external
// meeting id and envelope domain; a meeting-level redirect URL overrides the
// configured default. Session writes are not tracked for cleanup.
func (s *WebhookService) handleMeetingCreated(ctx context.Context, domainName string, meeting *models.MeetingAttributes) error {
	if meeting == nil {
		return domain.NewValidationError("meeting-created event carries no meeting attributes")
	}
	if meeting.InternalMeetingID == "" {
		return domain.NewValidationError("meeting-created event has no internal meeting id")
	}

	institutionGUID := meeting.Meta(models.MetadataInstitutionGUID)
	if institutionGUID == "" {
		institutionGUID = meeting.ExternalMeetingID
	}
	institutionName := meeting.Meta(models.MetadataInstitutionName)
	if institutionName == "" {
		institutionName = domainName
	}
	redirectURL := meeting.Meta(models.MetadataRedirectURL)
	if redirectURL == "" {
		redirectURL = s.config.RedirectURL
	}

	session := &models.SessionRecord{
		SessionName:       meeting.Name,
		InstitutionName:   institutionName,
		InstitutionGUID:   institutionGUID,
		SessionID:         meeting.InternalMeetingID,
		ExternalMeetingID: meeting.ExternalMeetingID,
		AudioBridge:       meeting.AudioBridge,
		CameraBridge:      meeting.CameraBridge,
		ScreenShareBridge: meeting.ScreenShareBridge,
		RedirectURL:       redirectURL,
		RedirectTimeout:   s.config.RedirectTimeout,
	}

	if err := s.sessions.Put(ctx, session, s.config.CacheTTL); err != nil {
		return err
	}

	slog.DebugContext(ctx, "cached session record",
		"session_id", session.SessionID, "institution_guid", session.InstitutionGUID)
	return nil
}

// handleUserJoined projects a user-joined event into a user record (last
// write wins on rejoin). The ask_for_feedback userdata flag is tri-state:
// absent means "ask", an explicit false means the form is skipped. User
// writes are tracked for cleanup under the user id.
func (s *WebhookService) handleUserJoined(ctx context.Context, user *models.UserAttributes) error {
	if user == nil {
		return domain.NewValidationError("user-joined event carries no user attributes")
	}
	if user.InternalUserID == "" {
		return domain.NewValidationError("user-joined event has no internal user id")
	}

	record := &models.UserRecord{
		Name:       user.Name,
		ID:         user.InternalUserID,
		ExternalID: user.ExternalUserID,
		Role:       user.Role,
	}

	if redirectURL, ok := user.UserdataString(models.UserdataRedirectURL); ok {
		record.RedirectURL = redirectURL
	}
	if ask, ok := user.UserdataString(models.UserdataAskForFeedback); ok {
		value := ask != "false"
		record.AskForFeedback = &value
	}
	if locale, ok := user.UserdataString(models.UserdataOverrideLocale); ok && locale != "" {
		record.Locale = locale
		s.locales.Set(record.ID, locale)
	}

	if err := s.users.Put(ctx, record, s.config.CacheTTL); err != nil {
		return err
	}

	slog.DebugContext(ctx, "cached user record", "user_id", record.ID, "role", record.Role)
	return nil
}
