// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/metrics"
	"github.com/linuxfoundation/lfx-v2-feedback-service/pkg/constants"
)

// FeedbackService handles feedback submissions: it correlates the submitted
// payload with the cached session and user records, enforces the
// one-submission-per-pair invariant, persists and forwards the merged
// record, and cleans up the correlation caches.
type FeedbackService struct {
	sessions  domain.SessionRepository
	users     domain.UserRepository
	feedbacks domain.FeedbackRepository
	cleaner   domain.TrackedKeyCleaner
	forwarder domain.FeedbackForwarder
	locales   *LocaleRegistry
	config    ServiceConfig
	metrics   *metrics.Metrics

	// forwards tracks in-flight downstream deliveries so shutdown can drain
	// them.
	forwards sync.WaitGroup
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(
	sessions domain.SessionRepository,
	users domain.UserRepository,
	feedbacks domain.FeedbackRepository,
	cleaner domain.TrackedKeyCleaner,
	forwarder domain.FeedbackForwarder,
	locales *LocaleRegistry,
	config ServiceConfig,
	m *metrics.Metrics,
) *FeedbackService {
	return &FeedbackService{
		sessions:  sessions,
		users:     users,
		feedbacks: feedbacks,
		cleaner:   cleaner,
		forwarder: forwarder,
		locales:   locales,
		config:    config,
		metrics:   m,
	}
}

// ServiceReady checks if the service is ready to process requests.
func (s *FeedbackService) ServiceReady() bool {
	return s.sessions != nil && s.users != nil && s.feedbacks != nil &&
		s.cleaner != nil && s.forwarder != nil && s.locales != nil
}

// Submit processes one feedback submission. The side effect order is fixed:
// duplicate check, persistence, forwarding, cleanup, so a crash mid-pipeline
// surfaces as "already submitted" on retry rather than a double write.
func (s *FeedbackService) Submit(ctx context.Context, request *models.SubmitRequest) (*models.SubmitResponse, error) {
	if !s.ServiceReady() {
		return nil, domain.NewUnavailableError("feedback service is not available")
	}

	if request == nil || request.Session.SessionID == "" || request.User.UserID == "" {
		s.metrics.Failure(ctx, constants.FailureReasonMissingSessionOrUser)
		return nil, domain.NewValidationError(constants.FailureReasonMissingSessionOrUser)
	}
	sessionID := request.Session.SessionID
	userID := request.User.UserID

	exists, err := s.feedbacks.Exists(ctx, sessionID, userID)
	if err != nil {
		s.metrics.Failure(ctx, constants.FailureReasonInternalError)
		return nil, err
	}
	if exists {
		s.metrics.Failure(ctx, constants.FailureReasonAlreadySubmitted)
		return nil, domain.NewConflictError(constants.FailureReasonAlreadySubmitted)
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.metrics.Failure(ctx, constants.FailureReasonInternalError)
		return nil, err
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		s.metrics.Failure(ctx, constants.FailureReasonInternalError)
		return nil, err
	}

	// User-level redirect override wins over the session-level one.
	redirectURL := user.RedirectURL
	if redirectURL == "" {
		redirectURL = session.RedirectURL
	}

	// An empty form with no rating is a skip: respond with the redirect
	// only, persist nothing, forward nothing.
	if request.IsEmpty() {
		s.metrics.Registration(ctx, constants.RegistrationSourceSkipped)
		s.cleanup(ctx, userID)
		return &models.SubmitResponse{
			Session: models.SessionSnapshot{RedirectURL: redirectURL},
		}, nil
	}

	record := s.assembleRecord(request, session, user, redirectURL)

	if record.HasRating() {
		created, err := s.feedbacks.Create(ctx, sessionID, userID, record, s.config.CacheTTL)
		if err != nil {
			s.metrics.Failure(ctx, constants.FailureReasonInternalError)
			return nil, err
		}
		if !created {
			// A concurrent submission won the conditional write.
			s.metrics.Failure(ctx, constants.FailureReasonAlreadySubmitted)
			return nil, domain.NewConflictError(constants.FailureReasonAlreadySubmitted)
		}

		s.metrics.ObserveRating(ctx, *record.Rating)
		s.metrics.Registration(ctx, registrationSource(record))
		s.forwardDetached(ctx, record)
	} else {
		if s.config.NoRatingPolicy == NoRatingPolicyPersist {
			if _, err := s.feedbacks.Create(ctx, sessionID, userID, record, s.config.CacheTTL); err != nil {
				s.metrics.Failure(ctx, constants.FailureReasonInternalError)
				return nil, err
			}
		}
		s.metrics.Registration(ctx, constants.RegistrationSourceSkippedNoRating)
	}

	s.cleanup(ctx, userID)

	return &models.SubmitResponse{
		Rating:   record.Rating,
		Session:  record.Session,
		Device:   &record.Device,
		User:     &record.User,
		Feedback: record.Feedback,
	}, nil
}

// assembleRecord merges the cached session and user data with the submitted
// deltas. Cached fields win for identity and session attributes; the email
// is never cached and always comes from the request.
func (s *FeedbackService) assembleRecord(
	request *models.SubmitRequest,
	session *models.SessionRecord,
	user *models.UserRecord,
	redirectURL string,
) *models.FeedbackRecord {
	sessionID := session.SessionID
	if sessionID == "" {
		sessionID = request.Session.SessionID
	}
	userID := user.ID
	if userID == "" {
		userID = request.User.UserID
	}

	record := &models.FeedbackRecord{
		Session: models.SessionSnapshot{
			RedirectURL:     redirectURL,
			SessionName:     session.SessionName,
			InstitutionName: session.InstitutionName,
			InstitutionGUID: session.InstitutionGUID,
			SessionID:       sessionID,
		},
		User: models.UserSnapshot{
			Name:       user.Name,
			ID:         userID,
			ExternalID: user.ExternalID,
			Role:       user.Role,
		},
		Device: request.Device,
	}

	return models.ApplyDeltas(record, models.DeltasFromRequest(request)...)
}

// forwardDetached delivers the record downstream without blocking the
// response path. Failures only affect logs and counters, never the caller.
func (s *FeedbackService) forwardDetached(ctx context.Context, record *models.FeedbackRecord) {
	ctx = context.WithoutCancel(ctx)
	s.forwards.Add(1)
	go func() {
		defer s.forwards.Done()
		if err := s.forwarder.Forward(ctx, record); err != nil {
			slog.ErrorContext(ctx, "failed to forward feedback record",
				logging.ErrKey, err,
				"session_id", record.Session.SessionID,
				"user_id", record.User.ID,
			)
		}
	}()
}

// cleanup drops the correlation caches for the submitting user. Failures are
// logged only: leftover entries expire by TTL.
func (s *FeedbackService) cleanup(ctx context.Context, userID string) {
	if _, err := s.cleaner.CleanupByCorrelationID(ctx, userID); err != nil {
		slog.ErrorContext(ctx, "failed to clean up correlation caches",
			logging.ErrKey, err, "user_id", userID)
	}
	s.locales.Delete(userID)
}

// DrainForwards blocks until all in-flight downstream deliveries finish.
// Called during graceful shutdown.
func (s *FeedbackService) DrainForwards() {
	s.forwards.Wait()
}

// registrationSource labels a registration count by the submitting device
// type.
func registrationSource(record *models.FeedbackRecord) string {
	if record.Device.Type == "" {
		return constants.RegistrationSourceUnknown
	}
	return record.Device.Type
}
