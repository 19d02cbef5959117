// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import "fmt"

// KeyPrefix is the namespace prefix of every key the service writes to the
// expiring store.
const KeyPrefix = "feedback"

// SessionKey returns the store key of the session record for an internal
// meeting id: feedback:session:<id>.
func SessionKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", KeyPrefix, sessionID)
}

// UserKey returns the store key of the user record for an internal user id:
// feedback:user:<id>.
func UserKey(userID string) string {
	return fmt.Sprintf("%s:user:%s", KeyPrefix, userID)
}

// FeedbackKey returns the store key of the persisted feedback record for a
// (session, user) pair: feedback:<sessionId>:<userId>.
func FeedbackKey(sessionID, userID string) string {
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, sessionID, userID)
}

// Registration sources counted on the feedback registrations metric.
const (
	RegistrationSourceSkipped         = "skipped"
	RegistrationSourceSkippedNoRating = "skipped_no_rating"
	RegistrationSourceUnknown         = "unknown"
)

// Failure reasons counted on the feedback failures metric.
const (
	FailureReasonMissingSessionOrUser = "missing_session_or_user"
	FailureReasonAlreadySubmitted     = "already_submitted"
	FailureReasonInternalError        = "internal_error"
)
