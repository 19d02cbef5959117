// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// Device describes the client that submitted the feedback.
type Device struct {
	Type    string `json:"type,omitempty"`
	OS      string `json:"os,omitempty"`
	Browser string `json:"browser,omitempty"`
}

// SessionSnapshot is the session data resolved at submission time and frozen
// into the feedback record.
type SessionSnapshot struct {
	RedirectURL     string `json:"redirect_url,omitempty"`
	SessionName     string `json:"session_name,omitempty"`
	InstitutionName string `json:"institution_name,omitempty"`
	InstitutionGUID string `json:"institution_guid,omitempty"`
	SessionID       string `json:"session_id,omitempty"`
}

// UserSnapshot is the user data resolved at submission time and frozen into
// the feedback record. Email never comes from the cache, only from the
// submission request.
type UserSnapshot struct {
	Name       string `json:"name,omitempty"`
	ID         string `json:"id,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	Role       string `json:"role,omitempty"`
	Email      string `json:"email,omitempty"`
}

// FeedbackRecord is the merged, de-duplicated feedback for one
// (session, user) pair. At most one record is ever written per pair; the
// presence of the record at the composite key is the single source of truth
// for duplicate-submission rejection. Created once, never mutated, expires
// by TTL.
type FeedbackRecord struct {
	Rating   *int            `json:"rating,omitempty"`
	Session  SessionSnapshot `json:"session"`
	Device   Device          `json:"device"`
	User     UserSnapshot    `json:"user"`
	Feedback map[string]any  `json:"feedback"`
}

// HasRating reports whether a rating was provided with the submission.
func (f *FeedbackRecord) HasRating() bool {
	return f != nil && f.Rating != nil
}

// SubmitRequest is the body of POST /feedback/submit.
type SubmitRequest struct {
	Session  SubmitSession  `json:"session"`
	User     SubmitUser     `json:"user"`
	Feedback map[string]any `json:"feedback"`
	Device   Device         `json:"device"`
	Rating   *int           `json:"rating,omitempty"`
}

// SubmitSession identifies the session the feedback refers to.
type SubmitSession struct {
	SessionID string `json:"sessionId"`
}

// SubmitUser identifies the submitting user.
type SubmitUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}

// IsEmpty reports whether the submission carries no answers and no rating,
// which the submission path treats as a skipped form.
func (r *SubmitRequest) IsEmpty() bool {
	return len(r.Feedback) == 0 && r.Rating == nil
}

// SubmitResponse is the success payload of POST /feedback/submit. For a
// skipped submission only Session.RedirectURL is populated.
type SubmitResponse struct {
	Rating   *int            `json:"rating,omitempty"`
	Session  SessionSnapshot `json:"session"`
	Device   *Device         `json:"device,omitempty"`
	User     *UserSnapshot   `json:"user,omitempty"`
	Feedback map[string]any  `json:"feedback,omitempty"`
}
