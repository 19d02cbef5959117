// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// UserRecord is the cached projection of a user-joined event, keyed by the
// internal user id. Rejoins overwrite it (last write wins). It is deleted by
// the cleanup step after a feedback submission completes, or expires by TTL.
type UserRecord struct {
	Name        string
	ID          string
	ExternalID  string
	Role        string
	RedirectURL string
	// AskForFeedback is tri-state: nil means "ask" (the default), an explicit
	// false means the feedback form is skipped for this user.
	AskForFeedback *bool
	Locale         string
}

// User record hash field names.
const (
	userFieldName           = "name"
	userFieldID             = "id"
	userFieldExternalID     = "external_id"
	userFieldRole           = "role"
	userFieldRedirectURL    = "redirect_url"
	userFieldAskForFeedback = "ask_for_feedback"
	userFieldLocale         = "locale"
)

// ToFields converts the record to a store hash field map. The tri-state
// ask_for_feedback flag is written verbatim, including an explicit "false";
// absence of the field means "ask".
func (u *UserRecord) ToFields() map[string]string {
	fields := map[string]string{
		userFieldName:       u.Name,
		userFieldID:         u.ID,
		userFieldExternalID: u.ExternalID,
		userFieldRole:       u.Role,
	}
	setIfNotEmpty(fields, userFieldRedirectURL, u.RedirectURL)
	setIfNotEmpty(fields, userFieldLocale, u.Locale)
	if u.AskForFeedback != nil {
		if *u.AskForFeedback {
			fields[userFieldAskForFeedback] = "true"
		} else {
			fields[userFieldAskForFeedback] = "false"
		}
	}
	return fields
}

// UserRecordFromFields builds a record from a store hash field map. An empty
// map yields a zero record, which callers must treat as "no data".
func UserRecordFromFields(fields map[string]string) *UserRecord {
	record := &UserRecord{
		Name:        fields[userFieldName],
		ID:          fields[userFieldID],
		ExternalID:  fields[userFieldExternalID],
		Role:        fields[userFieldRole],
		RedirectURL: fields[userFieldRedirectURL],
		Locale:      fields[userFieldLocale],
	}
	switch fields[userFieldAskForFeedback] {
	case "true":
		value := true
		record.AskForFeedback = &value
	case "false":
		value := false
		record.AskForFeedback = &value
	}
	return record
}

// FeedbackSkipped reports whether this user opted out of the feedback form,
// i.e. the tri-state flag is an explicit false.
func (u *UserRecord) FeedbackSkipped() bool {
	return u != nil && u.AskForFeedback != nil && !*u.AskForFeedback
}

// IsZero reports whether the record carries no data.
func (u *UserRecord) IsZero() bool {
	return u == nil || (u.Name == "" && u.ID == "" && u.ExternalID == "" &&
		u.Role == "" && u.RedirectURL == "" && u.AskForFeedback == nil && u.Locale == "")
}
