// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// SessionRecord is the cached projection of a meeting-created event, keyed by
// the internal meeting id. It is read by the submission path and is never
// explicitly deleted: deleting it on meeting-end could race with a feedback
// submission that has not happened yet, so it only expires by TTL.
type SessionRecord struct {
	SessionName       string
	InstitutionName   string
	InstitutionGUID   string
	SessionID         string
	ExternalMeetingID string
	AudioBridge       string
	CameraBridge      string
	ScreenShareBridge string
	RedirectURL       string
	RedirectTimeout   string
}

// Session record hash field names.
const (
	sessionFieldName              = "session_name"
	sessionFieldInstitutionName   = "institution_name"
	sessionFieldInstitutionGUID   = "institution_guid"
	sessionFieldID                = "session_id"
	sessionFieldExternalMeetingID = "external_meeting_id"
	sessionFieldAudioBridge       = "audio_bridge"
	sessionFieldCameraBridge      = "camera_bridge"
	sessionFieldScreenShareBridge = "screen_share_bridge"
	sessionFieldRedirectURL       = "redirect_url"
	sessionFieldRedirectTimeout   = "redirect_timeout"
)

// ToFields converts the record to a store hash field map. Optional fields are
// omitted when empty.
func (s *SessionRecord) ToFields() map[string]string {
	fields := map[string]string{
		sessionFieldName:              s.SessionName,
		sessionFieldInstitutionName:   s.InstitutionName,
		sessionFieldInstitutionGUID:   s.InstitutionGUID,
		sessionFieldID:                s.SessionID,
		sessionFieldExternalMeetingID: s.ExternalMeetingID,
	}
	setIfNotEmpty(fields, sessionFieldAudioBridge, s.AudioBridge)
	setIfNotEmpty(fields, sessionFieldCameraBridge, s.CameraBridge)
	setIfNotEmpty(fields, sessionFieldScreenShareBridge, s.ScreenShareBridge)
	setIfNotEmpty(fields, sessionFieldRedirectURL, s.RedirectURL)
	setIfNotEmpty(fields, sessionFieldRedirectTimeout, s.RedirectTimeout)
	return fields
}

// SessionRecordFromFields builds a record from a store hash field map. An
// empty map yields a zero record, which callers must treat as "no data".
func SessionRecordFromFields(fields map[string]string) *SessionRecord {
	return &SessionRecord{
		SessionName:       fields[sessionFieldName],
		InstitutionName:   fields[sessionFieldInstitutionName],
		InstitutionGUID:   fields[sessionFieldInstitutionGUID],
		SessionID:         fields[sessionFieldID],
		ExternalMeetingID: fields[sessionFieldExternalMeetingID],
		AudioBridge:       fields[sessionFieldAudioBridge],
		CameraBridge:      fields[sessionFieldCameraBridge],
		ScreenShareBridge: fields[sessionFieldScreenShareBridge],
		RedirectURL:       fields[sessionFieldRedirectURL],
		RedirectTimeout:   fields[sessionFieldRedirectTimeout],
	}
}

// IsZero reports whether the record carries no data, i.e. the cache entry was
// absent or expired.
func (s *SessionRecord) IsZero() bool {
	return s == nil || *s == SessionRecord{}
}

func setIfNotEmpty(fields map[string]string, key, value string) {
	if value != "" {
		fields[key] = value
	}
}
