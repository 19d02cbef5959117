// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
)

// Webhook event identifiers handled by the ingestion pipeline. Any other
// event id is ignored.
const (
	WebhookEventMeetingCreated = "meeting-created"
	WebhookEventUserJoined     = "user-joined"
)

// Meeting metadata keys recognized on meeting-created events.
const (
	MetadataInstitutionGUID = "mconf-institution-guid"
	MetadataInstitutionName = "mconf-institution-name"
	MetadataRedirectURL     = "feedbackredirecturl"
)

// Userdata keys recognized on user-joined events.
const (
	UserdataRedirectURL    = "bbb_feedback_redirect_url"
	UserdataAskForFeedback = "bbb_ask_for_feedback_on_logout"
	UserdataOverrideLocale = "bbb_override_default_locale"
)

// WebhookEnvelope is the body of POST /feedback/webhook: the conferencing
// server wraps a JSON-encoded array of events in the event field.
type WebhookEnvelope struct {
	Event  string `json:"event"`
	Domain string `json:"domain"`
}

// Events parses the JSON-encoded event array carried by the envelope.
func (e *WebhookEnvelope) Events() ([]WebhookEvent, error) {
	var events []WebhookEvent
	if err := json.Unmarshal([]byte(e.Event), &events); err != nil {
		return nil, fmt.Errorf("invalid webhook event payload: %w", err)
	}
	return events, nil
}

// WebhookEvent is a single event object from the envelope's event array.
type WebhookEvent struct {
	Data WebhookEventData `json:"data"`
}

// WebhookEventData carries the event type discriminator and the typed
// attributes of a webhook event.
type WebhookEventData struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	Attributes WebhookEventAttributes `json:"attributes"`
}

// WebhookEventAttributes holds the entity payloads of an event. Only the one
// matching the event id is set.
type WebhookEventAttributes struct {
	Meeting *MeetingAttributes `json:"meeting,omitempty"`
	User    *UserAttributes    `json:"user,omitempty"`
}

// MeetingAttributes is the meeting payload of a meeting-created event.
type MeetingAttributes struct {
	Name              string            `json:"name"`
	InternalMeetingID string            `json:"internal-meeting-id"`
	ExternalMeetingID string            `json:"external-meeting-id"`
	AudioBridge       string            `json:"audio-bridge,omitempty"`
	CameraBridge      string            `json:"camera-bridge,omitempty"`
	ScreenShareBridge string            `json:"screen-share-bridge,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// Meta returns the value of a metadata key, or "" when absent.
func (m *MeetingAttributes) Meta(key string) string {
	if m.Metadata == nil {
		return ""
	}
	return m.Metadata[key]
}

// UserAttributes is the user payload of a user-joined event. Userdata values
// are client-supplied and may arrive as strings or booleans, so they are kept
// untyped until read.
type UserAttributes struct {
	Name           string         `json:"name"`
	InternalUserID string         `json:"internal-user-id"`
	ExternalUserID string         `json:"external-user-id"`
	Role           string         `json:"role"`
	Userdata       map[string]any `json:"userdata,omitempty"`
}

// UserdataString returns the string form of a userdata value and whether the
// key was present. Booleans are rendered as "true"/"false" so that an
// explicit false survives verbatim.
func (u *UserAttributes) UserdataString(key string) (string, bool) {
	if u.Userdata == nil {
		return "", false
	}
	value, ok := u.Userdata[key]
	if !ok || value == nil {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
