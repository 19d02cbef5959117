// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionRecordFieldsRoundtrip(t *testing.T) {
	record := &SessionRecord{
		SessionName:       "Team retro",
		InstitutionName:   "Example University",
		InstitutionGUID:   "G1",
		SessionID:         "int-1",
		ExternalMeetingID: "E1",
		AudioBridge:       "fullaudio",
		CameraBridge:      "kurento",
		ScreenShareBridge: "kurento",
		RedirectURL:       "https://example.org/bye",
		RedirectTimeout:   "8000",
	}

	assert.Equal(t, record, SessionRecordFromFields(record.ToFields()))
}

func TestSessionRecordOptionalFieldsOmitted(t *testing.T) {
	record := &SessionRecord{
		SessionName: "Team retro",
		SessionID:   "int-1",
	}

	fields := record.ToFields()
	assert.NotContains(t, fields, "audio_bridge")
	assert.NotContains(t, fields, "redirect_url")
	assert.NotContains(t, fields, "redirect_timeout")
}

func TestSessionRecordIsZero(t *testing.T) {
	assert.True(t, (&SessionRecord{}).IsZero())
	assert.True(t, (*SessionRecord)(nil).IsZero())
	assert.True(t, SessionRecordFromFields(map[string]string{}).IsZero())
	assert.False(t, (&SessionRecord{SessionID: "int-1"}).IsZero())
}
