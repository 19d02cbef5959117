// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRecordFieldsRoundtrip(t *testing.T) {
	ask := true
	record := &UserRecord{
		Name:           "Ada",
		ID:             "u1",
		ExternalID:     "ext-u1",
		Role:           "MODERATOR",
		RedirectURL:    "https://example.org/ada",
		AskForFeedback: &ask,
		Locale:         "pt-BR",
	}

	assert.Equal(t, record, UserRecordFromFields(record.ToFields()))
}

func TestUserRecordTriStateAskForFeedback(t *testing.T) {
	boolPtr := func(v bool) *bool { return &v }

	tests := []struct {
		name        string
		flag        *bool
		wantField   string
		wantPresent bool
		wantSkipped bool
	}{
		{name: "absent means ask", flag: nil, wantPresent: false, wantSkipped: false},
		{name: "explicit true", flag: boolPtr(true), wantField: "true", wantPresent: true, wantSkipped: false},
		{name: "explicit false means skip", flag: boolPtr(false), wantField: "false", wantPresent: true, wantSkipped: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			record := &UserRecord{ID: "u1", AskForFeedback: tc.flag}

			fields := record.ToFields()
			value, present := fields["ask_for_feedback"]
			assert.Equal(t, tc.wantPresent, present)
			if tc.wantPresent {
				assert.Equal(t, tc.wantField, value)
			}

			parsed := UserRecordFromFields(fields)
			if tc.flag == nil {
				assert.Nil(t, parsed.AskForFeedback)
			} else {
				require.NotNil(t, parsed.AskForFeedback)
				assert.Equal(t, *tc.flag, *parsed.AskForFeedback)
			}
			assert.Equal(t, tc.wantSkipped, parsed.FeedbackSkipped())
		})
	}
}

func TestUserRecordIsZero(t *testing.T) {
	assert.True(t, (&UserRecord{}).IsZero())
	assert.True(t, (*UserRecord)(nil).IsZero())
	assert.False(t, (&UserRecord{ID: "u1"}).IsZero())

	skip := false
	assert.False(t, (&UserRecord{AskForFeedback: &skip}).IsZero())
}
