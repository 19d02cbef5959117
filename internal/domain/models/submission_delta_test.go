// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDeltasLastWriteWins(t *testing.T) {
	record := &FeedbackRecord{}

	ApplyDeltas(record,
		RatingUpdate{Rating: 3},
		EmailUpdate{Email: "first@example.org"},
		AnswerUpdate{Key: "comment", Value: "meh"},
		RatingUpdate{Rating: 9},
		EmailUpdate{Email: "second@example.org"},
		AnswerUpdate{Key: "comment", Value: "great"},
		AnswerUpdate{Key: "audio", Value: 5},
	)

	require.NotNil(t, record.Rating)
	assert.Equal(t, 9, *record.Rating)
	assert.Equal(t, "second@example.org", record.User.Email)
	assert.Equal(t, "great", record.Feedback["comment"])
	assert.Equal(t, 5, record.Feedback["audio"])
}

func TestDeltasFromRequest(t *testing.T) {
	rating := 7
	request := &SubmitRequest{
		User:     SubmitUser{UserID: "u1", Email: "ada@example.org"},
		Feedback: map[string]any{"comment": "ok", "audio": 4},
		Rating:   &rating,
	}

	record := ApplyDeltas(&FeedbackRecord{}, DeltasFromRequest(request)...)

	require.NotNil(t, record.Rating)
	assert.Equal(t, 7, *record.Rating)
	assert.Equal(t, "ada@example.org", record.User.Email)
	assert.Len(t, record.Feedback, 2)
}

func TestDeltasFromRequestEmpty(t *testing.T) {
	request := &SubmitRequest{User: SubmitUser{UserID: "u1"}}

	assert.Empty(t, DeltasFromRequest(request))
	assert.True(t, request.IsEmpty())

	rating := 5
	assert.False(t, (&SubmitRequest{Rating: &rating}).IsEmpty())
	assert.False(t, (&SubmitRequest{Feedback: map[string]any{"a": 1}}).IsEmpty())
}

func TestFeedbackRecordHasRating(t *testing.T) {
	assert.False(t, (*FeedbackRecord)(nil).HasRating())
	assert.False(t, (&FeedbackRecord{}).HasRating())

	rating := 0
	assert.True(t, (&FeedbackRecord{Rating: &rating}).HasRating())
}
