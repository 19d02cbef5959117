// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// SubmissionDelta is one field-level update carried by a feedback
// submission. The three variants cover everything the form can send beyond
// identity data: the rating, the optional email, and free-form answers.
// Deltas are applied through ApplyDeltas with last-write-wins semantics per
// field.
type SubmissionDelta interface {
	apply(record *FeedbackRecord)
}

// RatingUpdate sets the rating of the record.
type RatingUpdate struct {
	Rating int
}

func (d RatingUpdate) apply(record *FeedbackRecord) {
	rating := d.Rating
	record.Rating = &rating
}

// EmailUpdate sets the submitter's email on the user snapshot.
type EmailUpdate struct {
	Email string
}

func (d EmailUpdate) apply(record *FeedbackRecord) {
	record.User.Email = d.Email
}

// AnswerUpdate sets one keyed answer from the form.
type AnswerUpdate struct {
	Key   string
	Value any
}

func (d AnswerUpdate) apply(record *FeedbackRecord) {
	if record.Feedback == nil {
		record.Feedback = make(map[string]any)
	}
	record.Feedback[d.Key] = d.Value
}

// ApplyDeltas applies the deltas to the record in order, last write wins per
// field, and returns the record for chaining.
func ApplyDeltas(record *FeedbackRecord, deltas ...SubmissionDelta) *FeedbackRecord {
	for _, delta := range deltas {
		delta.apply(record)
	}
	return record
}

// DeltasFromRequest flattens a submission request into its field-level
// deltas: one RatingUpdate when a rating is present, one EmailUpdate when an
// email is present, and one AnswerUpdate per form answer.
func DeltasFromRequest(request *SubmitRequest) []SubmissionDelta {
	var deltas []SubmissionDelta
	if request.Rating != nil {
		deltas = append(deltas, RatingUpdate{Rating: *request.Rating})
	}
	if request.User.Email != "" {
		deltas = append(deltas, EmailUpdate{Email: request.User.Email})
	}
	for key, value := range request.Feedback {
		deltas = append(deltas, AnswerUpdate{Key: key, Value: value})
	}
	return deltas
}
