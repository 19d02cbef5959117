// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the feedback pipeline: webhook event ingestion
// and feedback submission handling.
package service

import (
	"fmt"
	"time"
)

// NoRatingPolicy decides what happens to a submission that carries form
// answers but no rating. Neither value forwards the record downstream.
type NoRatingPolicy string

const (
	// NoRatingPolicyDiscard drops the record: nothing is persisted and the
	// registration is counted as skipped_no_rating. This is the default.
	NoRatingPolicyDiscard NoRatingPolicy = "discard"

	// NoRatingPolicyPersist stores the record but still does not forward it.
	NoRatingPolicyPersist NoRatingPolicy = "persist"
)

// ParseNoRatingPolicy parses the NO_RATING_POLICY configuration value. An
// empty value selects the default policy.
func ParseNoRatingPolicy(value string) (NoRatingPolicy, error) {
	switch NoRatingPolicy(value) {
	case "":
		return NoRatingPolicyDiscard, nil
	case NoRatingPolicyDiscard, NoRatingPolicyPersist:
		return NoRatingPolicy(value), nil
	default:
		return "", fmt.Errorf("unknown no-rating policy %q", value)
	}
}

// ServiceConfig carries the tunables shared by the webhook and feedback
// services.
type ServiceConfig struct {
	// CacheTTL is the expiration applied to every store write.
	CacheTTL time.Duration

	// NoRatingPolicy selects the handling of rating-less submissions.
	NoRatingPolicy NoRatingPolicy

	// RedirectURL is the default post-feedback redirect, overridable per
	// meeting and per user.
	RedirectURL string

	// RedirectTimeout is the default redirect delay passed to the form, in
	// milliseconds.
	RedirectTimeout string
}
