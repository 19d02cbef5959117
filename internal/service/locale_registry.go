// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import "sync"

// LocaleRegistry remembers the locale override a user requested when joining,
// so the feedback form can be served in that language without re-asking. It
// is process-local state owned by the service, populated by the ingestion
// pipeline and read by the feedback page handler.
type LocaleRegistry struct {
	mu      sync.Mutex
	locales map[string]string
}

// NewLocaleRegistry creates an empty registry.
func NewLocaleRegistry() *LocaleRegistry {
	return &LocaleRegistry{locales: make(map[string]string)}
}

// Set records the locale override for a user. A rejoin overwrites it.
func (r *LocaleRegistry) Set(userID, locale string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locales[userID] = locale
}

// Lookup returns the recorded override for a user and whether one exists.
func (r *LocaleRegistry) Lookup(userID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	locale, ok := r.locales[userID]
	return locale, ok
}

// Delete drops the override for a user, typically after their submission
// completed.
func (r *LocaleRegistry) Delete(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locales, userID)
}
