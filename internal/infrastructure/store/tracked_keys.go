// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import "sync"

// trackedKeyIndex maps a correlation id to the exact set of store keys
// written under it with cleanup tracking enabled. Keeping an explicit map
// instead of scanning keys for id substrings avoids deleting another entity's
// entries when one id happens to be a substring of another.
//
// The index is process-local shared state: Track and Take serialize under a
// mutex so concurrent writes and cleanups never lose or double-delete an
// entry.
type trackedKeyIndex struct {
	mu   sync.Mutex
	keys map[string]map[string]struct{}
}

func newTrackedKeyIndex() *trackedKeyIndex {
	return &trackedKeyIndex{keys: make(map[string]map[string]struct{})}
}

// Track registers a key under the correlation id. Re-tracking the same key is
// a no-op.
func (t *trackedKeyIndex) Track(id, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.keys[id]
	if !ok {
		set = make(map[string]struct{})
		t.keys[id] = set
	}
	set[key] = struct{}{}
}

// Take removes and returns all keys tracked under the correlation id. A
// second Take for the same id returns nothing, so two concurrent cleanups
// cannot delete the same key twice.
func (t *trackedKeyIndex) Take(id string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.keys[id]
	if !ok {
		return nil
	}
	delete(t.keys, id)

	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	return keys
}

// Count reports the number of keys tracked under the correlation id.
func (t *trackedKeyIndex) Count(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.keys[id])
}
