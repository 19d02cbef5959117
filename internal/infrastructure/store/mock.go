// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// mockEntry is one stored key in the mock client. A key holds either hash
// fields or a plain value, with an optional expiration deadline.
type mockEntry struct {
	hash      map[string]string
	value     string
	isHash    bool
	expiresAt time.Time
}

func (e *mockEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// mockRedisClient implements IRedisClient for testing. It emulates the small
// Redis command surface the store uses, including per-key expiration.
type mockRedisClient struct {
	mu   sync.Mutex
	data map[string]*mockEntry

	evalError  error
	getError   error
	setNXError error
	delError   error
}

func newMockRedisClient() *mockRedisClient {
	return &mockRedisClient{data: make(map[string]*mockEntry)}
}

// live returns the unexpired entry at key, dropping it when expired.
func (m *mockRedisClient) live(key string) *mockEntry {
	entry, ok := m.data[key]
	if !ok {
		return nil
	}
	if entry.expired(time.Now()) {
		delete(m.data, key)
		return nil
	}
	return entry
}

// Eval emulates the HSET+PEXPIRE script: ARGV[1] is the TTL in milliseconds,
// the remaining args are field/value pairs.
func (m *mockRedisClient) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.evalError != nil {
		return redis.NewCmdResult(nil, m.evalError)
	}
	if len(keys) != 1 || len(args) < 3 || len(args)%2 == 0 {
		return redis.NewCmdResult(nil, errors.New("malformed script call"))
	}

	ttlMillis, ok := args[0].(int64)
	if !ok {
		return redis.NewCmdResult(nil, fmt.Errorf("ttl argument must be int64, got %T", args[0]))
	}

	entry := m.live(keys[0])
	if entry == nil || !entry.isHash {
		entry = &mockEntry{hash: make(map[string]string), isHash: true}
		m.data[keys[0]] = entry
	}
	for i := 1; i < len(args); i += 2 {
		entry.hash[fmt.Sprint(args[i])] = fmt.Sprint(args[i+1])
	}
	entry.expiresAt = time.Now().Add(time.Duration(ttlMillis) * time.Millisecond)

	return redis.NewCmdResult(int64(1), nil)
}

func (m *mockRedisClient) EvalRO(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	return m.Eval(ctx, script, keys, args...)
}

// mockRedisError satisfies the redis.Error interface so that go-redis treats
// it like a server-produced error (required for the NOSCRIPT fallback check).
type mockRedisError string

func (e mockRedisError) Error() string { return string(e) }

func (e mockRedisError) RedisError() {}

// EvalSha always reports an unknown script so that script helpers fall back
// to Eval, like a Redis server with an empty script cache.
func (m *mockRedisClient) EvalSha(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return redis.NewCmdResult(nil, mockRedisError("NOSCRIPT No matching script"))
}

func (m *mockRedisClient) EvalShaRO(ctx context.Context, sha1 string, keys []string, args ...interface{}) *redis.Cmd {
	return m.EvalSha(ctx, sha1, keys, args...)
}

func (m *mockRedisClient) ScriptExists(ctx context.Context, hashes ...string) *redis.BoolSliceCmd {
	exists := make([]bool, len(hashes))
	return redis.NewBoolSliceResult(exists, nil)
}

func (m *mockRedisClient) ScriptLoad(ctx context.Context, script string) *redis.StringCmd {
	return redis.NewStringResult("", nil)
}

func (m *mockRedisClient) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return redis.NewMapStringStringResult(nil, m.getError)
	}

	entry := m.live(key)
	if entry == nil || !entry.isHash {
		return redis.NewMapStringStringResult(map[string]string{}, nil)
	}

	fields := make(map[string]string, len(entry.hash))
	for field, value := range entry.hash {
		fields[field] = value
	}
	return redis.NewMapStringStringResult(fields, nil)
}

func (m *mockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return redis.NewStringResult("", m.getError)
	}

	entry := m.live(key)
	if entry == nil || entry.isHash {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(entry.value, nil)
}

func (m *mockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.setNXError != nil {
		return redis.NewBoolResult(false, m.setNXError)
	}

	if m.live(key) != nil {
		return redis.NewBoolResult(false, nil)
	}

	entry := &mockEntry{value: fmt.Sprint(value)}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}
	m.data[key] = entry
	return redis.NewBoolResult(true, nil)
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.delError != nil {
		return redis.NewIntResult(0, m.delError)
	}

	var deleted int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}

// keysMatching returns the stored keys containing the given substring, for
// test assertions.
func (m *mockRedisClient) keysMatching(substr string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for key := range m.data {
		if strings.Contains(key, substr) {
			keys = append(keys, key)
		}
	}
	return keys
}
