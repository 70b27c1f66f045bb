// Package cachetest provides an in-process cache.Cache for tests.
package cachetest

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"
)

type entry struct {
	data    []byte
	expires time.Time
}

type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry), now: time.Now}
}

func (m *Memory) get(key string) (entry, bool) {

	e, ok := m.entries[key]
	if !ok {
		return entry{}, false
	}

	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return entry{}, false
	}

	return e, true
}

func (m *Memory) GetJSON(_ context.Context, key string, dest any) (bool, error) {

	m.mu.Lock()
	e, ok := m.get(key)
	m.mu.Unlock()

	if !ok {
		return false, nil
	}

	return true, json.Unmarshal(e.data, dest)
}

func (m *Memory) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {

	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.entries[key] = entry{data: data, expires: m.now().Add(ttl)}
	m.mu.Unlock()

	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {

	m.mu.Lock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	m.mu.Unlock()

	return nil
}

func (m *Memory) DeletePattern(_ context.Context, pattern string) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.entries, key)
		}
	}

	return nil
}

func (m *Memory) Incr(_ context.Context, key string, delta int64) (int64, bool, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.get(key)
	if !ok {
		return 0, false, nil
	}

	var n int64
	if err := json.Unmarshal(e.data, &n); err != nil {
		return 0, false, err
	}

	n += delta
	e.data, _ = json.Marshal(n)
	m.entries[key] = e

	return n, true, nil
}

func (m *Memory) SetInt(_ context.Context, key string, value int64, ttl time.Duration) error {

	data, _ := json.Marshal(value)

	e := entry{data: data}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()

	return nil
}

// Len reports how many live entries the cache holds.
func (m *Memory) Len() int {

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key := range m.entries {
		if _, ok := m.get(key); ok {
			n++
		}
	}

	return n
}
