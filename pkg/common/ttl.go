package common

import (
	"sync"
	"time"
)

type ttlEntry struct {
	value     interface{}
	expiresAt time.Time
}

// TTLMap is an in-process map whose entries expire after a fixed duration.
// Expired entries are dropped lazily on read and swept by a janitor goroutine.
type TTLMap struct {
	entries sync.Map
	ttl     time.Duration
}

func NewTTLMap(ttl time.Duration) *TTLMap {
	m := &TTLMap{ttl: ttl}
	go m.janitor()
	return m
}

func (m *TTLMap) Set(key string, value interface{}) {
	m.entries.Store(key, ttlEntry{value: value, expiresAt: time.Now().Add(m.ttl)})
}

func (m *TTLMap) Get(key string) (interface{}, bool) {
	raw, ok := m.entries.Load(key)
	if !ok {
		return nil, false
	}
	entry, ok := raw.(ttlEntry)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		m.entries.Delete(key)
		return nil, false
	}
	return entry.value, true
}

func (m *TTLMap) Delete(key string) {
	m.entries.Delete(key)
}

func (m *TTLMap) janitor() {
	interval := m.ttl
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		m.entries.Range(func(key, raw interface{}) bool {
			if entry, ok := raw.(ttlEntry); ok && now.After(entry.expiresAt) {
				m.entries.Delete(key)
			}
			return true
		})
	}
}
