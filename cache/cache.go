// Package cache provides the process-lifetime descriptor cache.
package cache

import (
	"context"

	"github.com/jfk9w-go/flu/syncf"

	"github.com/optixflow/optixflow-go/cdn"
	"github.com/optixflow/optixflow-go/descriptor"
)

// DescriptorKey builds the cache key for a host + image ID pair.
func DescriptorKey(host string, id descriptor.ID) string {
	return "image:" + cdn.NormalizeHost(host) + ":" + id.String()
}

// Memory is an in-memory last-write-wins store. There is no eviction, TTL or
// persistence: entries are small and the set of distinct images per process
// is bounded. Reads tolerate staleness.
type Memory[V any] struct {
	mu      syncf.RWMutex
	entries map[string]V
}

// NewMemory creates an empty Memory store.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{entries: make(map[string]V)}
}

// Get returns the stored value for a key.
func (m *Memory[V]) Get(ctx context.Context, key string) (value V, ok bool) {
	ctx, cancel := m.mu.RLock(ctx)
	defer cancel()
	if ctx.Err() != nil {
		return
	}

	value, ok = m.entries[key]
	return
}

// Set stores a value for a key, replacing any previous one.
func (m *Memory[V]) Set(ctx context.Context, key string, value V) {
	ctx, cancel := m.mu.Lock(ctx)
	defer cancel()
	if ctx.Err() != nil {
		return
	}

	if m.entries == nil {
		m.entries = make(map[string]V)
	}

	m.entries[key] = value
}

// Has reports whether a value is stored for a key.
func (m *Memory[V]) Has(ctx context.Context, key string) bool {
	_, ok := m.Get(ctx, key)
	return ok
}
