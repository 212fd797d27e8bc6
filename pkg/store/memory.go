package store

import (
	"context"
	"sync"
)

type postMetaKey struct {
	postID int64
	key    string
}

// Memory is an in-process Backend. The zero value is not usable; call
// NewMemory.
type Memory struct {
	mu      sync.RWMutex
	options map[string]any
	meta    map[postMetaKey]any
}

var _ Backend = (*Memory)(nil)

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		options: make(map[string]any),
		meta:    make(map[postMetaKey]any),
	}
}

// GetOption returns the option stored under name and whether it is set.
func (m *Memory) GetOption(_ context.Context, name string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.options[name]
	return value, ok, nil
}

// SetOption stores value under name, replacing any previous value.
func (m *Memory) SetOption(_ context.Context, name string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options[name] = value
	return nil
}

// GetPostMeta returns the meta value stored for postID and key and whether it is set.
func (m *Memory) GetPostMeta(_ context.Context, postID int64, key string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.meta[postMetaKey{postID: postID, key: key}]
	return value, ok, nil
}

// SetPostMeta stores value for postID and key, replacing any previous value.
func (m *Memory) SetPostMeta(_ context.Context, postID int64, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta[postMetaKey{postID: postID, key: key}] = value
	return nil
}
