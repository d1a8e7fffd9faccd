package prefs

import (
	"context"
	"errors"
	"strconv"
	"sync"
)

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("preferences store is closed")

// Store is a durable key/value store for user preferences. Values are kept as
// strings; booleans are encoded as "true"/"false".
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	GetBool(ctx context.Context, key string) (value bool, ok bool, err error)
	SetBool(ctx context.Context, key string, value bool) error
	Close() error
}

// decodeBool treats anything other than "true" as false, matching how the
// browser build read its localStorage flag.
func decodeBool(raw string) bool {
	return raw == strconv.FormatBool(true)
}

// MemoryStore keeps preferences for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) GetBool(ctx context.Context, key string) (bool, bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, ok, err
	}
	return decodeBool(raw), true, nil
}

func (s *MemoryStore) SetBool(ctx context.Context, key string, value bool) error {
	return s.Set(ctx, key, strconv.FormatBool(value))
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
