package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory keeps records in a process-local map. It backs tests and local
// development where no Redis is available.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]byte)}
}

func (s *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.records[key]

	if !ok {
		return nil, ErrNotFound
	}

	return clone(value), nil
}

func (s *Memory) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = clone(value)
	return nil
}

func (s *Memory) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *Memory) MGet(ctx context.Context, keys ...string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	values := make([][]byte, 0, len(keys))

	for _, key := range keys {
		if value, ok := s.records[key]; ok {
			values = append(values, clone(value))
		}
	}

	return values, nil
}

func (s *Memory) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string

	for key := range s.records {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	values := make([][]byte, 0, len(keys))

	for _, key := range keys {
		values = append(values, clone(s.records[key]))
	}

	return values, nil
}

// Update holds the write lock across the read-modify-write, so
// concurrent updates to the same key serialize instead of losing writes.
func (s *Memory) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []byte

	if value, ok := s.records[key]; ok {
		current = clone(value)
	}

	next, err := fn(current)

	if err != nil {
		return err
	}

	s.records[key] = clone(next)
	return nil
}

func (s *Memory) Close() error {
	return nil
}

func clone(value []byte) []byte {
	if value == nil {
		return nil
	}

	copied := make([]byte, len(value))
	copy(copied, value)
	return copied
}
