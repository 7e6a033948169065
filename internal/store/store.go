// Package store keeps fields in memory under generated ids.
package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"rensa_sim/internal/field"
)

var (
	ErrNotFound = errors.New("field not found")
	ErrFull     = errors.New("store full")
)

// Store is safe for concurrent use. Fields are stored by value, so callers always
// work on copies and write back through Update.
type Store struct {
	mu     sync.Mutex
	fields map[string]field.Field
	limit  int
}

// New returns a store holding at most limit fields; limit <= 0 means unbounded.
func New(limit int) *Store {
	return &Store{
		fields: make(map[string]field.Field),
		limit:  limit,
	}
}

func (s *Store) Create(f field.Field) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit > 0 && len(s.fields) >= s.limit {
		return "", ErrFull
	}
	id := uuid.NewString()
	s.fields[id] = f
	return id, nil
}

func (s *Store) Get(id string) (field.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fields[id]
	if !ok {
		return field.Field{}, ErrNotFound
	}
	return f, nil
}

// Update applies fn to a copy of the field and stores the copy only if fn
// succeeds.
func (s *Store) Update(id string, fn func(*field.Field) error) (field.Field, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fields[id]
	if !ok {
		return field.Field{}, ErrNotFound
	}
	if err := fn(&f); err != nil {
		return s.fields[id], err
	}
	s.fields[id] = f
	return f, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fields[id]; !ok {
		return ErrNotFound
	}
	delete(s.fields, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fields)
}

// IDs returns the stored ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.fields))
	for id := range s.fields {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)
	return ids
}
