// Package cache provides an in-memory query cache: LRU with TTL,
// get-or-fetch semantics, and explicit invalidation by entity-kind tag
// ("transactions", "goals", ...) so mutations can drop exactly the
// entries derived from the records they touched.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Store is an LRU cache with TTL and tag-based invalidation.
type Store[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	byTag   map[string]map[string]struct{} // tag -> keys carrying it
}

type entry[T any] struct {
	key       string
	data      T
	tags      []string
	expiresAt time.Time
}

// New creates a Store holding at most maxSize entries, each valid for
// ttl after being set.
func New[T any](maxSize int, ttl time.Duration) *Store[T] {
	return &Store[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		byTag:   make(map[string]map[string]struct{}),
	}
}

// Get retrieves a live entry. Expired entries are removed on access.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	elem, exists := s.items[key]
	if !exists {
		return zero, false
	}

	e := elem.Value.(*entry[T])
	if time.Now().After(e.expiresAt) {
		s.removeElement(elem)
		return zero, false
	}

	s.lru.MoveToFront(elem)
	return e.data, true
}

// Set stores a value under key, registered against the given tags.
// The oldest entry is evicted when the store is over capacity.
func (s *Store[T]) Set(key string, data T, tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry[T]{
		key:       key,
		data:      data,
		tags:      tags,
		expiresAt: time.Now().Add(s.ttl),
	}

	if elem, exists := s.items[key]; exists {
		s.unindexTags(elem.Value.(*entry[T]))
		elem.Value = e
		s.indexTags(e)
		s.lru.MoveToFront(elem)
		return
	}

	elem := s.lru.PushFront(e)
	s.items[key] = elem
	s.indexTags(e)

	if s.lru.Len() > s.maxSize {
		if oldest := s.lru.Back(); oldest != nil {
			s.removeElement(oldest)
		}
	}
}

// GetOrFetch returns the cached value for key, or runs fetch and
// caches its result under the given tags. Concurrent callers missing
// on the same key may fetch more than once; the last write wins.
func (s *Store[T]) GetOrFetch(ctx context.Context, key string, tags []string, fetch func(context.Context) (T, error)) (T, error) {
	if data, ok := s.Get(key); ok {
		return data, nil
	}
	data, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.Set(key, data, tags...)
	return data, nil
}

// Delete removes a single key.
func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, exists := s.items[key]; exists {
		s.removeElement(elem)
	}
}

// InvalidateTag drops every entry registered under any of the tags.
func (s *Store[T]) InvalidateTag(tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range tags {
		for key := range s.byTag[tag] {
			if elem, exists := s.items[key]; exists {
				s.removeElement(elem)
			}
		}
	}
}

// CleanExpired removes all expired entries and reports how many.
func (s *Store[T]) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element
	for elem := s.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		s.removeElement(elem)
	}
	return len(toRemove)
}

// Size returns the current number of live and expired entries held.
func (s *Store[T]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store[T]) removeElement(elem *list.Element) {
	e := elem.Value.(*entry[T])
	s.unindexTags(e)
	delete(s.items, e.key)
	s.lru.Remove(elem)
}

func (s *Store[T]) indexTags(e *entry[T]) {
	for _, tag := range e.tags {
		keys, ok := s.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.byTag[tag] = keys
		}
		keys[e.key] = struct{}{}
	}
}

func (s *Store[T]) unindexTags(e *entry[T]) {
	for _, tag := range e.tags {
		if keys, ok := s.byTag[tag]; ok {
			delete(keys, e.key)
			if len(keys) == 0 {
				delete(s.byTag, tag)
			}
		}
	}
}
