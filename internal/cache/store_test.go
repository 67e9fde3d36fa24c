package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStoreGetSet(t *testing.T) {
	s := New[string](10, time.Minute)

	if _, ok := s.Get("missing"); ok {
		t.Fatal("expected miss on empty store")
	}

	s.Set("k", "v", "transactions")
	got, ok := s.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get = %q, %v; want \"v\", true", got, ok)
	}

	s.Set("k", "v2", "transactions")
	if got, _ := s.Get("k"); got != "v2" {
		t.Errorf("overwrite: got %q, want \"v2\"", got)
	}
	if s.Size() != 1 {
		t.Errorf("Size = %d, want 1", s.Size())
	}
}

func TestStoreTTL(t *testing.T) {
	s := New[int](10, 10*time.Millisecond)
	s.Set("k", 42)
	time.Sleep(20 * time.Millisecond)
	if _, ok := s.Get("k"); ok {
		t.Fatal("expired entry should miss")
	}
	if s.CleanExpired() != 0 {
		t.Error("Get should have removed the expired entry already")
	}
}

func TestStoreEviction(t *testing.T) {
	s := New[int](2, time.Minute)
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3) // evicts a, the least recently used
	if _, ok := s.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := s.Get("b"); !ok {
		t.Error("b should survive")
	}
	if _, ok := s.Get("c"); !ok {
		t.Error("c should survive")
	}
}

func TestStoreInvalidateTag(t *testing.T) {
	s := New[int](10, time.Minute)
	s.Set("list:1", 1, "transactions")
	s.Set("list:2", 2, "transactions", "dashboard")
	s.Set("goals:1", 3, "goals")

	s.InvalidateTag("transactions")

	if _, ok := s.Get("list:1"); ok {
		t.Error("tagged entry should be invalidated")
	}
	if _, ok := s.Get("list:2"); ok {
		t.Error("multi-tagged entry should be invalidated")
	}
	if _, ok := s.Get("goals:1"); !ok {
		t.Error("unrelated tag should survive")
	}
}

func TestStoreGetOrFetch(t *testing.T) {
	s := New[int](10, time.Minute)
	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return 7, nil
	}

	got, err := s.GetOrFetch(context.Background(), "k", []string{"goals"}, fetch)
	if err != nil || got != 7 {
		t.Fatalf("GetOrFetch = %d, %v", got, err)
	}
	got, err = s.GetOrFetch(context.Background(), "k", []string{"goals"}, fetch)
	if err != nil || got != 7 {
		t.Fatalf("second GetOrFetch = %d, %v", got, err)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}

	s.InvalidateTag("goals")
	if _, err := s.GetOrFetch(context.Background(), "k", []string{"goals"}, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("fetch after invalidation called %d times, want 2", calls)
	}
}

func TestStoreGetOrFetchError(t *testing.T) {
	s := New[int](10, time.Minute)
	wantErr := errors.New("backend down")
	_, err := s.GetOrFetch(context.Background(), "k", nil, func(context.Context) (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if _, ok := s.Get("k"); ok {
		t.Error("failed fetch must not be cached")
	}
}

func TestManagerCleanup(t *testing.T) {
	s := New[int](10, 5*time.Millisecond)
	s.Set("k", 1)

	m := NewManager()
	m.Register(s)
	m.StartCleanup(10 * time.Millisecond)
	defer m.Stop()

	time.Sleep(30 * time.Millisecond)
	if s.Size() != 0 {
		t.Errorf("Size after cleanup = %d, want 0", s.Size())
	}
}
