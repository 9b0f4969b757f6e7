package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockStore) SessionKey(sid string) string {
	return fmt.Sprintf("sess:%s", sid)
}

func newTestManager() (*Manager, *mockStore) {
	store := newMockStore()
	return &Manager{store: store, keyer: store, ttl: time.Hour}, store
}

func TestManagerCreateLoadDestroy(t *testing.T) {
	manager, store := newTestManager()
	ctx := context.Background()

	sid, err := manager.Create(ctx, Record{VendorID: 42})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, exists := store.data[store.SessionKey(sid)]; !exists {
		t.Fatalf("expected record stored for %q", sid)
	}

	record, err := manager.Load(ctx, sid)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if record.VendorID != 42 {
		t.Fatalf("expected vendor 42, got %d", record.VendorID)
	}
	if !record.Authenticated() {
		t.Fatal("record with vendor should be authenticated")
	}

	if err := manager.Destroy(ctx, sid); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := manager.Load(ctx, sid); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after destroy, got %v", err)
	}
}

func TestManagerLoadUnknownSession(t *testing.T) {
	manager, _ := newTestManager()
	if _, err := manager.Load(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := manager.Load(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty sid, got %v", err)
	}
}

func TestManagerFlashRoundTrip(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	sid, err := manager.Create(ctx, Record{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := manager.AddFlash(ctx, sid, FlashSuccess, "conta criada"); err != nil {
		t.Fatalf("add flash: %v", err)
	}
	if err := manager.AddFlash(ctx, sid, FlashError, "algo deu errado"); err != nil {
		t.Fatalf("add flash: %v", err)
	}

	flashes, err := manager.PopFlashes(ctx, sid)
	if err != nil {
		t.Fatalf("pop flashes: %v", err)
	}
	if len(flashes) != 2 {
		t.Fatalf("expected 2 flashes, got %d", len(flashes))
	}
	if flashes[0].Level != FlashSuccess || flashes[0].Message != "conta criada" {
		t.Fatalf("unexpected first flash %+v", flashes[0])
	}

	// Drained on first pop.
	flashes, err = manager.PopFlashes(ctx, sid)
	if err != nil {
		t.Fatalf("pop flashes: %v", err)
	}
	if len(flashes) != 0 {
		t.Fatalf("expected no flashes after drain, got %d", len(flashes))
	}
}

func TestAddFlashCreatesRecordForUnknownSession(t *testing.T) {
	manager, _ := newTestManager()
	ctx := context.Background()

	if err := manager.AddFlash(ctx, "fresh-sid", FlashInfo, "oi"); err != nil {
		t.Fatalf("add flash: %v", err)
	}
	record, err := manager.Load(ctx, "fresh-sid")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if record.Authenticated() {
		t.Fatal("flash-only record must stay anonymous")
	}
	if len(record.Flashes) != 1 {
		t.Fatalf("expected 1 flash, got %d", len(record.Flashes))
	}
}
