package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/feiralivre/feiralivre-backend/pkg/config"
	redisclient "github.com/feiralivre/feiralivre-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrNotFound signals a cookie pointing at a session Redis no longer holds.
var ErrNotFound = errors.New("session not found")

// Flash levels mirror the message categories rendered by the views.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot notice carried across a redirect.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Record is the server-side session payload. VendorID zero means the session
// is anonymous (flash-only, no authenticated vendor).
type Record struct {
	VendorID uint    `json:"vendor_id,omitempty"`
	Flashes  []Flash `json:"flashes,omitempty"`
}

// Authenticated reports whether the record carries a resolved vendor.
func (r *Record) Authenticated() bool {
	return r != nil && r.VendorID != 0
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager owns the opaque-id to session-record mapping in Redis.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
	}, nil
}

// NewManagerWithStore builds a manager on an arbitrary backing store. The
// regular constructor covers Redis; tests plug an in-memory store in here.
func NewManagerWithStore(store sessionStore, keyer sessionKeyer, ttl time.Duration) (*Manager, error) {
	if store == nil || keyer == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{store: store, keyer: keyer, ttl: ttl}, nil
}

// NewSessionID produces the opaque identifier handed to the client cookie.
func NewSessionID() string {
	return uuid.NewString()
}

// Create stores a fresh record and returns its opaque id.
func (m *Manager) Create(ctx context.Context, record Record) (string, error) {
	sid := NewSessionID()
	if err := m.Save(ctx, sid, record); err != nil {
		return "", err
	}
	return sid, nil
}

// Load fetches the record behind the opaque id.
func (m *Manager) Load(ctx context.Context, sid string) (*Record, error) {
	if sid == "" {
		return nil, ErrNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sid))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("decoding session record: %w", err)
	}
	return &record, nil
}

// Save overwrites the record and refreshes its TTL.
func (m *Manager) Save(ctx context.Context, sid string, record Record) error {
	if sid == "" {
		return fmt.Errorf("session id is required")
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}
	return m.store.Set(ctx, m.keyer.SessionKey(sid), string(raw), m.ttl)
}

// Destroy drops the whole record, discarding the vendor binding and any
// pending flashes alike.
func (m *Manager) Destroy(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sid))
}

// AddFlash appends a one-shot notice to the session.
func (m *Manager) AddFlash(ctx context.Context, sid, level, message string) error {
	record, err := m.Load(ctx, sid)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		record = &Record{}
	}
	record.Flashes = append(record.Flashes, Flash{Level: level, Message: message})
	return m.Save(ctx, sid, *record)
}

// PopFlashes drains and returns the pending notices.
func (m *Manager) PopFlashes(ctx context.Context, sid string) ([]Flash, error) {
	record, err := m.Load(ctx, sid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	flashes := record.Flashes
	if len(flashes) == 0 {
		return nil, nil
	}
	record.Flashes = nil
	if err := m.Save(ctx, sid, *record); err != nil {
		return nil, err
	}
	return flashes, nil
}
