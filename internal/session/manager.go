package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/metrics"
)

// Manager handles session storage with a Redis backend and a small local
// cache in front of it.
type Manager struct {
	rdb        *redis.Client
	logger     *zap.Logger
	ttl        time.Duration
	mu         sync.RWMutex
	localCache map[string]*Session
}

// NewManager wires the manager onto an existing Redis client.
func NewManager(rdb *redis.Client, logger *zap.Logger) *Manager {
	return &Manager{
		rdb:        rdb,
		logger:     logger,
		ttl:        24 * time.Hour,
		localCache: make(map[string]*Session),
	}
}

// Create creates a new session with a generated ID.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	return m.CreateWithID(ctx, uuid.New().String())
}

// CreateWithID creates a session under a caller-chosen ID, returning the
// existing session if one is already stored there.
func (m *Manager) CreateWithID(ctx context.Context, sessionID string) (*Session, error) {
	if existing, err := m.Get(ctx, sessionID); err == nil {
		return existing, nil
	}

	now := time.Now()
	s := &Session{
		ID:        sessionID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		History:   make([]Turn, 0, MaxHistory),
	}
	if err := m.save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.mu.Lock()
	m.localCache[sessionID] = s
	m.mu.Unlock()

	m.logger.Info("Created session", zap.String("session_id", sessionID))
	metrics.SessionsCreated.Inc()
	return s, nil
}

// Get retrieves a session by ID.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	if s, ok := m.localCache[sessionID]; ok {
		m.mu.RUnlock()
		metrics.SessionCacheHits.Inc()
		if s.IsExpired() {
			_ = m.Delete(ctx, sessionID)
			return nil, ErrSessionExpired
		}
		return s, nil
	}
	m.mu.RUnlock()
	metrics.SessionCacheMisses.Inc()

	data, err := m.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.IsExpired() {
		_ = m.Delete(ctx, sessionID)
		return nil, ErrSessionExpired
	}

	m.mu.Lock()
	m.localCache[sessionID] = &s
	m.mu.Unlock()
	return &s, nil
}

// AddTurn appends a turn to the session history, trimming to the most
// recent MaxHistory turns. Sessions are created on first write, so callers
// never have to pre-create one for a fresh conversation.
func (m *Manager) AddTurn(ctx context.Context, sessionID string, turn Turn) error {
	s, err := m.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
		s, err = m.CreateWithID(ctx, sessionID)
	}
	if err != nil {
		return err
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	s.History = append(s.History, turn)
	if len(s.History) > MaxHistory {
		s.History = s.History[len(s.History)-MaxHistory:]
	}
	s.UpdatedAt = time.Now()

	if err := m.save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	m.mu.Lock()
	m.localCache[sessionID] = s
	m.mu.Unlock()
	return nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	if err := m.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.mu.Lock()
	delete(m.localCache, sessionID)
	m.mu.Unlock()
	return nil
}

// Ping verifies the Redis backend is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	return m.rdb.Ping(ctx).Err()
}

func sessionKey(sessionID string) string {
	return "argus:session:" + sessionID
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		ttl = m.ttl
	}
	return m.rdb.Set(ctx, sessionKey(s.ID), data, ttl).Err()
}
