package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrOptimisticLock  = errors.New("session was modified by another request")
)

type sessionEntry struct {
	data      []byte
	version   int64
	expiresAt time.Time
}

// SessionStorage keeps user sessions in memory. Sessions are stored
// serialized, so callers never share state with the store.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewSessionStorage creates a SessionStorage whose entries expire after ttl
// of inactivity.
func NewSessionStorage(ttl time.Duration, logger *zap.Logger) *SessionStorage {
	return &SessionStorage{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create stores a new session.
func (s *SessionStorage) Create(_ context.Context, sess *entities.UserSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sessionEntry{data: data, version: sess.Version, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Get retrieves a session by token.
func (s *SessionStorage) Get(_ context.Context, token string) (*entities.UserSession, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok || s.now().After(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}

	var sess entities.UserSession
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// Update replaces a session if nobody changed it since it was read.
// On success sess.Version is incremented.
func (s *SessionStorage) Update(_ context.Context, sess *entities.UserSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sess.Token]
	if !ok || s.now().After(entry.expiresAt) {
		return ErrSessionNotFound
	}
	if entry.version != sess.Version {
		return ErrOptimisticLock
	}

	next := *sess
	next.Version++
	data, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.sessions[sess.Token] = sessionEntry{data: data, version: next.Version, expiresAt: s.now().Add(s.ttl)}
	sess.Version = next.Version
	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *SessionStorage) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStorage) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, entry := range s.sessions {
		if now.After(entry.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the cron schedule until ctx is done.
func (s *SessionStorage) StartSweeper(ctx context.Context, spec string) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(spec, func() {
		if n := s.Sweep(); n > 0 {
			s.logger.Info("expired sessions removed", zap.Int("count", n))
		}
	})
	if err != nil {
		return fmt.Errorf("add sweep job: %w", err)
	}

	c.Start()
	s.logger.Info("session sweeper started", zap.String("schedule", spec))

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		s.logger.Info("session sweeper stopped")
	}()

	return nil
}
