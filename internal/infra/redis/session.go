package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/storage"
)

const keyPrefix = "session:"

// NewClient connects to Redis using a redis:// URL and checks the connection.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// SessionStore keeps user sessions in Redis as JSON with a sliding TTL.
type SessionStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSessionStore(client *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func key(token string) string {
	return keyPrefix + token
}

func (s *SessionStore) Create(ctx context.Context, sess *entities.UserSession) error {
	val, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, key(sess.Token), val, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (*entities.UserSession, error) {
	return s.get(ctx, s.client, token)
}

func (s *SessionStore) get(ctx context.Context, c goredis.Cmdable, token string) (*entities.UserSession, error) {
	val, err := c.Get(ctx, key(token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess entities.UserSession
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// Update writes sess back only if the stored version still equals
// sess.Version. The check and the write run in one WATCH/MULTI block.
func (s *SessionStore) Update(ctx context.Context, sess *entities.UserSession) error {
	k := key(sess.Token)

	err := s.client.Watch(ctx, func(tx *goredis.Tx) error {
		stored, err := s.get(ctx, tx, sess.Token)
		if err != nil {
			return err
		}
		if stored.Version != sess.Version {
			return storage.ErrOptimisticLock
		}

		next := *sess
		next.Version++
		val, err := json.Marshal(&next)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, k, val, s.ttl)
			return nil
		})
		return err
	}, k)

	switch {
	case err == nil:
		sess.Version++
		return nil
	case errors.Is(err, goredis.TxFailedErr):
		return storage.ErrOptimisticLock
	case errors.Is(err, storage.ErrSessionNotFound), errors.Is(err, storage.ErrOptimisticLock):
		return err
	default:
		return fmt.Errorf("update session: %w", err)
	}
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
