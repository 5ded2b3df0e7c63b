package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dinopark/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, addr, pass string) (*RedisStore, error) {
	const op = "session.NewRedisStore"

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Save(ctx context.Context, sess models.Session) error {
	const op = "session.RedisStore.Save"

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (models.Session, error) {
	const op = "session.RedisStore.Get"

	data, err := s.client.Get(ctx, key(sid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Session{}, ErrNotFound
		}

		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if sess.IsExpired() {
		return models.Session{}, ErrNotFound
	}

	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	const op = "session.RedisStore.Delete"

	if err := s.client.Del(ctx, key(sid)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func key(sid string) string {
	return "session:" + sid
}
