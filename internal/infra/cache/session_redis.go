package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "localmarket:session:"

// 楽観ロックの再試行回数
const maxUpdateRetries = 5

// redisに保存する形（UserProfileのjsonはハッシュを落とすので別に持つ）
type sessionRecord struct {
	Session      model.Session `json:"session"`
	PasswordHash string        `json:"password_hash,omitempty"`
}

type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// REDIS_ADDR から接続する
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return client, nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func (r *SessionRepository) Create(ctx context.Context, s model.Session) error {
	data, err := encodeSession(s)
	if err != nil {
		return err
	}

	ok, err := r.client.SetNX(ctx, sessionKey(s.ID), data, ttlUntil(s.ExpiresAt)).Result()
	if err != nil {
		return fmt.Errorf("redis: create session: %w", err)
	}
	if !ok {
		return repo.ErrConflict
	}
	return nil
}

func (r *SessionRepository) Find(ctx context.Context, sessionID string) (model.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, repo.ErrSessionNotFound
		}
		return model.Session{}, fmt.Errorf("redis: get session: %w", err)
	}
	return decodeSession(data)
}

// WATCHしてから書く。他で書き換えられたらやり直す
func (r *SessionRepository) Update(ctx context.Context, sessionID string, fn func(s *model.Session) error) error {
	key := sessionKey(sessionID)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return repo.ErrSessionNotFound
			}
			return err
		}

		s, err := decodeSession(data)
		if err != nil {
			return err
		}
		if err := fn(&s); err != nil {
			return err
		}

		next, err := encodeSession(s)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, redis.KeepTTL)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis: update session %s: too many conflicts", sessionID)
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	n, err := r.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	if n == 0 {
		return repo.ErrSessionNotFound
	}
	return nil
}

func encodeSession(s model.Session) ([]byte, error) {
	data, err := json.Marshal(sessionRecord{Session: s, PasswordHash: s.User.PasswordHash})
	if err != nil {
		return nil, fmt.Errorf("redis: encode session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (model.Session, error) {
	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.Session{}, fmt.Errorf("redis: decode session: %w", err)
	}
	rec.Session.User.PasswordHash = rec.PasswordHash
	if rec.Session.Cart.Lines == nil {
		rec.Session.Cart.Lines = map[string]int{}
	}
	return rec.Session, nil
}

// 期限なしは0（無期限）
func ttlUntil(expiresAt time.Time) time.Duration {
	if expiresAt.IsZero() {
		return 0
	}
	d := time.Until(expiresAt)
	if d <= 0 {
		return time.Second
	}
	return d
}
