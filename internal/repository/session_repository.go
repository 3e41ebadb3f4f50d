package repository

import (
	"context"
	"errors"

	"localmarket/internal/domain/model"
)

var ErrSessionNotFound = errors.New("session not found")

// ログイン状態の保存・取得
type SessionRepository interface {
	Create(ctx context.Context, s model.Session) error
	Find(ctx context.Context, sessionID string) (model.Session, error)
	//読み取り→変更→保存を1つの操作として行う
	Update(ctx context.Context, sessionID string, fn func(s *model.Session) error) error
	Delete(ctx context.Context, sessionID string) error
}
