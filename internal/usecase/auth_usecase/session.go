package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"localmarket/internal/domain/model"
	"localmarket/internal/navigation"
	"localmarket/internal/repository"
)

var (
	// 必須項目が空
	ErrMissingField = errors.New("missing required field")
	ErrInvalidRole  = errors.New("invalid role")

	// セッションが無い・期限切れ
	ErrSessionNotFound = errors.New("session not found")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(sessionID string, userID string, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 入力の必須チェック
type Validator interface {
	ValidateLogin(in LoginInput) error
	ValidateRegisterMerchant(in RegisterMerchantInput) error
	ValidateRegisterConsumer(in RegisterConsumerInput) error
}

type AccessToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ログイン・登録の共通の出力
type AuthOutput struct {
	User     model.UserProfile `json:"user"`
	Token    AccessToken       `json:"token"`
	NextPath string            `json:"next_path"`
}

// セッション作成の共通部分
type sessionStarter struct {
	sessions repository.SessionRepository
	hasher   PasswordHasher
	issuer   AccessTokenIssuer
	idGen    IDGenerator
	clock    Clock
	ttl      time.Duration
	logger   *slog.Logger
}

func (s *sessionStarter) start(ctx context.Context, user model.UserProfile, password string, event string) (AuthOutput, error) {
	//パスワードは必ずハッシュ化して保存（平文保存しない）
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthOutput{}, fmt.Errorf("hash password: %w", err)
	}
	user.ID = s.idGen.NewID()
	user.PasswordHash = hash

	now := s.clock.Now()
	sess := model.Session{
		ID:   s.idGen.NewID(),
		User: user,
		//最初は自分のロールのカタログ
		Cart:      model.CartSnapshot{Catalog: user.Role.Catalog(), Lines: map[string]int{}},
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	token, exp, err := s.issuer.Issue(sess.ID, user.ID, user.Role, now)
	if err != nil {
		return AuthOutput{}, fmt.Errorf("issue token: %w", err)
	}
	sess.ExpiresAt = exp

	if err := s.sessions.Create(ctx, sess); err != nil {
		return AuthOutput{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, event,
		slog.String("session_id", sess.ID),
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	out := AuthOutput{
		User: safeUser(user),
		Token: AccessToken{
			AccessToken: token,
			ExpiresIn:   int(exp.Sub(now).Seconds()),
			ExpiresAt:   exp,
		},
		NextPath: navigation.PathHome,
	}
	return out, nil
}

// 返す前にハッシュを消す
func safeUser(u model.UserProfile) model.UserProfile {
	u.PasswordHash = ""
	if u.Merchant != nil {
		m := *u.Merchant
		u.Merchant = &m
	}
	return u
}

// ログアウトと現在のユーザー
type SessionUsecase struct {
	sessions repository.SessionRepository
	clock    Clock
	logger   *slog.Logger
}

func NewSessionUsecase(sessions repository.SessionRepository, clock Clock, logger *slog.Logger) *SessionUsecase {
	return &SessionUsecase{sessions: sessions, clock: clock, logger: logger}
}

// ログアウト後の行き先
type LogoutOutput struct {
	NextPath string `json:"next_path"`
}

func (u *SessionUsecase) Logout(ctx context.Context, sessionID string) (LogoutOutput, error) {
	if err := u.sessions.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return LogoutOutput{}, ErrSessionNotFound
		}
		return LogoutOutput{}, err
	}

	u.logger.InfoContext(ctx, "logout", slog.String("session_id", sessionID))
	return LogoutOutput{NextPath: navigation.PathAuthStart}, nil
}

// 期限切れは消してから見つからない扱い
func (u *SessionUsecase) Current(ctx context.Context, sessionID string) (model.Session, error) {
	s, err := u.sessions.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return model.Session{}, ErrSessionNotFound
		}
		return model.Session{}, err
	}

	if s.Expired(u.clock.Now()) {
		_ = u.sessions.Delete(ctx, sessionID)
		return model.Session{}, ErrSessionNotFound
	}

	s.User = safeUser(s.User)
	return s, nil
}
