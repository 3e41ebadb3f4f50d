package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"localmarket/internal/domain/model"
	"localmarket/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Role       string
	Identifier string // メールまたは電話番号
	Password   string
}

// ロールごとのログイン時プロフィールのひな形
type ProfileTemplates map[model.Role]model.UserProfile

type LoginUsecase struct {
	starter   sessionStarter
	validator Validator
	templates ProfileTemplates
}

func NewLoginUsecase(
	sessions repository.SessionRepository,
	validator Validator,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	ttl time.Duration,
	templates ProfileTemplates,
	logger *slog.Logger,
) *LoginUsecase {
	return &LoginUsecase{
		starter: sessionStarter{
			sessions: sessions,
			hasher:   hasher,
			issuer:   issuer,
			idGen:    idGen,
			clock:    clock,
			ttl:      ttl,
			logger:   logger,
		},
		validator: validator,
		templates: templates,
	}
}

// 空でなければ誰でも通す。プロフィールはひな形から作る
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (AuthOutput, error) {
	if err := u.validator.ValidateLogin(in); err != nil {
		return AuthOutput{}, err
	}

	role := model.Role(strings.TrimSpace(in.Role))
	tpl, ok := u.templates[role]
	if !ok {
		return AuthOutput{}, ErrInvalidRole
	}

	user := tpl
	user.Role = role
	user.Phone = strings.TrimSpace(in.Identifier)
	if tpl.Merchant != nil {
		m := *tpl.Merchant
		user.Merchant = &m
	}

	return u.starter.start(ctx, user, in.Password, "login")
}
