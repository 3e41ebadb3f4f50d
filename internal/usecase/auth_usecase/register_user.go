package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"localmarket/internal/domain/model"
	"localmarket/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 店舗オーナーの登録
type RegisterMerchantInput struct {
	Name        string
	ShopName    string
	Phone       string
	Age         string
	Address     string
	Password    string
	WorkerCount string // 任意
	ShopImage   string // 任意（参照文字列のみ）
}

// 利用者の登録
type RegisterConsumerInput struct {
	Name     string
	Phone    string
	Password string
	Address  string // 任意
	Age      string // 任意
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	starter   sessionStarter
	validator Validator
}

// DI
func NewRegisterUserUsecase(
	sessions repository.SessionRepository,
	validator Validator,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	ttl time.Duration,
	logger *slog.Logger,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
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
	}
}

func (u *RegisterUserUsecase) RegisterMerchant(ctx context.Context, in RegisterMerchantInput) (AuthOutput, error) {
	if err := u.validator.ValidateRegisterMerchant(in); err != nil {
		return AuthOutput{}, err
	}

	user := model.UserProfile{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Role:    model.RoleMerchant,
		Address: strings.TrimSpace(in.Address),
		Age:     strings.TrimSpace(in.Age),
		Merchant: &model.MerchantDetails{
			ShopName:    strings.TrimSpace(in.ShopName),
			WorkerCount: strings.TrimSpace(in.WorkerCount),
			ShopImage:   strings.TrimSpace(in.ShopImage),
		},
	}
	return u.starter.start(ctx, user, in.Password, "register merchant")
}

func (u *RegisterUserUsecase) RegisterConsumer(ctx context.Context, in RegisterConsumerInput) (AuthOutput, error) {
	if err := u.validator.ValidateRegisterConsumer(in); err != nil {
		return AuthOutput{}, err
	}

	user := model.UserProfile{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Role:    model.RoleConsumer,
		Address: strings.TrimSpace(in.Address),
		Age:     strings.TrimSpace(in.Age),
	}
	return u.starter.start(ctx, user, in.Password, "register consumer")
}
