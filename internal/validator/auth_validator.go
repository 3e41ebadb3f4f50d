package validator

import (
	"fmt"
	"strings"

	"localmarket/internal/domain/model"
	auth "localmarket/internal/usecase/auth_usecase"
)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() auth.Validator {
	return &authValidator{}
}

type field struct {
	name  string
	value string
}

// 空のものがあれば最初の1つを返す
func requireAll(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", auth.ErrMissingField, f.name)
		}
	}
	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(in auth.LoginInput) error {
	if err := requireAll(
		field{"role", in.Role},
		field{"identifier", in.Identifier},
		field{"password", in.Password},
	); err != nil {
		return err
	}

	if !model.Role(strings.TrimSpace(in.Role)).Valid() {
		return auth.ErrInvalidRole
	}
	return nil
}

// 店舗登録（作業人数と画像は任意）
func (v *authValidator) ValidateRegisterMerchant(in auth.RegisterMerchantInput) error {
	return requireAll(
		field{"name", in.Name},
		field{"shop_name", in.ShopName},
		field{"phone", in.Phone},
		field{"age", in.Age},
		field{"address", in.Address},
		field{"password", in.Password},
	)
}

func (v *authValidator) ValidateRegisterConsumer(in auth.RegisterConsumerInput) error {
	return requireAll(
		field{"name", in.Name},
		field{"phone", in.Phone},
		field{"password", in.Password},
	)
}
