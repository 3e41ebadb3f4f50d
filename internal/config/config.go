package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// 合計金額の出し方
const (
	//カートから計算する
	TotalsComputed = "computed"
	//デモ用の固定値を表示する
	TotalsFixed = "fixed"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	JWTSecret  string        // JWT署名シークレット
	SessionTTL time.Duration // セッション（トークン）の有効期限
	BcryptCost int

	TotalsPolicy        string
	DeliveryFeeConsumer decimal.Decimal
	DeliveryFeeMerchant decimal.Decimal

	DatabaseURL string // 空ならメモリ保存
	RedisAddr   string // 空ならメモリ保存

	OTLPEndpoint string // 空ならトレース無効
	LogLevel     string
}

const devJWTSecret = "dev_secret_change_me"

// Loadは環境変数
func Load() (Config, error) {
	sessionTTL, err := durationOr("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cost, err := intOr("BCRYPT_COST", 12)
	if err != nil {
		return Config{}, err
	}
	feeConsumer, err := decimalOr("DELIVERY_FEE_CONSUMER", decimal.NewFromInt(20))
	if err != nil {
		return Config{}, err
	}
	feeMerchant, err := decimalOr("DELIVERY_FEE_MERCHANT", decimal.NewFromInt(100))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: sessionTTL,
		BcryptCost: cost,

		TotalsPolicy:        getenv("TOTALS_POLICY", TotalsComputed),
		DeliveryFeeConsumer: feeConsumer,
		DeliveryFeeMerchant: feeMerchant,

		DatabaseURL: databaseURL(),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		if cfg.GoEnv == "prod" {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	switch cfg.TotalsPolicy {
	case TotalsComputed, TotalsFixed:
	default:
		return Config{}, fmt.Errorf("TOTALS_POLICY must be %q or %q", TotalsComputed, TotalsFixed)
	}
	if cfg.DeliveryFeeConsumer.IsNegative() || cfg.DeliveryFeeMerchant.IsNegative() {
		return Config{}, fmt.Errorf("delivery fee must not be negative")
	}

	return cfg, nil
}

// ":8080" 形式にする
func (c Config) Addr() string {
	if c.Port != "" && c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}

// DATABASE_URL があれば最優先、無ければPOSTGRES_HOSTがあるときだけ組み立てる
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host,
		getenv("POSTGRES_PORT", "5432"),
		getenv("POSTGRES_USER", "postgres"),
		getenv("POSTGRES_PASSWORD", "postgres"),
		getenv("POSTGRES_DB", "app"),
		getenv("POSTGRES_SSLMODE", "disable"),
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func intOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func decimalOr(key string, def decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be number: %w", key, err)
	}
	return d, nil
}
