package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"localmarket/internal/config"
	"localmarket/internal/domain/model"
	"localmarket/internal/handler"
	"localmarket/internal/infra/cache"
	"localmarket/internal/infra/db"
	"localmarket/internal/infra/memory"
	infraRepo "localmarket/internal/infra/repository"
	"localmarket/internal/infra/seed"
	"localmarket/internal/pkg/telemetry"
	"localmarket/internal/repository"
	"localmarket/internal/server"
	"localmarket/internal/usecase"
	auth "localmarket/internal/usecase/auth_usecase"
	"localmarket/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// 保存先（DB/redisが無ければメモリ）
type stores struct {
	orders        repository.OrderRepository
	notifications repository.NotificationRepository
	auditLogs     repository.AuditLogRepository
	tx            repository.TransactionManager
	sessions      repository.SessionRepository
	closers       []func() error
}

func main() {
	//.envは任意
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("load .env failed", slog.String("error", err.Error()))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := telemetry.NewLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, "localmarket", cfg.OTLPEndpoint, cfg.GoEnv)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(flushCtx)
	}()

	data, err := seed.Load()
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, data, logger)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range st.closers {
			_ = c()
		}
	}()

	catalogs := memory.NewCatalogRepository(data.Catalogs)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	totals := newTotalsPolicy(cfg, data)

	//認証
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.SessionTTL)
	v := validator.NewAuthValidator()

	loginUC := auth.NewLoginUsecase(st.sessions, v, hasher, issuer, idGen, clock, cfg.SessionTTL, auth.ProfileTemplates(data.LoginProfiles), logger)
	registerUC := auth.NewRegisterUserUsecase(st.sessions, v, hasher, issuer, idGen, clock, cfg.SessionTTL, logger)
	sessionUC := auth.NewSessionUsecase(st.sessions, clock, logger)

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(catalogs)
	cartUC := usecase.NewCartUsecase(catalogs, st.sessions, logger)
	checkoutUC := usecase.NewCheckoutUsecase(catalogs, st.sessions, st.tx, totals, idGen, clock, logger)
	orderUC := usecase.NewOrderUsecase(st.orders)
	merchantOrderUC := usecase.NewMerchantOrderUsecase(st.orders, st.auditLogs, st.tx, clock, logger)
	notificationUC := usecase.NewNotificationUsecase(st.notifications)
	reportUC := usecase.NewReportUsecase(st.orders, st.notifications, data.Invoices)

	//Handler生成
	h := server.Handlers{
		Navigation: handler.NewNavigationHandler(sessionUC),
		Catalog:    handler.NewCatalogHandler(catalogUC),
		Auth:       handler.NewAuthHandler(loginUC, registerUC, sessionUC),
		Cart:       handler.NewCartHandler(cartUC, checkoutUC),
		Order:      handler.NewOrderHandler(orderUC),
		Merchant:   handler.NewMerchantHandler(merchantOrderUC, notificationUC, reportUC),
	}

	e := server.New(cfg, logger, sessionUC, h)
	return server.Start(ctx, e, cfg.Addr(), logger)
}

func openStores(ctx context.Context, cfg config.Config, data seed.Data, logger *slog.Logger) (stores, error) {
	var st stores

	if cfg.DatabaseURL != "" {
		gormDB, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			return stores{}, err
		}
		if err := db.Migrate(gormDB); err != nil {
			return stores{}, err
		}
		if err := db.Seed(ctx, gormDB, data.Orders, data.Notifications); err != nil {
			return stores{}, err
		}
		if sqlDB, err := gormDB.DB(); err == nil {
			st.closers = append(st.closers, sqlDB.Close)
		}

		//Repository（GORM実装）生成
		st.orders = infraRepo.NewOrderGormRepository(gormDB)
		st.notifications = infraRepo.NewNotificationGormRepository(gormDB)
		st.auditLogs = infraRepo.NewAuditLogGormRepository(gormDB)
		st.tx = infraRepo.NewTxManagerGorm(gormDB)
		logger.Info("storage: postgres")
	} else {
		orders := memory.NewOrderRepository(data.Orders)
		notifications := memory.NewNotificationRepository(data.Notifications)
		auditLogs := memory.NewAuditLogRepository()

		st.orders = orders
		st.notifications = notifications
		st.auditLogs = auditLogs
		st.tx = memory.NewTxManager(orders, notifications, auditLogs)
		logger.Info("storage: memory")
	}

	if cfg.RedisAddr != "" {
		client, err := cache.NewClient(ctx, cfg.RedisAddr)
		if err != nil {
			return stores{}, err
		}
		st.closers = append(st.closers, client.Close)
		st.sessions = cache.NewSessionRepository(client)
		logger.Info("sessions: redis", slog.String("addr", cfg.RedisAddr))
	} else {
		st.sessions = memory.NewSessionRepository()
		logger.Info("sessions: memory")
	}

	return st, nil
}

func newTotalsPolicy(cfg config.Config, data seed.Data) usecase.TotalsPolicy {
	fees := usecase.AmountTable{
		model.CatalogConsumer: cfg.DeliveryFeeConsumer,
		model.CatalogMerchant: cfg.DeliveryFeeMerchant,
	}
	if cfg.TotalsPolicy != config.TotalsFixed {
		return usecase.NewComputedTotals(fees)
	}

	//デモ表示と同じ固定額
	subtotals := usecase.AmountTable{}
	fixedFees := usecase.AmountTable{}
	for kind, ft := range data.FixedTotals {
		subtotals[kind] = ft.Subtotal
		fixedFees[kind] = ft.DeliveryFee
	}
	return usecase.NewFixedTotals(subtotals, fixedFees)
}
