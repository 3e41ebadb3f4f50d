package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"localmarket/internal/config"
	"localmarket/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

// ルーター（middlewareとルート登録まで）
func New(cfg config.Config, logger *slog.Logger, sessions middleware.SessionReader, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.Tracing("localmarket"))
	e.Use(middleware.RequestLogger(logger))

	RegisterRoutes(e, cfg, sessions, h)
	return e
}

// ctxが終わるまで待ち受けて、終わったら止める
func Start(ctx context.Context, e *echo.Echo, addr string, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("server shutting down")
	return e.Shutdown(shutdownCtx)
}
