// Package webserver hosts the admin HTTP API consumed by the UI shell.
package webserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/bjo163/expiryexpert/config"
	"github.com/bjo163/expiryexpert/internal/notify"
	"github.com/bjo163/expiryexpert/internal/reminder"
	"github.com/bjo163/expiryexpert/internal/store"
)

const apiPrefix = "/api/v1"

var server *echo.Echo

// Context keys under which request handlers find their dependencies.
const (
	ContextAppConfig = "app_config"
	ContextStore     = "app_store"
	ContextReminder  = "app_reminder"
	ContextToasts    = "app_toasts"
	ContextSettings  = "app_settings"
)

// SettingsStore is the runtime settings surface the admin API reads and
// mutates; satisfied by app.ConfigManager.
type SettingsStore interface {
	List() map[string]interface{}
	Set(category, key string, value interface{})
	GetString(category, key string) string
}

// Dependencies are injected into every request context so handlers stay
// free of package-level state.
type Dependencies struct {
	Config   *config.AppConfig
	Store    store.Store
	Reminder *reminder.Scheduler
	Toasts   *notify.ToastHub
	Settings SettingsStore
}

func Init(deps Dependencies) {
	server = echo.New()
	server.HideBanner = true
	server.HidePort = true

	server.Use(middleware.Recover())
	server.Use(middleware.CORS())
	server.Use(requestLogger())
	server.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextAppConfig, deps.Config)
			c.Set(ContextStore, deps.Store)
			c.Set(ContextReminder, deps.Reminder)
			c.Set(ContextToasts, deps.Toasts)
			c.Set(ContextSettings, deps.Settings)
			return next(c)
		}
	})

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.Config != nil && deps.Config.System.Debug {
		pprof.Register(server)
	}
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	}
}

// ApiGET registers a GET route under the API prefix.
func ApiGET(path string, h echo.HandlerFunc) {
	server.GET(apiPrefix+path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.POST(apiPrefix+path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.PUT(apiPrefix+path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.DELETE(apiPrefix+path, h)
}

func Start(addr string) error {
	zap.L().Info("admin api listening", zap.String("addr", addr))
	return server.Start(addr)
}

func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
