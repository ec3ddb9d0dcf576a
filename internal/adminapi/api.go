// Package adminapi exposes the tracker to its UI over HTTP/JSON.
package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bjo163/expiryexpert/config"
	"github.com/bjo163/expiryexpert/internal/notify"
	"github.com/bjo163/expiryexpert/internal/reminder"
	"github.com/bjo163/expiryexpert/internal/store"
	"github.com/bjo163/expiryexpert/internal/webserver"
)

// InitRouter registers every admin API route. Call after webserver.Init.
func InitRouter() {
	registerProductRoutes()
	registerReminderRoutes()
	registerSettingsRoutes()
	registerSystemRoutes()
}

func GetStore(c echo.Context) store.Store {
	s, _ := c.Get(webserver.ContextStore).(store.Store)
	return s
}

func GetReminder(c echo.Context) *reminder.Scheduler {
	r, _ := c.Get(webserver.ContextReminder).(*reminder.Scheduler)
	return r
}

func GetToasts(c echo.Context) *notify.ToastHub {
	t, _ := c.Get(webserver.ContextToasts).(*notify.ToastHub)
	return t
}

func GetSettings(c echo.Context) webserver.SettingsStore {
	s, _ := c.Get(webserver.ContextSettings).(webserver.SettingsStore)
	return s
}

func GetConfig(c echo.Context) *config.AppConfig {
	cfg, _ := c.Get(webserver.ContextAppConfig).(*config.AppConfig)
	return cfg
}

type response struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

// ListResponse is the paginated list envelope.
type ListResponse struct {
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, response{Code: 0, Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, errResponse{Code: code, Message: message, Detail: detail})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, ListResponse{
		Data: rows, Total: total, Page: page, PageSize: pageSize,
	})
}

func parsePagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("perPage"))
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}
