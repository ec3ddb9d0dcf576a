package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bjo163/expiryexpert/internal/domain"
	"github.com/bjo163/expiryexpert/internal/webserver"
	"github.com/bjo163/expiryexpert/pkg/metrics"
)

// registerSystemRoutes registers toast, category and metrics endpoints
func registerSystemRoutes() {
	webserver.ApiGET("/toasts", listToasts)
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiGET("/metrics", dumpMetrics)
}

func listToasts(c echo.Context) error {
	hub := GetToasts(c)
	if hub == nil {
		return fail(c, http.StatusServiceUnavailable, "TOASTS_DISABLED", "Toast hub is not configured", nil)
	}
	return ok(c, hub.Recent())
}

// listCategories returns the category labels the UI navigates by: the
// derived views plus every storable label.
func listCategories(c echo.Context) error {
	labels := make([]string, 0, len(domain.StoredCategories)+2)
	labels = append(labels, domain.CategoryExpiringSoon)
	labels = append(labels, domain.StoredCategories...)
	labels = append(labels, domain.CategoryExpired)
	return ok(c, labels)
}

func dumpMetrics(c echo.Context) error {
	return ok(c, metrics.Snapshot())
}
