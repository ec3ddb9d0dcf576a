package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bjo163/expiryexpert/internal/webserver"
)

// registerSettingsRoutes registers the runtime settings endpoints
func registerSettingsRoutes() {
	webserver.ApiGET("/settings", listSettings)
	webserver.ApiPUT("/settings/:category/:key", updateSetting)
}

type settingForm struct {
	Value interface{} `json:"value"`
}

func listSettings(c echo.Context) error {
	settings := GetSettings(c)
	if settings == nil {
		return fail(c, http.StatusServiceUnavailable, "SETTINGS_DISABLED", "Settings manager is not configured", nil)
	}
	return ok(c, settings.List())
}

// updateSetting writes one category/key value. Jobs read their settings
// on every run; scheduler trigger values take effect on the next restart.
func updateSetting(c echo.Context) error {
	settings := GetSettings(c)
	if settings == nil {
		return fail(c, http.StatusServiceUnavailable, "SETTINGS_DISABLED", "Settings manager is not configured", nil)
	}

	var form settingForm
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed setting payload", err.Error())
	}
	if form.Value == nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Setting value is required", nil)
	}

	category := c.Param("category")
	key := c.Param("key")
	settings.Set(category, key, form.Value)
	return ok(c, map[string]interface{}{
		"category": category,
		"key":      key,
		"value":    form.Value,
	})
}
