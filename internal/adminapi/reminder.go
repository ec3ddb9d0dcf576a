package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bjo163/expiryexpert/internal/webserver"
)

// registerReminderRoutes registers reminder scheduler control endpoints
func registerReminderRoutes() {
	webserver.ApiGET("/reminder", reminderStatus)
	webserver.ApiPOST("/reminder/run", reminderRun)
	webserver.ApiPOST("/reminder/restart", reminderRestart)
	webserver.ApiPOST("/reminder/stop", reminderStop)
}

func reminderStatus(c echo.Context) error {
	sched := GetReminder(c)
	if sched == nil {
		return fail(c, http.StatusServiceUnavailable, "REMINDER_DISABLED", "Reminder scheduler is not configured", nil)
	}
	return ok(c, sched.Status())
}

func reminderRun(c echo.Context) error {
	sched := GetReminder(c)
	if sched == nil {
		return fail(c, http.StatusServiceUnavailable, "REMINDER_DISABLED", "Reminder scheduler is not configured", nil)
	}
	sched.RunNow()
	return c.NoContent(http.StatusNoContent)
}

// reminderRestart re-snapshots the product set; products added since the
// last arm start being considered for reminders.
func reminderRestart(c echo.Context) error {
	sched := GetReminder(c)
	if sched == nil {
		return fail(c, http.StatusServiceUnavailable, "REMINDER_DISABLED", "Reminder scheduler is not configured", nil)
	}
	sched.Restart()
	return ok(c, sched.Status())
}

func reminderStop(c echo.Context) error {
	sched := GetReminder(c)
	if sched == nil {
		return fail(c, http.StatusServiceUnavailable, "REMINDER_DISABLED", "Reminder scheduler is not configured", nil)
	}
	sched.Stop()
	return ok(c, sched.Status())
}
