package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mitchellh/mapstructure"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/reconciler"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/remote"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/webserver"
)

func registerSettingsRoutes() {
	webserver.ApiGET("/api/settings", getSettings)
	webserver.ApiGET("/api/admin/settings", getSettings)
	webserver.ApiPUT("/api/admin/settings", updateSettings)
}

func getSettings(c echo.Context) error {
	return ok(c, loadSettings(GetApp(c)))
}

// updateSettings accepts a loose map payload; values arrive from forms as
// strings as often as numbers, so decoding is weakly typed.
func updateSettings(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse settings", err.Error())
	}

	settings := loadSettings(GetApp(c))
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           &settings,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DECODE_ERROR", "Failed to decode settings", err.Error())
	}
	if err := decoder.Decode(payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid settings payload", err.Error())
	}

	settings.ID = domain.SettingsID
	settings.UpdatedAt = time.Now()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = settings.UpdatedAt
	}
	if err := settings.Validate(); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	rec, err := reconciler.NewSyncRecord(&settings)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "ENCODE_ERROR", "Failed to encode settings", err.Error())
	}
	res, err := GetApp(c).Reconciler().SaveLocal(c.Request().Context(), remote.DatasetSettings, rec)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "CACHE_ERROR", "Failed to save settings", err.Error())
	}
	GetApp(c).LogOperation(adminName(c), c.RealIP(), "update", "settings")
	return ok(c, map[string]interface{}{"settings": settings, "sync": outcomeOf(res)})
}
