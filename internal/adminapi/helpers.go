package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/app"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/cache"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/webserver"
)

// Init registers all API routes. Call after webserver.Init.
func Init() {
	registerAuthRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerSettingsRoutes()
	registerImageRoutes()
	registerSyncRoutes()
}

// GetApp returns the application context for the request.
func GetApp(c echo.Context) app.AppContext {
	return webserver.GetAppContext(c)
}

// GetDB returns the remote database handle for the request.
func GetDB(c echo.Context) *gorm.DB {
	return GetApp(c).DB()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"data":     data,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// loadProducts reads the current working set from the local cache. Pages
// never hit the remote store directly; they re-read the cache after change
// notifications.
func loadProducts(a app.AppContext) ([]domain.Product, error) {
	var items []domain.Product
	_, err := a.CacheStore().GetJSON(cache.KeyProducts, &items)
	return items, err
}

func loadCategories(a app.AppContext) ([]domain.Category, error) {
	var items []domain.Category
	_, err := a.CacheStore().GetJSON(cache.KeyCategories, &items)
	return items, err
}

// loadSettings returns the cached settings record, or the defaults.
func loadSettings(a app.AppContext) domain.Settings {
	var items []domain.Settings
	if ok, err := a.CacheStore().GetJSON(cache.KeySettings, &items); err == nil && ok && len(items) > 0 {
		if items[0].NewProductDays >= 1 {
			return items[0]
		}
	}
	return domain.DefaultSettings()
}

// syncOutcome summarizes how a local mutation fared remotely; it feeds the
// transient banner on the admin side.
type syncOutcome struct {
	SyncedRemotely bool   `json:"syncedRemotely"`
	Notice         string `json:"notice,omitempty"`
}
