package adminapi

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/process"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/cache"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/reconciler"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/remote"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/webserver"
)

func registerSyncRoutes() {
	webserver.ApiGET("/api/admin/sync/status", syncStatus)
	webserver.ApiPOST("/api/admin/sync/:dataset", triggerSync)
	webserver.ApiPOST("/api/admin/datasets/:dataset/purge", purgeDataset)
}

// syncStatus feeds the admin log view: the last classified errors with
// technical detail and suggestions, plus online state and last sync time.
func syncStatus(c echo.Context) error {
	a := GetApp(c)
	engine := a.Reconciler()
	tracker := engine.Tracker()

	var lastSuccess interface{}
	if ts := tracker.LastSuccess(); !ts.IsZero() {
		lastSuccess = ts
	}

	stats := map[string]interface{}{}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			stats["rss_mb"] = mi.RSS / 1024 / 1024
		}
		if cp, err := p.CPUPercent(); err == nil {
			stats["cpu_percent"] = cp
		}
	}

	return ok(c, map[string]interface{}{
		"online":      a.Oracle().IsOnline(),
		"lastSuccess": lastSuccess,
		"lastError":   tracker.LastError(),
		"errors":      tracker.Recent(),
		"datasets":    engine.Statuses(),
		"process":     stats,
	})
}

func triggerSync(c echo.Context) error {
	dataset := c.Param("dataset")
	err := GetApp(c).Reconciler().Pull(c.Request().Context(), dataset)
	switch {
	case err == nil:
		return ok(c, map[string]interface{}{"dataset": dataset, "synced": true})
	case errors.Is(err, reconciler.ErrUnknownDataset):
		return fail(c, http.StatusNotFound, "UNKNOWN_DATASET", "No such dataset", dataset)
	case errors.Is(err, reconciler.ErrCooldown), errors.Is(err, reconciler.ErrSyncInFlight):
		return fail(c, http.StatusTooManyRequests, "PLEASE_WAIT", "A sync just ran; please wait before retrying", err.Error())
	default:
		ce := reconciler.Classify(err)
		return fail(c, http.StatusBadGateway, "SYNC_FAILED", ce.UserMessage, ce.TechnicalDetail)
	}
}

// purgeDataset wipes a dataset on both sides. Destructive; admin-only.
func purgeDataset(c echo.Context) error {
	a := GetApp(c)
	dataset := c.Param("dataset")
	ctx := c.Request().Context()

	var key string
	var err error
	switch dataset {
	case remote.DatasetProducts:
		key = cache.KeyProducts
		err = a.RemoteClient().DeleteAllProducts(ctx)
	case remote.DatasetCategories:
		key = cache.KeyCategories
		err = a.RemoteClient().DeleteAllCategories(ctx)
	default:
		return fail(c, http.StatusNotFound, "UNKNOWN_DATASET", "No such dataset", dataset)
	}
	if err != nil {
		ce := reconciler.Classify(err)
		return fail(c, http.StatusBadGateway, "PURGE_FAILED", ce.UserMessage, ce.TechnicalDetail)
	}

	store := a.CacheStore()
	_ = store.Remove(key)
	_ = store.Remove(cache.TombstonesKey(dataset))
	// the dataset stays marked as synced so an empty remote is not
	// re-bootstrapped from a stale local copy
	_ = store.PutJSON(cache.EverSyncedKey(dataset), true)

	a.LogOperation(adminName(c), c.RealIP(), "purge", "dataset "+dataset+" at "+time.Now().Format(time.RFC3339))
	return ok(c, map[string]interface{}{"dataset": dataset, "purged": true})
}
