package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/moatazsakr78/heawabas-main-sub000/config"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/cache"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/connectivity"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/events"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/reconciler"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/remote"
)

// DBProvider provides remote database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CacheProvider provides the tiered local cache
type CacheProvider interface {
	CacheStore() *cache.Store
}

// ReconcilerProvider provides the reconciliation engine
type ReconcilerProvider interface {
	Reconciler() *reconciler.Engine
}

// BusProvider provides the typed change-notification bus
type BusProvider interface {
	Bus() *events.Bus
}

// OracleProvider provides the connectivity oracle
type OracleProvider interface {
	Oracle() *connectivity.Oracle
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// RemoteClientProvider provides the raw remote store client
type RemoteClientProvider interface {
	RemoteClient() *remote.Client
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	CacheProvider
	ReconcilerProvider
	BusProvider
	OracleProvider
	SchedulerProvider
	RemoteClientProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()

	// LogOperation appends an admin op-log entry, best-effort
	LogOperation(oprName, oprIP, action, desc string)
}
