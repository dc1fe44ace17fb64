package app

import (
	"context"
	"net"
	"os"
	"path"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/moatazsakr78/heawabas-main-sub000/config"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/cache"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/connectivity"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/events"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/reconciler"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/remote"
	"github.com/moatazsakr78/heawabas-main-sub000/pkg/common"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron
	bus       *events.Bus
	boltTier  *cache.BoltTier
	cacheStr  *cache.Store
	oracle    *connectivity.Oracle
	remoteCli *remote.Client
	engine    *reconciler.Engine
}

// Ensure Application implements all interfaces
var (
	_ DBProvider           = (*Application)(nil)
	_ ConfigProvider       = (*Application)(nil)
	_ CacheProvider        = (*Application)(nil)
	_ ReconcilerProvider   = (*Application)(nil)
	_ BusProvider          = (*Application)(nil)
	_ OracleProvider       = (*Application)(nil)
	_ SchedulerProvider    = (*Application)(nil)
	_ RemoteClientProvider = (*Application)(nil)
	_ AppContext           = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig      { return a.appConfig }
func (a *Application) DB() *gorm.DB                   { return a.gormDB }
func (a *Application) CacheStore() *cache.Store       { return a.cacheStr }
func (a *Application) Reconciler() *reconciler.Engine { return a.engine }
func (a *Application) Bus() *events.Bus               { return a.bus }
func (a *Application) Oracle() *connectivity.Oracle   { return a.oracle }
func (a *Application) Scheduler() *cron.Cron          { return a.sched }
func (a *Application) RemoteClient() *remote.Client   { return a.remoteCli }

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	common.MakeDir(cfg.System.Workdir)
	common.MakeDir(path.Join(cfg.System.Workdir, "buckets"))

	// Remote database connection
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database)
	zap.S().Infof("Remote store connection initialized, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	// Local cache: memory fast tier, session file mirror, bbolt durable tier.
	// The service still starts when the slower tiers fail to open.
	a.cacheStr = cache.NewStore(a.buildCacheChain(cfg))

	a.bus = events.NewBus()

	dialAddr := ""
	if cfg.Database.Host != "" {
		dialAddr = net.JoinHostPort(cfg.Database.Host, cast.ToString(cfg.Database.Port))
	}
	a.oracle = connectivity.NewOracle(cfg.Cache.ProbeURL, dialAddr, cfg.Cache.ProbeInterval, a.bus)

	a.remoteCli = remote.NewClient(a.gormDB, cfg.Cache.RemoteTimeout)
	a.engine = reconciler.New(reconciler.Config{
		Cache:      a.cacheStr,
		Bus:        a.bus,
		Status:     reconciler.NewStatusTracker(time.Now),
		Oracle:     a.oracle,
		Tombstones: remote.NewTombstoneStore(a.remoteCli),
		Cooldown:   cfg.Cache.SyncCooldown,
	})
	a.engine.Register(remote.NewProductsAdapter(a.remoteCli))
	a.engine.Register(remote.NewCategoriesAdapter(a.remoteCli))
	a.engine.Register(remote.NewSettingsAdapter(a.remoteCli))

	go func() {
		time.Sleep(3 * time.Second)
		a.checkSettings()
	}()

	a.initJob()
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

func (a *Application) buildCacheChain(cfg *config.AppConfig) cache.Tier {
	fast := cache.NewMemoryTier()

	sessionDir := cfg.Cache.SessionDir
	if sessionDir == "" {
		sessionDir = path.Join(cfg.System.Workdir, "session")
	}
	// session mirror starts empty every run
	_ = os.RemoveAll(sessionDir)
	var mirror cache.Tier
	if ft, err := cache.NewFileTier(sessionDir); err != nil {
		zap.L().Warn("session mirror tier unavailable", zap.Error(err))
	} else {
		mirror = ft
	}

	cacheDir := cfg.Cache.Dir
	if cacheDir == "" {
		cacheDir = cfg.System.Workdir
	}
	common.MakeDir(cacheDir)
	var durable cache.Tier
	if bt, err := cache.NewBoltTier(path.Join(cacheDir, "catalog-cache.db")); err != nil {
		zap.L().Warn("durable cache tier unavailable", zap.Error(err))
	} else {
		a.boltTier = bt
		durable = bt
	}

	return cache.NewChain(fast, mirror, durable)
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	if track {
		if err := a.gormDB.Debug().Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	} else {
		if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
			zap.S().Error(err)
		}
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// StartBackgroundJobs starts the connectivity probe and periodic syncs.
func (a *Application) StartBackgroundJobs(ctx context.Context) {
	a.oracle.Start(ctx)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.boltTier != nil {
		_ = a.boltTier.Close()
	}
	_ = zap.L().Sync()
}
