package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moatazsakr78/heawabas-main-sub000/config"
)

func getDatabase(cfg config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
		cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port, time.Local.String())

	logLevel := logger.Error
	if cfg.Debug {
		logLevel = logger.Info
	}

	// DisableAutomaticPing keeps startup alive while the remote store is
	// unreachable; the service runs from the local cache and the oracle
	// reports offline until connectivity returns.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:               logger.Default.LogMode(logLevel),
		DisableAutomaticPing: true,
	})
	if err != nil {
		zap.S().Errorf("remote store connect failed: %v", err)
		panic(err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
		sqlDB.SetMaxIdleConns(cfg.MaxConn / 10)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db
}
