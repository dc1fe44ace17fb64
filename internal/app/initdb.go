package app

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/cache"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
	"github.com/moatazsakr78/heawabas-main-sub000/pkg/common"
)

// checkSettings makes sure the single settings record exists remotely and
// that the local cache has a usable value even before the first sync.
func (a *Application) checkSettings() {
	defaults := domain.DefaultSettings()
	defaults.CreatedAt = time.Now()
	defaults.UpdatedAt = defaults.CreatedAt

	var row domain.AppSettingsRow
	err := a.gormDB.Where("id = ?", domain.SettingsID).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.AppSettingsRow{
			ID:             domain.SettingsID,
			NewProductDays: defaults.NewProductDays,
			CreatedAt:      defaults.CreatedAt,
			UpdatedAt:      defaults.UpdatedAt,
		}).Error; err != nil {
			zap.L().Warn("failed to seed settings row", zap.Error(err))
		} else {
			zap.L().Info("initialized default settings",
				zap.Int("newProductDays", defaults.NewProductDays))
		}
	case err != nil:
		// remote unreachable; the cache seed below still applies
		zap.L().Warn("failed to query settings row", zap.Error(err))
	}

	if ok, _ := a.cacheStr.Has(cache.KeySettings); !ok {
		if err := a.cacheStr.PutJSON(cache.KeySettings, []domain.Settings{defaults}); err != nil {
			zap.L().Error("failed to seed local settings cache", zap.Error(err))
		}
	}
}

// LogOperation appends an admin op-log entry, best-effort.
func (a *Application) LogOperation(oprName, oprIP, action, desc string) {
	err := a.gormDB.Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   oprName,
		OprIp:     oprIP,
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}).Error
	if err != nil {
		zap.L().Debug("op log write failed", zap.Error(err))
	}
}
