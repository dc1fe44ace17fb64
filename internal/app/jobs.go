package app

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/moatazsakr78/heawabas-main-sub000/internal/domain"
	"github.com/moatazsakr78/heawabas-main-sub000/internal/reconciler"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// tombstoneRetention is how long delete markers are kept remotely. Long
// enough for every offline client to reconcile, short enough that the
// marker table stays small.
const tombstoneRetention = 30 * 24 * time.Hour

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 1m", func() {
		a.SchedSyncTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedHousekeepingTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSyncTask reconciles every registered dataset through a small worker
// pool. It pushes rather than pulls: push merges local edits up before
// adopting the remote read-back, so mutations made while offline survive the
// first run after reconnection instead of being overwritten by remote state.
func (a *Application) SchedSyncTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	if !a.oracle.IsOnline() {
		zap.L().Debug("scheduled sync skipped: offline")
		return
	}

	pool, err := ants.NewPool(3)
	if err != nil {
		zap.S().Errorf("sync pool error %s", err.Error())
		return
	}
	defer pool.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	done := make(chan struct{}, len(a.engine.Datasets()))
	for _, dataset := range a.engine.Datasets() {
		dataset := dataset
		if err := pool.Submit(func() {
			defer func() { done <- struct{}{} }()
			err := a.engine.Push(ctx, dataset)
			switch err {
			case nil:
				zap.L().Debug("scheduled sync complete", zap.String("dataset", dataset))
			case reconciler.ErrCooldown, reconciler.ErrSyncInFlight:
				// fine, a recent or concurrent sync covers it
			default:
				zap.L().Warn("scheduled sync failed",
					zap.String("dataset", dataset), zap.Error(err))
			}
		}); err != nil {
			done <- struct{}{}
		}
	}
	for range a.engine.Datasets() {
		<-done
	}
}

// SchedHousekeepingTask prunes expired tombstones and old op-log rows.
func (a *Application) SchedHousekeepingTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := a.engine.PruneTombstones(ctx, time.Now().Add(-tombstoneRetention)); err != nil {
		zap.L().Warn("tombstone prune failed", zap.Error(err))
	}

	a.gormDB.
		Where("opt_time < ? ", time.Now().
			Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})
}
