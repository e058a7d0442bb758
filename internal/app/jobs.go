package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJobs() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err = a.sched.AddFunc("@every 10m", a.SchedPurgeCacheTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@hourly", a.SchedCacheInfoTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}
}

// SchedPurgeCacheTask deletes cache records older than the retention
// window so an installation that stays offline for weeks does not
// serve arbitrarily ancient data forever.
func (a *Application) SchedPurgeCacheTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	retention := a.appConfig.Cache.RetentionHours
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-time.Duration(retention) * time.Hour).UnixMilli()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := a.productStore.PurgeOlderThan(ctx, cutoff); err != nil {
		zap.L().Error("purge products failed", zap.Error(err))
	}
	if err := a.categoryStore.PurgeOlderThan(ctx, cutoff); err != nil {
		zap.L().Error("purge categories failed", zap.Error(err))
	}
	if err := a.cartStore.PurgeOlderThan(ctx, cutoff); err != nil {
		zap.L().Error("purge carts failed", zap.Error(err))
	}
}

// SchedCacheInfoTask logs cache counts and ages for diagnostics.
func (a *Application) SchedCacheInfoTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	catalog, err := a.products.CacheInfo(ctx)
	if err != nil {
		zap.L().Error("catalog cache info failed", zap.Error(err))
	} else {
		zap.L().Info("catalog cache",
			zap.Int64("products", catalog.Products),
			zap.Int64("categories", catalog.Categories),
			zap.Int64("lastProductUpdate", catalog.LastProductUpdate),
			zap.Int64("lastCategoryUpdate", catalog.LastCategoryUpdate))
	}

	carts, err := a.carts.CacheInfo(ctx)
	if err != nil {
		zap.L().Error("cart cache info failed", zap.Error(err))
	} else {
		zap.L().Info("cart cache",
			zap.Int64("carts", carts.Carts),
			zap.Int64("lastUpdate", carts.LastUpdate))
	}

	zap.L().Info("connectivity", zap.Bool("online", a.net.IsOnline()))
}
