// Package app wires configuration, logging, the cache database, the
// connectivity observer and the repositories into one application
// object with a controlled lifetime. There is no ambient global store:
// everything hangs off the Application instance.
package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gencidev/storefront/config"
	"github.com/gencidev/storefront/internal/connectivity"
	"github.com/gencidev/storefront/internal/domain"
	"github.com/gencidev/storefront/internal/remote"
	"github.com/gencidev/storefront/internal/repository"
	"github.com/gencidev/storefront/internal/session"
	"github.com/gencidev/storefront/internal/store"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	net       *connectivity.Observer
	sess      *session.Store
	client    *remote.Client
	sched     *cron.Cron
	warmup    *ants.Pool

	products *repository.ProductRepository
	carts    *repository.CartRepository
	users    *repository.UserRepository
	auth     *repository.AuthRepository

	productStore  store.ProductStore
	categoryStore store.CategoryStore
	cartStore     store.CartStore
}

var _ AppContext = (*Application)(nil)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Init() error {
	cfg := a.appConfig

	if loc, err := time.LoadLocation(cfg.System.Location); err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger()

	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		return errors.Wrap(err, "create workdir")
	}

	db, err := getDatabase(cfg.Database)
	if err != nil {
		return err
	}
	a.gormDB = db
	zap.S().Infof("cache database ready, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(); err != nil {
		return err
	}

	a.sess, err = session.Open(filepath.Join(cfg.System.Workdir, "session.db"))
	if err != nil {
		return err
	}

	a.client = remote.NewClient(cfg.Remote.BaseURL, time.Duration(cfg.Remote.Timeout)*time.Second)

	a.net = connectivity.NewObserver(
		connectivity.HTTPProbe(cfg.Remote.ProbeURL, connectivity.DefaultProbeTimeout),
		probeInterval(cfg),
	)

	a.productStore = store.NewGormProductStore(db)
	a.categoryStore = store.NewGormCategoryStore(db)
	a.cartStore = store.NewGormCartStore(db)
	userStore := store.NewGormUserStore(db)

	a.products = repository.NewProductRepository(a.client, a.productStore, a.categoryStore,
		a.net,
		time.Duration(cfg.Cache.ProductTTL)*time.Second,
		time.Duration(cfg.Cache.CategoryTTL)*time.Second)
	a.carts = repository.NewCartRepository(a.client, a.cartStore,
		a.net, time.Duration(cfg.Cache.CartTTL)*time.Second)
	a.users = repository.NewUserRepository(userStore)
	a.auth = repository.NewAuthRepository(a.client, userStore, a.sess)

	workers := cfg.Cache.WarmupWorkers
	if workers <= 0 {
		workers = 4
	}
	a.warmup, err = ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return errors.Wrap(err, "init warmup pool")
	}

	if err := a.net.Subscribe(a.onConnectivityChange); err != nil {
		return errors.Wrap(err, "subscribe connectivity")
	}

	a.initJobs()
	return nil
}

func (a *Application) initLogger() {
	cfg := a.appConfig

	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

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

func (a *Application) MigrateDB() error {
	if err := a.gormDB.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return errors.Wrap(err, "migrate cache schema")
	}
	return nil
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

// StartBackgroundTasks launches the connectivity poller and the cron
// scheduler.
func (a *Application) StartBackgroundTasks(ctx context.Context) {
	a.net.Start(ctx)
	a.sched.Start()
}

// onConnectivityChange warms the caches when the device comes back
// online. Each repository refreshes independently on the bounded pool;
// a refresh storm on reconnect is an accepted inefficiency.
func (a *Application) onConnectivityChange(online bool) {
	if !online {
		return
	}
	tasks := map[string]func(context.Context) error{
		"products": func(ctx context.Context) error {
			_, err := a.products.List(ctx, repository.DefaultProductLimit, 0)
			return err
		},
		"categories": func(ctx context.Context) error {
			_, err := a.products.Categories(ctx)
			return err
		},
		"carts": func(ctx context.Context) error {
			_, err := a.carts.List(ctx, repository.DefaultCartLimit, 0)
			return err
		},
	}
	for name, task := range tasks {
		name, task := name, task
		err := a.warmup.Submit(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := task(ctx); err != nil {
				zap.L().Warn("cache warmup failed", zap.String("scope", name), zap.Error(err))
			}
		})
		if err != nil {
			zap.L().Warn("warmup pool rejected task", zap.String("scope", name), zap.Error(err))
		}
	}
}

func (a *Application) Products() *repository.ProductRepository {
	return a.products
}

func (a *Application) Carts() *repository.CartRepository {
	return a.carts
}

func (a *Application) Users() *repository.UserRepository {
	return a.users
}

func (a *Application) Auth() *repository.AuthRepository {
	return a.auth
}

func (a *Application) Connectivity() *connectivity.Observer {
	return a.net
}

func (a *Application) Session() *session.Store {
	return a.sess
}

// Scheduler returns the cron scheduler.
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Release releases application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.net != nil {
		a.net.Stop()
	}
	if a.warmup != nil {
		a.warmup.Release()
	}
	if a.sess != nil {
		_ = a.sess.Close()
	}
	_ = zap.L().Sync()
}

func probeInterval(cfg *config.AppConfig) time.Duration {
	if cfg.Remote.ProbeInterval <= 0 {
		return connectivity.DefaultProbeInterval
	}
	return time.Duration(cfg.Remote.ProbeInterval) * time.Second
}
