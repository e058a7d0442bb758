package app

import (
	"github.com/gencidev/storefront/config"
	"github.com/gencidev/storefront/internal/connectivity"
	"github.com/gencidev/storefront/internal/repository"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// RepositoryProvider provides the data repositories the UI layer
// consumes.
type RepositoryProvider interface {
	Products() *repository.ProductRepository
	Carts() *repository.CartRepository
	Users() *repository.UserRepository
	Auth() *repository.AuthRepository
}

// ConnectivityProvider provides the network state observer
type ConnectivityProvider interface {
	Connectivity() *connectivity.Observer
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application
// context. Consumers should depend on specific providers or this
// combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	RepositoryProvider
	ConnectivityProvider
	SchedulerProvider

	MigrateDB() error
	DropAll()
	Release()
}
