package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type RemoteConfig struct {
	BaseURL  string `yaml:"base_url" json:"base_url"`
	ProbeURL string `yaml:"probe_url" json:"probe_url"`
	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout" json:"timeout"`
	// ProbeInterval is the connectivity re-check interval in seconds.
	ProbeInterval int `yaml:"probe_interval" json:"probe_interval"`
}

type DatabaseConfig struct {
	Type    string `yaml:"type" json:"type"`
	Path    string `yaml:"path" json:"path"`
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Name    string `yaml:"name" json:"name"`
	User    string `yaml:"user" json:"user"`
	Passwd  string `yaml:"passwd" json:"passwd"`
	Debug   bool   `yaml:"debug" json:"debug"`
	MaxConn int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int   `yaml:"idle_conn" json:"idle_conn"`
}

type CacheConfig struct {
	// TTL values are in seconds. Zero means the built-in default.
	ProductTTL  int `yaml:"product_ttl" json:"product_ttl"`
	CategoryTTL int `yaml:"category_ttl" json:"category_ttl"`
	CartTTL     int `yaml:"cart_ttl" json:"cart_ttl"`
	// RetentionHours is how long purged-by-age records are kept around.
	RetentionHours int `yaml:"retention_hours" json:"retention_hours"`
	WarmupWorkers  int `yaml:"warmup_workers" json:"warmup_workers"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type AppConfig struct {
	System   SystemConfig   `yaml:"system" json:"system"`
	Remote   RemoteConfig   `yaml:"remote" json:"remote"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	Cache    CacheConfig    `yaml:"cache" json:"cache"`
	Logger   LoggerConfig   `yaml:"logger" json:"logger"`
	Web      WebConfig      `yaml:"web" json:"web"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SystemConfig{
			Appid:    "storefront",
			Location: "Asia/Jakarta",
			Workdir:  "/var/storefront",
		},
		Remote: RemoteConfig{
			BaseURL:       "https://dummyjson.com",
			ProbeURL:      "https://www.gstatic.com/generate_204",
			Timeout:       15,
			ProbeInterval: 30,
		},
		Database: DatabaseConfig{
			Type:     "sqlite",
			Path:     "storefront.db",
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "storefront",
			User:     "postgres",
			MaxConn:  50,
			IdleConn: 10,
		},
		Cache: CacheConfig{
			ProductTTL:     300,
			CategoryTTL:    300,
			CartTTL:        180,
			RetentionHours: 168,
			WarmupWorkers:  4,
		},
		Logger: LoggerConfig{
			Mode: "development",
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 1979,
		},
	}
}

// LoadConfig reads the yaml configuration file and applies environment
// overrides on top of it. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig()
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}
	cfg.applyEnv()
	if cfg.Database.Type == "sqlite" && !filepath.IsAbs(cfg.Database.Path) {
		cfg.Database.Path = filepath.Join(cfg.System.Workdir, cfg.Database.Path)
	}
	return cfg
}

func (c *AppConfig) applyEnv() {
	setString(&c.System.Workdir, "STOREFRONT_WORKDIR")
	setBool(&c.System.Debug, "STOREFRONT_DEBUG")
	setString(&c.Remote.BaseURL, "STOREFRONT_REMOTE_URL")
	setString(&c.Remote.ProbeURL, "STOREFRONT_PROBE_URL")
	setInt(&c.Remote.Timeout, "STOREFRONT_REMOTE_TIMEOUT")
	setString(&c.Database.Type, "STOREFRONT_DB_TYPE")
	setString(&c.Database.Path, "STOREFRONT_DB_PATH")
	setString(&c.Database.Host, "STOREFRONT_DB_HOST")
	setInt(&c.Database.Port, "STOREFRONT_DB_PORT")
	setString(&c.Database.Name, "STOREFRONT_DB_NAME")
	setString(&c.Database.User, "STOREFRONT_DB_USER")
	setString(&c.Database.Passwd, "STOREFRONT_DB_PWD")
	setInt(&c.Cache.ProductTTL, "STOREFRONT_CACHE_PRODUCT_TTL")
	setInt(&c.Cache.CategoryTTL, "STOREFRONT_CACHE_CATEGORY_TTL")
	setInt(&c.Cache.CartTTL, "STOREFRONT_CACHE_CART_TTL")
	setString(&c.Logger.Mode, "STOREFRONT_LOGGER_MODE")
	setString(&c.Web.Host, "STOREFRONT_WEB_HOST")
	setInt(&c.Web.Port, "STOREFRONT_WEB_PORT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = cast.ToInt(v)
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = cast.ToBool(v)
	}
}
