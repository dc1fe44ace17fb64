package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
	// Secret signs admin JWT tokens, never hard-coded in source.
	Secret string `yaml:"secret" json:"-"`
	// AdminUsername and AdminPasswordHash (bcrypt) gate the admin API.
	AdminUsername     string `yaml:"admin_username" json:"-"`
	AdminPasswordHash string `yaml:"admin_password_hash" json:"-"`
	// TokenExpiry is the lifetime of an issued admin token.
	TokenExpiry time.Duration `yaml:"token_expiry" json:"token_expiry"`
	// PublicBaseURL is the externally visible base for uploaded object URLs.
	PublicBaseURL string `yaml:"public_base_url" json:"public_base_url"`
	// StorageHosts whitelists remote object-storage hosts for the image proxy.
	StorageHosts []string `yaml:"storage_hosts" json:"storage_hosts"`
}

type DBConfig struct {
	Type    string `yaml:"type" json:"type"`
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	Name    string `yaml:"name" json:"name"`
	User    string `yaml:"user" json:"user"`
	Passwd  string `yaml:"passwd" json:"-"`
	MaxConn int    `yaml:"max_conn" json:"max_conn"`
	Debug   bool   `yaml:"debug" json:"debug"`
}

type CacheConfig struct {
	// Dir holds the durable cache tier (bbolt file).
	Dir string `yaml:"dir" json:"dir"`
	// SessionDir holds the session-scoped mirror tier; wiped on restart.
	SessionDir string `yaml:"session_dir" json:"session_dir"`
	// SyncCooldown is the minimum gap between sync attempts per dataset.
	SyncCooldown time.Duration `yaml:"sync_cooldown" json:"sync_cooldown"`
	// RemoteTimeout bounds every remote store call.
	RemoteTimeout time.Duration `yaml:"remote_timeout" json:"remote_timeout"`
	// ProbeURL is pinged by the connectivity oracle; empty disables HTTP probing.
	ProbeURL string `yaml:"probe_url" json:"probe_url"`
	// ProbeInterval controls how often the oracle re-checks reachability.
	ProbeInterval time.Duration `yaml:"probe_interval" json:"probe_interval"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig   `yaml:"system" json:"system"`
	Web      WebConfig   `yaml:"web" json:"web"`
	Database DBConfig    `yaml:"database" json:"database"`
	Cache    CacheConfig `yaml:"cache" json:"cache"`
	Logger   LogConfig   `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "heawabas",
		Location: "Africa/Cairo",
		Workdir:  "/var/heawabas",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          1816,
		Secret:        "",
		AdminUsername: "admin",
		TokenExpiry:   24 * time.Hour,
		PublicBaseURL: "http://127.0.0.1:1816",
	},
	Database: DBConfig{
		Type:    "postgres",
		Host:    "127.0.0.1",
		Port:    5432,
		Name:    "heawabas",
		User:    "postgres",
		Passwd:  "",
		MaxConn: 100,
	},
	Cache: CacheConfig{
		Dir:           "",
		SessionDir:    "",
		SyncCooldown:  10 * time.Second,
		RemoteTimeout: 30 * time.Second,
		ProbeInterval: 15 * time.Second,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/heawabas/heawabas.log",
	},
}

func setEnvStringValue(name string, val *string) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = evalue
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue := os.Getenv(name); evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

// LoadConfig reads the YAML configuration file and applies environment
// overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvStringValue("HEAWABAS_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("HEAWABAS_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvStringValue("HEAWABAS_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("HEAWABAS_WEB_PORT", &cfg.Web.Port)
	setEnvStringValue("HEAWABAS_WEB_SECRET", &cfg.Web.Secret)
	setEnvStringValue("HEAWABAS_WEB_ADMIN_USERNAME", &cfg.Web.AdminUsername)
	setEnvStringValue("HEAWABAS_WEB_ADMIN_PASSWORD_HASH", &cfg.Web.AdminPasswordHash)
	setEnvStringValue("HEAWABAS_WEB_PUBLIC_BASE_URL", &cfg.Web.PublicBaseURL)

	setEnvStringValue("HEAWABAS_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("HEAWABAS_DB_PORT", &cfg.Database.Port)
	setEnvStringValue("HEAWABAS_DB_NAME", &cfg.Database.Name)
	setEnvStringValue("HEAWABAS_DB_USER", &cfg.Database.User)
	setEnvStringValue("HEAWABAS_DB_PWD", &cfg.Database.Passwd)

	setEnvStringValue("HEAWABAS_CACHE_DIR", &cfg.Cache.Dir)
	setEnvStringValue("HEAWABAS_CACHE_PROBE_URL", &cfg.Cache.ProbeURL)

	if cfg.Cache.SyncCooldown <= 0 {
		cfg.Cache.SyncCooldown = 10 * time.Second
	}
	if cfg.Cache.RemoteTimeout <= 0 {
		cfg.Cache.RemoteTimeout = 30 * time.Second
	}
	if cfg.Cache.ProbeInterval <= 0 {
		cfg.Cache.ProbeInterval = 15 * time.Second
	}
	if cfg.Web.TokenExpiry <= 0 {
		cfg.Web.TokenExpiry = 24 * time.Hour
	}
	return cfg
}
