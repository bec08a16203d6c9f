package config

import (
	"time"

	"github.com/MrEthical07/stackguard"
	"github.com/MrEthical07/stackguard/internal/obs"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type DB struct {
	DSN string `mapstructure:"dsn"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Kafka struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Auth struct {
	AccessSecret      string        `mapstructure:"access_secret"`
	RefreshSecret     string        `mapstructure:"refresh_secret"`
	AccessTTL         time.Duration `mapstructure:"access_ttl"`
	RefreshTTL        time.Duration `mapstructure:"refresh_ttl"`
	RateLimitMax      int           `mapstructure:"rate_limit_max"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window"`
	LockoutThreshold  int           `mapstructure:"lockout_threshold"`
	LockoutDuration   time.Duration `mapstructure:"lockout_duration"`
	CacheTimeout      time.Duration `mapstructure:"cache_timeout"`
	CredentialTimeout time.Duration `mapstructure:"credential_timeout"`
}

type Config struct {
	App    App    `mapstructure:"app"`
	Server Server `mapstructure:"server"`
	Log    Log    `mapstructure:"log"`
	DB     DB     `mapstructure:"db"`
	Redis  Redis  `mapstructure:"redis"`
	Kafka  Kafka  `mapstructure:"kafka"`
	Auth   Auth   `mapstructure:"auth"`
}

func (c *Config) AsLoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    c.App.Name,
		Env:    c.App.Env,
		Ver:    c.App.Version,
	}
}

// AsEngineConfig overlays the auth section on stackguard.DefaultConfig.
// Validation is left to the engine builder.
func (c *Config) AsEngineConfig() stackguard.Config {
	cfg := stackguard.DefaultConfig()
	cfg.Token.AccessSecret = []byte(c.Auth.AccessSecret)
	cfg.Token.RefreshSecret = []byte(c.Auth.RefreshSecret)
	cfg.Token.AccessTTL = c.Auth.AccessTTL
	cfg.Token.RefreshTTL = c.Auth.RefreshTTL
	cfg.RateLimit.MaxAttempts = c.Auth.RateLimitMax
	cfg.RateLimit.Window = c.Auth.RateLimitWindow
	cfg.Lockout.Threshold = c.Auth.LockoutThreshold
	cfg.Lockout.Duration = c.Auth.LockoutDuration
	cfg.Store.CacheTimeout = c.Auth.CacheTimeout
	cfg.Store.CredentialTimeout = c.Auth.CredentialTimeout
	return cfg
}
