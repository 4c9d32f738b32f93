// Package config loads server settings from the environment and an optional
// YAML file.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	AdminEmail      string
	SessionLifetime time.Duration
	InsecureCookies bool
	LogLevel        logrus.Level
	Cache           struct {
		SizeMB int
		TTL    time.Duration
	}
}

// Load reads config from the environment (SRP_ prefix) and an optional
// YAML file. With file empty, evesrp.yaml is looked up in the working
// directory and /etc/evesrp.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SRP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName("evesrp")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/evesrp")
		_ = v.ReadInConfig() // optional config file
	}

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("oidc.issuer", "https://login.eveonline.com")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("log.level", "info")
	v.SetDefault("cache.size_mb", 8)
	v.SetDefault("cache.ttl", "5m")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.AdminEmail = v.GetString("admin_email")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")
	cfg.Cache.SizeMB = v.GetInt("cache.size_mb")

	var err error
	if cfg.SessionLifetime, err = time.ParseDuration(v.GetString("session.lifetime")); err != nil {
		return nil, fmt.Errorf("invalid SRP_SESSION_LIFETIME: %w", err)
	}
	if cfg.Cache.TTL, err = time.ParseDuration(v.GetString("cache.ttl")); err != nil {
		return nil, fmt.Errorf("invalid SRP_CACHE_TTL: %w", err)
	}
	if cfg.LogLevel, err = logrus.ParseLevel(v.GetString("log.level")); err != nil {
		return nil, fmt.Errorf("invalid SRP_LOG_LEVEL: %w", err)
	}

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("SRP_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if !slices.Contains([]string{"sqlite3", "mysql", "postgres"}, cfg.DB.Driver) {
		return nil, fmt.Errorf("SRP_DB_DRIVER %q must be sqlite3, mysql, or postgres", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("SRP_DB_DSN is required")
	}
	if cfg.Cache.SizeMB < 1 {
		return nil, fmt.Errorf("SRP_CACHE_SIZE_MB must be at least 1")
	}
	return cfg, nil
}

// ValidateOIDC checks the settings the SSO login flow needs. The migrate
// command does not call it.
func (c *Config) ValidateOIDC() error {
	if c.OIDC.Issuer == "" {
		return fmt.Errorf("SRP_OIDC_ISSUER is required")
	}
	if c.OIDC.ClientID == "" {
		return fmt.Errorf("SRP_OIDC_CLIENT_ID is required")
	}
	if c.OIDC.ClientSecret == "" {
		return fmt.Errorf("SRP_OIDC_CLIENT_SECRET is required")
	}
	if c.OIDC.RedirectURL == "" {
		return fmt.Errorf("SRP_OIDC_REDIRECT_URL is required")
	}
	return nil
}
