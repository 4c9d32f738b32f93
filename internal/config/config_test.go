package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SRP_DB_DRIVER", "sqlite3")
	t.Setenv("SRP_DB_DSN", "file:srp.db")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http.addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.OIDC.Issuer != "https://login.eveonline.com" {
		t.Errorf("oidc.issuer = %q", cfg.OIDC.Issuer)
	}
	if cfg.SessionLifetime != 720*time.Hour {
		t.Errorf("session.lifetime = %v, want 720h", cfg.SessionLifetime)
	}
	if cfg.LogLevel != logrus.InfoLevel {
		t.Errorf("log.level = %v, want info", cfg.LogLevel)
	}
	if cfg.Cache.SizeMB != 8 || cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("cache = %d MB / %v, want 8 MB / 5m", cfg.Cache.SizeMB, cfg.Cache.TTL)
	}
	if err := cfg.ValidateOIDC(); err == nil {
		t.Error("ValidateOIDC succeeded without client credentials")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "srp.yaml")
	body := "db:\n  driver: postgres\n  dsn: postgres://localhost/srp\nlog:\n  level: debug\ncache:\n  ttl: 30s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SRP_HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Driver != "postgres" || cfg.DB.DSN != "postgres://localhost/srp" {
		t.Errorf("db = %s %s", cfg.DB.Driver, cfg.DB.DSN)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("env override lost: http.addr = %q", cfg.HTTP.Addr)
	}
	if cfg.LogLevel != logrus.DebugLevel || cfg.Cache.TTL != 30*time.Second {
		t.Errorf("level %v ttl %v", cfg.LogLevel, cfg.Cache.TTL)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing driver", map[string]string{"SRP_DB_DSN": "x"}, "SRP_DB_DRIVER is required"},
		{"bad driver", map[string]string{"SRP_DB_DRIVER": "oracle", "SRP_DB_DSN": "x"}, "must be sqlite3"},
		{"missing dsn", map[string]string{"SRP_DB_DRIVER": "sqlite3"}, "SRP_DB_DSN is required"},
		{"bad lifetime", map[string]string{"SRP_DB_DRIVER": "sqlite3", "SRP_DB_DSN": "x", "SRP_SESSION_LIFETIME": "forever"}, "SRP_SESSION_LIFETIME"},
		{"bad level", map[string]string{"SRP_DB_DRIVER": "sqlite3", "SRP_DB_DSN": "x", "SRP_LOG_LEVEL": "loud"}, "SRP_LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
