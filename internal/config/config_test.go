package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestLoadDefaults tests that missing fields fall back to sane defaults
func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  host: 127.0.0.1
  port: 8080
  mode: debug
database:
  host: localhost
  port: 3306
  username: root
  database: lesson
  charset: utf8mb4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.JWT.ExpireSeconds != 3600*24*2 {
		t.Errorf("expected default expire of 2 days, got %d", cfg.JWT.ExpireSeconds)
	}
	if cfg.JWT.TokenLimit != 20 {
		t.Errorf("expected default token limit 20, got %d", cfg.JWT.TokenLimit)
	}
	if cfg.Security.MaxLoginAttempts != 5 || cfg.Security.LoginLockMinutes != 15 {
		t.Errorf("unexpected login limits: %+v", cfg.Security)
	}
	if cfg.Security.IPMaxAttempts != 20 || cfg.Security.IPLockMinutes != 30 {
		t.Errorf("unexpected IP limits: %+v", cfg.Security)
	}

	// debug mode generates a secret when none is configured
	if cfg.JWT.Secret == "" {
		t.Error("expected a generated JWT secret in debug mode")
	}

	if Get() != cfg {
		t.Error("Get should return the loaded config")
	}
}

// TestLoadReleaseRequiresSecret tests that release mode refuses to run without a secret
func TestLoadReleaseRequiresSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  mode: release
`)
	if _, err := Load(path); err == nil {
		t.Error("release mode without a JWT secret should fail")
	}

	short := writeConfig(t, `
server:
  mode: release
jwt:
  secret: tooshort
`)
	if _, err := Load(short); err == nil {
		t.Error("release mode with a short JWT secret should fail")
	}
}

// TestDSN tests the MySQL DSN rendering
func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     3306,
		Username: "lesson",
		Password: "pw",
		Database: "lesson_server",
		Charset:  "utf8mb4",
	}
	want := "lesson:pw@tcp(db.internal:3306)/lesson_server?charset=utf8mb4&parseTime=True&loc=Local"
	if got := d.DSN(); got != want {
		t.Errorf("DSN mismatch:\n got %s\nwant %s", got, want)
	}
}

// TestLoadMissingFile tests the error on a missing config file
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/no/such/config.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
}
