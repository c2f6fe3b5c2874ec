package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
port: "9000"
database:
  driver: sqlite
  sqlite_path: "file:dev.db"
auth:
  issuer: https://id.example.com
  admin_emails: [root@example.com]
redis:
  addr: "redis:6379"
  course_cache_ttl: 2m
midtrans:
  env: production
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coursehub.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBuildConfigFileDefaultsEnvWins(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("PORT", "7000")
	t.Setenv("ADMIN_EMAILS", "a@example.com,b@example.com")

	fc, err := readFileConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("readFileConfig: %v", err)
	}
	cfg, err := buildConfig(fc)
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if cfg.Port != "7000" {
		t.Fatalf("port: want=7000 got=%s", cfg.Port)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.SQLitePath != "file:dev.db" {
		t.Fatalf("db: got=%+v", cfg.DB)
	}
	if cfg.JWTIssuer != "https://id.example.com" {
		t.Fatalf("issuer: got=%s", cfg.JWTIssuer)
	}
	if len(cfg.AdminEmails) != 2 || cfg.AdminEmails[0] != "a@example.com" {
		t.Fatalf("admin emails: got=%v", cfg.AdminEmails)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.CourseCacheTTL != 2*time.Minute {
		t.Fatalf("redis: addr=%s ttl=%s", cfg.Redis.Addr, cfg.CourseCacheTTL)
	}
	if !cfg.Midtrans.Production {
		t.Fatalf("midtrans: want production")
	}
	if cfg.Otel.SampleRatio != 0.1 {
		t.Fatalf("otel ratio: want=0.1 got=%v", cfg.Otel.SampleRatio)
	}
}

func TestBuildConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	if _, err := buildConfig(fileConfig{}); err == nil {
		t.Fatalf("expected error without JWT_SECRET_KEY")
	}
}

func TestReadFileConfigErrors(t *testing.T) {
	if _, err := readFileConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := readFileConfig(writeConfig(t, "port: [")); err == nil {
		t.Fatalf("expected parse error")
	}
	fc, err := readFileConfig("")
	if err != nil || fc.Port != "" {
		t.Fatalf("empty path: fc=%+v err=%v", fc, err)
	}
}

func TestBadCacheTTL(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	var fc fileConfig
	fc.Redis.CacheTTL = "soon"
	if _, err := buildConfig(fc); err == nil {
		t.Fatalf("expected ttl parse error")
	}
}
