package config

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"contract-claims-api/models"

	"golang.org/x/crypto/bcrypt"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "TOKEN_TTL", "SEED_DATA", "STORAGE_BACKEND", "REPORT_LOCALE", "REPORT_CURRENCY", "JWT_SECRET"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8080" || cfg.DBDriver != "sqlite" || cfg.StorageBackend != "local" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.TokenTTL != 24*time.Hour || !cfg.SeedData {
		t.Errorf("unexpected ttl/seed %v %v", cfg.TokenTTL, cfg.SeedData)
	}
	if cfg.ReportLocale != "en-ZA" || cfg.ReportCurrency != "ZAR" {
		t.Errorf("unexpected report settings %s %s", cfg.ReportLocale, cfg.ReportCurrency)
	}
	if len(cfg.JWTSecret) == 0 {
		t.Error("jwt secret empty")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("SEED_DATA", "false")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "claims-docs")

	cfg := Load()
	if cfg.Port != "9090" || cfg.DBDriver != "postgres" || cfg.TokenTTL != 90*time.Minute {
		t.Errorf("overrides not applied %+v", cfg)
	}
	if cfg.SeedData || string(cfg.JWTSecret) != "s3cret" || cfg.S3Bucket != "claims-docs" {
		t.Errorf("overrides not applied %+v", cfg)
	}

	t.Setenv("TOKEN_TTL", "soon")
	if Load().TokenTTL != 24*time.Hour {
		t.Error("invalid TOKEN_TTL should fall back to 24h")
	}
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	if _, err := OpenDB("oracle", "x"); err == nil || !strings.Contains(err.Error(), "oracle") {
		t.Errorf("expected unsupported driver error, got %v", err)
	}
}

func TestInitDB_SeedsOnce(t *testing.T) {
	cfg := &Config{
		DBDriver: "sqlite",
		DBDSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		SeedData: true,
	}
	var logs bytes.Buffer
	db, err := InitDB(cfg, NewLogger(&logs, "debug"))
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if !strings.Contains(logs.String(), "seeded default users") {
		t.Errorf("expected seed log line, got %s", logs.String())
	}

	if err := SeedRoles(db); err != nil {
		t.Fatal(err)
	}
	n, err := SeedUsers(db)
	if err != nil || n != 0 {
		t.Errorf("second seed should be a no-op: %d %v", n, err)
	}

	var roles, users int64
	db.Model(&models.Role{}).Count(&roles)
	db.Model(&models.User{}).Count(&users)
	if roles != 4 || users != 2 {
		t.Errorf("roles=%d users=%d", roles, users)
	}

	var lec models.User
	if err := db.WithContext(context.Background()).Where("email = ?", "wsb@gmail.com").First(&lec).Error; err != nil {
		t.Fatal(err)
	}
	if lec.HourlyRate != 330 || lec.RoleID != 1 {
		t.Errorf("unexpected seeded lecturer %+v", lec)
	}
	if bcrypt.CompareHashAndPassword([]byte(lec.PasswordHash), []byte("Password@sb1")) != nil {
		t.Error("seeded password hash does not match")
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("unexpected output %s", buf.String())
	}
}
