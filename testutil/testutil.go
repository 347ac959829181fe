// Package testutil provides in-memory databases and fixtures for tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"contract-claims-api/config"
	"contract-claims-api/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// OpenDB returns a migrated, role-seeded in-memory SQLite database private to t.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	db, err := config.OpenDB("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.SeedRoles(db); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return db
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RoleIDs matches the seeded role reference rows
var RoleIDs = map[models.RoleName]uint{
	models.RoleLecturer:    1,
	models.RoleCoordinator: 2,
	models.RoleManager:     3,
	models.RoleHR:          4,
}

// Password is the plain-text password of every fixture user
const Password = "Password@1"

// CreateUser inserts a user with the given role and rate.
func CreateUser(t testing.TB, db *gorm.DB, name string, role models.RoleName, rate float64) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &models.User{
		FullName:     name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PasswordHash: string(hash),
		RoleID:       RoleIDs[role],
		HourlyRate:   rate,
	}
	if err := db.Omit("Role").Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}
