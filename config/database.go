package config

import (
	"errors"
	"fmt"
	"log/slog"

	"contract-claims-api/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects to the configured database and migrates all models.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Claim{},
		&models.Document{},
		&models.ClaimStatusHistory{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// InitDB opens the database and seeds reference data.
func InitDB(cfg *Config, log *slog.Logger) (*gorm.DB, error) {
	db, err := OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, err
	}
	if err := SeedRoles(db); err != nil {
		return nil, err
	}
	if cfg.SeedData {
		created, err := SeedUsers(db)
		if err != nil {
			return nil, err
		}
		if created > 0 {
			log.Info("seeded default users", slog.Int("count", created))
		}
	}
	log.Info("database connected and migrated", slog.String("driver", cfg.DBDriver))
	return db, nil
}

var defaultRoles = []models.Role{
	{ID: 1, Name: models.RoleLecturer},
	{ID: 2, Name: models.RoleCoordinator},
	{ID: 3, Name: models.RoleManager},
	{ID: 4, Name: models.RoleHR},
}

// SeedRoles inserts the fixed role reference rows if missing.
func SeedRoles(db *gorm.DB) error {
	for _, r := range defaultRoles {
		role := r
		if err := db.Where(models.Role{ID: role.ID}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", r.Name, err)
		}
	}
	return nil
}

type seedUser struct {
	user     models.User
	password string
}

var defaultUsers = []seedUser{
	{
		user: models.User{
			FullName: "Windsor Kaka", ContactNumber: "0582531853", Email: "wk@gmail.com",
			RoleID: 4, HourlyRate: 0,
		},
		password: "Password@wk1",
	},
	{
		user: models.User{
			FullName: "Swazi Bhengu", ContactNumber: "0670985435", Email: "wsb@gmail.com",
			RoleID: 1, HourlyRate: 330,
		},
		password: "Password@sb1",
	},
}

// SeedUsers creates the default HR and lecturer accounts on an empty users table.
func SeedUsers(db *gorm.DB) (int, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	created := 0
	for _, s := range defaultUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			return created, errors.New("hash seed password")
		}
		u := s.user
		u.PasswordHash = string(hash)
		if err := db.Create(&u).Error; err != nil {
			return created, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		created++
	}
	return created, nil
}
