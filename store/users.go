package store

import (
	"context"

	"contract-claims-api/models"

	"gorm.io/gorm"
)

// UserStore holds users and the role reference table.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) FindUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Preload("Role").First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) FindRole(ctx context.Context, id uint) (*models.Role, error) {
	var r models.Role
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (s *UserStore) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := s.db.WithContext(ctx).Order("id").Find(&roles).Error
	return roles, err
}

// ListUsers returns every user with its role, optionally narrowed to one role.
func (s *UserStore) ListUsers(ctx context.Context, role models.RoleName) ([]models.User, error) {
	var users []models.User
	query := s.db.WithContext(ctx).Preload("Role")
	if role != "" {
		query = query.Joins("JOIN roles ON roles.id = users.role_id").Where("roles.name = ?", role)
	}
	err := query.Order("users.id").Find(&users).Error
	return users, err
}

func (s *UserStore) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Omit("Role").Create(u).Error
}

// UpdateUser writes profile fields. Claims keep their own rate snapshot and are untouched.
func (s *UserStore) UpdateUser(ctx context.Context, u *models.User) error {
	res := s.db.WithContext(ctx).Model(&models.User{ID: u.ID}).
		Select("FullName", "ContactNumber", "Email", "PasswordHash", "RoleID", "HourlyRate").
		Updates(u)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RoleCounts is the HR dashboard headcount
type RoleCounts struct {
	Total     int64 `json:"total_users"`
	Lecturers int64 `json:"total_lecturers"`
	Others    int64 `json:"total_admins"`
}

func (s *UserStore) CountUsers(ctx context.Context) (RoleCounts, error) {
	var rc RoleCounts
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Count(&rc.Total).Error; err != nil {
		return rc, err
	}
	err := db.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", models.RoleLecturer).
		Count(&rc.Lecturers).Error
	if err != nil {
		return rc, err
	}
	rc.Others = rc.Total - rc.Lecturers
	return rc, nil
}
