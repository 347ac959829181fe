package models

import (
	"time"
)

// RoleName is the display name of a role and the value carried in access tokens
type RoleName string

const (
	RoleLecturer    RoleName = "Lecturer"
	RoleCoordinator RoleName = "Programme Coordinator"
	RoleManager     RoleName = "Academic Manager"
	RoleHR          RoleName = "HR"
)

// IsReviewer reports whether the role may see every claim and move claims through review.
// Every role other than Lecturer is a reviewer.
func (r RoleName) IsReviewer() bool {
	return r != "" && r != RoleLecturer
}

// Role is immutable reference data seeded at startup
type Role struct {
	ID   uint     `json:"id" gorm:"primaryKey"`
	Name RoleName `json:"name" gorm:"uniqueIndex;not null"`
}

type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	FullName      string    `json:"full_name" gorm:"not null"`
	ContactNumber string    `json:"contact_number"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string    `json:"-" gorm:"not null"`
	RoleID        uint      `json:"role_id" gorm:"not null"`
	Role          Role      `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	HourlyRate    float64   `json:"hourly_rate" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
