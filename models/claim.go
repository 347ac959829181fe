package models

import "time"

// ClaimStatus represents all possible states of a monthly claim
type ClaimStatus string

const (
	StatusSubmitted ClaimStatus = "Submitted"
	StatusPending   ClaimStatus = "Pending"
	StatusApproved  ClaimStatus = "Approved"
	StatusRejected  ClaimStatus = "Rejected"
)

// AllStatuses lists every claim status in lifecycle order
var AllStatuses = []ClaimStatus{StatusSubmitted, StatusPending, StatusApproved, StatusRejected}

// ParseClaimStatus maps a request value onto the closed set of statuses.
func ParseClaimStatus(s string) (ClaimStatus, bool) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// MaxHoursPerMonth caps the hours a single monthly claim may carry
const MaxHoursPerMonth = 180

type Claim struct {
	ID             uint                 `json:"id" gorm:"primaryKey"`
	UserID         uint                 `json:"user_id" gorm:"not null;index"`
	User           *User                `json:"user,omitempty" gorm:"foreignKey:UserID"`
	FullName       string               `json:"full_name" gorm:"not null"`   // snapshot at submission
	HourlyRate     float64              `json:"hourly_rate" gorm:"not null"` // snapshot at submission
	HoursWorked    float64              `json:"hours_worked" gorm:"not null"`
	Total          float64              `json:"total" gorm:"not null"`
	ModuleCode     string               `json:"module_code"`
	Notes          string               `json:"notes"`
	Status         ClaimStatus          `json:"status" gorm:"not null;index;default:'Submitted'"`
	SubmissionDate time.Time            `json:"submission_date" gorm:"not null;index"`
	Documents      []Document           `json:"documents,omitempty" gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE"`
	StatusHistory  []ClaimStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:ClaimID;constraint:OnDelete:CASCADE"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// Document is a supporting file attached to a claim
type Document struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ClaimID      uint      `json:"claim_id" gorm:"not null;index"`
	FileName     string    `json:"file_name" gorm:"not null;uniqueIndex"` // server-assigned
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadDate   time.Time `json:"upload_date"`
}

// ClaimStatusHistory records every review decision on a claim
type ClaimStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	ClaimID    uint        `json:"claim_id" gorm:"not null;index"`
	FromStatus ClaimStatus `json:"from_status"`
	ToStatus   ClaimStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
