package services

import (
	"context"
	"io"

	"contract-claims-api/models"
	"contract-claims-api/store"
)

// UserStore resolves claim owners and reviewers.
type UserStore interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
	FindRole(ctx context.Context, id uint) (*models.Role, error)
	ListUsers(ctx context.Context, role models.RoleName) ([]models.User, error)
}

// DocumentRepository is what the attachment handler needs from persistence.
type DocumentRepository interface {
	FindClaim(ctx context.Context, id uint) (*models.Claim, error)
	CreateDocument(ctx context.Context, d *models.Document) error
}

// ClaimRepository persists claims and their review state.
type ClaimRepository interface {
	DocumentRepository
	CreateClaim(ctx context.Context, c *models.Claim) error
	ListClaims(ctx context.Context, f store.ClaimFilter) ([]models.Claim, error)
	UpdateStatus(ctx context.Context, id uint, from, to models.ClaimStatus, changedBy uint, note string) error
	FindDocument(ctx context.Context, claimID, docID uint) (*models.Document, error)
	DeleteClaim(ctx context.Context, id uint) ([]models.Document, error)
}

// FileStore keeps document content; Save returns the server-assigned name.
type FileStore interface {
	Save(ctx context.Context, r io.Reader, ext string) (string, error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// Caller is the authenticated identity every operation acts on behalf of.
type Caller struct {
	UserID uint
	Role   models.RoleName
}

func (c Caller) IsReviewer() bool { return c.Role.IsReviewer() }
