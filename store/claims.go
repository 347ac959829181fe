package store

import (
	"context"

	"contract-claims-api/models"

	"gorm.io/gorm"
)

// ClaimFilter narrows ListClaims; zero values mean no restriction.
type ClaimFilter struct {
	UserID uint
	Status models.ClaimStatus
}

// ClaimStore persists claims, their documents and their status history.
type ClaimStore struct {
	db *gorm.DB
}

func NewClaimStore(db *gorm.DB) *ClaimStore {
	return &ClaimStore{db: db}
}

func (s *ClaimStore) CreateClaim(ctx context.Context, c *models.Claim) error {
	return s.db.WithContext(ctx).Omit("User", "Documents", "StatusHistory").Create(c).Error
}

func (s *ClaimStore) FindClaim(ctx context.Context, id uint) (*models.Claim, error) {
	var c models.Claim
	err := s.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&c, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ListClaims returns claims newest first with their documents.
func (s *ClaimStore) ListClaims(ctx context.Context, f ClaimFilter) ([]models.Claim, error) {
	var claims []models.Claim
	query := s.db.WithContext(ctx).Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	err := query.Order("submission_date desc, id desc").Find(&claims).Error
	return claims, err
}

// UpdateStatus moves a claim from one status to another and appends a history row.
// The write only applies while the stored status still equals from.
func (s *ClaimStore) UpdateStatus(ctx context.Context, id uint, from, to models.ClaimStatus, changedBy uint, note string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Claim{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Claim{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrNotFound
			}
			return ErrStaleStatus
		}
		return tx.Create(&models.ClaimStatusHistory{
			ClaimID:    id,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  changedBy,
			Note:       note,
		}).Error
	})
}

func (s *ClaimStore) CreateDocument(ctx context.Context, d *models.Document) error {
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *ClaimStore) FindDocument(ctx context.Context, claimID, docID uint) (*models.Document, error) {
	var d models.Document
	err := s.db.WithContext(ctx).Where("claim_id = ?", claimID).First(&d, docID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

// DeleteClaim removes a claim with its documents and history and returns the
// removed documents so their stored files can be cleaned up.
func (s *ClaimStore) DeleteClaim(ctx context.Context, id uint) ([]models.Document, error) {
	var docs []models.Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Claim
		if err := tx.First(&c, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("claim_id = ?", id).Find(&docs).Error; err != nil {
			return err
		}
		if err := tx.Where("claim_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		if err := tx.Where("claim_id = ?", id).Delete(&models.ClaimStatusHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
