package repository

import (
	"context"

	"github.com/kendall-kelly/fixnow-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository stores reviews
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	// ListByTechnician returns a technician's reviews, newest first, with the reviewing client loaded
	ListByTechnician(ctx context.Context, technicianID uint) ([]models.Review, error)
}

// GormReviewRepository implements ReviewRepository with gorm
type GormReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a review repository backed by db
func NewReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error)
}

func (r *GormReviewRepository) ListByTechnician(ctx context.Context, technicianID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("technician_id = ?", technicianID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err)
	}
	return reviews, nil
}
