package repository

import (
	"context"

	"github.com/kendall-kelly/fixnow-api/models"
	"gorm.io/gorm"
)

// CategoryRepository stores categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	// Create relies on the unique index on name and returns ErrDuplicate on a clash
	Create(ctx context.Context, category *models.Category) error
	Remove(ctx context.Context, category *models.Category) error
}

// GormCategoryRepository implements CategoryRepository with gorm
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a category repository backed by db
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *GormCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *GormCategoryRepository) Remove(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).Delete(&models.Category{}, category.ID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
