package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/repository"
)

var (
	errCategoryExists   = ConflictError("CATEGORY_EXISTS", "Category already exists")
	errCategoryNotFound = NotFoundError("CATEGORY_NOT_FOUND", "Category not found")
)

// CategoryService manages the reference list of service categories
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService creates a category service
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// Create adds a category. Uniqueness is enforced by the store.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Category name is required")
	}

	category := &models.Category{Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errCategoryExists.wrap(err)
		}
		return nil, err
	}
	return category, nil
}

// List returns all categories by name
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// Delete removes category id
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errCategoryNotFound.wrap(err)
		}
		return err
	}
	if err := s.categories.Remove(ctx, category); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errCategoryNotFound.wrap(err)
		}
		return err
	}
	return nil
}
