package services

import (
	"context"
	"errors"
	"strings"

	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/repository"
)

var errTechnicianNotFound = NotFoundError("TECHNICIAN_NOT_FOUND", "Technician not found")

// CreateReviewInput is a rating left by the caller for a technician
type CreateReviewInput struct {
	TechnicianID uint
	Stars        int
	Comment      string
}

// ReviewService records client reviews of technicians
type ReviewService struct {
	reviews repository.ReviewRepository
	users   repository.UserRepository
}

// NewReviewService creates a review service
func NewReviewService(reviews repository.ReviewRepository, users repository.UserRepository) *ReviewService {
	return &ReviewService{reviews: reviews, users: users}
}

// Create stores a review written by actor
func (s *ReviewService) Create(ctx context.Context, actor auth.Identity, in CreateReviewInput) (*models.Review, error) {
	comment := strings.TrimSpace(in.Comment)
	if in.TechnicianID == 0 || comment == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Technician and comment are required")
	}
	if in.Stars < 1 || in.Stars > 5 {
		return nil, ValidationError("VALIDATION_ERROR", "Stars must be between 1 and 5")
	}
	if in.TechnicianID == actor.ID {
		return nil, ConflictError("SELF_REVIEW", "You cannot review yourself")
	}

	if _, err := s.findTechnician(ctx, in.TechnicianID); err != nil {
		return nil, err
	}
	client, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		// The token outlived its account
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errUserNotFound.wrap(err)
		}
		return nil, err
	}

	review := &models.Review{
		Stars:        in.Stars,
		Comment:      comment,
		ClientID:     client.ID,
		TechnicianID: in.TechnicianID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	review.Client = *client
	return review, nil
}

// ListByTechnician returns the reviews of technician id, newest first
func (s *ReviewService) ListByTechnician(ctx context.Context, technicianID uint) ([]models.Review, error) {
	if _, err := s.findTechnician(ctx, technicianID); err != nil {
		return nil, err
	}
	return s.reviews.ListByTechnician(ctx, technicianID)
}

func (s *ReviewService) findTechnician(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errTechnicianNotFound.wrap(err)
		}
		return nil, err
	}
	if user.Role != models.RoleTechnician {
		return nil, errTechnicianNotFound
	}
	return user, nil
}
