package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fixnow-api/services"
)

// CreateReviewRequest represents the request body for reviewing a technician
type CreateReviewRequest struct {
	TechnicianID uint   `json:"technician_id" binding:"required"`
	Stars        int    `json:"stars" binding:"required,min=1,max=5"`
	Comment      string `json:"comment" binding:"required"`
}

// ReviewController serves the review endpoints
type ReviewController struct {
	reviews *services.ReviewService
}

// NewReviewController creates a review controller
func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// CreateReview handles POST /api/v1/reviews - the caller reviews a technician
func (ctl *ReviewController) CreateReview(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	review, err := ctl.reviews.Create(c.Request.Context(), caller, services.CreateReviewInput{
		TechnicianID: req.TechnicianID,
		Stars:        req.Stars,
		Comment:      req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, review)
}

// ListTechnicianReviews handles GET /api/v1/technicians/:id/reviews
func (ctl *ReviewController) ListTechnicianReviews(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	reviews, err := ctl.reviews.ListByTechnician(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, reviews)
}
