package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fixnow-api/services"
)

// CreateCategoryRequest represents the request body for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryController serves the category endpoints
type CategoryController struct {
	categories *services.CategoryService
}

// NewCategoryController creates a category controller
func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

// ListCategories handles GET /api/v1/categories
func (ctl *CategoryController) ListCategories(c *gin.Context) {
	categories, err := ctl.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, categories)
}

// CreateCategory handles POST /api/v1/categories (admins only)
func (ctl *CategoryController) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	category, err := ctl.categories.Create(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, category)
}

// DeleteCategory handles DELETE /api/v1/categories/:id (admins only)
func (ctl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctl.categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "Category deleted successfully")
}
