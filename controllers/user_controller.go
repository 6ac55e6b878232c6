package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/services"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=6"`
	Role       string  `json:"role"`
	Profession *string `json:"profession"`
	Phone      *string `json:"phone"`
}

// UpdateUserRequest represents the request body for updating a user profile.
// Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Password   *string `json:"password" binding:"omitempty,min=6"`
	Role       *string `json:"role"`
	Profession *string `json:"profession"`
	Phone      *string `json:"phone"`
}

// UserController serves the user endpoints
type UserController struct {
	users *services.UserService
}

// NewUserController creates a user controller
func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

// CreateUser handles POST /api/v1/users - registers a new account
func (ctl *UserController) CreateUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	user, err := ctl.users.Register(c.Request.Context(), services.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Profession: req.Profession,
		Phone:      req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, user)
}

// ListUsers handles GET /api/v1/users - lists users, optionally filtered by ?role=
func (ctl *UserController) ListUsers(c *gin.Context) {
	users, err := ctl.users.List(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, users)
}

// GetUser handles GET /api/v1/users/:id
func (ctl *UserController) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := ctl.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, user)
}

// UpdateUser handles PUT /api/v1/users/:id - users may only update themselves
func (ctl *UserController) UpdateUser(c *gin.Context) {
	caller, id, ok := ctl.self(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	user, err := ctl.users.Update(c.Request.Context(), caller, id, services.UpdateUserInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Profession: req.Profession,
		Phone:      req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/v1/users/:id - removes the caller's account
func (ctl *UserController) DeleteUser(c *gin.Context) {
	_, id, ok := ctl.self(c)
	if !ok {
		return
	}

	if err := ctl.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "User deleted successfully")
}

// UploadProfileImage handles PUT /api/v1/users/:id/profile-image (multipart field "image")
func (ctl *UserController) UploadProfileImage(c *gin.Context) {
	_, id, ok := ctl.self(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondFailure(c, http.StatusBadRequest, "MISSING_FILE", "An image file is required in the 'image' field")
		return
	}

	user, err := ctl.users.UpdateProfileImage(c.Request.Context(), id, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, user)
}

// self resolves the caller and the :id path parameter and enforces that they match
func (ctl *UserController) self(c *gin.Context) (auth.Identity, uint, bool) {
	caller, ok := identity(c)
	if !ok {
		return auth.Identity{}, 0, false
	}
	id, ok := pathID(c, "id")
	if !ok {
		return auth.Identity{}, 0, false
	}
	if caller.ID != id {
		respondFailure(c, http.StatusForbidden, "FORBIDDEN", "You can only modify your own account")
		return auth.Identity{}, 0, false
	}
	return caller, id, true
}
