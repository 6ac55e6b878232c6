package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fixnow-api/services"
)

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthController serves the session endpoints
type AuthController struct {
	auth  *services.AuthService
	users *services.UserService
}

// NewAuthController creates an auth controller
func NewAuthController(auth *services.AuthService, users *services.UserService) *AuthController {
	return &AuthController{auth: auth, users: users}
}

// Login handles POST /api/v1/auth/login - exchanges credentials for a token
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	session, err := ctl.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, session)
}

// Me handles GET /api/v1/auth/me - returns the authenticated user's profile
func (ctl *AuthController) Me(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	user, err := ctl.users.Get(c.Request.Context(), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, user)
}
