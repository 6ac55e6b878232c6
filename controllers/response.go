package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/middleware"
	"github.com/kendall-kelly/fixnow-api/services"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"message": message},
	})
}

func respondFailure(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondInvalidBody reports a request body that failed to bind
func respondInvalidBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// statusFor maps a service error kind onto an HTTP status
func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindConflict:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindAuthentication:
		return http.StatusUnauthorized
	case services.KindAuthorization:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondError writes err. Unclassified errors are logged and hidden from the client.
func respondError(c *gin.Context, err error) {
	if se, ok := services.AsError(err); ok {
		respondFailure(c, statusFor(se.Kind), se.Code, se.Message)
		return
	}

	log.Printf("[%s] %s %s failed: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
	respondFailure(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
}

// identity returns the authenticated caller or writes a 401
func identity(c *gin.Context) (auth.Identity, bool) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondFailure(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return auth.Identity{}, false
	}
	return id, true
}

// pathID parses a positive numeric path parameter or writes a 400
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondFailure(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
