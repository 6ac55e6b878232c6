package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/models"
)

const identityKey = "identity"

// errMalformedHeader is returned for an Authorization header that is not "Bearer <token>"
var errMalformedHeader = errors.New("authorization header must be of the form 'Bearer <token>'")

// BearerTokenExtractor accepts exactly "Bearer <token>". A missing header yields
// an empty token; anything else is an error.
func BearerTokenExtractor(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", nil
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" || strings.ContainsAny(token, " \t") {
		return "", errMalformedHeader
	}
	return token, nil
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's identity in the gin context.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	validate := func(_ context.Context, token string) (interface{}, error) {
		return tokens.Validate(token)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		code, message := "INVALID_TOKEN", "Token is invalid or expired"
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) || errors.Is(err, errMalformedHeader) {
			code, message = "TOKEN_MISSING", "A Bearer token is required"
		}
		log.Printf("Rejected request to %s: %v", r.URL.Path, err)

		writeJSONError(w, http.StatusUnauthorized, code, message)
	}

	middleware := jwtmiddleware.New(
		validate,
		jwtmiddleware.WithErrorHandler(errorHandler),
		jwtmiddleware.WithTokenExtractor(BearerTokenExtractor),
	)

	return func(c *gin.Context) {
		authenticated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			identity, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*auth.Identity)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired")
				return
			}
			authenticated = true
			c.Request = r
			c.Set(identityKey, *identity)
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		// The error handler already wrote the response
		if !authenticated {
			c.Abort()
		}
	}
}

// GetIdentity extracts the caller's identity from the gin context
func GetIdentity(c *gin.Context) (auth.Identity, error) {
	value, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, &AuthError{Code: "MISSING_IDENTITY", Message: "Identity not found in context"}
	}

	identity, ok := value.(auth.Identity)
	if !ok {
		return auth.Identity{}, &AuthError{Code: "INVALID_IDENTITY", Message: "Identity is not in the expected format"}
	}

	return identity, nil
}

// RequireRole must run after RequireAuth. It rejects callers without role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := GetIdentity(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "TOKEN_MISSING",
					"message": "A Bearer token is required",
				},
			})
			return
		}

		if !identity.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions to access this resource",
				},
			})
			return
		}

		c.Next()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}
