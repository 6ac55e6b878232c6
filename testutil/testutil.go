// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/config"
	"github.com/kendall-kelly/fixnow-api/models"
	"gorm.io/gorm"
)

// TestSecret signs every token minted by the helpers
const TestSecret = "fixnow-test-secret"

// RequireTestEnvironment ensures that tests are running in the test environment.
// An unset GO_ENV is treated as test; any other value fails the test immediately.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env == "" {
		t.Setenv("GO_ENV", "test")
		return
	}
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q.", env)
	}
}

// NewTestDB opens a private in-memory SQLite database with every table migrated
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	RequireTestEnvironment(t)

	db, err := config.OpenDatabase(&config.Config{DatabaseURL: "sqlite::memory:"})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose password is password
func CreateUser(t *testing.T, db *gorm.DB, name, email, password string, role models.Role) *models.User {
	t.Helper()

	hash, err := auth.NewPasswordHasher().Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

// CreateCategory inserts a category
func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create category %s: %v", name, err)
	}
	return category
}

// CreateAppointment inserts a pending appointment between client and technician
func CreateAppointment(t *testing.T, db *gorm.DB, client, technician *models.User, category string) *models.Appointment {
	t.Helper()

	appointment := &models.Appointment{
		ClientID:      client.ID,
		TechnicianID:  technician.ID,
		Title:         fmt.Sprintf("%s visit", category),
		Description:   "Something needs fixing",
		Category:      category,
		ScheduledDate: time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second),
		Status:        models.StatusPending,
	}
	if err := db.Omit("Client", "Technician").Create(appointment).Error; err != nil {
		t.Fatalf("Failed to create appointment: %v", err)
	}
	return appointment
}

// TokenService returns the token service the helpers sign with
func TokenService() *auth.TokenService {
	return auth.NewTokenService(TestSecret, time.Hour)
}

// TokenFor mints a valid bearer token for user
func TokenFor(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := TokenService().Issue(user)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// BearerFor returns the Authorization header value for user
func BearerFor(t *testing.T, user *models.User) string {
	t.Helper()
	return "Bearer " + TokenFor(t, user)
}
