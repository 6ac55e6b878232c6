package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/mail"
	"strconv"
	"strings"

	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/repository"
	"github.com/kendall-kelly/fixnow-api/utils"
)

// MinPasswordLength applies to registration and password changes
const MinPasswordLength = 6

// RegisterInput is the data accepted when a user signs up
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Profession *string
	Phone      *string
}

// UpdateUserInput carries the fields of a profile update; nil leaves a field unchanged
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Password   *string
	Role       *string
	Profession *string
	Phone      *string
}

// UserService manages accounts and profile images
type UserService struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
	images ImageService
	events EventPublisher
}

// NewUserService creates a user service. images may be nil when uploads are disabled.
func NewUserService(users repository.UserRepository, hasher *auth.PasswordHasher, images ImageService, events EventPublisher) *UserService {
	return &UserService{users: users, hasher: hasher, images: images, events: events}
}

// Register creates a non-admin account
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Name is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < MinPasswordLength {
		return nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	role := models.RoleClient
	if strings.TrimSpace(in.Role) != "" {
		parsed, ok := models.ParseRole(in.Role)
		if !ok {
			return nil, ValidationError("INVALID_ROLE", "Role must be CLIENT or TECHNICIAN")
		}
		role = parsed
	}
	if role == models.RoleAdmin {
		return nil, ValidationError("ROLE_NOT_ALLOWED", "Administrator accounts cannot be self-registered")
	}

	return s.create(ctx, name, email, in.Password, role, in.Profession, in.Phone)
}

// EnsureAdmin creates an administrator with email unless a user with that email exists
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, bool, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, false, err
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	user, err := s.create(ctx, name, email, password, models.RoleAdmin, nil, nil)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *UserService) create(ctx context.Context, name, email, password string, role models.Role, profession, phone *string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Profession:   profession,
		Phone:        phone,
	}
	// The unique index on email decides concurrent registrations
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errEmailExists.wrap(err)
		}
		return nil, err
	}

	publish(ctx, s.events, EventUserRegistered, userKey(user.ID), UserEvent{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	return user, nil
}

// Get returns the user with id
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveImage(ctx, user)
	return user, nil
}

// List returns every user, optionally restricted to a role
func (s *UserService) List(ctx context.Context, role string) ([]models.User, error) {
	var filter repository.UserFilter
	if strings.TrimSpace(role) != "" {
		parsed, ok := models.ParseRole(role)
		if !ok {
			return nil, ValidationError("INVALID_ROLE", "Unknown role filter")
		}
		filter.Role = parsed
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range users {
		s.resolveImage(ctx, &users[i])
	}
	return users, nil
}

// Update changes the profile of user id on behalf of actor.
// Ownership is checked by the caller.
func (s *UserService) Update(ctx context.Context, actor auth.Identity, id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ValidationError("VALIDATION_ERROR", "Name cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			if other, err := s.users.FindByEmail(ctx, email); err == nil && other.ID != user.ID {
				return nil, errEmailExists
			} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if in.Password != nil {
		if len(*in.Password) < MinPasswordLength {
			return nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.Role != nil {
		role, ok := models.ParseRole(*in.Role)
		if !ok {
			return nil, ValidationError("INVALID_ROLE", "Role must be ADMIN, CLIENT or TECHNICIAN")
		}
		if role == models.RoleAdmin && !actor.HasRole(models.RoleAdmin) {
			return nil, AuthorizationError("ROLE_NOT_ALLOWED", "Only administrators can grant the ADMIN role")
		}
		user.Role = role
	}
	if in.Profession != nil {
		user.Profession = in.Profession
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}

	if err := s.users.Save(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, errEmailExists.wrap(err)
		case errors.Is(err, repository.ErrNotFound):
			return nil, errUserNotFound.wrap(err)
		}
		return nil, err
	}
	s.resolveImage(ctx, user)
	return user, nil
}

// Delete removes user id together with their appointments and reviews
func (s *UserService) Delete(ctx context.Context, id uint) error {
	user, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Remove(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errUserNotFound
		}
		return err
	}

	if user.ProfileImageKey != nil && s.images != nil {
		if err := s.images.DeleteImage(ctx, *user.ProfileImageKey); err != nil {
			log.Printf("warning: failed to delete profile image of user %d: %v", user.ID, err)
		}
	}

	publish(ctx, s.events, EventUserDeleted, userKey(user.ID), UserEvent{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	return nil
}

// UpdateProfileImage stores a new profile image for user id and drops the previous one
func (s *UserService) UpdateProfileImage(ctx context.Context, id uint, fileHeader *multipart.FileHeader) (*models.User, error) {
	if s.images == nil {
		return nil, ValidationError("UPLOADS_DISABLED", "Image uploads are not configured")
	}
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	key, err := s.images.UploadImage(ctx, fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			return nil, ValidationError(uploadErr.Code, uploadErr.Message)
		}
		return nil, err
	}

	previous := user.ProfileImageKey
	user.ProfileImageKey = &key
	if err := s.users.Save(ctx, user); err != nil {
		if delErr := s.images.DeleteImage(ctx, key); delErr != nil {
			log.Printf("warning: failed to clean up image %s: %v", key, delErr)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errUserNotFound.wrap(err)
		}
		return nil, err
	}

	if previous != nil && *previous != key {
		if err := s.images.DeleteImage(ctx, *previous); err != nil {
			log.Printf("warning: failed to delete previous image %s: %v", *previous, err)
		}
	}

	s.resolveImage(ctx, user)
	return user, nil
}

func (s *UserService) find(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errUserNotFound.wrap(err)
		}
		return nil, err
	}
	return user, nil
}

// resolveImage fills the public image URL; failures only drop the URL
func (s *UserService) resolveImage(ctx context.Context, user *models.User) {
	if s.images == nil || user.ProfileImageKey == nil || *user.ProfileImageKey == "" {
		return
	}
	url, err := s.images.GetImageURL(ctx, *user.ProfileImageKey)
	if err != nil {
		log.Printf("warning: failed to resolve image of user %d: %v", user.ID, err)
		return
	}
	user.ProfileImageURL = &url
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ValidationError("VALIDATION_ERROR", "Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ValidationError("VALIDATION_ERROR", "Email is not valid")
	}
	return email, nil
}

func userKey(id uint) string {
	return "user-" + strconv.FormatUint(uint64(id), 10)
}
