package repository

import (
	"context"

	"github.com/kendall-kelly/fixnow-api/models"
	"gorm.io/gorm"
)

// UserFilter narrows List results; zero values match everything
type UserFilter struct {
	Role models.Role
}

// UserRepository stores users
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	// Remove deletes the user together with every appointment and review
	// that references it.
	Remove(ctx context.Context, user *models.User) error
}

// GormUserRepository implements UserRepository with gorm
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository backed by db
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *GormUserRepository) Save(ctx context.Context, user *models.User) error {
	return update(r.db.WithContext(ctx), user)
}

func (r *GormUserRepository) Remove(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ? OR technician_id = ?", user.ID, user.ID).
			Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("client_id = ? OR technician_id = ?", user.ID, user.ID).
			Delete(&models.Review{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, user.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}
