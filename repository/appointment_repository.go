package repository

import (
	"context"

	"github.com/kendall-kelly/fixnow-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppointmentFilter narrows List results. A zero ParticipantID lists every appointment.
type AppointmentFilter struct {
	ParticipantID uint
}

// AppointmentRepository stores appointments
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	// List returns appointments ordered by scheduled date, latest first
	List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	Create(ctx context.Context, appointment *models.Appointment) error
	Save(ctx context.Context, appointment *models.Appointment) error
	Remove(ctx context.Context, appointment *models.Appointment) error
}

// GormAppointmentRepository implements AppointmentRepository with gorm
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates an appointment repository backed by db
func NewAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Technician").
		First(&appointment, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &appointment, nil
}

func (r *GormAppointmentRepository) List(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Technician").
		Order("scheduled_date DESC").
		Order("id DESC")
	if filter.ParticipantID != 0 {
		q = q.Where("client_id = ? OR technician_id = ?", filter.ParticipantID, filter.ParticipantID)
	}

	var appointments []models.Appointment
	if err := q.Find(&appointments).Error; err != nil {
		return nil, translate(err)
	}
	return appointments, nil
}

// Create inserts the appointment row only; referenced users are never upserted
func (r *GormAppointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(appointment).Error)
}

// Save updates an existing appointment; ErrNotFound when the row is gone
func (r *GormAppointmentRepository) Save(ctx context.Context, appointment *models.Appointment) error {
	return update(r.db.WithContext(ctx), appointment)
}

func (r *GormAppointmentRepository) Remove(ctx context.Context, appointment *models.Appointment) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, appointment.ID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
