package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/kendall-kelly/fixnow-api/auth"
	"github.com/kendall-kelly/fixnow-api/models"
	"github.com/kendall-kelly/fixnow-api/repository"
)

var errAppointmentNotFound = NotFoundError("APPOINTMENT_NOT_FOUND", "Appointment not found")

// CreateAppointmentInput is the data accepted when booking a technician.
// A nil ClientID books on behalf of the caller.
type CreateAppointmentInput struct {
	ClientID      *uint
	TechnicianID  uint
	Title         string
	Description   string
	Category      string
	ScheduledDate time.Time
	Address       *string
	City          *string
	Phone         *string
	Notes         *string
}

// AppointmentService books appointments and drives their status through the lifecycle
type AppointmentService struct {
	appointments repository.AppointmentRepository
	users        repository.UserRepository
	categories   repository.CategoryRepository
	lifecycle    *models.Lifecycle
	events       EventPublisher
}

// NewAppointmentService creates an appointment service
func NewAppointmentService(
	appointments repository.AppointmentRepository,
	users repository.UserRepository,
	categories repository.CategoryRepository,
	lifecycle *models.Lifecycle,
	events EventPublisher,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		users:        users,
		categories:   categories,
		lifecycle:    lifecycle,
		events:       events,
	}
}

// Create books an appointment. It always starts in the lifecycle's initial status.
func (s *AppointmentService) Create(ctx context.Context, actor auth.Identity, in CreateAppointmentInput) (*models.Appointment, error) {
	clientID := actor.ID
	if in.ClientID != nil {
		clientID = *in.ClientID
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)
	if title == "" || description == "" || category == "" || in.TechnicianID == 0 || in.ScheduledDate.IsZero() {
		return nil, ValidationError("VALIDATION_ERROR", "Title, description, category, technician and scheduled date are required")
	}

	if !actor.HasRole(models.RoleAdmin) && actor.ID != clientID && actor.ID != in.TechnicianID {
		return nil, AuthorizationError("FORBIDDEN", "You can only book appointments you take part in")
	}

	if clientID == in.TechnicianID {
		return nil, ValidationError("INVALID_PARTICIPANTS", "Client and technician must be different users")
	}
	for _, id := range []uint{clientID, in.TechnicianID} {
		if _, err := s.users.FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ValidationError("INVALID_PARTICIPANTS", "Client and technician must be existing users").wrap(err)
			}
			return nil, err
		}
	}

	if _, err := s.categories.FindByName(ctx, category); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ValidationError("CATEGORY_NOT_FOUND", "Category does not exist").wrap(err)
		}
		return nil, err
	}

	appointment := &models.Appointment{
		ClientID:      clientID,
		TechnicianID:  in.TechnicianID,
		Title:         title,
		Description:   description,
		Category:      category,
		ScheduledDate: in.ScheduledDate,
		Status:        s.lifecycle.Initial(),
		Address:       in.Address,
		City:          in.City,
		Phone:         in.Phone,
		Notes:         in.Notes,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}

	publish(ctx, s.events, EventAppointmentCreated, appointmentKey(appointment.ID), appointmentEvent(appointment, "", actor.ID))

	// Reload to return both participants
	created, err := s.appointments.FindByID(ctx, appointment.ID)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List returns the appointments visible to actor, latest scheduled first
func (s *AppointmentService) List(ctx context.Context, actor auth.Identity) ([]models.Appointment, error) {
	var filter repository.AppointmentFilter
	if !actor.HasRole(models.RoleAdmin) {
		filter.ParticipantID = actor.ID
	}
	return s.appointments.List(ctx, filter)
}

// Get returns appointment id if actor takes part in it or is an administrator
func (s *AppointmentService) Get(ctx context.Context, actor auth.Identity, id uint) (*models.Appointment, error) {
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errAppointmentNotFound.wrap(err)
		}
		return nil, err
	}
	// Outsiders are told the appointment does not exist
	if !actor.HasRole(models.RoleAdmin) && !appointment.Involves(actor.ID) {
		return nil, errAppointmentNotFound
	}
	return appointment, nil
}

// UpdateStatus moves appointment id to status through the lifecycle and persists it
func (s *AppointmentService) UpdateStatus(ctx context.Context, actor auth.Identity, id uint, status string) (*models.Appointment, error) {
	appointment, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	previous := appointment.Status
	if err := s.lifecycle.Transition(appointment, status, actorFor(actor, appointment)); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidStatus):
			return nil, ValidationError("INVALID_STATUS", "Status must be one of PENDENTE, CONFIRMADO, CONCLUIDO, CANCELADO").wrap(err)
		case errors.Is(err, models.ErrIllegalTransition):
			return nil, ConflictError("ILLEGAL_TRANSITION", "Cannot change status from "+string(previous)+" to the requested status").wrap(err)
		}
		return nil, err
	}

	if err := s.appointments.Save(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errAppointmentNotFound.wrap(err)
		}
		return nil, err
	}

	publish(ctx, s.events, EventAppointmentStatusChanged, appointmentKey(appointment.ID), appointmentEvent(appointment, previous, actor.ID))
	return appointment, nil
}

// Delete removes appointment id. This is distinct from cancelling it.
func (s *AppointmentService) Delete(ctx context.Context, actor auth.Identity, id uint) error {
	appointment, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.appointments.Remove(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errAppointmentNotFound.wrap(err)
		}
		return err
	}

	publish(ctx, s.events, EventAppointmentDeleted, appointmentKey(appointment.ID), appointmentEvent(appointment, "", actor.ID))
	return nil
}

// actorFor classifies the caller relative to the appointment
func actorFor(identity auth.Identity, appointment *models.Appointment) models.Actor {
	switch {
	case identity.HasRole(models.RoleAdmin):
		return models.ActorAdmin
	case identity.ID == appointment.TechnicianID:
		return models.ActorTechnician
	default:
		return models.ActorClient
	}
}

func appointmentEvent(a *models.Appointment, previous models.AppointmentStatus, actorID uint) AppointmentEvent {
	return AppointmentEvent{
		AppointmentID:  a.ID,
		ClientID:       a.ClientID,
		TechnicianID:   a.TechnicianID,
		Status:         string(a.Status),
		PreviousStatus: string(previous),
		ActorID:        actorID,
	}
}

func appointmentKey(id uint) string {
	return "appointment-" + strconv.FormatUint(uint64(id), 10)
}
