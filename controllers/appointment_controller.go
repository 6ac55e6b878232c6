package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/fixnow-api/services"
)

// CreateAppointmentRequest represents the request body for booking a technician.
// client_id defaults to the caller.
type CreateAppointmentRequest struct {
	ClientID      *uint     `json:"client_id"`
	TechnicianID  uint      `json:"technician_id" binding:"required"`
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description" binding:"required"`
	Category      string    `json:"category" binding:"required"`
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
	Address       *string   `json:"address"`
	City          *string   `json:"city"`
	Phone         *string   `json:"phone"`
	Notes         *string   `json:"notes"`
}

// UpdateStatusRequest represents the request body for changing an appointment's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AppointmentController serves the appointment endpoints
type AppointmentController struct {
	appointments *services.AppointmentService
}

// NewAppointmentController creates an appointment controller
func NewAppointmentController(appointments *services.AppointmentService) *AppointmentController {
	return &AppointmentController{appointments: appointments}
}

// CreateAppointment handles POST /api/v1/appointments
func (ctl *AppointmentController) CreateAppointment(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	appointment, err := ctl.appointments.Create(c.Request.Context(), caller, services.CreateAppointmentInput{
		ClientID:      req.ClientID,
		TechnicianID:  req.TechnicianID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		ScheduledDate: req.ScheduledDate,
		Address:       req.Address,
		City:          req.City,
		Phone:         req.Phone,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, appointment)
}

// ListAppointments handles GET /api/v1/appointments - the caller's appointments, or all for admins
func (ctl *AppointmentController) ListAppointments(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}

	appointments, err := ctl.appointments.List(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, appointments)
}

// GetAppointment handles GET /api/v1/appointments/:id
func (ctl *AppointmentController) GetAppointment(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	appointment, err := ctl.appointments.Get(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, appointment)
}

// UpdateAppointmentStatus handles PUT /api/v1/appointments/:id/status
func (ctl *AppointmentController) UpdateAppointmentStatus(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidBody(c, err)
		return
	}

	appointment, err := ctl.appointments.UpdateStatus(c.Request.Context(), caller, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, appointment)
}

// DeleteAppointment handles DELETE /api/v1/appointments/:id - removes it outright
func (ctl *AppointmentController) DeleteAppointment(c *gin.Context) {
	caller, ok := identity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctl.appointments.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "Appointment deleted successfully")
}
