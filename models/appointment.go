package models

import (
	"time"
)

// Appointment is a booking of a technician by a client
type Appointment struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	ClientID      uint              `gorm:"not null;index" json:"client_id"`
	Client        User              `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client"`
	TechnicianID  uint              `gorm:"not null;index" json:"technician_id"`
	Technician    User              `gorm:"foreignKey:TechnicianID;constraint:OnDelete:CASCADE" json:"technician"`
	Title         string            `gorm:"not null" json:"title"`
	Description   string            `gorm:"type:text;not null" json:"description"`
	Category      string            `gorm:"not null" json:"category"`
	ScheduledDate time.Time         `gorm:"not null;index" json:"scheduled_date"`
	Status        AppointmentStatus `gorm:"type:text;not null;default:'PENDENTE'" json:"status"`
	Address       *string           `json:"address"`
	City          *string           `json:"city"`
	Phone         *string           `json:"phone"`
	Notes         *string           `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// Involves reports whether userID is the client or the technician
func (a *Appointment) Involves(userID uint) bool {
	return a.ClientID == userID || a.TechnicianID == userID
}
