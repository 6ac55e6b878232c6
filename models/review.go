package models

import "time"

// Review is a client's rating of a technician
type Review struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Stars        int       `gorm:"not null;check:stars >= 1 AND stars <= 5" json:"stars"`
	Comment      string    `gorm:"type:text;not null" json:"comment"`
	ClientID     uint      `gorm:"not null;index" json:"client_id"`
	Client       User      `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client"`
	TechnicianID uint      `gorm:"not null;index" json:"technician_id"`
	Technician   User      `gorm:"foreignKey:TechnicianID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}
