package models

import (
	"ets/src/types"
	"time"
)

type Ticket struct {
	ID             uint               `gorm:"primarykey" json:"id"`
	RegistrationID uint               `gorm:"index" json:"registration_id,omitempty"`
	TicketCode     string             `gorm:"uniqueIndex" json:"ticket_code,omitempty"`
	TicketType     types.TicketType   `json:"ticket_type,omitempty"`
	Status         types.TicketStatus `gorm:"default:'valid'" json:"status,omitempty"`
	CheckInDate    *time.Time         `json:"check_in_date,omitempty"`

	Registration Registration `gorm:"foreignKey:registration_id" json:"registration,omitempty"`

	types.Timestamps
}
