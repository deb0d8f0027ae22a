package models

import (
	"ets/src/types"
)

type Registration struct {
	ID            uint                     `gorm:"primarykey" json:"id"`
	UserID        *uint                    `gorm:"index" json:"user_id,omitempty"`
	EventID       uint                     `gorm:"index" json:"event_id,omitempty"`
	TicketType    types.TicketType         `json:"ticket_type,omitempty"`
	Quantity      uint                     `json:"quantity,omitempty"`
	TotalPrice    float64                  `json:"total_price"`
	Status        types.RegistrationStatus `gorm:"default:'confirmed'" json:"status,omitempty"`
	AttendeeName  string                   `json:"attendee_name,omitempty"`
	AttendeeEmail string                   `json:"attendee_email,omitempty"`
	AttendeePhone string                   `json:"attendee_phone,omitempty"`
	PaymentStatus string                   `gorm:"default:'completed'" json:"payment_status,omitempty"`
	PaymentMethod string                   `gorm:"default:'demo'" json:"payment_method,omitempty"`

	User    *User    `gorm:"foreignKey:user_id" json:"-"`
	Event   Event    `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Tickets []Ticket `gorm:"foreignKey:registration_id" json:"tickets,omitempty"`

	types.Timestamps
}
