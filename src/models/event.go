package models

import (
	"ets/src/config"
	"ets/src/types"
	"fmt"
	"time"
)

type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `json:"title,omitempty"`
	Slug        string            `gorm:"index" json:"slug,omitempty"`
	Description string            `json:"description,omitempty"`
	Date        string            `gorm:"index" json:"date,omitempty"`
	Time        string            `json:"time,omitempty"`
	Location    string            `json:"location,omitempty"`
	Category    string            `gorm:"index" json:"category,omitempty"`
	ImageURL    string            `json:"image_url,omitempty"`
	Status      types.EventStatus `gorm:"default:'active'" json:"status,omitempty"`
	OrganizerID uint              `gorm:"index" json:"organizer_id,omitempty"`

	GeneralPrice     float64 `json:"general_price"`
	GeneralCapacity  uint    `json:"general_capacity"`
	GeneralRemaining int64   `json:"general_remaining"`
	VIPPrice         float64 `gorm:"column:vip_price" json:"vip_price"`
	VIPCapacity      uint    `gorm:"column:vip_capacity" json:"vip_capacity"`
	VIPRemaining     int64   `gorm:"column:vip_remaining" json:"vip_remaining"`

	Organizer     Organizer      `gorm:"foreignKey:organizer_id" json:"organizer,omitempty"`
	Registrations []Registration `gorm:"foreignKey:event_id" json:"registrations,omitempty"`

	// Populated by organizer listings only
	RegistrationCount *int64   `gorm:"-" json:"registration_count,omitempty"`
	TotalRevenue      *float64 `gorm:"-" json:"total_revenue,omitempty"`

	types.Timestamps
}

// StartsAt combines the date and time columns in server-local time.
func (e *Event) StartsAt() (time.Time, error) {
	layout := fmt.Sprintf("%s %s", config.DATE_PARSE_FORMAT, config.TIME_PARSE_FORMAT)
	return time.ParseInLocation(layout, fmt.Sprintf("%s %s", e.Date, e.Time), time.Local)
}

// UnitPrice returns the price of a single ticket of the given pool.
func (e *Event) UnitPrice(tt types.TicketType) float64 {
	if tt == types.TICKET_VIP {
		return e.VIPPrice
	}
	return e.GeneralPrice
}

// Remaining returns the live pool counter for the given ticket type.
func (e *Event) Remaining(tt types.TicketType) int64 {
	if tt == types.TICKET_VIP {
		return e.VIPRemaining
	}
	return e.GeneralRemaining
}
