package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type Role string

const (
	ROLE_USER      Role = "user"
	ROLE_ORGANIZER Role = "organizer"
	ROLE_ADMIN     Role = "admin"
)

type EventStatus string

const (
	EVENT_ACTIVE    EventStatus = "active"
	EVENT_CANCELED  EventStatus = "cancelled"
	EVENT_COMPLETED EventStatus = "completed"
)

type TicketType string

const (
	TICKET_GENERAL TicketType = "general"
	TICKET_VIP     TicketType = "vip"
)

type RegistrationStatus string

const (
	REGISTRATION_CONFIRMED RegistrationStatus = "confirmed"
	REGISTRATION_CANCELED  RegistrationStatus = "cancelled"
)

type TicketStatus string

const (
	TICKET_VALID    TicketStatus = "valid"
	TICKET_CANCELED TicketStatus = "cancelled"
)

type NotificationType string

const (
	NOTIFICATION_INFO    NotificationType = "info"
	NOTIFICATION_SUCCESS NotificationType = "success"
	NOTIFICATION_WARNING NotificationType = "warning"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

type RegisterOrganizerRequestBody struct {
	Name        string `json:"name" binding:"required,min=2"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Phone       string `json:"phone,omitempty"`
	Company     string `json:"company,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequestBody struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type CreateEventRequestBody struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description,omitempty"`
	Date            string  `json:"date" binding:"required,eventdate" time_format:"2006-01-02"`
	Time            string  `json:"time" binding:"required,eventtime" time_format:"15:04"`
	Location        string  `json:"location" binding:"required"`
	Category        string  `json:"category,omitempty"`
	ImageURL        string  `json:"image_url,omitempty"`
	GeneralPrice    float64 `json:"general_price" binding:"min=0"`
	GeneralCapacity uint    `json:"general_capacity" binding:"required,min=1"`
	VIPPrice        float64 `json:"vip_price" binding:"min=0"`
	VIPCapacity     uint    `json:"vip_capacity"`
}

type UpdateEventRequestBody struct {
	Title           *string  `json:"title,omitempty"`
	Description     *string  `json:"description,omitempty"`
	Date            *string  `json:"date,omitempty" binding:"omitempty,eventdate"`
	Time            *string  `json:"time,omitempty" binding:"omitempty,eventtime"`
	Location        *string  `json:"location,omitempty"`
	Category        *string  `json:"category,omitempty"`
	ImageURL        *string  `json:"image_url,omitempty"`
	Status          *string  `json:"status,omitempty" binding:"omitempty,oneof=active cancelled completed"`
	GeneralPrice    *float64 `json:"general_price,omitempty"`
	GeneralCapacity *uint    `json:"general_capacity,omitempty"`
	VIPPrice        *float64 `json:"vip_price,omitempty"`
	VIPCapacity     *uint    `json:"vip_capacity,omitempty"`
}

type EventQueryFilters struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Date     string `form:"date"`
	Price    string `form:"price" binding:"omitempty,oneof=free paid premium"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

type CreateRegistrationRequestBody struct {
	EventID       uint   `json:"event_id" binding:"required"`
	TicketType    string `json:"ticket_type" binding:"required,oneof=general vip"`
	Quantity      uint   `json:"quantity" binding:"required,min=1,max=10"`
	AttendeeName  string `json:"attendee_name" binding:"required,min=2"`
	AttendeeEmail string `json:"attendee_email" binding:"required,email"`
	AttendeePhone string `json:"attendee_phone,omitempty"`
}

type CheckInRequestBody struct {
	Code string `json:"code" binding:"required"`
}

type UpdateProfileRequestBody struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=2"`
	Phone *string `json:"phone,omitempty" binding:"omitempty,e164|numeric"`
}

type UpdateOrganizerProfileRequestBody struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=2"`
	Phone       *string `json:"phone,omitempty"`
	Company     *string `json:"company,omitempty"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
}

type UsersQueryFilters struct {
	Search string `form:"search"`
	Role   string `form:"role" binding:"omitempty,oneof=user admin"`
	Limit  int    `form:"limit"`
}

type NotificationsQueryFilters struct {
	UnreadOnly bool `form:"unread_only"`
	Limit      int  `form:"limit"`
}

type EventStats struct {
	TotalRegistrations int64   `json:"total_registrations"`
	GeneralSold        int64   `json:"general_sold"`
	VIPSold            int64   `json:"vip_sold"`
	TotalRevenue       float64 `json:"total_revenue"`
	CheckedIn          int64   `json:"checked_in"`
}

type UserStats struct {
	TotalRegistrations int64 `json:"total_registrations"`
	UpcomingEvents     int64 `json:"upcoming_events"`
	AttendedEvents     int64 `json:"attended_events"`
}
