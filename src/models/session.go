package models

import (
	"ets/src/types"
	"time"
)

type Session struct {
	ID          string     `gorm:"primarykey;type:uuid" json:"id"`
	UserID      *uint      `gorm:"index" json:"user_id,omitempty"`
	OrganizerID *uint      `gorm:"index" json:"organizer_id,omitempty"`
	UserType    types.Role `json:"user_type,omitempty"`
	ExpiresAt   time.Time  `json:"expires_at,omitempty"`

	types.Timestamps
}
