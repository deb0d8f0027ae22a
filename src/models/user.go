package models

import (
	"ets/src/types"
)

type User struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Name          string     `json:"name,omitempty"`
	Email         string     `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash  string     `json:"-"`
	Phone         string     `json:"phone,omitempty"`
	Role          types.Role `gorm:"default:'user'" json:"role,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"is_active,omitempty"`
	EmailVerified bool       `json:"email_verified,omitempty"`

	Registrations []Registration `gorm:"foreignKey:user_id" json:"registrations,omitempty"`
	Notifications []Notification `gorm:"foreignKey:user_id" json:"notifications,omitempty"`

	types.Timestamps
}
