package models

import (
	"ets/src/types"
)

type Organizer struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `json:"name,omitempty"`
	Email        string `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string `json:"-"`
	Phone        string `json:"phone,omitempty"`
	Company      string `json:"company,omitempty"`
	Description  string `json:"description,omitempty"`
	Website      string `json:"website,omitempty"`
	IsActive     bool   `gorm:"default:true" json:"is_active,omitempty"`
	IsVerified   bool   `json:"is_verified,omitempty"`

	Events []Event `gorm:"foreignKey:organizer_id" json:"events,omitempty"`

	types.Timestamps
}
