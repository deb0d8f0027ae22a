package models

import (
	"ets/src/types"
)

type Notification struct {
	ID      uint                   `gorm:"primarykey" json:"id"`
	UserID  uint                   `gorm:"index" json:"user_id,omitempty"`
	Title   string                 `json:"title,omitempty"`
	Content string                 `json:"content,omitempty"`
	Type    types.NotificationType `gorm:"default:'info'" json:"type,omitempty"`
	IsRead  bool                   `json:"is_read"`

	types.Timestamps
}
