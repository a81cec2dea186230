package model

import "time"

// ClinicMessage is one turn of a clinic-recommendation conversation.
// SessionID is the in-memory session key; rows are only written when the
// optional transcript persistence is enabled.
type ClinicMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:64;not null;index" json:"session_id"`
	Role      string    `gorm:"size:16;not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
