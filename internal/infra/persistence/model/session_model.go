package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel mirrors the 'sessions' table. Only the keyed hash of the
// cookie token is stored.
type SessionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	TokenHash string    `gorm:"type:varchar(255);unique;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UserName  string    `gorm:"type:varchar(100);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}
