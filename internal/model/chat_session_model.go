package model

import (
	"time"

	"gorm.io/datatypes"
)

type ChatSession struct {
	UserId    string         `gorm:"type:text;primaryKey"` // one document per user
	Messages  datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Version   int64          `gorm:"not null;default:0"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
