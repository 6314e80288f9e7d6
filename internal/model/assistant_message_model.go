package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssistantMessage struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	AccountId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	DatabaseId     *uuid.UUID `gorm:"type:uuid;index"`
	ConversationId uuid.UUID  `gorm:"type:uuid;not null;index"`
	Role           string     `gorm:"type:varchar(20);not null"`
	Content        string     `gorm:"type:text;not null"`
	Steps          datatypes.JSON
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (AssistantMessage) TableName() string {
	return "assistant_messages"
}
