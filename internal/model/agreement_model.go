package model

import (
	"time"

	"github.com/google/uuid"
)

type Agreement struct {
	AccountId uuid.UUID `gorm:"type:uuid;primaryKey"`
	Consent   bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Agreement) TableName() string {
	return "assistant_agreements"
}

type DatabaseAgreement struct {
	AccountId   uuid.UUID `gorm:"type:uuid;primaryKey"`
	DatabaseId  uuid.UUID `gorm:"type:uuid;primaryKey"`
	DataConsent bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (DatabaseAgreement) TableName() string {
	return "assistant_database_agreements"
}
