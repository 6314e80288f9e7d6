package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Database struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	AccountId uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Host      string    `gorm:"type:varchar(255);not null"`
	Port      int       `gorm:"not null"`
	Username  string    `gorm:"type:varchar(255)"`
	Password  string    `gorm:"type:text"`
	TLS       bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Database) TableName() string {
	return "databases"
}
