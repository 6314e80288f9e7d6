package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDatabaseRequest struct {
	Name     string `json:"name" validate:"required"`
	Host     string `json:"host" validate:"required"`
	Port     int    `json:"port" validate:"required,min=1,max=65535"`
	Username string `json:"username"`
	Password string `json:"password"`
	TLS      bool   `json:"tls"`
}

type CreateDatabaseResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateDatabaseRequest struct {
	Id       uuid.UUID
	Name     string `json:"name" validate:"required"`
	Host     string `json:"host" validate:"required"`
	Port     int    `json:"port" validate:"required,min=1,max=65535"`
	Username string `json:"username"`
	Password string `json:"password"`
	TLS      bool   `json:"tls"`
}

type UpdateDatabaseResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowDatabaseResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Host      string     `json:"host"`
	Port      int        `json:"port"`
	Username  string     `json:"username"`
	TLS       bool       `json:"tls"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
