package entity

import (
	"time"

	"github.com/google/uuid"
)

// Database holds stored connection details for a user's Redis database. The
// connection manager turns this into a live client handed to exactly one
// turn at a time.
type Database struct {
	Id        uuid.UUID
	AccountId uuid.UUID
	Name      string
	Host      string
	Port      int
	Username  string
	Password  string
	TLS       bool
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
