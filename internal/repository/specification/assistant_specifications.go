package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByAccountID filters by the owning account.
type ByAccountID struct {
	AccountID uuid.UUID
}

func (s ByAccountID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("account_id = ?", s.AccountID)
}

// ByDatabaseID filters by database scope. A nil DatabaseID selects the
// general (no-database) conversation rows.
type ByDatabaseID struct {
	DatabaseID *uuid.UUID
}

func (s ByDatabaseID) Apply(db *gorm.DB) *gorm.DB {
	if s.DatabaseID == nil {
		return db.Where("database_id IS NULL")
	}
	return db.Where("database_id = ?", *s.DatabaseID)
}

// ByConversationID filters turns belonging to one conversation.
type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}
