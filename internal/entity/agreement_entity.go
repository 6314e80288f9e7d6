package entity

import (
	"time"

	"github.com/google/uuid"
)

// Agreement is the account-level consent gating the whole assistant
// feature. Absence of a record is fatal to a turn.
type Agreement struct {
	AccountId uuid.UUID
	Consent   bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// DatabaseAgreement is the per-database data consent gating context
// retrieval and sandboxed query execution. Absence of a record means no
// consent; unlike the account-level agreement it degrades a turn instead of
// aborting it.
type DatabaseAgreement struct {
	AccountId   uuid.UUID
	DatabaseId  uuid.UUID
	DataConsent bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
