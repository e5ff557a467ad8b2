package models

import (
	"time"

	"gorm.io/datatypes"
)

// PendingSync is one unit of deferred synchronization work between the
// database-side and API-side representations of a domain object. Rows are
// created when a sync is first deferred and mutated by whatever external
// worker consumes the table; this service never processes them itself.
type PendingSync struct {
	ID            uint           `gorm:"primaryKey;autoIncrement"`
	TransactionID string         `gorm:"type:varchar(36);not null;uniqueIndex:ix_pending_syncs_transaction_id"`
	OperationType string         `gorm:"type:varchar(20);not null"`
	EntityType    string         `gorm:"type:varchar(50);not null"`
	EntityID      string         `gorm:"type:varchar(36);not null"`
	DBData        datatypes.JSON `gorm:"type:jsonb"`
	APIData       datatypes.JSON `gorm:"type:jsonb"`
	Status        string         `gorm:"type:varchar(20);default:'pending';index:ix_pending_syncs_status"`
	RetryCount    int            `gorm:"default:0"`
	LastError     string         `gorm:"type:text"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;index:ix_pending_syncs_created_at"`
	LastAttemptAt *time.Time
	CompletedAt   *time.Time
}

func (PendingSync) TableName() string {
	return "pending_syncs"
}
