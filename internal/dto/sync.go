package dto

import (
	"encoding/json"
	"time"
)

type SyncCreateDTO struct {
	TransactionID string          `json:"transaction_id,omitempty" validate:"omitempty,max=36"`
	OperationType string          `json:"operation_type" validate:"required,max=20"`
	EntityType    string          `json:"entity_type" validate:"required,max=50"`
	EntityID      string          `json:"entity_id" validate:"required,max=36"`
	DBData        json.RawMessage `json:"db_data,omitempty"`
	APIData       json.RawMessage `json:"api_data,omitempty"`
}

type SyncResponseDTO struct {
	ID            uint            `json:"id"`
	TransactionID string          `json:"transaction_id"`
	OperationType string          `json:"operation_type"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	DBData        json.RawMessage `json:"db_data,omitempty"`
	APIData       json.RawMessage `json:"api_data,omitempty"`
	Status        string          `json:"status"`
	RetryCount    int             `json:"retry_count"`
	LastError     string          `json:"last_error,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}
