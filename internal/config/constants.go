package config

// SyncStatus and OperationType are open string enums: the schema does not
// constrain them, so an external consumer can introduce values without a
// schema change. The API layer only accepts the known sets below.
type SyncStatus string

type OperationType string

var (
	AllowedStatuses       = []string{"pending", "in_progress", "failed", "completed"}
	AllowedOperationTypes = []string{"create", "update", "delete"}

	StatusPending    SyncStatus = "pending"
	StatusInProgress SyncStatus = "in_progress"
	StatusFailed     SyncStatus = "failed"
	StatusCompleted  SyncStatus = "completed"

	OpTypeCreate OperationType = "create"
	OpTypeUpdate OperationType = "update"
	OpTypeDelete OperationType = "delete"
)
