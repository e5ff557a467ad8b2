package sync

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/syncwell/pendingsync/internal/config"
	"github.com/syncwell/pendingsync/internal/dto"
	"github.com/syncwell/pendingsync/internal/models"
)

// SyncRepoInterface defines the contract for pending-sync persistence.
type SyncRepoInterface interface {
	Create(ctx context.Context, sync *models.PendingSync) error
	Get(ctx context.Context, id uint) (*models.PendingSync, error)
	GetByTransactionID(ctx context.Context, txID string) (*models.PendingSync, error)
	ListByStatus(ctx context.Context, status config.SyncStatus, limit int) ([]models.PendingSync, error)
	UpdateStatus(ctx context.Context, id uint, status config.SyncStatus) error
	RecordAttempt(ctx context.Context, id uint, errMsg string) error
	MarkCompleted(ctx context.Context, id uint, apiData datatypes.JSON) error
}

// SyncServiceInterface defines the contract for pending-sync business logic.
type SyncServiceInterface interface {
	CreateSync(ctx context.Context, req *dto.SyncCreateDTO) (*dto.SyncResponseDTO, error)
	GetSyncByID(ctx context.Context, id uint) (*dto.SyncResponseDTO, error)
	GetSyncByTransactionID(ctx context.Context, txID string) (*dto.SyncResponseDTO, error)
	ListSyncs(ctx context.Context, status string, limit int) ([]dto.SyncResponseDTO, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	RecordAttempt(ctx context.Context, id uint, errMsg string) error
	CompleteSync(ctx context.Context, id uint, apiData datatypes.JSON) error
}

// SyncHandlerInterface defines the contract for HTTP request handlers.
type SyncHandlerInterface interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	GetByTransaction(c *gin.Context)
	List(c *gin.Context)
	UpdateStatus(c *gin.Context)
	Attempt(c *gin.Context)
	Complete(c *gin.Context)
}
