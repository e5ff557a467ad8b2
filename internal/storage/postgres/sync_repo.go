package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/syncwell/pendingsync/internal/config"
	"github.com/syncwell/pendingsync/internal/models"
	syncpkg "github.com/syncwell/pendingsync/internal/sync"
)

type SyncRepository struct {
	db *gorm.DB
}

func NewSyncRepository(db *gorm.DB) *SyncRepository {
	return &SyncRepository{db: db}
}

var _ syncpkg.SyncRepoInterface = (*SyncRepository)(nil)

// Create inserts a new pending sync record. A duplicate transaction_id
// violates ix_pending_syncs_transaction_id and surfaces as
// gorm.ErrDuplicatedKey in the wrapped error.
func (r *SyncRepository) Create(ctx context.Context, sync *models.PendingSync) error {
	if err := r.db.WithContext(ctx).Create(sync).Error; err != nil {
		return fmt.Errorf("create pending sync: %w", err)
	}
	return nil
}

// Get retrieves a single pending sync by its ID.
func (r *SyncRepository) Get(ctx context.Context, id uint) (*models.PendingSync, error) {
	var sync models.PendingSync
	if err := r.db.WithContext(ctx).First(&sync, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pending sync not found: %w", err)
		}
		return nil, fmt.Errorf("get pending sync: %w", err)
	}
	return &sync, nil
}

// GetByTransactionID retrieves a pending sync by its globally unique
// transaction identifier, the indexed lookup path.
func (r *SyncRepository) GetByTransactionID(ctx context.Context, txID string) (*models.PendingSync, error) {
	var sync models.PendingSync
	if err := r.db.WithContext(ctx).First(&sync, "transaction_id = ?", txID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pending sync not found: %w", err)
		}
		return nil, fmt.Errorf("get pending sync by transaction: %w", err)
	}
	return &sync, nil
}

// ListByStatus retrieves up to limit syncs in the given status, oldest
// first. Both the status filter and the created_at ordering ride the
// migration's secondary indices.
func (r *SyncRepository) ListByStatus(ctx context.Context, status config.SyncStatus, limit int) ([]models.PendingSync, error) {
	var syncs []models.PendingSync
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at ASC").
		Limit(limit).
		Find(&syncs).Error; err != nil {
		return nil, fmt.Errorf("list pending syncs: %w", err)
	}
	return syncs, nil
}

// UpdateStatus sets the status of a sync identified by id.
func (r *SyncRepository) UpdateStatus(ctx context.Context, id uint, status config.SyncStatus) error {
	if err := r.db.WithContext(ctx).Model(&models.PendingSync{}).
		Where("id = ?", id).
		Update("status", string(status)).Error; err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// RecordAttempt registers one sync attempt by an external worker: it bumps
// retry_count atomically via gorm.Expr, stamps last_attempt_at, and stores
// the outcome. A non-empty errMsg moves the row to failed, an empty one to
// in_progress.
func (r *SyncRepository) RecordAttempt(ctx context.Context, id uint, errMsg string) error {
	now := time.Now()
	status := config.StatusInProgress
	if errMsg != "" {
		status = config.StatusFailed
	}

	if err := r.db.WithContext(ctx).Model(&models.PendingSync{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"retry_count":     gorm.Expr("retry_count + ?", 1),
			"last_attempt_at": now,
			"last_error":      errMsg,
			"status":          string(status),
		}).Error; err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// MarkCompleted moves a sync to its terminal success state, stamping
// completed_at and storing the API-side snapshot observed at completion.
func (r *SyncRepository) MarkCompleted(ctx context.Context, id uint, apiData datatypes.JSON) error {
	now := time.Now()
	if err := r.db.WithContext(ctx).Model(&models.PendingSync{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       string(config.StatusCompleted),
			"completed_at": now,
			"api_data":     apiData,
			"last_error":   "",
		}).Error; err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}
