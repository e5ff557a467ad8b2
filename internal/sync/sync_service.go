package sync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/syncwell/pendingsync/common"
	"github.com/syncwell/pendingsync/internal/config"
	"github.com/syncwell/pendingsync/internal/dto"
	"github.com/syncwell/pendingsync/internal/models"
)

type SyncService struct {
	repo SyncRepoInterface
}

func NewSyncService(repo SyncRepoInterface) *SyncService {
	return &SyncService{repo: repo}
}

var _ SyncServiceInterface = (*SyncService)(nil)

// CreateSync validates the deferred-sync request, assigns a transaction id
// when the client did not supply one, and persists the row. Duplicate
// transaction ids map to 409; everything else follows the usual
// timeout/internal split.
func (s *SyncService) CreateSync(ctx context.Context, req *dto.SyncCreateDTO) (*dto.SyncResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request canceled or timed out")
	}

	if !slices.Contains(config.AllowedOperationTypes, req.OperationType) {
		return nil, common.NewAPIError(
			http.StatusBadRequest,
			"invalid operation type",
			map[string]any{
				"provided": req.OperationType,
				"allowed":  config.AllowedOperationTypes,
			},
		)
	}

	if len(req.DBData) > 0 && !json.Valid(req.DBData) {
		return nil, common.Errf(http.StatusBadRequest, "db_data must be valid JSON")
	}
	if len(req.APIData) > 0 && !json.Valid(req.APIData) {
		return nil, common.Errf(http.StatusBadRequest, "api_data must be valid JSON")
	}

	txID := req.TransactionID
	if txID == "" {
		txID = uuid.NewString()
	} else if _, err := uuid.Parse(txID); err != nil {
		return nil, common.Errf(http.StatusBadRequest, "transaction_id must be a UUID")
	}

	sync := models.PendingSync{
		TransactionID: txID,
		OperationType: req.OperationType,
		EntityType:    req.EntityType,
		EntityID:      req.EntityID,
		DBData:        datatypes.JSON(req.DBData),
		APIData:       datatypes.JSON(req.APIData),
		Status:        string(config.StatusPending),
	}

	if err := s.repo.Create(ctx, &sync); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, common.NewAPIError(
				http.StatusConflict,
				"transaction already recorded",
				map[string]any{"transaction_id": txID},
			)
		case errors.Is(err, context.Canceled):
			return nil, common.Errf(http.StatusRequestTimeout, "request was canceled")
		case errors.Is(err, context.DeadlineExceeded):
			return nil, common.Errf(http.StatusRequestTimeout, "request timeout")
		default:
			return nil, common.Errf(http.StatusInternalServerError, "failed to record pending sync")
		}
	}

	resp := toResponseDTO(&sync)
	return &resp, nil
}

// GetSyncByID retrieves a pending sync by its ID, mapping repository errors
// to API errors.
func (s *SyncService) GetSyncByID(ctx context.Context, id uint) (*dto.SyncResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	sync, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}

	resp := toResponseDTO(sync)
	return &resp, nil
}

// GetSyncByTransactionID retrieves a pending sync by its transaction id.
func (s *SyncService) GetSyncByTransactionID(ctx context.Context, txID string) (*dto.SyncResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	if _, err := uuid.Parse(txID); err != nil {
		return nil, common.Errf(http.StatusBadRequest, "transaction_id must be a UUID")
	}

	sync, err := s.repo.GetByTransactionID(ctx, txID)
	if err != nil {
		return nil, mapLookupError(err)
	}

	resp := toResponseDTO(sync)
	return &resp, nil
}

// ListSyncs retrieves syncs in the given status, oldest first.
func (s *SyncService) ListSyncs(ctx context.Context, status string, limit int) ([]dto.SyncResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	if !slices.Contains(config.AllowedStatuses, status) {
		return nil, common.NewAPIError(
			http.StatusBadRequest,
			"invalid status",
			map[string]any{
				"provided": status,
				"allowed":  config.AllowedStatuses,
			},
		)
	}

	if limit <= 0 {
		limit = 50
	}

	syncs, err := s.repo.ListByStatus(ctx, config.SyncStatus(status), limit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to list pending syncs")
	}

	dtos := make([]dto.SyncResponseDTO, len(syncs))
	for i := range syncs {
		dtos[i] = toResponseDTO(&syncs[i])
	}

	return dtos, nil
}

// UpdateStatus sets the status of a pending sync. The status must be one of
// the known lifecycle values; the storage layer itself stays open.
func (s *SyncService) UpdateStatus(ctx context.Context, id uint, status string) error {
	if err := ctx.Err(); err != nil {
		return common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	if !slices.Contains(config.AllowedStatuses, status) {
		return common.NewAPIError(
			http.StatusBadRequest,
			"invalid status",
			map[string]any{
				"provided": status,
				"allowed":  config.AllowedStatuses,
			},
		)
	}

	if err := s.repo.UpdateStatus(ctx, id, config.SyncStatus(status)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return common.Errf(http.StatusRequestTimeout, "request timed out")
		}
		return common.Errf(http.StatusInternalServerError, "failed to update sync status")
	}

	return nil
}

// RecordAttempt registers the outcome of one external sync attempt.
func (s *SyncService) RecordAttempt(ctx context.Context, id uint, errMsg string) error {
	if err := ctx.Err(); err != nil {
		return common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	if err := s.repo.RecordAttempt(ctx, id, errMsg); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return common.Errf(http.StatusRequestTimeout, "request timed out")
		}
		return common.Errf(http.StatusInternalServerError, "failed to record sync attempt")
	}

	return nil
}

// CompleteSync moves a pending sync to its terminal success state.
func (s *SyncService) CompleteSync(ctx context.Context, id uint, apiData datatypes.JSON) error {
	if err := ctx.Err(); err != nil {
		return common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	if len(apiData) > 0 && !json.Valid(apiData) {
		return common.Errf(http.StatusBadRequest, "api_data must be valid JSON")
	}

	if err := s.repo.MarkCompleted(ctx, id, apiData); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return common.Errf(http.StatusRequestTimeout, "request timed out")
		}
		return common.Errf(http.StatusInternalServerError, "failed to complete sync")
	}

	return nil
}

func mapLookupError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return common.Errf(http.StatusRequestTimeout, "request timed out")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.Errf(http.StatusNotFound, "pending sync not found")
	default:
		return common.Errf(http.StatusInternalServerError, "failed to get pending sync")
	}
}

func toResponseDTO(sync *models.PendingSync) dto.SyncResponseDTO {
	return dto.SyncResponseDTO{
		ID:            sync.ID,
		TransactionID: sync.TransactionID,
		OperationType: sync.OperationType,
		EntityType:    sync.EntityType,
		EntityID:      sync.EntityID,
		DBData:        json.RawMessage(sync.DBData),
		APIData:       json.RawMessage(sync.APIData),
		Status:        sync.Status,
		RetryCount:    sync.RetryCount,
		LastError:     sync.LastError,
		CreatedAt:     sync.CreatedAt,
		LastAttemptAt: sync.LastAttemptAt,
		CompletedAt:   sync.CompletedAt,
	}
}
