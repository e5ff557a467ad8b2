package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/syncwell/pendingsync/common"
	"github.com/syncwell/pendingsync/internal/dto"
	"github.com/syncwell/pendingsync/internal/mocks"
	"github.com/syncwell/pendingsync/internal/models"
)

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// wrapErr mirrors the repository's error wrapping so errors.Is checks see
// the sentinel.
func wrapErr(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

func TestSyncService_CreateSync(t *testing.T) {
	validSnapshot := []byte(`{"amount": 42}`)
	invalidSnapshot := []byte(`{invalid json}`)

	tests := []struct {
		name         string
		req          *dto.SyncCreateDTO
		setupMock    func(*mocks.SyncRepoMock)
		setupCtx     func() context.Context
		wantErr      bool
		wantStatus   int
		errContains  string
		skipRepoCall bool
		validate     func(*testing.T, *dto.SyncResponseDTO)
	}{
		{
			name: "generates transaction id when absent",
			req: &dto.SyncCreateDTO{
				OperationType: "update",
				EntityType:    "invoice",
				EntityID:      "abc-123",
				DBData:        validSnapshot,
			},
			setupMock: func(m *mocks.SyncRepoMock) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(s *models.PendingSync) bool {
					_, err := uuid.Parse(s.TransactionID)
					return err == nil &&
						s.OperationType == "update" &&
						s.EntityType == "invoice" &&
						s.EntityID == "abc-123" &&
						s.Status == "pending" &&
						s.RetryCount == 0
				})).Return(nil)
			},
			setupCtx: context.Background,
			wantErr:  false,
			validate: func(t *testing.T, resp *dto.SyncResponseDTO) {
				_, err := uuid.Parse(resp.TransactionID)
				assert.NoError(t, err)
				assert.Equal(t, "pending", resp.Status)
			},
		},
		{
			name: "keeps client supplied transaction id",
			req: &dto.SyncCreateDTO{
				TransactionID: "11111111-1111-1111-1111-111111111111",
				OperationType: "create",
				EntityType:    "customer",
				EntityID:      "cus-1",
			},
			setupMock: func(m *mocks.SyncRepoMock) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(s *models.PendingSync) bool {
					return s.TransactionID == "11111111-1111-1111-1111-111111111111"
				})).Return(nil)
			},
			setupCtx: context.Background,
			wantErr:  false,
			validate: func(t *testing.T, resp *dto.SyncResponseDTO) {
				assert.Equal(t, "11111111-1111-1111-1111-111111111111", resp.TransactionID)
			},
		},
		{
			name: "invalid operation type",
			req: &dto.SyncCreateDTO{
				OperationType: "upsert",
				EntityType:    "invoice",
				EntityID:      "abc-123",
			},
			setupMock:    func(m *mocks.SyncRepoMock) {},
			setupCtx:     context.Background,
			wantErr:      true,
			wantStatus:   http.StatusBadRequest,
			errContains:  "invalid operation type",
			skipRepoCall: true,
		},
		{
			name: "invalid db snapshot",
			req: &dto.SyncCreateDTO{
				OperationType: "update",
				EntityType:    "invoice",
				EntityID:      "abc-123",
				DBData:        invalidSnapshot,
			},
			setupMock:    func(m *mocks.SyncRepoMock) {},
			setupCtx:     context.Background,
			wantErr:      true,
			wantStatus:   http.StatusBadRequest,
			errContains:  "db_data must be valid JSON",
			skipRepoCall: true,
		},
		{
			name: "invalid api snapshot",
			req: &dto.SyncCreateDTO{
				OperationType: "update",
				EntityType:    "invoice",
				EntityID:      "abc-123",
				APIData:       invalidSnapshot,
			},
			setupMock:    func(m *mocks.SyncRepoMock) {},
			setupCtx:     context.Background,
			wantErr:      true,
			wantStatus:   http.StatusBadRequest,
			errContains:  "api_data must be valid JSON",
			skipRepoCall: true,
		},
		{
			name: "malformed transaction id",
			req: &dto.SyncCreateDTO{
				TransactionID: "not-a-uuid",
				OperationType: "delete",
				EntityType:    "invoice",
				EntityID:      "abc-123",
			},
			setupMock:    func(m *mocks.SyncRepoMock) {},
			setupCtx:     context.Background,
			wantErr:      true,
			wantStatus:   http.StatusBadRequest,
			errContains:  "transaction_id must be a UUID",
			skipRepoCall: true,
		},
		{
			name: "unwrapped duplicate text stays opaque",
			req: &dto.SyncCreateDTO{
				TransactionID: "11111111-1111-1111-1111-111111111111",
				OperationType: "update",
				EntityType:    "invoice",
				EntityID:      "abc-123",
			},
			setupMock: func(m *mocks.SyncRepoMock) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(errors.New("create pending sync: " + gorm.ErrDuplicatedKey.Error()))
			},
			setupCtx:    context.Background,
			wantErr:     true,
			wantStatus:  http.StatusInternalServerError, // opaque repo error, not wrapped sentinel
			errContains: "failed to record pending sync",
		},
		{
			name: "wrapped duplicate sentinel maps to conflict",
			req: &dto.SyncCreateDTO{
				TransactionID: "11111111-1111-1111-1111-111111111111",
				OperationType: "update",
				EntityType:    "invoice",
				EntityID:      "abc-123",
			},
			setupMock: func(m *mocks.SyncRepoMock) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(wrapErr("create pending sync", gorm.ErrDuplicatedKey))
			},
			setupCtx:    context.Background,
			wantErr:     true,
			wantStatus:  http.StatusConflict,
			errContains: "transaction already recorded",
		},
		{
			name: "repository failure",
			req: &dto.SyncCreateDTO{
				OperationType: "update",
				EntityType:    "invoice",
				EntityID:      "abc-123",
			},
			setupMock: func(m *mocks.SyncRepoMock) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(errors.New("connection reset"))
			},
			setupCtx:    context.Background,
			wantErr:     true,
			wantStatus:  http.StatusInternalServerError,
			errContains: "failed to record pending sync",
		},
		{
			name: "canceled context",
			req: &dto.SyncCreateDTO{
				OperationType: "update",
				EntityType:    "invoice",
				EntityID:      "abc-123",
			},
			setupMock:    func(m *mocks.SyncRepoMock) {},
			setupCtx:     canceledContext,
			wantErr:      true,
			wantStatus:   http.StatusRequestTimeout,
			skipRepoCall: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(mocks.SyncRepoMock)
			tt.setupMock(repoMock)

			service := NewSyncService(repoMock)
			resp, err := service.CreateSync(tt.setupCtx(), tt.req)

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				if tt.wantStatus != 0 {
					var apiErr common.APIError
					require.ErrorAs(t, err, &apiErr)
					assert.Equal(t, tt.wantStatus, apiErr.Status)
				}
				if tt.skipRepoCall {
					repoMock.AssertNotCalled(t, "Create")
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			if tt.validate != nil {
				tt.validate(t, resp)
			}
			repoMock.AssertExpectations(t)
		})
	}
}

func TestSyncService_GetSyncByID(t *testing.T) {
	now := time.Now()
	attempt := now.Add(-time.Minute)

	tests := []struct {
		name       string
		setupMock  func(*mocks.SyncRepoMock)
		wantErr    bool
		wantStatus int
	}{
		{
			name: "found",
			setupMock: func(m *mocks.SyncRepoMock) {
				m.On("Get", mock.Anything, uint(7)).Return(&models.PendingSync{
					ID:            7,
					TransactionID: "11111111-1111-1111-1111-111111111111",
					OperationType: "update",
					EntityType:    "invoice",
					EntityID:      "abc-123",
					Status:        "failed",
					RetryCount:    2,
					LastError:     "api unreachable",
					CreatedAt:     now,
					LastAttemptAt: &attempt,
				}, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(m *mocks.SyncRepoMock) {
				m.On("Get", mock.Anything, uint(7)).
					Return(nil, wrapErr("pending sync not found", gorm.ErrRecordNotFound))
			},
			wantErr:    true,
			wantStatus: http.StatusNotFound,
		},
		{
			name: "repository failure",
			setupMock: func(m *mocks.SyncRepoMock) {
				m.On("Get", mock.Anything, uint(7)).
					Return(nil, errors.New("connection reset"))
			},
			wantErr:    true,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(mocks.SyncRepoMock)
			tt.setupMock(repoMock)

			service := NewSyncService(repoMock)
			resp, err := service.GetSyncByID(context.Background(), 7)

			if tt.wantErr {
				require.Error(t, err)
				var apiErr common.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, uint(7), resp.ID)
			assert.Equal(t, "failed", resp.Status)
			assert.Equal(t, 2, resp.RetryCount)
			assert.NotNil(t, resp.LastAttemptAt)
		})
	}
}

func TestSyncService_GetSyncByTransactionID(t *testing.T) {
	t.Run("rejects malformed transaction id", func(t *testing.T) {
		repoMock := new(mocks.SyncRepoMock)
		service := NewSyncService(repoMock)

		_, err := service.GetSyncByTransactionID(context.Background(), "nope")
		require.Error(t, err)

		var apiErr common.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		repoMock.AssertNotCalled(t, "GetByTransactionID")
	})

	t.Run("found", func(t *testing.T) {
		repoMock := new(mocks.SyncRepoMock)
		repoMock.On("GetByTransactionID", mock.Anything, "11111111-1111-1111-1111-111111111111").
			Return(&models.PendingSync{ID: 3, TransactionID: "11111111-1111-1111-1111-111111111111", Status: "pending"}, nil)

		service := NewSyncService(repoMock)
		resp, err := service.GetSyncByTransactionID(context.Background(), "11111111-1111-1111-1111-111111111111")
		require.NoError(t, err)
		assert.Equal(t, uint(3), resp.ID)
	})
}

func TestSyncService_ListSyncs(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		limit      int
		setupMock  func(*mocks.SyncRepoMock)
		wantErr    bool
		wantStatus int
		wantLen    int
	}{
		{
			name:   "defaults limit to 50",
			status: "pending",
			limit:  0,
			setupMock: func(m *mocks.SyncRepoMock) {
				m.On("ListByStatus", mock.Anything, mock.Anything, 50).
					Return([]models.PendingSync{{ID: 1, Status: "pending"}}, nil)
			},
			wantLen: 1,
		},
		{
			name:       "invalid status",
			status:     "paused",
			setupMock:  func(m *mocks.SyncRepoMock) {},
			wantErr:    true,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "repository failure",
			status: "failed",
			limit:  10,
			setupMock: func(m *mocks.SyncRepoMock) {
				m.On("ListByStatus", mock.Anything, mock.Anything, 10).
					Return(nil, errors.New("connection reset"))
			},
			wantErr:    true,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoMock := new(mocks.SyncRepoMock)
			tt.setupMock(repoMock)

			service := NewSyncService(repoMock)
			syncs, err := service.ListSyncs(context.Background(), tt.status, tt.limit)

			if tt.wantErr {
				require.Error(t, err)
				var apiErr common.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.wantStatus, apiErr.Status)
				return
			}

			require.NoError(t, err)
			assert.Len(t, syncs, tt.wantLen)
			repoMock.AssertExpectations(t)
		})
	}
}

func TestSyncService_UpdateStatus(t *testing.T) {
	t.Run("rejects unknown status", func(t *testing.T) {
		repoMock := new(mocks.SyncRepoMock)
		service := NewSyncService(repoMock)

		err := service.UpdateStatus(context.Background(), 1, "paused")
		require.Error(t, err)

		var apiErr common.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		repoMock.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("delegates known status", func(t *testing.T) {
		repoMock := new(mocks.SyncRepoMock)
		repoMock.On("UpdateStatus", mock.Anything, uint(1), mock.Anything).Return(nil)

		service := NewSyncService(repoMock)
		require.NoError(t, service.UpdateStatus(context.Background(), 1, "completed"))
		repoMock.AssertExpectations(t)
	})
}

func TestSyncService_RecordAttempt(t *testing.T) {
	t.Run("delegates to repository", func(t *testing.T) {
		repoMock := new(mocks.SyncRepoMock)
		repoMock.On("RecordAttempt", mock.Anything, uint(4), "boom").Return(nil)

		service := NewSyncService(repoMock)
		require.NoError(t, service.RecordAttempt(context.Background(), 4, "boom"))
		repoMock.AssertExpectations(t)
	})

	t.Run("repository failure", func(t *testing.T) {
		repoMock := new(mocks.SyncRepoMock)
		repoMock.On("RecordAttempt", mock.Anything, uint(4), "").
			Return(errors.New("connection reset"))

		service := NewSyncService(repoMock)
		err := service.RecordAttempt(context.Background(), 4, "")
		require.Error(t, err)

		var apiErr common.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	})
}

func TestSyncService_CompleteSync(t *testing.T) {
	t.Run("rejects invalid api data", func(t *testing.T) {
		repoMock := new(mocks.SyncRepoMock)
		service := NewSyncService(repoMock)

		err := service.CompleteSync(context.Background(), 5, datatypes.JSON(`{bad`))
		require.Error(t, err)

		var apiErr common.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.Status)
		repoMock.AssertNotCalled(t, "MarkCompleted")
	})

	t.Run("delegates to repository", func(t *testing.T) {
		apiData := datatypes.JSON(`{"remote_id":"r-5"}`)
		repoMock := new(mocks.SyncRepoMock)
		repoMock.On("MarkCompleted", mock.Anything, uint(5), apiData).Return(nil)

		service := NewSyncService(repoMock)
		require.NoError(t, service.CompleteSync(context.Background(), 5, apiData))
		repoMock.AssertExpectations(t)
	})
}
