package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"github.com/syncwell/pendingsync/internal/config"
	"github.com/syncwell/pendingsync/internal/models"
)

type SyncRepoMock struct {
	mock.Mock
}

func (m *SyncRepoMock) Create(ctx context.Context, sync *models.PendingSync) error {
	args := m.Called(ctx, sync)
	return args.Error(0)
}

func (m *SyncRepoMock) Get(ctx context.Context, id uint) (*models.PendingSync, error) {
	args := m.Called(ctx, id)

	sync, _ := args.Get(0).(*models.PendingSync)
	return sync, args.Error(1)
}

func (m *SyncRepoMock) GetByTransactionID(ctx context.Context, txID string) (*models.PendingSync, error) {
	args := m.Called(ctx, txID)

	sync, _ := args.Get(0).(*models.PendingSync)
	return sync, args.Error(1)
}

func (m *SyncRepoMock) ListByStatus(ctx context.Context, status config.SyncStatus, limit int) ([]models.PendingSync, error) {
	args := m.Called(ctx, status, limit)

	syncs, _ := args.Get(0).([]models.PendingSync)
	return syncs, args.Error(1)
}

func (m *SyncRepoMock) UpdateStatus(ctx context.Context, id uint, status config.SyncStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *SyncRepoMock) RecordAttempt(ctx context.Context, id uint, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}

func (m *SyncRepoMock) MarkCompleted(ctx context.Context, id uint, apiData datatypes.JSON) error {
	args := m.Called(ctx, id, apiData)
	return args.Error(0)
}
