package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"github.com/syncwell/pendingsync/internal/dto"
)

type SyncServiceMock struct {
	mock.Mock
}

func (m *SyncServiceMock) CreateSync(ctx context.Context, req *dto.SyncCreateDTO) (*dto.SyncResponseDTO, error) {
	args := m.Called(ctx, req)

	resp, _ := args.Get(0).(*dto.SyncResponseDTO)
	return resp, args.Error(1)
}

func (m *SyncServiceMock) GetSyncByID(ctx context.Context, id uint) (*dto.SyncResponseDTO, error) {
	args := m.Called(ctx, id)

	resp, _ := args.Get(0).(*dto.SyncResponseDTO)
	return resp, args.Error(1)
}

func (m *SyncServiceMock) GetSyncByTransactionID(ctx context.Context, txID string) (*dto.SyncResponseDTO, error) {
	args := m.Called(ctx, txID)

	resp, _ := args.Get(0).(*dto.SyncResponseDTO)
	return resp, args.Error(1)
}

func (m *SyncServiceMock) ListSyncs(ctx context.Context, status string, limit int) ([]dto.SyncResponseDTO, error) {
	args := m.Called(ctx, status, limit)

	syncs, _ := args.Get(0).([]dto.SyncResponseDTO)
	return syncs, args.Error(1)
}

func (m *SyncServiceMock) UpdateStatus(ctx context.Context, id uint, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *SyncServiceMock) RecordAttempt(ctx context.Context, id uint, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}

func (m *SyncServiceMock) CompleteSync(ctx context.Context, id uint, apiData datatypes.JSON) error {
	args := m.Called(ctx, id, apiData)
	return args.Error(0)
}
