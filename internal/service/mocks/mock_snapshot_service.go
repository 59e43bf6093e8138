package mocks

import (
	"context"
	"io"

	"nissanscraper/internal/model"
	"nissanscraper/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) List(ctx context.Context, limit, offset int) (*service.SnapshotListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SnapshotListResult), args.Error(1)
}

func (m *MockSnapshotService) Get(ctx context.Context, id string) (*service.SnapshotDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SnapshotDetail), args.Error(1)
}

func (m *MockSnapshotService) Open(ctx context.Context, id string) (io.ReadCloser, *model.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Snapshot), args.Error(2)
}

func (m *MockSnapshotService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
