package mocks

import (
	"context"

	"nissanscraper/internal/model"
	"nissanscraper/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Upsert(ctx context.Context, vehicles []model.Vehicle) error {
	args := m.Called(ctx, vehicles)
	return args.Error(0)
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) List(ctx context.Context, f repository.VehicleFilter, pq repository.PageQuery) (*repository.PageResult[model.Vehicle], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Vehicle]), args.Error(1)
}

func (m *MockVehicleRepository) ListModels(ctx context.Context) ([]model.ModelSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ModelSummary), args.Error(1)
}
