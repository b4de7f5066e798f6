package mocks

import (
	"context"

	"medtracker/internal/model"
	"medtracker/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockMedicationService struct {
	mock.Mock
}

func (m *MockMedicationService) Create(ctx context.Context, in service.CreateMedicationInput) (*model.Medication, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medication), args.Error(1)
}

func (m *MockMedicationService) List(ctx context.Context) ([]model.Medication, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medication), args.Error(1)
}

func (m *MockMedicationService) Get(ctx context.Context, id int64) (*model.Medication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medication), args.Error(1)
}

func (m *MockMedicationService) Update(ctx context.Context, id int64, in service.UpdateMedicationInput) (*model.Medication, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medication), args.Error(1)
}

func (m *MockMedicationService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
