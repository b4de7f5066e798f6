package mocks

import (
	"context"

	"medtracker/internal/model"
	"medtracker/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) FindByID(ctx context.Context, id int64, opts repository.FindOptions) (*model.Assignment, error) {
	args := m.Called(ctx, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) List(ctx context.Context, opts repository.FindOptions) ([]model.Assignment, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, a *model.Assignment) (*model.Assignment, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentRepository) DeleteByPatientID(ctx context.Context, patientID int64) (int64, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) DeleteByMedicationID(ctx context.Context, medicationID int64) (int64, error) {
	args := m.Called(ctx, medicationID)
	return args.Get(0).(int64), args.Error(1)
}
