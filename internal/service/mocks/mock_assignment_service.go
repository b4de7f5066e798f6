package mocks

import (
	"context"

	"medtracker/internal/model"
	"medtracker/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) Create(ctx context.Context, in service.CreateAssignmentInput) (*model.Assignment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentService) List(ctx context.Context) ([]model.Assignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Assignment), args.Error(1)
}

func (m *MockAssignmentService) Get(ctx context.Context, id int64) (*model.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentService) Update(ctx context.Context, id int64, in service.UpdateAssignmentInput) (*model.Assignment, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentService) ListWithRemainingDays(ctx context.Context) ([]model.AssignmentWithRemainingDays, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AssignmentWithRemainingDays), args.Error(1)
}

func (m *MockAssignmentService) GetWithRemainingDays(ctx context.Context, id int64) (*model.AssignmentWithRemainingDays, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AssignmentWithRemainingDays), args.Error(1)
}

func (m *MockAssignmentService) RemainingDays(start model.Date, days int) int {
	args := m.Called(start, days)
	return args.Int(0)
}
