package mocks

import (
	"context"

	"courtflow/internal/model"
	"courtflow/internal/visibility"
	"courtflow/internal/workflow"

	"github.com/stretchr/testify/mock"
)

type MockExpedienteService struct {
	mock.Mock
}

func (m *MockExpedienteService) Create(ctx context.Context, actor model.Actor, in workflow.CreateExpedienteInput) (*model.Expediente, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expediente), args.Error(1)
}

func (m *MockExpedienteService) Update(ctx context.Context, actor model.Actor, id string, in workflow.UpdateExpedienteInput) (*model.Expediente, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expediente), args.Error(1)
}

func (m *MockExpedienteService) Submit(ctx context.Context, actor model.Actor, id, comment string) (*model.Expediente, error) {
	args := m.Called(ctx, actor, id, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expediente), args.Error(1)
}

func (m *MockExpedienteService) Approve(ctx context.Context, actor model.Actor, id, comment string) (*model.Expediente, error) {
	args := m.Called(ctx, actor, id, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expediente), args.Error(1)
}

func (m *MockExpedienteService) Reject(ctx context.Context, actor model.Actor, id, reason string) (*model.Expediente, error) {
	args := m.Called(ctx, actor, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expediente), args.Error(1)
}

func (m *MockExpedienteService) Delete(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockExpedienteService) Get(ctx context.Context, actor model.Actor, id string) (*visibility.ExpedienteView, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*visibility.ExpedienteView), args.Error(1)
}

func (m *MockExpedienteService) List(ctx context.Context, actor model.Actor, limit, offset int) (*workflow.ExpedienteListResult, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.ExpedienteListResult), args.Error(1)
}

func (m *MockExpedienteService) History(ctx context.Context, actor model.Actor, id string) ([]model.HistoryRecord, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryRecord), args.Error(1)
}
