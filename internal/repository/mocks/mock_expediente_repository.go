package mocks

import (
	"context"

	"courtflow/internal/model"
	"courtflow/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockExpedienteRepository struct {
	mock.Mock
}

func (m *MockExpedienteRepository) Create(ctx context.Context, e *model.Expediente) (*model.Expediente, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expediente), args.Error(1)
}

func (m *MockExpedienteRepository) FindByID(ctx context.Context, id string) (*model.Expediente, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expediente), args.Error(1)
}

func (m *MockExpedienteRepository) Save(ctx context.Context, e *model.Expediente, rec *model.HistoryRecord) (*model.Expediente, error) {
	args := m.Called(ctx, e, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expediente), args.Error(1)
}

func (m *MockExpedienteRepository) List(ctx context.Context, f repository.ExpedienteFilter, pq repository.PageQuery) (*repository.PageResult[model.Expediente], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Expediente]), args.Error(1)
}

func (m *MockExpedienteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockExpedienteRepository) History(ctx context.Context, id string) ([]model.HistoryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryRecord), args.Error(1)
}

func (m *MockExpedienteRepository) NextCaseSequence(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
