package mocks

import (
	"context"

	"courtflow/internal/model"
	"courtflow/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockNewsRepository struct {
	mock.Mock
}

func (m *MockNewsRepository) Create(ctx context.Context, n *model.NewsItem, rec *model.HistoryRecord) (*model.NewsItem, error) {
	args := m.Called(ctx, n, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsItem), args.Error(1)
}

func (m *MockNewsRepository) FindByID(ctx context.Context, id string) (*model.NewsItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsItem), args.Error(1)
}

func (m *MockNewsRepository) Save(ctx context.Context, n *model.NewsItem, rec *model.HistoryRecord) (*model.NewsItem, error) {
	args := m.Called(ctx, n, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsItem), args.Error(1)
}

func (m *MockNewsRepository) List(ctx context.Context, f repository.NewsFilter, pq repository.PageQuery) (*repository.PageResult[model.NewsItem], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.NewsItem]), args.Error(1)
}

func (m *MockNewsRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNewsRepository) History(ctx context.Context, id string) ([]model.HistoryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryRecord), args.Error(1)
}
