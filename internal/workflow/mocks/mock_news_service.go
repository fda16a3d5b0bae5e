package mocks

import (
	"context"

	"courtflow/internal/model"
	"courtflow/internal/visibility"
	"courtflow/internal/workflow"

	"github.com/stretchr/testify/mock"
)

type MockNewsService struct {
	mock.Mock
}

func (m *MockNewsService) Create(ctx context.Context, actor model.Actor, in workflow.CreateNewsInput) (*model.NewsItem, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsItem), args.Error(1)
}

func (m *MockNewsService) SubmitFromCourt(ctx context.Context, actor model.Actor, in workflow.CourtSubmissionInput) (*model.NewsItem, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsItem), args.Error(1)
}

func (m *MockNewsService) Update(ctx context.Context, actor model.Actor, id string, in workflow.UpdateNewsInput) (*model.NewsItem, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsItem), args.Error(1)
}

func (m *MockNewsService) Submit(ctx context.Context, actor model.Actor, id, comment string) (*model.NewsItem, error) {
	args := m.Called(ctx, actor, id, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsItem), args.Error(1)
}

func (m *MockNewsService) Approve(ctx context.Context, actor model.Actor, id, comment string) (*model.NewsItem, error) {
	args := m.Called(ctx, actor, id, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsItem), args.Error(1)
}

func (m *MockNewsService) Reject(ctx context.Context, actor model.Actor, id, reason string) (*model.NewsItem, error) {
	args := m.Called(ctx, actor, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NewsItem), args.Error(1)
}

func (m *MockNewsService) Delete(ctx context.Context, actor model.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockNewsService) Get(ctx context.Context, actor model.Actor, id string) (*visibility.NewsView, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*visibility.NewsView), args.Error(1)
}

func (m *MockNewsService) List(ctx context.Context, actor model.Actor, limit, offset int) (*workflow.NewsListResult, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workflow.NewsListResult), args.Error(1)
}

func (m *MockNewsService) History(ctx context.Context, actor model.Actor, id string) ([]model.HistoryRecord, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.HistoryRecord), args.Error(1)
}
