package chat

import (
	"context"

	"github.com/parenthaven/backend/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockRetriever mocks retrieval.Retriever
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Search(ctx context.Context, query string, topK int) ([]string, error) {
	args := m.Called(ctx, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockProvider mocks llm.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) AvailableModels() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockProvider) DefaultModel() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockProvider) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockProvider) Complete(ctx context.Context, prompt, model string) (*llm.Response, error) {
	args := m.Called(ctx, prompt, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}
