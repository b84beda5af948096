package mocks

import (
	"context"

	"story-bot/internal/generator"

	"github.com/stretchr/testify/mock"
)

// MockAIClient is a mock type for the AIClient type
type MockAIClient struct {
	mock.Mock
}

// GenerateContinuation provides a mock function with given fields: ctx, currentStory, winner
func (_m *MockAIClient) GenerateContinuation(ctx context.Context, currentStory string, winner string) (*generator.Continuation, error) {
	ret := _m.Called(ctx, currentStory, winner)

	var r0 *generator.Continuation
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *generator.Continuation); ok {
		r0 = rf(ctx, currentStory, winner)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*generator.Continuation)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, currentStory, winner)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GenerateOptions provides a mock function with given fields: ctx, currentStory
func (_m *MockAIClient) GenerateOptions(ctx context.Context, currentStory string) ([]string, error) {
	ret := _m.Called(ctx, currentStory)

	var r0 []string
	if rf, ok := ret.Get(0).(func(context.Context, string) []string); ok {
		r0 = rf(ctx, currentStory)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]string)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, currentStory)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockAIClient creates a new instance of MockAIClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockAIClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAIClient {
	m := &MockAIClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
