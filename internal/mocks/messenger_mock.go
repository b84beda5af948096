package mocks

import (
	"context"

	"story-bot/internal/telegram"

	"github.com/stretchr/testify/mock"
)

// MockMessenger is a mock type for the Messenger type
type MockMessenger struct {
	mock.Mock
}

// SendMessage provides a mock function with given fields: ctx, text
func (_m *MockMessenger) SendMessage(ctx context.Context, text string) (int, error) {
	ret := _m.Called(ctx, text)

	var r0 int
	if rf, ok := ret.Get(0).(func(context.Context, string) int); ok {
		r0 = rf(ctx, text)
	} else {
		r0 = ret.Get(0).(int)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, text)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// SendPoll provides a mock function with given fields: ctx, question, options
func (_m *MockMessenger) SendPoll(ctx context.Context, question string, options []string) (int, error) {
	ret := _m.Called(ctx, question, options)

	var r0 int
	if rf, ok := ret.Get(0).(func(context.Context, string, []string) int); ok {
		r0 = rf(ctx, question, options)
	} else {
		r0 = ret.Get(0).(int)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, []string) error); ok {
		r1 = rf(ctx, question, options)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// StopPoll provides a mock function with given fields: ctx, messageID
func (_m *MockMessenger) StopPoll(ctx context.Context, messageID int) (*telegram.Poll, error) {
	ret := _m.Called(ctx, messageID)

	var r0 *telegram.Poll
	if rf, ok := ret.Get(0).(func(context.Context, int) *telegram.Poll); ok {
		r0 = rf(ctx, messageID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*telegram.Poll)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int) error); ok {
		r1 = rf(ctx, messageID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockMessenger creates a new instance of MockMessenger. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockMessenger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockMessenger {
	m := &MockMessenger{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
