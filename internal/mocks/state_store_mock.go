package mocks

import (
	"story-bot/internal/state"

	"github.com/stretchr/testify/mock"
)

// MockStateStore is a mock type for the StateStore type
type MockStateStore struct {
	mock.Mock
}

// Load provides a mock function with no fields
func (_m *MockStateStore) Load() (*state.StoryState, error) {
	ret := _m.Called()

	var r0 *state.StoryState
	if rf, ok := ret.Get(0).(func() *state.StoryState); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*state.StoryState)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func() error); ok {
		r1 = rf()
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Save provides a mock function with given fields: st
func (_m *MockStateStore) Save(st *state.StoryState) error {
	ret := _m.Called(st)

	var r0 error
	if rf, ok := ret.Get(0).(func(*state.StoryState) error); ok {
		r0 = rf(st)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockStateStore creates a new instance of MockStateStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStateStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStateStore {
	m := &MockStateStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
