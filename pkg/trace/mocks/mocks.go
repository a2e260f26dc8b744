// Package mocks holds testify mocks in the layout of mockery's testify
// template. Running mockery with .mockery.yaml regenerates this file.
package mocks

import (
	"github.com/devaccess/devaccess-go/pkg/trace"
	mock "github.com/stretchr/testify/mock"
)

// NewMockLogger creates a new instance of MockLogger. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockLogger {
	mock := &MockLogger{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// MockLogger is an autogenerated mock type for the Logger type
type MockLogger struct {
	mock.Mock
}

type MockLogger_Expecter struct {
	mock *mock.Mock
}

func (_m *MockLogger) EXPECT() *MockLogger_Expecter {
	return &MockLogger_Expecter{mock: &_m.Mock}
}

// Log provides a mock function for the type MockLogger
func (_mock *MockLogger) Log(event trace.Event) {
	_mock.Called(event)
	return
}

// MockLogger_Log_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Log'
type MockLogger_Log_Call struct {
	*mock.Call
}

// Log is a helper method to define mock.On call
//   - event trace.Event
func (_e *MockLogger_Expecter) Log(event interface{}) *MockLogger_Log_Call {
	return &MockLogger_Log_Call{Call: _e.mock.On("Log", event)}
}

func (_c *MockLogger_Log_Call) Run(run func(event trace.Event)) *MockLogger_Log_Call {
	_c.Call.Run(func(args mock.Arguments) {
		var arg0 trace.Event
		if args[0] != nil {
			arg0 = args[0].(trace.Event)
		}
		run(
			arg0,
		)
	})
	return _c
}

func (_c *MockLogger_Log_Call) Return() *MockLogger_Log_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockLogger_Log_Call) RunAndReturn(run func(event trace.Event)) *MockLogger_Log_Call {
	_c.Run(run)
	return _c
}
