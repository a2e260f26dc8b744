// Package mocks holds testify mocks in the layout of mockery's testify
// template. Running mockery with .mockery.yaml regenerates this file.
package mocks

import (
	"github.com/devaccess/devaccess-go/pkg/transfer"
	mock "github.com/stretchr/testify/mock"
)

// NewMockHandle creates a new instance of MockHandle. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockHandle(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHandle {
	mock := &MockHandle{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}

// MockHandle is an autogenerated mock type for the Handle type
type MockHandle struct {
	mock.Mock
}

type MockHandle_Expecter struct {
	mock *mock.Mock
}

func (_m *MockHandle) EXPECT() *MockHandle_Expecter {
	return &MockHandle_Expecter{mock: &_m.Mock}
}

// ReplaceTransferElement provides a mock function for the type MockHandle
func (_mock *MockHandle) ReplaceTransferElement(e transfer.Element) bool {
	ret := _mock.Called(e)

	if len(ret) == 0 {
		panic("no return value specified for ReplaceTransferElement")
	}

	var r0 bool
	if returnFunc, ok := ret.Get(0).(func(transfer.Element) bool); ok {
		r0 = returnFunc(e)
	} else {
		r0 = ret.Get(0).(bool)
	}
	return r0
}

// MockHandle_ReplaceTransferElement_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'ReplaceTransferElement'
type MockHandle_ReplaceTransferElement_Call struct {
	*mock.Call
}

// ReplaceTransferElement is a helper method to define mock.On call
//   - e transfer.Element
func (_e *MockHandle_Expecter) ReplaceTransferElement(e interface{}) *MockHandle_ReplaceTransferElement_Call {
	return &MockHandle_ReplaceTransferElement_Call{Call: _e.mock.On("ReplaceTransferElement", e)}
}

func (_c *MockHandle_ReplaceTransferElement_Call) Run(run func(e transfer.Element)) *MockHandle_ReplaceTransferElement_Call {
	_c.Call.Run(func(args mock.Arguments) {
		var arg0 transfer.Element
		if args[0] != nil {
			arg0 = args[0].(transfer.Element)
		}
		run(
			arg0,
		)
	})
	return _c
}

func (_c *MockHandle_ReplaceTransferElement_Call) Return(b bool) *MockHandle_ReplaceTransferElement_Call {
	_c.Call.Return(b)
	return _c
}

func (_c *MockHandle_ReplaceTransferElement_Call) RunAndReturn(run func(e transfer.Element) bool) *MockHandle_ReplaceTransferElement_Call {
	_c.Call.Return(run)
	return _c
}

// TransferElement provides a mock function for the type MockHandle
func (_mock *MockHandle) TransferElement() transfer.Element {
	ret := _mock.Called()

	if len(ret) == 0 {
		panic("no return value specified for TransferElement")
	}

	var r0 transfer.Element
	if returnFunc, ok := ret.Get(0).(func() transfer.Element); ok {
		r0 = returnFunc()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(transfer.Element)
		}
	}
	return r0
}

// MockHandle_TransferElement_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'TransferElement'
type MockHandle_TransferElement_Call struct {
	*mock.Call
}

// TransferElement is a helper method to define mock.On call
func (_e *MockHandle_Expecter) TransferElement() *MockHandle_TransferElement_Call {
	return &MockHandle_TransferElement_Call{Call: _e.mock.On("TransferElement")}
}

func (_c *MockHandle_TransferElement_Call) Run(run func()) *MockHandle_TransferElement_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockHandle_TransferElement_Call) Return(element transfer.Element) *MockHandle_TransferElement_Call {
	_c.Call.Return(element)
	return _c
}

func (_c *MockHandle_TransferElement_Call) RunAndReturn(run func() transfer.Element) *MockHandle_TransferElement_Call {
	_c.Call.Return(run)
	return _c
}
