package winepoll

import (
	"reflect"
	"time"

	"go.uber.org/mock/gomock"
)

// MockDriver is a hand-written gomock-style mock of the driver interface,
// following the shape go.uber.org/mock/mockgen would generate (see the
// teacher's own generated mocks under internal/.../mocks); hand-authored
// here since mockgen itself cannot run in this environment.
type MockDriver struct {
	ctrl     *gomock.Controller
	recorder *MockDriverRecorder
}

type MockDriverRecorder struct {
	mock *MockDriver
}

func NewMockDriver(ctrl *gomock.Controller) *MockDriver {
	m := &MockDriver{ctrl: ctrl}
	m.recorder = &MockDriverRecorder{mock: m}
	return m
}

func (m *MockDriver) EXPECT() *MockDriverRecorder {
	return m.recorder
}

func (m *MockDriver) protocolProvider(sock Socket) (int, Socket, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "protocolProvider", sock)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(Socket)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

func (mr *MockDriverRecorder) protocolProvider(sock any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "protocolProvider", reflect.TypeOf((*MockDriver)(nil).protocolProvider), sock)
}

func (m *MockDriver) peerSocket(providerID int) (Socket, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "peerSocket", providerID)
	ret0, _ := ret[0].(Socket)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockDriverRecorder) peerSocket(providerID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "peerSocket", reflect.TypeOf((*MockDriver)(nil).peerSocket), providerID)
}

func (m *MockDriver) submit(op *operation, baseSock, peerSock Socket, mask driverMask) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "submit", op, baseSock, peerSock, mask)
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockDriverRecorder) submit(op, baseSock, peerSock, mask any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "submit", reflect.TypeOf((*MockDriver)(nil).submit), op, baseSock, peerSock, mask)
}

func (m *MockDriver) wait(maxEvents int, timeout time.Duration) ([]completion, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "wait", maxEvents, timeout)
	ret0, _ := ret[0].([]completion)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockDriverRecorder) wait(maxEvents, timeout any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "wait", reflect.TypeOf((*MockDriver)(nil).wait), maxEvents, timeout)
}

func (m *MockDriver) closePeers() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "closePeers")
}

func (mr *MockDriverRecorder) closePeers() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "closePeers", reflect.TypeOf((*MockDriver)(nil).closePeers))
}

func (m *MockDriver) close() error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "close")
	ret0, _ := ret[0].(error)
	return ret0
}

func (mr *MockDriverRecorder) close() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "close", reflect.TypeOf((*MockDriver)(nil).close))
}
