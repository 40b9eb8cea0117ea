//go:build windows
// +build windows

package winepoll

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// afdPollHandleInfo mirrors one entry of AFD_POLL_INFO.Handles[] from
// msafd.h/afd.h (undocumented). Only a single handle is ever used, per
// spec.md's "can wait on a single socket for a bitmask of driver-level
// events".
type afdPollHandleInfo struct {
	Handle windows.Handle
	Events uint32
	Status uint32 // NTSTATUS, filled in by the driver on completion
}

// afdPollInfo mirrors AFD_POLL_INFO, the IOCTL_AFD_POLL input/output
// buffer.
type afdPollInfo struct {
	Timeout        int64
	NumberOfHandles uint32
	Exclusive       uint32 // BOOLEAN, widened for alignment
	Handles         [1]afdPollHandleInfo
}

// ioctlAfdPoll is IOCTL_AFD_POLL's control code, as published by the
// wepoll/libuv projects that reverse-engineered \Device\Afd. It is a plain
// constant (no Windows API call), like the afdMask bits in afdmask.go.
const ioctlAfdPoll = 0x00012024

// nativeOp is the real, Windows-shaped payload behind operation.native: an
// overlapped header the kernel owns until completion, plus the poll
// request it was submitted with, plus a back-pointer to the engine-level
// operation so winDriver.wait can recover it from a bare
// *windows.Overlapped the way original_source/src/epoll.c's
// CONTAINING_RECORD macro does in C (here, a plain field instead of
// pointer arithmetic, since overlapped is nativeOp's first field and Go
// guarantees no reordering of struct fields).
type nativeOp struct {
	overlapped windows.Overlapped
	pollInfo   afdPollInfo
	engineOp   *operation
}

// submitAFDPoll issues an exclusive IOCTL_AFD_POLL against peerSock,
// watching baseSock for mask, reusing the native payload n (allocated by
// winDriver.submit). Mirrors epoll__submit_poll_op in original_source/src/epoll.c.
// n.engineOp.generation is set by the caller (Port.submit) before this runs
// and is not touched here; the AFD request itself carries no generation.
func submitAFDPoll(n *nativeOp, peerSock, baseSock Socket, mask driverMask) error {
	n.overlapped = windows.Overlapped{}
	n.pollInfo = afdPollInfo{
		Timeout:         1<<63 - 1, // INT64_MAX: the AFD request itself never times out
		NumberOfHandles: 1,
		Exclusive:       1,
	}
	n.pollInfo.Handles[0] = afdPollHandleInfo{
		Handle: windows.Handle(baseSock),
		Events: uint32(mask),
	}

	var bytesReturned uint32
	err := windows.DeviceIoControl(
		windows.Handle(peerSock),
		ioctlAfdPoll,
		(*byte)(unsafe.Pointer(&n.pollInfo)),
		uint32(unsafe.Sizeof(n.pollInfo)),
		(*byte)(unsafe.Pointer(&n.pollInfo)),
		uint32(unsafe.Sizeof(n.pollInfo)),
		&bytesReturned,
		&n.overlapped,
	)
	if err != nil && err != windows.ERROR_IO_PENDING {
		return err
	}
	return nil
}

// nativeOpFromOverlapped recovers the *nativeOp (and thence the engine
// *operation) that a completion's *windows.Overlapped belongs to.
func nativeOpFromOverlapped(ov *windows.Overlapped) *nativeOp {
	return (*nativeOp)(unsafe.Pointer(ov))
}
