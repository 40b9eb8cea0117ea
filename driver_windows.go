//go:build windows
// +build windows

package winepoll

import (
	"time"

	"golang.org/x/sys/windows"
)

// afHyperV is AF_HYPERV, the address family for Hyper-V socket (utility
// VM) connections; golang.org/x/sys/windows does not export it since it
// predates that provider's adoption in the package.
const afHyperV = 34

// winDriver is the real driver implementation, grounded on
// iocp_experimental_windows.go's direct golang.org/x/sys/windows calls
// (CreateIoCompletionPort, GetQueuedCompletionStatus-family,
// CancelIoEx-on-teardown) and on original_source/src/epoll.c's
// epoll_create/epoll__submit_poll_op/epoll_wait/epoll_close for the exact
// AFD/IOCP protocol.
type winDriver struct {
	iocp  windows.Handle
	peers *peerCache
}

func newDriver() (driver, error) {
	iocp, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, 0)
	if err != nil {
		return nil, err
	}
	return &winDriver{iocp: iocp, peers: newPeerCache(iocp)}, nil
}

func (d *winDriver) protocolProvider(sock Socket) (int, Socket, error) {
	info, err := queryProtocolInfo(sock)
	if err != nil {
		return 0, 0, err
	}
	idx := providerIndex(info.providerID)
	if idx < 0 {
		return 0, 0, ErrUnsupportedProvider
	}
	base := resolveBaseSocket(sock)
	return idx, base, nil
}

func (d *winDriver) peerSocket(providerID int) (Socket, error) {
	// The cache needs the protocol info associated with providerID to
	// create a fresh peer socket; since callers always resolve
	// protocolProvider immediately before peerSocket (see Port.Add), we
	// re-derive it from the provider table rather than threading the
	// WSAPROTOCOL_INFOW struct through the driver interface, keeping the
	// interface itself free of Windows-shaped types.
	info := wsaProtocolInfo{providerID: afdProviderIDs[providerID]}
	// AF_INET/SOCK_STREAM/IPPROTO_TCP defaults suffice for the providers
	// this table lists (TCP/IP, TCP/IPv6, Hyper-V stream sockets); a
	// provider needing different socket parameters would fail
	// WSASocketW and poison its slot, which is the correct, documented
	// behavior for an unsupported provider (spec.md §4.4).
	switch providerID {
	case 0: // MSAFD Tcpip [TCP/IP]
		info.addressFamily, info.socketType, info.protocol = windows.AF_INET, windows.SOCK_STREAM, windows.IPPROTO_TCP
	case 1: // MSAFD Tcpip [TCP/IPv6]
		info.addressFamily, info.socketType, info.protocol = windows.AF_INET6, windows.SOCK_STREAM, windows.IPPROTO_TCP
	default: // Hyper-V socket
		info.addressFamily, info.socketType, info.protocol = afHyperV, windows.SOCK_STREAM, 1
	}
	return d.peers.get(providerID, info)
}

func (d *winDriver) submit(op *operation, baseSock, peerSock Socket, mask driverMask) error {
	n, ok := op.native.(*nativeOp)
	if !ok || n == nil {
		n = &nativeOp{}
		op.native = n
	}
	n.engineOp = op

	// op.generation is already set by Port.submit before this call; the
	// driver only ever reads it back out (via nativeOpFromOverlapped) on
	// completion, never assigns it.
	return submitAFDPoll(n, peerSock, baseSock, mask)
}

func (d *winDriver) wait(maxEvents int, timeout time.Duration) ([]completion, error) {
	if maxEvents <= 0 {
		maxEvents = 1
	}
	entries := make([]windows.OverlappedEntry, maxEvents)
	var count uint32

	waitMs := waitMillis(timeout)
	err := windows.GetQueuedCompletionStatusEx(d.iocp, entries, &count, waitMs, false)
	if err != nil {
		if err == windows.WAIT_TIMEOUT {
			return nil, nil
		}
		return nil, err
	}

	out := make([]completion, 0, count)
	for i := uint32(0); i < count; i++ {
		ov := entries[i].Overlapped
		n := nativeOpFromOverlapped(ov)
		op := n.engineOp

		success := ntSuccess(ov)

		c := completion{
			op:      op,
			ok:      success,
			handles: int(n.pollInfo.NumberOfHandles),
		}
		if success {
			if n.pollInfo.NumberOfHandles > 0 {
				c.events = driverMask(n.pollInfo.Handles[0].Events)
			}
		} else {
			c.err = windows.NTStatus(n.overlapped.Internal).Errno()
		}
		out = append(out, c)
	}
	return out, nil
}

func (d *winDriver) closePeers() {
	d.peers.closeAll()
}

func (d *winDriver) close() error {
	return windows.CloseHandle(d.iocp)
}

// waitMillis converts a Go timeout into the millisecond form
// GetQueuedCompletionStatusEx expects: negative -> INFINITE, 0 -> 0
// (poll-only), positive -> whole milliseconds (truncated, at least 1).
func waitMillis(timeout time.Duration) uint32 {
	if timeout < 0 {
		return windows.INFINITE
	}
	if timeout == 0 {
		return 0
	}
	ms := timeout.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	return uint32(ms)
}

// ntSuccess reports whether an OVERLAPPED's Internal field (an NTSTATUS)
// denotes success, mirroring original_source/src/epoll.c's
// NT_SUCCESS(overlapped->Internal) check.
func ntSuccess(ov *windows.Overlapped) bool {
	return windows.NTStatus(ov.Internal) == windows.STATUS_SUCCESS
}
