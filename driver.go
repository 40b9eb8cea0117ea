package winepoll

import "time"

// completion describes one dequeued driver completion, matching the fields
// the Port Engine needs out of an OVERLAPPED_ENTRY plus the AFD_POLL_INFO
// result (spec.md §4.3).
type completion struct {
	op      *operation
	ok      bool       // false if the overlapped completion status was a failure
	err     error      // non-nil when !ok
	events  driverMask // driver-level result events; meaningless when !ok
	handles int        // AFD_POLL_INFO.NumberOfHandles; 0 means the request was
	// superseded by a newer exclusive poll before it could report anything
}

// driver is the seam to every external collaborator spec.md §6 calls out:
// the function that issues a poll request against a helper socket, the
// completion-port primitive (create/associate/dequeue/close), and the
// socket-option query for protocol information. The Port Engine (port.go)
// only ever talks to this interface, never to golang.org/x/sys/windows
// directly, so it compiles and unit-tests on any platform; only the
// concrete Windows implementation (driver_windows.go) touches real
// syscalls.
//
// This generalizes the notifier seam the teacher sketches but never wires
// in (win_notifier_windows.go's winNotifier) into one the engine actually
// uses end to end.
type driver interface {
	// protocolProvider returns an implementation-defined identifier for
	// sock's Winsock provider, and the base socket the poll request must
	// actually be issued against after unwrapping any layered provider
	// (spec.md §9 note (c)).
	protocolProvider(sock Socket) (providerID int, baseSock Socket, err error)

	// peerSocket returns the cached helper socket for providerID, creating
	// and caching one on first use. A provider whose helper-socket
	// creation fails is poisoned for the driver's lifetime (spec.md §4.4).
	peerSocket(providerID int) (Socket, error)

	// submit (re)issues an exclusive poll request for op against baseSock
	// via peerSock for the given driver mask. op.generation is set by the
	// caller beforehand and is not modified here.
	// On success, op is now in flight and must not be reused until its
	// completion is dequeued.
	submit(op *operation, baseSock, peerSock Socket, mask driverMask) error

	// wait blocks for up to timeout (negative infinite, zero poll-only)
	// and returns up to maxEvents dequeued completions. An empty, nil-error
	// result means the wait timed out.
	wait(maxEvents int, timeout time.Duration) ([]completion, error)

	// closePeers closes every cached helper socket, forcing every
	// outstanding poll request issued through them to complete.
	closePeers()

	// close tears down the completion port itself. Only valid once every
	// in-flight operation has been drained (closePeers + wait until none
	// remain).
	close() error
}
