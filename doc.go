// Package winepoll implements a readiness-based socket polling engine for
// Windows that emulates Linux epoll semantics on top of an I/O completion
// port and the undocumented AFD poll request.
//
// A Port batches socket registrations (Add/Modify/Delete) and reports
// readiness through Wait, one-shot or level-triggered, the same way an
// epoll instance would. The engine is the only thing this package
// implements; the driver seam (driver.go) hides every Windows-specific
// syscall so the core logic in port.go stays readable and testable without
// a real socket.
//
// A single Port must not be used concurrently from multiple goroutines;
// Add/Modify/Delete/Wait/Close are expected to be externally serialized by
// the caller, exactly like epoll_ctl/epoll_wait on a single epoll fd.
package winepoll
