package winepoll

import "errors"

// Sentinel errors returned synchronously by the caller-facing operations.
// Grounded on the asyncio package's own errors.New(...) style rather than
// the repo-wide category-coded error framework, which that package never
// reaches for either (see DESIGN.md).
var (
	// ErrExists is returned by Add when the socket is already registered.
	ErrExists = errors.New("winepoll: socket already registered")

	// ErrNotFound is returned by Modify/Delete when the socket is not
	// registered.
	ErrNotFound = errors.New("winepoll: socket not registered")

	// ErrUnsupportedProvider is returned by Add when the socket's Winsock
	// provider has no known AFD-capable helper-socket mapping.
	ErrUnsupportedProvider = errors.New("winepoll: unsupported socket provider")

	// ErrClosed is returned by Add, Modify, Delete and Wait on a Port after
	// Close. A repeated Close returns nil.
	ErrClosed = errors.New("winepoll: port is closed")

	// ErrUnsupportedPlatform is returned by Create on platforms other than
	// Windows, where no AFD/IOCP implementation exists.
	ErrUnsupportedPlatform = errors.New("winepoll: unsupported platform")
)
