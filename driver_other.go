//go:build !windows
// +build !windows

package winepoll

// newDriver reports ErrUnsupportedPlatform everywhere but Windows; the
// AFD/IOCP mechanism this package wraps has no analogue elsewhere (use
// golang.org/x/sys/unix's epoll directly on Linux, or kqueue on BSD/Darwin).
func newDriver() (driver, error) {
	return nil, ErrUnsupportedPlatform
}
