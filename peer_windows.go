//go:build windows
// +build windows

package winepoll

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// afdProviderIDs are the Winsock provider GUIDs AFD poll can be issued
// against, mirroring wepoll's AFD_PROVIDER_IDS table: MSAFD TCP/IP,
// MSAFD TCP/IPv6, and the Hyper-V socket (AF_HYPERV) provider. This
// restores a dropped-feature detail the distilled spec left as "fixed
// small cardinality, typically 3" (SPEC_FULL.md §5.1) rather than naming
// the providers.
var afdProviderIDs = [3]windows.GUID{
	{Data1: 0xe70f1aa0, Data2: 0xab8b, Data3: 0x11cf, Data4: [8]byte{0x8c, 0xa3, 0x00, 0x80, 0x5f, 0x48, 0xa1, 0x92}},
	{Data1: 0xf9eab0c0, Data2: 0x26d4, Data3: 0x11d0, Data4: [8]byte{0xbb, 0xbf, 0x00, 0xaa, 0x00, 0x6c, 0x34, 0xe4}},
	{Data1: 0x99530c1a, Data2: 0xc1aa, Data3: 0x4dc2, Data4: [8]byte{0x89, 0x4e, 0xb9, 0x6e, 0x1e, 0xee, 0x99, 0x14}},
}

// wsaProtocolInfo mirrors WSAPROTOCOL_INFOW's fields this package actually
// needs (ProviderId, to pick a peer-socket slot; AddressFamily/SocketType/
// Protocol, to create one).
type wsaProtocolInfo struct {
	serviceFlags1  uint32
	serviceFlags2  uint32
	serviceFlags3  uint32
	serviceFlags4  uint32
	providerFlags  uint32
	providerID     windows.GUID
	catalogEntry   uint32
	protocolChain  [32]byte // opaque for our purposes (WSAPROTOCOLCHAIN: int32 + 7 uint32)
	version        int32
	addressFamily  int32
	maxSockAddr    int32
	minSockAddr    int32
	socketType     int32
	protocol       int32
	protoMaxOff    int32
	netByteOrder   int32
	securityScheme int32
	messageSize    uint32
	reserved       uint32
	protocolName   [256]uint16
}

var (
	ws2_32          = windows.NewLazySystemDLL("ws2_32.dll")
	procGetsockopt  = ws2_32.NewProc("getsockopt")
	procWSAIoctl    = ws2_32.NewProc("WSAIoctl")
	procWSASocketW  = ws2_32.NewProc("WSASocketW")
	procClosesocket = ws2_32.NewProc("closesocket")
)

const (
	solSocket       = 0xffff
	soProtocolInfoW = 0x2005     // SO_PROTOCOL_INFOW
	sioBaseHandle   = 0x48000022 // SIO_BASE_HANDLE

	wsaFlagOverlapped = 0x01
)

// queryProtocolInfo issues getsockopt(SOL_SOCKET, SO_PROTOCOL_INFOW),
// mirroring original_source/src/epoll.c's epoll_ctl(ADD) call.
func queryProtocolInfo(sock Socket) (wsaProtocolInfo, error) {
	var info wsaProtocolInfo
	size := int32(unsafe.Sizeof(info))
	r1, _, e1 := procGetsockopt.Call(
		uintptr(sock),
		uintptr(solSocket),
		uintptr(soProtocolInfoW),
		uintptr(unsafe.Pointer(&info)),
		uintptr(unsafe.Pointer(&size)),
	)
	if r1 != 0 {
		return wsaProtocolInfo{}, e1
	}
	return info, nil
}

// resolveBaseSocket implements spec.md §9 Open Question (c): unwrap a
// layered Winsock provider via SIO_BASE_HANDLE, falling back to sock
// itself when the provider doesn't support the ioctl (matching real
// wepoll's eventual fix; original_source/src/epoll.c left this a TODO that
// just returned sock).
func resolveBaseSocket(sock Socket) Socket {
	var base windows.Handle
	var bytesReturned uint32
	r1, _, _ := procWSAIoctl.Call(
		uintptr(sock),
		uintptr(sioBaseHandle),
		0, 0,
		uintptr(unsafe.Pointer(&base)),
		uintptr(unsafe.Sizeof(base)),
		uintptr(unsafe.Pointer(&bytesReturned)),
		0, 0,
	)
	if r1 != 0 || base == 0 {
		return sock
	}
	return Socket(base)
}

// providerIndex returns the index into afdProviderIDs matching id, or -1.
func providerIndex(id windows.GUID) int {
	for i, known := range afdProviderIDs {
		if known == id {
			return i
		}
	}
	return -1
}

// peerCache is the helper-socket cache (spec.md §4.4): one slot per known
// provider, a slot transitioning {absent -> valid} or {absent ->
// failed-sticky} exactly once, grounded on
// original_source/src/epoll.c's port_data->peer_sockets array and its
// 0/failed/valid tri-state (preserved per spec.md §9: "a reimplementation
// should preserve that distinction to avoid retrying expensive protocol
// lookups").
type peerCache struct {
	iocp    windows.Handle
	sockets [len(afdProviderIDs)]Socket
	failed  [len(afdProviderIDs)]bool
}

const peerSentinelKey = 0xE9011 // arbitrary, matches original_source's EPOLL_KEY

func newPeerCache(iocp windows.Handle) *peerCache {
	return &peerCache{iocp: iocp}
}

func (c *peerCache) get(providerID int, info wsaProtocolInfo) (Socket, error) {
	if providerID < 0 || providerID >= len(c.sockets) {
		return 0, ErrUnsupportedProvider
	}
	if c.failed[providerID] {
		return 0, ErrUnsupportedProvider
	}
	if c.sockets[providerID] != 0 {
		return c.sockets[providerID], nil
	}
	sock, err := createPeerSocket(c.iocp, info)
	if err != nil {
		c.failed[providerID] = true
		return 0, err
	}
	c.sockets[providerID] = sock
	return sock, nil
}

func (c *peerCache) closeAll() {
	for i, s := range c.sockets {
		if s != 0 {
			procClosesocket.Call(uintptr(s))
			c.sockets[i] = 0
		}
	}
}

// createPeerSocket creates a new overlapped socket of info's provider,
// marks it non-inheritable, and binds it to iocp with the sentinel
// completion key, mirroring epoll__create_peer_socket.
func createPeerSocket(iocp windows.Handle, info wsaProtocolInfo) (Socket, error) {
	r1, _, e1 := procWSASocketW.Call(
		uintptr(info.addressFamily),
		uintptr(info.socketType),
		uintptr(info.protocol),
		uintptr(unsafe.Pointer(&info)),
		0,
		uintptr(wsaFlagOverlapped),
	)
	sock := windows.Handle(r1)
	if sock == windows.InvalidHandle {
		return 0, e1
	}

	if err := windows.SetHandleInformation(sock, windows.HANDLE_FLAG_INHERIT, 0); err != nil {
		procClosesocket.Call(uintptr(sock))
		return 0, err
	}

	if _, err := windows.CreateIoCompletionPort(sock, iocp, peerSentinelKey, 0); err != nil {
		procClosesocket.Call(uintptr(sock))
		return 0, err
	}

	return Socket(sock), nil
}
