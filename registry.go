package winepoll

// registration is the per-socket state kept by a Port, matching spec.md §3
// field for field. It is also the attention list's intrusive node (attn*
// fields) and the Operation Pool's cache slot (freeOp).
type registration struct {
	sock     Socket // user-visible handle; registry key
	baseSock Socket // handle the poll request is actually issued against
	peerSock Socket // helper socket used to issue the poll request

	events          EventMask // user-requested mask, always | mandatoryMask
	submittedEvents EventMask // mask currently known to the kernel; 0 if none in flight
	generation      uint64    // bumped on every submission; 0 means nothing pending

	userData uint64

	freeOp *operation // spare operation ready to reuse, nil if one is in flight

	tombstoned bool // set by Delete while an operation is still in flight

	// attention-list intrusive links.
	attnIn   bool
	attnPrev *registration
	attnNext *registration
}

// registry is the Socket Registry component (spec.md §3/§4.1): an ordered
// mapping keyed by socket handle. A Go map already gives O(1) keyed lookup
// without the original source's red-black tree, which that C
// implementation needed for a sorted container primitive the language
// provided, not because the spec requires sorted iteration (see
// DESIGN.md).
type registry struct {
	byHandle map[Socket]*registration
}

func newRegistry() *registry {
	return &registry{byHandle: make(map[Socket]*registration)}
}

func (r *registry) lookup(sock Socket) (*registration, bool) {
	reg, ok := r.byHandle[sock]
	return reg, ok
}

func (r *registry) insert(reg *registration) bool {
	if _, exists := r.byHandle[reg.sock]; exists {
		return false
	}
	r.byHandle[reg.sock] = reg
	return true
}

func (r *registry) remove(sock Socket) {
	delete(r.byHandle, sock)
}

func (r *registry) len() int {
	return len(r.byHandle)
}
