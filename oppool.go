package winepoll

import "sync"

// operation is the Operation Pool's per-registration block (spec.md §3): a
// back-pointer to its owning registration, a snapshot of the generation it
// was submitted under, and an opaque slot the driver uses to hold the real
// OS-level overlapped/poll-request payload so it can be reused across
// submissions instead of reallocated (spec.md §9: "the source never freshly
// re-allocates the operation on modify after reusing free_op").
//
// generation is owned by the registration, not the operation: the monotonic
// counter lives on *registration (spec.md §3, "bumped on every submission")
// and Port.submit copies its current value here at submission time, exactly
// as original_source/src/epoll.c's `op->generation = ++sock_data->op_generation`
// does. Never bump operation.generation directly — that would let two
// independently-allocated operations for the same registration race back to
// the same value instead of one strictly exceeding the other.
//
// native is deliberately untyped here: the engine never inspects it, only
// the driver implementation does (a *nativeOp on Windows). Keeping it
// opaque is what lets this file, and the rest of the engine, compile and
// be unit-tested without golang.org/x/sys/windows.
type operation struct {
	reg        *registration
	generation uint64
	native     any
}

// opPool hands out *operation blocks, reusing the Go allocation (not the
// driver-owned native payload, which the driver itself recycles) the same
// way buffer_pool.go's BytePool reuses byte slices to cut GC pressure on a
// hot I/O path. A socket's operation is never shared across registrations,
// so a single unbounded sync.Pool (no size buckets) suffices here — the
// bucketing in BytePool exists to serve many distinct buffer sizes, which
// does not apply to a fixed-shape struct.
type opPool struct {
	pool sync.Pool
}

func newOpPool() *opPool {
	return &opPool{
		pool: sync.Pool{New: func() any { return &operation{} }},
	}
}

func (p *opPool) get(reg *registration) *operation {
	op := p.pool.Get().(*operation)
	op.reg = reg
	op.generation = 0
	return op
}

// put returns op to the pool. The caller must ensure no completion for op
// is still in flight with the kernel (spec.md §5: "the port must never free
// an operation while its overlapped is owned by the kernel").
func (p *opPool) put(op *operation) {
	op.reg = nil
	op.native = nil
	p.pool.Put(op)
}
