package winepoll

import (
	"sync/atomic"
	"time"
)

// Port is the Port Engine (spec.md §4.1): it owns the registry, the
// operation pool, the attention list, and the driver seam, and implements
// the caller-facing operations (Create is a package function; the add,
// modify and delete controls are the Add/Modify/Delete methods; Wait and
// Close round out the set).
//
// A Port is not safe for concurrent use: Add/Modify/Delete/Wait/Close must
// be externally serialized by the caller (spec.md §5), exactly like a
// single epoll fd. The only concurrent actor is the kernel, which owns
// in-flight operation memory until its completion is dequeued.
type Port struct {
	drv  driver
	regs *registry
	ops  *opPool
	attn attentionList

	pending int // in-flight operation count, mirrors pending_ops_count

	closed bool

	diag diagCounters
}

// Create allocates a Port Engine: a completion port bound to no handle, an
// empty helper-socket cache, and an empty registry (spec.md §4.1 Create).
func Create() (*Port, error) {
	drv, err := newDriver()
	if err != nil {
		return nil, err
	}
	return &Port{
		drv:  drv,
		regs: newRegistry(),
		ops:  newOpPool(),
	}, nil
}

// Add registers sock for the events in mask, echoing userData back on
// readiness. mask is always augmented with Err|Hup.
func (p *Port) Add(sock Socket, mask EventMask, userData uint64) error {
	if p.closed {
		return ErrClosed
	}
	providerID, baseSock, err := p.drv.protocolProvider(sock)
	if err != nil {
		return err
	}
	peerSock, err := p.drv.peerSocket(providerID)
	if err != nil {
		// peerSocket already returns ErrUnsupportedProvider itself for an
		// unknown or previously-poisoned provider slot; anything else is a
		// genuine OS failure (e.g. WSASocketW/CreateIoCompletionPort) during
		// first-time helper-socket creation and must reach the caller
		// unrewritten, per spec.md §7's "not-supported" vs. generic OS
		// failure distinction.
		return err
	}

	reg := &registration{
		sock:     sock,
		baseSock: baseSock,
		peerSock: peerSock,
		events:   mask | mandatoryMask,
		userData: userData,
	}
	reg.freeOp = p.ops.get(reg)

	if !p.regs.insert(reg) {
		p.ops.put(reg.freeOp)
		return ErrExists
	}
	p.attn.push(reg)
	return nil
}

// Modify updates sock's registered mask/userData. If the new mask adds bits
// the kernel doesn't yet know about, the registration is (re-)queued for
// submission on the next Wait, ensuring a spare operation is available
// first (spec.md §9 Open Question (b)).
func (p *Port) Modify(sock Socket, mask EventMask, userData uint64) error {
	if p.closed {
		return ErrClosed
	}
	reg, ok := p.regs.lookup(sock)
	if !ok {
		return ErrNotFound
	}

	newEvents := mask | mandatoryMask
	if newEvents&watchableMask&^reg.submittedEvents != 0 {
		if reg.freeOp == nil {
			reg.freeOp = p.ops.get(reg)
		}
		p.attn.push(reg)
	}
	reg.events = newEvents
	reg.userData = userData
	return nil
}

// Delete unregisters sock. If no operation is currently in flight for it,
// its memory is freed immediately; otherwise it is tombstoned and reclaimed
// when the pending completion is processed (spec.md §4.1 Delete).
func (p *Port) Delete(sock Socket) error {
	if p.closed {
		return ErrClosed
	}
	reg, ok := p.regs.lookup(sock)
	if !ok {
		return ErrNotFound
	}
	p.regs.remove(sock)
	p.attn.remove(reg)
	if reg.freeOp != nil {
		p.ops.put(reg.freeOp)
		reg.freeOp = nil
	}
	if reg.generation == 0 {
		// No operation in flight: free immediately. Nothing else to do.
		return nil
	}
	reg.tombstoned = true
	return nil
}

// Wait drains the attention list (submitting one poll request per pending
// registration), then blocks on the completion port for up to timeout,
// reporting up to len(out) ready events. timeout < 0 means infinite, 0
// means poll-only (spec.md §4.1 Wait).
func (p *Port) Wait(out []Event, timeout time.Duration) (int, error) {
	if p.closed {
		return 0, ErrClosed
	}
	if len(out) == 0 {
		return 0, nil
	}
	p.drainAttention()

	deadline, hasDeadline := p.deadline(timeout)
	remaining := timeout

	for {
		batch := maxBatch()
		if batch > len(out) {
			batch = len(out)
		}

		completions, err := p.drv.wait(batch, remaining)
		if err != nil {
			return 0, err
		}
		if len(completions) == 0 {
			return 0, nil
		}
		p.pending -= len(completions)

		n := p.processCompletions(completions, out)
		if n > 0 {
			return n, nil
		}
		if timeout == 0 {
			return 0, nil
		}
		if hasDeadline {
			remaining = time.Until(deadline)
			if remaining <= 0 {
				return 0, nil
			}
		}
	}
}

// Close forces every outstanding poll request to complete (by closing the
// helper sockets), drains the completion port until no operation remains
// in flight, then releases every registration and the completion port
// itself (spec.md §4.1 Close).
func (p *Port) Close() error {
	if p.closed {
		return nil
	}
	p.drv.closePeers()

	for p.pending > 0 {
		completions, err := p.drv.wait(maxBatch(), -1)
		if err != nil {
			return err
		}
		p.pending -= len(completions)
		for _, c := range completions {
			p.ops.put(c.op)
		}
	}

	for _, reg := range p.regs.byHandle {
		if reg.freeOp != nil {
			p.ops.put(reg.freeOp)
		}
	}
	p.regs = newRegistry()
	p.attn = attentionList{}

	p.closed = true
	return p.drv.close()
}

// drainAttention implements spec.md §4.1 Wait step 1: unlink every
// registration on the attention list and submit one poll request for each
// whose mask isn't fully covered yet. A registration whose submission fails
// is put back on the list.
func (p *Port) drainAttention() {
	for _, reg := range p.attn.drain() {
		if reg.events&watchableMask&^reg.submittedEvents != 0 {
			if err := p.submit(reg); err != nil {
				// Best effort: the failure is not returned and does not
				// abort the Wait. The registration is re-queued so the
				// next Wait retries the submission; no Err event is
				// reported for the failure.
				p.attn.push(reg)
				if diagnosticsEnabled() {
					atomic.AddUint64(&p.diag.submitFailures, 1)
				}
			}
		}
	}
}

// submit issues op against reg's base/peer socket for reg's currently
// registered events (spec.md §4.2). The registration owns the monotonic
// generation counter (spec.md §3/§9); the operation only ever carries a
// snapshot of it taken here, mirroring original_source/src/epoll.c's
// `op->generation = ++sock_data->op_generation` exactly — bumped before
// issuing the poll request, regardless of whether it then succeeds.
func (p *Port) submit(reg *registration) error {
	op := reg.freeOp
	mask := afdMaskForEvents(reg.events)
	reg.generation++
	op.generation = reg.generation
	if err := p.drv.submit(op, reg.baseSock, reg.peerSock, mask); err != nil {
		return err
	}
	reg.freeOp = nil
	reg.submittedEvents = reg.events & watchableMask
	p.pending++
	if diagnosticsEnabled() {
		p.diag.submissions++
	}
	return nil
}

// processCompletions applies spec.md §4.3 to each dequeued completion,
// appending reportable events to out, and returns how many were appended.
func (p *Port) processCompletions(completions []completion, out []Event) int {
	n := 0
	for _, c := range completions {
		op := c.op
		reg := op.reg

		// Step 1: stale-supersession check.
		if op.generation < reg.generation {
			p.ops.put(op)
			if diagnosticsEnabled() {
				p.diag.staleDiscards++
			}
			continue
		}

		// Step 2: this is the most recent op for reg.
		reg.generation = 0
		reg.submittedEvents = 0
		reg.freeOp = op

		// Step 3: tombstone check.
		if reg.tombstoned {
			p.ops.put(op)
			continue
		}

		// Step 4: status check.
		if !c.ok {
			out[n] = Event{UserData: reg.userData, Mask: Err}
			n++
			continue
		}

		// op.poll_info.NumberOfHandles == 0 means this request was
		// canceled by a more recent exclusive poll; treat as no events.
		afd := c.events
		if c.handles == 0 {
			afd = 0
		}

		// Step 5: local-close check.
		if afd&afdLocalClose != 0 {
			p.regs.remove(reg.sock)
			continue
		}

		// Step 6: event translation, masked by what the caller asked for.
		reported := readinessForAFD(afd) & reg.events

		// Step 7: re-arm unless one-shot fired and something was reported
		// (spec.md §9 Open Question (a)).
		rearm := !(reg.events&OneShot != 0 && reported != 0)
		if rearm {
			if reg.freeOp == nil {
				reg.freeOp = p.ops.get(reg)
			}
			p.attn.push(reg)
			if diagnosticsEnabled() {
				p.diag.rearms++
			}
		}

		// Step 8: emit.
		if reported != 0 {
			out[n] = Event{UserData: reg.userData, Mask: reported}
			n++
		}
	}
	return n
}

func (p *Port) deadline(timeout time.Duration) (time.Time, bool) {
	if timeout <= 0 {
		return time.Time{}, false
	}
	return time.Now().Add(timeout), true
}

// Stats returns a snapshot of the diagnostic counters described in
// SPEC_FULL.md §5.2. It is always safe to call. The Submissions,
// SubmitFailures, StaleDiscards and Rearms counters only accumulate when
// WINEPOLL_DIAG is enabled; AttentionLen and InFlight are always current.
func (p *Port) Stats() Stats {
	return Stats{
		Submissions:    p.diag.submissions,
		SubmitFailures: atomic.LoadUint64(&p.diag.submitFailures),
		StaleDiscards:  p.diag.staleDiscards,
		Rearms:         p.diag.rearms,
		AttentionLen:   p.attn.len(),
		InFlight:       p.pending,
	}
}
