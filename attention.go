package winepoll

// attentionList is the intrusive doubly-linked list of registrations whose
// registered mask differs from their submitted mask (spec.md §3's
// attn_in/attn_prev/attn_next invariants). Grounded directly on
// original_source/src/epoll.c's epoll_sock_data_s list fields and the
// pointer surgery in epoll_ctl/epoll_wait; Go has no macros, so that inline
// surgery becomes three small methods instead.
//
// No third-party container is used here: an intrusive, non-allocating list
// is a data-structure choice the spec makes explicitly (§9, "required
// because modify may be invoked many times between waits") and no library
// in the retrieval pack offers an intrusive list — container/list would
// allocate a node per entry, defeating the point.
type attentionList struct {
	head *registration
}

// push appends reg to the front of the list if it is not already a member.
// Idempotent, as spec.md's Modify requires ("append to the attention list
// if not already present").
func (l *attentionList) push(reg *registration) {
	if reg.attnIn {
		return
	}
	reg.attnIn = true
	reg.attnPrev = nil
	reg.attnNext = l.head
	if l.head != nil {
		l.head.attnPrev = reg
	}
	l.head = reg
}

// remove unlinks reg from the list; a no-op if reg is not a member.
func (l *attentionList) remove(reg *registration) {
	if !reg.attnIn {
		return
	}
	if reg.attnPrev != nil {
		reg.attnPrev.attnNext = reg.attnNext
	}
	if reg.attnNext != nil {
		reg.attnNext.attnPrev = reg.attnPrev
	}
	if l.head == reg {
		l.head = reg.attnNext
	}
	reg.attnIn = false
	reg.attnPrev = nil
	reg.attnNext = nil
}

// drain removes and returns every member, front to back, leaving the list
// empty. Wait's drain-then-submit phase (spec.md §4.1 step 1) consumes the
// list this way.
func (l *attentionList) drain() []*registration {
	var out []*registration
	for reg := l.head; reg != nil; {
		next := reg.attnNext
		reg.attnIn = false
		reg.attnPrev = nil
		reg.attnNext = nil
		out = append(out, reg)
		reg = next
	}
	l.head = nil
	return out
}

func (l *attentionList) empty() bool {
	return l.head == nil
}

func (l *attentionList) len() int {
	n := 0
	for reg := l.head; reg != nil; reg = reg.attnNext {
		n++
	}
	return n
}
