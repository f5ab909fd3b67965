package downloader

// reorder buffers out-of-order outcomes and emits the longest
// contiguous prefix in index order after each insertion.
type reorder struct {
	emit    func(Outcome)
	pending map[int]Outcome
	next    int
}

func newReorder(emit func(Outcome)) *reorder {
	return &reorder{
		emit:    emit,
		pending: make(map[int]Outcome),
	}
}

// add inserts one outcome and flushes every buffered outcome up to the
// first gap in the index sequence.
func (r *reorder) add(out Outcome) {
	r.pending[out.Index] = out
	for {
		head, ok := r.pending[r.next]
		if !ok {
			return
		}
		delete(r.pending, r.next)
		r.next++
		r.emit(head)
	}
}
