// Package debounce turns a stream of raw text edits into a low-frequency
// committed value using a trailing-edge quiet period.
//
// The buffer does not own a timer. Callers schedule the deferred settle
// themselves (tea.Tick in the TUI) and hand back the sequence number they
// were given; a settle for a superseded edit is ignored.
package debounce

import "time"

// DefaultDelay is the quiet period before a raw value is committed.
const DefaultDelay = 500 * time.Millisecond

// Buffer holds the raw and committed values of one text input.
type Buffer struct {
	Delay time.Duration

	raw       string
	committed string
	seq       uint64
}

// New returns a Buffer with the given quiet period, or DefaultDelay when delay is not positive.
func New(delay time.Duration) *Buffer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Buffer{Delay: delay}
}

// Set records a new raw value and returns the sequence number the pending
// settle must carry. changed is false when raw equals the previous raw value,
// in which case no new settle needs scheduling.
func (b *Buffer) Set(raw string) (seq uint64, changed bool) {
	if raw == b.raw {
		return b.seq, false
	}
	b.raw = raw
	b.seq++
	return b.seq, true
}

// Settle commits the raw value if seq is still the latest edit. ok is true
// only when the committed value actually changed.
func (b *Buffer) Settle(seq uint64) (committed string, ok bool) {
	if seq != b.seq {
		return b.committed, false
	}
	if b.raw == b.committed {
		return b.committed, false
	}
	b.committed = b.raw
	return b.committed, true
}

// Flush commits the raw value immediately, cancelling any pending settle.
func (b *Buffer) Flush() (committed string, ok bool) {
	b.seq++
	return b.Settle(b.seq)
}

// Pending reports whether a raw edit is waiting to settle.
func (b *Buffer) Pending() bool { return b.raw != b.committed }

func (b *Buffer) Raw() string       { return b.raw }
func (b *Buffer) Committed() string { return b.committed }
