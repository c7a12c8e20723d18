// Package history keeps a fixed-capacity in-memory log of completed
// calculations. Entries live only for the life of the process.
package history

import (
	"time"

	"exactcalc/internal/rational"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 100

// Entry is one completed calculation.
type Entry struct {
	Expression string
	Result     rational.Number
	At         time.Time
}

// Log is a bounded append-only log. It is not safe for concurrent use; the
// owning session serializes access alongside its engine.
type Log struct {
	capacity int
	entries  []Entry // oldest first
}

// New returns an empty log holding at most capacity entries.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Append records e, trimming the oldest entry when the log is full.
func (l *Log) Append(e Entry) {
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.capacity-1]
	}
	l.entries = append(l.entries, e)
}

// Entries returns a newest-first copy of the log.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// At returns the entry at newest-first index i.
func (l *Log) At(i int) (Entry, bool) {
	if i < 0 || i >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1-i], true
}

// Len returns the number of stored entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Clear discards all entries.
func (l *Log) Clear() {
	l.entries = nil
}
