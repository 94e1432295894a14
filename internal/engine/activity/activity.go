// Package activity records a human-readable trail of gradebook mutations.
//
// The log only grows. Reads are newest first and always return copies.
package activity

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a single immutable log record.
type Entry struct {
	ID      uuid.UUID
	Time    time.Time
	Message string
}

// Log is an append-only activity log.
//
// Log is not safe for concurrent use.
type Log struct {
	// entries are stored oldest first; readers walk backwards.
	entries []Entry
	now     func() time.Time
}

// New creates an empty log.
func New() *Log {
	return &Log{now: time.Now}
}

// Record appends a message as the newest entry and returns it.
func (l *Log) Record(message string) Entry {
	e := Entry{
		ID:      uuid.New(),
		Time:    l.now(),
		Message: message,
	}
	l.entries = append(l.entries, e)
	return e
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Recent returns up to maxItems messages, newest first.
// A non-positive maxItems yields an empty, non-nil slice.
func (l *Log) Recent(maxItems int) []string {
	entries := l.Entries(maxItems)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

// Entries returns up to maxItems full entries, newest first.
func (l *Log) Entries(maxItems int) []Entry {
	n := min(max(maxItems, 0), len(l.entries))
	out := make([]Entry, n)
	for i := range n {
		out[i] = l.entries[len(l.entries)-1-i]
	}
	return out
}
