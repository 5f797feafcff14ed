// Package history keeps a bounded, newest-first record of executed swaps.
package history

import "github.com/ilyakhov/swapdesk/internal/domain"

// DefaultCap is the number of records kept when no explicit cap is configured.
const DefaultCap = 8

// Log is a bounded newest-first swap log. It is not safe for concurrent use;
// the swap executor serializes access behind its own lock.
type Log struct {
	cap     int
	records []domain.SwapRecord
}

// NewLog creates a log bounded to cap entries. Non-positive caps fall back
// to DefaultCap.
func NewLog(cap int) *Log {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &Log{cap: cap}
}

// Append prepends record and evicts the oldest entries beyond the cap.
func (l *Log) Append(record domain.SwapRecord) {
	l.records = append([]domain.SwapRecord{record}, l.records...)
	if len(l.records) > l.cap {
		l.records = l.records[:l.cap]
	}
}

// Records returns a copy of the log, newest first.
func (l *Log) Records() []domain.SwapRecord {
	out := make([]domain.SwapRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records currently retained.
func (l *Log) Len() int {
	return len(l.records)
}
