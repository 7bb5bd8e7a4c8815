package models

import (
	"time"
)

// CSVHeader is the fixed column order of every exported CSV file.
var CSVHeader = []string{"timestamp", "actor", "action", "target", "detail"}

// AuditEvent represents a single audited action on the platform.
// Events are immutable once fetched; they live only for the duration
// of a run and are never persisted beyond the CSV files.
type AuditEvent struct {
	GUID      string    `json:"guid"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Detail    string    `json:"detail"`
}

// CSVRow returns the event's fields in CSVHeader order. Timestamps are
// rendered as RFC 3339 in UTC so same-day re-runs over an unchanged
// remote set produce byte-identical output.
func (e AuditEvent) CSVRow() []string {
	return []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Actor,
		e.Action,
		e.Target,
		e.Detail,
	}
}

// ExportBatch is the ordered sequence of audit events retrieved in one
// run. Ordering reflects retrieval order; no deduplication is applied.
type ExportBatch []AuditEvent

// Len returns the number of events in the batch
func (b ExportBatch) Len() int {
	return len(b)
}

// Window is a closed time interval [From, To] used to bound a fetch.
type Window struct {
	From time.Time
	To   time.Time
}

// LastDays returns the trailing window of n days ending at now.
func LastDays(now time.Time, n int) Window {
	return Window{
		From: now.AddDate(0, 0, -n),
		To:   now,
	}
}

// Contains reports whether t falls within the window (inclusive).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}
