package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuditEvent_CSVRow(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	event := AuditEvent{
		GUID:      "e-1",
		Timestamp: time.Date(2024, 6, 2, 11, 0, 0, 0, loc),
		Actor:     "alice",
		Action:    "login",
		Target:    "",
		Detail:    "via sso",
	}

	row := event.CSVRow()

	assert.Equal(t, []string{"2024-06-02T10:00:00Z", "alice", "login", "", "via sso"}, row)
	assert.Len(t, row, len(CSVHeader))
}

func TestLastDays(t *testing.T) {
	now := time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC)
	window := LastDays(now, 7)

	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), window.From)
	assert.Equal(t, now, window.To)
}

func TestWindow_Contains(t *testing.T) {
	window := Window{
		From: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"inside", time.Date(2024, 6, 3, 11, 0, 0, 0, time.UTC), true},
		{"lower bound inclusive", window.From, true},
		{"upper bound inclusive", window.To, true},
		{"before", window.From.Add(-time.Second), false},
		{"after", window.To.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, window.Contains(tt.t))
		})
	}
}

func TestExportBatch_Len(t *testing.T) {
	var empty ExportBatch
	assert.Equal(t, 0, empty.Len())

	batch := ExportBatch{{Actor: "alice"}, {Actor: "bob"}}
	assert.Equal(t, 2, batch.Len())
}
