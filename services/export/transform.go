package export

import (
	"strings"

	"github.com/cloud-gov/audit-exporter/models"
)

// Transform maps one raw event to its processed form. Returning false
// drops the row from the processed file. Transforms must not mutate
// shared state; they are applied in batch order.
type Transform func(models.AuditEvent) (models.AuditEvent, bool)

// Identity keeps every row unchanged.
func Identity(e models.AuditEvent) (models.AuditEvent, bool) {
	return e, true
}

// KeepActions returns a transform that keeps only events whose action
// matches one of the given values (case-insensitive, exact match on
// the full action string). An empty list keeps everything, matching
// the raw file verbatim.
func KeepActions(actions []string) Transform {
	if len(actions) == 0 {
		return Identity
	}
	allowed := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		allowed[strings.ToLower(a)] = struct{}{}
	}
	return func(e models.AuditEvent) (models.AuditEvent, bool) {
		_, ok := allowed[strings.ToLower(e.Action)]
		return e, ok
	}
}
