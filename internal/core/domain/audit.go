package domain

import "time"

// AuditEntry records who did what to which entity. Entries are append-only
// and never synced to devices.
type AuditEntry struct {
	EntryID    string     `json:"entryID"`
	Actor      string     `json:"actor"`
	Verb       string     `json:"verb"` // e.g. "push", "import", "export"
	EntityType EntityType `json:"entityType"`
	EntityID   string     `json:"entityID"`
	Details    string     `json:"details"` // Free-form JSON details
	CreatedAt  time.Time  `json:"createdAt"`
}
