package models

import "time"

// AuditEntry is the database representation of an audit log row.
type AuditEntry struct {
	EntryID    string    `db:"entry_id"`
	Actor      string    `db:"actor"`
	Verb       string    `db:"verb"`
	EntityType string    `db:"entity_type"`
	EntityID   string    `db:"entity_id"`
	Details    string    `db:"details"`
	CreatedAt  time.Time `db:"created_at"`
}
