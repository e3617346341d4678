package domain

import "time"

// SnapshotSchemaVersion is the current snapshot wire format version.
const SnapshotSchemaVersion = 1

// Snapshot is a complete, self-contained serialization of all syncable
// collections at one point in time, version tokens included. It has no
// cursor semantics: import replaces the store wholesale.
type Snapshot struct {
	SchemaVersion int              `json:"schemaVersion"`
	ExportedAt    time.Time        `json:"exportedAt"`
	Accounts      []Account        `json:"accounts"`
	Categories    []Category       `json:"categories"`
	Rules         []AutomationRule `json:"rules"`
	Transactions  []Transaction    `json:"transactions"`
}

// MaxVersion returns the highest version token present in the snapshot.
func (s Snapshot) MaxVersion() int64 {
	var max int64
	for _, a := range s.Accounts {
		if a.Version > max {
			max = a.Version
		}
	}
	for _, c := range s.Categories {
		if c.Version > max {
			max = c.Version
		}
	}
	for _, r := range s.Rules {
		if r.Version > max {
			max = r.Version
		}
	}
	for _, t := range s.Transactions {
		if t.Version > max {
			max = t.Version
		}
	}
	return max
}
