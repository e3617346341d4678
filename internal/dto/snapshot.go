package dto

import (
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// SnapshotResponse is the full serialized store: every collection, the
// schema version, and the export timestamp. Version tokens are included so
// a restore reproduces the store exactly.
type SnapshotResponse struct {
	SchemaVersion int                     `json:"schemaVersion"`
	ExportedAt    time.Time               `json:"exportedAt"`
	Accounts      []domain.Account        `json:"accounts"`
	Categories    []domain.Category       `json:"categories"`
	Rules         []domain.AutomationRule `json:"rules"`
	Transactions  []domain.Transaction    `json:"transactions"`
}

// ToSnapshotResponse converts a domain.Snapshot to the wire shape.
func ToSnapshotResponse(snap *domain.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		SchemaVersion: snap.SchemaVersion,
		ExportedAt:    snap.ExportedAt,
		Accounts:      snap.Accounts,
		Categories:    snap.Categories,
		Rules:         snap.Rules,
		Transactions:  snap.Transactions,
	}
}

// ImportSnapshotRequest carries a previously exported snapshot for a full
// restore. Collections may be empty but must be present; unknown schema
// versions are rejected.
type ImportSnapshotRequest struct {
	SchemaVersion int                     `json:"schemaVersion" binding:"required"`
	ExportedAt    time.Time               `json:"exportedAt"`
	Accounts      []domain.Account        `json:"accounts"`
	Categories    []domain.Category       `json:"categories"`
	Rules         []domain.AutomationRule `json:"rules"`
	Transactions  []domain.Transaction    `json:"transactions"`
}

// ToDomainSnapshot converts the request to a domain.Snapshot.
func (r ImportSnapshotRequest) ToDomainSnapshot() domain.Snapshot {
	return domain.Snapshot{
		SchemaVersion: r.SchemaVersion,
		ExportedAt:    r.ExportedAt,
		Accounts:      r.Accounts,
		Categories:    r.Categories,
		Rules:         r.Rules,
		Transactions:  r.Transactions,
	}
}

// ImportSnapshotResponse reports how many entities the restore adopted.
type ImportSnapshotResponse struct {
	Accounts     int `json:"accounts"`
	Categories   int `json:"categories"`
	Rules        int `json:"rules"`
	Transactions int `json:"transactions"`
}
