package dto

import (
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// AuditEntryResponse defines the data returned for an audit log entry.
type AuditEntryResponse struct {
	EntryID    string    `json:"entryID"`
	Actor      string    `json:"actor"`
	Verb       string    `json:"verb"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityID"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToListAuditEntryResponse converts domain audit entries to response DTOs.
func ToListAuditEntryResponse(entries []domain.AuditEntry) []AuditEntryResponse {
	res := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = AuditEntryResponse{
			EntryID:    e.EntryID,
			Actor:      e.Actor,
			Verb:       e.Verb,
			EntityType: string(e.EntityType),
			EntityID:   e.EntityID,
			Details:    e.Details,
			CreatedAt:  e.CreatedAt,
		}
	}
	return res
}

// ListAuditParams defines query parameters for listing audit entries.
type ListAuditParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}
