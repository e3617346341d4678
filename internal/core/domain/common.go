package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Actor reference (device or user ID)
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// EntityType identifies a syncable entity collection.
type EntityType string

const (
	EntityAccount     EntityType = "account"
	EntityCategory    EntityType = "category"
	EntityRule        EntityType = "rule"
	EntityTransaction EntityType = "transaction"
)

// KnownEntityType reports whether t names one of the syncable collections.
func KnownEntityType(t EntityType) bool {
	switch t {
	case EntityAccount, EntityCategory, EntityRule, EntityTransaction:
		return true
	}
	return false
}
