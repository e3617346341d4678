package domain

import "encoding/json"

// MutationOp is the kind of change a device proposes in a push batch.
type MutationOp string

const (
	OpCreate MutationOp = "create"
	OpUpdate MutationOp = "update"
	OpDelete MutationOp = "delete"
)

// Mutation is one client-proposed change inside a push batch. BaseVersion is
// the version token the client last observed for the entity; it is zero for
// creates. Payload holds the proposed entity state, decoded per EntityType by
// the apply layer.
type Mutation struct {
	EntityType  EntityType      `json:"entityType"`
	Op          MutationOp      `json:"op"`
	EntityID    string          `json:"entityID"`
	BaseVersion int64           `json:"baseVersion,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// DecodedMutation is a Mutation whose payload has been validated at the
// boundary and decoded into its typed entity. Exactly one of the entity
// pointers is set, matching EntityType; deletes carry no payload.
type DecodedMutation struct {
	EntityType  EntityType
	Op          MutationOp
	EntityID    string
	BaseVersion int64
	Account     *Account
	Category    *Category
	Rule        *AutomationRule
	Transaction *Transaction
}

// AppliedMutation records a mutation the server accepted, with the version
// token it was assigned.
type AppliedMutation struct {
	EntityType EntityType `json:"entityType"`
	Op         MutationOp `json:"op"`
	EntityID   string     `json:"entityID"`
	NewVersion int64      `json:"newVersion"`
}

// ConflictRecord reports a push mutation rejected because the server entity
// moved past the client's baseline. The server state wins; reconciliation is
// client-driven.
type ConflictRecord struct {
	EntityType    EntityType `json:"entityType"`
	EntityID      string     `json:"entityID"`
	ServerVersion int64      `json:"serverVersion"` // 0 when the entity no longer exists
	ClientVersion int64      `json:"clientVersion"`
	Resolution    string     `json:"resolution"` // Always "unresolved"
}

// PushResult is the outcome of applying a push batch.
type PushResult struct {
	Applied   []AppliedMutation `json:"applied"`
	Conflicts []ConflictRecord  `json:"conflicts"`
}

// ChangeSet is a consistent point-in-time view of everything changed after a
// cursor, plus the new cursor to resume from.
type ChangeSet struct {
	Accounts     []Account        `json:"accounts"`
	Categories   []Category       `json:"categories"`
	Rules        []AutomationRule `json:"rules"`
	Transactions []Transaction    `json:"transactions"`
	Cursor       int64            `json:"cursor"`
}
