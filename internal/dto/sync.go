package dto

import (
	"encoding/json"
	"strconv"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
)

// PullParams defines the query parameters for an incremental pull. The
// cursor is the opaque token returned by a previous pull; omitted for a
// first full pull.
type PullParams struct {
	Cursor string `form:"cursor"`
}

// PullResponse is a consistent point-in-time view of everything changed
// after the request cursor.
type PullResponse struct {
	Accounts     []AccountResponse     `json:"accounts"`
	Categories   []CategoryResponse    `json:"categories"`
	Rules        []RuleResponse        `json:"rules"`
	Transactions []TransactionResponse `json:"transactions"`
	Cursor       string                `json:"cursor"`
}

// ToPullResponse converts a domain.ChangeSet to the wire shape. The cursor
// travels as an opaque string.
func ToPullResponse(cs *domain.ChangeSet) PullResponse {
	return PullResponse{
		Accounts:     ToListAccountResponse(cs.Accounts),
		Categories:   ToListCategoryResponse(cs.Categories),
		Rules:        ToListRuleResponse(cs.Rules),
		Transactions: ToListTransactionResponse(cs.Transactions),
		Cursor:       strconv.FormatInt(cs.Cursor, 10),
	}
}

// MutationRequest is one proposed change in a push batch. BaseVersion is the
// version token the device last observed for the entity; zero for creates.
type MutationRequest struct {
	EntityType  domain.EntityType `json:"entityType" binding:"required,oneof=account category rule transaction"`
	Op          domain.MutationOp `json:"op" binding:"required,oneof=create update delete"`
	EntityID    string            `json:"entityID" binding:"required"`
	BaseVersion int64             `json:"baseVersion"`
	Payload     json.RawMessage   `json:"payload"`
}

// PushRequest is an ordered batch of proposed mutations.
type PushRequest struct {
	Mutations []MutationRequest `json:"mutations" binding:"required,min=1,dive"`
}

// ToDomainMutations converts the wire batch into domain mutations,
// preserving order.
func (r PushRequest) ToDomainMutations() []domain.Mutation {
	muts := make([]domain.Mutation, len(r.Mutations))
	for i, m := range r.Mutations {
		muts[i] = domain.Mutation{
			EntityType:  m.EntityType,
			Op:          m.Op,
			EntityID:    m.EntityID,
			BaseVersion: m.BaseVersion,
			Payload:     m.Payload,
		}
	}
	return muts
}

// PushResponse reports the outcome of a push batch. Applied mutations stick
// even when the batch also produced conflicts.
type PushResponse struct {
	Applied   []domain.AppliedMutation `json:"applied"`
	Conflicts []domain.ConflictRecord  `json:"conflicts"`
}

// ToPushResponse converts a domain.PushResult to the wire shape.
func ToPushResponse(res *domain.PushResult) PushResponse {
	resp := PushResponse{
		Applied:   res.Applied,
		Conflicts: res.Conflicts,
	}
	if resp.Applied == nil {
		resp.Applied = []domain.AppliedMutation{}
	}
	if resp.Conflicts == nil {
		resp.Conflicts = []domain.ConflictRecord{}
	}
	return resp
}
