package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_finance_app/internal/core/ports/services"
	"github.com/hearthfin/hearth_finance_app/internal/middleware"
)

// SyncService implements incremental pull and push-with-apply for household
// devices.
type SyncService struct {
	syncRepo portsrepo.SyncRepository
	audit    portssvc.AuditSvc
}

// NewSyncService creates a new SyncService.
func NewSyncService(syncRepo portsrepo.SyncRepository, audit portssvc.AuditSvc) *SyncService {
	return &SyncService{syncRepo: syncRepo, audit: audit}
}

var _ portssvc.SyncSvcFacade = (*SyncService)(nil)

// Pull returns everything changed after the cursor plus the new cursor. An
// empty cursor yields the full state; a malformed cursor is a validation
// error, never a silent full or empty response.
func (s *SyncService) Pull(ctx context.Context, cursor string) (*domain.ChangeSet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	after, err := parseCursor(cursor)
	if err != nil {
		return nil, err
	}

	cs, err := s.syncRepo.PullChanges(ctx, after)
	if err != nil {
		logger.Error("Failed to pull changes", slog.String("error", err.Error()), slog.Int64("after_version", after))
		return nil, err
	}

	logger.Debug("Pull completed",
		slog.Int64("after_version", after),
		slog.Int64("new_cursor", cs.Cursor),
		slog.Int("accounts", len(cs.Accounts)),
		slog.Int("categories", len(cs.Categories)),
		slog.Int("rules", len(cs.Rules)),
		slog.Int("transactions", len(cs.Transactions)),
	)
	return cs, nil
}

// Push validates and decodes the batch at the boundary, then applies it in
// order. Stale mutations come back as conflicts inside the result; only
// malformed input or storage failures surface as errors.
func (s *SyncService) Push(ctx context.Context, actor string, muts []domain.Mutation) (*domain.PushResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(muts) == 0 {
		return nil, fmt.Errorf("%w: push batch is empty", apperrors.ErrValidation)
	}

	decoded := make([]domain.DecodedMutation, len(muts))
	for i, m := range muts {
		dm, err := decodeMutation(m)
		if err != nil {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}
		decoded[i] = dm
	}

	result, err := s.syncRepo.ApplyMutations(ctx, actor, decoded)
	if err != nil {
		logger.Error("Failed to apply push batch", slog.String("error", err.Error()), slog.Int("batch_size", len(muts)))
		return nil, err
	}

	s.audit.RecordAction(ctx, actor, "push", "", "",
		fmt.Sprintf(`{"mutations":%d,"applied":%d,"conflicts":%d}`, len(muts), len(result.Applied), len(result.Conflicts)))

	logger.Info("Push batch applied",
		slog.Int("batch_size", len(muts)),
		slog.Int("applied", len(result.Applied)),
		slog.Int("conflicts", len(result.Conflicts)),
	)
	return result, nil
}

// parseCursor turns the opaque wire cursor into a version token. Empty means
// "from the beginning".
func parseCursor(cursor string) (int64, error) {
	if cursor == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: invalid cursor %q", apperrors.ErrValidation, cursor)
	}
	return v, nil
}

// decodeMutation validates one wire mutation and decodes its payload into
// the typed entity for its collection.
func decodeMutation(m domain.Mutation) (domain.DecodedMutation, error) {
	dm := domain.DecodedMutation{
		EntityType:  m.EntityType,
		Op:          m.Op,
		EntityID:    m.EntityID,
		BaseVersion: m.BaseVersion,
	}

	if !domain.KnownEntityType(m.EntityType) {
		return dm, fmt.Errorf("%w: unknown entity type %q", apperrors.ErrValidation, m.EntityType)
	}
	if m.EntityID == "" {
		return dm, fmt.Errorf("%w: entity ID is required", apperrors.ErrValidation)
	}

	switch m.Op {
	case domain.OpCreate:
		if m.BaseVersion != 0 {
			return dm, fmt.Errorf("%w: create must not carry a base version", apperrors.ErrValidation)
		}
	case domain.OpUpdate, domain.OpDelete:
		if m.BaseVersion <= 0 {
			return dm, fmt.Errorf("%w: %s requires the last observed version", apperrors.ErrValidation, m.Op)
		}
	default:
		return dm, fmt.Errorf("%w: unknown op %q", apperrors.ErrValidation, m.Op)
	}

	if m.Op == domain.OpDelete {
		return dm, nil
	}
	if len(m.Payload) == 0 {
		return dm, fmt.Errorf("%w: %s requires a payload", apperrors.ErrValidation, m.Op)
	}

	switch m.EntityType {
	case domain.EntityAccount:
		var acc domain.Account
		if err := json.Unmarshal(m.Payload, &acc); err != nil {
			return dm, fmt.Errorf("%w: malformed account payload: %v", apperrors.ErrValidation, err)
		}
		acc.AccountID = m.EntityID
		acc.Name = strings.TrimSpace(acc.Name)
		if acc.Name == "" {
			return dm, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
		}
		if acc.CurrencyCode == "" {
			return dm, fmt.Errorf("%w: account currency code is required", apperrors.ErrValidation)
		}
		dm.Account = &acc
	case domain.EntityCategory:
		var cat domain.Category
		if err := json.Unmarshal(m.Payload, &cat); err != nil {
			return dm, fmt.Errorf("%w: malformed category payload: %v", apperrors.ErrValidation, err)
		}
		cat.CategoryID = m.EntityID
		cat.Name = strings.TrimSpace(cat.Name)
		if cat.Name == "" {
			return dm, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
		}
		if cat.MonthlyBudget.IsNegative() {
			return dm, fmt.Errorf("%w: monthly budget must not be negative", apperrors.ErrValidation)
		}
		dm.Category = &cat
	case domain.EntityRule:
		var rule domain.AutomationRule
		if err := json.Unmarshal(m.Payload, &rule); err != nil {
			return dm, fmt.Errorf("%w: malformed rule payload: %v", apperrors.ErrValidation, err)
		}
		rule.RuleID = m.EntityID
		if strings.TrimSpace(rule.Name) == "" {
			return dm, fmt.Errorf("%w: rule name is required", apperrors.ErrValidation)
		}
		if !domain.KnownMatchType(rule.MatchType) {
			return dm, fmt.Errorf("%w: unknown match type %q", apperrors.ErrValidation, rule.MatchType)
		}
		if rule.Priority < 1 {
			return dm, fmt.Errorf("%w: rule priority must be >= 1", apperrors.ErrValidation)
		}
		if rule.CategoryID == "" {
			return dm, fmt.Errorf("%w: rule category ID is required", apperrors.ErrValidation)
		}
		dm.Rule = &rule
	case domain.EntityTransaction:
		var txn domain.Transaction
		if err := json.Unmarshal(m.Payload, &txn); err != nil {
			return dm, fmt.Errorf("%w: malformed transaction payload: %v", apperrors.ErrValidation, err)
		}
		txn.TransactionID = m.EntityID
		if strings.TrimSpace(txn.Description) == "" {
			return dm, fmt.Errorf("%w: transaction description is required", apperrors.ErrValidation)
		}
		if txn.AccountID == "" {
			return dm, fmt.Errorf("%w: transaction account ID is required", apperrors.ErrValidation)
		}
		// The sign is authoritative for the income/expense discriminator.
		if txn.Amount.IsNegative() {
			txn.Type = domain.Expense
		} else {
			txn.Type = domain.Income
		}
		if txn.Status == "" {
			txn.Status = domain.StatusCompleted
		}
		if txn.CategoryName == "" {
			txn.CategoryName = domain.UncategorizedName
		}
		dm.Transaction = &txn
	}

	return dm, nil
}
