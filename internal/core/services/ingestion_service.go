package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portsrepo "github.com/hearthfin/hearth_finance_app/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_finance_app/internal/core/ports/services"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
	"github.com/hearthfin/hearth_finance_app/internal/middleware"
	"github.com/hearthfin/hearth_finance_app/internal/utils/csvparse"
)

// IngestionService coordinates bulk CSV import and paired transfer
// creation. Committed imports are all-or-nothing: every candidate row is
// persisted in one batch or none is.
type IngestionService struct {
	transactionRepo portsrepo.TransactionRepository
	accountRepo     portsrepo.AccountReader
	ruleRepo        portsrepo.RuleReader
	categoryRepo    portsrepo.CategoryReader
	audit           portssvc.AuditSvc
}

// NewIngestionService creates a new IngestionService.
func NewIngestionService(
	transactionRepo portsrepo.TransactionRepository,
	accountRepo portsrepo.AccountReader,
	ruleRepo portsrepo.RuleReader,
	categoryRepo portsrepo.CategoryReader,
	audit portssvc.AuditSvc,
) *IngestionService {
	return &IngestionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		ruleRepo:        ruleRepo,
		categoryRepo:    categoryRepo,
		audit:           audit,
	}
}

var _ portssvc.IngestionSvcFacade = (*IngestionService)(nil)

// ImportTransactions parses the uploaded CSV into candidates and either
// previews them (dry run) or commits them as one atomic batch. Rows without
// an explicit category run through the automation rules at commit time.
func (s *IngestionService) ImportTransactions(ctx context.Context, actor string, req dto.ImportTransactionsRequest) (*dto.ImportTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}

	mapping, err := req.Mapping.ToMapping()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	candidates, rowErrors, err := csvparse.Parse(req.CSV, mapping)
	if err != nil {
		return nil, err
	}
	if rowErrors == nil {
		rowErrors = []csvparse.RowError{}
	}

	resp := &dto.ImportTransactionsResponse{
		DryRun:    req.DryRun,
		Total:     len(candidates),
		RowErrors: rowErrors,
	}

	if req.DryRun {
		limit := dto.PreviewLimit
		if len(candidates) < limit {
			limit = len(candidates)
		}
		preview := make([]dto.CandidateRow, limit)
		for i := 0; i < limit; i++ {
			preview[i] = dto.CandidateRow{
				Date:        candidates[i].Date,
				Description: candidates[i].Description,
				Amount:      candidates[i].Amount,
				Type:        candidates[i].Type,
			}
		}
		resp.Preview = preview
		logger.Info("Dry-run import previewed",
			slog.String("account_id", account.AccountID),
			slog.Int("total", resp.Total),
			slog.Int("row_errors", len(rowErrors)),
		)
		return resp, nil
	}

	if len(candidates) == 0 {
		logger.Info("Import had no parsable rows", slog.Int("row_errors", len(rowErrors)))
		return resp, nil
	}

	// One rule load covers the whole batch.
	resolver, err := newCategoryResolver(ctx, s.ruleRepo, s.categoryRepo)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txns := make([]domain.Transaction, len(candidates))
	for i, c := range candidates {
		categoryID, categoryName := resolver.resolve(c.Description)
		txns[i] = domain.Transaction{
			TransactionID: uuid.NewString(),
			Date:          c.Date,
			Description:   c.Description,
			CategoryID:    categoryID,
			CategoryName:  categoryName,
			Amount:        c.Amount,
			Type:          c.Type,
			AccountID:     account.AccountID,
			Status:        domain.StatusCompleted,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor,
				LastUpdatedAt: now,
				LastUpdatedBy: actor,
			},
		}
	}

	saved, err := s.transactionRepo.SaveTransactionsBatch(ctx, txns)
	if err != nil {
		logger.Error("Failed to save import batch", slog.String("error", err.Error()), slog.Int("rows", len(txns)))
		return nil, err
	}
	resp.Imported = len(saved)

	s.audit.RecordAction(ctx, actor, "import_transactions", domain.EntityTransaction, account.AccountID,
		fmt.Sprintf(`{"imported":%d,"rowErrors":%d}`, resp.Imported, len(rowErrors)))

	logger.Info("Import committed",
		slog.String("account_id", account.AccountID),
		slog.Int("imported", resp.Imported),
		slog.Int("row_errors", len(rowErrors)),
	)
	return resp, nil
}

// CreateTransfer creates both legs of a transfer as a two-row atomic unit.
func (s *IngestionService) CreateTransfer(ctx context.Context, actor string, req dto.CreateTransferRequest) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: transfer description is required", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{req.FromAccountID, req.ToAccountID})
	if err != nil {
		return nil, err
	}
	if _, ok := accounts[req.FromAccountID]; !ok {
		return nil, fmt.Errorf("source account %s: %w", req.FromAccountID, apperrors.ErrNotFound)
	}
	if _, ok := accounts[req.ToAccountID]; !ok {
		return nil, fmt.Errorf("destination account %s: %w", req.ToAccountID, apperrors.ErrNotFound)
	}

	status := req.Status
	if status == "" {
		status = domain.StatusCompleted
	}

	categoryID, categoryName, err := resolveCategory(ctx, s.ruleRepo, s.categoryRepo, req.Description)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor,
		LastUpdatedAt: now,
		LastUpdatedBy: actor,
	}
	transferID := uuid.NewString()

	legs := []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			Date:          req.Date,
			Description:   req.Description,
			CategoryID:    categoryID,
			CategoryName:  categoryName,
			Amount:        req.Amount.Neg(),
			Type:          domain.Expense,
			AccountID:     req.FromAccountID,
			Status:        status,
			Notes:         req.Notes,
			TransferID:    &transferID,
			AuditFields:   audit,
		},
		{
			TransactionID: uuid.NewString(),
			Date:          req.Date,
			Description:   req.Description,
			CategoryID:    categoryID,
			CategoryName:  categoryName,
			Amount:        req.Amount,
			Type:          domain.Income,
			AccountID:     req.ToAccountID,
			Status:        status,
			Notes:         req.Notes,
			TransferID:    &transferID,
			AuditFields:   audit,
		},
	}

	saved, err := s.transactionRepo.SaveTransactionsBatch(ctx, legs)
	if err != nil {
		logger.Error("Failed to save transfer", slog.String("error", err.Error()), slog.String("transfer_id", transferID))
		return nil, err
	}

	s.audit.RecordAction(ctx, actor, "create_transfer", domain.EntityTransaction, transferID,
		fmt.Sprintf(`{"from":%q,"to":%q,"amount":%q}`, req.FromAccountID, req.ToAccountID, req.Amount.String()))

	logger.Info("Transfer created",
		slog.String("transfer_id", transferID),
		slog.String("from_account", req.FromAccountID),
		slog.String("to_account", req.ToAccountID),
	)
	return saved, nil
}
