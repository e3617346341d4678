package services

import (
	"context"
	"errors"
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
)

// TransactionService implements transaction CRUD. Manual entry follows the
// same categorization path as bulk import: when no category is given the
// automation rules decide.
type TransactionService struct {
	transactionRepo portsrepo.TransactionRepository
	accountRepo     portsrepo.AccountReader
	ruleRepo        portsrepo.RuleReader
	categoryRepo    portsrepo.CategoryReader
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	transactionRepo portsrepo.TransactionRepository,
	accountRepo portsrepo.AccountReader,
	ruleRepo portsrepo.RuleReader,
	categoryRepo portsrepo.CategoryReader,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		ruleRepo:        ruleRepo,
		categoryRepo:    categoryRepo,
	}
}

var _ portssvc.TransactionSvcFacade = (*TransactionService)(nil)

// CreateTransaction records a single transaction.
func (s *TransactionService) CreateTransaction(ctx context.Context, actor string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: transaction description is required", apperrors.ErrValidation)
	}
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: transaction amount must be non-zero", apperrors.ErrValidation)
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, req.AccountID); err != nil {
		return nil, err
	}

	var (
		categoryID   *string
		categoryName string
		err          error
	)
	if req.CategoryID != nil {
		category, err := s.categoryRepo.FindCategoryByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		categoryID = req.CategoryID
		categoryName = category.Name
	} else {
		categoryID, categoryName, err = resolveCategory(ctx, s.ruleRepo, s.categoryRepo, description)
		if err != nil {
			return nil, err
		}
	}

	txnType := domain.Income
	if req.Amount.IsNegative() {
		txnType = domain.Expense
	}
	status := req.Status
	if status == "" {
		status = domain.StatusCompleted
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		Date:          req.Date,
		Description:   description,
		CategoryID:    categoryID,
		CategoryName:  categoryName,
		Amount:        req.Amount,
		Type:          txnType,
		AccountID:     req.AccountID,
		Status:        status,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	saved, err := s.transactionRepo.SaveTransaction(ctx, txn)
	if err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}

	logger.Info("Transaction created", slog.String("transaction_id", saved.TransactionID), slog.String("category", saved.CategoryName))
	return saved, nil
}

// GetTransactionByID retrieves a transaction.
func (s *TransactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions retrieves a page of transactions, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, limit int, offset int) ([]domain.Transaction, error) {
	return s.transactionRepo.ListTransactions(ctx, limit, offset)
}

// UpdateTransaction applies the provided fields to an existing transaction.
func (s *TransactionService) UpdateTransaction(ctx context.Context, actor string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		txn.Date = *req.Date
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, fmt.Errorf("%w: transaction description is required", apperrors.ErrValidation)
		}
		txn.Description = description
	}
	if req.Amount != nil {
		if req.Amount.IsZero() {
			return nil, fmt.Errorf("%w: transaction amount must be non-zero", apperrors.ErrValidation)
		}
		txn.Amount = *req.Amount
		txn.Type = domain.Income
		if txn.Amount.IsNegative() {
			txn.Type = domain.Expense
		}
	}
	if req.CategoryID != nil {
		category, err := s.categoryRepo.FindCategoryByID(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		txn.CategoryID = req.CategoryID
		txn.CategoryName = category.Name
	}
	if req.Status != nil {
		txn.Status = *req.Status
	}
	if req.Notes != nil {
		txn.Notes = *req.Notes
	}
	txn.LastUpdatedAt = time.Now().UTC()
	txn.LastUpdatedBy = actor

	updated, err := s.transactionRepo.UpdateTransaction(ctx, *txn)
	if err != nil {
		logger.Error("Failed to update transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	logger.Info("Transaction updated", slog.String("transaction_id", transactionID))
	return updated, nil
}

// DeleteTransaction removes a transaction.
func (s *TransactionService) DeleteTransaction(ctx context.Context, actor string, transactionID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.transactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return err
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID), slog.String("actor", actor))
	return nil
}
