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

// AccountService implements account CRUD on top of the change tracking
// layer.
type AccountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo portsrepo.AccountRepository) *AccountService {
	return &AccountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// CreateAccount creates a new household account. Names are trimmed and must
// be unique.
func (s *AccountService) CreateAccount(ctx context.Context, actor string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}

	existing, err := s.accountRepo.FindAccountByName(ctx, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("account name %q: %w", name, apperrors.ErrDuplicate)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		Name:         name,
		CurrencyCode: strings.ToUpper(req.CurrencyCode),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	saved, err := s.accountRepo.SaveAccount(ctx, account)
	if err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", saved.AccountID), slog.String("name", saved.Name))
	return saved, nil
}

// GetAccountByID retrieves an account.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// ListAccounts retrieves a page of accounts.
func (s *AccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, limit, offset)
}

// UpdateAccount applies the provided fields to an existing account.
func (s *AccountService) UpdateAccount(ctx context.Context, actor string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
		}
		if name != account.Name {
			existing, err := s.accountRepo.FindAccountByName(ctx, name)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			if existing != nil {
				return nil, fmt.Errorf("account name %q: %w", name, apperrors.ErrDuplicate)
			}
		}
		account.Name = name
	}
	if req.CurrencyCode != nil {
		account.CurrencyCode = strings.ToUpper(*req.CurrencyCode)
	}
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actor

	updated, err := s.accountRepo.UpdateAccount(ctx, *account)
	if err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return updated, nil
}

// DeleteAccount removes an account.
func (s *AccountService) DeleteAccount(ctx context.Context, actor string, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deleted", slog.String("account_id", accountID), slog.String("actor", actor))
	return nil
}
