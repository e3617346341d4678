package services

import (
	"context"

	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
)

// AccountSvcFacade exposes account CRUD. All writes flow through the change
// tracking layer so devices can pull them.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, actor string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, actor string, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeleteAccount(ctx context.Context, actor string, accountID string) error
}
