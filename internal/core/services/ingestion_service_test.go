package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/core/services"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type IngestionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockAccountRepo  *MockAccountRepository
	mockRuleRepo     *MockRuleRepository
	mockCategoryRepo *MockCategoryRepository
	mockAudit        *MockAuditSvc
	service          *services.IngestionService
	ctx              context.Context
}

func (suite *IngestionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockRuleRepo = new(MockRuleRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockAudit = new(MockAuditSvc)
	suite.service = services.NewIngestionService(
		suite.mockTxnRepo,
		suite.mockAccountRepo,
		suite.mockRuleRepo,
		suite.mockCategoryRepo,
		suite.mockAudit,
	)
	suite.ctx = context.Background()
}

func TestIngestionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IngestionServiceTestSuite))
}

func commaMapping() dto.CSVMappingRequest {
	return dto.CSVMappingRequest{
		Delimiter:         "comma",
		HasHeader:         false,
		DateColumn:        0,
		AmountColumn:      1,
		DescriptionColumn: 2,
	}
}

func (suite *IngestionServiceTestSuite) TestImportTransactions_DryRunPreviewsWithoutWriting() {
	account := &domain.Account{AccountID: "acc-1", Name: "Joint", CurrencyCode: "USD"}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()

	var b strings.Builder
	for i := 1; i <= 25; i++ {
		fmt.Fprintf(&b, "2026-01-%02d,-%d.00,ROW %d\n", (i%28)+1, i, i)
	}

	resp, err := suite.service.ImportTransactions(suite.ctx, "device-1", dto.ImportTransactionsRequest{
		AccountID: "acc-1",
		CSV:       b.String(),
		Mapping:   commaMapping(),
		DryRun:    true,
	})

	suite.Require().NoError(err)
	suite.True(resp.DryRun)
	suite.Equal(25, resp.Total)
	suite.Zero(resp.Imported)
	suite.Len(resp.Preview, dto.PreviewLimit)
	suite.Equal("ROW 1", resp.Preview[0].Description)
	suite.Empty(resp.RowErrors)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactionsBatch", mock.Anything, mock.Anything)
	suite.mockRuleRepo.AssertNotCalled(suite.T(), "ListActiveRules", mock.Anything)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *IngestionServiceTestSuite) TestImportTransactions_CommitCategorizesAndPersists() {
	account := &domain.Account{AccountID: "acc-1", Name: "Joint", CurrencyCode: "USD"}
	rules := []domain.AutomationRule{
		{RuleID: "r-1", Name: "Groceries", CategoryID: "cat-1", MatchType: domain.MatchContains, Pattern: "WOOLWORTHS", Priority: 1, IsActive: true},
	}
	categories := []domain.Category{{CategoryID: "cat-1", Name: "Groceries"}}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()
	suite.mockRuleRepo.On("ListActiveRules", suite.ctx).Return(rules, nil).Once()
	suite.mockCategoryRepo.On("ListCategories", suite.ctx).Return(categories, nil).Once()
	suite.mockTxnRepo.On("SaveTransactionsBatch", suite.ctx, mock.MatchedBy(func(txns []domain.Transaction) bool {
		if len(txns) != 2 {
			return false
		}
		matched := txns[0]
		unmatched := txns[1]
		return matched.CategoryID != nil && *matched.CategoryID == "cat-1" &&
			matched.CategoryName == "Groceries" &&
			matched.Type == domain.Expense &&
			matched.Status == domain.StatusCompleted &&
			matched.AccountID == "acc-1" &&
			matched.CreatedBy == "device-1" &&
			unmatched.CategoryID == nil &&
			unmatched.CategoryName == domain.UncategorizedName &&
			unmatched.Type == domain.Income
	})).Return([]domain.Transaction{{TransactionID: "t-1", Version: 10}, {TransactionID: "t-2", Version: 11}}, nil).Once()
	suite.mockAudit.On("RecordAction", suite.ctx, "device-1", "import_transactions", domain.EntityTransaction, "acc-1", mock.Anything).Once()

	csv := "2026-01-15,-42.50,WOOLWORTHS 1234\n" +
		"2026-01-16,1250.00,SALARY JANUARY\n"

	resp, err := suite.service.ImportTransactions(suite.ctx, "device-1", dto.ImportTransactionsRequest{
		AccountID: "acc-1",
		CSV:       csv,
		Mapping:   commaMapping(),
	})

	suite.Require().NoError(err)
	suite.False(resp.DryRun)
	suite.Equal(2, resp.Total)
	suite.Equal(2, resp.Imported)
	suite.Empty(resp.Preview)
	suite.mockRuleRepo.AssertExpectations(suite.T())
	suite.mockCategoryRepo.AssertExpectations(suite.T())
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *IngestionServiceTestSuite) TestImportTransactions_LoadsRulesOncePerBatch() {
	account := &domain.Account{AccountID: "acc-1", Name: "Joint", CurrencyCode: "USD"}
	rules := []domain.AutomationRule{
		{RuleID: "r-1", Name: "Groceries", CategoryID: "cat-1", MatchType: domain.MatchContains, Pattern: "WOOLWORTHS", Priority: 1, IsActive: true},
	}
	categories := []domain.Category{{CategoryID: "cat-1", Name: "Groceries"}}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()
	suite.mockRuleRepo.On("ListActiveRules", suite.ctx).Return(rules, nil).Once()
	suite.mockCategoryRepo.On("ListCategories", suite.ctx).Return(categories, nil).Once()

	const rows = 50
	var b strings.Builder
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&b, "2026-01-%02d,-%d.00,WOOLWORTHS %d\n", (i%28)+1, i, i)
	}
	saved := make([]domain.Transaction, rows)
	suite.mockTxnRepo.On("SaveTransactionsBatch", suite.ctx, mock.MatchedBy(func(txns []domain.Transaction) bool {
		return len(txns) == rows
	})).Return(saved, nil).Once()
	suite.mockAudit.On("RecordAction", suite.ctx, "device-1", "import_transactions", domain.EntityTransaction, "acc-1", mock.Anything).Once()

	resp, err := suite.service.ImportTransactions(suite.ctx, "device-1", dto.ImportTransactionsRequest{
		AccountID: "acc-1",
		CSV:       b.String(),
		Mapping:   commaMapping(),
	})

	suite.Require().NoError(err)
	suite.Equal(rows, resp.Imported)
	suite.mockRuleRepo.AssertNumberOfCalls(suite.T(), "ListActiveRules", 1)
	suite.mockCategoryRepo.AssertNumberOfCalls(suite.T(), "ListCategories", 1)
}

func (suite *IngestionServiceTestSuite) TestImportTransactions_AccountNotFound() {
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ImportTransactions(suite.ctx, "device-1", dto.ImportTransactionsRequest{
		AccountID: "acc-missing",
		CSV:       "2026-01-15,-10,COFFEE\n",
		Mapping:   commaMapping(),
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactionsBatch", mock.Anything, mock.Anything)
}

func (suite *IngestionServiceTestSuite) TestImportTransactions_BadMapping() {
	account := &domain.Account{AccountID: "acc-1", Name: "Joint", CurrencyCode: "USD"}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()

	mapping := commaMapping()
	mapping.Delimiter = "colon"

	_, err := suite.service.ImportTransactions(suite.ctx, "device-1", dto.ImportTransactionsRequest{
		AccountID: "acc-1",
		CSV:       "2026-01-15,-10,COFFEE\n",
		Mapping:   mapping,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *IngestionServiceTestSuite) TestImportTransactions_NoParsableRows() {
	account := &domain.Account{AccountID: "acc-1", Name: "Joint", CurrencyCode: "USD"}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()

	resp, err := suite.service.ImportTransactions(suite.ctx, "device-1", dto.ImportTransactionsRequest{
		AccountID: "acc-1",
		CSV:       "garbage,garbage,\n",
		Mapping:   commaMapping(),
	})

	suite.Require().NoError(err)
	suite.Zero(resp.Total)
	suite.Zero(resp.Imported)
	suite.Len(resp.RowErrors, 1)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactionsBatch", mock.Anything, mock.Anything)
}

func (suite *IngestionServiceTestSuite) TestImportTransactions_BatchFailureRollsUp() {
	account := &domain.Account{AccountID: "acc-1", Name: "Joint", CurrencyCode: "USD"}
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(account, nil).Once()
	suite.mockRuleRepo.On("ListActiveRules", suite.ctx).Return([]domain.AutomationRule{}, nil).Once()
	suite.mockTxnRepo.On("SaveTransactionsBatch", suite.ctx, mock.Anything).Return(nil, assert.AnError).Once()

	_, err := suite.service.ImportTransactions(suite.ctx, "device-1", dto.ImportTransactionsRequest{
		AccountID: "acc-1",
		CSV:       "2026-01-15,-10,COFFEE\n",
		Mapping:   commaMapping(),
	})

	suite.ErrorIs(err, assert.AnError)
	suite.mockAudit.AssertNotCalled(suite.T(), "RecordAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *IngestionServiceTestSuite) TestCreateTransfer_CreatesBothLegs() {
	accounts := map[string]domain.Account{
		"acc-from": {AccountID: "acc-from", Name: "Checking", CurrencyCode: "USD"},
		"acc-to":   {AccountID: "acc-to", Name: "Savings", CurrencyCode: "USD"},
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, []string{"acc-from", "acc-to"}).Return(accounts, nil).Once()
	suite.mockRuleRepo.On("ListActiveRules", suite.ctx).Return([]domain.AutomationRule{}, nil).Once()

	amount := decimal.NewFromFloat(250.00)
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	suite.mockTxnRepo.On("SaveTransactionsBatch", suite.ctx, mock.MatchedBy(func(legs []domain.Transaction) bool {
		if len(legs) != 2 {
			return false
		}
		out, in := legs[0], legs[1]
		return out.TransferID != nil && in.TransferID != nil &&
			*out.TransferID == *in.TransferID &&
			out.TransactionID != in.TransactionID &&
			out.Amount.Equal(amount.Neg()) && in.Amount.Equal(amount) &&
			out.Type == domain.Expense && in.Type == domain.Income &&
			out.AccountID == "acc-from" && in.AccountID == "acc-to" &&
			out.Date.Equal(date) && in.Date.Equal(date) &&
			out.Status == domain.StatusCompleted && in.Status == domain.StatusCompleted &&
			out.CategoryName == domain.UncategorizedName
	})).Return([]domain.Transaction{{TransactionID: "t-out", Version: 20}, {TransactionID: "t-in", Version: 21}}, nil).Once()
	suite.mockAudit.On("RecordAction", suite.ctx, "device-1", "create_transfer", domain.EntityTransaction, mock.Anything, mock.Anything).Once()

	legs, err := suite.service.CreateTransfer(suite.ctx, "device-1", dto.CreateTransferRequest{
		FromAccountID: "acc-from",
		ToAccountID:   "acc-to",
		Amount:        amount,
		Date:          date,
		Description:   "Monthly savings",
	})

	suite.Require().NoError(err)
	suite.Len(legs, 2)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *IngestionServiceTestSuite) TestCreateTransfer_SameAccount() {
	_, err := suite.service.CreateTransfer(suite.ctx, "device-1", dto.CreateTransferRequest{
		FromAccountID: "acc-1",
		ToAccountID:   "acc-1",
		Amount:        decimal.NewFromInt(10),
		Date:          time.Now(),
		Description:   "Loop",
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactionsBatch", mock.Anything, mock.Anything)
}

func (suite *IngestionServiceTestSuite) TestCreateTransfer_NonPositiveAmount() {
	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := suite.service.CreateTransfer(suite.ctx, "device-1", dto.CreateTransferRequest{
			FromAccountID: "acc-from",
			ToAccountID:   "acc-to",
			Amount:        amount,
			Date:          time.Now(),
			Description:   "Bad amount",
		})
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *IngestionServiceTestSuite) TestCreateTransfer_BlankDescription() {
	_, err := suite.service.CreateTransfer(suite.ctx, "device-1", dto.CreateTransferRequest{
		FromAccountID: "acc-from",
		ToAccountID:   "acc-to",
		Amount:        decimal.NewFromInt(10),
		Date:          time.Now(),
		Description:   "   ",
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *IngestionServiceTestSuite) TestCreateTransfer_MissingAccount() {
	accounts := map[string]domain.Account{
		"acc-from": {AccountID: "acc-from", Name: "Checking", CurrencyCode: "USD"},
	}
	suite.mockAccountRepo.On("FindAccountsByIDs", suite.ctx, []string{"acc-from", "acc-to"}).Return(accounts, nil).Once()

	_, err := suite.service.CreateTransfer(suite.ctx, "device-1", dto.CreateTransferRequest{
		FromAccountID: "acc-from",
		ToAccountID:   "acc-to",
		Amount:        decimal.NewFromInt(10),
		Date:          time.Now(),
		Description:   "Savings",
	})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransactionsBatch", mock.Anything, mock.Anything)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}
