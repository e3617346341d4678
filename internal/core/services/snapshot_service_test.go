package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SnapshotServiceTestSuite struct {
	suite.Suite
	mockSnapshotRepo *MockSnapshotRepository
	mockAudit        *MockAuditSvc
	service          *services.SnapshotService
	ctx              context.Context
}

func (suite *SnapshotServiceTestSuite) SetupTest() {
	suite.mockSnapshotRepo = new(MockSnapshotRepository)
	suite.mockAudit = new(MockAuditSvc)
	suite.service = services.NewSnapshotService(suite.mockSnapshotRepo, suite.mockAudit)
	suite.ctx = context.Background()
}

func TestSnapshotServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SnapshotServiceTestSuite))
}

func validSnapshot() domain.Snapshot {
	return domain.Snapshot{
		SchemaVersion: domain.SnapshotSchemaVersion,
		ExportedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Accounts: []domain.Account{
			{AccountID: "acc-1", Name: "Joint", CurrencyCode: "USD", Version: 3},
		},
		Categories: []domain.Category{
			{CategoryID: "cat-1", Name: "Groceries", Version: 5},
		},
		Rules: []domain.AutomationRule{
			{RuleID: "r-1", Name: "Groceries", CategoryID: "cat-1", MatchType: domain.MatchContains, Pattern: "woolworths", Priority: 1, IsActive: true, Version: 6},
		},
		Transactions: []domain.Transaction{
			{TransactionID: "txn-1", Description: "WOOLWORTHS", AccountID: "acc-1", Version: 9},
		},
	}
}

func (suite *SnapshotServiceTestSuite) TestExport_StampsSchemaVersionAndTimestamp() {
	raw := &domain.Snapshot{
		Accounts:   []domain.Account{{AccountID: "acc-1", Name: "Joint", Version: 3}},
		Categories: []domain.Category{},
	}
	suite.mockSnapshotRepo.On("ExportAll", suite.ctx).Return(raw, nil).Once()
	suite.mockAudit.On("RecordAction", suite.ctx, "device-1", "export", domain.EntityType(""), "", mock.Anything).Once()

	before := time.Now().UTC()
	snap, err := suite.service.Export(suite.ctx, "device-1")

	suite.Require().NoError(err)
	suite.Equal(domain.SnapshotSchemaVersion, snap.SchemaVersion)
	suite.False(snap.ExportedAt.Before(before))
	suite.Len(snap.Accounts, 1)
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *SnapshotServiceTestSuite) TestExport_RepositoryError() {
	suite.mockSnapshotRepo.On("ExportAll", suite.ctx).Return(nil, assert.AnError).Once()

	_, err := suite.service.Export(suite.ctx, "device-1")

	suite.ErrorIs(err, assert.AnError)
	suite.mockAudit.AssertNotCalled(suite.T(), "RecordAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SnapshotServiceTestSuite) TestImport_ReplacesStore() {
	snap := validSnapshot()
	suite.mockSnapshotRepo.On("ImportReplace", suite.ctx, snap).Return(nil).Once()
	suite.mockAudit.On("RecordAction", suite.ctx, "device-1", "import", domain.EntityType(""), "", mock.Anything).Once()

	err := suite.service.Import(suite.ctx, "device-1", snap)

	suite.Require().NoError(err)
	suite.mockSnapshotRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *SnapshotServiceTestSuite) TestImport_ValidationFailures() {
	badSchema := validSnapshot()
	badSchema.SchemaVersion = 99

	missingAccountID := validSnapshot()
	missingAccountID.Accounts[0].AccountID = ""

	blankCategoryName := validSnapshot()
	blankCategoryName.Categories[0].Name = "   "

	negativeBudget := validSnapshot()
	negativeBudget.Categories[0].MonthlyBudget = decimal.NewFromInt(-1)

	unknownMatchType := validSnapshot()
	unknownMatchType.Rules[0].MatchType = "fuzzy"

	orphanTransaction := validSnapshot()
	orphanTransaction.Transactions[0].AccountID = ""

	tests := []struct {
		name string
		snap domain.Snapshot
	}{
		{"unsupported schema version", badSchema},
		{"account missing ID", missingAccountID},
		{"category with blank name", blankCategoryName},
		{"category with negative budget", negativeBudget},
		{"rule with unknown match type", unknownMatchType},
		{"transaction missing account", orphanTransaction},
	}

	for _, tt := range tests {
		err := suite.service.Import(suite.ctx, "device-1", tt.snap)
		suite.ErrorIs(err, apperrors.ErrValidation, tt.name)
	}
	suite.mockSnapshotRepo.AssertNotCalled(suite.T(), "ImportReplace", mock.Anything, mock.Anything)
}

func (suite *SnapshotServiceTestSuite) TestImport_RepositoryErrorRollsUp() {
	snap := validSnapshot()
	suite.mockSnapshotRepo.On("ImportReplace", suite.ctx, snap).Return(assert.AnError).Once()

	err := suite.service.Import(suite.ctx, "device-1", snap)

	suite.ErrorIs(err, assert.AnError)
	suite.mockAudit.AssertNotCalled(suite.T(), "RecordAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
