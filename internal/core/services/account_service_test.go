package services_test

import (
	"context"
	"testing"

	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	"github.com/hearthfin/hearth_finance_app/internal/core/services"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  *services.AccountService
	ctx      context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.ctx = context.Background()
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Name: "  Joint Checking  ", CurrencyCode: "usd"}

	suite.mockRepo.On("FindAccountByName", suite.ctx, "Joint Checking").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.Name == "Joint Checking" &&
			acc.CurrencyCode == "USD" &&
			acc.AccountID != "" &&
			acc.CreatedBy == "device-1" &&
			acc.LastUpdatedBy == "device-1"
	})).Return(&domain.Account{AccountID: "acc-1", Name: "Joint Checking", CurrencyCode: "USD", Version: 1}, nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, "device-1", req)

	suite.Require().NoError(err)
	suite.Equal("acc-1", account.AccountID)
	suite.Equal(int64(1), account.Version)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_BlankName() {
	_, err := suite.service.CreateAccount(suite.ctx, "device-1", dto.CreateAccountRequest{Name: "   ", CurrencyCode: "USD"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateName() {
	existing := &domain.Account{AccountID: "acc-1", Name: "Joint"}
	suite.mockRepo.On("FindAccountByName", suite.ctx, "Joint").Return(existing, nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, "device-1", dto.CreateAccountRequest{Name: "Joint", CurrencyCode: "USD"})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_LookupError() {
	suite.mockRepo.On("FindAccountByName", suite.ctx, "Joint").Return(nil, assert.AnError).Once()

	_, err := suite.service.CreateAccount(suite.ctx, "device-1", dto.CreateAccountRequest{Name: "Joint", CurrencyCode: "USD"})

	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID() {
	expected := &domain.Account{AccountID: "acc-1", Name: "Joint"}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(expected, nil).Once()

	account, err := suite.service.GetAccountByID(suite.ctx, "acc-1")

	suite.Require().NoError(err)
	suite.Equal(expected, account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RenameChecksUniqueness() {
	current := &domain.Account{AccountID: "acc-1", Name: "Joint", CurrencyCode: "USD"}
	newName := "Everyday"

	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(current, nil).Once()
	suite.mockRepo.On("FindAccountByName", suite.ctx, "Everyday").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(acc domain.Account) bool {
		return acc.AccountID == "acc-1" && acc.Name == "Everyday" && acc.LastUpdatedBy == "device-2"
	})).Return(&domain.Account{AccountID: "acc-1", Name: "Everyday", CurrencyCode: "USD", Version: 2}, nil).Once()

	updated, err := suite.service.UpdateAccount(suite.ctx, "device-2", "acc-1", dto.UpdateAccountRequest{Name: &newName})

	suite.Require().NoError(err)
	suite.Equal("Everyday", updated.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RenameToTakenName() {
	current := &domain.Account{AccountID: "acc-1", Name: "Joint", CurrencyCode: "USD"}
	taken := &domain.Account{AccountID: "acc-2", Name: "Everyday"}
	newName := "Everyday"

	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-1").Return(current, nil).Once()
	suite.mockRepo.On("FindAccountByName", suite.ctx, "Everyday").Return(taken, nil).Once()

	_, err := suite.service.UpdateAccount(suite.ctx, "device-2", "acc-1", dto.UpdateAccountRequest{Name: &newName})

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NotFound() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "acc-missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.UpdateAccount(suite.ctx, "device-2", "acc-missing", dto.UpdateAccountRequest{})

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_Success() {
	suite.mockRepo.On("DeleteAccount", suite.ctx, "acc-1").Return(nil).Once()

	err := suite.service.DeleteAccount(suite.ctx, "device-1", "acc-1")

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_NotFound() {
	suite.mockRepo.On("DeleteAccount", suite.ctx, "acc-missing").Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteAccount(suite.ctx, "device-1", "acc-missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}
