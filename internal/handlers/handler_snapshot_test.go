package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hearthfin/hearth_finance_app/internal/apperrors"
	"github.com/hearthfin/hearth_finance_app/internal/core/domain"
	portssvc "github.com/hearthfin/hearth_finance_app/internal/core/ports/services"
	"github.com/hearthfin/hearth_finance_app/internal/dto"
	"github.com/hearthfin/hearth_finance_app/internal/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) Export(ctx context.Context, actor string) (*domain.Snapshot, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotService) Import(ctx context.Context, actor string, snap domain.Snapshot) error {
	args := m.Called(ctx, actor, snap)
	return args.Error(0)
}

var _ portssvc.SnapshotSvcFacade = (*MockSnapshotService)(nil)

const testImportTimeout = 250 * time.Millisecond

type SnapshotHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	mockSvc *MockSnapshotService
}

func (suite *SnapshotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockSvc = new(MockSnapshotService)

	// Inject the actor directly instead of running the full token middleware.
	group := suite.router.Group("/api/v1/sync", func(c *gin.Context) {
		c.Request = c.Request.WithContext(middleware.WithActor(c.Request.Context(), "device-1"))
		c.Next()
	})
	registerSnapshotRoutes(group, suite.mockSvc, testImportTimeout)
}

func TestSnapshotHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SnapshotHandlerTestSuite))
}

func (suite *SnapshotHandlerTestSuite) importBody() *bytes.Buffer {
	body, err := json.Marshal(dto.ImportSnapshotRequest{
		SchemaVersion: 1,
		Accounts:      []domain.Account{},
		Categories:    []domain.Category{},
		Rules:         []domain.AutomationRule{},
		Transactions:  []domain.Transaction{},
	})
	suite.Require().NoError(err)
	return bytes.NewBuffer(body)
}

func (suite *SnapshotHandlerTestSuite) TestImport_AppliesConfiguredTimeout() {
	suite.mockSvc.On("Import",
		mock.MatchedBy(func(ctx context.Context) bool {
			deadline, ok := ctx.Deadline()
			return ok && time.Until(deadline) <= testImportTimeout
		}),
		"device-1", mock.Anything,
	).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/import", suite.importBody())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestImport_ValidationFailureIsBadRequest() {
	suite.mockSvc.On("Import", mock.Anything, "device-1", mock.Anything).
		Return(apperrors.ErrValidation).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/import", suite.importBody())
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockSvc.AssertExpectations(suite.T())
}

func (suite *SnapshotHandlerTestSuite) TestExport_ReturnsSnapshot() {
	snap := &domain.Snapshot{
		SchemaVersion: 1,
		ExportedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Accounts:      []domain.Account{{AccountID: "acc-1", Name: "Joint"}},
	}
	suite.mockSvc.On("Export", mock.Anything, "device-1").Return(snap, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/export", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SnapshotResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.SchemaVersion)
	suite.Len(resp.Accounts, 1)
	suite.mockSvc.AssertExpectations(suite.T())
}
