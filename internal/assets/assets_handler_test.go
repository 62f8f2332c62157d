package assets

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/luganzimathiasjoseph/ARPM/pkg/auditlog"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) PersistAuditEntry(entry models.AuditEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func newTestAuditLog() *auditlog.Auditlog {
	sink := new(MockAuditSink)
	sink.On("PersistAuditEntry", mock.Anything).Return(nil).Maybe()
	return auditlog.NewAuditLog(sink, zap.NewNop())
}

func init() {
	// mirrors the startup configuration in main: typed request structs are
	// the whole contract, unexpected keys are a client error
	gin.EnableJsonDecoderDisallowUnknownFields()
}

func setupHandlerContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", "5")
	c.Set("role", "admin")
	c.Request = httptest.NewRequest(http.MethodPost, "/assets", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestCreateAssetRejectsUnknownFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockAssetRepository)
	handler := &AssetHandler{Service: newTestService(mockRepo), Repository: mockRepo}

	body := `{
		"serialNumber": "SN-9000",
		"name": "Laptop",
		"category": 1,
		"brand": "Lenovo",
		"model": "T14",
		"purchaseDate": "2025-01-10T00:00:00Z",
		"department": "IT",
		"location": 2,
		"thisFieldDoesNotExist": "smuggled"
	}`
	c, w := setupHandlerContext(body)

	handler.CreateAsset(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request payload")
	mockRepo.AssertNotCalled(t, "PersistAsset")
	mockRepo.AssertNotCalled(t, "MaxAssetTag")
}

func TestUpdateAssetStatusRejectsUnknownFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockAssetRepository)
	handler := &AssetHandler{Service: newTestService(mockRepo), Repository: mockRepo}

	c, w := setupHandlerContext(`{"status": "In use", "condition": "Good", "note": "typo for notes"}`)
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.UpdateAssetStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "WithinTransaction")
}

func TestCreateAssetAcceptsKnownFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockAssetRepository)
	handler := &AssetHandler{Service: newTestService(mockRepo), Repository: mockRepo, AuditLog: newTestAuditLog()}

	mockRepo.On("CategoryExists", 1).Return(true, nil)
	mockRepo.On("LocationExists", 2).Return(true, nil)
	mockRepo.On("MaxAssetTag").Return("AST-00012", nil)
	mockRepo.On("PersistAsset", mock.Anything, "AST-00013", 5, mock.Anything).Return(44, nil)
	mockRepo.On("GetAsset", 44).Return(&models.Asset{ID: 44, AssetTag: "AST-00013"}, nil)

	body := `{
		"serialNumber": "SN-9000",
		"name": "Laptop",
		"category": 1,
		"brand": "Lenovo",
		"model": "T14",
		"purchaseDate": "2025-01-10T00:00:00Z",
		"department": "IT",
		"location": 2
	}`
	c, w := setupHandlerContext(body)

	handler.CreateAsset(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "AST-00013")
}
