package assets

import (
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/metadata"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) MaxAssetTag() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockAssetRepository) PersistAsset(req models.CreateAssetRequest, tag string, createdBy int, now time.Time) (int, error) {
	args := m.Called(req, tag, createdBy, now)
	return args.Int(0), args.Error(1)
}

func (m *MockAssetRepository) GetAsset(id int) (*models.Asset, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func (m *MockAssetRepository) GetAssets(filter models.AssetFilter) ([]models.Asset, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *MockAssetRepository) SearchAssets(q string, limit int) ([]models.AssetSummary, error) {
	args := m.Called(q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AssetSummary), args.Error(1)
}

func (m *MockAssetRepository) UpdateAsset(id int, req models.UpdateAssetRequest, now time.Time) error {
	args := m.Called(id, req, now)
	return args.Error(0)
}

func (m *MockAssetRepository) DeleteAsset(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepository) GetAssetStats() (*models.AssetStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssetStats), args.Error(1)
}

func (m *MockAssetRepository) WithinTransaction(fn func(tx *goqu.TxDatabase) error) error {
	args := m.Called(fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

func (m *MockAssetRepository) GetAssetPlacementForUpdate(tx *goqu.TxDatabase, id int) (*models.AssetPlacement, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AssetPlacement), args.Error(1)
}

func (m *MockAssetRepository) InsertMaintenanceEntry(tx *goqu.TxDatabase, assetID int, entry models.MaintenanceEntry) error {
	args := m.Called(tx, assetID, entry)
	return args.Error(0)
}

func (m *MockAssetRepository) SetAssetState(tx *goqu.TxDatabase, id int, status metadata.Status, condition metadata.Condition, now time.Time) error {
	args := m.Called(tx, id, status, condition, now)
	return args.Error(0)
}

func (m *MockAssetRepository) InsertMovementEntry(tx *goqu.TxDatabase, assetID int, entry models.MovementEntry) error {
	args := m.Called(tx, assetID, entry)
	return args.Error(0)
}

func (m *MockAssetRepository) SetAssetPlacement(tx *goqu.TxDatabase, id int, locationID int, department string, assignedTo *int, now time.Time) error {
	args := m.Called(tx, id, locationID, department, assignedTo, now)
	return args.Error(0)
}

func (m *MockAssetRepository) CategoryExists(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepository) LocationExists(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetRepository) UserExists(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

var testNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestService(repo AssetRepository) *AssetService {
	service := NewAssetService(repo)
	service.now = func() time.Time { return testNow }
	return service
}

func validCreateRequest() models.CreateAssetRequest {
	return models.CreateAssetRequest{
		SerialNumber: "SN-9001",
		Name:         "ThinkPad T14",
		CategoryID:   2,
		Brand:        "Lenovo",
		Model:        "T14 Gen 4",
		PurchaseDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Cost:         1450,
		Department:   "IT",
		LocationID:   1,
	}
}

func TestCreateAssetAllocatesNextTag(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	mockRepo.On("CategoryExists", 2).Return(true, nil)
	mockRepo.On("LocationExists", 1).Return(true, nil)
	mockRepo.On("MaxAssetTag").Return("AST-00041", nil).Once()
	mockRepo.On("PersistAsset", mock.Anything, "AST-00042", 5, testNow).Return(7, nil).Once()
	mockRepo.On("GetAsset", 7).Return(&models.Asset{ID: 7, AssetTag: "AST-00042"}, nil).Once()

	asset, err := service.CreateAsset(validCreateRequest(), 5)

	assert.NoError(t, err)
	assert.Equal(t, "AST-00042", asset.AssetTag)
	mockRepo.AssertExpectations(t)
}

func TestCreateAssetFirstTag(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	mockRepo.On("CategoryExists", 2).Return(true, nil)
	mockRepo.On("LocationExists", 1).Return(true, nil)
	mockRepo.On("MaxAssetTag").Return("", nil).Once()
	mockRepo.On("PersistAsset", mock.Anything, "AST-00001", 5, testNow).Return(1, nil).Once()
	mockRepo.On("GetAsset", 1).Return(&models.Asset{ID: 1, AssetTag: "AST-00001"}, nil).Once()

	asset, err := service.CreateAsset(validCreateRequest(), 5)

	assert.NoError(t, err)
	assert.Equal(t, "AST-00001", asset.AssetTag)
	mockRepo.AssertExpectations(t)
}

func TestCreateAssetRetriesTagAllocationOnRace(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	tagConflict := custom_error.NewUniqueViolation("duplicate asset tag", "asset_tag")

	mockRepo.On("CategoryExists", 2).Return(true, nil)
	mockRepo.On("LocationExists", 1).Return(true, nil)
	// another request claimed AST-00042 between the max read and the insert
	mockRepo.On("MaxAssetTag").Return("AST-00041", nil).Once()
	mockRepo.On("PersistAsset", mock.Anything, "AST-00042", 5, testNow).Return(0, tagConflict).Once()
	mockRepo.On("MaxAssetTag").Return("AST-00042", nil).Once()
	mockRepo.On("PersistAsset", mock.Anything, "AST-00043", 5, testNow).Return(9, nil).Once()
	mockRepo.On("GetAsset", 9).Return(&models.Asset{ID: 9, AssetTag: "AST-00043"}, nil).Once()

	asset, err := service.CreateAsset(validCreateRequest(), 5)

	assert.NoError(t, err)
	assert.Equal(t, "AST-00043", asset.AssetTag)
	mockRepo.AssertExpectations(t)
}

func TestCreateAssetSerialConflictIsNotRetried(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	serialConflict := custom_error.NewUniqueViolation("duplicate serial number", "serial_number")

	mockRepo.On("CategoryExists", 2).Return(true, nil)
	mockRepo.On("LocationExists", 1).Return(true, nil)
	mockRepo.On("MaxAssetTag").Return("AST-00041", nil).Once()
	mockRepo.On("PersistAsset", mock.Anything, "AST-00042", 5, testNow).Return(0, serialConflict).Once()

	_, err := service.CreateAsset(validCreateRequest(), 5)

	assert.Error(t, err)
	var uniqueErr *custom_error.UniqueViolationError
	assert.ErrorAs(t, err, &uniqueErr)
	assert.Equal(t, "serial_number", uniqueErr.Field())
	mockRepo.AssertNumberOfCalls(t, "PersistAsset", 1)
	mockRepo.AssertExpectations(t)
}

func TestCreateAssetSuppliedTagConflictIsNotRetried(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	tagConflict := custom_error.NewUniqueViolation("duplicate asset tag", "asset_tag")

	req := validCreateRequest()
	req.AssetTag = "AST-00100"

	mockRepo.On("CategoryExists", 2).Return(true, nil)
	mockRepo.On("LocationExists", 1).Return(true, nil)
	mockRepo.On("PersistAsset", mock.Anything, "AST-00100", 5, testNow).Return(0, tagConflict).Once()

	_, err := service.CreateAsset(req, 5)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "MaxAssetTag")
	mockRepo.AssertExpectations(t)
}

func TestCreateAssetRejectsUnknownCategory(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	mockRepo.On("CategoryExists", 2).Return(false, nil)

	_, err := service.CreateAsset(validCreateRequest(), 5)

	assert.ErrorIs(t, err, ErrInvalidCategory)
	mockRepo.AssertNotCalled(t, "PersistAsset")
}

func TestUpdateStatusAppendsGeneratedMaintenanceEntry(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	actorID := 11
	expectedEntry := models.MaintenanceEntry{
		Date:         testNow,
		Type:         "Status Update",
		Description:  "Status changed to Under repair, Condition: Fair",
		TechnicianID: &actorID,
	}

	mockRepo.On("WithinTransaction", mock.Anything).Return(nil)
	mockRepo.On("GetAssetPlacementForUpdate", mock.Anything, 3).
		Return(&models.AssetPlacement{ID: 3, LocationID: 1, Department: "IT"}, nil).Once()
	mockRepo.On("InsertMaintenanceEntry", mock.Anything, 3, expectedEntry).Return(nil).Once()
	mockRepo.On("SetAssetState", mock.Anything, 3, metadata.StatusUnderRepair, metadata.ConditionFair, testNow).Return(nil).Once()
	mockRepo.On("GetAsset", 3).Return(&models.Asset{ID: 3}, nil).Once()

	_, err := service.UpdateStatus(3, models.UpdateStatusRequest{
		Status:    "Under repair",
		Condition: "Fair",
	}, actorID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdateStatusKeepsCallerNotes(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	actorID := 11
	expectedEntry := models.MaintenanceEntry{
		Date:         testNow,
		Type:         "Status Update",
		Description:  "Screen replaced after drop",
		TechnicianID: &actorID,
	}

	mockRepo.On("WithinTransaction", mock.Anything).Return(nil)
	mockRepo.On("GetAssetPlacementForUpdate", mock.Anything, 3).
		Return(&models.AssetPlacement{ID: 3}, nil).Once()
	mockRepo.On("InsertMaintenanceEntry", mock.Anything, 3, expectedEntry).Return(nil).Once()
	mockRepo.On("SetAssetState", mock.Anything, 3, metadata.StatusInUse, metadata.ConditionGood, testNow).Return(nil).Once()
	mockRepo.On("GetAsset", 3).Return(&models.Asset{ID: 3}, nil).Once()

	_, err := service.UpdateStatus(3, models.UpdateStatusRequest{
		Status:    "In use",
		Condition: "Good",
		Notes:     "Screen replaced after drop",
	}, actorID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdateStatusUnknownAsset(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	mockRepo.On("WithinTransaction", mock.Anything).Return(nil)
	mockRepo.On("GetAssetPlacementForUpdate", mock.Anything, 99).Return(nil, nil).Once()

	_, err := service.UpdateStatus(99, models.UpdateStatusRequest{
		Status:    "In storage",
		Condition: "Good",
	}, 1)

	assert.ErrorIs(t, err, ErrAssetNotFound)
	mockRepo.AssertNotCalled(t, "InsertMaintenanceEntry")
	mockRepo.AssertNotCalled(t, "SetAssetState")
}

func TestMoveAssetCapturesPriorPlacement(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	previousUser := 4
	nextUser := 8

	mockRepo.On("LocationExists", 20).Return(true, nil)
	mockRepo.On("UserExists", nextUser).Return(true, nil)
	mockRepo.On("WithinTransaction", mock.Anything).Return(nil)
	mockRepo.On("GetAssetPlacementForUpdate", mock.Anything, 3).
		Return(&models.AssetPlacement{ID: 3, LocationID: 10, Department: "Finance", AssignedTo: &previousUser}, nil).Once()

	fromLocation := 10
	expectedEntry := models.MovementEntry{
		Date:           testNow,
		FromLocationID: &fromLocation,
		ToLocationID:   20,
		FromDepartment: "Finance",
		ToDepartment:   "IT",
		FromUserID:     &previousUser,
		ToUserID:       &nextUser,
		Reason:         "Team change",
		AuthorizedBy:   7,
	}
	mockRepo.On("InsertMovementEntry", mock.Anything, 3, expectedEntry).Return(nil).Once()
	mockRepo.On("SetAssetPlacement", mock.Anything, 3, 20, "IT", &nextUser, testNow).Return(nil).Once()
	mockRepo.On("GetAsset", 3).Return(&models.Asset{ID: 3}, nil).Once()

	_, err := service.MoveAsset(3, models.MoveAssetRequest{
		ToLocationID: 20,
		ToDepartment: "IT",
		ToUserID:     &nextUser,
		Reason:       "Team change",
	}, 7)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// Chained moves: the from side of each move must equal the to side of the
// previous one.
func TestMoveAssetChainsFromPreviousMove(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	mockRepo.On("LocationExists", mock.Anything).Return(true, nil)
	mockRepo.On("WithinTransaction", mock.Anything).Return(nil)
	mockRepo.On("GetAsset", 3).Return(&models.Asset{ID: 3}, nil)
	mockRepo.On("SetAssetPlacement", mock.Anything, 3, mock.Anything, mock.Anything, mock.Anything, testNow).Return(nil)

	var recorded []models.MovementEntry
	mockRepo.On("InsertMovementEntry", mock.Anything, 3, mock.Anything).
		Run(func(args mock.Arguments) {
			recorded = append(recorded, args.Get(2).(models.MovementEntry))
		}).
		Return(nil)

	// placement evolves exactly as the previous move committed it
	mockRepo.On("GetAssetPlacementForUpdate", mock.Anything, 3).
		Return(&models.AssetPlacement{ID: 3, LocationID: 1, Department: "IT"}, nil).Once()
	mockRepo.On("GetAssetPlacementForUpdate", mock.Anything, 3).
		Return(&models.AssetPlacement{ID: 3, LocationID: 2, Department: "Finance"}, nil).Once()
	mockRepo.On("GetAssetPlacementForUpdate", mock.Anything, 3).
		Return(&models.AssetPlacement{ID: 3, LocationID: 3, Department: "HR"}, nil).Once()

	moves := []models.MoveAssetRequest{
		{ToLocationID: 2, ToDepartment: "Finance"},
		{ToLocationID: 3, ToDepartment: "HR"},
		{ToLocationID: 4, ToDepartment: "Ops"},
	}
	for _, move := range moves {
		_, err := service.MoveAsset(3, move, 7)
		assert.NoError(t, err)
	}

	assert.Len(t, recorded, 3)
	for i := 1; i < len(recorded); i++ {
		assert.Equal(t, recorded[i-1].ToLocationID, *recorded[i].FromLocationID)
		assert.Equal(t, recorded[i-1].ToDepartment, recorded[i].FromDepartment)
	}
}

func TestMoveAssetRejectsUnknownLocation(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	mockRepo.On("LocationExists", 99).Return(false, nil)

	_, err := service.MoveAsset(3, models.MoveAssetRequest{ToLocationID: 99, ToDepartment: "IT"}, 7)

	assert.ErrorIs(t, err, ErrInvalidLocation)
	mockRepo.AssertNotCalled(t, "InsertMovementEntry")
	mockRepo.AssertNotCalled(t, "SetAssetPlacement")
}

func TestDepreciationForAsset(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	purchase := testNow.Add(-6 * 30 * 24 * time.Hour)
	mockRepo.On("GetAsset", 3).Return(&models.Asset{
		ID:                 3,
		Cost:               1200,
		PurchaseDate:       &purchase,
		DepreciationMethod: metadata.MethodStraightLine,
		UsefulLifeMonths:   24,
	}, nil).Once()

	result, err := service.Depreciation(3)

	assert.NoError(t, err)
	assert.Equal(t, 300.00, result.AccumulatedDepreciation)
	assert.Equal(t, 900.00, result.CurrentValue)
	assert.Equal(t, 6, result.MonthsInService)
}

func TestDepreciationUnknownAsset(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetAsset", 42).Return(nil, nil).Once()

	_, err := service.Depreciation(42)

	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestBarcodePayload(t *testing.T) {
	mockRepo := new(MockAssetRepository)
	service := newTestService(mockRepo)

	mockRepo.On("GetAsset", 3).Return(&models.Asset{
		ID:           3,
		AssetTag:     "AST-00003",
		Name:         "ThinkPad T14",
		SerialNumber: "SN-9001",
		Category:     models.Category{ID: 2, Name: "Laptops"},
		Status:       metadata.StatusInUse,
		Condition:    metadata.ConditionGood,
		MACAddress:   "00:1A:2B:3C:4D:5E",
		Engravement:  "ARPM-IT-3",
	}, nil).Once()

	payload, err := service.BarcodePayload(3)

	assert.NoError(t, err)
	assert.Equal(t, "AST-00003", payload.BarcodeText)
	assert.Equal(t, "Laptops", payload.QRData.Category)
	assert.Equal(t, "In use", payload.QRData.Status)
	assert.Equal(t, "SN-9001", payload.QRData.SerialNumber)
}
