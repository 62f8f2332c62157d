package assets

import (
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/luganzimathiasjoseph/ARPM/pkg/depreciation"
	custom_error "github.com/luganzimathiasjoseph/ARPM/pkg/errors"
	"github.com/luganzimathiasjoseph/ARPM/pkg/metadata"
	"github.com/luganzimathiasjoseph/ARPM/pkg/models"
)

var (
	ErrAssetNotFound   = errors.New("asset not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidLocation = errors.New("invalid location")
	ErrInvalidAssignee = errors.New("invalid assignee")
	ErrValidation      = errors.New("validation failed")
)

// Two concurrent creations can compute the same next tag; the uniqueness
// constraint turns that race into a retriable conflict rather than a silent
// duplicate, so allocation is re-run a bounded number of times.
const maxTagAllocationAttempts = 3

// AssetService owns the asset lifecycle: tag allocation, ledger appends and
// the state transitions that go with them. The clock is injectable so
// timestamp behaviour is testable; every mutation touches updated_at
// explicitly through it.
type AssetService struct {
	repo AssetRepository
	now  func() time.Time
}

func NewAssetService(repo AssetRepository) *AssetService {
	return &AssetService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *AssetService) CreateAsset(req models.CreateAssetRequest, actorID int) (*models.Asset, error) {
	if err := s.validateReferences(req.CategoryID, req.LocationID, req.AssignedTo); err != nil {
		return nil, err
	}

	applyAssetDefaults(&req)

	if _, err := metadata.NewStatus(req.Status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := metadata.NewCondition(req.Condition); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if _, err := metadata.NewDepreciationMethod(req.DepreciationMethod); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	tagSupplied := req.AssetTag != ""
	now := s.now()

	for attempt := 0; attempt < maxTagAllocationAttempts; attempt++ {
		tag := req.AssetTag
		if !tagSupplied {
			lastTag, err := s.repo.MaxAssetTag()
			if err != nil {
				return nil, err
			}
			tag = metadata.NextAssetTag(lastTag)
		}

		id, err := s.repo.PersistAsset(req, tag, actorID, now)
		if err == nil {
			return s.repo.GetAsset(id)
		}

		var uniqueErr *custom_error.UniqueViolationError
		if errors.As(err, &uniqueErr) && uniqueErr.Field() == "asset_tag" && !tagSupplied {
			// lost the allocation race, recompute from the new max
			continue
		}

		return nil, err
	}

	return nil, fmt.Errorf("exhausted asset tag allocation after %d attempts", maxTagAllocationAttempts)
}

func applyAssetDefaults(req *models.CreateAssetRequest) {
	if req.Status == "" {
		req.Status = string(metadata.StatusInUse)
	}
	if req.Condition == "" {
		req.Condition = string(metadata.ConditionGood)
	}
	if req.DepreciationMethod == "" {
		req.DepreciationMethod = string(metadata.MethodStraightLine)
	}
	if req.UsefulLifeMonths == 0 {
		req.UsefulLifeMonths = 60
	}
}

func (s *AssetService) UpdateAsset(assetID int, req models.UpdateAssetRequest) (*models.Asset, error) {
	existing, err := s.repo.GetAsset(assetID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrAssetNotFound
	}

	if req.CategoryID != nil {
		if ok, err := s.repo.CategoryExists(*req.CategoryID); err != nil {
			return nil, err
		} else if !ok {
			return nil, ErrInvalidCategory
		}
	}
	if req.LocationID != nil {
		if ok, err := s.repo.LocationExists(*req.LocationID); err != nil {
			return nil, err
		} else if !ok {
			return nil, ErrInvalidLocation
		}
	}
	if req.DepreciationMethod != nil {
		if _, err := metadata.NewDepreciationMethod(*req.DepreciationMethod); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	if req.HasChanges() {
		if err := s.repo.UpdateAsset(assetID, req, s.now()); err != nil {
			return nil, err
		}
	}

	return s.repo.GetAsset(assetID)
}

// UpdateStatus transitions status and condition and appends the implicit
// "Status Update" maintenance entry. The entry timestamp is server assigned;
// when the caller supplies no notes the description is generated.
func (s *AssetService) UpdateStatus(assetID int, req models.UpdateStatusRequest, actorID int) (*models.Asset, error) {
	status, err := metadata.NewStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	condition, err := metadata.NewCondition(req.Condition)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now()
	description := req.Notes
	if description == "" {
		description = fmt.Sprintf("Status changed to %s, Condition: %s", status, condition)
	}

	entry := models.MaintenanceEntry{
		Date:         now,
		Type:         "Status Update",
		Description:  description,
		TechnicianID: &actorID,
	}

	err = s.repo.WithinTransaction(func(tx *goqu.TxDatabase) error {
		placement, err := s.repo.GetAssetPlacementForUpdate(tx, assetID)
		if err != nil {
			return err
		}
		if placement == nil {
			return ErrAssetNotFound
		}

		if err := s.repo.InsertMaintenanceEntry(tx, assetID, entry); err != nil {
			return err
		}

		return s.repo.SetAssetState(tx, assetID, status, condition, now)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetAsset(assetID)
}

// MoveAsset appends a movement entry and commits the new placement in the
// same transaction. The entry's from fields are the placement read under
// lock, so for any sequence of moves the from side of move N+1 equals the to
// side of move N.
func (s *AssetService) MoveAsset(assetID int, req models.MoveAssetRequest, actorID int) (*models.Asset, error) {
	if ok, err := s.repo.LocationExists(req.ToLocationID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidLocation
	}
	if req.ToUserID != nil {
		if ok, err := s.repo.UserExists(*req.ToUserID); err != nil {
			return nil, err
		} else if !ok {
			return nil, ErrInvalidAssignee
		}
	}

	now := s.now()

	err := s.repo.WithinTransaction(func(tx *goqu.TxDatabase) error {
		placement, err := s.repo.GetAssetPlacementForUpdate(tx, assetID)
		if err != nil {
			return err
		}
		if placement == nil {
			return ErrAssetNotFound
		}

		entry := models.MovementEntry{
			Date:           now,
			FromLocationID: &placement.LocationID,
			ToLocationID:   req.ToLocationID,
			FromDepartment: placement.Department,
			ToDepartment:   req.ToDepartment,
			FromUserID:     placement.AssignedTo,
			ToUserID:       req.ToUserID,
			Reason:         req.Reason,
			AuthorizedBy:   actorID,
		}

		if err := s.repo.InsertMovementEntry(tx, assetID, entry); err != nil {
			return err
		}

		return s.repo.SetAssetPlacement(tx, assetID, req.ToLocationID, req.ToDepartment, req.ToUserID, now)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetAsset(assetID)
}

// Depreciation computes the on-demand depreciation view; nothing is
// persisted.
func (s *AssetService) Depreciation(assetID int) (*depreciation.Result, error) {
	asset, err := s.repo.GetAsset(assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrAssetNotFound
	}

	result := depreciation.Calculate(
		asset.Cost,
		asset.PurchaseDate,
		asset.DepreciationMethod,
		asset.UsefulLifeMonths,
		s.now(),
	)

	return &result, nil
}

// BarcodePayload shapes the data a client-side barcode/QR generator needs.
func (s *AssetService) BarcodePayload(assetID int) (*models.BarcodePayload, error) {
	asset, err := s.repo.GetAsset(assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrAssetNotFound
	}

	return &models.BarcodePayload{
		BarcodeText: asset.AssetTag,
		QRData: models.QRData{
			ID:           asset.ID,
			AssetTag:     asset.AssetTag,
			Name:         asset.Name,
			SerialNumber: asset.SerialNumber,
			Category:     asset.Category.Name,
			Status:       string(asset.Status),
			Condition:    string(asset.Condition),
			MACAddress:   asset.MACAddress,
			Engravement:  asset.Engravement,
		},
	}, nil
}

func (s *AssetService) validateReferences(categoryID, locationID int, assignedTo *int) error {
	if ok, err := s.repo.CategoryExists(categoryID); err != nil {
		return err
	} else if !ok {
		return ErrInvalidCategory
	}

	if ok, err := s.repo.LocationExists(locationID); err != nil {
		return err
	} else if !ok {
		return ErrInvalidLocation
	}

	if assignedTo != nil {
		if ok, err := s.repo.UserExists(*assignedTo); err != nil {
			return err
		} else if !ok {
			return ErrInvalidAssignee
		}
	}

	return nil
}
