package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bradfitz/latlong"
	"github.com/google/uuid"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/repositories"
	"github.com/rentowl/backend/internal/utils"
)

// DefaultTimeZone is used when a property has no coordinates to derive
// a zone from. The platform launched in Kenya.
const DefaultTimeZone = "Africa/Nairobi"

type PropertyService struct {
	propRepo repositories.PropertyRepository
	unitRepo repositories.UnitRepository
}

func NewPropertyService(
	propRepo repositories.PropertyRepository,
	unitRepo repositories.UnitRepository,
) *PropertyService {
	return &PropertyService{propRepo: propRepo, unitRepo: unitRepo}
}

// CreateProperty persists the property and its generated, labeled unit
// inventory. Labels are assigned once here and never recomputed.
func (s *PropertyService) CreateProperty(
	ctx context.Context,
	landlordID uuid.UUID,
	req dtos.CreatePropertyRequest,
) (*dtos.PropertyResponse, error) {
	labeled, err := GenerateUnitLabels(req.Units)
	if err != nil {
		return nil, err
	}

	prop := &models.Property{
		ID:         uuid.New(),
		LandlordID: landlordID,
		Name:       req.Name,
		Address:    req.Address,
		City:       req.City,
		TimeZone:   DefaultTimeZone,
		CreatedAt:  time.Now().UTC(),
	}
	if req.Latitude != nil && req.Longitude != nil {
		prop.Latitude = *req.Latitude
		prop.Longitude = *req.Longitude
		if zone := latlong.LookupZoneName(prop.Latitude, prop.Longitude); zone != "" {
			prop.TimeZone = zone
		}
	}

	if err := s.propRepo.Create(ctx, prop); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	units := buildUnitRows(prop.ID, labeled)
	if err := s.unitRepo.CreateMany(ctx, units); err != nil {
		return nil, fmt.Errorf("create units: %w", err)
	}

	utils.Logger.Infof("Created property %s with %d units", prop.ID, len(units))
	return s.buildPropertyResponse(ctx, prop)
}

// UpdateProperty applies field changes and, when a unit inventory is
// submitted, replaces the whole inventory with freshly generated
// labels. Replacement is wholesale, never a merge, and is refused while
// any unit is occupied so tenant-unit links cannot dangle.
func (s *PropertyService) UpdateProperty(
	ctx context.Context,
	landlordID, propID uuid.UUID,
	req dtos.UpdatePropertyRequest,
) (*dtos.PropertyResponse, error) {
	prop, err := s.ownedProperty(ctx, landlordID, propID)
	if err != nil {
		return nil, err
	}

	var labeled []LabeledUnit
	if req.Units != nil {
		labeled, err = GenerateUnitLabels(req.Units)
		if err != nil {
			return nil, err
		}
		occupied, err := s.unitRepo.CountOccupiedByPropertyID(ctx, propID)
		if err != nil {
			return nil, err
		}
		if occupied > 0 {
			return nil, fmt.Errorf("%d units still occupied: %w", occupied, utils.ErrUnitsOccupied)
		}
	}

	if err := s.propRepo.UpdateWithRetry(ctx, propID, func(p *models.Property) error {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Address != nil {
			p.Address = *req.Address
		}
		if req.City != nil {
			p.City = *req.City
		}
		if req.Latitude != nil && req.Longitude != nil {
			p.Latitude = *req.Latitude
			p.Longitude = *req.Longitude
			if zone := latlong.LookupZoneName(p.Latitude, p.Longitude); zone != "" {
				p.TimeZone = zone
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}

	if req.Units != nil {
		if err := s.unitRepo.DeleteByPropertyID(ctx, propID); err != nil {
			return nil, fmt.Errorf("clear units: %w", err)
		}
		if err := s.unitRepo.CreateMany(ctx, buildUnitRows(propID, labeled)); err != nil {
			return nil, fmt.Errorf("regenerate units: %w", err)
		}
		utils.Logger.Infof("Regenerated %d units for property %s", len(labeled), propID)
	}

	prop, err = s.propRepo.GetByID(ctx, propID)
	if err != nil || prop == nil {
		return nil, utils.ErrPropertyNotFound
	}
	return s.buildPropertyResponse(ctx, prop)
}

// GetProperty returns one property with its floor-grouped inventory.
func (s *PropertyService) GetProperty(ctx context.Context, landlordID, propID uuid.UUID) (*dtos.PropertyResponse, error) {
	prop, err := s.ownedProperty(ctx, landlordID, propID)
	if err != nil {
		return nil, err
	}
	return s.buildPropertyResponse(ctx, prop)
}

// ListProperties returns the landlord's portfolio.
func (s *PropertyService) ListProperties(ctx context.Context, landlordID uuid.UUID) (*dtos.ListPropertiesResponse, error) {
	props, err := s.propRepo.ListByLandlordID(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	results := make([]dtos.PropertyResponse, 0, len(props))
	for _, p := range props {
		resp, err := s.buildPropertyResponse(ctx, p)
		if err != nil {
			return nil, err
		}
		results = append(results, *resp)
	}
	return &dtos.ListPropertiesResponse{Results: results, Total: len(results)}, nil
}

// DeleteProperty soft-deletes; units are never deleted individually.
func (s *PropertyService) DeleteProperty(ctx context.Context, landlordID, propID uuid.UUID) error {
	if _, err := s.ownedProperty(ctx, landlordID, propID); err != nil {
		return err
	}
	return s.propRepo.SoftDelete(ctx, propID)
}

/* ---------- internals ---------- */

func (s *PropertyService) ownedProperty(ctx context.Context, landlordID, propID uuid.UUID) (*models.Property, error) {
	prop, err := s.propRepo.GetByID(ctx, propID)
	if err != nil {
		return nil, fmt.Errorf("load property: %w", err)
	}
	if prop == nil || prop.LandlordID != landlordID {
		return nil, utils.ErrPropertyNotFound
	}
	return prop, nil
}

func (s *PropertyService) buildPropertyResponse(ctx context.Context, prop *models.Property) (*dtos.PropertyResponse, error) {
	units, err := s.unitRepo.ListByPropertyID(ctx, prop.ID)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return &dtos.PropertyResponse{
		ID:        prop.ID,
		Name:      prop.Name,
		Address:   prop.Address,
		City:      prop.City,
		TimeZone:  prop.TimeZone,
		Units:     dtos.GroupUnitsByFloor(units),
		CreatedAt: prop.CreatedAt,
	}, nil
}

func buildUnitRows(propID uuid.UUID, labeled []LabeledUnit) []models.Unit {
	units := make([]models.Unit, 0, len(labeled))
	for i, lu := range labeled {
		units = append(units, models.Unit{
			ID:         uuid.New(),
			PropertyID: propID,
			FloorIndex: int16(lu.FloorIndex),
			FloorName:  lu.FloorName,
			Position:   i,
			UnitType:   lu.UnitType,
			Label:      lu.Label,
			Rent:       lu.Rent,
			Status:     models.UnitStatusVacant,
		})
	}
	return units
}
