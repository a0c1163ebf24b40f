package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/repositories"
	"github.com/rentowl/backend/internal/utils"
)

type TenantService struct {
	tenantRepo  repositories.TenantRepository
	propRepo    repositories.PropertyRepository
	unitRepo    repositories.UnitRepository
	paymentRepo repositories.PaymentRepository
}

func NewTenantService(
	tenantRepo repositories.TenantRepository,
	propRepo repositories.PropertyRepository,
	unitRepo repositories.UnitRepository,
	paymentRepo repositories.PaymentRepository,
) *TenantService {
	return &TenantService{
		tenantRepo:  tenantRepo,
		propRepo:    propRepo,
		unitRepo:    unitRepo,
		paymentRepo: paymentRepo,
	}
}

// CreateTenant assigns a new tenant into a vacant unit identified by
// label. The unit's rent is copied onto the tenant (deposit defaults to
// equal rent), the unit flips to OCCUPIED under its row_version lock so
// two assignments cannot both win it, and the opening deposit + rent
// obligations are seeded.
func (s *TenantService) CreateTenant(
	ctx context.Context,
	landlordID uuid.UUID,
	req dtos.CreateTenantRequest,
) (*dtos.TenantResponse, error) {
	prop, err := s.propRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, fmt.Errorf("load property: %w", err)
	}
	if prop == nil || prop.LandlordID != landlordID {
		return nil, utils.ErrPropertyNotFound
	}

	unit, err := s.unitRepo.FindByLabel(ctx, req.PropertyID, req.UnitLabel)
	if err != nil {
		return nil, fmt.Errorf("find unit: %w", err)
	}
	if unit == nil {
		return nil, utils.ErrUnitNotFound
	}

	tenantID := uuid.New()
	now := time.Now().UTC()

	// Claim the unit first; the CAS update makes a double-assignment
	// lose with ErrUnitOccupied instead of silently overwriting.
	if err := s.unitRepo.UpdateWithRetry(ctx, unit.ID, func(u *models.Unit) error {
		if u.Status == models.UnitStatusOccupied && (u.TenantID == nil || *u.TenantID != tenantID) {
			return utils.ErrUnitOccupied
		}
		u.Status = models.UnitStatusOccupied
		u.TenantID = &tenantID
		return nil
	}); err != nil {
		return nil, err
	}

	deposit := unit.Rent
	if req.Deposit != nil {
		deposit = *req.Deposit
	}
	tenant := &models.Tenant{
		ID:          tenantID,
		PropertyID:  req.PropertyID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		UnitLabel:   unit.Label,
		UnitType:    unit.UnitType,
		FloorName:   unit.FloorName,
		Rent:        unit.Rent,
		Deposit:     deposit,
		MovedInAt:   now,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}

	dueDate := firstOfNextMonth(now)
	if req.DueDate != nil {
		dueDate = req.DueDate.UTC()
	}
	seed := []*models.Payment{
		{
			ID:         uuid.New(),
			TenantID:   tenantID,
			PropertyID: req.PropertyID,
			Type:       models.PaymentTypeDeposit,
			Amount:     deposit,
			Status:     models.PaymentStatusUnpaid,
			DueDate:    dueDate,
		},
		{
			ID:         uuid.New(),
			TenantID:   tenantID,
			PropertyID: req.PropertyID,
			Type:       models.PaymentTypeRent,
			Amount:     unit.Rent,
			Status:     models.PaymentStatusUnpaid,
			DueDate:    dueDate,
		},
	}
	for _, p := range seed {
		if err := s.paymentRepo.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("seed %s payment: %w", p.Type, err)
		}
	}

	utils.Logger.Infof("Assigned tenant %s to unit %s in property %s", tenantID, unit.Label, req.PropertyID)
	return buildTenantResponse(tenant), nil
}

// MoveOut vacates the tenant's unit and stamps the move-out time. The
// tenant record and payment history are kept.
func (s *TenantService) MoveOut(ctx context.Context, landlordID, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return utils.ErrTenantNotFound
	}
	prop, err := s.propRepo.GetByID(ctx, tenant.PropertyID)
	if err != nil {
		return err
	}
	if prop == nil || prop.LandlordID != landlordID {
		return utils.ErrTenantNotFound
	}
	if tenant.MovedOutAt != nil {
		return utils.ErrTenantMovedOut
	}

	unit, err := s.unitRepo.FindByLabel(ctx, tenant.PropertyID, tenant.UnitLabel)
	if err != nil {
		return err
	}
	if unit != nil && unit.TenantID != nil && *unit.TenantID == tenantID {
		if err := s.unitRepo.UpdateWithRetry(ctx, unit.ID, func(u *models.Unit) error {
			u.Status = models.UnitStatusVacant
			u.TenantID = nil
			return nil
		}); err != nil {
			return err
		}
	}

	return s.tenantRepo.UpdateWithRetry(ctx, tenantID, func(t *models.Tenant) error {
		now := time.Now().UTC()
		t.MovedOutAt = &now
		return nil
	})
}

// ListByProperty returns the tenants of one owned property.
func (s *TenantService) ListByProperty(ctx context.Context, landlordID, propID uuid.UUID) (*dtos.ListTenantsResponse, error) {
	prop, err := s.propRepo.GetByID(ctx, propID)
	if err != nil {
		return nil, err
	}
	if prop == nil || prop.LandlordID != landlordID {
		return nil, utils.ErrPropertyNotFound
	}
	tenants, err := s.tenantRepo.ListByPropertyID(ctx, propID)
	if err != nil {
		return nil, err
	}
	results := make([]dtos.TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		results = append(results, *buildTenantResponse(t))
	}
	return &dtos.ListTenantsResponse{Results: results, Total: len(results)}, nil
}

/* ---------- internals ---------- */

func firstOfNextMonth(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

func buildTenantResponse(t *models.Tenant) *dtos.TenantResponse {
	return &dtos.TenantResponse{
		ID:          t.ID,
		PropertyID:  t.PropertyID,
		FirstName:   t.FirstName,
		LastName:    t.LastName,
		Email:       t.Email,
		PhoneNumber: t.PhoneNumber,
		UnitLabel:   t.UnitLabel,
		UnitType:    t.UnitType,
		FloorName:   t.FloorName,
		Rent:        t.Rent,
		Deposit:     t.Deposit,
		Credit:      t.Credit,
		MovedInAt:   t.MovedInAt,
		MovedOutAt:  t.MovedOutAt,
	}
}
