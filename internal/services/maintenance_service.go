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

type MaintenanceService struct {
	reqRepo    repositories.MaintenanceRequestRepository
	tenantRepo repositories.TenantRepository
	propRepo   repositories.PropertyRepository
}

func NewMaintenanceService(
	reqRepo repositories.MaintenanceRequestRepository,
	tenantRepo repositories.TenantRepository,
	propRepo repositories.PropertyRepository,
) *MaintenanceService {
	return &MaintenanceService{reqRepo: reqRepo, tenantRepo: tenantRepo, propRepo: propRepo}
}

// FileRequest opens a maintenance request against the tenant's unit.
func (s *MaintenanceService) FileRequest(ctx context.Context, req dtos.CreateMaintenanceRequest) (*dtos.MaintenanceRequestDTO, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant: %w", err)
	}
	if tenant == nil {
		return nil, utils.ErrTenantNotFound
	}
	if tenant.MovedOutAt != nil {
		return nil, utils.ErrTenantMovedOut
	}

	m := &models.MaintenanceRequest{
		ID:          uuid.New(),
		TenantID:    tenant.ID,
		PropertyID:  tenant.PropertyID,
		UnitLabel:   tenant.UnitLabel,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.MaintenanceStatusOpen,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.reqRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create maintenance request: %w", err)
	}
	return buildMaintenanceDTO(m), nil
}

// SetStatus moves a request along OPEN → IN_PROGRESS → RESOLVED.
// Reopening a resolved request is allowed; skipping the order is not a
// concern worth enforcing beyond the enum itself.
func (s *MaintenanceService) SetStatus(ctx context.Context, id uuid.UUID, newStatus models.MaintenanceStatusType) (*dtos.MaintenanceRequestDTO, error) {
	existing, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, utils.ErrRequestNotFound
	}

	var updated *models.MaintenanceRequest
	if err := s.reqRepo.UpdateWithRetry(ctx, id, func(m *models.MaintenanceRequest) error {
		m.Status = newStatus
		if newStatus == models.MaintenanceStatusResolved {
			now := time.Now().UTC()
			m.ResolvedAt = &now
		} else {
			m.ResolvedAt = nil
		}
		updated = m
		return nil
	}); err != nil {
		return nil, err
	}
	return buildMaintenanceDTO(updated), nil
}

// ListByProperty returns a property's maintenance requests, newest first.
func (s *MaintenanceService) ListByProperty(ctx context.Context, propID uuid.UUID) (*dtos.ListMaintenanceResponse, error) {
	prop, err := s.propRepo.GetByID(ctx, propID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, utils.ErrPropertyNotFound
	}
	list, err := s.reqRepo.ListByPropertyID(ctx, propID)
	if err != nil {
		return nil, err
	}
	results := make([]dtos.MaintenanceRequestDTO, 0, len(list))
	for _, m := range list {
		results = append(results, *buildMaintenanceDTO(m))
	}
	return &dtos.ListMaintenanceResponse{Results: results, Total: len(results)}, nil
}

func buildMaintenanceDTO(m *models.MaintenanceRequest) *dtos.MaintenanceRequestDTO {
	return &dtos.MaintenanceRequestDTO{
		ID:          m.ID,
		TenantID:    m.TenantID,
		PropertyID:  m.PropertyID,
		UnitLabel:   m.UnitLabel,
		Title:       m.Title,
		Description: m.Description,
		Status:      string(m.Status),
		ResolvedAt:  m.ResolvedAt,
		CreatedAt:   m.CreatedAt,
	}
}
