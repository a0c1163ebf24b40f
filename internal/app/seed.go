package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/repositories"
	"github.com/rentowl/backend/internal/services"
	"github.com/rentowl/backend/internal/utils"
)

// Helper to check for unique violation error (PostgreSQL specific code)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Fixed IDs so re-runs find the existing rows instead of duplicating.
var (
	seedLandlordID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
)

// SeedAllTestData provisions a demo landlord, a labeled property and an
// occupied unit with open obligations. Safe to run repeatedly.
func SeedAllTestData(
	ctx context.Context,
	landlordRepo repositories.LandlordRepository,
	propertyService *services.PropertyService,
	tenantService *services.TenantService,
) error {
	if existing, err := landlordRepo.GetByID(ctx, seedLandlordID); err != nil {
		return fmt.Errorf("check existing seed landlord: %w", err)
	} else if existing != nil {
		utils.Logger.Info("Seed data already present; skipping seeding")
		return nil
	}

	landlord := &models.Landlord{
		ID:           seedLandlordID,
		Email:        "demo-landlord@rentowl.app",
		FirstName:    "Wanjiku",
		LastName:     "Kamau",
		BusinessName: "Kamau Holdings",
	}
	if err := landlordRepo.Create(ctx, landlord); err != nil {
		if isUniqueViolation(err) {
			utils.Logger.Info("Seed landlord already exists; skipping seeding")
			return nil
		}
		return fmt.Errorf("create seed landlord: %w", err)
	}

	propResp, err := propertyService.CreateProperty(ctx, seedLandlordID, dtos.CreatePropertyRequest{
		Name:      "Sunrise Apartments",
		Address:   "Thika Road, Nairobi",
		City:      "Nairobi",
		Latitude:  utils.Ptr(-1.2195),
		Longitude: utils.Ptr(36.8886),
		Units: []dtos.FloorBlueprint{
			{Units: []dtos.UnitBlueprint{
				{Type: "bedsitter", Rent: 12000},
				{Type: "bedsitter", Rent: 12000},
				{Type: "1 bedroom", Rent: 20000},
			}},
			{Units: []dtos.UnitBlueprint{
				{Type: "1 bedroom", Rent: 22000},
				{Type: "2 bedroom", Rent: 35000},
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create seed property: %w", err)
	}

	// Move a demo tenant into the first ground-floor bedsitter.
	if _, err := tenantService.CreateTenant(ctx, seedLandlordID, dtos.CreateTenantRequest{
		PropertyID:  propResp.ID,
		UnitLabel:   "GB1",
		FirstName:   "Otieno",
		LastName:    "Odhiambo",
		Email:       "demo-tenant@rentowl.app",
		PhoneNumber: utils.Ptr("+254700000001"),
	}); err != nil {
		return fmt.Errorf("create seed tenant: %w", err)
	}

	utils.Logger.Infof("Seeded demo property %s with tenant in GB1", propResp.ID)
	return nil
}
