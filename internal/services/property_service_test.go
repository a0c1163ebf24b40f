package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/utils"
)

func newPropertyService() (*PropertyService, *fakePropertyRepo, *fakeUnitRepo) {
	propRepo := newFakePropertyRepo()
	unitRepo := newFakeUnitRepo()
	return NewPropertyService(propRepo, unitRepo), propRepo, unitRepo
}

func sunriseRequest() dtos.CreatePropertyRequest {
	return dtos.CreatePropertyRequest{
		Name:    "Sunrise Apartments",
		Address: "Thika Road, Nairobi",
		City:    "Nairobi",
		Units: []dtos.FloorBlueprint{
			{Units: []dtos.UnitBlueprint{
				{Type: "bedsitter", Rent: 12000},
				{Type: "bedsitter", Rent: 12000},
			}},
			{Units: []dtos.UnitBlueprint{
				{Type: "1 bedroom", Rent: 20000},
			}},
		},
	}
}

func TestCreatePropertyGeneratesLabeledInventory(t *testing.T) {
	svc, _, _ := newPropertyService()
	landlordID := uuid.New()

	resp, err := svc.CreateProperty(context.Background(), landlordID, sunriseRequest())
	require.NoError(t, err)
	require.Len(t, resp.Units, 2)

	require.Equal(t, "Ground", resp.Units[0].Floor)
	require.Equal(t, "First", resp.Units[1].Floor)

	var labels []string
	for _, fg := range resp.Units {
		for _, u := range fg.Units {
			labels = append(labels, u.Label)
			require.Equal(t, string(models.UnitStatusVacant), u.Status)
		}
	}
	require.Equal(t, []string{"GB1", "GB2", "F1B1"}, labels)
}

func TestCreatePropertyDerivesTimezoneFromCoordinates(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	req := sunriseRequest()
	req.Latitude = utils.Ptr(-1.2921)
	req.Longitude = utils.Ptr(36.8219)
	resp, err := svc.CreateProperty(context.Background(), uuid.New(), req)
	require.NoError(t, err)

	stored, err := propRepo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Equal(t, "Africa/Nairobi", stored.TimeZone)
}

func TestCreatePropertyRejectsEmptyInventory(t *testing.T) {
	svc, _, _ := newPropertyService()

	req := sunriseRequest()
	req.Units = nil
	_, err := svc.CreateProperty(context.Background(), uuid.New(), req)
	require.ErrorIs(t, err, utils.ErrMalformedUnits)
}

func TestUpdatePropertyRegeneratesUnitsWholesale(t *testing.T) {
	svc, _, unitRepo := newPropertyService()
	landlordID := uuid.New()
	ctx := context.Background()

	resp, err := svc.CreateProperty(ctx, landlordID, sunriseRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateProperty(ctx, landlordID, resp.ID, dtos.UpdatePropertyRequest{
		Units: []dtos.FloorBlueprint{
			{Units: []dtos.UnitBlueprint{{Type: "2 bedroom", Rent: 30000}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Units, 1)
	require.Equal(t, "G2B1", updated.Units[0].Units[0].Label)

	// Old rows are gone, not merged.
	units, err := unitRepo.ListByPropertyID(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, units, 1)
}

func TestUpdatePropertyRefusedWhileOccupied(t *testing.T) {
	svc, _, unitRepo := newPropertyService()
	landlordID := uuid.New()
	ctx := context.Background()

	resp, err := svc.CreateProperty(ctx, landlordID, sunriseRequest())
	require.NoError(t, err)

	units, err := unitRepo.ListByPropertyID(ctx, resp.ID)
	require.NoError(t, err)
	tenantID := uuid.New()
	require.NoError(t, unitRepo.UpdateWithRetry(ctx, units[0].ID, func(u *models.Unit) error {
		u.Status = models.UnitStatusOccupied
		u.TenantID = &tenantID
		return nil
	}))

	_, err = svc.UpdateProperty(ctx, landlordID, resp.ID, dtos.UpdatePropertyRequest{
		Units: []dtos.FloorBlueprint{
			{Units: []dtos.UnitBlueprint{{Type: "bedsitter", Rent: 10000}}},
		},
	})
	require.ErrorIs(t, err, utils.ErrUnitsOccupied)
}

func TestUpdatePropertyFieldsOnlyKeepsUnits(t *testing.T) {
	svc, _, unitRepo := newPropertyService()
	landlordID := uuid.New()
	ctx := context.Background()

	resp, err := svc.CreateProperty(ctx, landlordID, sunriseRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateProperty(ctx, landlordID, resp.ID, dtos.UpdatePropertyRequest{
		Name: utils.Ptr("Sunset Apartments"),
	})
	require.NoError(t, err)
	require.Equal(t, "Sunset Apartments", updated.Name)

	units, err := unitRepo.ListByPropertyID(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, units, 3)
}

func TestPropertyAccessScopedToLandlord(t *testing.T) {
	svc, _, _ := newPropertyService()
	landlordID := uuid.New()
	ctx := context.Background()

	resp, err := svc.CreateProperty(ctx, landlordID, sunriseRequest())
	require.NoError(t, err)

	_, err = svc.GetProperty(ctx, uuid.New(), resp.ID)
	require.ErrorIs(t, err, utils.ErrPropertyNotFound)

	_, err = svc.GetProperty(ctx, landlordID, resp.ID)
	require.NoError(t, err)
}

func TestDeletePropertyIsSoft(t *testing.T) {
	svc, _, _ := newPropertyService()
	landlordID := uuid.New()
	ctx := context.Background()

	resp, err := svc.CreateProperty(ctx, landlordID, sunriseRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProperty(ctx, landlordID, resp.ID))

	_, err = svc.GetProperty(ctx, landlordID, resp.ID)
	require.ErrorIs(t, err, utils.ErrPropertyNotFound)
}
