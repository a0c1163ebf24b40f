package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/utils"
)

type tenantFixture struct {
	tenantRepo  *fakeTenantRepo
	propRepo    *fakePropertyRepo
	unitRepo    *fakeUnitRepo
	paymentRepo *fakePaymentRepo
	svc         *TenantService

	landlordID uuid.UUID
	propID     uuid.UUID
	unitID     uuid.UUID
}

func newTenantFixture(t *testing.T) *tenantFixture {
	t.Helper()
	f := &tenantFixture{
		tenantRepo:  newFakeTenantRepo(),
		propRepo:    newFakePropertyRepo(),
		unitRepo:    newFakeUnitRepo(),
		paymentRepo: newFakePaymentRepo(),
		landlordID:  uuid.New(),
		propID:      uuid.New(),
		unitID:      uuid.New(),
	}
	f.svc = NewTenantService(f.tenantRepo, f.propRepo, f.unitRepo, f.paymentRepo)

	ctx := context.Background()
	require.NoError(t, f.propRepo.Create(ctx, &models.Property{
		ID:         f.propID,
		LandlordID: f.landlordID,
		Name:       "Sunrise Apartments",
	}))
	require.NoError(t, f.unitRepo.CreateMany(ctx, []models.Unit{{
		ID:         f.unitID,
		PropertyID: f.propID,
		FloorIndex: 0,
		FloorName:  "Ground",
		UnitType:   "bedsitter",
		Label:      "GB1",
		Rent:       12000,
		Status:     models.UnitStatusVacant,
	}}))
	return f
}

func createReq(f *tenantFixture) dtos.CreateTenantRequest {
	return dtos.CreateTenantRequest{
		PropertyID: f.propID,
		UnitLabel:  "GB1",
		FirstName:  "Otieno",
		LastName:   "Odhiambo",
		Email:      "otieno@example.com",
	}
}

func TestCreateTenantAssignsUnitAndSeedsObligations(t *testing.T) {
	f := newTenantFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CreateTenant(ctx, f.landlordID, createReq(f))
	require.NoError(t, err)
	require.Equal(t, "GB1", resp.UnitLabel)
	require.Equal(t, int64(12000), resp.Rent)
	// Deposit defaults to the unit's rent.
	require.Equal(t, int64(12000), resp.Deposit)

	unit, err := f.unitRepo.GetByID(ctx, f.unitID)
	require.NoError(t, err)
	require.Equal(t, models.UnitStatusOccupied, unit.Status)
	require.NotNil(t, unit.TenantID)
	require.Equal(t, resp.ID, *unit.TenantID)

	deposit, err := f.paymentRepo.FindOpenByType(ctx, resp.ID, f.propID, models.PaymentTypeDeposit)
	require.NoError(t, err)
	require.NotNil(t, deposit)
	require.Equal(t, int64(12000), deposit.Amount)

	rent, err := f.paymentRepo.FindOpenByType(ctx, resp.ID, f.propID, models.PaymentTypeRent)
	require.NoError(t, err)
	require.NotNil(t, rent)
	require.Equal(t, int64(12000), rent.Amount)
	// Obligations land on the first of the next month.
	require.Equal(t, 1, rent.DueDate.Day())
	require.True(t, rent.DueDate.After(time.Now().UTC()))
}

func TestCreateTenantExplicitDeposit(t *testing.T) {
	f := newTenantFixture(t)

	req := createReq(f)
	req.Deposit = utils.Ptr(int64(8000))
	resp, err := f.svc.CreateTenant(context.Background(), f.landlordID, req)
	require.NoError(t, err)
	require.Equal(t, int64(8000), resp.Deposit)
}

func TestCreateTenantOccupiedUnitLoses(t *testing.T) {
	f := newTenantFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTenant(ctx, f.landlordID, createReq(f))
	require.NoError(t, err)

	req := createReq(f)
	req.Email = "second@example.com"
	_, err = f.svc.CreateTenant(ctx, f.landlordID, req)
	require.ErrorIs(t, err, utils.ErrUnitOccupied)
}

func TestCreateTenantUnknownUnit(t *testing.T) {
	f := newTenantFixture(t)

	req := createReq(f)
	req.UnitLabel = "GB9"
	_, err := f.svc.CreateTenant(context.Background(), f.landlordID, req)
	require.ErrorIs(t, err, utils.ErrUnitNotFound)
}

func TestCreateTenantForeignLandlord(t *testing.T) {
	f := newTenantFixture(t)

	_, err := f.svc.CreateTenant(context.Background(), uuid.New(), createReq(f))
	require.ErrorIs(t, err, utils.ErrPropertyNotFound)
}

func TestMoveOutVacatesUnit(t *testing.T) {
	f := newTenantFixture(t)
	ctx := context.Background()

	resp, err := f.svc.CreateTenant(ctx, f.landlordID, createReq(f))
	require.NoError(t, err)

	require.NoError(t, f.svc.MoveOut(ctx, f.landlordID, resp.ID))

	unit, err := f.unitRepo.GetByID(ctx, f.unitID)
	require.NoError(t, err)
	require.Equal(t, models.UnitStatusVacant, unit.Status)
	require.Nil(t, unit.TenantID)

	tenant, err := f.tenantRepo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, tenant.MovedOutAt)

	// A second move-out is refused.
	require.ErrorIs(t, f.svc.MoveOut(ctx, f.landlordID, resp.ID), utils.ErrTenantMovedOut)
}

func TestMoveOutUnknownTenant(t *testing.T) {
	f := newTenantFixture(t)
	require.ErrorIs(t, f.svc.MoveOut(context.Background(), f.landlordID, uuid.New()), utils.ErrTenantNotFound)
}

func TestListByPropertyScopedToLandlord(t *testing.T) {
	f := newTenantFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTenant(ctx, f.landlordID, createReq(f))
	require.NoError(t, err)

	resp, err := f.svc.ListByProperty(ctx, f.landlordID, f.propID)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)

	_, err = f.svc.ListByProperty(ctx, uuid.New(), f.propID)
	require.ErrorIs(t, err, utils.ErrPropertyNotFound)
}
