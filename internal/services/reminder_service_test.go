package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rentowl/backend/internal/config"
	"github.com/rentowl/backend/internal/models"
)

func newReminderFixture(t *testing.T) (*ReminderService, *paymentFixture) {
	t.Helper()
	pf := newPaymentFixture(t, 5000, 5000)
	svc := NewReminderService(&config.Config{}, pf.tenantRepo, pf.propRepo, pf.paymentRepo, nil, nil)
	return svc, pf
}

func TestRentCycleNoRollWhileRentOpen(t *testing.T) {
	svc, pf := newReminderFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.RunDailyRentCycle(ctx))

	payments, err := pf.paymentRepo.ListByTenantID(ctx, pf.tenantID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
}

func TestRentCycleSeedsNextMonthAfterPaidDueDate(t *testing.T) {
	svc, pf := newReminderFixture(t)
	ctx := context.Background()

	// Settle everything and age the rent obligation past its due date.
	_, err := pf.svc.Allocate(ctx, pf.tenantID, pf.propID, 10000, true)
	require.NoError(t, err)
	pastDue := time.Now().UTC().AddDate(0, -1, 0)
	require.NoError(t, pf.paymentRepo.UpdateWithRetry(ctx, pf.rentID, func(p *models.Payment) error {
		p.DueDate = pastDue
		return nil
	}))

	require.NoError(t, svc.RunDailyRentCycle(ctx))

	next, err := pf.paymentRepo.FindOpenByType(ctx, pf.tenantID, pf.propID, models.PaymentTypeRent)
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Equal(t, int64(5000), next.Amount)
	require.Equal(t, firstOfNextMonth(pastDue), next.DueDate)

	// A second run does not double-seed.
	require.NoError(t, svc.RunDailyRentCycle(ctx))
	payments, err := pf.paymentRepo.ListByTenantID(ctx, pf.tenantID)
	require.NoError(t, err)
	require.Len(t, payments, 3)
}

func TestRentCycleAppliesBankedCredit(t *testing.T) {
	svc, pf := newReminderFixture(t)
	ctx := context.Background()

	// Overpay by 3000, then age the settled rent row.
	_, err := pf.svc.Allocate(ctx, pf.tenantID, pf.propID, 13000, true)
	require.NoError(t, err)
	require.NoError(t, pf.paymentRepo.UpdateWithRetry(ctx, pf.rentID, func(p *models.Payment) error {
		p.DueDate = time.Now().UTC().AddDate(0, -1, 0)
		return nil
	}))

	require.NoError(t, svc.RunDailyRentCycle(ctx))

	next, err := pf.paymentRepo.FindOpenByType(ctx, pf.tenantID, pf.propID, models.PaymentTypeRent)
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Equal(t, int64(3000), next.AmountPaid)
	require.Equal(t, models.PaymentStatusPartial, next.Status)

	tenant, err := pf.tenantRepo.GetByID(ctx, pf.tenantID)
	require.NoError(t, err)
	require.Equal(t, int64(0), tenant.Credit)
}

func TestRentCycleSkipsMovedOutTenants(t *testing.T) {
	svc, pf := newReminderFixture(t)
	ctx := context.Background()

	_, err := pf.svc.Allocate(ctx, pf.tenantID, pf.propID, 10000, true)
	require.NoError(t, err)
	require.NoError(t, pf.paymentRepo.UpdateWithRetry(ctx, pf.rentID, func(p *models.Payment) error {
		p.DueDate = time.Now().UTC().AddDate(0, -1, 0)
		return nil
	}))
	require.NoError(t, pf.tenantRepo.UpdateWithRetry(ctx, pf.tenantID, func(t *models.Tenant) error {
		now := time.Now().UTC()
		t.MovedOutAt = &now
		return nil
	}))

	require.NoError(t, svc.RunDailyRentCycle(ctx))

	payments, err := pf.paymentRepo.ListByTenantID(ctx, pf.tenantID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
}

func TestReminderDispatchRunsWithoutChannels(t *testing.T) {
	// Both messaging clients are nil; dispatch must still walk the due
	// list without panicking.
	svc, pf := newReminderFixture(t)
	ctx := context.Background()

	require.NoError(t, pf.paymentRepo.UpdateWithRetry(ctx, pf.rentID, func(p *models.Payment) error {
		p.DueDate = time.Now().UTC().AddDate(0, 0, 1)
		return nil
	}))
	require.NoError(t, svc.RunReminderDispatch(ctx))
}
