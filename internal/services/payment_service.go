package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/repositories"
	"github.com/rentowl/backend/internal/utils"
)

type PaymentService struct {
	tenantRepo  repositories.TenantRepository
	propRepo    repositories.PropertyRepository
	paymentRepo repositories.PaymentRepository
}

func NewPaymentService(
	tenantRepo repositories.TenantRepository,
	propRepo repositories.PropertyRepository,
	paymentRepo repositories.PaymentRepository,
) *PaymentService {
	return &PaymentService{
		tenantRepo:  tenantRepo,
		propRepo:    propRepo,
		paymentRepo: paymentRepo,
	}
}

// Allocate settles an incoming amount against the tenant's open deposit
// and rent obligations and banks any surplus as tenant credit. Each
// obligation is settled through the repository's row_version CAS loop,
// so a concurrent manual entry and M-Pesa callback cannot lose an
// update; the booked amount is recomputed from the fresh row on every
// retry. Allocate is NOT idempotent: replaying the same request books
// the payment twice. Callers handling external transaction references
// must deduplicate before invoking it.
func (s *PaymentService) Allocate(
	ctx context.Context,
	tenantID, propertyID uuid.UUID,
	amount int64,
	applyDeposit bool,
) (*dtos.SplitSummary, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", utils.ErrInvalidAmount)
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant: %w", err)
	}
	if tenant == nil || tenant.PropertyID != propertyID {
		return nil, utils.ErrTenantNotFound
	}
	prop, err := s.propRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("load property: %w", err)
	}
	if prop == nil {
		return nil, utils.ErrPropertyNotFound
	}

	var split dtos.SplitSummary
	remaining := amount

	if applyDeposit {
		deposit, err := s.paymentRepo.FindOpenByType(ctx, tenantID, propertyID, models.PaymentTypeDeposit)
		if err != nil {
			return nil, fmt.Errorf("find open deposit: %w", err)
		}
		if deposit != nil {
			paid, remainingDue, err := s.settleObligation(ctx, deposit.ID, remaining)
			if err != nil {
				return nil, err
			}
			split.DepositPaid = paid
			split.DepositRemaining = remainingDue
			remaining -= paid
		}
	}

	rent, err := s.paymentRepo.FindOpenByType(ctx, tenantID, propertyID, models.PaymentTypeRent)
	if err != nil {
		return nil, fmt.Errorf("find open rent: %w", err)
	}
	if rent != nil {
		paid, remainingDue, err := s.settleObligation(ctx, rent.ID, remaining)
		if err != nil {
			return nil, err
		}
		split.RentPaid = paid
		split.RentRemaining = remainingDue
		remaining -= paid
	}

	if remaining > 0 {
		split.Overpayment = remaining
		if err := s.tenantRepo.AddCredit(ctx, tenantID, remaining); err != nil {
			return nil, fmt.Errorf("credit overpayment: %w", err)
		}
		utils.Logger.Infof("Banked overpayment of %d as credit for tenant %s", remaining, tenantID)
	}

	return &split, nil
}

// settleObligation books up to `remaining` against one payment row
// under the optimistic-lock loop. The mutate closure recomputes the
// booked amount from the stored row on every attempt, which is what
// keeps the booking correct when a concurrent allocation lands first.
func (s *PaymentService) settleObligation(ctx context.Context, paymentID uuid.UUID, remaining int64) (int64, int64, error) {
	var paid, remainingDue int64
	err := s.paymentRepo.UpdateWithRetry(ctx, paymentID, func(p *models.Payment) error {
		paid = applyToObligation(p, remaining, time.Now().UTC())
		remainingDue = p.Due()
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("settle payment %s: %w", paymentID, err)
	}
	return paid, remainingDue, nil
}

// PreviewSplit runs the allocator against copies of the open
// obligations without persisting anything.
func (s *PaymentService) PreviewSplit(
	ctx context.Context,
	tenantID, propertyID uuid.UUID,
	amount int64,
	applyDeposit bool,
) (*dtos.SplitSummary, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", utils.ErrInvalidAmount)
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant: %w", err)
	}
	if tenant == nil || tenant.PropertyID != propertyID {
		return nil, utils.ErrTenantNotFound
	}

	deposit, err := s.paymentRepo.FindOpenByType(ctx, tenantID, propertyID, models.PaymentTypeDeposit)
	if err != nil {
		return nil, err
	}
	rent, err := s.paymentRepo.FindOpenByType(ctx, tenantID, propertyID, models.PaymentTypeRent)
	if err != nil {
		return nil, err
	}

	var depCopy, rentCopy *models.Payment
	if deposit != nil {
		c := *deposit
		depCopy = &c
	}
	if rent != nil {
		c := *rent
		rentCopy = &c
	}
	split := SplitPayment(amount, depCopy, rentCopy, applyDeposit, time.Now().UTC())
	return &split, nil
}

// ListByTenant returns the tenant's full payment history.
func (s *PaymentService) ListByTenant(ctx context.Context, tenantID uuid.UUID) (*dtos.ListPaymentsResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, utils.ErrTenantNotFound
	}
	payments, err := s.paymentRepo.ListByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return buildPaymentsResponse(payments), nil
}

// ListByProperty returns all payments recorded for a property.
func (s *PaymentService) ListByProperty(ctx context.Context, propID uuid.UUID) (*dtos.ListPaymentsResponse, error) {
	prop, err := s.propRepo.GetByID(ctx, propID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, utils.ErrPropertyNotFound
	}
	payments, err := s.paymentRepo.ListByPropertyID(ctx, propID)
	if err != nil {
		return nil, err
	}
	return buildPaymentsResponse(payments), nil
}

// WritePropertyPaymentsCSV streams a property's payment history as CSV.
func (s *PaymentService) WritePropertyPaymentsCSV(ctx context.Context, propID uuid.UUID, w io.Writer) error {
	prop, err := s.propRepo.GetByID(ctx, propID)
	if err != nil {
		return err
	}
	if prop == nil {
		return utils.ErrPropertyNotFound
	}
	payments, err := s.paymentRepo.ListByPropertyID(ctx, propID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"payment_id", "tenant_id", "type", "amount", "amount_paid", "status", "due_date", "payment_date"}); err != nil {
		return err
	}
	for _, p := range payments {
		paymentDate := ""
		if p.PaymentDate != nil {
			paymentDate = p.PaymentDate.Format(time.RFC3339)
		}
		if err := cw.Write([]string{
			p.ID.String(),
			p.TenantID.String(),
			string(p.Type),
			strconv.FormatInt(p.Amount, 10),
			strconv.FormatInt(p.AmountPaid, 10),
			string(p.Status),
			p.DueDate.Format(time.RFC3339),
			paymentDate,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func buildPaymentsResponse(payments []*models.Payment) *dtos.ListPaymentsResponse {
	results := make([]dtos.PaymentDTO, 0, len(payments))
	for _, p := range payments {
		results = append(results, dtos.PaymentDTO{
			ID:          p.ID,
			TenantID:    p.TenantID,
			PropertyID:  p.PropertyID,
			Type:        string(p.Type),
			Amount:      p.Amount,
			AmountPaid:  p.AmountPaid,
			Status:      string(p.Status),
			DueDate:     p.DueDate,
			PaymentDate: p.PaymentDate,
		})
	}
	return &dtos.ListPaymentsResponse{Results: results, Total: len(results)}
}
