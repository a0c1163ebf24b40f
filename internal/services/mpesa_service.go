package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/repositories"
	"github.com/rentowl/backend/internal/utils"
	"github.com/rentowl/backend/internal/utils/daraja"
)

// StkPusher is the slice of the Daraja client the service needs.
type StkPusher interface {
	InitiateStkPush(ctx context.Context, phone string, amount int64, accountRef, desc string) (*daraja.StkPushResponse, error)
}

type MpesaService struct {
	txRepo     repositories.MpesaTransactionRepository
	tenantRepo repositories.TenantRepository
	payments   *PaymentService
	pusher     StkPusher
}

func NewMpesaService(
	txRepo repositories.MpesaTransactionRepository,
	tenantRepo repositories.TenantRepository,
	payments *PaymentService,
	pusher StkPusher,
) *MpesaService {
	return &MpesaService{
		txRepo:     txRepo,
		tenantRepo: tenantRepo,
		payments:   payments,
		pusher:     pusher,
	}
}

// InitiateStkPush sends the payment prompt to the tenant's phone and
// records a PENDING transaction keyed by Daraja's CheckoutRequestID.
func (s *MpesaService) InitiateStkPush(ctx context.Context, req dtos.StkPushRequest) (*dtos.StkPushResponse, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("load tenant: %w", err)
	}
	if tenant == nil || tenant.PropertyID != req.PropertyID {
		return nil, utils.ErrTenantNotFound
	}

	accountRef := tenant.UnitLabel
	pushResp, err := s.pusher.InitiateStkPush(ctx, req.PhoneNumber, req.Amount, accountRef, "RentOwl rent payment")
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, utils.ErrExternalServiceFailure)
	}

	tx := &models.MpesaTransaction{
		ID:                uuid.New(),
		TenantID:          req.TenantID,
		PropertyID:        req.PropertyID,
		CheckoutRequestID: pushResp.CheckoutRequestID,
		MerchantRequestID: pushResp.MerchantRequestID,
		PhoneNumber:       req.PhoneNumber,
		Amount:            req.Amount,
		ApplyDeposit:      req.ApplyDeposit,
		Status:            models.MpesaTransactionPending,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("record stk transaction: %w", err)
	}

	utils.Logger.Infof("STK push sent for tenant %s, checkout %s", req.TenantID, pushResp.CheckoutRequestID)
	return &dtos.StkPushResponse{
		TransactionID:     tx.ID,
		CheckoutRequestID: pushResp.CheckoutRequestID,
		CustomerMessage:   pushResp.CustomerMessage,
	}, nil
}

// HandleCallback settles a Daraja STK callback at most once. The
// transaction row is flipped out of PENDING under its row_version lock
// before any money moves, so a replayed callback finds a settled row
// and books nothing.
func (s *MpesaService) HandleCallback(ctx context.Context, cb dtos.StkCallback) error {
	tx, err := s.txRepo.FindByCheckoutRequestID(ctx, cb.CheckoutRequestID)
	if err != nil {
		return fmt.Errorf("find transaction: %w", err)
	}
	if tx == nil {
		return utils.ErrRequestNotFound
	}

	now := time.Now().UTC()
	newStatus := models.MpesaTransactionSettled
	if cb.ResultCode != 0 {
		newStatus = models.MpesaTransactionFailed
	}

	if err := s.txRepo.UpdateWithRetry(ctx, tx.ID, func(t *models.MpesaTransaction) error {
		if t.Status != models.MpesaTransactionPending {
			return utils.ErrTransactionSettled
		}
		t.Status = newStatus
		t.ResultCode = utils.Ptr(cb.ResultCode)
		t.ResultDesc = utils.Ptr(cb.ResultDesc)
		t.SettledAt = &now
		if receipt := callbackReceipt(cb.CallbackMetadata); receipt != "" {
			t.MpesaReceipt = &receipt
		}
		return nil
	}); err != nil {
		return err
	}

	if newStatus == models.MpesaTransactionFailed {
		utils.Logger.Warnf("STK push %s failed: %s", cb.CheckoutRequestID, cb.ResultDesc)
		return nil
	}

	amount := tx.Amount
	if cbAmount := callbackAmount(cb.CallbackMetadata); cbAmount > 0 {
		amount = cbAmount
	}
	split, err := s.payments.Allocate(ctx, tx.TenantID, tx.PropertyID, amount, tx.ApplyDeposit)
	if err != nil {
		return fmt.Errorf("allocate mpesa payment: %w", err)
	}
	utils.Logger.Infof(
		"Settled M-Pesa %s: deposit=%d rent=%d credit=%d",
		cb.CheckoutRequestID, split.DepositPaid, split.RentPaid, split.Overpayment,
	)
	return nil
}

/* ---------- internals ---------- */

func callbackAmount(meta dtos.CallbackMetadata) int64 {
	for _, item := range meta.Items {
		if item.Name != "Amount" {
			continue
		}
		if f, ok := item.Value.(float64); ok {
			return int64(math.Round(f))
		}
	}
	return 0
}

func callbackReceipt(meta dtos.CallbackMetadata) string {
	for _, item := range meta.Items {
		if item.Name != "MpesaReceiptNumber" {
			continue
		}
		if s, ok := item.Value.(string); ok {
			return s
		}
	}
	return ""
}
