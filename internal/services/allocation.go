package services

import (
	"time"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/models"
)

// applyToObligation books up to `remaining` against the obligation,
// mutating AmountPaid, Status and PaymentDate in place, and returns the
// amount actually booked. A settled or nil obligation books nothing.
func applyToObligation(p *models.Payment, remaining int64, now time.Time) int64 {
	if p == nil || remaining <= 0 {
		return 0
	}
	due := p.Due()
	if due == 0 {
		return 0
	}
	paid := remaining
	if due < paid {
		paid = due
	}
	p.AmountPaid += paid
	if p.AmountPaid >= p.Amount {
		p.Status = models.PaymentStatusPaid
	} else {
		p.Status = models.PaymentStatusPartial
	}
	t := now
	p.PaymentDate = &t
	return paid
}

// SplitPayment distributes one incoming amount across the open deposit
// and rent obligations, mutating them in place. Deposit is settled
// first, and only when applyDeposit is true; when it is false the whole
// amount goes to rent and any surplus becomes overpayment even with a
// deposit still outstanding. Conservation always holds:
//
//	DepositPaid + RentPaid + Overpayment == amount
func SplitPayment(amount int64, deposit, rent *models.Payment, applyDeposit bool, now time.Time) dtos.SplitSummary {
	var split dtos.SplitSummary

	remaining := amount
	if applyDeposit && deposit != nil {
		split.DepositPaid = applyToObligation(deposit, remaining, now)
		remaining -= split.DepositPaid
	}
	if rent != nil {
		split.RentPaid = applyToObligation(rent, remaining, now)
		remaining -= split.RentPaid
	}
	if remaining > 0 {
		split.Overpayment = remaining
	}

	if deposit != nil {
		split.DepositRemaining = deposit.Due()
	}
	if rent != nil {
		split.RentRemaining = rent.Due()
	}
	return split
}
