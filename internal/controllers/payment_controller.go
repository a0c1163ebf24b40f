package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/services"
	"github.com/rentowl/backend/internal/utils"
)

type PaymentController struct {
	paymentService *services.PaymentService
	validate       *validator.Validate
}

func NewPaymentController(ps *services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: ps,
		validate:       validator.New(),
	}
}

// ----------------------------------------------------------------
// POST /api/payments/manual
// ----------------------------------------------------------------
// Records an off-platform payment (cash, bank transfer) and runs it
// through the allocator.
func (c *PaymentController) ManualPaymentHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUserID(w, r); !ok {
		return
	}

	var req dtos.ManualPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	split, err := c.paymentService.Allocate(r.Context(), req.TenantID, req.PropertyID, req.Amount, req.ApplyDeposit)
	if err != nil {
		respondServiceError(w, err, "Failed to record payment")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ManualPaymentResponse{
		Success:      true,
		SplitSummary: *split,
	})
}

// ----------------------------------------------------------------
// POST /api/payments/preview
// ----------------------------------------------------------------
// Dry-runs the allocator without persisting anything.
func (c *PaymentController) PreviewPaymentHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUserID(w, r); !ok {
		return
	}

	var req dtos.ManualPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	split, err := c.paymentService.PreviewSplit(r.Context(), req.TenantID, req.PropertyID, req.Amount, req.ApplyDeposit)
	if err != nil {
		respondServiceError(w, err, "Failed to preview payment")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, split)
}

// ----------------------------------------------------------------
// GET /api/tenants/{id}/payments
// ----------------------------------------------------------------
func (c *PaymentController) ListByTenantHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUserID(w, r); !ok {
		return
	}
	tenantID, ok := pathUUID(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	resp, err := c.paymentService.ListByTenant(r.Context(), tenantID)
	if err != nil {
		respondServiceError(w, err, "Failed to list payments")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/properties/{id}/payments
// ----------------------------------------------------------------
func (c *PaymentController) ListByPropertyHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUserID(w, r); !ok {
		return
	}
	propID, ok := pathUUID(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	resp, err := c.paymentService.ListByProperty(r.Context(), propID)
	if err != nil {
		respondServiceError(w, err, "Failed to list payments")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/properties/{id}/payments/export
// ----------------------------------------------------------------
func (c *PaymentController) ExportByPropertyHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUserID(w, r); !ok {
		return
	}
	propID, ok := pathUUID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := c.paymentService.WritePropertyPaymentsCSV(r.Context(), propID, &buf); err != nil {
		respondServiceError(w, err, "Failed to export payments")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payments-%s.csv", propID))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		utils.Logger.WithError(err).Errorf("CSV export write failed for property=%s", propID)
	}
}
