package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/services"
	"github.com/rentowl/backend/internal/utils"
)

type MpesaController struct {
	mpesaService *services.MpesaService
	validate     *validator.Validate
}

func NewMpesaController(ms *services.MpesaService) *MpesaController {
	return &MpesaController{
		mpesaService: ms,
		validate:     validator.New(),
	}
}

// ----------------------------------------------------------------
// POST /api/mpesa/stkpush
// ----------------------------------------------------------------
func (c *MpesaController) StkPushHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUserID(w, r); !ok {
		return
	}

	var req dtos.StkPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := c.mpesaService.InitiateStkPush(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "Failed to initiate STK push")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// POST /api/mpesa/callback  (public, Safaricom posts here)
// ----------------------------------------------------------------
// Daraja expects a 200 acknowledgement; anything else triggers replays.
// A replayed or late callback therefore still acks once the transaction
// row exists, the at-most-once guard lives in the service.
func (c *MpesaController) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	var envelope dtos.StkCallbackEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Malformed callback body", nil, err,
		)
		return
	}

	cb := envelope.Body.StkCallback
	err := c.mpesaService.HandleCallback(r.Context(), cb)
	switch {
	case err == nil, errors.Is(err, utils.ErrTransactionSettled):
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{
			"ResultCode": 0,
			"ResultDesc": "Accepted",
		})
	case errors.Is(err, utils.ErrRequestNotFound):
		utils.Logger.Warnf("Callback for unknown checkout %s", cb.CheckoutRequestID)
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound, "Unknown transaction", nil, err,
		)
	default:
		respondServiceError(w, err, "Failed to process callback")
	}
}
