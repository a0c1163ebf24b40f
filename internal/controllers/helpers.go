package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/middleware"
	"github.com/rentowl/backend/internal/utils"
)

// formatValidationErrors converts validator errors into a user-friendly format.
func formatValidationErrors(errs validator.ValidationErrors) []dtos.ValidationErrorDetail {
	var details []dtos.ValidationErrorDetail
	for _, err := range errs {
		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", err.Field())
		case "email":
			message = fmt.Sprintf("Field '%s' must be a valid email address", err.Field())
		case "e164":
			message = fmt.Sprintf("Field '%s' must be an E.164 phone number", err.Field())
		case "min":
			message = fmt.Sprintf("Field '%s' must be at least %s in length", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("Field '%s' must not exceed %s in length", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("Field '%s' must be one of [%s]", err.Field(), err.Param())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
		}
		details = append(details, dtos.ValidationErrorDetail{
			Field:   err.Field(),
			Message: message,
			Code:    "validation_" + err.Tag(),
		})
	}
	return details
}

// respondValidationError handles both struct-level validator output and
// malformed-JSON decode failures with one call site per handler.
func respondValidationError(w http.ResponseWriter, err error) {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Validation failed", formatValidationErrors(validationErrs),
		)
		return
	}
	utils.RespondErrorWithCode(
		w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid request payload", nil, err,
	)
}

// respondServiceError maps sentinel errors onto the HTTP contract.
func respondServiceError(w http.ResponseWriter, err error, publicMessage string) {
	switch {
	case errors.Is(err, utils.ErrInvalidAmount),
		errors.Is(err, utils.ErrInvalidPayload),
		errors.Is(err, utils.ErrMalformedUnits):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, err.Error(), nil, err)
	case errors.Is(err, utils.ErrPropertyNotFound),
		errors.Is(err, utils.ErrTenantNotFound),
		errors.Is(err, utils.ErrUnitNotFound),
		errors.Is(err, utils.ErrRequestNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), nil, err)
	case errors.Is(err, utils.ErrRowVersionConflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict, "Concurrent update, please retry", nil, err)
	case errors.Is(err, utils.ErrUnitOccupied),
		errors.Is(err, utils.ErrUnitsOccupied),
		errors.Is(err, utils.ErrTenantMovedOut),
		errors.Is(err, utils.ErrWrongStatus),
		errors.Is(err, utils.ErrNoOpenObligation),
		errors.Is(err, utils.ErrTransactionExists),
		errors.Is(err, utils.ErrTransactionSettled):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, err.Error(), nil, err)
	case errors.Is(err, utils.ErrExternalServiceFailure):
		utils.RespondErrorWithCode(w, http.StatusBadGateway, utils.ErrCodeExternalService, "Upstream service failure", nil, err)
	default:
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, publicMessage, nil, err)
	}
}

// authedUserID pulls the authenticated subject out of the request
// context and parses it as a UUID.
func authedUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sub, ok := middleware.UserID(r)
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No userID in context", nil,
		)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Malformed userID in token", nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses the {id} path variable set by gorilla/mux.
func pathUUID(w http.ResponseWriter, vars map[string]string, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(vars[key])
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			fmt.Sprintf("Invalid %s in path", key), nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}
