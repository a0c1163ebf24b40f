package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/models"
	"github.com/rentowl/backend/internal/services"
	"github.com/rentowl/backend/internal/utils"
)

type MaintenanceController struct {
	maintenanceService *services.MaintenanceService
	validate           *validator.Validate
}

func NewMaintenanceController(ms *services.MaintenanceService) *MaintenanceController {
	return &MaintenanceController{
		maintenanceService: ms,
		validate:           validator.New(),
	}
}

// ----------------------------------------------------------------
// POST /api/maintenance
// ----------------------------------------------------------------
func (c *MaintenanceController) FileRequestHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUserID(w, r); !ok {
		return
	}

	var req dtos.CreateMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := c.maintenanceService.FileRequest(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "Failed to file maintenance request")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// ----------------------------------------------------------------
// PATCH /api/maintenance/{id}
// ----------------------------------------------------------------
func (c *MaintenanceController) SetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUserID(w, r); !ok {
		return
	}
	reqID, ok := pathUUID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	var req dtos.SetMaintenanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := c.maintenanceService.SetStatus(r.Context(), reqID, models.MaintenanceStatusType(req.NewStatus))
	if err != nil {
		respondServiceError(w, err, "Failed to update maintenance request")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/properties/{id}/maintenance
// ----------------------------------------------------------------
func (c *MaintenanceController) ListByPropertyHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := authedUserID(w, r); !ok {
		return
	}
	propID, ok := pathUUID(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	resp, err := c.maintenanceService.ListByProperty(r.Context(), propID)
	if err != nil {
		respondServiceError(w, err, "Failed to list maintenance requests")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
