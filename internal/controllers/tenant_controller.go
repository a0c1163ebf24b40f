package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/services"
	"github.com/rentowl/backend/internal/utils"
)

type TenantController struct {
	tenantService *services.TenantService
	validate      *validator.Validate
}

func NewTenantController(ts *services.TenantService) *TenantController {
	return &TenantController{
		tenantService: ts,
		validate:      validator.New(),
	}
}

// ----------------------------------------------------------------
// POST /api/tenants
// ----------------------------------------------------------------
func (c *TenantController) CreateTenantHandler(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := authedUserID(w, r)
	if !ok {
		return
	}

	var req dtos.CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, err)
		return
	}
	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := c.tenantService.CreateTenant(r.Context(), landlordID, req)
	if err != nil {
		respondServiceError(w, err, "Failed to create tenant")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// ----------------------------------------------------------------
// POST /api/tenants/{id}/move-out
// ----------------------------------------------------------------
func (c *TenantController) MoveOutHandler(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := authedUserID(w, r)
	if !ok {
		return
	}
	tenantID, ok := pathUUID(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	if err := c.tenantService.MoveOut(r.Context(), landlordID, tenantID); err != nil {
		respondServiceError(w, err, "Failed to move tenant out")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ----------------------------------------------------------------
// GET /api/properties/{id}/tenants
// ----------------------------------------------------------------
func (c *TenantController) ListByPropertyHandler(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := authedUserID(w, r)
	if !ok {
		return
	}
	propID, ok := pathUUID(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	resp, err := c.tenantService.ListByProperty(r.Context(), landlordID, propID)
	if err != nil {
		respondServiceError(w, err, "Failed to list tenants")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
