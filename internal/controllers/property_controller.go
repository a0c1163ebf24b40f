package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/rentowl/backend/internal/dtos"
	"github.com/rentowl/backend/internal/services"
	"github.com/rentowl/backend/internal/utils"
)

const maxMultipartMemory = 10 << 20 // 10 MiB

type PropertyController struct {
	propertyService *services.PropertyService
	validate        *validator.Validate
}

func NewPropertyController(ps *services.PropertyService) *PropertyController {
	return &PropertyController{
		propertyService: ps,
		validate:        validator.New(),
	}
}

// ----------------------------------------------------------------
// POST /api/properties
// ----------------------------------------------------------------
// The web client submits multipart/form-data with the unit blueprint
// in a JSON-encoded `units` field; API clients may post plain JSON.
func (c *PropertyController) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := authedUserID(w, r)
	if !ok {
		return
	}

	var req dtos.CreatePropertyRequest
	if isMultipart(r) {
		if err := decodeCreateForm(r, &req); err != nil {
			respondValidationError(w, err)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := c.propertyService.CreateProperty(r.Context(), landlordID, req)
	if err != nil {
		respondServiceError(w, err, "Failed to create property")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// ----------------------------------------------------------------
// PUT /api/properties/{id}
// ----------------------------------------------------------------
func (c *PropertyController) UpdatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := authedUserID(w, r)
	if !ok {
		return
	}
	propID, ok := pathUUID(w, mux.Vars(r), "id")
	if !ok {
		return
	}

	var req dtos.UpdatePropertyRequest
	if isMultipart(r) {
		if err := decodeUpdateForm(r, &req); err != nil {
			respondValidationError(w, err)
			return
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if err := c.validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := c.propertyService.UpdateProperty(r.Context(), landlordID, propID, req)
	if err != nil {
		respondServiceError(w, err, "Failed to update property")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/properties
// ----------------------------------------------------------------
func (c *PropertyController) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := authedUserID(w, r)
	if !ok {
		return
	}
	resp, err := c.propertyService.ListProperties(r.Context(), landlordID)
	if err != nil {
		respondServiceError(w, err, "Failed to list properties")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// GET /api/properties/{id}
// ----------------------------------------------------------------
func (c *PropertyController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := authedUserID(w, r)
	if !ok {
		return
	}
	propID, ok := pathUUID(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	resp, err := c.propertyService.GetProperty(r.Context(), landlordID, propID)
	if err != nil {
		respondServiceError(w, err, "Failed to load property")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// ----------------------------------------------------------------
// DELETE /api/properties/{id}
// ----------------------------------------------------------------
func (c *PropertyController) DeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	landlordID, ok := authedUserID(w, r)
	if !ok {
		return
	}
	propID, ok := pathUUID(w, mux.Vars(r), "id")
	if !ok {
		return
	}
	if err := c.propertyService.DeleteProperty(r.Context(), landlordID, propID); err != nil {
		respondServiceError(w, err, "Failed to delete property")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

/* ---------- multipart decoding ---------- */

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func decodeCreateForm(r *http.Request, req *dtos.CreatePropertyRequest) error {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return err
	}
	req.Name = r.FormValue("name")
	req.Address = r.FormValue("address")
	req.City = r.FormValue("city")

	var err error
	if req.Latitude, err = formFloat(r, "latitude"); err != nil {
		return err
	}
	if req.Longitude, err = formFloat(r, "longitude"); err != nil {
		return err
	}

	unitsJSON := r.FormValue("units")
	if unitsJSON == "" {
		return errors.New("missing units field")
	}
	return json.Unmarshal([]byte(unitsJSON), &req.Units)
}

func decodeUpdateForm(r *http.Request, req *dtos.UpdatePropertyRequest) error {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return err
	}
	if v := r.FormValue("name"); v != "" {
		req.Name = utils.Ptr(v)
	}
	if v := r.FormValue("address"); v != "" {
		req.Address = utils.Ptr(v)
	}
	if v := r.FormValue("city"); v != "" {
		req.City = utils.Ptr(v)
	}

	var err error
	if req.Latitude, err = formFloat(r, "latitude"); err != nil {
		return err
	}
	if req.Longitude, err = formFloat(r, "longitude"); err != nil {
		return err
	}

	if unitsJSON := r.FormValue("units"); unitsJSON != "" {
		if err := json.Unmarshal([]byte(unitsJSON), &req.Units); err != nil {
			return err
		}
	}
	return nil
}

func formFloat(r *http.Request, key string) (*float64, error) {
	v := r.FormValue(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
