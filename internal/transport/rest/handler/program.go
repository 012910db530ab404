package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/screening"
	"github.com/pkgr6286/aegis-sub002/internal/service"
	"github.com/pkgr6286/aegis-sub002/internal/transport/rest/middleware"
)

// ProgramHandler handles drug-program admin endpoints
type ProgramHandler struct {
	programSvc *service.ProgramService
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(programSvc *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programSvc: programSvc}
}

// CreateProgramRequest is the request body for creating or updating a
// program definition
type CreateProgramRequest struct {
	Name        string            `json:"name"`
	DrugName    string            `json:"drugName"`
	Description string            `json:"description"`
	Catalog     screening.Catalog `json:"catalog"`
}

// Create handles POST /v1/programs
func (h *ProgramHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	program := &model.Program{
		TenantID:    tenantID,
		Name:        req.Name,
		DrugName:    req.DrugName,
		Description: req.Description,
		Catalog:     req.Catalog,
	}

	id, err := h.programSvc.Create(r.Context(), program)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"programId": id})
}

// Get handles GET /v1/programs/{programId}
func (h *ProgramHandler) Get(w http.ResponseWriter, r *http.Request) {
	programID := mux.Vars(r)["programId"]
	tenantID := middleware.GetTenantID(r.Context())

	program, err := h.programSvc.GetByID(r.Context(), programID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if program == nil || program.TenantID != tenantID {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}

	writeJSON(w, http.StatusOK, program)
}

// List handles GET /v1/programs
func (h *ProgramHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	programs, err := h.programSvc.GetByTenant(r.Context(), tenantID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"programs": programs})
}

// Update handles PUT /v1/programs/{programId}
func (h *ProgramHandler) Update(w http.ResponseWriter, r *http.Request) {
	programID := mux.Vars(r)["programId"]
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	program := &model.Program{
		ID:          programID,
		TenantID:    tenantID,
		Name:        req.Name,
		DrugName:    req.DrugName,
		Description: req.Description,
		Catalog:     req.Catalog,
	}

	if err := h.programSvc.Update(r.Context(), program); err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, program)
}

// Publish handles POST /v1/programs/{programId}/publish
func (h *ProgramHandler) Publish(w http.ResponseWriter, r *http.Request) {
	programID := mux.Vars(r)["programId"]
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	program, err := h.programSvc.Publish(r.Context(), programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, program)
}
