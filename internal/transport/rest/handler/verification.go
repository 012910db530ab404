package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pkgr6286/aegis-sub002/internal/service"
)

// VerificationHandler handles pharmacy-side code lookup
type VerificationHandler struct {
	verifySvc *service.VerificationService
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verifySvc *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verifySvc: verifySvc}
}

// Lookup handles GET /v1/verification-codes/{code}
func (h *VerificationHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	vc, err := h.verifySvc.Lookup(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if vc == nil {
		writeError(w, http.StatusNotFound, "verification code not found")
		return
	}

	writeJSON(w, http.StatusOK, vc)
}
