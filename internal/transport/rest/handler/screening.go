package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/screening/fastpath"
	"github.com/pkgr6286/aegis-sub002/internal/service"
	"github.com/pkgr6286/aegis-sub002/internal/transport/rest/middleware"
)

// ScreeningHandler handles consumer screening-session endpoints
type ScreeningHandler struct {
	screeningSvc *service.ScreeningService
}

// NewScreeningHandler creates a new screening handler
func NewScreeningHandler(screeningSvc *service.ScreeningService) *ScreeningHandler {
	return &ScreeningHandler{screeningSvc: screeningSvc}
}

// Start handles POST /v1/programs/{programId}/screenings
func (h *ScreeningHandler) Start(w http.ResponseWriter, r *http.Request) {
	programID := mux.Vars(r)["programId"]

	resp, err := h.screeningSvc.StartSession(r.Context(), programID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, service.ErrProgramNotActive) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// CurrentQuestion handles GET /v1/screenings/question/current
func (h *ScreeningHandler) CurrentQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	resp, err := h.screeningSvc.CurrentQuestion(r.Context(), sessionID)
	if err != nil {
		writeScreeningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SubmitAnswer handles POST /v1/screenings/answers
func (h *ScreeningHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var req model.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.screeningSvc.SubmitAnswer(r.Context(), sessionID, &req)
	if err != nil {
		writeScreeningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Back handles POST /v1/screenings/back
func (h *ScreeningHandler) Back(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	resp, err := h.screeningSvc.GoBack(r.Context(), sessionID)
	if err != nil {
		writeScreeningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Restart handles POST /v1/screenings/restart
func (h *ScreeningHandler) Restart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	resp, err := h.screeningSvc.Restart(r.Context(), sessionID)
	if err != nil {
		writeScreeningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Progress handles GET /v1/screenings/progress
func (h *ScreeningHandler) Progress(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	resp, err := h.screeningSvc.Progress(r.Context(), sessionID)
	if err != nil {
		writeScreeningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Submit handles POST /v1/screenings/submit
func (h *ScreeningHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	resp, err := h.screeningSvc.SubmitScreening(r.Context(), sessionID)
	if err != nil {
		writeScreeningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// FastPathStart handles POST /v1/screenings/fastpath/start
func (h *ScreeningHandler) FastPathStart(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	resp, err := h.screeningSvc.StartFastPath(r.Context(), sessionID)
	if err != nil {
		writeScreeningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// FastPathCallback handles POST /v1/screenings/{sessionId}/fastpath/callback.
// The external connector posts the authorized payload here; the route is
// unauthenticated because the connector holds no consumer token.
func (h *ScreeningHandler) FastPathCallback(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req model.FastPathCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.screeningSvc.DeliverFastPath(r.Context(), sessionID, fastpath.Payload(req.Payload)); err != nil {
		writeScreeningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "delivered"})
}

// FastPathCancel handles POST /v1/screenings/fastpath/cancel
func (h *ScreeningHandler) FastPathCancel(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	if err := h.screeningSvc.CancelFastPath(r.Context(), sessionID); err != nil {
		writeScreeningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// FastPathConfirm handles POST /v1/screenings/fastpath/confirm
func (h *ScreeningHandler) FastPathConfirm(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var req model.FastPathConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.screeningSvc.ConfirmFastPath(r.Context(), sessionID, req.Accept)
	if err != nil {
		writeScreeningError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeScreeningError maps screening service errors to HTTP statuses
func writeScreeningError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProgramNotFound), errors.Is(err, service.ErrProgramNotActive):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionClosed),
		errors.Is(err, service.ErrNoCurrentQuestion),
		errors.Is(err, service.ErrFastPathActive),
		errors.Is(err, service.ErrScreeningIncomplete):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotCurrentQuestion),
		errors.Is(err, service.ErrNoFastPath),
		errors.Is(err, service.ErrFastPathInactive),
		errors.Is(err, service.ErrNothingToConfirm):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
