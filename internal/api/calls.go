package api

import (
	"net/http"
	"time"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/models/dtos"
)

// LogCall handles POST /api/v1/call-logs
func (h *Handlers) LogCall() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.LogCallRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		if req.StationID == "" || req.PhoneID == "" {
			common.RespondDomainError(w, initTime, directory.Validationf("stationId and phoneId are required"))
			return
		}

		entry, err := h.deps.Services.Calls.LogCall(r.Context(), req.StationID, req.PhoneID, claims.UserID())
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgCallLogged, entry, http.StatusCreated)
	}
}

// ListCallLogs handles GET /api/v1/call-logs. Admins see every caller and may
// narrow with ?callerId=; everyone else sees their own calls.
func (h *Handlers) ListCallLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		caller := claims.UserID()
		if claims.IsAdmin() {
			caller = r.URL.Query().Get("callerId")
		}

		page, err := h.deps.Services.Calls.ListCallLogs(r.Context(), caller, pageFrom(r))
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Call logs fetched", page)
	}
}

// ResetCalls handles POST /api/v1/calls/reset
func (h *Handlers) ResetCalls() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		cleared, err := h.deps.Services.Calls.Reset(r.Context())
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgCallsReset, dtos.ResetResponse{Success: true, Cleared: cleared})
	}
}

// ListEditLogs handles GET /api/v1/edit-logs?stationId=
func (h *Handlers) ListEditLogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		page, err := h.deps.Services.Calls.ListEditLogs(r.Context(), r.URL.Query().Get("stationId"), pageFrom(r))
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Edit logs fetched", page)
	}
}
