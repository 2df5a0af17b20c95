package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/logging"
	"infinite-experiment/calllist/internal/models/dtos"
)

// ImportFeed handles POST /api/v1/admin/import. The CSV is read from the
// multipart "file" field, or from the raw body for non-multipart uploads.
func (h *Handlers) ImportFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.deps.Options.ImportMaxBytes)

		var src io.Reader = r.Body
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			file, _, err := r.FormFile("file")
			if err != nil {
				var tooBig *http.MaxBytesError
				if errors.As(err, &tooBig) {
					common.RespondError(w, initTime, nil, "File too large", http.StatusRequestEntityTooLarge)
					return
				}
				common.RespondError(w, initTime, nil, constants.MsgNoFile, http.StatusBadRequest)
				return
			}
			defer file.Close()
			src = file
		}

		result, err := h.deps.Services.Imports.ImportCSV(r.Context(), src, claims.UserID())
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				common.RespondError(w, initTime, nil, "File too large", http.StatusRequestEntityTooLarge)
				return
			}
			if common.StatusFor(err) == http.StatusInternalServerError {
				logging.Error(constants.MsgImportFailed, "error", err, "user_id", claims.UserID())
				common.RespondError(w, initTime, nil, constants.MsgImportFailed, http.StatusInternalServerError)
				return
			}
			common.RespondDomainError(w, initTime, err)
			return
		}

		errs := result.Errors
		if errs == nil {
			errs = []string{}
		}
		common.RespondSuccess(w, initTime, constants.MsgImportCompleted, dtos.ImportResponse{
			Success:    true,
			Created:    result.Created,
			Updated:    result.Updated,
			Errors:     errs,
			ErrorCount: result.ErrorCount,
		})
	}
}

// BulkUpdate handles POST /api/v1/admin/bulk
func (h *Handlers) BulkUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.BulkUpdateRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		result, err := h.deps.Services.Stations.BulkUpdate(r.Context(), req.StationIDs, req.Updates, claims.UserID())
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgBulkUpdated, dtos.BulkUpdateResponse{
			Updated: result.Updated,
			Logged:  result.Logged,
		})
	}
}
