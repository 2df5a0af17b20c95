package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/models/dtos"
)

// AddPhone handles POST /api/v1/markets/{id}/phones
func (h *Handlers) AddPhone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		var in dtos.PhoneInput
		if !decodeBody(w, r, initTime, &in) {
			return
		}

		created, err := h.deps.Services.Phones.Add(r.Context(), chi.URLParam(r, "id"), in, claims.UserID())
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgPhoneCreated, created, http.StatusCreated)
	}
}

// UpdatePhone handles PUT /api/v1/markets/{id}/phones/{phoneId}
func (h *Handlers) UpdatePhone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		var patch directory.PhonePatch
		if !decodeBody(w, r, initTime, &patch) {
			return
		}

		updated, err := h.deps.Services.Phones.Update(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "phoneId"), patch, claims.UserID())
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgPhoneUpdated, updated)
	}
}

// DeletePhone handles DELETE /api/v1/markets/{id}/phones/{phoneId}
func (h *Handlers) DeletePhone() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		err := h.deps.Services.Phones.Delete(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "phoneId"), claims.UserID())
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgPhoneDeleted, nil)
	}
}

// MakePrimary handles PATCH /api/v1/markets/{id}/phones/{phoneId}/primary
func (h *Handlers) MakePrimary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		phones, err := h.deps.Services.Phones.MakePrimary(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "phoneId"), claims.UserID())
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgPrimaryUpdated, phones)
	}
}
