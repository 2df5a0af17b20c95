package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/directory"
	"infinite-experiment/calllist/internal/models/dtos"
	"infinite-experiment/calllist/internal/services"
)

// ListMarkets handles GET /api/v1/markets?feed=&sort=
func (h *Handlers) ListMarkets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		q := r.URL.Query()

		views, err := h.deps.Services.Stations.List(r.Context(), services.ListOptions{
			Feed: constants.Feed(q.Get("feed")),
			Sort: q.Get("sort"),
		})
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Stations fetched", views)
	}
}

// GetMarket handles GET /api/v1/markets/{id}
func (h *Handlers) GetMarket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		view, err := h.deps.Services.Stations.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Station fetched", view)
	}
}

// UpdateMarket handles PUT /api/v1/markets/{id}
func (h *Handlers) UpdateMarket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		var patch directory.StationPatch
		if !decodeBody(w, r, initTime, &patch) {
			return
		}

		view, err := h.deps.Services.Stations.Update(r.Context(), chi.URLParam(r, "id"), patch, claims.UserID())
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgStationUpdated, view)
	}
}

// CreateMarket handles POST /api/v1/markets (admin)
func (h *Handlers) CreateMarket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		claims, ok := editorFrom(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.StationCreateRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		view, err := h.deps.Services.Stations.Create(r.Context(), req, claims.UserID())
		if err != nil {
			common.RespondDomainError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, constants.MsgStationCreated, view, http.StatusCreated)
	}
}
