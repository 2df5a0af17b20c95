package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"infinite-experiment/calllist/internal/auth"
	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/constants"
	"infinite-experiment/calllist/internal/services"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// editorFrom returns the acting user, answering 401 when the auth middleware
// did not run.
func editorFrom(w http.ResponseWriter, r *http.Request, initTime time.Time) (auth.UserClaims, bool) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		common.RespondError(w, initTime, nil, constants.MsgUnauthorized, http.StatusUnauthorized)
		return nil, false
	}
	return claims, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, initTime time.Time, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondError(w, initTime, nil, constants.MsgInvalidBody, http.StatusBadRequest)
		return false
	}
	return true
}

func pageFrom(r *http.Request) services.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return services.PageRequest{Page: page, Limit: limit}
}
