package middleware

import (
	"net/http"
	"time"

	"infinite-experiment/calllist/internal/auth"
	"infinite-experiment/calllist/internal/common"
	"infinite-experiment/calllist/internal/constants"
)

// IsEditorMiddleware lets producers and admins through. Viewers are read-only.
func IsEditorMiddleware() func(http.Handler) http.Handler {
	return requireClaims(func(c auth.UserClaims) bool { return c.CanEdit() })
}

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return requireClaims(func(c auth.UserClaims) bool { return c.IsAdmin() })
}

func requireClaims(allowed func(auth.UserClaims) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())
			if claims == nil {
				common.RespondError(w, time.Now(), nil, constants.MsgUnauthorized, http.StatusUnauthorized)
				return
			}
			if !allowed(claims) {
				common.RespondError(w, time.Now(), nil, constants.MsgForbidden, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
