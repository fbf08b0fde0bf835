package http

import (
	"net/http"
	"net/url"

	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/utils"
)

const loginPath = "/login"

// routeDecision is what the guard does with a request: serve it, or send the
// caller to RedirectTo.
type routeDecision struct {
	Allow      bool
	RedirectTo string
}

// decideRoute lets authenticated callers through unconditionally and sends
// everyone else to the login page, carrying the requested path so login can
// return there.
func decideRoute(authenticated bool, requestedPath string) routeDecision {
	if authenticated {
		return routeDecision{Allow: true}
	}
	if requestedPath == "" {
		requestedPath = "/"
	}
	return routeDecision{RedirectTo: loginPath + "?redirect=" + url.QueryEscape(requestedPath)}
}

// requireSession guards routes behind the session context. The signed-in
// profile is stored in the request context for the handlers.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := h.services.Sessions.State()

		decision := decideRoute(state.IsAuthenticated && state.User != nil, r.URL.RequestURI())
		if !decision.Allow {
			logger.FromRequest(r).Debug().
				Str("func", "*Handler.requireSession").
				Str("redirect", decision.RedirectTo).
				Msg("no session, redirecting to login")
			http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithUser(r.Context(), *state.User)))
	})
}

// adminOnly rejects callers whose profile is not an admin. It runs behind
// requireSession.
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := utils.GetUserFromContext(r.Context())
		if !ok || !user.IsAdmin {
			logger.FromRequest(r).Warn().
				Str("func", "*Handler.adminOnly").
				Str("user_id", user.ID).
				Msg("admin-only endpoint requested by a non-admin")
			utils.WriteError(w, "admin privileges required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
