package http

import (
	"net/http"

	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/utils"
)

// withAuthRateLimit throttles credential submissions with a token bucket
// shared by login and registration.
func (h *Handler) withAuthRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.authLimiter.Allow() {
			logger.FromRequest(r).Warn().Str("func", "*Handler.withAuthRateLimit").Str("path", r.URL.Path).Msg("rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			utils.WriteError(w, "too many attempts, try again later", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
