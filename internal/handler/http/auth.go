package http

import (
	"net/http"

	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/service"
	"github.com/MKhiriev/go-tech-support/internal/utils"
	"github.com/MKhiriev/go-tech-support/models"
)

const (
	msgInvalidCredentials = "invalid email/password"
	msgAwaitingApproval   = "account is awaiting administrator approval"
	msgRegistered         = "registration received, wait for administrator approval"
	msgRegistrationFailed = "registration failed"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var creds models.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		writeServiceError(w, r, "*Handler.login", err)
		return
	}
	if err := h.validator.Validate(ctx, creds); err != nil {
		writeServiceError(w, r, "*Handler.login", err)
		return
	}

	outcome, err := h.services.Sessions.Login(ctx, creds.Email, creds.Password)
	switch outcome {
	case service.OutcomeSuccess:
		log.Debug().Str("email", creds.Email).Msg("user logged in")
		_, _ = utils.WriteJSON(w, models.AuthResponse{
			Outcome: outcome.String(),
			Session: h.services.Sessions.State(),
		}, http.StatusOK)
	case service.OutcomePending:
		log.Info().Str("email", creds.Email).Msg("login of an unapproved account")
		_, _ = utils.WriteJSON(w, models.AuthResponse{
			Outcome: outcome.String(),
			Message: msgAwaitingApproval,
		}, http.StatusForbidden)
	default:
		// the cause stays in the log, callers only learn the attempt failed
		log.Err(err).Str("email", creds.Email).Msg("login failed")
		_, _ = utils.WriteJSON(w, models.AuthResponse{
			Outcome: outcome.String(),
			Message: msgInvalidCredentials,
		}, http.StatusUnauthorized)
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "*Handler.register", err)
		return
	}
	if err := h.validator.Validate(ctx, req); err != nil {
		writeServiceError(w, r, "*Handler.register", err)
		return
	}

	outcome, err := h.services.Sessions.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		// same answer for every cause, a taken email is not disclosed
		logger.FromRequest(r).Err(err).Str("func", "*Handler.register").Str("email", req.Email).Msg("registration failed")
		_, _ = utils.WriteJSON(w, models.AuthResponse{
			Outcome: service.OutcomeFailure.String(),
			Message: msgRegistrationFailed,
		}, http.StatusBadRequest)
		return
	}

	logger.FromRequest(r).Info().Str("email", req.Email).Msg("account registered")
	_, _ = utils.WriteJSON(w, models.AuthResponse{
		Outcome: outcome.String(),
		Message: msgRegistered,
		Session: h.services.Sessions.State(),
	}, http.StatusAccepted)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.services.Sessions.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "*Handler.resetPassword", err)
		return
	}
	if err := h.validator.Validate(ctx, req); err != nil {
		writeServiceError(w, r, "*Handler.resetPassword", err)
		return
	}

	if err := h.services.Sessions.ResetPassword(ctx, req.Email); err != nil {
		writeServiceError(w, r, "*Handler.resetPassword", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// updatePassword changes the password of the current session. A recovery
// link in the body is adopted as the session first.
func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.UpdatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "*Handler.updatePassword", err)
		return
	}
	if err := h.validator.Validate(ctx, req); err != nil {
		writeServiceError(w, r, "*Handler.updatePassword", err)
		return
	}

	if req.RecoveryURL != "" {
		nav := utils.ParseNavigation(req.RecoveryURL)
		if !nav.RecoveryFlow || nav.AccessToken == "" {
			writeServiceError(w, r, "*Handler.updatePassword", ErrInvalidRecoveryLink)
			return
		}
		session := models.Session{AccessToken: nav.AccessToken, RefreshToken: nav.RefreshToken}
		if err := h.services.Sessions.AdoptSession(ctx, session); err != nil {
			writeServiceError(w, r, "*Handler.updatePassword", err)
			return
		}
	}

	if err := h.services.Sessions.UpdatePassword(ctx, req.Password); err != nil {
		writeServiceError(w, r, "*Handler.updatePassword", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, h.services.Sessions.State(), http.StatusOK)
}
