package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/auth"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/dto"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/envelope"
)

// SessionCookieName is the only place the session travels; there is no
// Authorization header fallback.
const SessionCookieName = "session_token"

type AuthHandler struct {
	service      *authsvc.Service
	cookieSecure bool
}

func NewAuthHandler(service *authsvc.Service, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: service, cookieSecure: cookieSecure}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	h.setSessionCookie(w, res.Token, int(h.service.SessionTTL().Seconds()))
	envelope.WriteData(w, http.StatusOK, dto.LoginResponse{
		User:      res.User,
		ExpiresAt: res.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			writeInternal(w)
			return
		}
	}

	h.setSessionCookie(w, "", -1)
	envelope.WriteData(w, http.StatusOK, map[string]bool{"logged_out": true})
}

// Check reports who the session belongs to. The auth middleware has
// already validated and slid the session by the time this runs.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}

	envelope.WriteData(w, http.StatusOK, dto.MeResponse{
		UserID:   identity.UserID,
		Email:    identity.Email,
		FullName: identity.FullName,
		Role:     identity.Role.String(),
	})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w)
		return
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req dto.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := h.service.ChangePassword(r.Context(), identity, cookie.Value, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleAuthError(w, err)
		return
	}

	envelope.WriteData(w, http.StatusOK, map[string]bool{"changed": true})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidInput):
		writeBadRequest(w, "invalid input")
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		envelope.WriteError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, authsvc.ErrUnauthorized):
		writeUnauthorized(w)
	case errors.Is(err, authsvc.ErrTooManyAttempts):
		retryAfter := int64(60)
		var limited *authsvc.TooManyAttemptsError
		if errors.As(err, &limited) && limited.RetryAfterSec > 0 {
			retryAfter = limited.RetryAfterSec
		}
		envelope.WriteRateLimited(w, retryAfter)
	default:
		writeInternal(w)
	}
}
