package handlers

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"laundry-system/internal/auth"
	"laundry-system/internal/domain"
)

type SessionHandler struct {
	service auth.AuthServiceInterface
}

func NewSessionHandler(s auth.AuthServiceInterface) *SessionHandler {
	return &SessionHandler{service: s}
}

func sessionResponse(s auth.Session) domain.SessionResponse {
	return domain.SessionResponse{Token: s.Token, Role: s.Role, Name: s.Name, ExpiresAt: s.ExpiresAt}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	sess, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse(sess))
}

// ExchangeToken accepts the trusted hand-off token from the intranet and
// synthesizes a local session from the user's profile.
func (h *SessionHandler) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	var req domain.TokenExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "validation_error", "invalid JSON body")
		return
	}
	sess, err := h.service.ExchangeToken(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse(sess))
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.service.Logout(token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RequireOperator guards staff routes: a valid session whose role is not
// "cliente" (clients only get the public lookup).
func RequireOperator(svc auth.AuthServiceInterface, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := svc.Authenticate(bearerToken(r))
		if !ok {
			writeProblem(w, http.StatusUnauthorized, "unauthorized", "missing or expired session")
			return
		}
		if sess.Role == "cliente" {
			writeProblem(w, http.StatusForbidden, "forbidden", "operator access required")
			return
		}
		next(w, r)
	}
}
