package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mari/awards-voting/internal/api/middleware"
	"github.com/mari/awards-voting/internal/config"
	"github.com/mari/awards-voting/internal/domain"
	"github.com/mari/awards-voting/internal/service"
)

type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionService
	cfg      *config.Config
}

func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cfg: cfg}
}

type LoginRequest struct {
	Email  string `json:"email"`
	Method string `json:"method"` // "otp" or "magic", defaults to magic
}

type VerifyRequest struct {
	Token string `json:"token,omitempty"`
	Email string `json:"email,omitempty"`
	OTP   string `json:"otp,omitempty"`
}

type UserResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Login issues a one-time credential. The success response is identical for
// known and unknown addresses so it cannot be used to probe registrations.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	kind := domain.CredentialMagic
	if req.Method == "otp" {
		kind = domain.CredentialOTP
	}

	if err := h.auth.RequestCredential(r.Context(), req.Email, kind); err != nil {
		writeDomainError(w, err)
		return
	}

	message := "Magic link sent to your email"
	if kind == domain.CredentialOTP {
		message = "Verification code sent to your email"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": message,
		"method":  string(kind),
	})
}

// Verify consumes a credential, resolves the user, and opens a session. Any
// session cookie presented before authentication is rotated away.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var verifiedEmail string
	var err error
	switch {
	case req.Token != "":
		verifiedEmail, err = h.auth.VerifyMagicToken(r.Context(), req.Token)
	case req.OTP != "" && req.Email != "":
		verifiedEmail, err = h.auth.VerifyOTP(r.Context(), req.Email, req.OTP)
	default:
		writeError(w, http.StatusBadRequest, "Missing verification credentials")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), verifiedEmail)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, session, err := h.sessions.Rotate(r.Context(), middleware.SessionToken(r), user, middleware.ClientIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.setSessionCookie(w, token, int(session.ExpiresAt.Sub(session.CreatedAt).Seconds()))
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": UserResponse{
			ID:      user.ID.String(),
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		},
	})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": UserResponse{
			ID:      user.ID.String(),
			Email:   user.Email,
			IsAdmin: user.IsAdmin,
		},
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), middleware.SessionToken(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	h.setSessionCookie(w, "", -1)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
