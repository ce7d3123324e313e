package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"pantree/internal/middleware"
	"pantree/internal/repository"
	"pantree/internal/security"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account with its own family. The first user of a
// household signs up here and becomes that family's admin.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}

	exists, err := h.repo.UserExists(r.Context(), req.Username, req.Email)
	if err != nil {
		respondRepoError(w, err, "")
		return
	}
	if exists {
		respondError(w, http.StatusBadRequest, "Username or email already exists")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		log.Printf("handler: hash password: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user, err := h.provisionFamily(r.Context(), req.Username, req.Email, hash)
	if err != nil {
		respondRepoError(w, err, "Username or email already exists")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Account created successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a session token, returned in the
// body and set as a cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.repo.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil || !security.VerifyPassword(user.PasswordHash, req.Password) {
		// Same response for unknown user and wrong password.
		log.Printf("handler: failed login attempt for %q from %s", req.Username, r.RemoteAddr)
		respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := security.GenerateSecureToken()
	if err != nil {
		log.Printf("handler: generate session token: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	expiresAt := time.Now().UTC().Add(h.cfg.SessionDuration)
	if _, err := h.repo.CreateSession(r.Context(), token, user.ID, expiresAt); err != nil {
		respondRepoError(w, err, "")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

// Logout deletes the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r); token != "" {
		h.repo.DeleteSession(r.Context(), token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// currentUser pulls the authenticated user out of the request context. The
// auth middleware guarantees it exists on protected routes.
func currentUser(r *http.Request) *repository.User {
	user, _ := middleware.UserFromContext(r.Context())
	return user
}
