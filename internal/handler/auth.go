package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/auth"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/store"
)

// AuthHandler manages sign-in: the Google OAuth flow, email/password
// accounts, and the session cookie either one ends in.
type AuthHandler struct {
	google *auth.GoogleProvider
	tokens *auth.TokenService
	users  store.UserStore
	logger *slog.Logger
}

func NewAuthHandler(
	google *auth.GoogleProvider,
	tokens *auth.TokenService,
	users store.UserStore,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		google: google,
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// HandleGoogleLogin redirects the browser to Google's consent page.
//
// GET /auth/google/login
//
// The random state lands in a short-lived cookie; the callback checks it
// to tie the response to a flow this server started.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback completes the OAuth flow: state check, code
// exchange, user upsert, session cookie, redirect home.
//
// GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch or missing")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid OAuth state"})
		return
	}

	// The state is single-use.
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	googleUser, err := h.google.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.logger.Error("auth callback: exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "oauth_failed", Message: "Google sign-in failed"})
		return
	}

	user := &model.User{
		GoogleID:    googleUser.ID,
		Email:       googleUser.Email,
		DisplayName: googleUser.Name,
		AvatarURL:   googleUser.Picture,
	}
	if err := h.users.UpsertGoogleUser(r.Context(), user); err != nil {
		h.logger.Error("auth callback: upsert failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	if !h.issueSession(w, user.ID) {
		return
	}

	h.logger.Info("user signed in with Google", slog.String("userId", user.ID))
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// HandleRegister creates an email/password account and signs it in.
//
// POST /auth/register
// {"email": "...", "password": "...", "displayName": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	body.Email = strings.TrimSpace(body.Email)
	if body.Email == "" || !strings.Contains(body.Email, "@") {
		writeError(w, apperror.ValidationFailed("email", "a valid email is required"))
		return
	}

	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		writeError(w, apperror.ValidationFailed("password", err.Error()))
		return
	}

	user := &model.User{
		Email:        body.Email,
		DisplayName:  strings.TrimSpace(body.DisplayName),
		PasswordHash: hash,
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		writeError(w, err)
		return
	}

	if !h.issueSession(w, user.ID) {
		return
	}

	h.logger.Info("user registered", slog.String("userId", user.ID))
	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin signs in an email/password account.
//
// POST /auth/login
//
// Unknown email and wrong password answer identically so the endpoint
// doesn't confirm which emails are registered.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	invalid := ErrorResponse{Error: "auth_required", Message: "invalid email or password"}

	user, err := h.users.GetUserByEmail(r.Context(), body.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusUnauthorized, invalid)
			return
		}
		writeError(w, err)
		return
	}
	if user.PasswordHash == "" {
		// Google-only account; there is no password to check.
		writeJSON(w, http.StatusUnauthorized, invalid)
		return
	}
	if err := auth.VerifyPassword(user.PasswordHash, body.Password); err != nil {
		writeJSON(w, http.StatusUnauthorized, invalid)
		return
	}

	if !h.issueSession(w, user.ID) {
		return
	}

	h.logger.Info("user signed in", slog.String("userId", user.ID))
	writeJSON(w, http.StatusOK, user)
}

// HandleLogout clears the session cookie.
//
// POST /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the signed-in user's profile.
//
// GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.AuthRequired("sign in to view your profile"))
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// issueSession sets the JWT session cookie. Reports false after writing
// an error response if signing fails.
func (h *AuthHandler) issueSession(w http.ResponseWriter, userID string) bool {
	token, err := h.tokens.Generate(userID)
	if err != nil {
		h.logger.Error("failed to issue session", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal", Message: "could not start session"})
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}
