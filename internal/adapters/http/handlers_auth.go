package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"batalhao/internal/adapters/http/middleware"
	"batalhao/internal/application/orchestrators"
	"batalhao/internal/application/projections"
	"batalhao/internal/domain/account"
)

// sessionView is what /api/auth/me and login return about the caller.
type sessionView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Patente     string    `json:"patente"`
	Permissions []string  `json:"permissions"`
	LastLogin   time.Time `json:"lastLogin"`
	RealRole    string    `json:"realRole,omitempty"`
}

func newSessionView(s middleware.Session) sessionView {
	perms := s.Permissions
	if perms == nil {
		perms = []string{}
	}
	return sessionView{
		ID:          s.AccountID,
		Name:        s.Name,
		Email:       s.Email,
		Role:        s.Role,
		Patente:     s.Patente,
		Permissions: perms,
		LastLogin:   s.LastLogin,
		RealRole:    s.RealRole,
	}
}

// landingPage is where the login page sends a member after signing in.
func landingPage(role string) string {
	if role == account.RoleAdmin {
		return "/admin/"
	}
	return "/painel/"
}

// handleLogin handles POST /api/auth/login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w)
		return
	}
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	acct, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore, Now: timeNow})
	switch {
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, orchestrators.ErrAccountLocked):
		writeJSONError(w, http.StatusLocked, err.Error())
		return
	case err != nil:
		internalError(w, err)
		return
	}

	sess := middleware.NewSession(acct, acct.LastLogin)
	token, err := sessions.Create(sess)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, sessionMaxAge(), secureCookies)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":     newSessionView(sess),
		"redirect": landingPage(acct.Role),
	})
}

// handleRegister handles POST /api/auth/register
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w)
		return
	}
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	acct, err := orchestrators.ExecuteRegister(r.Context(), orchestrators.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	}, orchestrators.RegisterDeps{
		AccountStore: stores.AccountStore,
		Sender:       emailSender,
		PanelURL:     panelURL,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		writeServiceError(w, err, nil, "")
		return
	}
	writeJSON(w, http.StatusCreated, projections.NewAccountView(acct))
}

// handleLogout handles POST /api/auth/logout. It succeeds without a session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w)
		return
	}
	if token, ok := middleware.GetTokenFromContext(r.Context()); ok {
		if sess, found := middleware.GetSessionFromContext(r.Context()); found {
			slog.Info("auth_event", "event", "logout", "account_id", sess.AccountID)
		}
		sessions.Clear(token)
	}
	middleware.ClearSessionCookie(w, secureCookies)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleCSRFToken handles GET /api/auth/csrf.
// Multipart uploads echo the token back in the X-CSRF-Token header.
func handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]string{"token": csrf.Token(r)})
}

// handleMe handles GET /api/auth/me
func handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

// handlePassword handles POST /api/auth/password. Other sessions of the
// account are revoked; the caller's session stays valid.
func handlePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		methodNotAllowed(w)
		return
	}
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	err := orchestrators.ExecuteChangePassword(r.Context(), orchestrators.ChangePasswordInput{
		AccountID:       sess.AccountID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	}, orchestrators.ChangePasswordDeps{AccountStore: stores.AccountStore})
	if err != nil {
		writeServiceError(w, err, account.ErrNotFound, msgUserNotFound)
		return
	}
	sessions.RevokeAccount(sess.AccountID)
	if token, ok := middleware.GetTokenFromContext(r.Context()); ok {
		sessions.Set(token, sess)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
