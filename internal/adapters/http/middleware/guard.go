package middleware

import (
	"net/http"
	"net/url"
	"time"
)

// Messages shown on the login page after a guard redirect.
const (
	MsgLoginRequired    = "Faça login para acessar esta página"
	MsgPermissionDenied = "Você não tem permissão para acessar esta página"
	MsgSessionExpired   = "Sua sessão expirou. Faça login novamente"
)

// LoginPath is where guarded pages send visitors without a usable session.
const LoginPath = "/login"

// Decision is the outcome of GuardPage.
type Decision struct {
	Allow        bool
	ClearSession bool
	RedirectTo   string
}

// GuardPage decides whether a page at path may be shown.
// Checks run in order: missing session, role mismatch, expiry.
// An empty requiredRole accepts any role; admins pass every role check.
func GuardPage(sess Session, found bool, requiredRole, path string, now time.Time) Decision {
	if !found {
		return Decision{RedirectTo: loginRedirect(path, MsgLoginRequired)}
	}
	if requiredRole != "" && sess.Role != requiredRole && !sess.IsAdmin() {
		return Decision{RedirectTo: loginRedirect(path, MsgPermissionDenied)}
	}
	if sess.Expired(now) {
		return Decision{ClearSession: true, RedirectTo: loginRedirect(path, MsgSessionExpired)}
	}
	return Decision{Allow: true}
}

func loginRedirect(path, msg string) string {
	q := url.Values{}
	q.Set("redirect", path)
	q.Set("message", msg)
	return LoginPath + "?" + q.Encode()
}

// RequirePage applies GuardPage to every request. It must run after Auth.
// secure sets the Secure flag on the cookie cleared after expiry.
func RequirePage(sessions *SessionStore, requiredRole string, secure bool, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, found := GetSessionFromContext(r.Context())
			d := GuardPage(sess, found, requiredRole, r.URL.RequestURI(), now())
			if d.ClearSession {
				if token, ok := GetTokenFromContext(r.Context()); ok {
					sessions.Clear(token)
				}
				ClearSessionCookie(w, secure)
			}
			if !d.Allow {
				http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
