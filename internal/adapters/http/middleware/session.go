package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"slices"
	"sync"
	"time"

	domainAccount "batalhao/internal/domain/account"
)

// SessionTTL is how long a session stays valid after login.
const SessionTTL = 24 * time.Hour

// Session is the server-side record of a logged-in member.
// There is a single kind of session; admin-ness is carried by Role.
type Session struct {
	AccountID   string
	Name        string
	Email       string
	Role        string
	Patente     string
	Permissions []string
	LastLogin   time.Time

	// RealRole is admin while an admin previews the portal as Role.
	RealRole string

	// TTL overrides SessionTTL when positive.
	TTL time.Duration
}

// NewSession builds a session for a freshly authenticated account.
func NewSession(a domainAccount.Account, now time.Time) Session {
	return Session{
		AccountID:   a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        a.Role,
		Patente:     a.Patente,
		Permissions: a.Permissions(),
		LastLogin:   now,
	}
}

// Expired reports whether more than the session TTL has passed since LastLogin.
func (s Session) Expired(now time.Time) bool {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return now.Sub(s.LastLogin) > ttl
}

// IsAdmin reports whether the session belongs to an admin.
func (s Session) IsAdmin() bool {
	return s.Role == domainAccount.RoleAdmin
}

// Has reports whether the session carries perm. Admins hold every permission.
func (s Session) Has(perm string) bool {
	return s.IsAdmin() || slices.Contains(s.Permissions, perm)
}

// SessionStore is the only place sessions live. Tokens are opaque random hex.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
}

// NewSessionStore creates an empty store. A non-positive ttl means SessionTTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

// TTL returns the lifetime applied to sessions created by this store.
func (ss *SessionStore) TTL() time.Duration {
	return ss.ttl
}

// Create stores sess under a new random token.
// POST: sess.TTL is set to the store's ttl
func (ss *SessionStore) Create(sess Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.Set(token, sess)
	return token, nil
}

// Set stores sess under token, replacing any previous session.
func (ss *SessionStore) Set(token string, sess Session) {
	sess.TTL = ss.ttl
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = sess
}

// Get returns the session for token without judging expiry.
// Callers decide what an expired session means for them.
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	sess, ok := ss.sessions[token]
	return sess, ok
}

// Clear removes the session for token. Unknown tokens are ignored.
func (ss *SessionStore) Clear(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// RevokeAccount drops every session of accountID and returns how many were removed.
func (ss *SessionStore) RevokeAccount(accountID string) int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for token, sess := range ss.sessions {
		if sess.AccountID == accountID {
			delete(ss.sessions, token)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, expired ones included.
func (ss *SessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

// ReapExpired removes every session expired at now.
func (ss *SessionStore) ReapExpired(now time.Time) int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	n := 0
	for token, sess := range ss.sessions {
		if sess.Expired(now) {
			delete(ss.sessions, token)
			n++
		}
	}
	return n
}

// Reap calls ReapExpired every interval until ctx is done.
func (ss *SessionStore) Reap(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := ss.ReapExpired(now); n > 0 {
				slog.Info("session_event", "event", "sessions_reaped", "count", n)
			}
		}
	}
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
