package account

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"batalhao/internal/domain/validation"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MaxNameLength     = 120
	MaxPatenteLength  = 60
	MinPasswordLength = 8
)

// Role constants
const (
	RoleAdmin     = "admin"
	RoleModerador = "moderador"
	RoleOperador  = "operador"
	RolePolicial  = "policial"
)

// DefaultPatente is the rank given to self-registered members.
const DefaultPatente = "Recruta"

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleModerador, RoleOperador, RolePolicial}

// Capabilities granted through roles.
const (
	PermViewDashboard   = "dashboard:view"
	PermWriteGallery    = "gallery:write"
	PermWriteVideos     = "videos:write"
	PermWriteUniforms   = "uniforms:write"
	PermWriteHierarchy  = "hierarchy:write"
	PermWriteLiveNotice = "lives:write"
	PermManageUsers     = "users:manage"
)

var rolePermissions = map[string][]string{
	RoleAdmin: {
		PermViewDashboard, PermWriteGallery, PermWriteVideos, PermWriteUniforms,
		PermWriteHierarchy, PermWriteLiveNotice, PermManageUsers,
	},
	RoleModerador: {
		PermViewDashboard, PermWriteGallery, PermWriteVideos, PermWriteUniforms,
		PermWriteHierarchy, PermWriteLiveNotice,
	},
	RoleOperador: {PermViewDashboard, PermWriteGallery, PermWriteLiveNotice},
	RolePolicial: {PermWriteLiveNotice},
}

// Domain errors
var (
	ErrEmptyEmail       = validation.New("e-mail é obrigatório")
	ErrInvalidEmail     = validation.New("e-mail deve conter '@'")
	ErrEmailTooLong     = validation.New("e-mail não pode exceder 254 caracteres")
	ErrEmptyName        = validation.New("nome é obrigatório")
	ErrNameTooLong      = validation.New("nome não pode exceder 120 caracteres")
	ErrPatenteTooLong   = validation.New("patente não pode exceder 60 caracteres")
	ErrInvalidRole      = validation.New("cargo deve ser um de: admin, moderador, operador, policial")
	ErrEmptyPassword    = validation.New("senha é obrigatória")
	ErrPasswordTooShort = validation.New("senha deve ter pelo menos 8 caracteres")
	ErrWrongPassword    = validation.New("senha incorreta")

	ErrNotFound     = errors.New("conta não encontrada")
	ErrEmailTaken   = validation.New("e-mail já cadastrado")
	ErrLastAdmin    = validation.New("não é possível remover o último administrador")
	ErrSelfDemotion = validation.New("não é possível alterar o próprio cargo")
	ErrSelfDelete   = validation.New("não é possível excluir a própria conta")
)

// Account is a portal member that can log in.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Patente      string // rank label shown on the dashboards
	CreatedAt    time.Time
	LastLogin    time.Time
	FailedLogins int
	LockedUntil  time.Time
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Email) == "" {
		return ErrEmptyEmail
	}
	if len(a.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !strings.Contains(a.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if len(a.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(a.Patente) > MaxPatenteLength {
		return ErrPatenteTooLong
	}
	if !IsValidRole(a.Role) {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with cost 12.
// PRE: plaintext is at least MinPasswordLength characters
// POST: PasswordHash is set to bcrypt hash
func (a *Account) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsLocked returns true if the account is currently locked out.
// INVARIANT: Account fields are not mutated
func (a *Account) IsLocked(now time.Time) bool {
	if a.LockedUntil.IsZero() {
		return false
	}
	return now.Before(a.LockedUntil)
}

// RecordFailedLogin increments the failed login counter and locks the account after 5 failures.
// POST: FailedLogins incremented; LockedUntil set if >= 5 failures
func (a *Account) RecordFailedLogin(now time.Time) {
	a.FailedLogins++
	if a.FailedLogins >= 5 {
		a.LockedUntil = now.Add(15 * time.Minute)
	}
}

// RecordLogin clears the failed login counter and stamps LastLogin.
// POST: FailedLogins is 0, LockedUntil is zero, LastLogin is now
func (a *Account) RecordLogin(now time.Time) {
	a.FailedLogins = 0
	a.LockedUntil = time.Time{}
	a.LastLogin = now
}

// Permissions returns the capabilities granted by the account's role.
// INVARIANT: Account fields are not mutated
func (a *Account) Permissions() []string {
	return PermissionsFor(a.Role)
}

// IsAdmin returns true if the account has admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// PermissionsFor returns a copy of the capabilities granted by role.
// Unknown roles get no permissions.
func PermissionsFor(role string) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// IsValidRole reports whether role is a known role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
