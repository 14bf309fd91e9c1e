package orchestrators

import (
	"batalhao/internal/domain/account"
	"batalhao/internal/domain/validation"
)

// DevMode errors
var (
	ErrDevModeNotAdmin         = validation.New("apenas administradores podem visualizar como outro cargo")
	ErrDevModeInvalidRole      = validation.New("cargo de destino inválido")
	ErrDevModeNotImpersonating = validation.New("nenhuma visualização de cargo ativa")
)

// DevModeImpersonateInput carries the caller's session roles and the role to preview.
type DevModeImpersonateInput struct {
	TargetRole  string
	CurrentRole string
	RealRole    string // non-empty if already impersonating
}

// DevModeResult carries the session fields to apply.
type DevModeResult struct {
	Role        string
	RealRole    string // empty once impersonation ends
	Permissions []string
}

// ExecuteDevModeImpersonate lets an admin see the portal with another role's
// permissions. The account id and e-mail stay the admin's.
// PRE: caller is a real admin (directly or via RealRole)
// POST: Role and Permissions are the target's; RealRole remembers admin
func ExecuteDevModeImpersonate(input DevModeImpersonateInput) (DevModeResult, error) {
	realRole := input.CurrentRole
	if input.RealRole != "" {
		realRole = input.RealRole
	}
	if realRole != account.RoleAdmin {
		return DevModeResult{}, ErrDevModeNotAdmin
	}
	if !account.IsValidRole(input.TargetRole) {
		return DevModeResult{}, ErrDevModeInvalidRole
	}

	// Switching back to admin ends impersonation
	if input.TargetRole == account.RoleAdmin {
		return DevModeResult{Role: account.RoleAdmin, Permissions: account.PermissionsFor(account.RoleAdmin)}, nil
	}
	return DevModeResult{
		Role:        input.TargetRole,
		RealRole:    account.RoleAdmin,
		Permissions: account.PermissionsFor(input.TargetRole),
	}, nil
}

// ExecuteDevModeRestore returns the admin session fields of an impersonating caller.
// PRE: RealRole is admin
func ExecuteDevModeRestore(realRole string) (DevModeResult, error) {
	if realRole == "" {
		return DevModeResult{}, ErrDevModeNotImpersonating
	}
	if realRole != account.RoleAdmin {
		return DevModeResult{}, ErrDevModeNotAdmin
	}
	return DevModeResult{Role: account.RoleAdmin, Permissions: account.PermissionsFor(account.RoleAdmin)}, nil
}
