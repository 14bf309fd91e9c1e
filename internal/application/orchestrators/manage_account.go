package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"batalhao/internal/domain/account"
)

// AccountStoreForManage defines the store interface needed by admin account management.
type AccountStoreForManage interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Delete(ctx context.Context, id string) error
	CountByRole(ctx context.Context, role string) (int, error)
}

// --- Change Role ---

// ChangeRoleInput carries a role (and optionally rank) change.
type ChangeRoleInput struct {
	ActorID   string // admin performing the change
	AccountID string
	Role      string
	Patente   *string
}

// ChangeRoleDeps holds dependencies for ChangeRole.
type ChangeRoleDeps struct {
	AccountStore AccountStoreForManage
}

// ExecuteChangeRole moves an account to another role.
// INVARIANT: at least one admin remains; an admin cannot change their own role
func ExecuteChangeRole(ctx context.Context, input ChangeRoleInput, deps ChangeRoleDeps) (account.Account, error) {
	if input.AccountID == "" {
		return account.Account{}, ErrMissingID
	}
	if !account.IsValidRole(input.Role) {
		return account.Account{}, account.ErrInvalidRole
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return account.Account{}, err
	}

	if acct.Role != input.Role {
		if input.ActorID == acct.ID {
			return account.Account{}, account.ErrSelfDemotion
		}
		if err := ensureOtherAdmin(ctx, deps.AccountStore, acct); err != nil {
			return account.Account{}, err
		}
	}

	previous := acct.Role
	acct.Role = input.Role
	if input.Patente != nil {
		acct.Patente = strings.TrimSpace(*input.Patente)
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "role_changed", "account_id", acct.ID, "from", previous, "to", acct.Role, "by", input.ActorID)
	return acct, nil
}

// --- Delete Account ---

// DeleteAccountInput carries input for DeleteAccount.
type DeleteAccountInput struct {
	ActorID   string
	AccountID string
}

// DeleteAccountDeps holds dependencies for DeleteAccount.
type DeleteAccountDeps struct {
	AccountStore AccountStoreForManage
}

// ExecuteDeleteAccount removes an account.
// INVARIANT: at least one admin remains; an admin cannot delete themselves
func ExecuteDeleteAccount(ctx context.Context, input DeleteAccountInput, deps DeleteAccountDeps) (account.Account, error) {
	if input.AccountID == "" {
		return account.Account{}, ErrMissingID
	}
	if input.ActorID == input.AccountID {
		return account.Account{}, account.ErrSelfDelete
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return account.Account{}, err
	}
	if err := ensureOtherAdmin(ctx, deps.AccountStore, acct); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Delete(ctx, acct.ID); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_deleted", "account_id", acct.ID, "by", input.ActorID)
	return acct, nil
}

// ensureOtherAdmin fails when acct is the only admin left.
func ensureOtherAdmin(ctx context.Context, store AccountStoreForManage, acct account.Account) error {
	if !acct.IsAdmin() {
		return nil
	}
	n, err := store.CountByRole(ctx, account.RoleAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return account.ErrLastAdmin
	}
	return nil
}
