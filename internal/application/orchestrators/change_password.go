package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"batalhao/internal/domain/account"
	"batalhao/internal/domain/validation"
)

// AccountStoreForChangePassword defines the store interface needed by ChangePassword.
type AccountStoreForChangePassword interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

var (
	ErrPasswordFieldsRequired = validation.New("senha atual e nova senha são obrigatórias")
	ErrNewPasswordSame        = validation.New("a nova senha deve ser diferente da atual")
)

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	AccountID       string
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	AccountStore AccountStoreForChangePassword
}

// ExecuteChangePassword validates the current password and updates to the new one.
// PRE: AccountID is valid, both passwords are non-empty
// POST: PasswordHash replaced
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	if input.AccountID == "" {
		return ErrMissingID
	}
	if input.CurrentPassword == "" || input.NewPassword == "" {
		return ErrPasswordFieldsRequired
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return err
	}
	if err := acct.CheckPassword(input.CurrentPassword); err != nil {
		return err
	}
	if input.CurrentPassword == input.NewPassword {
		return ErrNewPasswordSame
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "password_changed", "account_id", acct.ID)
	return nil
}

// ResetPasswordInput identifies an account by e-mail for an operator reset.
type ResetPasswordInput struct {
	Email       string
	NewPassword string
}

// ExecuteResetPassword sets a new password without the current one and lifts
// any lockout. Used by portalctl.
func ExecuteResetPassword(ctx context.Context, input ResetPasswordInput, deps ChangePasswordDeps) (account.Account, error) {
	acct, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err != nil {
		return account.Account{}, err
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		return account.Account{}, err
	}
	acct.FailedLogins = 0
	acct.LockedUntil = time.Time{}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "password_reset", "account_id", acct.ID)
	return acct, nil
}
