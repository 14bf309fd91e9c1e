package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	emailAdapter "batalhao/internal/adapters/email"
	"batalhao/internal/domain/account"
)

// AccountStoreForCreate defines the store interface needed by account creation.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// CreateAccountInput carries input for CreateAccount.
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Patente  string // DefaultPatente when empty
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteCreateAccount creates an account with any role. Used by admins and the CLI.
// PRE: valid name, e-mail, password of MinPasswordLength, known role
// POST: account persisted with a bcrypt hash
// INVARIANT: e-mail is unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (account.Account, error) {
	acct := account.Account{
		ID:        deps.GenerateID(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Role:      input.Role,
		Patente:   strings.TrimSpace(input.Patente),
		CreatedAt: deps.Now(),
	}
	if acct.Patente == "" {
		acct.Patente = account.DefaultPatente
	}
	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}

	_, err := deps.AccountStore.GetByEmail(ctx, acct.Email)
	if err == nil {
		return account.Account{}, account.ErrEmailTaken
	}
	if !errors.Is(err, account.ErrNotFound) {
		return account.Account{}, err
	}

	if err := acct.SetPassword(input.Password); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_created", "account_id", acct.ID, "email", acct.Email, "role", acct.Role)
	return acct, nil
}

// --- Register ---

// RegisterInput carries a self-registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterDeps holds dependencies for Register.
type RegisterDeps struct {
	AccountStore AccountStoreForCreate
	Sender       emailAdapter.Sender // optional
	PanelURL     string
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteRegister creates a policial account with the entry rank and sends a
// welcome e-mail. Mail failures are logged and do not undo the registration.
func ExecuteRegister(ctx context.Context, input RegisterInput, deps RegisterDeps) (account.Account, error) {
	acct, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     account.RolePolicial,
		Patente:  account.DefaultPatente,
	}, CreateAccountDeps{
		AccountStore: deps.AccountStore,
		GenerateID:   deps.GenerateID,
		Now:          deps.Now,
	})
	if err != nil {
		return account.Account{}, err
	}

	if deps.Sender != nil {
		msg, err := emailAdapter.WelcomeMessage(acct.Email, emailAdapter.WelcomeData{
			Name:     acct.Name,
			Patente:  acct.Patente,
			PanelURL: deps.PanelURL,
		})
		if err == nil {
			_, err = deps.Sender.Send(ctx, msg)
		}
		if err != nil {
			slog.Warn("auth_event", "event", "welcome_email_failed", "account_id", acct.ID, "error", err)
		}
	}

	slog.Info("auth_event", "event", "account_registered", "account_id", acct.ID, "email", acct.Email)
	return acct, nil
}

// ExecuteSeedAdmin creates the first admin when the account table is empty.
// PRE: database migrated
// POST: an admin exists if no account existed before; otherwise nothing changes
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, email, password string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	acct, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Name:     "Comando",
		Email:    email,
		Password: password,
		Role:     account.RoleAdmin,
		Patente:  "Comandante",
	}, deps)
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "account_id", acct.ID, "email", acct.Email)
	return nil
}
