package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"batalhao/internal/domain/account"
)

// TestAccountSeedDeps holds the store needed for test account seeding.
type TestAccountSeedDeps struct {
	AccountStore testAcctAccountStore
	GenerateID   func() string
	Now          func() time.Time
}

type testAcctAccountStore interface {
	Save(ctx context.Context, a account.Account) error
	GetByEmail(ctx context.Context, email string) (account.Account, error)
}

// testAccountDef defines a single test account to seed.
type testAccountDef struct {
	Name    string
	Email   string
	Role    string
	Patente string
}

// testAccounts returns one account per non-admin role. The admin comes from ExecuteSeedAdmin.
func testAccounts() []testAccountDef {
	return []testAccountDef{
		{Name: "Moderador Teste", Email: "moderador@batalhao.local", Role: account.RoleModerador, Patente: "Subtenente"},
		{Name: "Operador Teste", Email: "operador@batalhao.local", Role: account.RoleOperador, Patente: "Sargento"},
		{Name: "Policial Teste", Email: "policial@batalhao.local", Role: account.RolePolicial, Patente: account.DefaultPatente},
	}
}

// ExecuteSeedTestAccounts creates the test accounts that do not exist yet,
// all sharing password. Only called outside production.
// PRE: Database is migrated
// POST: one account per non-admin role exists
func ExecuteSeedTestAccounts(ctx context.Context, deps TestAccountSeedDeps, password string) error {
	created := 0
	for _, def := range testAccounts() {
		_, err := deps.AccountStore.GetByEmail(ctx, def.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, account.ErrNotFound) {
			return fmt.Errorf("seed test account %s: %w", def.Email, err)
		}

		acct := account.Account{
			ID:        deps.GenerateID(),
			Name:      def.Name,
			Email:     def.Email,
			Role:      def.Role,
			Patente:   def.Patente,
			CreatedAt: deps.Now(),
		}
		if err := acct.SetPassword(password); err != nil {
			return fmt.Errorf("seed test account %s: set password: %w", def.Email, err)
		}
		if err := deps.AccountStore.Save(ctx, acct); err != nil {
			return fmt.Errorf("seed test account %s: save: %w", def.Email, err)
		}

		created++
		slog.Info("seed_event", "event", "test_account_created", "email", def.Email, "role", def.Role)
	}

	if created > 0 {
		slog.Info("seed_event", "event", "test_accounts_seeded", "created", created)
	}
	return nil
}
