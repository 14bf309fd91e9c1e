package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	emailAdapter "batalhao/internal/adapters/email"
	"batalhao/internal/domain/account"
)

// mockAccountStore implements every account store interface used here.
type mockAccountStore struct {
	accounts map[string]account.Account
}

func newMockAccountStore(seed ...account.Account) *mockAccountStore {
	m := &mockAccountStore{accounts: map[string]account.Account{}}
	for _, a := range seed {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *mockAccountStore) GetByID(_ context.Context, id string) (account.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func (m *mockAccountStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	for _, a := range m.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.accounts[a.ID] = a
	return nil
}

func (m *mockAccountStore) Delete(_ context.Context, id string) error {
	if _, ok := m.accounts[id]; !ok {
		return account.ErrNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), nil
}

func (m *mockAccountStore) CountByRole(_ context.Context, role string) (int, error) {
	n := 0
	for _, a := range m.accounts {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

func accountWithPassword(t *testing.T, id, email, role, password string) account.Account {
	t.Helper()
	a := account.Account{ID: id, Name: "Membro " + id, Email: email, Role: role, Patente: "Cabo", CreatedAt: testTime}
	if err := a.SetPassword(password); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	return a
}

func TestExecuteLogin_Success(t *testing.T) {
	a := accountWithPassword(t, "a1", "cabo@batalhao.gg", account.RoleOperador, "senha-forte-1")
	a.FailedLogins = 2
	store := newMockAccountStore(a)

	acct, err := ExecuteLogin(context.Background(), LoginInput{Email: " CABO@batalhao.gg", Password: "senha-forte-1"}, LoginDeps{AccountStore: store, Now: testNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.ID != "a1" || !acct.LastLogin.Equal(testTime) {
		t.Errorf("got %+v", acct)
	}
	if store.accounts["a1"].FailedLogins != 0 {
		t.Error("failed logins not reset")
	}
}

func TestExecuteLogin_WrongPasswordLocksAfterFive(t *testing.T) {
	store := newMockAccountStore(accountWithPassword(t, "a1", "cabo@batalhao.gg", account.RoleOperador, "senha-forte-1"))
	deps := LoginDeps{AccountStore: store, Now: testNow}

	for i := 0; i < 5; i++ {
		_, err := ExecuteLogin(context.Background(), LoginInput{Email: "cabo@batalhao.gg", Password: "errada"}, deps)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d err = %v", i, err)
		}
	}
	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "cabo@batalhao.gg", Password: "senha-forte-1"}, deps)
	if !errors.Is(err, ErrAccountLocked) {
		t.Errorf("err = %v, want ErrAccountLocked", err)
	}

	later := LoginDeps{AccountStore: store, Now: func() time.Time { return testTime.Add(16 * time.Minute) }}
	if _, err := ExecuteLogin(context.Background(), LoginInput{Email: "cabo@batalhao.gg", Password: "senha-forte-1"}, later); err != nil {
		t.Errorf("login after lock expiry: %v", err)
	}
}

func TestExecuteLogin_UnknownEmail(t *testing.T) {
	_, err := ExecuteLogin(context.Background(), LoginInput{Email: "ninguem@batalhao.gg", Password: "x"}, LoginDeps{AccountStore: newMockAccountStore(), Now: testNow})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	_, err = ExecuteLogin(context.Background(), LoginInput{}, LoginDeps{AccountStore: newMockAccountStore(), Now: testNow})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("empty input err = %v", err)
	}
}

func TestExecuteRegister_CreatesPolicialAndSendsWelcome(t *testing.T) {
	store := newMockAccountStore()
	sender := emailAdapter.NewNoopSender()

	acct, err := ExecuteRegister(context.Background(), RegisterInput{
		Name:     "Recruta Souza",
		Email:    "Souza@Batalhao.gg",
		Password: "senha-forte-1",
	}, RegisterDeps{AccountStore: store, Sender: sender, PanelURL: "https://batalhao.gg/painel/", GenerateID: testID, Now: testNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.Role != account.RolePolicial || acct.Patente != account.DefaultPatente {
		t.Errorf("role/patente = %s/%s", acct.Role, acct.Patente)
	}
	if acct.Email != "souza@batalhao.gg" {
		t.Errorf("Email = %q", acct.Email)
	}
	if acct.PasswordHash == "" || acct.PasswordHash == "senha-forte-1" {
		t.Error("password not hashed")
	}
	sent := sender.Sent()
	if len(sent) != 1 || sent[0].To[0] != "souza@batalhao.gg" {
		t.Errorf("sent = %+v", sent)
	}
}

func TestExecuteRegister_DuplicateEmail(t *testing.T) {
	store := newMockAccountStore(accountWithPassword(t, "a1", "dup@batalhao.gg", account.RolePolicial, "senha-forte-1"))
	_, err := ExecuteRegister(context.Background(), RegisterInput{Name: "X", Email: "dup@batalhao.gg", Password: "senha-forte-2"},
		RegisterDeps{AccountStore: store, GenerateID: testID, Now: testNow})
	if !errors.Is(err, account.ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestExecuteRegister_ShortPassword(t *testing.T) {
	store := newMockAccountStore()
	_, err := ExecuteRegister(context.Background(), RegisterInput{Name: "X", Email: "x@batalhao.gg", Password: "curta"},
		RegisterDeps{AccountStore: store, GenerateID: testID, Now: testNow})
	if !errors.Is(err, account.ErrPasswordTooShort) {
		t.Errorf("err = %v, want ErrPasswordTooShort", err)
	}
	if len(store.accounts) != 0 {
		t.Error("account stored despite bad password")
	}
}

func TestExecuteSeedAdmin(t *testing.T) {
	store := newMockAccountStore()
	deps := CreateAccountDeps{AccountStore: store, GenerateID: testID, Now: testNow}

	if err := ExecuteSeedAdmin(context.Background(), deps, "admin@batalhao.gg", "senha-do-comando"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n, _ := store.CountByRole(context.Background(), account.RoleAdmin); n != 1 {
		t.Fatalf("admins = %d, want 1", n)
	}
	deps.GenerateID = func() string { return "second" }
	if err := ExecuteSeedAdmin(context.Background(), deps, "outro@batalhao.gg", "senha-do-comando"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if len(store.accounts) != 1 {
		t.Errorf("accounts = %d, want seeding to be skipped", len(store.accounts))
	}
}

func TestExecuteChangeRole(t *testing.T) {
	store := newMockAccountStore(
		account.Account{ID: "admin", Name: "Comando", Email: "admin@b.gg", Role: account.RoleAdmin},
		account.Account{ID: "p1", Name: "Soldado", Email: "p1@b.gg", Role: account.RolePolicial},
	)
	deps := ChangeRoleDeps{AccountStore: store}
	ctx := context.Background()

	acct, err := ExecuteChangeRole(ctx, ChangeRoleInput{ActorID: "admin", AccountID: "p1", Role: account.RoleModerador, Patente: strPtr("Sargento")}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.Role != account.RoleModerador || acct.Patente != "Sargento" {
		t.Errorf("got %+v", acct)
	}

	if _, err := ExecuteChangeRole(ctx, ChangeRoleInput{ActorID: "admin", AccountID: "admin", Role: account.RolePolicial}, deps); !errors.Is(err, account.ErrSelfDemotion) {
		t.Errorf("self demotion err = %v", err)
	}
	if _, err := ExecuteChangeRole(ctx, ChangeRoleInput{ActorID: "admin", AccountID: "p1", Role: "general"}, deps); !errors.Is(err, account.ErrInvalidRole) {
		t.Errorf("invalid role err = %v", err)
	}
	if _, err := ExecuteChangeRole(ctx, ChangeRoleInput{ActorID: "admin", AccountID: "ghost", Role: account.RolePolicial}, deps); !errors.Is(err, account.ErrNotFound) {
		t.Errorf("unknown account err = %v", err)
	}
}

func TestExecuteChangeRole_LastAdminProtected(t *testing.T) {
	store := newMockAccountStore(account.Account{ID: "admin", Name: "Comando", Email: "admin@b.gg", Role: account.RoleAdmin})
	_, err := ExecuteChangeRole(context.Background(), ChangeRoleInput{ActorID: "cli", AccountID: "admin", Role: account.RolePolicial}, ChangeRoleDeps{AccountStore: store})
	if !errors.Is(err, account.ErrLastAdmin) {
		t.Errorf("err = %v, want ErrLastAdmin", err)
	}
}

func TestExecuteDeleteAccount(t *testing.T) {
	store := newMockAccountStore(
		account.Account{ID: "admin", Role: account.RoleAdmin},
		account.Account{ID: "p1", Role: account.RolePolicial},
	)
	deps := DeleteAccountDeps{AccountStore: store}
	ctx := context.Background()

	if _, err := ExecuteDeleteAccount(ctx, DeleteAccountInput{ActorID: "admin", AccountID: "admin"}, deps); !errors.Is(err, account.ErrSelfDelete) {
		t.Errorf("self delete err = %v", err)
	}
	if _, err := ExecuteDeleteAccount(ctx, DeleteAccountInput{ActorID: "admin", AccountID: "p1"}, deps); err != nil {
		t.Fatalf("delete p1: %v", err)
	}
	if _, ok := store.accounts["p1"]; ok {
		t.Error("p1 still present")
	}
	if _, err := ExecuteDeleteAccount(ctx, DeleteAccountInput{ActorID: "x", AccountID: "admin"}, deps); !errors.Is(err, account.ErrLastAdmin) {
		t.Errorf("last admin err = %v", err)
	}
}
