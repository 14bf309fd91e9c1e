package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"batalhao/internal/adapters/email"
	"batalhao/internal/adapters/http/middleware"
	"batalhao/internal/domain/account"
)

func TestHandleRegister_CreatesPolicialAndSendsWelcome(t *testing.T) {
	newTestStores(t)
	sender := email.NewNoopSender()
	emailSender = sender

	rec := httptest.NewRecorder()
	handleRegister(rec, jsonRequest("POST", "/api/auth/register", `{"name":"Ana Souza","email":"Ana@Batalhao.test","password":"senha-forte-1"}`))
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var view struct {
		Email   string `json:"email"`
		Role    string `json:"role"`
		Patente string `json:"patente"`
		Hash    string `json:"passwordHash"`
	}
	json.NewDecoder(rec.Body).Decode(&view)
	if view.Role != account.RolePolicial || view.Patente != account.DefaultPatente || view.Email != "ana@batalhao.test" {
		t.Errorf("view = %+v", view)
	}
	if view.Hash != "" {
		t.Error("password hash exposed")
	}
	if len(sender.Sent()) != 1 {
		t.Errorf("sent %d welcome mails, want 1", len(sender.Sent()))
	}

	rec = httptest.NewRecorder()
	handleRegister(rec, jsonRequest("POST", "/api/auth/register", `{"name":"Outra","email":"ana@batalhao.test","password":"senha-forte-1"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate email: got %d, want 400", rec.Code)
	}
}

func TestHandleLogin(t *testing.T) {
	s := newTestStores(t)
	seedAccount(t, s, "acc-1", "cabo@batalhao.test", account.RoleOperador, "senha-forte-1")

	rec := httptest.NewRecorder()
	handleLogin(rec, jsonRequest("POST", "/api/auth/login", `{"email":"cabo@batalhao.test","password":"errada"}`))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handleLogin(rec, jsonRequest("POST", "/api/auth/login", `{"email":"cabo@batalhao.test","password":"senha-forte-1"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		User     sessionView `json:"user"`
		Redirect string      `json:"redirect"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Redirect != "/painel/" || resp.User.Role != account.RoleOperador || resp.User.LastLogin.IsZero() {
		t.Errorf("resp = %+v", resp)
	}

	var token string
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			token = c.Value
		}
	}
	if token == "" {
		t.Fatal("no session cookie set")
	}
	if sess, ok := sessions.Get(token); !ok || sess.AccountID != "acc-1" {
		t.Errorf("session = %+v, %v", sess, ok)
	}
}

func TestHandleLogin_LocksAfterRepeatedFailures(t *testing.T) {
	s := newTestStores(t)
	seedAccount(t, s, "acc-1", "cabo@batalhao.test", account.RoleOperador, "senha-forte-1")

	var last int
	for range 10 {
		rec := httptest.NewRecorder()
		handleLogin(rec, jsonRequest("POST", "/api/auth/login", `{"email":"cabo@batalhao.test","password":"errada"}`))
		last = rec.Code
	}
	if last != http.StatusLocked {
		t.Errorf("after repeated failures got %d, want 423", last)
	}
}

func TestHandleMeAndLogout(t *testing.T) {
	newTestStores(t)

	rec := httptest.NewRecorder()
	handleMe(rec, jsonRequest("GET", "/api/auth/me", ""))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handleMe(rec, authRequest("GET", "/api/auth/me", "", operadorSession))
	var view sessionView
	json.NewDecoder(rec.Body).Decode(&view)
	if rec.Code != http.StatusOK || view.ID != operadorSession.AccountID || len(view.Permissions) == 0 {
		t.Errorf("me: %d %+v", rec.Code, view)
	}

	rec = httptest.NewRecorder()
	handleLogout(rec, authRequest("POST", "/api/auth/logout", "", operadorSession))
	if rec.Code != http.StatusOK {
		t.Errorf("logout: got %d", rec.Code)
	}
	if _, ok := sessions.Get("tok-" + operadorSession.AccountID); ok {
		t.Error("session survived logout")
	}
}

func newTestMux(t *testing.T) (http.Handler, *Stores) {
	t.Helper()
	s := newTestStores(t)
	static := t.TempDir()
	for _, dir := range []string{"admin", "painel", "login"} {
		os.MkdirAll(filepath.Join(static, dir), 0o755)
		os.WriteFile(filepath.Join(static, dir, "index.html"), []byte("<h1>"+dir+"</h1>"), 0o644)
	}
	h := NewMux(Options{
		StaticDir: static,
		CSRFKey:   bytes.Repeat([]byte("c"), 32),
		Sessions:  middleware.NewSessionStore(0),
	}, s)
	return h, s
}

func TestNewMux_LoginThenGuardedPages(t *testing.T) {
	h, s := newTestMux(t)
	seedAccount(t, s, "acc-1", "pol@batalhao.test", account.RolePolicial, "senha-forte-1")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/painel/", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("anonymous painel: got %d", rec.Code)
	}
	loc, _ := url.Parse(rec.Header().Get("Location"))
	if loc.Path != "/login" || loc.Query().Get("redirect") != "/painel/" || loc.Query().Get("message") != middleware.MsgLoginRequired {
		t.Errorf("Location = %s", loc)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, jsonRequest("POST", "/api/auth/login", `{"email":"pol@batalhao.test","password":"senha-forte-1"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	if rec := get("/painel/"); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "painel") {
		t.Errorf("painel with session: %d", rec.Code)
	}
	rec = get("/admin/")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("admin as policial: got %d", rec.Code)
	}
	loc, _ = url.Parse(rec.Header().Get("Location"))
	if loc.Query().Get("message") != middleware.MsgPermissionDenied {
		t.Errorf("message = %q", loc.Query().Get("message"))
	}
	if rec := get("/api/auth/me"); rec.Code != http.StatusOK {
		t.Errorf("me: %d", rec.Code)
	}
	if rec := get("/api/videos"); rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("videos: %d %q", rec.Code, rec.Body.String())
	}
}

func TestNewMux_UploadsNoListing(t *testing.T) {
	h, s := newTestMux(t)
	os.MkdirAll(filepath.Join(s.Files.Root(), "gallery"), 0o755)
	os.WriteFile(filepath.Join(s.Files.Root(), "gallery", "a.png"), pngBytes(t), 0o644)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/uploads/gallery/a.png", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("file: got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/uploads/gallery/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("listing: got %d, want 404", rec.Code)
	}
}

func TestHandlePassword(t *testing.T) {
	s := newTestStores(t)
	seedAccount(t, s, "op-001", "op@batalhao.test", account.RoleOperador, "senha-antiga-1")
	sessions.Set("other-device", operadorSession)

	rec := httptest.NewRecorder()
	handlePassword(rec, authRequest("POST", "/api/auth/password", `{"currentPassword":"errada-000","newPassword":"senha-nova-22"}`, operadorSession))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wrong current password: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handlePassword(rec, authRequest("POST", "/api/auth/password", `{"currentPassword":"senha-antiga-1","newPassword":"senha-nova-22"}`, operadorSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("change: got %d %s", rec.Code, rec.Body.String())
	}
	if _, ok := sessions.Get("other-device"); ok {
		t.Error("other sessions should be revoked")
	}
	if _, ok := sessions.Get("tok-" + operadorSession.AccountID); !ok {
		t.Error("caller session should survive")
	}

	acct, _ := s.AccountStore.GetByID(context.Background(), "op-001")
	if err := acct.CheckPassword("senha-nova-22"); err != nil {
		t.Error("password not changed")
	}
}
