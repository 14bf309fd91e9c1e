package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"batalhao/internal/adapters/http/perf"
	"batalhao/internal/application/projections"
	"batalhao/internal/domain/account"
)

func TestHandleAdminUsers_RequiresManagePermission(t *testing.T) {
	newTestStores(t)
	rec := httptest.NewRecorder()
	handleAdminUsers(rec, authRequest("GET", "/api/admin/users", "", moderadorSession))
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403", rec.Code)
	}
}

func TestHandleAdminUsers_ListPaged(t *testing.T) {
	s := newTestStores(t)
	seedAccount(t, s, "admin-001", "admin@batalhao.test", account.RoleAdmin, "senha-forte-1")
	seedAccount(t, s, "pol-001", "pol@batalhao.test", account.RolePolicial, "senha-forte-1")
	seedAccount(t, s, "pol-002", "pol2@batalhao.test", account.RolePolicial, "senha-forte-1")

	rec := httptest.NewRecorder()
	handleAdminUsers(rec, authRequest("GET", "/api/admin/users?role=policial&per_page=10", "", adminSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	var res projections.ListAccountsResult
	json.NewDecoder(rec.Body).Decode(&res)
	if res.Page.Total != 2 || len(res.Accounts) != 2 || res.Page.PerPage != 10 {
		t.Errorf("res = %+v", res)
	}
}

func TestHandleAdminUsers_ChangeRoleRevokesSessions(t *testing.T) {
	s := newTestStores(t)
	seedAccount(t, s, "admin-001", "admin@batalhao.test", account.RoleAdmin, "senha-forte-1")
	seedAccount(t, s, "pol-001", "pol@batalhao.test", account.RolePolicial, "senha-forte-1")
	sessions.Set("pol-token", policialSession)

	rec := httptest.NewRecorder()
	handleAdminUsers(rec, authRequest("PUT", "/api/admin/users", `{"id":"pol-001","role":"operador","patente":"Cabo"}`, adminSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	var view projections.AccountView
	json.NewDecoder(rec.Body).Decode(&view)
	if view.Role != account.RoleOperador || view.Patente != "Cabo" {
		t.Errorf("view = %+v", view)
	}
	if _, ok := sessions.Get("pol-token"); ok {
		t.Error("session of changed account survived")
	}
}

func TestHandleAdminUsers_Errors(t *testing.T) {
	s := newTestStores(t)
	seedAccount(t, s, "admin-001", "admin@batalhao.test", account.RoleAdmin, "senha-forte-1")

	cases := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{"self demotion", "PUT", "/api/admin/users", `{"id":"admin-001","role":"policial"}`, http.StatusBadRequest},
		{"bad role", "PUT", "/api/admin/users", `{"id":"admin-001","role":"general"}`, http.StatusBadRequest},
		{"unknown account", "PUT", "/api/admin/users", `{"id":"nope","role":"policial"}`, http.StatusNotFound},
		{"self delete", "DELETE", "/api/admin/users?id=admin-001", "", http.StatusBadRequest},
		{"unknown delete", "DELETE", "/api/admin/users?id=nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleAdminUsers(rec, authRequest(tc.method, tc.url, tc.body, adminSession))
			if rec.Code != tc.want {
				t.Errorf("got %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestHandleAdminUsers_CreateAndDelete(t *testing.T) {
	s := newTestStores(t)
	seedAccount(t, s, "admin-001", "admin@batalhao.test", account.RoleAdmin, "senha-forte-1")

	rec := httptest.NewRecorder()
	handleAdminUsers(rec, authRequest("POST", "/api/admin/users", `{"name":"Mod","email":"mod@batalhao.test","password":"senha-forte-1","role":"moderador"}`, adminSession))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var view projections.AccountView
	json.NewDecoder(rec.Body).Decode(&view)

	rec = httptest.NewRecorder()
	handleAdminUsers(rec, authRequest("DELETE", "/api/admin/users?id="+view.ID, "", adminSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	if _, err := s.AccountStore.GetByID(context.Background(), view.ID); err == nil {
		t.Error("account still present")
	}
}

func TestHandleAdminDashboard(t *testing.T) {
	s := newTestStores(t)
	seedAccount(t, s, "admin-001", "admin@batalhao.test", account.RoleAdmin, "senha-forte-1")
	createVideo(t)

	rec := httptest.NewRecorder()
	handleAdminDashboard(rec, authRequest("GET", "/api/admin/dashboard", "", operadorSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	var res projections.DashboardResult
	json.NewDecoder(rec.Body).Decode(&res)
	if res.Videos != 1 || res.Accounts != 1 || res.AccountsByRole[account.RoleAdmin] != 1 {
		t.Errorf("res = %+v", res)
	}

	rec = httptest.NewRecorder()
	handleAdminDashboard(rec, authRequest("GET", "/api/admin/dashboard", "", policialSession))
	if rec.Code != http.StatusForbidden {
		t.Errorf("policial: got %d, want 403", rec.Code)
	}
}

func TestHandleAdminPerf(t *testing.T) {
	newTestStores(t)
	perfCollector = perf.NewCollector(10)
	perfCollector.Record(perf.Entry{Kind: perf.KindRequest, Path: "GET /api/videos", DurationMs: 3, Timestamp: timeNow()})

	rec := httptest.NewRecorder()
	handleAdminPerf(rec, authRequest("GET", "/api/admin/perf?minutes=5&top=3", "", adminSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d", rec.Code)
	}
	var snap perf.Snapshot
	json.NewDecoder(rec.Body).Decode(&snap)
	if snap.TotalRecorded != 1 || len(snap.SlowestPaths) != 1 {
		t.Errorf("snap = %+v", snap)
	}
}

func TestHandleImpersonate(t *testing.T) {
	newTestStores(t)
	token := "tok-" + adminSession.AccountID

	rec := httptest.NewRecorder()
	handleImpersonate(rec, authRequest("POST", "/api/admin/impersonate", `{"role":"policial"}`, adminSession))
	if rec.Code != http.StatusOK {
		t.Fatalf("impersonate: got %d %s", rec.Code, rec.Body.String())
	}
	previewing, _ := sessions.Get(token)
	if previewing.Role != account.RolePolicial || previewing.RealRole != account.RoleAdmin {
		t.Fatalf("session after preview = %+v", previewing)
	}
	if previewing.Has(account.PermManageUsers) {
		t.Error("preview kept admin permissions")
	}

	// The previewed role cannot reach admin endpoints...
	rec = httptest.NewRecorder()
	handleAdminUsers(rec, authRequest("GET", "/api/admin/users", "", previewing))
	if rec.Code != http.StatusForbidden {
		t.Errorf("admin users while previewing: got %d", rec.Code)
	}

	// ...but can always restore.
	rec = httptest.NewRecorder()
	handleImpersonate(rec, authRequest("DELETE", "/api/admin/impersonate", "", previewing))
	if rec.Code != http.StatusOK {
		t.Fatalf("restore: got %d %s", rec.Code, rec.Body.String())
	}
	restored, _ := sessions.Get(token)
	if restored.Role != account.RoleAdmin || restored.RealRole != "" {
		t.Errorf("session after restore = %+v", restored)
	}
}

func TestHandleImpersonate_Rejections(t *testing.T) {
	newTestStores(t)

	rec := httptest.NewRecorder()
	handleImpersonate(rec, authRequest("POST", "/api/admin/impersonate", `{"role":"admin"}`, moderadorSession))
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin: got %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	handleImpersonate(rec, authRequest("POST", "/api/admin/impersonate", `{"role":"general"}`, adminSession))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad role: got %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	handleImpersonate(rec, authRequest("DELETE", "/api/admin/impersonate", "", adminSession))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("restore without preview: got %d, want 400", rec.Code)
	}
}
