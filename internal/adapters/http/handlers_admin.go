package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"batalhao/internal/adapters/http/middleware"
	"batalhao/internal/application/listutil"
	"batalhao/internal/application/orchestrators"
	"batalhao/internal/application/projections"
	"batalhao/internal/domain/account"
)

// handleAdminUsers handles GET/POST/PUT/DELETE for /api/admin/users
func handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	sess, ok := requirePermission(w, r, account.PermManageUsers)
	if !ok {
		return
	}
	ctx := r.Context()

	switch r.Method {
	case "GET":
		q := r.URL.Query()
		res, err := projections.QueryListAccounts(ctx, projections.ListAccountsQuery{
			Role: q.Get("role"),
			Page: listutil.ParsePageParams(q),
		}, projections.ListAccountsDeps{AccountStore: stores.AccountStore})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)

	case "POST":
		var input struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Role     string `json:"role"`
			Patente  string `json:"patente"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		acct, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
			Name:     input.Name,
			Email:    input.Email,
			Password: input.Password,
			Role:     input.Role,
			Patente:  input.Patente,
		}, orchestrators.CreateAccountDeps{
			AccountStore: stores.AccountStore,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		if err != nil {
			writeServiceError(w, err, nil, "")
			return
		}
		writeJSON(w, http.StatusCreated, projections.NewAccountView(acct))

	case "PUT":
		var input struct {
			ID      string  `json:"id"`
			Role    string  `json:"role"`
			Patente *string `json:"patente"`
		}
		if err := decodePatch(r, &input); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		acct, err := orchestrators.ExecuteChangeRole(ctx, orchestrators.ChangeRoleInput{
			ActorID:   sess.AccountID,
			AccountID: input.ID,
			Role:      input.Role,
			Patente:   input.Patente,
		}, orchestrators.ChangeRoleDeps{AccountStore: stores.AccountStore})
		if err != nil {
			writeServiceError(w, err, account.ErrNotFound, msgUserNotFound)
			return
		}
		// Permissions live in the session, so the member signs in again to pick up the new role.
		if n := sessions.RevokeAccount(acct.ID); n > 0 {
			slog.Info("session_event", "event", "sessions_revoked", "account_id", acct.ID, "count", n, "reason", "role_changed")
		}
		writeJSON(w, http.StatusOK, projections.NewAccountView(acct))

	case "DELETE":
		acct, err := orchestrators.ExecuteDeleteAccount(ctx, orchestrators.DeleteAccountInput{
			ActorID:   sess.AccountID,
			AccountID: r.URL.Query().Get("id"),
		}, orchestrators.DeleteAccountDeps{AccountStore: stores.AccountStore})
		if err != nil {
			writeServiceError(w, err, account.ErrNotFound, msgUserNotFound)
			return
		}
		sessions.RevokeAccount(acct.ID)
		writeJSON(w, http.StatusOK, successResponse{Success: true, ID: acct.ID})

	default:
		methodNotAllowed(w)
	}
}

// handleAdminDashboard handles GET /api/admin/dashboard
func handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, account.PermViewDashboard); !ok {
		return
	}
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	res, err := projections.QueryDashboard(r.Context(), projections.DashboardDeps{
		GalleryStore:    stores.GalleryStore,
		VideoStore:      stores.VideoStore,
		UniformStore:    stores.UniformStore,
		HierarchyStore:  stores.HierarchyStore,
		LiveNoticeStore: stores.LiveNoticeStore,
		AccountStore:    stores.AccountStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Defaults for /api/admin/perf.
const (
	defaultPerfWindow = 60 * time.Minute
	defaultPerfTop    = 10
	maxPerfTop        = 100
)

// handleAdminPerf handles GET /api/admin/perf?minutes=&top=
func handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePermission(w, r, account.PermManageUsers); !ok {
		return
	}
	if r.Method != "GET" {
		methodNotAllowed(w)
		return
	}
	window := defaultPerfWindow
	if m, err := strconv.Atoi(r.URL.Query().Get("minutes")); err == nil && m > 0 {
		window = time.Duration(m) * time.Minute
	}
	top := defaultPerfTop
	if n, err := strconv.Atoi(r.URL.Query().Get("top")); err == nil && n > 0 {
		top = min(n, maxPerfTop)
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(timeNow().Add(-window), top))
}

// handleImpersonate handles /api/admin/impersonate. POST {role} previews the
// portal as that role; DELETE returns to admin from any previewed role.
func handleImpersonate(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	token, _ := middleware.GetTokenFromContext(r.Context())

	var result orchestrators.DevModeResult
	var err error
	switch r.Method {
	case "POST":
		var input struct {
			Role string `json:"role"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		result, err = orchestrators.ExecuteDevModeImpersonate(orchestrators.DevModeImpersonateInput{
			TargetRole:  input.Role,
			CurrentRole: sess.Role,
			RealRole:    sess.RealRole,
		})
	case "DELETE":
		result, err = orchestrators.ExecuteDevModeRestore(sess.RealRole)
	default:
		methodNotAllowed(w)
		return
	}
	if errors.Is(err, orchestrators.ErrDevModeNotAdmin) {
		writeJSONError(w, http.StatusForbidden, msgPermissionDenied)
		return
	}
	if err != nil {
		writeServiceError(w, err, nil, "")
		return
	}

	sess.Role = result.Role
	sess.RealRole = result.RealRole
	sess.Permissions = result.Permissions
	sessions.Set(token, sess)
	slog.Info("auth_event", "event", "role_preview", "account_id", sess.AccountID, "role", sess.Role, "previewing", sess.RealRole != "")
	writeJSON(w, http.StatusOK, map[string]any{"user": newSessionView(sess), "redirect": landingPage(sess.Role)})
}
