package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"batalhao/internal/adapters/http/middleware"
	"batalhao/internal/domain/validation"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// User-facing error messages.
const (
	msgNotAuthenticated  = "Não autenticado"
	msgSessionExpired    = "Sessão expirada"
	msgPermissionDenied  = "Permissão negada"
	msgInvalidJSON       = "JSON inválido"
	msgInvalidForm       = "Formulário inválido"
	msgMethodNotAllowed  = "Método não permitido"
	msgInternal          = "Erro interno do servidor"
	msgImageNotFound     = "Imagem não encontrada"
	msgVideoNotFound     = "Vídeo não encontrado"
	msgUniformNotFound   = "Fardamento não encontrado"
	msgHierarchyNotFound = "Membro da hierarquia não encontrado"
	msgLiveNotFound      = "Aviso de live não encontrado"
	msgUserNotFound      = "Usuário não encontrado"
)

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response_encode_failed", "error", err)
	}
}

// writeJSONError writes {"error": msg}.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSONError(w, http.StatusInternalServerError, msgInternal)
}

// writeServiceError maps an orchestrator error to a response:
// validation → 400, notFound → 404 with notFoundMsg, anything else → 500.
func writeServiceError(w http.ResponseWriter, err, notFound error, notFoundMsg string) {
	switch {
	case validation.Is(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case notFound != nil && errors.Is(err, notFound):
		writeJSONError(w, http.StatusNotFound, notFoundMsg)
	default:
		internalError(w, err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodePatch decodes a PUT body. Fields outside v, such as createdAt on a
// record echoed back from GET, are ignored.
func decodePatch(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// successResponse is returned by delete endpoints.
type successResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// requireSession returns the caller's live session or writes 401.
// An expired session is cleared before answering.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, msgNotAuthenticated)
		return middleware.Session{}, false
	}
	if sess.Expired(timeNow()) {
		if token, ok := middleware.GetTokenFromContext(r.Context()); ok {
			sessions.Clear(token)
		}
		middleware.ClearSessionCookie(w, secureCookies)
		slog.Info("auth_denied", "path", r.URL.Path, "account_id", sess.AccountID, "reason", "expired")
		writeJSONError(w, http.StatusUnauthorized, msgSessionExpired)
		return middleware.Session{}, false
	}
	return sess, true
}

// requirePermission returns the caller's session when it holds perm, or writes 401/403.
func requirePermission(w http.ResponseWriter, r *http.Request, perm string) (middleware.Session, bool) {
	sess, ok := requireSession(w, r)
	if !ok {
		return middleware.Session{}, false
	}
	if !sess.Has(perm) {
		slog.Warn("auth_denied", "path", r.URL.Path, "account_id", sess.AccountID, "role", sess.Role, "required", perm)
		writeJSONError(w, http.StatusForbidden, msgPermissionDenied)
		return middleware.Session{}, false
	}
	return sess, true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSONError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
