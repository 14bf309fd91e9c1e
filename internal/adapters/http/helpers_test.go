package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"batalhao/internal/adapters/http/middleware"
	"batalhao/internal/adapters/storage"
	accountStore "batalhao/internal/adapters/storage/account"
	galleryStore "batalhao/internal/adapters/storage/gallery"
	hierarchyStore "batalhao/internal/adapters/storage/hierarchy"
	"batalhao/internal/adapters/storage/jsonstore"
	liveStore "batalhao/internal/adapters/storage/livestream"
	uniformStore "batalhao/internal/adapters/storage/uniform"
	"batalhao/internal/adapters/storage/uploads"
	videoStore "batalhao/internal/adapters/storage/video"
	"batalhao/internal/domain/account"
	"batalhao/internal/domain/gallery"
	"batalhao/internal/domain/hierarchy"
	"batalhao/internal/domain/livestream"
	"batalhao/internal/domain/uniform"
	"batalhao/internal/domain/video"
)

// newTestStores points the package globals at fresh stores in a temp dir.
func newTestStores(t *testing.T) *Stores {
	t.Helper()
	dir := t.TempDir()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data := filepath.Join(dir, "data")
	s := &Stores{
		AccountStore:    accountStore.NewSQLiteStore(db),
		GalleryStore:    galleryStore.NewJSONStore(jsonstore.Open[gallery.Image](filepath.Join(data, "gallery.json"), jsonstore.Options{Name: "gallery"})),
		VideoStore:      videoStore.NewJSONStore(jsonstore.Open[video.Video](filepath.Join(data, "videos.json"), jsonstore.Options{Name: "videos"})),
		UniformStore:    uniformStore.NewJSONStore(jsonstore.Open[uniform.Uniform](filepath.Join(data, "uniforms.json"), jsonstore.Options{Name: "uniforms"})),
		HierarchyStore:  hierarchyStore.NewJSONStore(jsonstore.Open[hierarchy.Entry](filepath.Join(data, "hierarchy.json"), jsonstore.Options{Name: "hierarchy"})),
		LiveNoticeStore: liveStore.NewJSONStore(jsonstore.Open[livestream.Notice](filepath.Join(data, "lives.json"), jsonstore.Options{Name: "lives"})),
		Files:           uploads.New(filepath.Join(dir, "uploads")),
	}
	stores = s
	sessions = middleware.NewSessionStore(0)
	perfCollector = nil
	emailSender = nil
	return s
}

func sessionFor(id, role string) middleware.Session {
	return middleware.Session{
		AccountID:   id,
		Name:        "Membro " + id,
		Email:       id + "@batalhao.test",
		Role:        role,
		Permissions: account.PermissionsFor(role),
		LastLogin:   time.Now(),
	}
}

var (
	adminSession     = sessionFor("admin-001", account.RoleAdmin)
	moderadorSession = sessionFor("mod-001", account.RoleModerador)
	operadorSession  = sessionFor("op-001", account.RoleOperador)
	policialSession  = sessionFor("pol-001", account.RolePolicial)
)

// authRequest returns a request carrying sess in its context.
func authRequest(method, url, body string, sess middleware.Session) *http.Request {
	req := jsonRequest(method, url, body)
	token := "tok-" + sess.AccountID
	sessions.Set(token, sess)
	return req.WithContext(middleware.ContextWithSession(req.Context(), token, sess))
}

func jsonRequest(method, url, body string) *http.Request {
	if body == "" {
		return httptest.NewRequest(method, url, nil)
	}
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a multipart form; fileBytes nil means no file part.
func multipartRequest(t *testing.T, url string, fields map[string]string, fileName string, fileBytes []byte, sess middleware.Session) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if fileBytes != nil {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(fileBytes)
	}
	mw.Close()

	req := httptest.NewRequest("POST", url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	token := "tok-" + sess.AccountID
	sessions.Set(token, sess)
	return req.WithContext(middleware.ContextWithSession(req.Context(), token, sess))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

func seedAccount(t *testing.T, s *Stores, id, email, role, password string) account.Account {
	t.Helper()
	a := account.Account{
		ID:        id,
		Name:      "Membro " + id,
		Email:     email,
		Role:      role,
		Patente:   account.DefaultPatente,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.SetPassword(password); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := s.AccountStore.Save(context.Background(), a); err != nil {
		t.Fatalf("Save: %v", err)
	}
	return a
}
