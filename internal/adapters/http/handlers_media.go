package web

import (
	"errors"
	"io"
	"net/http"

	"batalhao/internal/adapters/storage/uploads"
	"batalhao/internal/application/orchestrators"
	"batalhao/internal/application/projections"
	"batalhao/internal/domain/account"
	"batalhao/internal/domain/gallery"
	"batalhao/internal/domain/uniform"
)

// multipartMemory is how much of an upload is buffered in memory before spilling to disk.
const multipartMemory = 1 << 20

// parseImageForm parses a multipart form and returns the optional "file" part.
// file is a nil interface when no file was sent. On failure it writes 400 and returns ok=false.
func parseImageForm(w http.ResponseWriter, r *http.Request) (file io.Reader, closeFn func(), ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, uploads.MaxImageBytes+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSONError(w, http.StatusBadRequest, uploads.ErrTooLarge.Error())
		} else {
			writeJSONError(w, http.StatusBadRequest, msgInvalidForm)
		}
		return nil, nil, false
	}
	closeFn = func() {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, closeFn, true
	}
	return f, func() { f.Close(); closeFn() }, true
}

// handleGallery handles GET/POST/DELETE for /api/gallery
func handleGallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		images, err := projections.QueryListGalleryImages(ctx, projections.ListGalleryImagesQuery{
			Category: r.URL.Query().Get("category"),
		}, projections.ListGalleryImagesDeps{GalleryStore: stores.GalleryStore})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, images)

	case "POST":
		if _, ok := requirePermission(w, r, account.PermWriteGallery); !ok {
			return
		}
		file, closeFn, ok := parseImageForm(w, r)
		if !ok {
			return
		}
		defer closeFn()
		img, err := orchestrators.ExecuteCreateGalleryImage(ctx, orchestrators.CreateGalleryImageInput{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Category:    r.FormValue("category"),
			File:        file,
		}, orchestrators.CreateGalleryImageDeps{
			GalleryStore: stores.GalleryStore,
			Files:        stores.Files,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		if err != nil {
			writeServiceError(w, err, nil, "")
			return
		}
		writeJSON(w, http.StatusCreated, img)

	case "DELETE":
		if _, ok := requirePermission(w, r, account.PermWriteGallery); !ok {
			return
		}
		removed, err := orchestrators.ExecuteDeleteGalleryImage(ctx, orchestrators.DeleteGalleryImageInput{
			ID: r.URL.Query().Get("id"),
		}, orchestrators.DeleteGalleryImageDeps{
			GalleryStore: stores.GalleryStore,
			Files:        stores.Files,
		})
		if err != nil {
			writeServiceError(w, err, gallery.ErrNotFound, msgImageNotFound)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true, ID: removed.ID})

	default:
		methodNotAllowed(w)
	}
}

// handleUniforms handles GET/POST/DELETE for /api/uniforms
func handleUniforms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		list, err := projections.QueryListUniforms(ctx, projections.ListUniformsQuery{
			Type: r.URL.Query().Get("type"),
		}, projections.ListUniformsDeps{UniformStore: stores.UniformStore})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)

	case "POST":
		if _, ok := requirePermission(w, r, account.PermWriteUniforms); !ok {
			return
		}
		file, closeFn, ok := parseImageForm(w, r)
		if !ok {
			return
		}
		defer closeFn()
		u, err := orchestrators.ExecuteCreateUniform(ctx, orchestrators.CreateUniformInput{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			Type:        r.FormValue("type"),
			File:        file,
		}, orchestrators.CreateUniformDeps{
			UniformStore: stores.UniformStore,
			Files:        stores.Files,
			GenerateID:   generateID,
			Now:          timeNow,
		})
		if err != nil {
			writeServiceError(w, err, nil, "")
			return
		}
		writeJSON(w, http.StatusCreated, u)

	case "DELETE":
		if _, ok := requirePermission(w, r, account.PermWriteUniforms); !ok {
			return
		}
		removed, err := orchestrators.ExecuteDeleteUniform(ctx, orchestrators.DeleteUniformInput{
			ID: r.URL.Query().Get("id"),
		}, orchestrators.DeleteUniformDeps{
			UniformStore: stores.UniformStore,
			Files:        stores.Files,
		})
		if err != nil {
			writeServiceError(w, err, uniform.ErrNotFound, msgUniformNotFound)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true, ID: removed.ID})

	default:
		methodNotAllowed(w)
	}
}
