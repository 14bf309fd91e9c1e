package web

import (
	"net/http"

	"batalhao/internal/adapters/http/middleware"
	"batalhao/internal/application/orchestrators"
	"batalhao/internal/application/projections"
	"batalhao/internal/domain/account"
	"batalhao/internal/domain/hierarchy"
	"batalhao/internal/domain/livestream"
	"batalhao/internal/domain/video"
)

// handleVideos handles GET/POST/PUT/DELETE for /api/videos
func handleVideos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deps := projections.ListVideosDeps{VideoStore: stores.VideoStore}

	switch r.Method {
	case "GET":
		if id := r.URL.Query().Get("id"); id != "" {
			v, err := projections.QueryGetVideo(ctx, id, deps)
			if err != nil {
				writeServiceError(w, err, video.ErrNotFound, msgVideoNotFound)
				return
			}
			writeJSON(w, http.StatusOK, v)
			return
		}
		videos, err := projections.QueryListVideos(ctx, deps)
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, videos)

	case "POST":
		if _, ok := requirePermission(w, r, account.PermWriteVideos); !ok {
			return
		}
		var input struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			YouTubeID   string `json:"youtubeId"`
			Thumbnail   string `json:"thumbnail"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		v, err := orchestrators.ExecuteCreateVideo(ctx, orchestrators.CreateVideoInput{
			Title:       input.Title,
			Description: input.Description,
			YouTubeID:   input.YouTubeID,
			Thumbnail:   input.Thumbnail,
		}, orchestrators.CreateVideoDeps{
			VideoStore: stores.VideoStore,
			GenerateID: generateID,
			Now:        timeNow,
		})
		if err != nil {
			writeServiceError(w, err, nil, "")
			return
		}
		writeJSON(w, http.StatusCreated, v)

	case "PUT":
		if _, ok := requirePermission(w, r, account.PermWriteVideos); !ok {
			return
		}
		var input struct {
			ID          string  `json:"id"`
			Title       *string `json:"title"`
			Description *string `json:"description"`
			YouTubeID   *string `json:"youtubeId"`
			Thumbnail   *string `json:"thumbnail"`
		}
		if err := decodePatch(r, &input); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		v, err := orchestrators.ExecuteUpdateVideo(ctx, orchestrators.UpdateVideoInput{
			ID: input.ID,
			Patch: video.Patch{
				Title:       input.Title,
				Description: input.Description,
				YouTubeID:   input.YouTubeID,
				Thumbnail:   input.Thumbnail,
			},
		}, orchestrators.UpdateVideoDeps{VideoStore: stores.VideoStore, Now: timeNow})
		if err != nil {
			writeServiceError(w, err, video.ErrNotFound, msgVideoNotFound)
			return
		}
		writeJSON(w, http.StatusOK, v)

	case "DELETE":
		if _, ok := requirePermission(w, r, account.PermWriteVideos); !ok {
			return
		}
		removed, err := orchestrators.ExecuteDeleteVideo(ctx, orchestrators.DeleteVideoInput{
			ID: r.URL.Query().Get("id"),
		}, orchestrators.DeleteVideoDeps{VideoStore: stores.VideoStore})
		if err != nil {
			writeServiceError(w, err, video.ErrNotFound, msgVideoNotFound)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true, ID: removed.ID})

	default:
		methodNotAllowed(w)
	}
}

// handleHierarchy handles GET/POST/PUT/DELETE for /api/hierarchy
func handleHierarchy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		entries, err := projections.QueryListHierarchy(ctx, projections.ListHierarchyDeps{HierarchyStore: stores.HierarchyStore})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)

	case "POST":
		if _, ok := requirePermission(w, r, account.PermWriteHierarchy); !ok {
			return
		}
		var input struct {
			Name     string `json:"name"`
			Patente  string `json:"patente"`
			Position string `json:"position"`
			Order    int    `json:"order"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		e, err := orchestrators.ExecuteCreateHierarchyEntry(ctx, orchestrators.CreateHierarchyEntryInput{
			Name:     input.Name,
			Patente:  input.Patente,
			Position: input.Position,
			Order:    input.Order,
		}, orchestrators.CreateHierarchyEntryDeps{
			HierarchyStore: stores.HierarchyStore,
			GenerateID:     generateID,
			Now:            timeNow,
		})
		if err != nil {
			writeServiceError(w, err, nil, "")
			return
		}
		writeJSON(w, http.StatusCreated, e)

	case "PUT":
		if _, ok := requirePermission(w, r, account.PermWriteHierarchy); !ok {
			return
		}
		var input struct {
			ID       string  `json:"id"`
			Name     *string `json:"name"`
			Patente  *string `json:"patente"`
			Position *string `json:"position"`
			Order    *int    `json:"order"`
		}
		if err := decodePatch(r, &input); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		e, err := orchestrators.ExecuteUpdateHierarchyEntry(ctx, orchestrators.UpdateHierarchyEntryInput{
			ID: input.ID,
			Patch: hierarchy.Patch{
				Name:     input.Name,
				Patente:  input.Patente,
				Position: input.Position,
				Order:    input.Order,
			},
		}, orchestrators.UpdateHierarchyEntryDeps{HierarchyStore: stores.HierarchyStore, Now: timeNow})
		if err != nil {
			writeServiceError(w, err, hierarchy.ErrNotFound, msgHierarchyNotFound)
			return
		}
		writeJSON(w, http.StatusOK, e)

	case "DELETE":
		if _, ok := requirePermission(w, r, account.PermWriteHierarchy); !ok {
			return
		}
		removed, err := orchestrators.ExecuteDeleteHierarchyEntry(ctx, orchestrators.DeleteHierarchyEntryInput{
			ID: r.URL.Query().Get("id"),
		}, orchestrators.DeleteHierarchyEntryDeps{HierarchyStore: stores.HierarchyStore})
		if err != nil {
			writeServiceError(w, err, hierarchy.ErrNotFound, msgHierarchyNotFound)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true, ID: removed.ID})

	default:
		methodNotAllowed(w)
	}
}

// canModerateLives reports whether sess may change notices it did not create.
func canModerateLives(sess middleware.Session) bool {
	return sess.IsAdmin() || sess.Role == account.RoleModerador
}

// handleLives handles GET/POST/PUT/DELETE for /api/lives
// Members may toggle or delete only their own notices unless they moderate.
func handleLives(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case "GET":
		views, err := projections.QueryListLiveNotices(ctx, projections.ListLiveNoticesQuery{
			ActiveOnly: r.URL.Query().Get("active") == "true",
		}, projections.ListLiveNoticesDeps{LiveNoticeStore: stores.LiveNoticeStore})
		if err != nil {
			internalError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)

	case "POST":
		sess, ok := requirePermission(w, r, account.PermWriteLiveNotice)
		if !ok {
			return
		}
		var input struct {
			Title     string `json:"title"`
			Message   string `json:"message"`
			StreamURL string `json:"streamUrl"`
			Platform  string `json:"platform"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		n, err := orchestrators.ExecuteCreateLiveNotice(ctx, orchestrators.CreateLiveNoticeInput{
			Title:     input.Title,
			Message:   input.Message,
			StreamURL: input.StreamURL,
			Platform:  input.Platform,
			CreatedBy: sess.AccountID,
		}, orchestrators.CreateLiveNoticeDeps{
			LiveNoticeStore: stores.LiveNoticeStore,
			GenerateID:      generateID,
			Now:             timeNow,
		})
		if err != nil {
			writeServiceError(w, err, nil, "")
			return
		}
		writeJSON(w, http.StatusCreated, projections.LiveNoticeView{Notice: n, MessageHTML: projections.RenderMarkdown(n.Message)})

	case "PUT":
		sess, ok := requirePermission(w, r, account.PermWriteLiveNotice)
		if !ok {
			return
		}
		var input struct {
			ID     string `json:"id"`
			Active *bool  `json:"active"`
		}
		if err := decodePatch(r, &input); err != nil {
			writeJSONError(w, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		if input.Active == nil {
			writeJSONError(w, http.StatusBadRequest, "campo active é obrigatório")
			return
		}
		if !authorizeLiveChange(w, r, sess, input.ID) {
			return
		}
		n, err := orchestrators.ExecuteSetLiveNoticeActive(ctx, orchestrators.SetLiveNoticeActiveInput{
			ID:     input.ID,
			Active: *input.Active,
		}, orchestrators.SetLiveNoticeActiveDeps{LiveNoticeStore: stores.LiveNoticeStore})
		if err != nil {
			writeServiceError(w, err, livestream.ErrNotFound, msgLiveNotFound)
			return
		}
		writeJSON(w, http.StatusOK, projections.LiveNoticeView{Notice: n, MessageHTML: projections.RenderMarkdown(n.Message)})

	case "DELETE":
		sess, ok := requirePermission(w, r, account.PermWriteLiveNotice)
		if !ok {
			return
		}
		id := r.URL.Query().Get("id")
		if !authorizeLiveChange(w, r, sess, id) {
			return
		}
		removed, err := orchestrators.ExecuteDeleteLiveNotice(ctx, orchestrators.DeleteLiveNoticeInput{ID: id},
			orchestrators.DeleteLiveNoticeDeps{LiveNoticeStore: stores.LiveNoticeStore})
		if err != nil {
			writeServiceError(w, err, livestream.ErrNotFound, msgLiveNotFound)
			return
		}
		writeJSON(w, http.StatusOK, successResponse{Success: true, ID: removed.ID})

	default:
		methodNotAllowed(w)
	}
}

// authorizeLiveChange writes 400/404/403 and returns false when sess may not touch notice id.
func authorizeLiveChange(w http.ResponseWriter, r *http.Request, sess middleware.Session, id string) bool {
	if canModerateLives(sess) {
		return true
	}
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, orchestrators.ErrMissingID.Error())
		return false
	}
	n, err := stores.LiveNoticeStore.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, livestream.ErrNotFound, msgLiveNotFound)
		return false
	}
	if n.CreatedBy != sess.AccountID {
		writeJSONError(w, http.StatusForbidden, msgPermissionDenied)
		return false
	}
	return true
}
