package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	library "github.com/eugener/radagast/internal"
)

// maxAdminBody is the maximum allowed admin request body size (8 MB, content
// payloads included).
const maxAdminBody = 8 << 20

// decodeJSON limits body size, decodes JSON into v, and writes a 400 on error.
// Returns true if decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxAdminBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

// writeAdminError logs the full error server-side and returns a sanitized
// message to the client to avoid leaking internal details (e.g. SQLite errors).
func writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	switch {
	case errors.Is(err, library.ErrNotFound):
		writeJSON(w, status, errorResponse("not found"))
	case errors.Is(err, library.ErrConflict):
		writeJSON(w, status, errorResponse("conflict"))
	default:
		slog.LogAttrs(r.Context(), slog.LevelError, "admin error",
			slog.String("error", err.Error()),
		)
		writeJSON(w, status, errorResponse("internal error"))
	}
}

// --- Cache administration ---

func (s *server) handleCacheRefresh(w http.ResponseWriter, r *http.Request) {
	if s.deps.Cache == nil {
		writeJSON(w, http.StatusNotFound, errorResponse("caching disabled"))
		return
	}
	s.deps.Cache.ForceRefresh()
	writeJSON(w, http.StatusOK, map[string]any{"refreshed": true})
}

func (s *server) handleCacheResume(w http.ResponseWriter, r *http.Request) {
	if s.deps.Cache == nil {
		writeJSON(w, http.StatusNotFound, errorResponse("caching disabled"))
		return
	}
	s.deps.Cache.ResumeCaching()
	writeJSON(w, http.StatusOK, map[string]any{"bypassing": s.deps.Cache.Bypassing()})
}

func (s *server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.Cache == nil {
		writeJSON(w, http.StatusNotFound, errorResponse("caching disabled"))
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Cache.Stats())
}

// --- Catalog administration ---

type videoRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration_s"`
	Content     string `json:"content"`
}

func (s *server) handleCreateVideo(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse("catalog administration disabled"))
		return
	}
	var req videoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("title is required"))
		return
	}
	if req.ID == "" {
		req.ID = uuid.Must(uuid.NewV7()).String()
	}

	v := &library.Video{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
		Content:     []byte(req.Content),
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.deps.Store.CreateVideo(r.Context(), v); err != nil {
		writeAdminError(w, r, err)
		return
	}
	s.invalidateCache()
	writeJSON(w, http.StatusCreated, v.Info())
}

func (s *server) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse("catalog administration disabled"))
		return
	}
	var req videoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	v := &library.Video{
		ID:          chi.URLParam(r, "id"),
		Title:       req.Title,
		Description: req.Description,
		Duration:    req.Duration,
	}
	// Empty content means metadata-only update; the stored blob is kept.
	if req.Content != "" {
		v.Content = []byte(req.Content)
	}
	if err := s.deps.Store.UpdateVideo(r.Context(), v); err != nil {
		writeAdminError(w, r, err)
		return
	}
	s.invalidateCache()
	writeJSON(w, http.StatusOK, map[string]any{"updated": true})
}

func (s *server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse("catalog administration disabled"))
		return
	}
	if err := s.deps.Store.DeleteVideo(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeAdminError(w, r, err)
		return
	}
	s.invalidateCache()
	w.WriteHeader(http.StatusNoContent)
}

// invalidateCache forces a refresh after catalog mutations so readers going
// through the cached library converge on the new state.
func (s *server) invalidateCache() {
	if s.deps.Cache != nil {
		s.deps.Cache.ForceRefresh()
	}
}
