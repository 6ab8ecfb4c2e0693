package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	library "github.com/eugener/radagast/internal"
	"github.com/eugener/radagast/internal/breaker"
)

func (s *server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Library.List(r.Context())
	if err != nil {
		writeJSON(w, errorStatus(err), errorResponse(err.Error()))
		return
	}
	if list == nil {
		list = []library.VideoSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"videos": list})
}

func (s *server) handleVideoInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	info, err := s.deps.Library.Info(r.Context(), id)
	if err != nil {
		writeJSON(w, errorStatus(err), errorResponse(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// cacheStatusHeader reports whether the payload came out of the cached
// library, for observability only.
const cacheStatusHeader = "X-Radagast-Cache"

func (s *server) handleVideoContent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	status := "bypass"
	if s.deps.Cache != nil {
		if s.deps.Cache.HasContent(id) {
			status = "hit"
		} else {
			status = "miss"
		}
	}

	content, err := s.deps.Library.Content(r.Context(), id)
	if err != nil {
		writeJSON(w, errorStatus(err), errorResponse(err.Error()))
		return
	}

	w.Header()[cacheStatusHeader] = []string{status}
	w.Header().Set("Content-Type", "video/mp4")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func errorResponse(msg string) apiError {
	var e apiError
	e.Error.Message = msg
	e.Error.Type = "invalid_request_error"
	return e
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, library.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, library.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, library.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, breaker.ErrOpen):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// jsonCT is a pre-allocated header value slice (see plainCT in health.go).
var jsonCT = []string{"application/json"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header()["Content-Type"] = jsonCT
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
