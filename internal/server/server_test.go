package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	library "github.com/eugener/radagast/internal"
	"github.com/eugener/radagast/internal/proxy"
	"github.com/eugener/radagast/internal/testutil"
)

func doRequest(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListVideos(t *testing.T) {
	t.Parallel()
	h := New(Deps{Library: &testutil.FakeLibrary{}})

	rec := doRequest(t, h, http.MethodGet, "/v1/videos")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Videos []library.VideoSummary `json:"videos"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Videos) != 2 || body.Videos[0].ID != "v1" {
		t.Errorf("videos = %+v", body.Videos)
	}
}

func TestVideoInfo(t *testing.T) {
	t.Parallel()
	h := New(Deps{Library: &testutil.FakeLibrary{}})

	rec := doRequest(t, h, http.MethodGet, "/v1/videos/v42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var info library.VideoInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.ID != "v42" {
		t.Errorf("id = %q, want v42", info.ID)
	}
}

func TestVideoInfo_NotFound(t *testing.T) {
	t.Parallel()
	fake := &testutil.FakeLibrary{
		InfoFn: func(context.Context, string) (*library.VideoInfo, error) {
			return nil, library.ErrNotFound
		},
	}
	h := New(Deps{Library: fake})

	rec := doRequest(t, h, http.MethodGet, "/v1/videos/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestVideoContent_CacheStatusHeader(t *testing.T) {
	t.Parallel()
	fake := &testutil.FakeLibrary{}
	cached, err := proxy.New(fake, proxy.Options{})
	if err != nil {
		t.Fatal(err)
	}
	h := New(Deps{Library: cached, Cache: cached})

	rec := doRequest(t, h, http.MethodGet, "/v1/videos/v1/content")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get(cacheStatusHeader); got != "miss" {
		t.Errorf("cache header = %q, want miss", got)
	}
	if got := rec.Body.String(); got != "mp4:v1" {
		t.Errorf("body = %q, want mp4:v1", got)
	}

	// otter processes Set asynchronously; wait briefly.
	time.Sleep(50 * time.Millisecond)

	rec = doRequest(t, h, http.MethodGet, "/v1/videos/v1/content")
	if got := rec.Header().Get(cacheStatusHeader); got != "hit" {
		t.Errorf("cache header = %q, want hit", got)
	}
	if got := fake.ContentCalls(); got != 1 {
		t.Errorf("delegate content calls = %d, want 1", got)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	h := New(Deps{Library: &testutil.FakeLibrary{}})

	rec := doRequest(t, h, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", rec.Body.String())
	}
}

func TestReadyz_NotReady(t *testing.T) {
	t.Parallel()
	h := New(Deps{
		Library:    &testutil.FakeLibrary{},
		ReadyCheck: func(context.Context) error { return errors.New("db down") },
	})

	rec := doRequest(t, h, http.MethodGet, "/readyz")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()
	h := New(Deps{Library: &testutil.FakeLibrary{}})

	rec := doRequest(t, h, http.MethodGet, "/healthz")
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("expected generated request id header")
	}

	// A caller-supplied id is echoed back.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "req-123" {
		t.Errorf("request id = %q, want req-123", got)
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()
	fake := &testutil.FakeLibrary{
		ListFn: func(context.Context) ([]library.VideoSummary, error) {
			panic("boom")
		},
	}
	h := New(Deps{Library: fake})

	rec := doRequest(t, h, http.MethodGet, "/v1/videos")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
