package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	library "github.com/eugener/radagast/internal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	// Use a unique file-based temp DB for each test to avoid shared :memory: races
	s, err := New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testVideo(id string) *library.Video {
	return &library.Video{
		ID:          id,
		Title:       "Title " + id,
		Description: "desc",
		Duration:    120,
		Content:     []byte("mp4-bytes-" + id),
		UploadedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestVideoCRUD(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	v := testVideo("v1")
	if err := s.CreateVideo(ctx, v); err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}

	got, err := s.GetVideo(ctx, "v1")
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if got.Title != v.Title {
		t.Errorf("title = %q, want %q", got.Title, v.Title)
	}
	if string(got.Content) != string(v.Content) {
		t.Errorf("content = %q, want %q", got.Content, v.Content)
	}
	if !got.UploadedAt.Equal(v.UploadedAt) {
		t.Errorf("uploaded_at = %v, want %v", got.UploadedAt, v.UploadedAt)
	}

	got.Title = "renamed"
	got.Content = nil // metadata-only update must keep the blob
	if err := s.UpdateVideo(ctx, got); err != nil {
		t.Fatalf("UpdateVideo: %v", err)
	}
	content, err := s.GetVideoContent(ctx, "v1")
	if err != nil {
		t.Fatalf("GetVideoContent: %v", err)
	}
	if string(content) != string(v.Content) {
		t.Errorf("content after metadata update = %q, want %q", content, v.Content)
	}

	if err := s.DeleteVideo(ctx, "v1"); err != nil {
		t.Fatalf("DeleteVideo: %v", err)
	}
	if _, err := s.GetVideo(ctx, "v1"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("after delete err = %v, want ErrNotFound", err)
	}
}

func TestCreateVideo_Duplicate(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateVideo(ctx, testVideo("dup")); err != nil {
		t.Fatal(err)
	}
	err := s.CreateVideo(ctx, testVideo("dup"))
	if !errors.Is(err, library.ErrConflict) {
		t.Errorf("duplicate create err = %v, want ErrConflict", err)
	}
}

func TestListVideos_OrderedByTitle(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		v := testVideo(id)
		if err := s.CreateVideo(ctx, v); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListVideos(ctx)
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("count = %d, want 3", len(list))
	}
	for i, want := range []string{"a", "b", "c"} {
		if list[i].ID != want {
			t.Errorf("list[%d].ID = %q, want %q", i, list[i].ID, want)
		}
	}
}

func TestNotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetVideo(ctx, "nope"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("GetVideo err = %v, want ErrNotFound", err)
	}
	if _, err := s.GetVideoContent(ctx, "nope"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("GetVideoContent err = %v, want ErrNotFound", err)
	}
	if err := s.UpdateVideo(ctx, testVideo("nope")); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("UpdateVideo err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteVideo(ctx, "nope"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("DeleteVideo err = %v, want ErrNotFound", err)
	}
}

func TestPing(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
