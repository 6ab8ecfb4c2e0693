package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/eugener/radagast/internal/testutil"
)

func TestBootstrap_InlineVideos(t *testing.T) {
	t.Parallel()
	store := testutil.NewFakeStore()
	cfg := &Config{
		Catalog: CatalogConfig{
			Videos: []VideoEntry{
				{ID: "v1", Title: "First", Duration: 60, Content: "aaa"},
				{Title: "No ID", Duration: 30},
			},
		},
	}

	if err := Bootstrap(context.Background(), cfg, store); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	list, err := store.ListVideos(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("videos = %d, want 2", len(list))
	}

	v, err := store.GetVideo(context.Background(), "v1")
	if err != nil {
		t.Fatal(err)
	}
	if string(v.Content) != "aaa" {
		t.Errorf("content = %q, want aaa", v.Content)
	}
	// The entry without an id gets a generated one.
	if list[1].ID == "" {
		t.Error("expected generated id")
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	t.Parallel()
	store := testutil.NewFakeStore()
	cfg := &Config{
		Catalog: CatalogConfig{
			Videos: []VideoEntry{{ID: "v1", Title: "First"}},
		},
	}

	for range 2 {
		if err := Bootstrap(context.Background(), cfg, store); err != nil {
			t.Fatalf("Bootstrap: %v", err)
		}
	}

	list, _ := store.ListVideos(context.Background())
	if len(list) != 1 {
		t.Errorf("videos = %d, want 1 (existing entries are skipped)", len(list))
	}
}

func TestBootstrap_SeedFile(t *testing.T) {
	t.Parallel()
	seed := `{
	  "videos": [
	    {"id": "f1", "title": "From file", "duration_s": 90, "content": "xyz"},
	    {"id": "f2", "title": "Second"}
	  ]
	}`
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	store := testutil.NewFakeStore()
	cfg := &Config{Catalog: CatalogConfig{File: path}}

	if err := Bootstrap(context.Background(), cfg, store); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	v, err := store.GetVideo(context.Background(), "f1")
	if err != nil {
		t.Fatal(err)
	}
	if v.Title != "From file" || v.Duration != 90 {
		t.Errorf("video = %+v", v)
	}
}

func TestBootstrap_SeedFileInvalid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := testutil.NewFakeStore()
	cfg := &Config{Catalog: CatalogConfig{File: path}}

	if err := Bootstrap(context.Background(), cfg, store); err == nil {
		t.Error("expected error for invalid seed file")
	}
}
