package origin

import (
	"context"
	"errors"
	"testing"
	"time"

	library "github.com/eugener/radagast/internal"
	"github.com/eugener/radagast/internal/testutil"
)

func seedStore() *testutil.FakeStore {
	store := testutil.NewFakeStore()
	store.AddVideo(&library.Video{
		ID:         "v1",
		Title:      "Demo",
		Duration:   42,
		Content:    []byte("payload"),
		UploadedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	return store
}

func TestList(t *testing.T) {
	t.Parallel()
	svc := New(seedStore(), nil)

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("count = %d, want 1", len(list))
	}
	if list[0].ID != "v1" || list[0].Title != "Demo" {
		t.Errorf("summary = %+v", list[0])
	}
}

func TestInfo(t *testing.T) {
	t.Parallel()
	svc := New(seedStore(), nil)

	info, err := svc.Info(context.Background(), "v1")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Title != "Demo" {
		t.Errorf("title = %q, want Demo", info.Title)
	}
	if info.SizeBytes != int64(len("payload")) {
		t.Errorf("size = %d, want %d", info.SizeBytes, len("payload"))
	}

	if _, err := svc.Info(context.Background(), "missing"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestContent(t *testing.T) {
	t.Parallel()
	svc := New(seedStore(), nil)

	content, err := svc.Content(context.Background(), "v1")
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if string(content) != "payload" {
		t.Errorf("content = %q, want payload", content)
	}

	if _, err := svc.Content(context.Background(), "missing"); !errors.Is(err, library.ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
}

func TestSimulatedCost(t *testing.T) {
	t.Parallel()
	svc := New(seedStore(), nil, WithCost(50*time.Millisecond))

	start := time.Now()
	if _, err := svc.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("call took %v, want >= 50ms of simulated cost", elapsed)
	}
}

func TestSimulatedCost_Cancelled(t *testing.T) {
	t.Parallel()
	svc := New(seedStore(), nil, WithCost(10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	svc.List(ctx)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled call took %v, want immediate return", elapsed)
	}
}
