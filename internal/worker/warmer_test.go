package worker

import (
	"context"
	"testing"
	"time"

	"github.com/eugener/radagast/internal/proxy"
	"github.com/eugener/radagast/internal/testutil"
)

func TestCacheWarmer_WarmsOnStart(t *testing.T) {
	t.Parallel()
	fake := &testutil.FakeLibrary{}
	cached, err := proxy.New(fake, proxy.Options{})
	if err != nil {
		t.Fatal(err)
	}
	w := NewCacheWarmer(cached, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// The initial warm-up runs before the first tick.
	deadline := time.After(time.Second)
	for fake.ListCalls() == 0 {
		select {
		case <-deadline:
			t.Fatal("warm-up never listed the catalog")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// A client listing right after startup is a cache hit.
	if _, err := cached.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := fake.ListCalls(); got != 1 {
		t.Errorf("delegate list calls = %d, want 1 (warmed slot must hit)", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("warmer did not stop on cancel")
	}
}

func TestCacheWarmer_Rewarms(t *testing.T) {
	t.Parallel()
	fake := &testutil.FakeLibrary{}
	w := NewCacheWarmer(fake, 20*time.Millisecond, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	w.Run(ctx)

	// Initial warm-up plus at least one tick (no cache in front here).
	if got := fake.ListCalls(); got < 2 {
		t.Errorf("list calls = %d, want >= 2", got)
	}
}
