package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	library "github.com/eugener/radagast/internal"
	"github.com/eugener/radagast/internal/storage"
)

// Bootstrap seeds the catalog from the config file on first run. Entries
// whose id already exists are left untouched, so re-running is safe.
func Bootstrap(ctx context.Context, cfg *Config, store storage.Store) error {
	for _, entry := range cfg.Catalog.Videos {
		if err := seedVideo(ctx, store, toVideo(entry)); err != nil {
			return err
		}
	}

	if cfg.Catalog.File != "" {
		if err := seedFromFile(ctx, store, cfg.Catalog.File); err != nil {
			return err
		}
	}
	return nil
}

// seedFromFile imports videos from a JSON seed file shaped as
// {"videos": [{"id", "title", "description", "duration_s", "content"}, ...]}.
func seedFromFile(ctx context.Context, store storage.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("catalog file %s: invalid JSON", path)
	}

	var seedErr error
	gjson.GetBytes(data, "videos").ForEach(func(_, item gjson.Result) bool {
		v := toVideo(VideoEntry{
			ID:          item.Get("id").String(),
			Title:       item.Get("title").String(),
			Description: item.Get("description").String(),
			Duration:    int(item.Get("duration_s").Int()),
			Content:     item.Get("content").String(),
		})
		seedErr = seedVideo(ctx, store, v)
		return seedErr == nil
	})
	return seedErr
}

func toVideo(entry VideoEntry) *library.Video {
	id := entry.ID
	if id == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}
	return &library.Video{
		ID:          id,
		Title:       entry.Title,
		Description: entry.Description,
		Duration:    entry.Duration,
		Content:     []byte(entry.Content),
		UploadedAt:  time.Now().UTC(),
	}
}

func seedVideo(ctx context.Context, store storage.Store, v *library.Video) error {
	err := store.CreateVideo(ctx, v)
	if errors.Is(err, library.ErrConflict) {
		return nil // already exists, skip
	}
	if err != nil {
		return err
	}
	slog.Info("bootstrapped video", "id", v.ID, "title", v.Title)
	return nil
}
