package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	library "github.com/eugener/radagast/internal"
)

// CreateVideo inserts a new catalog record.
func (s *Store) CreateVideo(ctx context.Context, v *library.Video) error {
	_, err := s.write.ExecContext(ctx,
		`INSERT INTO videos (id, title, description, duration_s, content, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.Title, v.Description, v.Duration, v.Content,
		v.UploadedAt.UTC().Format(time.RFC3339),
	)
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("video %s: %w", v.ID, library.ErrConflict)
	}
	return err
}

// GetVideo retrieves a catalog record by ID, including its content.
func (s *Store) GetVideo(ctx context.Context, id string) (*library.Video, error) {
	row := s.read.QueryRowContext(ctx,
		`SELECT id, title, description, duration_s, content, uploaded_at
		 FROM videos WHERE id=?`, id,
	)
	return scanVideo(row)
}

// GetVideoContent retrieves only the content blob for a video.
func (s *Store) GetVideoContent(ctx context.Context, id string) ([]byte, error) {
	var content []byte
	err := s.read.QueryRowContext(ctx,
		`SELECT content FROM videos WHERE id=?`, id,
	).Scan(&content)
	if err != nil {
		return nil, notFoundErr(err)
	}
	return content, nil
}

// ListVideos returns summaries for the whole catalog, ordered by title.
func (s *Store) ListVideos(ctx context.Context) ([]library.VideoSummary, error) {
	rows, err := s.read.QueryContext(ctx,
		`SELECT id, title, duration_s FROM videos ORDER BY title ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []library.VideoSummary
	for rows.Next() {
		var sum library.VideoSummary
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Duration); err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// UpdateVideo updates a catalog record. The content blob is only rewritten
// when the caller supplies a non-nil Content.
func (s *Store) UpdateVideo(ctx context.Context, v *library.Video) error {
	var (
		result sql.Result
		err    error
	)
	if v.Content != nil {
		result, err = s.write.ExecContext(ctx,
			`UPDATE videos SET title=?, description=?, duration_s=?, content=? WHERE id=?`,
			v.Title, v.Description, v.Duration, v.Content, v.ID,
		)
	} else {
		result, err = s.write.ExecContext(ctx,
			`UPDATE videos SET title=?, description=?, duration_s=? WHERE id=?`,
			v.Title, v.Description, v.Duration, v.ID,
		)
	}
	if err != nil {
		return err
	}
	return checkRowsAffected(result, "video")
}

// DeleteVideo removes a catalog record.
func (s *Store) DeleteVideo(ctx context.Context, id string) error {
	result, err := s.write.ExecContext(ctx, `DELETE FROM videos WHERE id=?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, "video")
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(sc scanner) (*library.Video, error) {
	var (
		v        library.Video
		uploaded string
	)
	err := sc.Scan(&v.ID, &v.Title, &v.Description, &v.Duration, &v.Content, &uploaded)
	if err != nil {
		return nil, notFoundErr(err)
	}
	v.UploadedAt, err = time.Parse(time.RFC3339, uploaded)
	if err != nil {
		return nil, fmt.Errorf("parse uploaded_at: %w", err)
	}
	return &v, nil
}

// notFoundErr translates sql.ErrNoRows to library.ErrNotFound.
func notFoundErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return library.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
// modernc.org/sqlite formats these as "constraint failed: UNIQUE ...".
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}

func checkRowsAffected(result sql.Result, entity string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, library.ErrNotFound)
	}
	return nil
}
