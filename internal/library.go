// Package library defines domain types and interfaces for the Radagast video
// gateway. This package has no project imports -- it is the dependency root.
package library

import (
	"context"
	"time"
)

// Library is the capability set shared by the origin service and any stand-in
// placed in front of it. Consumers hold this interface and never branch on
// which concrete implementation they were given.
type Library interface {
	// List returns summaries for every video in the catalog.
	List(ctx context.Context) ([]VideoSummary, error)
	// Info returns metadata for a single video.
	// Returns ErrNotFound when the id is unknown.
	Info(ctx context.Context, id string) (*VideoInfo, error)
	// Content returns the encoded payload of a single video.
	// Returns ErrNotFound when the id is unknown.
	Content(ctx context.Context, id string) ([]byte, error)
}

// VideoSummary is a catalog listing entry.
type VideoSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration_s"`
}

// VideoInfo is the full metadata for a single video.
type VideoInfo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration_s"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Video is a stored catalog record, including its content payload.
// Content is only populated on paths that actually need the bytes.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Duration    int       `json:"duration_s"`
	Content     []byte    `json:"-"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Summary projects the record onto its listing entry.
func (v *Video) Summary() VideoSummary {
	return VideoSummary{ID: v.ID, Title: v.Title, Duration: v.Duration}
}

// Info projects the record onto its metadata view.
func (v *Video) Info() *VideoInfo {
	return &VideoInfo{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Duration:    v.Duration,
		SizeBytes:   int64(len(v.Content)),
		UploadedAt:  v.UploadedAt,
	}
}

// --- Context keys ---

type contextKey int

const ctxKeyRequestID contextKey = 0

// ContextWithRequestID returns a context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestIDFromContext extracts the request ID from context, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}
