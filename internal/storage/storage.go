// Package storage defines persistence interfaces for the gateway.
package storage

import (
	"context"

	library "github.com/eugener/radagast/internal"
)

// VideoStore manages catalog persistence.
type VideoStore interface {
	CreateVideo(ctx context.Context, v *library.Video) error
	GetVideo(ctx context.Context, id string) (*library.Video, error)
	GetVideoContent(ctx context.Context, id string) ([]byte, error)
	ListVideos(ctx context.Context) ([]library.VideoSummary, error)
	UpdateVideo(ctx context.Context, v *library.Video) error
	DeleteVideo(ctx context.Context, id string) error
}

// Store combines all storage interfaces.
type Store interface {
	VideoStore
	Ping(ctx context.Context) error
	Close() error
}
