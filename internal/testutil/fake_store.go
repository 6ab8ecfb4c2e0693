package testutil

import (
	"context"
	"fmt"
	"sync"

	library "github.com/eugener/radagast/internal"
)

// FakeStore is an in-memory implementation of storage.Store for testing.
type FakeStore struct {
	mu     sync.RWMutex
	videos map[string]*library.Video
	order  []string
}

// NewFakeStore returns a FakeStore with an empty catalog.
func NewFakeStore() *FakeStore {
	return &FakeStore{videos: make(map[string]*library.Video)}
}

// AddVideo inserts a video directly, bypassing conflict checks.
func (s *FakeStore) AddVideo(v *library.Video) {
	s.mu.Lock()
	if _, ok := s.videos[v.ID]; !ok {
		s.order = append(s.order, v.ID)
	}
	s.videos[v.ID] = v
	s.mu.Unlock()
}

// CreateVideo stores a video, failing with ErrConflict on a duplicate id.
func (s *FakeStore) CreateVideo(_ context.Context, v *library.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[v.ID]; ok {
		return fmt.Errorf("video %s: %w", v.ID, library.ErrConflict)
	}
	s.videos[v.ID] = v
	s.order = append(s.order, v.ID)
	return nil
}

// GetVideo looks up a video by id.
func (s *FakeStore) GetVideo(_ context.Context, id string) (*library.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[id]
	if !ok {
		return nil, library.ErrNotFound
	}
	return v, nil
}

// GetVideoContent returns only the content bytes for a video.
func (s *FakeStore) GetVideoContent(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[id]
	if !ok {
		return nil, library.ErrNotFound
	}
	return v.Content, nil
}

// ListVideos returns summaries in insertion order.
func (s *FakeStore) ListVideos(_ context.Context) ([]library.VideoSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]library.VideoSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.videos[id].Summary())
	}
	return out, nil
}

// UpdateVideo replaces a stored video.
func (s *FakeStore) UpdateVideo(_ context.Context, v *library.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[v.ID]; !ok {
		return library.ErrNotFound
	}
	s.videos[v.ID] = v
	return nil
}

// DeleteVideo removes a stored video.
func (s *FakeStore) DeleteVideo(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return library.ErrNotFound
	}
	delete(s.videos, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Ping always succeeds.
func (s *FakeStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *FakeStore) Close() error { return nil }
