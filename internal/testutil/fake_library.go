// Package testutil provides configurable test fakes for gateway interfaces.
package testutil

import (
	"context"
	"sync/atomic"
	"time"

	library "github.com/eugener/radagast/internal"
)

// FakeLibrary is a configurable library.Library for testing. Each operation
// counts its invocations, so tests can assert whether a caching layer in
// front of it actually reached the delegate.
type FakeLibrary struct {
	ListFn    func(ctx context.Context) ([]library.VideoSummary, error)
	InfoFn    func(ctx context.Context, id string) (*library.VideoInfo, error)
	ContentFn func(ctx context.Context, id string) ([]byte, error)

	listCalls    atomic.Int64
	infoCalls    atomic.Int64
	contentCalls atomic.Int64
}

// List delegates to ListFn or returns a default two-video catalog.
func (f *FakeLibrary) List(ctx context.Context) ([]library.VideoSummary, error) {
	f.listCalls.Add(1)
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	return []library.VideoSummary{
		{ID: "v1", Title: "First", Duration: 60},
		{ID: "v2", Title: "Second", Duration: 90},
	}, nil
}

// Info delegates to InfoFn or returns default metadata for any id.
func (f *FakeLibrary) Info(ctx context.Context, id string) (*library.VideoInfo, error) {
	f.infoCalls.Add(1)
	if f.InfoFn != nil {
		return f.InfoFn(ctx, id)
	}
	return &library.VideoInfo{
		ID:         id,
		Title:      "Video " + id,
		Duration:   60,
		SizeBytes:  4,
		UploadedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

// Content delegates to ContentFn or returns placeholder bytes.
func (f *FakeLibrary) Content(ctx context.Context, id string) ([]byte, error) {
	f.contentCalls.Add(1)
	if f.ContentFn != nil {
		return f.ContentFn(ctx, id)
	}
	return []byte("mp4:" + id), nil
}

// ListCalls returns how many times List reached the fake.
func (f *FakeLibrary) ListCalls() int64 { return f.listCalls.Load() }

// InfoCalls returns how many times Info reached the fake.
func (f *FakeLibrary) InfoCalls() int64 { return f.infoCalls.Load() }

// ContentCalls returns how many times Content reached the fake.
func (f *FakeLibrary) ContentCalls() int64 { return f.contentCalls.Load() }
