package store

import (
	"context"
	"errors"
	"sync"

	"github.com/dhruv-gautam16/youtube-twin/types"
)

// ErrNotFound is returned by Get for an unprocessed video id.
var ErrNotFound = errors.New("video not found")

// VideoStorer holds processed transcripts keyed by video id. Put overwrites;
// if two callers race to process the same new video, the last writer wins.
// No eviction, no TTL.
type VideoStorer interface {
	Has(ctx context.Context, videoID string) (bool, error)
	Get(ctx context.Context, videoID string) (*types.TranscriptResult, error)
	Put(ctx context.Context, videoID string, result *types.TranscriptResult) error
}

// MemoryStore is the default process-lifetime store.
type MemoryStore struct {
	mu     sync.RWMutex
	videos map[string]*types.TranscriptResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{videos: make(map[string]*types.TranscriptResult)}
}

func (s *MemoryStore) Has(_ context.Context, videoID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.videos[videoID]
	return ok, nil
}

func (s *MemoryStore) Get(_ context.Context, videoID string) (*types.TranscriptResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.videos[videoID]
	if !ok {
		return nil, ErrNotFound
	}
	return result, nil
}

func (s *MemoryStore) Put(_ context.Context, videoID string, result *types.TranscriptResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos[videoID] = result
	return nil
}
