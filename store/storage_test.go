package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dhruv-gautam16/youtube-twin/types"
)

func sampleResult(videoID string) *types.TranscriptResult {
	return &types.TranscriptResult{
		VideoID: videoID,
		Info: types.VideoInfo{
			VideoID:        videoID,
			VideoURL:       "https://www.youtube.com/watch?v=" + videoID,
			TranscriptType: "requests-session",
		},
		Chunks: []types.Chunk{
			{Text: "hello world", Start: 0, End: 30, Duration: 30, Embedding: []float32{0.1, 0.2}},
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ok, err := s.Has(ctx, "abc")
	if err != nil || ok {
		t.Fatalf("Has on empty store = (%v, %v), want (false, nil)", ok, err)
	}

	if _, err := s.Get(ctx, "abc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store err = %v, want ErrNotFound", err)
	}

	want := sampleResult("abc")
	if err := s.Put(ctx, "abc", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	ok, err = s.Has(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("Has after Put = (%v, %v), want (true, nil)", ok, err)
	}

	got, err := s.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.VideoID != "abc" || len(got.Chunks) != 1 || got.Chunks[0].Text != "hello world" {
		t.Errorf("Get = %+v, want the stored result", got)
	}
}

func TestMemoryStoreLastWriterWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	first := sampleResult("abc")
	second := sampleResult("abc")
	second.Info.TranscriptType = "yt-dlp"

	if err := s.Put(ctx, "abc", first); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "abc", second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Info.TranscriptType != "yt-dlp" {
		t.Errorf("TranscriptType = %q, want the second writer's result", got.Info.TranscriptType)
	}
	if len(got.Chunks) != 1 {
		t.Errorf("got %d chunks, want no duplication across writes", len(got.Chunks))
	}
}

func TestMemoryStoreIsolatesVideos(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, "abc", sampleResult("abc")); err != nil {
		t.Fatal(err)
	}

	if ok, _ := s.Has(ctx, "xyz"); ok {
		t.Error("Has reported a video that was never stored")
	}
	if _, err := s.Get(ctx, "xyz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get err = %v, want ErrNotFound", err)
	}
}
