package transcript

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/dhruv-gautam16/youtube-twin/types"
)

// ErrNoTranscript marks the legitimate "video has no usable captions"
// outcome. Callers must treat it as a normal business result, not a fault.
var ErrNoTranscript = errors.New("transcript not available")

// Pipeline turns a video id into a chunked transcript. It owns the full
// locate → fetch → parse → chunk flow for one video; embedding happens
// afterwards, against the returned chunks.
type Pipeline struct {
	fetcher *Fetcher
	chunker *Chunker
}

func NewPipeline(cfg types.Config) *Pipeline {
	return &Pipeline{
		fetcher: NewFetcher(),
		chunker: NewChunker(cfg.ChunkDuration, cfg.ChunkOverlap),
	}
}

// CheckAvailability reports whether the video appears to have captions at
// all, without fetching them.
func (p *Pipeline) CheckAvailability(ctx context.Context, videoID string) bool {
	return p.fetcher.CheckAvailability(ctx, videoID)
}

// Fetch runs both acquisition strategies in order. A failure of the first
// strategy, for whatever reason, only advances to the second; when both are
// exhausted the result is ErrNoTranscript.
func (p *Pipeline) Fetch(ctx context.Context, videoID string) (*types.TranscriptResult, error) {
	res, err := p.fetchFromWatchPage(ctx, videoID)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, ErrNoTranscript) {
		log.Printf("[FETCH] watch page strategy failed: %v", err)
	}

	res, err = p.fetchFromYtdlp(ctx, videoID)
	if err == nil {
		return res, nil
	}
	if !errors.Is(err, ErrNoTranscript) {
		log.Printf("[FETCH] yt-dlp strategy failed: %v", err)
	}
	return nil, ErrNoTranscript
}

func (p *Pipeline) fetchFromWatchPage(ctx context.Context, videoID string) (*types.TranscriptResult, error) {
	html, err := p.fetcher.FetchWatchPage(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	captionURL, ok := LocateCaptionURL(html)
	if !ok {
		return nil, ErrNoTranscript
	}

	payload, err := p.fetcher.FetchCaptionPayload(ctx, captionURL, videoID)
	if err != nil {
		return nil, err
	}

	return p.assemble(videoID, payload, "requests-session")
}

func (p *Pipeline) fetchFromYtdlp(ctx context.Context, videoID string) (*types.TranscriptResult, error) {
	payload, err := p.fetcher.FetchWithYtdlp(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return p.assemble(videoID, payload, "yt-dlp")
}

func (p *Pipeline) assemble(videoID, payload, transcriptType string) (*types.TranscriptResult, error) {
	entries := ParseCaptions(payload)
	if len(entries) == 0 {
		return nil, ErrNoTranscript
	}
	log.Printf("[PARSE] parsed %d transcript entries", len(entries))

	chunks := p.chunker.Chunk(entries)
	if len(chunks) == 0 {
		return nil, ErrNoTranscript
	}

	return &types.TranscriptResult{
		VideoID: videoID,
		Info: types.VideoInfo{
			VideoID:        videoID,
			VideoURL:       p.fetcher.watchURL(videoID),
			TranscriptType: transcriptType,
		},
		Chunks: chunks,
	}, nil
}
