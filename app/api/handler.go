package api

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/dhruv-gautam16/youtube-twin/app/agent"
	"github.com/dhruv-gautam16/youtube-twin/model"
	"github.com/dhruv-gautam16/youtube-twin/store"
	"github.com/dhruv-gautam16/youtube-twin/transcript"
	"github.com/dhruv-gautam16/youtube-twin/types"
)

const searchDefaultTopK = 3

// VideoHandler wires the transcript pipeline, retriever, agent and store
// behind the HTTP endpoints.
type VideoHandler struct {
	videoStore store.VideoStorer
	pipeline   *transcript.Pipeline
	retriever  *model.Retriever
	agent      *agent.Agent
	topK       int
}

func NewVideoHandler(videoStore store.VideoStorer, cfg types.Config) *VideoHandler {
	embedder := model.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	return &VideoHandler{
		videoStore: videoStore,
		pipeline:   transcript.NewPipeline(cfg),
		retriever:  model.NewRetriever(embedder),
		agent:      agent.New(cfg.OpenAIAPIKey, cfg.ChatModel),
		topK:       cfg.TopK,
	}
}

// HandleProcessVideo fetches, chunks and embeds a video's transcript. A
// video that is already in the store is not processed again.
func (h *VideoHandler) HandleProcessVideo(c *fiber.Ctx) error {
	var params types.ProcessVideoParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errs := types.Validate(&params); len(errs) > 0 {
		return types.NewValidationError(errs)
	}

	videoID, ok := transcript.ExtractVideoID(params.VideoURL)
	if !ok {
		return ErrInvalidVideoURL()
	}
	log.Printf("[PROCESS] extracted video ID: %s", videoID)

	ctx := c.UserContext()

	exists, err := h.videoStore.Has(ctx, videoID)
	if err != nil {
		return err
	}
	if exists {
		result, err := h.videoStore.Get(ctx, videoID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"message":    "Video already processed",
			"video_id":   videoID,
			"video_info": result.Info,
		})
	}

	if !h.pipeline.CheckAvailability(ctx, videoID) {
		return ErrTranscriptUnavailable(videoID)
	}

	result, err := h.pipeline.Fetch(ctx, videoID)
	if err != nil {
		if errors.Is(err, transcript.ErrNoTranscript) {
			return ErrTranscriptUnavailable(videoID)
		}
		return err
	}

	result.Chunks, err = h.retriever.Index(ctx, result.Chunks)
	if err != nil {
		return err
	}

	if err := h.videoStore.Put(ctx, videoID, result); err != nil {
		return err
	}
	log.Printf("[PROCESS] processed video %s with %d chunks", videoID, len(result.Chunks))

	return c.JSON(fiber.Map{
		"message":      "Video processed successfully",
		"video_id":     videoID,
		"video_info":   result.Info,
		"chunks_count": len(result.Chunks),
	})
}

// HandleChat answers a question about a processed video, grounded in its
// most relevant chunks.
func (h *VideoHandler) HandleChat(c *fiber.Ctx) error {
	var params types.ChatParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errs := types.Validate(&params); len(errs) > 0 {
		return types.NewValidationError(errs)
	}

	ctx := c.UserContext()

	result, err := h.videoStore.Get(ctx, params.VideoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrVideoNotFound(params.VideoID)
		}
		return err
	}

	ranked, err := h.retriever.Query(ctx, result.Chunks, params.Message, h.topK)
	if err != nil {
		return err
	}

	resp, err := h.agent.GenerateAnswer(ctx, params.Message, ranked, result.Info)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"response": resp.Answer,
		"sources":  resp.Sources,
	})
}

// HandleGetTranscript returns the full chunked transcript with timestamps.
func (h *VideoHandler) HandleGetTranscript(c *fiber.Ctx) error {
	var params types.TranscriptParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errs := types.Validate(&params); len(errs) > 0 {
		return types.NewValidationError(errs)
	}

	result, err := h.videoStore.Get(c.UserContext(), params.VideoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrVideoNotFound(params.VideoID)
		}
		return err
	}

	entries := make([]types.CaptionEntry, len(result.Chunks))
	for i, chunk := range result.Chunks {
		entries[i] = types.CaptionEntry{
			Text:     chunk.Text,
			Start:    chunk.Start,
			Duration: chunk.Duration,
		}
	}

	return c.JSON(fiber.Map{
		"video_info": result.Info,
		"transcript": entries,
	})
}

// HandleSearchTranscript runs a semantic search over a processed video's
// chunks without generating an answer.
func (h *VideoHandler) HandleSearchTranscript(c *fiber.Ctx) error {
	var params types.SearchParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if errs := types.Validate(&params); len(errs) > 0 {
		return types.NewValidationError(errs)
	}
	if params.TopK < 1 {
		params.TopK = searchDefaultTopK
	}

	ctx := c.UserContext()

	result, err := h.videoStore.Get(ctx, params.VideoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrVideoNotFound(params.VideoID)
		}
		return err
	}

	ranked, err := h.retriever.Query(ctx, result.Chunks, params.Query, params.TopK)
	if err != nil {
		return err
	}

	results := make([]fiber.Map, len(ranked))
	for i, chunk := range ranked {
		results[i] = fiber.Map{
			"text":       chunk.Text,
			"start":      chunk.Start,
			"duration":   chunk.Duration,
			"similarity": chunk.Similarity,
		}
	}

	return c.JSON(fiber.Map{"results": results})
}
