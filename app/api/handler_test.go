package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/dhruv-gautam16/youtube-twin/store"
	"github.com/dhruv-gautam16/youtube-twin/types"
)

func newTestApp(videoStore store.VideoStorer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	cfg := types.Config{
		EmbeddingModel: "text-embedding-3-small",
		ChatModel:      "gpt-4-turbo-preview",
		ChunkDuration:  30,
		ChunkOverlap:   5,
		TopK:           5,
	}
	h := NewVideoHandler(videoStore, cfg)

	apiv1 := app.Group("/api/v1")
	apiv1.Post("/process-video", h.HandleProcessVideo)
	apiv1.Post("/chat", h.HandleChat)
	apiv1.Post("/get-transcript", h.HandleGetTranscript)
	apiv1.Post("/search-transcript", h.HandleSearchTranscript)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

func storedVideo(t *testing.T) store.VideoStorer {
	t.Helper()
	s := store.NewMemoryStore()
	err := s.Put(context.Background(), "dQw4w9WgXcQ", &types.TranscriptResult{
		VideoID: "dQw4w9WgXcQ",
		Info: types.VideoInfo{
			VideoID:        "dQw4w9WgXcQ",
			VideoURL:       "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			TranscriptType: "requests-session",
		},
		Chunks: []types.Chunk{
			{Text: "never gonna give", Start: 0, End: 30, Duration: 30, Embedding: []float32{1, 0}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestProcessVideoAlreadyProcessed(t *testing.T) {
	// a stored video must short-circuit before any network or provider work
	app := newTestApp(storedVideo(t))

	resp, body := postJSON(t, app, "/api/v1/process-video", fiber.Map{
		"video_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["message"] != "Video already processed" {
		t.Errorf("message = %v", body["message"])
	}
	if body["video_id"] != "dQw4w9WgXcQ" {
		t.Errorf("video_id = %v", body["video_id"])
	}
}

func TestProcessVideoInvalidURL(t *testing.T) {
	app := newTestApp(store.NewMemoryStore())

	resp, body := postJSON(t, app, "/api/v1/process-video", fiber.Map{
		"video_url": "https://example.com/not-a-video",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["error"] != "Invalid YouTube URL" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestProcessVideoMissingURL(t *testing.T) {
	app := newTestApp(store.NewMemoryStore())

	resp, _ := postJSON(t, app, "/api/v1/process-video", fiber.Map{})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestChatUnknownVideo(t *testing.T) {
	app := newTestApp(store.NewMemoryStore())

	resp, _ := postJSON(t, app, "/api/v1/chat", fiber.Map{
		"video_id": "nope",
		"message":  "what is this about?",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSearchUnknownVideo(t *testing.T) {
	app := newTestApp(store.NewMemoryStore())

	resp, _ := postJSON(t, app, "/api/v1/search-transcript", fiber.Map{
		"video_id": "nope",
		"query":    "anything",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetTranscript(t *testing.T) {
	app := newTestApp(storedVideo(t))

	resp, body := postJSON(t, app, "/api/v1/get-transcript", fiber.Map{
		"video_id": "dQw4w9WgXcQ",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	entries, ok := body["transcript"].([]any)
	if !ok || len(entries) != 1 {
		t.Fatalf("transcript = %v, want one entry", body["transcript"])
	}
	entry := entries[0].(map[string]any)
	if entry["text"] != "never gonna give" || entry["duration"] != float64(30) {
		t.Errorf("entry = %v", entry)
	}
}
