package types

import (
	"os"
	"strconv"
)

// CaptionEntry is a single timed caption line as delivered by the caption
// track. Entries keep the order the source gave them.
type CaptionEntry struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Chunk is a merged passage of transcript text, the unit of retrieval.
// Embedding is attached once during indexing and never mutated afterwards.
// Similarity is only populated on chunks returned from a query.
type Chunk struct {
	Text       string    `json:"text"`
	Start      float64   `json:"start"`
	End        float64   `json:"end"`
	Duration   float64   `json:"duration"`
	Embedding  []float32 `json:"-"`
	Similarity float64   `json:"similarity,omitempty"`
}

type VideoInfo struct {
	VideoID        string `json:"video_id"`
	VideoURL       string `json:"video_url"`
	TranscriptType string `json:"transcript_type"`
}

// TranscriptResult is the processed form of one video, keyed by VideoID in
// the store for the lifetime of the process.
type TranscriptResult struct {
	VideoID string    `json:"video_id"`
	Info    VideoInfo `json:"info"`
	Chunks  []Chunk   `json:"chunks"`
}

type Config struct {
	ServerAddr     string
	OpenAIAPIKey   string
	EmbeddingModel string
	ChatModel      string
	ChunkDuration  int
	ChunkOverlap   int
	TopK           int
	StoreBackend   string
}

func LoadConfig() Config {
	return Config{
		ServerAddr:     envOr("SERVER_ADDR", ":5000"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel: envOr("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:      envOr("CHAT_MODEL", "gpt-4-turbo-preview"),
		ChunkDuration:  envIntOr("CHUNK_DURATION", 30),
		ChunkOverlap:   envIntOr("CHUNK_OVERLAP", 5),
		TopK:           envIntOr("TOP_K", 5),
		StoreBackend:   envOr("STORE_BACKEND", "memory"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
