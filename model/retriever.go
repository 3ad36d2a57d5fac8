package model

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/dhruv-gautam16/youtube-twin/types"
)

// Retriever computes chunk embeddings and ranks chunks against a query by
// cosine similarity. Chunk vectors are computed once, in a single batched
// provider call, and live with the chunk for the rest of the process.
type Retriever struct {
	embedder Embedder
}

func NewRetriever(embedder Embedder) *Retriever {
	return &Retriever{embedder: embedder}
}

// Index returns the chunks enriched with one embedding each.
func (r *Retriever) Index(ctx context.Context, chunks []types.Chunk) ([]types.Chunk, error) {
	if len(chunks) == 0 {
		return chunks, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	indexed := make([]types.Chunk, len(chunks))
	for i, chunk := range chunks {
		chunk.Embedding = vectors[i]
		indexed[i] = chunk
	}
	log.Printf("[EMBED] created %d embeddings", len(indexed))
	return indexed, nil
}

// Query embeds the query text and returns the topK most similar chunks,
// similarity attached, sorted descending. The sort is stable, so ties keep
// the original chunk order. topK larger than the chunk count returns
// everything; an empty chunk set returns an empty result.
func (r *Retriever) Query(ctx context.Context, chunks []types.Chunk, query string, topK int) ([]types.Chunk, error) {
	if topK < 1 {
		return nil, fmt.Errorf("top_k must be at least 1, got %d", topK)
	}
	if len(chunks) == 0 {
		return []types.Chunk{}, nil
	}

	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	ranked := make([]types.Chunk, len(chunks))
	for i, chunk := range chunks {
		sim, err := cosineSimilarity(queryVec, chunk.Embedding)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		chunk.Similarity = sim
		ranked[i] = chunk
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	return ranked[:topK], nil
}

// cosineSimilarity returns a·b / (|a||b|). Mismatched dimensions mean the
// index and query were built against different models, which is a hard
// error; a zero-length vector just scores zero.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
