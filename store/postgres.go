package store

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/dhruv-gautam16/youtube-twin/types"
)

// PostgresStore is the optional persistent backend, selected with
// STORE_BACKEND=postgres. It satisfies the same VideoStorer contract as the
// memory store; nothing else in the system knows which one is active.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Init(ctx context.Context) error {
	query := `
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS videos (
		video_id TEXT PRIMARY KEY,
		video_url TEXT NOT NULL,
		transcript_type TEXT,
		created_at TIMESTAMP WITH TIME ZONE
	);

	CREATE TABLE IF NOT EXISTS video_chunks (
		id UUID PRIMARY KEY,
		video_id TEXT NOT NULL,
		position INT NOT NULL,
		content TEXT NOT NULL,
		start_sec DOUBLE PRECISION NOT NULL,
		end_sec DOUBLE PRECISION NOT NULL,
		duration_sec DOUBLE PRECISION NOT NULL,
		embedding vector(1536)
	);

	CREATE INDEX IF NOT EXISTS idx_video_chunks_video_id ON video_chunks(video_id);
	`
	_, err := s.pool.Exec(ctx, query)
	return err
}

func (s *PostgresStore) Has(ctx context.Context, videoID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM videos WHERE video_id = $1)", videoID).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) Get(ctx context.Context, videoID string) (*types.TranscriptResult, error) {
	result := &types.TranscriptResult{VideoID: videoID}
	err := s.pool.QueryRow(ctx,
		"SELECT video_id, video_url, transcript_type FROM videos WHERE video_id = $1", videoID).
		Scan(&result.Info.VideoID, &result.Info.VideoURL, &result.Info.TranscriptType)
	if err != nil {
		return nil, ErrNotFound
	}

	rows, err := s.pool.Query(ctx, `
		SELECT content, start_sec, end_sec, duration_sec, embedding
		FROM video_chunks WHERE video_id = $1 ORDER BY position`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var chunk types.Chunk
		var embedding pgvector.Vector
		if err := rows.Scan(&chunk.Text, &chunk.Start, &chunk.End, &chunk.Duration, &embedding); err != nil {
			return nil, err
		}
		chunk.Embedding = embedding.Slice()
		result.Chunks = append(result.Chunks, chunk)
	}
	return result, rows.Err()
}

func (s *PostgresStore) Put(ctx context.Context, videoID string, result *types.TranscriptResult) error {
	query := `INSERT INTO videos (video_id, video_url, transcript_type, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (video_id) DO UPDATE SET
			video_url = EXCLUDED.video_url,
			transcript_type = EXCLUDED.transcript_type,
			created_at = EXCLUDED.created_at
		`
	if _, err := s.pool.Exec(ctx, query,
		videoID, result.Info.VideoURL, result.Info.TranscriptType, time.Now()); err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, "DELETE FROM video_chunks WHERE video_id = $1", videoID); err != nil {
		return err
	}

	for i, chunk := range result.Chunks {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO video_chunks (id, video_id, position, content, start_sec, end_sec, duration_sec, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), videoID, i, chunk.Text, chunk.Start, chunk.End, chunk.Duration,
			pgvector.NewVector(chunk.Embedding),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
}
