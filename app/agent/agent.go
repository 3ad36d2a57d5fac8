package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/dhruv-gautam16/youtube-twin/transcript"
	"github.com/dhruv-gautam16/youtube-twin/types"
)

const (
	maxContextTokens = 6000
	maxAnswerTokens  = 1000
	maxSourceRunes   = 200
)

const systemPrompt = `You are an AI assistant that helps users understand YouTube video content.
You have access to the video transcript with timestamps. When answering questions:
1. Provide accurate information based on the transcript
2. Reference specific timestamps when relevant
3. Be conversational and helpful
4. If information isn't in the transcript, say so
5. Format timestamps as clickable references [MM:SS]`

// Agent generates answers grounded in ranked transcript chunks.
type Agent struct {
	cli   *openai.Client
	model string
}

type Response struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

type Source struct {
	Text          string  `json:"text"`
	Timestamp     float64 `json:"timestamp"`
	FormattedTime string  `json:"formatted_time"`
	Similarity    float64 `json:"similarity"`
}

func New(apiKey, model string) *Agent {
	return &Agent{
		cli:   openai.NewClient(apiKey),
		model: model,
	}
}

// GenerateAnswer assembles a timestamped context from the ranked chunks and
// asks the chat model to answer the query against it. The ranked chunks are
// consumed verbatim, in the order the retriever produced them.
func (a *Agent) GenerateAnswer(ctx context.Context, query string, chunks []types.Chunk, info types.VideoInfo) (*Response, error) {
	start := time.Now()
	defer func() {
		log.Printf("LLM answer took %v", time.Since(start))
	}()

	contextBlock := buildContext(boundChunks(chunks))

	userPrompt := fmt.Sprintf(`Based on the following video transcript excerpts, please answer the question.

Video: %s

Transcript Context:
%s

Question: %s

Please provide a detailed answer with timestamp references where appropriate.`, info.VideoURL, contextBlock, query)

	resp, err := a.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   maxAnswerTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: no choices returned")
	}

	return &Response{
		Answer:  resp.Choices[0].Message.Content,
		Sources: extractSources(chunks),
	}, nil
}

// boundChunks drops trailing (least relevant) chunks until the context fits
// the token budget. The retriever already sorted by relevance, so the tail
// is the right place to cut.
func boundChunks(chunks []types.Chunk) []types.Chunk {
	for len(chunks) > 1 {
		count, err := countTokens(buildContext(chunks))
		if err != nil || count <= maxContextTokens {
			if err == nil {
				log.Printf("[AGENT] context size: %d tokens, %d chunks", count, len(chunks))
			}
			return chunks
		}
		chunks = chunks[:len(chunks)-1]
	}
	return chunks
}

func buildContext(chunks []types.Chunk) string {
	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = fmt.Sprintf("[%s] (Relevance: %.2f)\n%s\n",
			transcript.FormatTimestamp(chunk.Start), chunk.Similarity, chunk.Text)
	}
	return strings.Join(parts, "\n---\n")
}

func extractSources(chunks []types.Chunk) []Source {
	sources := make([]Source, len(chunks))
	for i, chunk := range chunks {
		text := chunk.Text
		if runes := []rune(text); len(runes) > maxSourceRunes {
			text = string(runes[:maxSourceRunes]) + "..."
		}
		sources[i] = Source{
			Text:          text,
			Timestamp:     chunk.Start,
			FormattedTime: transcript.FormatTimestamp(chunk.Start),
			Similarity:    chunk.Similarity,
		}
	}
	return sources
}

func countTokens(text string) (int, error) {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}
