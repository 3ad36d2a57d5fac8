package transcript

import (
	"log"
	"strings"

	"github.com/dhruv-gautam16/youtube-twin/types"
)

// overlapLookback caps how many preceding entries are scanned when seeding
// the overlap prefix, regardless of their time span.
const overlapLookback = 5

// Chunker merges consecutive caption entries into duration-bounded passages.
// Adjacent chunks overlap by up to Overlap seconds so retrieval doesn't lose
// sentences that straddle a chunk boundary.
type Chunker struct {
	Duration float64
	Overlap  float64
}

func NewChunker(durationSec, overlapSec int) *Chunker {
	return &Chunker{
		Duration: float64(durationSec),
		Overlap:  float64(overlapSec),
	}
}

// accumulator is the single in-flight chunk. It is replaced wholesale on
// emit, never reused.
type accumulator struct {
	text  string
	start float64
	end   float64
}

func (a accumulator) empty() bool {
	return a.text == ""
}

func (a accumulator) finalize() types.Chunk {
	return types.Chunk{
		Text:     a.text,
		Start:    a.start,
		End:      a.end,
		Duration: a.end - a.start,
	}
}

// Chunk walks the entries in order, growing the accumulator until its span
// reaches the duration threshold, then emits it and seeds the next chunk
// with the overlap prefix. An entry is never split, so a single entry longer
// than the threshold still becomes its own chunk, and the trailing partial
// chunk is always emitted.
func (c *Chunker) Chunk(entries []types.CaptionEntry) []types.Chunk {
	var chunks []types.Chunk
	var cur accumulator

	for i, entry := range entries {
		if cur.empty() {
			cur = accumulator{text: entry.Text, start: entry.Start, end: entry.Start + entry.Duration}
			continue
		}

		if cur.end-cur.start < c.Duration {
			cur.text += " " + entry.Text
			cur.end = entry.Start + entry.Duration
			continue
		}

		chunks = append(chunks, cur.finalize())

		overlapStart := cur.end - c.Overlap
		overlapText := c.overlapText(entries, i, overlapStart)

		if overlapText != "" {
			cur = accumulator{text: overlapText + " " + entry.Text, start: overlapStart}
		} else {
			cur = accumulator{text: entry.Text, start: entry.Start}
		}
		cur.end = entry.Start + entry.Duration
	}

	if !cur.empty() {
		chunks = append(chunks, cur.finalize())
	}

	log.Printf("[CHUNK] created %d chunks from %d entries", len(chunks), len(entries))
	return chunks
}

// overlapText concatenates the text of the entries just before index i that
// fall inside the overlap window.
func (c *Chunker) overlapText(entries []types.CaptionEntry, i int, overlapStart float64) string {
	lo := i - overlapLookback
	if lo < 0 {
		lo = 0
	}

	var parts []string
	for _, entry := range entries[lo:i] {
		if entry.Start >= overlapStart {
			parts = append(parts, entry.Text)
		}
	}
	return strings.Join(parts, " ")
}
