package transcript

import (
	"encoding/json"
	"encoding/xml"
	"html"
	"io"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhruv-gautam16/youtube-twin/types"
)

var markupTagRe = regexp.MustCompile(`<[^>]+>`)

// ParseCaptions normalizes a raw caption payload into timed entries. The
// encoding is detected by the leading character: '{' for the json3 event
// list, '<' for timed-text XML. A payload matching neither shape, or one
// that fails structurally, yields no entries rather than an error — a
// malformed track is treated the same as a missing one.
func ParseCaptions(payload string) []types.CaptionEntry {
	trimmed := strings.TrimSpace(payload)
	switch {
	case strings.HasPrefix(trimmed, "{"):
		return parseJSON3(trimmed)
	case strings.HasPrefix(trimmed, "<"):
		return parseTimedText(trimmed)
	default:
		log.Printf("[PARSE] payload matches no known caption encoding")
		return nil
	}
}

type json3Payload struct {
	Events []struct {
		TStartMs    float64 `json:"tStartMs"`
		DDurationMs float64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func parseJSON3(payload string) []types.CaptionEntry {
	var doc json3Payload
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		log.Printf("[PARSE] json3 parse error: %v", err)
		return nil
	}

	var entries []types.CaptionEntry
	for _, event := range doc.Events {
		// events without segments carry styling/window info only
		if len(event.Segs) == 0 {
			continue
		}

		var b strings.Builder
		for _, seg := range event.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(b.String())
		if text == "" {
			continue
		}

		entries = append(entries, types.CaptionEntry{
			Text:     text,
			Start:    event.TStartMs / 1000.0,
			Duration: event.DDurationMs / 1000.0,
		})
	}
	return entries
}

func parseTimedText(payload string) []types.CaptionEntry {
	dec := xml.NewDecoder(strings.NewReader(payload))
	dec.Strict = false

	var entries []types.CaptionEntry
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("[PARSE] xml parse error: %v", err)
			return nil
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "text" {
			continue
		}

		var start, dur float64
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "start":
				start, _ = strconv.ParseFloat(attr.Value, 64)
			case "dur":
				dur, _ = strconv.ParseFloat(attr.Value, 64)
			}
		}

		raw, err := collectElementText(dec)
		if err != nil {
			log.Printf("[PARSE] xml parse error: %v", err)
			return nil
		}

		text := html.UnescapeString(raw)
		text = markupTagRe.ReplaceAllString(text, "")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		entries = append(entries, types.CaptionEntry{
			Text:     text,
			Start:    start,
			Duration: dur,
		})
	}
	return entries
}

// collectElementText gathers the character data of the current element,
// dropping any nested markup elements but keeping their text content.
func collectElementText(dec *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			b.Write(t)
		}
	}
	return b.String(), nil
}
