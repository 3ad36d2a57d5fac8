package transcript

import (
	"testing"

	"github.com/dhruv-gautam16/youtube-twin/types"
)

func TestParseCaptionsJSON3(t *testing.T) {
	payload := `{"events":[
		{"tStartMs":0,"dDurationMs":100,"wWinId":1},
		{"tStartMs":1000,"dDurationMs":2000,"segs":[{"utf8":"hello"}]},
		{"tStartMs":3000,"dDurationMs":1500,"segs":[{"utf8":"two "},{"utf8":"parts"}]},
		{"tStartMs":5000,"dDurationMs":0,"segs":[{"utf8":"boundary"}]},
		{"tStartMs":6000,"dDurationMs":500,"segs":[{"utf8":"   "}]}
	]}`

	got := ParseCaptions(payload)
	want := []types.CaptionEntry{
		{Text: "hello", Start: 1.0, Duration: 2.0},
		{Text: "two parts", Start: 3.0, Duration: 1.5},
		{Text: "boundary", Start: 5.0, Duration: 0},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseCaptionsTimedText(t *testing.T) {
	payload := `<?xml version="1.0" encoding="utf-8"?>
<transcript>
	<text start="1.0" dur="2.0">hi &amp; bye</text>
	<text start="3.5" dur="1.25">it&#39;s &quot;quoted&quot; &lt;ok&gt;</text>
	<text start="5">no duration</text>
	<text start="6" dur="1">keep <b>bold</b> words</text>
	<text start="7" dur="1">   </text>
</transcript>`

	got := ParseCaptions(payload)
	want := []types.CaptionEntry{
		{Text: "hi & bye", Start: 1.0, Duration: 2.0},
		// &lt;ok&gt; unescapes into a tag, which the tag stripper removes
		{Text: `it's "quoted"`, Start: 3.5, Duration: 1.25},
		{Text: "no duration", Start: 5, Duration: 0},
		{Text: "keep bold words", Start: 6, Duration: 1},
	}

	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseCaptionsBareTextNode(t *testing.T) {
	got := ParseCaptions(`<text start="1.0" dur="2.0">hi &amp; bye</text>`)
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1", len(got))
	}
	want := types.CaptionEntry{Text: "hi & bye", Start: 1.0, Duration: 2.0}
	if got[0] != want {
		t.Errorf("got %+v, want %+v", got[0], want)
	}
}

func TestParseCaptionsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: ""},
		{name: "neither encoding", payload: "just some words"},
		{name: "broken json", payload: `{"events": [`},
		{name: "json wrong shape", payload: `{"something":"else"}`},
		{name: "xml no text nodes", payload: `<transcript><style/></transcript>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCaptions(tt.payload); len(got) != 0 {
				t.Errorf("expected no entries, got %+v", got)
			}
		})
	}
}
