package transcript

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
)

var (
	playerResponseRe = regexp.MustCompile(`(?s)ytInitialPlayerResponse\s*=\s*(\{.+?\});`)
	captionTracksRe  = regexp.MustCompile(`(?s)"captionTracks":\s*\[([^\]]+)\]`)
	captionURLRe     = regexp.MustCompile(`(?s)"captionTracks".*?"baseUrl":"(https://[^"]+)"`)
)

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// LocateCaptionURL digs a caption payload URL out of a watch-page HTML
// document. Strategies run in order, first hit wins; a miss on all of them
// means the video simply has no usable caption track.
func LocateCaptionURL(html string) (string, bool) {
	strategies := []func(string) (string, bool){
		captionURLFromPlayerResponse,
		captionURLFromTrackList,
		captionURLFromPattern,
	}
	for _, locate := range strategies {
		if url, ok := locate(html); ok {
			return url, true
		}
	}
	return "", false
}

// captionURLFromPlayerResponse parses the embedded ytInitialPlayerResponse
// blob and picks an English caption track, falling back to the first track.
func captionURLFromPlayerResponse(html string) (string, bool) {
	m := playerResponseRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}

	var pr playerResponse
	if err := json.Unmarshal([]byte(m[1]), &pr); err != nil {
		return "", false
	}

	tracks := pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	for _, track := range tracks {
		if strings.Contains(strings.ToLower(track.LanguageCode), "en") && track.BaseURL != "" {
			log.Printf("[LOCATE] found caption track: %s", track.LanguageCode)
			return track.BaseURL, true
		}
	}
	if len(tracks) > 0 && tracks[0].BaseURL != "" {
		log.Printf("[LOCATE] using first available caption track")
		return tracks[0].BaseURL, true
	}
	return "", false
}

// captionURLFromTrackList grabs the raw captionTracks fragment and wraps it
// back into a parseable JSON array.
func captionURLFromTrackList(html string) (string, bool) {
	m := captionTracksRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}

	var tracks []captionTrack
	if err := json.Unmarshal([]byte("["+m[1]+"]"), &tracks); err != nil {
		return "", false
	}

	for _, track := range tracks {
		if track.BaseURL != "" {
			log.Printf("[LOCATE] found caption via direct search")
			return track.BaseURL, true
		}
	}
	return "", false
}

// captionURLFromPattern is the last resort: a single regex against the
// baseUrl marker, undoing the JS string escapes the page applies.
func captionURLFromPattern(html string) (string, bool) {
	m := captionURLRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	url := strings.NewReplacer("\\u0026", "&", "\\/", "/").Replace(m[1])
	log.Printf("[LOCATE] found caption via pattern match")
	return url, true
}
