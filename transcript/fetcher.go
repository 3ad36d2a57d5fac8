package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"
)

const (
	pageTimeout   = 30 * time.Second
	probeTimeout  = 15 * time.Second
	minPayloadLen = 10

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Fetcher acquires raw caption payloads for a video. Caption endpoints are
// unreliable with arbitrary query parameters, so it walks an ordered list of
// URL variants and falls back to yt-dlp when the watch-page route yields
// nothing.
type Fetcher struct {
	client       *http.Client
	watchBase    string
	timedTextAPI string
	attemptDelay time.Duration
	ytdlpPath    string
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client:       &http.Client{Timeout: pageTimeout},
		watchBase:    "https://www.youtube.com/watch?v=",
		timedTextAPI: "https://www.youtube.com/api/timedtext",
		attemptDelay: time.Second,
		ytdlpPath:    "yt-dlp",
	}
}

func (f *Fetcher) watchURL(videoID string) string {
	return f.watchBase + videoID
}

// FetchWatchPage retrieves the video's page HTML.
func (f *Fetcher) FetchWatchPage(ctx context.Context, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.watchURL(videoID), nil)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch video page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch video page: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read video page: %w", err)
	}
	log.Printf("[FETCH] got video page (%d bytes)", len(body))
	return string(body), nil
}

// captionURLVariants builds the ordered list of URLs to try for a discovered
// caption URL: as-is, stripped down to v/lang plus an explicit json3 format,
// then the generic timedtext API with and without the format hint.
func (f *Fetcher) captionURLVariants(captionURL, videoID string) []string {
	variants := []string{captionURL}

	if u, err := url.Parse(captionURL); err == nil && u.Host != "" {
		q := u.Query()
		clean := url.Values{}
		if v := q.Get("v"); v != "" {
			clean.Set("v", v)
		} else {
			clean.Set("v", videoID)
		}
		if lang := q.Get("lang"); lang != "" {
			clean.Set("lang", lang)
		} else {
			clean.Set("lang", "en")
		}
		clean.Set("fmt", "json3")
		variants = append(variants, fmt.Sprintf("%s://%s%s?%s", u.Scheme, u.Host, u.Path, clean.Encode()))
	}

	variants = append(variants,
		f.timedTextAPI+"?v="+videoID+"&lang=en&fmt=json3",
		f.timedTextAPI+"?v="+videoID+"&lang=en",
	)
	return variants
}

// FetchCaptionPayload tries each URL variant in order and returns the first
// body that looks like an actual payload. Per-variant failures are logged
// and skipped; only full exhaustion is an error.
func (f *Fetcher) FetchCaptionPayload(ctx context.Context, captionURL, videoID string) (string, error) {
	for i, u := range f.captionURLVariants(captionURL, videoID) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.attemptDelay):
		}

		payload, err := f.fetchCaptionURL(ctx, u, videoID)
		if err != nil {
			log.Printf("[FETCH] attempt %d: %v", i+1, err)
			continue
		}
		log.Printf("[FETCH] attempt %d: got caption data (%d bytes)", i+1, len(payload))
		return payload, nil
	}
	return "", ErrNoTranscript
}

func (f *Fetcher) fetchCaptionURL(ctx context.Context, captionURL, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, captionURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", f.watchURL(videoID))
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if len(body) <= minPayloadLen {
		return "", fmt.Errorf("empty response (%d bytes)", len(body))
	}
	return string(body), nil
}

type ytdlpInfo struct {
	Subtitles         map[string][]ytdlpFormat `json:"subtitles"`
	AutomaticCaptions map[string][]ytdlpFormat `json:"automatic_captions"`
}

type ytdlpFormat struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// FetchWithYtdlp is the secondary acquisition strategy: ask yt-dlp for the
// video metadata and fetch the json3 subtitle URL it resolved.
func (f *Fetcher) FetchWithYtdlp(ctx context.Context, videoID string) (string, error) {
	log.Printf("[FETCH] trying yt-dlp for %s", videoID)

	out, err := exec.CommandContext(ctx, f.ytdlpPath, "-J", "--skip-download", f.watchURL(videoID)).Output()
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return "", fmt.Errorf("yt-dlp output: %w", err)
	}

	tracks := info.Subtitles["en"]
	if len(tracks) == 0 {
		tracks = info.AutomaticCaptions["en"]
	}
	if len(tracks) == 0 {
		return "", ErrNoTranscript
	}

	var json3URL string
	for _, track := range tracks {
		if track.Ext == "json3" && track.URL != "" {
			json3URL = track.URL
			break
		}
	}
	if json3URL == "" {
		return "", ErrNoTranscript
	}

	return f.fetchCaptionURL(ctx, json3URL, videoID)
}

// CheckAvailability probes the watch page for any sign of a caption track.
// A failed probe reports unavailable rather than an error; the probe is
// advisory only.
func (f *Fetcher) CheckAvailability(ctx context.Context, videoID string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	html, err := f.FetchWatchPage(ctx, videoID)
	if err != nil {
		log.Printf("[FETCH] availability probe failed: %v", err)
		return false
	}
	return containsCaptionMarker(html)
}

func containsCaptionMarker(html string) bool {
	return strings.Contains(html, `"captions"`) || strings.Contains(html, "captionTracks")
}
