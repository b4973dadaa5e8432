package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/lrstanley/go-ytdlp"
)

// ytdlpInfo is the part of yt-dlp's --dump-single-json output we read
type ytdlpInfo struct {
	ID                string                     `json:"id"`
	Title             string                     `json:"title"`
	Channel           string                     `json:"channel"`
	Uploader          string                     `json:"uploader"`
	Duration          float64                    `json:"duration"`
	WebpageURL        string                     `json:"webpage_url"`
	Subtitles         map[string][]ytdlpSubtitle `json:"subtitles"`
	AutomaticCaptions map[string][]ytdlpSubtitle `json:"automatic_captions"`
}

type ytdlpSubtitle struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// YouTube looks up video metadata and caption tracks with yt-dlp
type YouTube struct {
	mu        sync.Mutex
	installed bool
	install   func(ctx context.Context) error
}

// NewYouTube creates a catalog source backed by yt-dlp.
// The yt-dlp binary is resolved (and downloaded if missing) on first lookup.
func NewYouTube() *YouTube {
	return &YouTube{
		install: func(ctx context.Context) error {
			_, err := ytdlp.Install(ctx, nil)
			return err
		},
	}
}

// ensureInstalled remembers only success; a failed or cancelled install is retried by the next caller
func (yt *YouTube) ensureInstalled(ctx context.Context) error {
	yt.mu.Lock()
	defer yt.mu.Unlock()
	if yt.installed {
		return nil
	}
	if err := yt.install(ctx); err != nil {
		return fmt.Errorf("installing yt-dlp: %w", err)
	}
	yt.installed = true
	return nil
}

// Lookup fetches video details and the caption catalog without downloading media
func (yt *YouTube) Lookup(ctx context.Context, videoURL string) (*VideoInfo, error) {
	if err := yt.ensureInstalled(ctx); err != nil {
		return nil, err
	}
	logger := LoggerFrom(ctx)
	logger.Debug("Extracting video metadata", slog.String("url", videoURL))

	dl := ytdlp.New().
		DumpSingleJSON(). // all info in one JSON document
		NoPlaylist().     // only the video when the URL also names a playlist
		SkipDownload()    // no media

	result, err := dl.Run(ctx, videoURL)
	if err != nil {
		if result != nil {
			logger.Debug("yt-dlp failed", slog.String("stderr", strings.TrimSpace(result.Stderr)))
		}
		return nil, fmt.Errorf("extracting video metadata: %w", err)
	}

	info, err := parseVideoInfo([]byte(result.Stdout))
	if err != nil {
		return nil, err
	}
	if info.URL == "" {
		info.URL = videoURL
	}
	return info, nil
}

// parseVideoInfo maps yt-dlp JSON onto VideoInfo.
// subtitles become manual tracks and automatic_captions become auto tracks.
func parseVideoInfo(raw []byte) (*VideoInfo, error) {
	var data ytdlpInfo
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing video metadata: %w", err)
	}

	channel := data.Channel
	if channel == "" {
		channel = data.Uploader
	}

	return &VideoInfo{
		ID:       data.ID,
		URL:      data.WebpageURL,
		Title:    data.Title,
		Channel:  channel,
		Duration: data.Duration,
		Captions: CaptionCatalog{
			OriginManual: captionTracks(data.Subtitles),
			OriginAuto:   captionTracks(data.AutomaticCaptions),
		},
	}, nil
}

func captionTracks(subs map[string][]ytdlpSubtitle) map[string][]CaptionTrackVariant {
	tracks := make(map[string][]CaptionTrackVariant, len(subs))
	for lang, entries := range subs {
		// live chat replay is listed as a subtitle but is not a caption track
		if lang == "live_chat" {
			continue
		}
		var variants []CaptionTrackVariant
		for _, e := range entries {
			if e.URL == "" {
				continue
			}
			variants = append(variants, CaptionTrackVariant{
				Format:  FormatFromExt(e.Ext, e.URL),
				Locator: e.URL,
			})
		}
		if len(variants) > 0 {
			tracks[lang] = variants
		}
	}
	return tracks
}
