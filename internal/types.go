package internal

import (
	"fmt"
	"strings"
)

// CaptionOrigin tells whether a caption track was authored by a person or generated
type CaptionOrigin string

const (
	OriginManual CaptionOrigin = "manual"
	OriginAuto   CaptionOrigin = "auto"
)

// CaptionFormat is the wire encoding of a caption track variant
type CaptionFormat int

const (
	FormatOther CaptionFormat = iota
	FormatJSON3
	FormatVTT
)

// String returns the extension-style name of the format
func (f CaptionFormat) String() string {
	switch f {
	case FormatJSON3:
		return "json3"
	case FormatVTT:
		return "vtt"
	default:
		return "other"
	}
}

// MarshalText lets formats appear by name in JSON output
func (f CaptionFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText is the inverse of MarshalText; unknown names become FormatOther
func (f *CaptionFormat) UnmarshalText(text []byte) error {
	*f = FormatFromExt(string(text), "")
	return nil
}

// FormatFromExt maps a yt-dlp subtitle extension (and its URL) to a CaptionFormat.
// A fmt=json3 locator is served as json3 whatever extension yt-dlp reports.
func FormatFromExt(ext, locator string) CaptionFormat {
	ext = strings.ToLower(strings.TrimSpace(ext))
	switch {
	case ext == "json3" || strings.Contains(locator, "fmt=json3"):
		return FormatJSON3
	case ext == "vtt":
		return FormatVTT
	default:
		return FormatOther
	}
}

// CaptionTrackVariant is one downloadable encoding of a caption track
type CaptionTrackVariant struct {
	Format  CaptionFormat `json:"format"`
	Locator string        `json:"url"`
}

// CaptionCatalog maps origin to language code to the variants available for it
type CaptionCatalog map[CaptionOrigin]map[string][]CaptionTrackVariant

// Languages returns the languages of an origin that have at least one variant
func (c CaptionCatalog) Languages(origin CaptionOrigin) []string {
	var langs []string
	for lang, variants := range c[origin] {
		if len(variants) > 0 {
			langs = append(langs, lang)
		}
	}
	return langs
}

// HasCaptions reports whether any usable track exists
func (c CaptionCatalog) HasCaptions() bool {
	return len(c.Languages(OriginManual)) > 0 || len(c.Languages(OriginAuto)) > 0
}

// SelectedTrack is the outcome of track selection
type SelectedTrack struct {
	Origin   CaptionOrigin       `json:"origin"`
	Language string              `json:"language"`
	Variant  CaptionTrackVariant `json:"variant"`
}

// String returns a short human-readable description of the track
func (t SelectedTrack) String() string {
	return fmt.Sprintf("%s captions, language %s, format %s", t.Origin, t.Language, t.Variant.Format)
}

// VideoInfo is what a catalog source knows about a video
type VideoInfo struct {
	ID       string         `json:"id"`
	URL      string         `json:"url"`
	Title    string         `json:"title"`
	Channel  string         `json:"channel"`
	Duration float64        `json:"duration"`
	Captions CaptionCatalog `json:"captions"`
}

// Thumbnail returns the high resolution thumbnail URL of the video
func (v *VideoInfo) Thumbnail() string {
	if v == nil || v.ID == "" {
		return ""
	}
	return ThumbnailURL(v.ID)
}

// PipelineState is the orchestrator's view of a run
type PipelineState string

const (
	StateIdle        PipelineState = ""
	StateExtracting  PipelineState = "Extracting"
	StateCleaning    PipelineState = "Cleaning"
	StateSummarizing PipelineState = "Summarizing"
	StateDone        PipelineState = "Done"
	StateFailed      PipelineState = "Failed"
)

// Percent returns the completion percentage reported when a state is entered
func (s PipelineState) Percent() int {
	switch s {
	case StateExtracting:
		return 25
	case StateCleaning:
		return 55
	case StateSummarizing:
		return 90
	case StateDone:
		return 100
	default:
		return 0
	}
}

// IsTerminal reports whether no further transition is allowed
func (s PipelineState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}
