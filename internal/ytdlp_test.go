package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYtdlpJSON = `{
	"id": "dQw4w9WgXcQ",
	"title": "Never Gonna Give You Up",
	"uploader": "Rick Astley",
	"duration": 213,
	"webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	"subtitles": {
		"en": [
			{"ext": "vtt", "url": "https://example.com/en.vtt", "name": "English"},
			{"ext": "json3", "url": "https://example.com/en.json3", "name": "English"}
		],
		"live_chat": [{"ext": "json", "url": "https://example.com/chat.json"}]
	},
	"automatic_captions": {
		"de": [{"ext": "", "url": "https://example.com/api/timedtext?lang=de&fmt=json3"}],
		"fr": [{"ext": "vtt", "url": ""}]
	}
}`

func TestParseVideoInfo(t *testing.T) {
	info, err := parseVideoInfo([]byte(sampleYtdlpJSON))
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", info.ID)
	assert.Equal(t, "Never Gonna Give You Up", info.Title)
	assert.Equal(t, "Rick Astley", info.Channel)
	assert.InDelta(t, 213, info.Duration, 0.001)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", info.URL)
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", info.Thumbnail())

	assert.Equal(t, map[string][]CaptionTrackVariant{
		"en": {
			{Format: FormatVTT, Locator: "https://example.com/en.vtt"},
			{Format: FormatJSON3, Locator: "https://example.com/en.json3"},
		},
	}, info.Captions[OriginManual])
	assert.Equal(t, map[string][]CaptionTrackVariant{
		"de": {{Format: FormatJSON3, Locator: "https://example.com/api/timedtext?lang=de&fmt=json3"}},
	}, info.Captions[OriginAuto])

	track, err := SelectTrack(info.Captions, "de")
	require.NoError(t, err)
	assert.Equal(t, OriginManual, track.Origin)
	assert.Equal(t, "https://example.com/en.json3", track.Variant.Locator)
}

func TestParseVideoInfoPrefersChannel(t *testing.T) {
	info, err := parseVideoInfo([]byte(`{"id":"abc","channel":"Official","uploader":"someone"}`))
	require.NoError(t, err)
	assert.Equal(t, "Official", info.Channel)
	assert.False(t, info.Captions.HasCaptions())
}

func TestParseVideoInfoInvalid(t *testing.T) {
	_, err := parseVideoInfo([]byte("ERROR: video unavailable"))
	assert.ErrorContains(t, err, "parsing video metadata")
}

func TestYouTubeInstallFailureIsReported(t *testing.T) {
	yt := &YouTube{install: func(context.Context) error {
		return errors.New("no network")
	}}

	_, err := yt.Lookup(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	assert.ErrorContains(t, err, "installing yt-dlp: no network")
}

func TestYouTubeInstallRetriedAfterCancel(t *testing.T) {
	calls := 0
	yt := &YouTube{install: func(ctx context.Context) error {
		calls++
		return ctx.Err()
	}}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	err := yt.ensureInstalled(cancelled)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, yt.ensureInstalled(context.Background()))
	require.NoError(t, yt.ensureInstalled(context.Background()))
	assert.Equal(t, 2, calls)
}
