package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	youtube "github.com/kkdai/youtube/v2"

	"github.com/rurigk/potv2/pkg/track"
)

// watchURLTemplate normalizes every natively resolved video so all
// internally stored URLs are canonical watch links.
const watchURLTemplate = "https://www.youtube.com/watch?v=%s"

// urlKind classifies a URL against the known platform's patterns.
type urlKind int

const (
	genericURL urlKind = iota
	nativeVideo
	nativePlaylist
)

// classifyYouTubeURL matches a URL against YouTube's watch and
// playlist patterns by host and query parameter. A list parameter
// takes precedence over v when both are present. The returned id is
// the video or playlist id for the native kinds.
func classifyYouTubeURL(u *url.URL) (urlKind, string) {
	host := u.Hostname()
	if !strings.HasSuffix(host, "youtube.com") && !strings.HasSuffix(host, "youtu.be") {
		return genericURL, ""
	}

	query := u.Query()
	if list := query.Get("list"); list != "" {
		return nativePlaylist, list
	}
	if v := query.Get("v"); v != "" {
		return nativeVideo, v
	}
	return genericURL, ""
}

// PlatformAPI is the subset of the platform metadata API the resolver
// needs: lookup of a single video and listing of a playlist, both by
// id. Items without a resolvable video id are dropped by
// implementations.
type PlatformAPI interface {
	Video(ctx context.Context, id string) ([]track.Record, error)
	Playlist(ctx context.Context, id string) ([]track.Record, error)
}

// YouTubeAPI implements PlatformAPI on the YouTube InnerTube API.
type YouTubeAPI struct {
	client youtube.Client
}

// NewYouTubeAPI creates a platform API client.
func NewYouTubeAPI() *YouTubeAPI {
	return &YouTubeAPI{}
}

// Video looks up a single video by id. A lookup failure is returned
// as an error; the caller decides whether that is fatal.
func (a *YouTubeAPI) Video(ctx context.Context, id string) ([]track.Record, error) {
	v, err := a.client.GetVideoContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("video lookup: %w", err)
	}
	if v.ID == "" {
		return nil, nil
	}

	rec := track.Record{
		ID:        v.ID,
		Title:     v.Title,
		SourceURL: fmt.Sprintf(watchURLTemplate, v.ID),
		Extractor: "youtube",
		Duration:  v.Duration.Seconds(),
	}
	if len(v.Thumbnails) > 0 {
		rec.Thumbnail = v.Thumbnails[0].URL
	}
	return []track.Record{rec}, nil
}

// Playlist lists a playlist's items by id, one record per entry.
func (a *YouTubeAPI) Playlist(ctx context.Context, id string) ([]track.Record, error) {
	p, err := a.client.GetPlaylistContext(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("playlist lookup: %w", err)
	}

	items := make([]track.Record, 0, len(p.Videos))
	for _, entry := range p.Videos {
		if entry.ID == "" {
			continue
		}
		rec := track.Record{
			ID:         entry.ID,
			Title:      entry.Title,
			SourceURL:  fmt.Sprintf(watchURLTemplate, entry.ID),
			Extractor:  "youtube",
			Duration:   entry.Duration.Seconds(),
			PlaylistID: p.ID,
		}
		if len(entry.Thumbnails) > 0 {
			rec.Thumbnail = entry.Thumbnails[0].URL
		}
		items = append(items, rec)
	}
	return items, nil
}
