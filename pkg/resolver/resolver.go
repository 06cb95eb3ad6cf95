package resolver

import (
	"context"
	"log"
	"net/url"

	"github.com/rurigk/potv2/pkg/track"
)

// InputKind tags how the user-supplied text should be resolved.
type InputKind int

const (
	// InputSearch resolves through the extractor's search directive,
	// keeping only the top match.
	InputSearch InputKind = iota
	// InputURL resolves the URL directly, expanding playlists.
	InputURL
)

// Input is a parsed play request.
type Input struct {
	Kind InputKind
	Raw  string
	URL  *url.URL // set when Kind is InputURL
}

// ParseInput classifies raw user text as a URL or a free-text search.
// Only absolute http(s) URLs count as URLs; everything else is a
// search query.
func ParseInput(raw string) Input {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Input{Kind: InputSearch, Raw: raw}
	}
	return Input{Kind: InputURL, Raw: raw, URL: u}
}

// Resolver turns play requests into canonical track records. Direct
// YouTube links go through the platform metadata API; every other
// input is delegated to yt-dlp.
type Resolver struct {
	api PlatformAPI

	// Downloader is the extractor binary, overridable in tests.
	Downloader string
}

// New creates a resolver backed by the given platform API.
func New(api PlatformAPI) *Resolver {
	return &Resolver{
		api:        api,
		Downloader: downloaderCommand,
	}
}

// Resolve produces the track records for one play request. Zero
// results is a success with an empty slice, not an error; the only
// error case is the extractor process failing to spawn.
func (r *Resolver) Resolve(ctx context.Context, input Input) ([]track.Record, error) {
	if input.Kind == InputSearch {
		return r.extract(ctx, searchTarget(input.Raw), false)
	}

	kind, id := classifyYouTubeURL(input.URL)
	switch kind {
	case nativePlaylist:
		items, err := r.api.Playlist(ctx, id)
		if err != nil {
			log.Printf("playlist lookup failed for %s: %v", id, err)
			return nil, nil
		}
		return items, nil
	case nativeVideo:
		items, err := r.api.Video(ctx, id)
		if err != nil {
			log.Printf("video lookup failed for %s: %v", id, err)
			return nil, nil
		}
		return items, nil
	default:
		return r.extract(ctx, input.Raw, true)
	}
}
