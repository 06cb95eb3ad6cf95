package resolver

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rurigk/potv2/pkg/track"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		raw  string
		kind InputKind
	}{
		{"https://www.youtube.com/watch?v=abc", InputURL},
		{"http://example.com/song.mp3", InputURL},
		{"never gonna give you up", InputSearch},
		{"ftp://example.com/file", InputSearch},
		{"www.youtube.com/watch?v=abc", InputSearch},
		{"", InputSearch},
	}

	for _, tt := range tests {
		got := ParseInput(tt.raw)
		if got.Kind != tt.kind {
			t.Errorf("ParseInput(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.kind)
		}
		if got.Kind == InputURL && got.URL == nil {
			t.Errorf("ParseInput(%q) URL input without parsed URL", tt.raw)
		}
	}
}

func TestClassifyYouTubeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind urlKind
		id   string
	}{
		{"watch link", "https://www.youtube.com/watch?v=ID1", nativeVideo, "ID1"},
		{"playlist link", "https://www.youtube.com/playlist?list=PL1", nativePlaylist, "PL1"},
		{"list takes precedence over v", "https://www.youtube.com/watch?v=ID1&list=PL1", nativePlaylist, "PL1"},
		{"bare youtube url", "https://www.youtube.com/", genericURL, ""},
		{"music subdomain", "https://music.youtube.com/watch?v=ID2", nativeVideo, "ID2"},
		{"other platform", "https://soundcloud.com/artist/song", genericURL, ""},
		{"lookalike host", "https://notyoutube.org/watch?v=ID1", genericURL, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			if err != nil {
				t.Fatalf("url.Parse(%q): %v", tt.raw, err)
			}
			kind, id := classifyYouTubeURL(u)
			if kind != tt.kind || id != tt.id {
				t.Errorf("classifyYouTubeURL(%q) = (%v, %q), want (%v, %q)", tt.raw, kind, id, tt.kind, tt.id)
			}
		})
	}
}

type fakeAPI struct {
	videos    map[string][]track.Record
	playlists map[string][]track.Record
	videoErr  error
	calls     []string
}

func (f *fakeAPI) Video(_ context.Context, id string) ([]track.Record, error) {
	f.calls = append(f.calls, "video:"+id)
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	return f.videos[id], nil
}

func (f *fakeAPI) Playlist(_ context.Context, id string) ([]track.Record, error) {
	f.calls = append(f.calls, "playlist:"+id)
	return f.playlists[id], nil
}

func TestResolveRoutesNativeVideo(t *testing.T) {
	api := &fakeAPI{videos: map[string][]track.Record{
		"ID1": {{ID: "ID1", Title: "A Song", SourceURL: "https://www.youtube.com/watch?v=ID1", Extractor: "youtube"}},
	}}
	r := New(api)

	items, err := r.Resolve(context.Background(), ParseInput("https://www.youtube.com/watch?v=ID1"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(items) != 1 || items[0].ID != "ID1" {
		t.Fatalf("Resolve returned %v, want single ID1", items)
	}
	if len(api.calls) != 1 || api.calls[0] != "video:ID1" {
		t.Errorf("api calls = %v, want [video:ID1]", api.calls)
	}
}

func TestResolvePlaylistTakesPrecedence(t *testing.T) {
	api := &fakeAPI{playlists: map[string][]track.Record{
		"PL1": {
			{ID: "a", Title: "One", SourceURL: "https://www.youtube.com/watch?v=a", Extractor: "youtube"},
			{ID: "b", Title: "Two", SourceURL: "https://www.youtube.com/watch?v=b", Extractor: "youtube"},
		},
	}}
	r := New(api)

	items, err := r.Resolve(context.Background(), ParseInput("https://www.youtube.com/watch?v=ID1&list=PL1"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Resolve returned %d items, want 2", len(items))
	}
	if len(api.calls) != 1 || api.calls[0] != "playlist:PL1" {
		t.Errorf("api calls = %v, want [playlist:PL1]", api.calls)
	}
}

func TestResolveNotFoundIsEmptySuccess(t *testing.T) {
	api := &fakeAPI{videoErr: os.ErrNotExist}
	r := New(api)

	items, err := r.Resolve(context.Background(), ParseInput("https://www.youtube.com/watch?v=GONE"))
	if err != nil {
		t.Fatalf("Resolve returned error %v, want empty success", err)
	}
	if len(items) != 0 {
		t.Fatalf("Resolve returned %d items, want 0", len(items))
	}
}

func TestParseTrackLines(t *testing.T) {
	input := strings.Join([]string{
		`not json at all`,
		`{"id":"a1","title":"First","original_url":"https://x/a1","extractor":"generic"}`,
		`{"title":"missing id"}`,
		`{"id":"b2","title":"Second","original_url":"https://x/b2","extractor":"generic","duration":12.5,"is_live":false}`,
		``,
	}, "\n")

	items := parseTrackLines(strings.NewReader(input))
	if len(items) != 2 {
		t.Fatalf("parsed %d items, want 2", len(items))
	}
	if items[0].ID != "a1" || items[1].ID != "b2" {
		t.Errorf("parsed ids = %s, %s, want a1, b2", items[0].ID, items[1].ID)
	}
	if items[1].Duration != 12.5 {
		t.Errorf("duration = %v, want 12.5", items[1].Duration)
	}
}

func TestExtractArgs(t *testing.T) {
	args := extractArgs("https://example.com/x", true)
	joined := strings.Join(args, " ")
	for _, want := range []string{"-j", "-R infinite", "--yes-playlist", "--no-warnings", "-o -"} {
		if !strings.Contains(joined, want) {
			t.Errorf("extractArgs missing %q in %q", want, joined)
		}
	}

	args = extractArgs(searchTarget("some song"), false)
	joined = strings.Join(args, " ")
	if !strings.Contains(joined, "ytsearch1:some song") {
		t.Errorf("search target missing from %q", joined)
	}
	if !strings.Contains(joined, "--no-playlist") {
		t.Errorf("search args missing --no-playlist in %q", joined)
	}
}

// writeScript drops an executable stand-in for the extractor binary.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-ytdlp")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractParsesProcessOutput(t *testing.T) {
	script := writeScript(t, `
echo "warning: something" 1>&2
printf '{"id":"a1","title":"First","original_url":"https://x/a1","extractor":"generic"}\n'
printf 'garbage line\n'
printf '{"id":"b2","title":"Second","original_url":"https://x/b2","extractor":"generic"}\n'
`)

	r := New(&fakeAPI{})
	r.Downloader = script

	items, err := r.Resolve(context.Background(), ParseInput("https://example.com/mix"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Resolve returned %d items, want 2", len(items))
	}
}

func TestExtractSpawnFailureIsFatal(t *testing.T) {
	r := New(&fakeAPI{})
	r.Downloader = filepath.Join(t.TempDir(), "missing-binary")

	if _, err := r.Resolve(context.Background(), ParseInput("some search text")); err == nil {
		t.Fatal("Resolve succeeded with an unspawnable extractor")
	}
}
