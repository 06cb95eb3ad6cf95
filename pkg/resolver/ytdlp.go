package resolver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/rurigk/potv2/pkg/track"
)

const downloaderCommand = "yt-dlp"

// audioFormat is the quality selector shared by metadata extraction
// and streaming: best audio-only, preferring constrained webm.
const audioFormat = "webm[abr>0]/bestaudio/best"

// searchTarget builds the extractor directive for a free-text query,
// limited to the single top match.
func searchTarget(query string) string {
	return "ytsearch1:" + query
}

// extractArgs builds the yt-dlp argument list for metadata
// extraction. -j prints one JSON object per line without downloading.
func extractArgs(target string, expandPlaylist bool) []string {
	args := []string{
		"-j",
		"-f", audioFormat,
		"-R", "infinite",
	}
	if expandPlaylist {
		args = append(args, "--yes-playlist")
	} else {
		args = append(args, "--no-playlist")
	}
	return append(args,
		"--ignore-config",
		"--no-warnings",
		target,
		"-o", "-",
	)
}

// extract runs yt-dlp against the target and parses its per-line JSON
// output. Lines that fail to parse are dropped; only a spawn failure
// is an error.
func (r *Resolver) extract(ctx context.Context, target string, expandPlaylist bool) ([]track.Record, error) {
	cmd := exec.CommandContext(ctx, r.Downloader, extractArgs(target, expandPlaylist)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("extractor stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("extractor stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", r.Downloader, err)
	}

	// Keep stderr flowing so the child never blocks on a full pipe
	// buffer. Its content is not inspected, but the drain must finish
	// before Wait closes the pipe out from under it.
	var drained sync.WaitGroup
	drained.Add(1)
	go func() {
		defer drained.Done()
		io.Copy(io.Discard, stderr)
	}()

	items := parseTrackLines(stdout)
	drained.Wait()
	cmd.Wait()

	return items, nil
}

// parseTrackLines decodes one track record per line, silently
// skipping lines that are not valid records.
func parseTrackLines(r io.Reader) []track.Record {
	// yt-dlp -j lines carry full format tables and routinely run to
	// hundreds of kilobytes.
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var items []track.Record
	for scanner.Scan() {
		var rec track.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if !rec.Valid() {
			continue
		}
		items = append(items, rec)
	}
	return items
}
