package stream

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/rurigk/potv2/pkg/track"
)

// SampleFormat selects the raw PCM layout ffmpeg emits.
type SampleFormat string

const (
	FormatS16LE   SampleFormat = "s16le"
	FormatFloat32 SampleFormat = "f32le"
)

func (f SampleFormat) codec() string {
	if f == FormatFloat32 {
		return "pcm_f32le"
	}
	return "pcm_s16le"
}

// audioFormat is the downloader's quality selector: best audio-only,
// preferring constrained webm.
const audioFormat = "webm[abr>0]/bestaudio/best"

// Acquirer produces live decoded-audio streams for track records by
// chaining the downloader's stdout into the transcoder's stdin. With
// CacheDir set, tracks are downloaded to disk once and transcoded
// from the cached file on later plays.
type Acquirer struct {
	Downloader string
	Transcoder string
	Format     SampleFormat
	CacheDir   string
}

// NewAcquirer creates an acquirer with the default tool names.
func NewAcquirer() *Acquirer {
	return &Acquirer{
		Downloader: "yt-dlp",
		Transcoder: "ffmpeg",
		Format:     FormatS16LE,
	}
}

// Acquire yields a readable stream of raw interleaved PCM at 48 kHz
// stereo for the given track. The two child processes live exactly as
// long as the stream; Close reaps them. A downloader that exits early
// or produces nothing yields an eventually-empty stream, not an
// error; only a spawn failure is an error.
func (a *Acquirer) Acquire(t track.Record) (io.ReadCloser, error) {
	if a.CacheDir != "" {
		return a.acquireCached(t)
	}
	return a.acquirePiped(t)
}

func downloadArgs(sourceURL string) []string {
	return []string{
		"-f", audioFormat,
		"-R", "infinite",
		"--no-playlist",
		"--ignore-config",
		"--no-warnings",
		sourceURL,
		"-o", "-",
	}
}

func transcodeArgs(input string, format SampleFormat) []string {
	return []string{
		"-i", input,
		"-f", string(format),
		"-ac", "2",
		"-ar", "48000",
		"-acodec", format.codec(),
		"-",
	}
}

func (a *Acquirer) acquirePiped(t track.Record) (io.ReadCloser, error) {
	dl := exec.Command(a.Downloader, downloadArgs(t.SourceURL)...)
	dlOut, err := dl.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("downloader stdout pipe: %w", err)
	}
	dlErr, err := dl.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("downloader stderr pipe: %w", err)
	}
	if err := dl.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", a.Downloader, err)
	}

	// The downloader announces itself on stderr before it begins
	// writing media bytes. Wait for that first line before attaching
	// the transcoder; the blocking read runs on its own goroutine,
	// which then keeps draining so the child never stalls on a full
	// stderr pipe.
	ready := make(chan struct{})
	go func() {
		reader := bufio.NewReader(dlErr)
		reader.ReadString('\n')
		close(ready)
		io.Copy(io.Discard, reader)
	}()
	<-ready

	tc := exec.Command(a.Transcoder, transcodeArgs("-", a.Format)...)
	tc.Stdin = dlOut
	tcOut, err := tc.StdoutPipe()
	if err != nil {
		reap(dl)
		return nil, fmt.Errorf("transcoder stdout pipe: %w", err)
	}
	if err := tc.Start(); err != nil {
		reap(dl)
		return nil, fmt.Errorf("start %s: %w", a.Transcoder, err)
	}

	return &processStream{r: tcOut, procs: []*exec.Cmd{dl, tc}}, nil
}

// acquireCached transcodes from the on-disk cache, downloading the
// file first when it is not present yet.
func (a *Acquirer) acquireCached(t track.Record) (io.ReadCloser, error) {
	path := filepath.Join(a.CacheDir, "media", t.Extractor, t.ID)

	if !fileExists(path) {
		if err := a.downloadToFile(t.SourceURL, path); err != nil {
			return nil, err
		}
	}
	if !fileExists(path) {
		// The downloader ran but produced nothing; fall back to the
		// piped pipeline rather than failing the acquisition outright.
		log.Printf("cache miss after download for %s, streaming instead", t.ID)
		return a.acquirePiped(t)
	}

	tc := exec.Command(a.Transcoder, transcodeArgs(path, a.Format)...)
	tcOut, err := tc.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("transcoder stdout pipe: %w", err)
	}
	if err := tc.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", a.Transcoder, err)
	}

	return &processStream{r: tcOut, procs: []*exec.Cmd{tc}}, nil
}

// downloadToFile runs the downloader in its download-to-destination
// mode, single item only.
func (a *Acquirer) downloadToFile(sourceURL, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	cmd := exec.Command(a.Downloader,
		"-f", audioFormat,
		"-R", "infinite",
		"--no-playlist",
		"--ignore-config",
		"--no-warnings",
		sourceURL,
		"-o", path,
	)
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return fmt.Errorf("start %s: %w", a.Downloader, err)
		}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func reap(cmd *exec.Cmd) {
	if cmd.Process != nil {
		cmd.Process.Kill()
	}
	cmd.Wait()
}

// processStream ties the child processes' lifetimes to the returned
// stream: once the stream is fully consumed or discarded early, the
// children are killed and waited on so no zombies remain.
type processStream struct {
	r     io.ReadCloser
	procs []*exec.Cmd
	once  sync.Once
}

func (s *processStream) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil {
		s.Close()
	}
	return n, err
}

func (s *processStream) Close() error {
	s.once.Do(func() {
		s.r.Close()
		for _, cmd := range s.procs {
			if cmd.Process != nil {
				cmd.Process.Kill()
			}
		}
		for _, cmd := range s.procs {
			cmd.Wait()
		}
	})
	return nil
}
