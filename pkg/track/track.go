package track

// Record is the canonical metadata for one playable item. Records are
// immutable once constructed and copied by value into queues.
//
// The JSON tags match the per-line objects yt-dlp prints with -j, so a
// Record can be decoded straight from the extractor's output.
type Record struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	SourceURL  string  `json:"original_url"`
	Extractor  string  `json:"extractor"`
	Thumbnail  string  `json:"thumbnail,omitempty"`
	Duration   float64 `json:"duration,omitempty"`
	PlaylistID string  `json:"playlist_id,omitempty"`
	WebpageURL string  `json:"webpage_url,omitempty"`
	IsLive     bool    `json:"is_live,omitempty"`
	WasLive    bool    `json:"was_live,omitempty"`
}

// Valid reports whether the record carries enough data to be queued
// and played. Entries without a resolvable identifier or playable URL
// are dropped by the resolver.
func (r Record) Valid() bool {
	return r.ID != "" && r.SourceURL != ""
}
