package history

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rurigk/potv2/pkg/track"
)

// Outcome is the result of one playback attempt.
type Outcome string

const (
	OutcomePlayed Outcome = "played"
	OutcomeFailed Outcome = "failed"
)

// Entry is one recorded playback attempt.
type Entry struct {
	GuildID  string
	TrackID  string
	Title    string
	Outcome  Outcome
	PlayedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS playback_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	guild_id TEXT NOT NULL,
	track_id TEXT NOT NULL,
	title TEXT NOT NULL,
	outcome TEXT NOT NULL,
	played_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_playback_history_guild
	ON playback_history(guild_id, played_at);
`

// Store persists playback outcomes per guild in sqlite. It records
// what was played or failed, not queue state.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record stores one playback attempt.
func (s *Store) Record(guildID string, t track.Record, outcome Outcome) error {
	_, err := s.db.Exec(
		`INSERT INTO playback_history (guild_id, track_id, title, outcome, played_at) VALUES (?, ?, ?, ?, ?)`,
		guildID, t.ID, t.Title, string(outcome), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("record playback: %w", err)
	}
	return nil
}

// Recent returns the guild's latest playback attempts, newest first.
func (s *Store) Recent(guildID string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT guild_id, track_id, title, outcome, played_at
		 FROM playback_history WHERE guild_id = ?
		 ORDER BY played_at DESC, id DESC LIMIT ?`,
		guildID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var outcome string
		if err := rows.Scan(&e.GuildID, &e.TrackID, &e.Title, &outcome, &e.PlayedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Outcome = Outcome(outcome)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecordPlayed implements the player's history hook for successful
// starts. Persistence failures are logged, never surfaced to the
// playback path.
func (s *Store) RecordPlayed(guildID string, t track.Record) {
	if err := s.Record(guildID, t, OutcomePlayed); err != nil {
		log.Printf("history: %v", err)
	}
}

// RecordFailed implements the player's history hook for failed
// acquisitions.
func (s *Store) RecordFailed(guildID string, t track.Record) {
	if err := s.Record(guildID, t, OutcomeFailed); err != nil {
		log.Printf("history: %v", err)
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
