package queue

import (
	"testing"

	"github.com/rurigk/potv2/pkg/track"
)

func rec(id string) track.Record {
	return track.Record{
		ID:        id,
		Title:     "title " + id,
		SourceURL: "https://www.youtube.com/watch?v=" + id,
		Extractor: "youtube",
	}
}

func TestConsumeReturnsItemsInOrder(t *testing.T) {
	s := NewStore()

	added := s.Add("guild1", []track.Record{rec("a"), rec("b"), rec("c")}, false)
	if added != 3 {
		t.Fatalf("Add returned %d, want 3", added)
	}

	for _, want := range []string{"a", "b", "c"} {
		item, ok := s.Consume("guild1")
		if !ok {
			t.Fatalf("Consume returned nothing, want %s", want)
		}
		if item.ID != want {
			t.Errorf("Consume returned %s, want %s", item.ID, want)
		}
	}

	if _, ok := s.Consume("guild1"); ok {
		t.Error("Consume on drained queue returned an item")
	}
}

func TestConsumeUnknownGuild(t *testing.T) {
	s := NewStore()
	if _, ok := s.Consume("nope"); ok {
		t.Error("Consume on unknown guild returned an item")
	}
}

func TestAddSearchCapsAtOne(t *testing.T) {
	s := NewStore()

	tests := []struct {
		name  string
		items []track.Record
		want  int
	}{
		{"no results", nil, 0},
		{"one result", []track.Record{rec("a")}, 1},
		{"many results", []track.Record{rec("a"), rec("b"), rec("c")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guild := "guild-" + tt.name
			if got := s.Add(guild, tt.items, true); got != tt.want {
				t.Errorf("Add returned %d, want %d", got, tt.want)
			}
			if got := s.Len(guild); got != tt.want {
				t.Errorf("queue holds %d items, want %d", got, tt.want)
			}
		})
	}
}

func TestAddURLAppendsAll(t *testing.T) {
	s := NewStore()

	if got := s.Add("guild1", []track.Record{rec("a"), rec("b")}, false); got != 2 {
		t.Fatalf("Add returned %d, want 2", got)
	}
	if got := s.Add("guild1", []track.Record{rec("c")}, false); got != 1 {
		t.Fatalf("second Add returned %d, want 1", got)
	}
	if got := s.Len("guild1"); got != 3 {
		t.Errorf("queue holds %d items, want 3", got)
	}
}

func TestClear(t *testing.T) {
	s := NewStore()

	if s.Clear("guild1") {
		t.Error("Clear on unknown guild reported an existing queue")
	}

	s.Add("guild1", []track.Record{rec("a"), rec("b")}, false)
	if !s.Clear("guild1") {
		t.Error("Clear on existing queue reported no queue")
	}
	if got := s.Len("guild1"); got != 0 {
		t.Errorf("queue holds %d items after Clear, want 0", got)
	}

	// The entry persists: a cleared queue is still a known queue.
	if !s.Clear("guild1") {
		t.Error("Clear after Clear reported no queue")
	}
}

func TestPlayingFlag(t *testing.T) {
	s := NewStore()

	if s.IsPlaying("guild1") {
		t.Error("unknown guild reported as playing")
	}

	s.SetPlaying("guild1", true)
	if !s.IsPlaying("guild1") {
		t.Error("guild not playing after SetPlaying(true)")
	}

	s.SetPlaying("guild1", false)
	if s.IsPlaying("guild1") {
		t.Error("guild still playing after SetPlaying(false)")
	}
}

func TestPendingReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add("guild1", []track.Record{rec("a"), rec("b")}, false)

	pending := s.Pending("guild1")
	if len(pending) != 2 {
		t.Fatalf("Pending returned %d items, want 2", len(pending))
	}
	pending[0].ID = "mutated"

	item, _ := s.Consume("guild1")
	if item.ID != "a" {
		t.Errorf("mutating Pending's result leaked into the store: got %s", item.ID)
	}
}

func TestSingleVideoScenario(t *testing.T) {
	s := NewStore()

	added := s.Add("guild1", []track.Record{rec("ID1")}, false)
	if added != 1 {
		t.Fatalf("Add returned %d, want 1", added)
	}

	item, ok := s.Consume("guild1")
	if !ok || item.ID != "ID1" {
		t.Fatalf("Consume returned (%v, %v), want ID1", item.ID, ok)
	}

	if _, ok := s.Consume("guild1"); ok {
		t.Error("second Consume returned an item, want nothing")
	}
}
