package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// QueueCommand lists the tracks waiting in the guild's queue.
func (d *Deps) QueueCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	pending := d.Store.Pending(m.GuildID)
	if len(pending) == 0 {
		s.ChannelMessageSend(m.ChannelID, "The queue is empty.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Queue** (%d):\n", len(pending))
	for i, t := range pending {
		if i >= 10 {
			fmt.Fprintf(&sb, "...and %d more\n", len(pending)-i)
			break
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, t.Title)
	}
	s.ChannelMessageSend(m.ChannelID, sb.String())
}

// ClearCommand empties the guild's queue without touching the track
// that is currently playing.
func (d *Deps) ClearCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if d.Store.Clear(m.GuildID) {
		s.ChannelMessageSend(m.ChannelID, "Queue cleared")
	} else {
		s.ChannelMessageSend(m.ChannelID, "Nothing to clear")
	}
}

// StatusCommand reports whether the guild is currently playing.
func (d *Deps) StatusCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if d.Store.IsPlaying(m.GuildID) {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Playing, %d queued", d.Store.Len(m.GuildID)))
	} else {
		s.ChannelMessageSend(m.ChannelID, "Nothing is playing.")
	}
}
