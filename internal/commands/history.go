package commands

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rurigk/potv2/pkg/history"
)

// HistoryCommand shows the guild's latest playback attempts.
func (d *Deps) HistoryCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if d.History == nil {
		s.ChannelMessageSend(m.ChannelID, "History is not enabled.")
		return
	}

	entries, err := d.History.Recent(m.GuildID, 10)
	if err != nil {
		log.Printf("history query error: %v", err)
		s.ChannelMessageSend(m.ChannelID, "Failed to read history.")
		return
	}
	if len(entries) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Nothing played yet.")
		return
	}

	var sb strings.Builder
	sb.WriteString("**Recently played:**\n")
	for _, e := range entries {
		marker := "▶"
		if e.Outcome == history.OutcomeFailed {
			marker = "✖"
		}
		fmt.Fprintf(&sb, "%s %s\n", marker, e.Title)
	}
	s.ChannelMessageSend(m.ChannelID, sb.String())
}
