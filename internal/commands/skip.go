package commands

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/rurigk/potv2/pkg/player"
)

// SkipCommand stops the current track and advances to the next one.
func (d *Deps) SkipCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	d.Notifier.Bind(m.GuildID, m.ChannelID)

	state, err := d.Engine.Skip(m.GuildID)
	switch {
	case errors.Is(err, player.ErrNotConnected):
		s.ChannelMessageSend(m.ChannelID, "Not in a voice channel")
	case errors.Is(err, player.ErrNotPlaying):
		s.ChannelMessageSend(m.ChannelID, "Nothing to play")
	case state == player.StatePlaying:
		s.ChannelMessageSend(m.ChannelID, "Song skipped")
	default:
		s.ChannelMessageSend(m.ChannelID, "Queue ended")
	}
}
