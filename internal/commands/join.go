package commands

import (
	"errors"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/rurigk/potv2/pkg/player"
)

// JoinCommand connects the bot to the invoker's voice channel.
func (d *Deps) JoinCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	d.Notifier.Bind(m.GuildID, m.ChannelID)

	err := d.joinInvokerChannel(s, m)
	switch {
	case err == nil:
		// joinInvokerChannel already confirmed.
	case errors.Is(err, player.ErrAlreadyConnected):
		s.ChannelMessageSend(m.ChannelID, "Already joined")
	default:
		log.Printf("voice join error: %v", err)
		s.ChannelMessageSend(m.ChannelID, "Cannot join")
	}
}

// LeaveCommand clears the queue and disconnects from voice.
func (d *Deps) LeaveCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	d.Notifier.Bind(m.GuildID, m.ChannelID)

	if err := d.Engine.Detach(m.GuildID); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Not in a voice channel")
		return
	}
	s.ChannelMessageSend(m.ChannelID, "Left voice channel")
}
