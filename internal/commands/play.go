package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rurigk/potv2/pkg/player"
	"github.com/rurigk/potv2/pkg/resolver"
	"github.com/rurigk/potv2/pkg/voice"
)

// PlayCommand resolves the user's input, queues the results and kicks
// the engine when the session is idle.
func (d *Deps) PlayCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		s.ChannelMessageSend(m.ChannelID, "Search a song or use a url to a song.")
		return
	}

	guildID := m.GuildID
	d.Notifier.Bind(guildID, m.ChannelID)

	input := resolver.ParseInput(strings.Join(args, " "))

	if err := d.joinInvokerChannel(s, m); err != nil && !errors.Is(err, player.ErrAlreadyConnected) {
		log.Printf("voice join error: %v", err)
		s.ChannelMessageSend(m.ChannelID, "Cannot join")
		return
	}

	items, err := d.Resolver.Resolve(context.Background(), input)
	if err != nil {
		log.Printf("resolve error: %v", err)
		s.ChannelMessageSend(m.ChannelID, "Error adding to the playlist")
		return
	}

	added := d.Store.Add(guildID, items, input.Kind == resolver.InputSearch)
	switch {
	case added == 0:
		s.ChannelMessageSend(m.ChannelID, "Nothing found")
		return
	case added > 1:
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("%d songs added", added))
	default:
		s.ChannelMessageSend(m.ChannelID, "1 song added")
	}

	d.Engine.StartIfIdle(guildID)
}

// joinInvokerChannel connects to the channel the command's author sits
// in and attaches the connection to the engine. Returns
// player.ErrAlreadyConnected when the session already has a sink.
func (d *Deps) joinInvokerChannel(s *discordgo.Session, m *discordgo.MessageCreate) error {
	if d.Engine.Connected(m.GuildID) {
		return player.ErrAlreadyConnected
	}

	channelID, err := voice.FindUserChannel(s, m.GuildID, m.Author.ID)
	if err != nil {
		return err
	}

	vc, err := voice.Join(s, m.GuildID, channelID)
	if err != nil {
		return err
	}

	if err := d.Engine.Attach(m.GuildID, voice.NewConn(vc)); err != nil {
		vc.Disconnect()
		return err
	}

	s.ChannelMessageSend(m.ChannelID, "Joined")
	return nil
}
