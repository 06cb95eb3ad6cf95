package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// HelpCommand lists the available commands.
func (d *Deps) HelpCommand(s *discordgo.Session, m *discordgo.MessageCreate, prefix string) {
	help := fmt.Sprintf(
		"**Commands:**\n"+
			"`%[1]splay <url or search>` - Queue a song or playlist\n"+
			"`%[1]sskip` - Skip to the next song\n"+
			"`%[1]squeue` - Show the queue\n"+
			"`%[1]sclear` - Empty the queue\n"+
			"`%[1]sstatus` - Show what is playing\n"+
			"`%[1]shistory` - Recently played songs\n"+
			"`%[1]sjoin` - Join your voice channel\n"+
			"`%[1]sleave` - Leave the voice channel",
		prefix)
	s.ChannelMessageSend(m.ChannelID, help)
}
