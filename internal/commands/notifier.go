package commands

import (
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// ChannelNotifier sends playback notifications to the text channel a
// guild's last command came from.
type ChannelNotifier struct {
	session *discordgo.Session

	mu       sync.RWMutex
	channels map[string]string // guild ID -> channel ID
}

// NewChannelNotifier creates a notifier bound to the session.
func NewChannelNotifier(s *discordgo.Session) *ChannelNotifier {
	return &ChannelNotifier{
		session:  s,
		channels: make(map[string]string),
	}
}

// Bind remembers where the guild's notifications should go.
func (n *ChannelNotifier) Bind(guildID, channelID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.channels[guildID] = channelID
}

// Notify sends a status line to the guild's bound channel.
func (n *ChannelNotifier) Notify(guildID, message string) {
	n.mu.RLock()
	channelID := n.channels[guildID]
	n.mu.RUnlock()

	if channelID == "" {
		return
	}
	if _, err := n.session.ChannelMessageSend(channelID, message); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
