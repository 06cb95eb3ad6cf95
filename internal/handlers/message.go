package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rurigk/potv2/internal/commands"
)

// MessageHandler dispatches prefix commands to their adapters.
type MessageHandler struct {
	deps   *commands.Deps
	prefix string
}

// NewMessageHandler creates the dispatcher.
func NewMessageHandler(deps *commands.Deps, prefix string) *MessageHandler {
	return &MessageHandler{deps: deps, prefix: prefix}
}

// Handle is registered on the discordgo session.
func (h *MessageHandler) Handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore all messages created by the bot itself
	if m.Author.ID == s.State.User.ID {
		return
	}
	if m.GuildID == "" {
		return
	}

	// Reply to bare mentions
	for _, mention := range m.Mentions {
		if mention.ID == s.State.User.ID {
			s.ChannelMessageSend(m.ChannelID, "Use "+h.prefix+"help to see what I can do.")
			return
		}
	}

	if !strings.HasPrefix(m.Content, h.prefix) {
		return
	}

	args := strings.Fields(strings.TrimPrefix(m.Content, h.prefix))
	if len(args) == 0 {
		return
	}
	command := strings.ToLower(args[0])

	switch command {
	case "play":
		h.deps.PlayCommand(s, m, args[1:])
	case "skip":
		h.deps.SkipCommand(s, m)
	case "queue":
		h.deps.QueueCommand(s, m)
	case "clear":
		h.deps.ClearCommand(s, m)
	case "status", "np":
		h.deps.StatusCommand(s, m)
	case "history":
		h.deps.HistoryCommand(s, m)
	case "join":
		h.deps.JoinCommand(s, m)
	case "leave":
		h.deps.LeaveCommand(s, m)
	case "help":
		h.deps.HelpCommand(s, m, h.prefix)
	}
}
