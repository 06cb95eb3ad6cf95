package commands

import (
	"github.com/rurigk/potv2/pkg/history"
	"github.com/rurigk/potv2/pkg/player"
	"github.com/rurigk/potv2/pkg/queue"
	"github.com/rurigk/potv2/pkg/resolver"
)

// Deps carries the shared collaborators every command adapter needs.
// Commands stay thin: parse the message, call into the playback core
// and relay the returned status as a reply.
type Deps struct {
	Store    *queue.Store
	Resolver *resolver.Resolver
	Engine   *player.Engine
	History  *history.Store
	Notifier *ChannelNotifier
}
