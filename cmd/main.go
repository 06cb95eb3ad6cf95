package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/rurigk/potv2/internal/commands"
	"github.com/rurigk/potv2/internal/config"
	"github.com/rurigk/potv2/internal/handlers"
	"github.com/rurigk/potv2/pkg/history"
	"github.com/rurigk/potv2/pkg/player"
	"github.com/rurigk/potv2/pkg/queue"
	"github.com/rurigk/potv2/pkg/resolver"
	"github.com/rurigk/potv2/pkg/stream"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := setupDirectories(cfg); err != nil {
		log.Fatalf("Failed to set up directories: %v", err)
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentMessageContent

	hist, err := history.Open(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("Failed to open history store: %v", err)
	}
	defer hist.Close()

	store := queue.NewStore()
	notifier := commands.NewChannelNotifier(dg)

	acquirer := stream.NewAcquirer()
	acquirer.CacheDir = cfg.CacheDir

	engine := player.NewEngine(store, acquirer, notifier, hist)

	deps := &commands.Deps{
		Store:    store,
		Resolver: resolver.New(resolver.NewYouTubeAPI()),
		Engine:   engine,
		History:  hist,
		Notifier: notifier,
	}

	dg.AddHandler(handlers.NewMessageHandler(deps, cfg.CommandPrefix).Handle)

	if err := dg.Open(); err != nil {
		log.Fatalf("Failed to open Discord session: %v", err)
	}

	log.Println("Bot is running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	dg.Close()
}

// setupDirectories creates the data tree the bot writes into. A path
// that exists but is not a directory is a hard error.
func setupDirectories(cfg *config.Config) error {
	dirs := []string{filepath.Dir(cfg.HistoryDBPath)}
	if cfg.CacheDir != "" {
		dirs = append(dirs, filepath.Join(cfg.CacheDir, "media"))
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
