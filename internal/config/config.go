package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

var ErrDiscordTokenNotSet = errors.New("DISCORD_TOKEN is not set")

type Config struct {
	DiscordToken  string
	CommandPrefix string
	HistoryDBPath string
	CacheDir      string
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine; variables may come from the
	// environment directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken == "" {
		return nil, ErrDiscordTokenNotSet
	}

	prefix := os.Getenv("COMMAND_PREFIX")
	if prefix == "" {
		prefix = "!"
	}

	historyPath := os.Getenv("HISTORY_DB_PATH")
	if historyPath == "" {
		historyPath = "data/history.db"
	}

	return &Config{
		DiscordToken:  discordToken,
		CommandPrefix: prefix,
		HistoryDBPath: historyPath,
		CacheDir:      os.Getenv("CACHE_DIR"),
	}, nil
}
