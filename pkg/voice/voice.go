package voice

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// FindUserChannel returns the voice channel the user currently sits
// in, or an error when they are not in one.
func FindUserChannel(s *discordgo.Session, guildID, userID string) (string, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return "", fmt.Errorf("could not find guild: %w", err)
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID, nil
		}
	}
	return "", fmt.Errorf("you must be in a voice channel")
}

// Join connects to the given voice channel with retry and waits for
// the connection to become ready.
func Join(s *discordgo.Session, guildID, channelID string) (*discordgo.VoiceConnection, error) {
	var vc *discordgo.VoiceConnection
	var err error

	const maxRetries = 3
	for i := 0; i < maxRetries; i++ {
		vc, err = s.ChannelVoiceJoin(guildID, channelID, false, true)
		if err == nil {
			break
		}
		log.Printf("Voice join attempt %d/%d failed: %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(time.Duration(i+1) * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel after %d attempts: %w", maxRetries, err)
	}

	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			vc.Disconnect()
			return nil, fmt.Errorf("voice connection timed out")
		case <-ticker.C:
			if vc.Ready {
				return vc, nil
			}
		}
	}
}
