package voice

import (
	"io"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

const (
	sampleRate = 48000
	channels   = 2
	frameSize  = 960                           // 20ms at 48kHz
	frameBytes = frameSize * channels * 2      // s16le
	bitrate    = 128000
)

// Conn adapts a discordgo voice connection to the player's sink
// contract: it consumes raw s16le PCM streams, encodes 20ms opus
// frames and writes them to the connection's send channel.
type Conn struct {
	vc *discordgo.VoiceConnection

	mu     sync.Mutex
	stop   chan struct{} // per-stream, nil when nothing is playing
	stream io.ReadCloser // active stream, closed on stop
}

// NewConn wraps a ready voice connection.
func NewConn(vc *discordgo.VoiceConnection) *Conn {
	return &Conn{vc: vc}
}

// Play starts streaming. onEnd runs exactly once when the stream is
// exhausted naturally; a stream cut short by Stop never fires it.
func (c *Conn) Play(stream io.ReadCloser, onEnd func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	stop := make(chan struct{})
	c.stop = stop
	c.stream = stream

	go c.send(stream, stop, onEnd)
}

// Stop cuts the current stream without firing its end callback. It
// signals the sender goroutine and closes the stream, which reaps the
// stream's child processes and unblocks a sender stuck reading a
// stalled pipeline; it does not wait for the goroutine, so it is safe
// to call from the engine's exclusive section.
func (c *Conn) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Conn) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	if c.stream != nil {
		c.stream.Close()
		c.stream = nil
	}
}

// Disconnect stops any current stream and leaves the voice channel.
func (c *Conn) Disconnect() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()

	c.vc.Disconnect()
}

func (c *Conn) send(stream io.ReadCloser, stop chan struct{}, onEnd func()) {
	defer stream.Close()

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		log.Printf("failed to create opus encoder: %v", err)
		onEnd()
		return
	}
	encoder.SetBitrate(bitrate)

	c.vc.Speaking(true)
	defer c.vc.Speaking(false)

	buffer := make([]byte, frameBytes)
	for {
		select {
		case <-stop:
			return
		default:
		}

		if _, err := io.ReadFull(stream, buffer); err != nil {
			// EOF or a short final frame: the track ran out.
			break
		}

		frame, err := encoder.Encode(bytesToInt16(buffer), frameSize, frameBytes)
		if err != nil {
			log.Printf("opus encoding error: %v", err)
			continue
		}

		select {
		case c.vc.OpusSend <- frame:
		case <-stop:
			return
		}
	}

	// A read error after Stop is the closed stream, not a natural
	// end.
	select {
	case <-stop:
		return
	default:
	}
	onEnd()
}

func bytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}
