package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/bigbite/internal/logger"
)

// AudioPlayer plays WAV audio. Play blocks until playback finishes or Stop
// is called from another goroutine.
type AudioPlayer interface {
	Play(wav []byte) error
	Stop()
}

// Compile-time interface check.
var _ AudioPlayer = (*OtoPlayer)(nil)

// OtoPlayer plays PCM audio through the system output via oto.
type OtoPlayer struct {
	ctx *oto.Context
	log *logger.Logger

	mu     sync.Mutex
	active *oto.Player // nil when idle
}

// NewOtoPlayer initialises the system audio context. It fails when no audio
// device is available.
func NewOtoPlayer(log *logger.Logger) (*OtoPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	log.Debug("audio player initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &OtoPlayer{ctx: ctx, log: log}, nil
}

// Play plays WAV audio data synchronously.
func (p *OtoPlayer) Play(wav []byte) error {
	pcm, err := extractPCM(wav)
	if err != nil {
		return err
	}

	player := p.ctx.NewPlayer(bytes.NewReader(pcm))
	p.mu.Lock()
	p.active = player
	p.mu.Unlock()

	player.Play()
	p.log.Debug("audio player: playing %d bytes of PCM", len(pcm))

	tick := time.NewTicker(10 * time.Millisecond)
	for player.IsPlaying() {
		<-tick.C
	}
	tick.Stop()

	p.mu.Lock()
	p.active = nil
	p.mu.Unlock()
	return player.Close()
}

// Stop pauses the current playback, if any. Play then returns.
func (p *OtoPlayer) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("audio player: interrupted")
	}
}

// extractPCM walks the RIFF chunks and returns the "data" payload.
func extractPCM(wav []byte) ([]byte, error) {
	if len(wav) < 44 {
		return nil, errors.New("speech: wav data too short")
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("speech: not a WAV file")
	}

	for pos := 12; pos+8 <= len(wav); {
		id := string(wav[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		if id == "data" {
			start := pos + 8
			return wav[start:min(start+size, len(wav))], nil
		}
		// Chunks are word-aligned.
		pos += 8 + size + size%2
	}
	return nil, errors.New("speech: data chunk not found")
}
